package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/joseph-ayodele/nfse-ingest/internal/common"
	"github.com/joseph-ayodele/nfse-ingest/internal/export"
	"github.com/joseph-ayodele/nfse-ingest/internal/services/nfse"
)

const (
	maxBodyBytes = 10 << 20
	xlsxMIME     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// HTTPOptions wires the HTTP surface. MCP and Exporter are optional.
type HTTPOptions struct {
	Service  *nfse.Service
	Exporter *export.Service
	MCP      *mcp.Server
	Health   func(ctx context.Context) error
	Logger   *slog.Logger
}

type httpHandler struct {
	svc      *nfse.Service
	exporter *export.Service
	health   func(ctx context.Context) error
	logger   *slog.Logger
}

// NewRouter builds the chi router exposing the invoice endpoints.
func NewRouter(opts HTTPOptions) http.Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	h := &httpHandler{svc: opts.Service, exporter: opts.Exporter, health: opts.Health, logger: opts.Logger}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(opts.Logger))

	r.Get("/health", h.healthz)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/nfse", h.insert)
		r.Post("/query", h.query)
		r.Get("/dictionary", h.dictionary)
		r.Get("/stats", h.stats)
		r.Get("/export", h.export)
	})
	if opts.MCP != nil {
		r.Handle("/mcp", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return opts.MCP }, nil))
	}
	return r
}

// insert takes the raw request body as the payload: JSON, XML or free text.
func (h *httpHandler) insert(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	if strings.TrimSpace(string(body)) == "" {
		writeError(w, http.StatusBadRequest, "request body is required")
		return
	}

	res := h.svc.Insert(r.Context(), string(body))
	switch {
	case !res.Success:
		writeJSON(w, http.StatusUnprocessableEntity, res)
	case res.Existing:
		writeJSON(w, http.StatusOK, res)
	default:
		writeJSON(w, http.StatusCreated, res)
	}
}

type queryRequest struct {
	SQL string `json:"sql"`
}

func (h *httpHandler) query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.SQL) == "" {
		writeError(w, http.StatusBadRequest, "sql is required")
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Query(r.Context(), req.SQL))
}

func (h *httpHandler) dictionary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Dictionary(r.Context()))
}

func (h *httpHandler) stats(w http.ResponseWriter, r *http.Request) {
	res := h.svc.Stats(r.Context())
	code := http.StatusOK
	if !res.Success {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, res)
}

func (h *httpHandler) export(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		writeError(w, http.StatusNotImplemented, "export is not enabled")
		return
	}
	xlsx, err := h.exporter.ExportInvoicesXLSX(r.Context())
	if err != nil {
		h.logger.Error("export failed", "error", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	w.Header().Set("Content-Type", xlsxMIME)
	w.Header().Set("Content-Disposition", `attachment; filename="notas.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(xlsx)
}

func (h *httpHandler) healthz(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health(r.Context()); err != nil {
			h.logger.Warn("health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestLogger logs each request and copies chi's request ID into the
// context so service logs share it.
func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := chimw.GetReqID(r.Context())
			ctx := r.Context()
			if requestID != "" {
				ctx = common.WithRequestID(ctx, requestID)
			}

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes", ww.BytesWritten(),
				"request_id", requestID,
			}
			switch {
			case status >= 500:
				log.Error("HTTP request", attrs...)
			case status >= 400:
				log.Warn("HTTP request", attrs...)
			default:
				log.Info("HTTP request", attrs...)
			}
		})
	}
}

// RunHTTP serves handler on addr until ctx is done, then shuts down within timeout.
func RunHTTP(ctx context.Context, addr string, handler http.Handler, timeout time.Duration, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
