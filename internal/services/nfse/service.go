// Package nfse exposes the invoice ingestion entry points. Every operation
// returns a result value; domain failures never surface as Go errors.
package nfse

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/nfse-ingest/constants"
	"github.com/joseph-ayodele/nfse-ingest/internal/coerce"
	"github.com/joseph-ayodele/nfse-ingest/internal/common"
	"github.com/joseph-ayodele/nfse-ingest/internal/entity"
	"github.com/joseph-ayodele/nfse-ingest/internal/normalize"
	"github.com/joseph-ayodele/nfse-ingest/internal/repository"
)

// InsertResult is the outcome of one insert.
type InsertResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	NotaID   *int64 `json:"nota_id"`
	Existing bool   `json:"existing,omitempty"`
	Error    string `json:"error,omitempty"`
	// Reason is the failing persistence step, e.g. HEADER_INSERT.
	Reason string `json:"reason,omitempty"`
}

// QueryResult is the outcome of a read. A failed statement keeps Success
// true with empty Data and the cause in Error; only an unreachable store
// reports Success false.
type QueryResult struct {
	Success bool             `json:"success"`
	Count   int              `json:"count"`
	Data    []repository.Row `json:"data"`
	Error   string           `json:"error,omitempty"`
}

// StatsResult carries the row count of each reported table.
type StatsResult struct {
	Success bool                    `json:"success"`
	Data    []repository.TableCount `json:"data"`
	Error   string                  `json:"error,omitempty"`
}

// Service handles invoice normalization, persistence and reads.
type Service struct {
	invoices repository.InvoiceRepository
	queries  repository.QueryRepository
	coercer  *coerce.Coercer
	logger   *slog.Logger
}

// NewService creates a new invoice service.
func NewService(invoices repository.InvoiceRepository, queries repository.QueryRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		invoices: invoices,
		queries:  queries,
		coercer:  coerce.New(logger),
		logger:   logger,
	}
}

// Insert normalizes payload and persists it. payload may be a Mapping, a
// map[string]any, or JSON, XML or free text as string or []byte.
func (s *Service) Insert(ctx context.Context, payload any) (res InsertResult) {
	ctx, requestID := common.EnsureRequestID(ctx)
	logger := s.logger.With("request_id", requestID)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("insert panicked", "panic", r)
			res = failure(common.NewAppError(string(constants.FailureInternal), "unexpected failure", fmt.Errorf("%v", r)))
		}
	}()

	rec := normalize.Normalize(payload)
	if rec.IsEmpty() {
		logger.Warn("payload produced an empty record; defaults will be stored")
	}
	inv := toInvoice(rec, s.coercer)

	out, err := s.invoices.Insert(ctx, inv)
	if err != nil {
		logger.Error("failed to insert nota fiscal", "reason", common.CodeOf(err), "error", err)
		return failure(err)
	}

	id := out.NotaID
	logger.Info("nota fiscal processed",
		"nota_id", id,
		"numero", inv.Nota.Numero,
		"existing", out.Existing,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	msg := "Nota fiscal inserida com sucesso!"
	if out.Existing {
		msg = "Nota fiscal já existente"
	}
	return InsertResult{Success: true, Message: msg, NotaID: &id, Existing: out.Existing}
}

func failure(err error) InsertResult {
	reason := common.CodeOf(err)
	if reason == "" {
		reason = string(constants.FailureInternal)
	}
	return InsertResult{
		Success: false,
		Message: "Erro ao processar nota fiscal",
		Error:   err.Error(),
		Reason:  reason,
	}
}

// Query runs a read statement.
func (s *Service) Query(ctx context.Context, statement string) QueryResult {
	ctx, requestID := common.EnsureRequestID(ctx)
	rows, err := s.queries.Query(ctx, statement)
	if err != nil {
		s.logger.Warn("query failed", "request_id", requestID, "error", err)
		return rowsResult(nil, err)
	}
	s.logger.Debug("query executed", "request_id", requestID, "rows", len(rows))
	return rowsResult(rows, nil)
}

// Dictionary returns the field dictionary.
func (s *Service) Dictionary(ctx context.Context) QueryResult {
	ctx, requestID := common.EnsureRequestID(ctx)
	rows, err := s.queries.Dictionary(ctx)
	if err != nil {
		s.logger.Warn("dictionary read failed", "request_id", requestID, "error", err)
	}
	return rowsResult(rows, err)
}

// Stats returns row counts per table.
func (s *Service) Stats(ctx context.Context) StatsResult {
	ctx, requestID := common.EnsureRequestID(ctx)
	counts, err := s.queries.Stats(ctx)
	if err != nil {
		s.logger.Warn("stats failed", "request_id", requestID, "error", err)
		return StatsResult{Success: false, Data: []repository.TableCount{}, Error: err.Error()}
	}
	return StatsResult{Success: true, Data: counts}
}

// ListInvoices returns every stored invoice in summary form.
func (s *Service) ListInvoices(ctx context.Context) ([]*entity.InvoiceSummary, error) {
	return s.invoices.ListInvoices(ctx)
}

func rowsResult(rows []repository.Row, err error) QueryResult {
	if err != nil {
		return QueryResult{
			Success: common.CodeOf(err) != string(constants.FailureConnection),
			Data:    []repository.Row{},
			Error:   err.Error(),
		}
	}
	if rows == nil {
		rows = []repository.Row{}
	}
	return QueryResult{Success: true, Count: len(rows), Data: rows}
}
