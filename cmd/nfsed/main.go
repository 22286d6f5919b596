package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/joseph-ayodele/nfse-ingest/constants"
	"github.com/joseph-ayodele/nfse-ingest/internal/async"
	"github.com/joseph-ayodele/nfse-ingest/internal/common"
	"github.com/joseph-ayodele/nfse-ingest/internal/export"
	"github.com/joseph-ayodele/nfse-ingest/internal/extract"
	"github.com/joseph-ayodele/nfse-ingest/internal/ingest"
	repo "github.com/joseph-ayodele/nfse-ingest/internal/repository"
	"github.com/joseph-ayodele/nfse-ingest/internal/server"
	"github.com/joseph-ayodele/nfse-ingest/internal/services/nfse"
	"github.com/joseph-ayodele/nfse-ingest/internal/tool"
)

func main() {
	cfg := common.LoadConfig()
	logger := common.NewLogger(cfg.App)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	drv, pool, err := server.ConnectDB(ctx, cfg, logger)
	if err != nil {
		os.Exit(1)
	}
	defer repo.Close(drv, pool, logger)

	invoices := repo.NewInvoiceRepository(drv, logger)
	queries := repo.NewQueryRepository(drv, logger)
	svc := nfse.NewService(invoices, queries, logger)
	exporter := export.NewService(svc, logger)
	extractor := extract.NewFileExtractor(extract.Config{MaxBytes: cfg.Ingest.MaxFileBytes}, logger)
	ingestor := ingest.NewUsecase(extractor, svc, repo.NewSourceFileRepository(drv, logger), logger)

	// gRPC server
	grpcServer := grpc.NewServer()
	server.RegisterNFSeServiceServer(grpcServer, server.NewNFSeServer(svc, ingestor, exporter, logger))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	if cfg.Server.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
		if err != nil {
			logger.Error("failed to listen on address", "addr", cfg.Server.GRPCAddr, "error", err)
			os.Exit(1)
		}
		logger.Info("gRPC server listening", "addr", cfg.Server.GRPCAddr)
		go func() {
			if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				logger.Error("gRPC serve error", "error", err)
				stop()
			}
		}()
	}

	var queue *async.ProcessorQueue
	if cfg.Ingest.InboxDir != "" {
		queue = async.NewProcessorQueue(ingestor, logger,
			async.WithWorkers(cfg.Ingest.Workers),
			async.WithQueueSize(cfg.Ingest.QueueSize),
			async.WithProcessTimeout(cfg.Ingest.ProcessTimeout),
		)
		if err := watchInbox(ctx, cfg.Ingest, queue, logger); err != nil {
			logger.Error("failed to start inbox watcher", "dir", cfg.Ingest.InboxDir, "error", err)
			os.Exit(1)
		}
	}

	if cfg.Server.HTTPAddr != "" {
		router := server.NewRouter(server.HTTPOptions{
			Service:  svc,
			Exporter: exporter,
			MCP:      tool.NewServer(cfg.App.Name, constants.Version, svc),
			Health: func(ctx context.Context) error {
				return repo.HealthCheck(ctx, drv, cfg.Database.HealthTimeout, logger)
			},
			Logger: logger,
		})
		if err := server.RunHTTP(ctx, cfg.Server.HTTPAddr, router, cfg.Server.ShutdownTimeout, logger); err != nil {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}

	<-ctx.Done()
	logger.Info("shutting down")
	healthServer.Shutdown()
	if queue != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		queue.Shutdown(shutdownCtx)
		cancel()
	}
	stopGRPC(grpcServer, cfg.Server.ShutdownTimeout)
}

// watchInbox feeds new inbox files into the ingest queue until ctx is done.
func watchInbox(ctx context.Context, cfg common.IngestConfig, queue async.Queue, logger *slog.Logger) error {
	paths, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{cfg.InboxDir},
		InitialScan: true,
		Debounce:    cfg.Debounce,
	}, logger)
	if err != nil {
		return err
	}

	go func() {
		for err := range errs {
			logger.Warn("inbox watcher error", "error", err)
		}
	}()
	go func() {
		for p := range paths {
			job := async.Job{Path: p, SubmittedAt: time.Now(), TraceID: uuid.NewString()}
			if err := queue.Enqueue(ctx, job); err != nil {
				logger.Warn("failed to enqueue inbox file", "path", p, "error", err)
			}
		}
	}()
	logger.Info("watching inbox", "dir", cfg.InboxDir)
	return nil
}

func stopGRPC(s *grpc.Server, timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		s.Stop()
	}
}
