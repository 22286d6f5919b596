package server

import (
	"context"
	"log/slog"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/nfse-ingest/internal/common"
	"github.com/joseph-ayodele/nfse-ingest/internal/reference"
	repo "github.com/joseph-ayodele/nfse-ingest/internal/repository"
)

// ConnectDB opens the configured store, checks it responds, and applies the
// schema and reference data. The pool is nil for SQLite.
func ConnectDB(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*entsql.Driver, *pgxpool.Pool, error) {
	drv, pool, err := repo.Open(ctx, repo.ConfigFrom(cfg.App.Name, cfg.Database), logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, nil, err
	}
	if err := repo.HealthCheck(ctx, drv, cfg.Database.HealthTimeout, logger); err != nil {
		logger.Error("database ping failed", "error", err)
		repo.Close(drv, pool, logger)
		return nil, nil, err
	}

	catalog, err := reference.Load()
	if err != nil {
		logger.Error("failed to load reference data", "error", err)
		repo.Close(drv, pool, logger)
		return nil, nil, err
	}
	if err := repo.Migrate(ctx, drv, catalog, logger); err != nil {
		logger.Error("failed to migrate database", "error", err)
		repo.Close(drv, pool, logger)
		return nil, nil, err
	}

	logger.Info("successfully connected to database", "dialect", drv.Dialect())
	return drv, pool, nil
}
