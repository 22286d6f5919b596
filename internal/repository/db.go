package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/nfse-ingest/constants"
	"github.com/joseph-ayodele/nfse-ingest/internal/common"
)

const sqliteDriver = "sqlite"

type Config struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
	AppName          string
}

// ConfigFrom maps the application database settings onto a repository Config.
func ConfigFrom(app string, c common.DatabaseConfig) Config {
	return Config{
		DSN:              c.DSN,
		MaxConns:         c.MaxConns,
		MinConns:         c.MinConns,
		MaxConnLifetime:  c.MaxConnLifetime,
		MaxConnIdleTime:  c.MaxConnIdleTime,
		DialTimeout:      c.DialTimeout,
		StatementTimeout: c.StatementTimeout,
		AppName:          app,
	}
}

// IsPostgres reports whether dsn addresses a PostgreSQL server.
func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Open connects to the store named by cfg.DSN and wraps it as an ent driver.
// PostgreSQL DSNs go through a pgx pool, which is returned alongside; any
// other DSN opens SQLite with foreign keys enforced and a nil pool.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*entsql.Driver, *pgxpool.Pool, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if IsPostgres(cfg.DSN) {
		return openPostgres(ctx, cfg, logger)
	}
	drv, err := openSQLite(ctx, cfg, logger)
	return drv, nil, err
}

func openPostgres(ctx context.Context, cfg Config, logger *slog.Logger) (*entsql.Driver, *pgxpool.Pool, error) {
	logger.Info("connecting to database", "dialect", dialect.Postgres)
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, nil, err
	}

	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	if cfg.AppName != "" {
		pc.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	if cfg.StatementTimeout > 0 {
		pc.ConnConfig.RuntimeParams["statement_timeout"] = fmt.Sprint(cfg.StatementTimeout.Milliseconds())
	}

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, nil, err
	}

	// Wrap pool as *sql.DB for ent
	db := stdlib.OpenDBFromPool(pool)
	drv := entsql.OpenDB(dialect.Postgres, db)

	logger.Info("successfully connected to database")
	return drv, pool, nil
}

func openSQLite(ctx context.Context, cfg Config, logger *slog.Logger) (*entsql.Driver, error) {
	dsn := sqliteDSN(cfg.DSN)
	logger.Info("connecting to database", "dialect", dialect.SQLite, "dsn", dsn)

	if err := ensureDir(dsn); err != nil {
		logger.Error("failed to prepare database directory", "error", err)
		return nil, err
	}
	db, err := sql.Open(sqliteDriver, dsn)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}
	// one writer at a time; transactions hold the only connection
	db.SetMaxOpenConns(1)

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}

	logger.Info("successfully connected to database")
	return entsql.OpenDB(dialect.SQLite, db), nil
}

// sqliteDSN adds the pragmas every connection needs when they are missing.
func sqliteDSN(dsn string) string {
	dsn = strings.TrimPrefix(dsn, "sqlite://")
	if dsn == "" {
		dsn = common.DefaultDSN
	}
	for _, pragma := range []string{"foreign_keys(1)", "busy_timeout(5000)"} {
		name := pragma[:strings.IndexByte(pragma, '(')]
		if strings.Contains(dsn, name) {
			continue
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=" + pragma
	}
	return dsn
}

// ensureDir creates the parent directory of a file-backed SQLite DSN.
func ensureDir(dsn string) error {
	if strings.Contains(dsn, "mode=memory") || strings.Contains(dsn, ":memory:") {
		return nil
	}
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Close closes the database connections gracefully
func Close(drv *entsql.Driver, pool *pgxpool.Pool, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("closing database connections")
	if drv != nil {
		if err := drv.Close(); err != nil {
			logger.Error("failed to close database driver", "error", err)
		}
	}
	if pool != nil {
		pool.Close()
	}
	logger.Info("database connections closed")
}

// HealthCheck pings the store to catch DSN issues early.
func HealthCheck(ctx context.Context, drv *entsql.Driver, timeout time.Duration, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("pinging database")
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := drv.DB().PingContext(ctx); err != nil {
		return common.NewAppError(string(constants.FailureConnection), "database ping failed", err)
	}
	logger.Debug("database ping successful")
	return nil
}
