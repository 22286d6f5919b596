package common

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_URL", "")
	t.Setenv("GRPC_ADDR", "")
	t.Setenv("DB_MAX_CONNS", "")
	t.Setenv("INGEST_WORKERS", "")
	t.Setenv("INGEST_MAX_BYTES", "")

	cfg := LoadConfig()
	assert.Equal(t, DefaultDSN, cfg.Database.DSN)
	assert.Equal(t, ":8080", cfg.Server.GRPCAddr)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
	assert.Equal(t, 2, cfg.Ingest.Workers)
	assert.Equal(t, int64(10<<20), cfg.Ingest.MaxFileBytes)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DB_URL", "postgres://u:p@localhost:5432/nfse")
	t.Setenv("DB_MAX_CONNS", "4")
	t.Setenv("DB_DIAL_TIMEOUT", "750ms")
	t.Setenv("DB_MIN_CONNS", "not-a-number")

	cfg := LoadConfig()
	assert.Equal(t, "postgres://u:p@localhost:5432/nfse", cfg.Database.DSN)
	assert.Equal(t, int32(4), cfg.Database.MaxConns)
	assert.Equal(t, int32(1), cfg.Database.MinConns)
	assert.Equal(t, 750*time.Millisecond, cfg.Database.DialTimeout)
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{DSN: "x", MaxConns: 0}, Server: ServerConfig{GRPCAddr: ":1"}}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, "CONFIG_ERROR", CodeOf(err))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" warning "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestNewLoggerFormats(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, AppConfig{Name: "nfse", Environment: "production"}).Info("hello")
	assert.Contains(t, buf.String(), `"app":"nfse"`)

	buf.Reset()
	newLogger(&buf, AppConfig{Environment: "local", LogLevel: "error"}).Info("dropped")
	assert.Empty(t, buf.String())
}

func TestEnsureRequestID(t *testing.T) {
	ctx, id := EnsureRequestID(context.Background())
	assert.NotEmpty(t, id)
	assert.Equal(t, id, RequestIDFromContext(ctx))

	again, same := EnsureRequestID(ctx)
	assert.Equal(t, id, same)
	assert.Equal(t, id, RequestIDFromContext(again))
}
