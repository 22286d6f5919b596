package common

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Server   ServerConfig
	Ingest   IngestConfig
}

// AppConfig holds process-level settings
type AppConfig struct {
	Name        string
	Environment string
	LogLevel    string
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
	HealthTimeout    time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr        string
	HTTPAddr        string
	ShutdownTimeout time.Duration
}

// IngestConfig holds settings for file ingestion and the inbox watcher
type IngestConfig struct {
	InboxDir       string
	Workers        int
	QueueSize      int
	ProcessTimeout time.Duration
	Debounce       time.Duration
	MaxFileBytes   int64
}

// DefaultDSN points at a local SQLite file with foreign keys enforced.
const DefaultDSN = "file:data/nfse.db?_pragma=foreign_keys(1)"

// LoadConfig loads configuration from environment variables.
// A .env file in the working directory is read first when present; variables
// already set in the environment take precedence.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "nfse-ingest"),
			Environment: getEnv("APP_ENV", "local"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", DefaultDSN),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 1),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
			HealthTimeout:    getEnvAsDuration("DB_HEALTH_TIMEOUT", 3*time.Second),
		},
		Server: ServerConfig{
			GRPCAddr:        getEnv("GRPC_ADDR", ":8080"),
			HTTPAddr:        getEnv("HTTP_ADDR", ":8081"),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Ingest: IngestConfig{
			InboxDir:       getEnv("INBOX_DIR", ""),
			Workers:        int(getEnvAsInt32("INGEST_WORKERS", 2)),
			QueueSize:      int(getEnvAsInt32("INGEST_QUEUE_SIZE", 64)),
			ProcessTimeout: getEnvAsDuration("INGEST_TIMEOUT", time.Minute),
			Debounce:       getEnvAsDuration("INGEST_DEBOUNCE", 500*time.Millisecond),
			MaxFileBytes:   int64(getEnvAsInt32("INGEST_MAX_BYTES", 10<<20)),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.Database.MaxConns <= 0 {
		return NewAppError("CONFIG_ERROR", "DB_MAX_CONNS must be greater than 0", ErrInvalidInput)
	}
	if c.Server.GRPCAddr == "" && c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "GRPC_ADDR or HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Ingest.InboxDir != "" && c.Ingest.Workers <= 0 {
		return NewAppError("CONFIG_ERROR", "INGEST_WORKERS must be greater than 0", ErrInvalidInput)
	}
	return nil
}
