// Package config handles configuration loading: process settings from
// environment variables and per-site theme settings from a YAML or TOML file.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"
)

// Config holds all process configuration values loaded from the environment.
type Config struct {
	Env string // "development", "production", "testing"

	// Content database: "postgres" or "sqlite"
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	SQLitePath string

	// Valkey (Redis-compatible) context cache sink
	ContextCache    string // "valkey" enables the sink
	ValkeyHost      string
	ValkeyPort      string
	ValkeyPassword  string
	ContextCacheTTL time.Duration

	// S3-compatible object storage sink
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3Prefix    string

	// Rendering
	ThemeConfig   string
	OutputDir     string
	RenderWorkers int
}

// ConfigurationError reports an invalid configuration value.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Reason)
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Env: envOrDefault("APP_ENV", "development"),

		DBDriver:   envOrDefault("DB_DRIVER", "sqlite"),
		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "pressctx"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "pressctx"),
		SQLitePath: envOrDefault("SQLITE_PATH", "data/content.db"),

		ContextCache:   os.Getenv("CONTEXT_CACHE"),
		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "fsn1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "pressctx-contexts"),
		S3Prefix:    envOrDefault("S3_PREFIX", "contexts"),

		ThemeConfig: os.Getenv("THEME_CONFIG"),
		OutputDir:   envOrDefault("OUTPUT_DIR", "output"),
	}

	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return nil, &ConfigurationError{Field: "DB_DRIVER", Reason: fmt.Sprintf("unsupported driver %q", cfg.DBDriver)}
	}

	workers, err := envInt("RENDER_WORKERS", runtime.NumCPU())
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		return nil, &ConfigurationError{Field: "RENDER_WORKERS", Reason: "must be at least 1"}
	}
	cfg.RenderWorkers = workers

	ttl, err := time.ParseDuration(envOrDefault("CONTEXT_CACHE_TTL", "1h"))
	if err != nil {
		return nil, &ConfigurationError{Field: "CONTEXT_CACHE_TTL", Reason: err.Error()}
	}
	cfg.ContextCacheTTL = ttl

	if cfg.Env == "production" && cfg.DBDriver == "postgres" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// DBTarget returns what the database driver connects to: the DSN for
// Postgres, the file path for SQLite.
func (c *Config) DBTarget() string {
	if c.DBDriver == "postgres" {
		return c.DSN()
	}
	return c.SQLitePath
}

// ValkeyAddr returns the Valkey address (host:port).
func (c *Config) ValkeyAddr() string {
	return fmt.Sprintf("%s:%s", c.ValkeyHost, c.ValkeyPort)
}

// ValkeyEnabled reports whether contexts should also be written to Valkey.
func (c *Config) ValkeyEnabled() bool {
	return c.ContextCache == "valkey"
}

// S3Enabled reports whether contexts should also be uploaded to S3.
func (c *Config) S3Enabled() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != ""
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &ConfigurationError{Field: key, Reason: fmt.Sprintf("not a number: %q", v)}
	}
	return n, nil
}
