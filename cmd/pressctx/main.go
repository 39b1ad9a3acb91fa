// Package main is the entry point for the pressctx render pass.
// It loads configuration, opens the content database, runs one render pass
// and publishes every page context to the configured sinks.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"pressctx/internal/cache"
	"pressctx/internal/config"
	"pressctx/internal/database"
	"pressctx/internal/publish"
	"pressctx/internal/render"
	"pressctx/internal/storage"
	"pressctx/internal/store"
)

func main() {
	// Structured logger; debug output in development only.
	level := slog.LevelInfo
	if os.Getenv("APP_ENV") == "" || os.Getenv("APP_ENV") == "development" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	theme, err := config.LoadTheme(cfg.ThemeConfig)
	if err != nil {
		slog.Error("failed to load theme settings", "path", cfg.ThemeConfig, "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"db_driver", cfg.DBDriver,
		"theme", cfg.ThemeConfig,
		"workers", cfg.RenderWorkers,
	)

	// Stop the pass on SIGINT or SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, theme); err != nil {
		slog.Error("render failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, theme config.Theme) error {
	dialect := store.Dialect(cfg.DBDriver)

	db, err := database.Open(dialect, cfg.DBTarget())
	if err != nil {
		return err
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db, dialect); err != nil {
		return err
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db, dialect); err != nil {
			return err
		}
	}

	sinks := publish.Multi{publish.NewDirSink(cfg.OutputDir)}

	// The Valkey context cache is optional; the pass still writes files
	// when it is unreachable.
	if cfg.ValkeyEnabled() {
		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Warn("valkey unavailable, context cache disabled", "error", err)
		} else {
			defer valkeyClient.Close()
			contextCache := cache.NewContextCache(valkeyClient, cfg.ContextCacheTTL)
			if _, err := contextCache.InvalidateAll(ctx); err != nil {
				slog.Warn("failed to clear context cache", "error", err)
			}
			sinks = append(sinks, publish.BestEffort("valkey", contextCache))
		}
	}

	// Connect to S3-compatible object storage (optional).
	if cfg.S3Enabled() {
		storageClient, err := storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3Prefix,
		)
		if err != nil {
			return err
		}
		if storageClient != nil {
			slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", storageClient.Bucket())
			sinks = append(sinks, publish.BestEffort("s3", storageClient))
		}
	} else {
		slog.Debug("s3 storage not configured, contexts are written to disk only")
	}

	pass, err := render.NewPass(store.NewSQLStore(db, dialect), theme,
		render.WithWorkers(cfg.RenderWorkers))
	if err != nil {
		return err
	}
	defer pass.Close()

	stats, err := pass.Run(ctx, sinks)
	if err != nil {
		return err
	}
	slog.Info("contexts published",
		"output", cfg.OutputDir,
		"listing_pages", stats.Pages,
		"items", stats.Items,
		"duration", stats.Duration,
	)
	return nil
}
