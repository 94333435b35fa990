package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tubemetrics/internal/adapter/analytics"
	httpadapter "tubemetrics/internal/adapter/http"
	"tubemetrics/internal/adapter/postgres"
	"tubemetrics/internal/adapter/usecase"
	"tubemetrics/internal/config"
	"tubemetrics/internal/core/port"
	"tubemetrics/internal/db"
)

// main is the entry point of the tubemetrics link service. It loads
// configuration, optionally runs database migrations, initializes the
// database pool and repositories, then starts the HTTP server. On receiving
// a termination signal it gracefully shuts down the server.
func main() {
	exitCode := 1
	defer func() {
		if r := recover(); r != nil {
			panic(r)
		} else {
			os.Exit(exitCode)
		}
	}()

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	var logger *slog.Logger
	{
		// Initialise structured logger based on configuration.
		var handler slog.Handler
		level := cfg.Log.SlogLevel()
		switch cfg.Log.SlogFormat() {
		case "json":
			handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		default:
			handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		}
		logger = slog.New(handler)
	}

	// Optionally run migrations if configured. We use the Psql sub‑config.
	if cfg.Psql.RunMigrations {
		if err = db.Migrate(cfg.Psql.Addr.String()); err != nil {
			logger.Error("migration error", slog.Any("error", err))
		} else {
			logger.Info("migrations applied successfully")
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.Psql)
	if err != nil {
		logger.Error("database connection error", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.Psql.SeedDemo {
		if err = db.Seed(ctx, pool); err != nil {
			logger.Error("seed error", slog.Any("error", err))
		} else {
			logger.Info("demo data seeded")
		}
	}

	links := postgres.NewLinkRepository(pool)
	videos := postgres.NewVideoRepository(pool)

	var forwarders []port.ClickForwarder
	if cfg.PostHog.Enabled() {
		forwarders = append(forwarders, analytics.NewPostHogForwarder(cfg.PostHog))
		logger.Info("posthog click forwarding enabled", slog.String("host", cfg.PostHog.Host))
	}
	if cfg.GA4.Enabled() {
		forwarders = append(forwarders, analytics.NewGA4Forwarder(cfg.GA4))
		logger.Info("ga4 click forwarding enabled", slog.String("measurement_id", cfg.GA4.MeasurementID))
	}

	svc := usecase.NewLinkUseCase(
		links,
		videos,
		forwarders,
		logger,
		cfg.Tracking.BaseURL,
		cfg.Tracking.DefaultTrackingType(),
		cfg.Tracking.SlugMaxAttempts,
	)

	handler := httpadapter.NewHandler(svc, logger, cfg.Tracking.BaseURL)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      handler.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		logger.Info("server listening", slog.Int("port", int(cfg.HTTP.Port)))
		if err = srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	value := <-quit
	exitCode = 128 + int(value.(syscall.Signal))

	ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
	if err = srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	} else {
		logger.Info("server gracefully stopped")
	}
}
