package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/wildfire-data-service/internal/adapter/httpapi"
	"github.com/couchcryptid/wildfire-data-service/internal/adapter/localfs"
	s3adapter "github.com/couchcryptid/wildfire-data-service/internal/adapter/s3"
	"github.com/couchcryptid/wildfire-data-service/internal/config"
	"github.com/couchcryptid/wildfire-data-service/internal/dataset"
	"github.com/couchcryptid/wildfire-data-service/internal/observability"
	"github.com/couchcryptid/wildfire-data-service/internal/query"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	fetcher, err := newFetcher(cfg, logger)
	if err != nil {
		logger.Error("failed to create dataset fetcher", "error", err)
		os.Exit(1)
	}

	loader := dataset.NewLoader(fetcher, cfg.CacheTTL, logger, metrics)
	engine := query.New(loader, logger, metrics)

	srv := httpapi.NewServer(cfg.HTTPAddr, engine, httpapi.FilterDefaults{
		SampleSize: cfg.SampleSize,
		Seed:       cfg.SampleSeed,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Warm the dataset cache so readiness flips before the first query.
	go engine.Warm(ctx)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}

// newFetcher picks the dataset source: S3 when a bucket is configured, the
// local fallback file otherwise.
func newFetcher(cfg *config.Config, logger *slog.Logger) (dataset.Fetcher, error) {
	if cfg.UseRemote() {
		logger.Info("using remote dataset source",
			"bucket", cfg.SourceBucket,
			"key", cfg.SourceKey,
			"region", cfg.SourceRegion,
		)
		return s3adapter.NewClient(s3adapter.ClientConfig{
			Bucket:   cfg.SourceBucket,
			Key:      cfg.SourceKey,
			Region:   cfg.SourceRegion,
			Endpoint: cfg.SourceEndpoint,
		}, logger)
	}

	logger.Info("using local dataset fallback", "path", cfg.FallbackPath)
	return localfs.NewFetcher(cfg.FallbackPath), nil
}
