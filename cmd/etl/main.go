package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/thermal-comfort-etl/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/thermal-comfort-etl/internal/adapter/kafka"
	"github.com/couchcryptid/thermal-comfort-etl/internal/adapter/solar"
	"github.com/couchcryptid/thermal-comfort-etl/internal/config"
	"github.com/couchcryptid/thermal-comfort-etl/internal/domain"
	"github.com/couchcryptid/thermal-comfort-etl/internal/observability"
	"github.com/couchcryptid/thermal-comfort-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Solar geometry fills cos(zenith) for observations that carry
	// coordinates but no cossza (feature-flagged via SOLAR_ENABLED).
	var geometry domain.SolarGeometry
	if cfg.SolarEnabled {
		geometry = solar.NewCachedGeometry(solar.NewCalculator(), cfg.SolarCacheSize)
		metrics.SolarEnabled.Set(1)
		logger.Info("solar geometry enabled", "cache_size", cfg.SolarCacheSize)
	} else {
		logger.Info("solar geometry disabled")
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(geometry, logger, metrics)

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, transformer, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start ETL pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
