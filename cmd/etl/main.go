package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/realestate-medallion/internal/adapter/http"
	"github.com/couchcryptid/realestate-medallion/internal/config"
	"github.com/couchcryptid/realestate-medallion/internal/engine"
	"github.com/couchcryptid/realestate-medallion/internal/observability"
	"github.com/couchcryptid/realestate-medallion/internal/orchestrator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	eng, err := engine.New(engine.Config{
		MemoryLimit:  cfg.DuckDBMemoryLimit,
		ThreadCount:  cfg.DuckDBThreads,
		DatabaseFile: cfg.DuckDBDatabase,
	})
	if err != nil {
		logger.Error("failed to start analytical engine", "error", err)
		os.Exit(1)
	}
	defer eng.Close()

	pipeline := orchestrator.New(cfg, eng, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, pipeline, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Run the pipeline once to completion; the orchestrator has no
	// fine-grained cancellation surface (spec.md §5), so a signal received
	// mid-run only takes effect at shutdown, after RunFullPipeline returns.
	runMetrics := pipeline.RunFullPipeline(ctx, orchestrator.RunOptions{
		SampleSize:   cfg.SampleSize,
		WriteParquet: cfg.ParquetEnabled,
		WriteSearch:  cfg.ElasticsearchEnabled,
		WriteGraph:   cfg.Neo4jEnabled,
	})
	if runMetrics.Status == "failed" {
		logger.Error("pipeline run failed", "pipeline_id", runMetrics.PipelineID, "errors", runMetrics.ErrorMessages)
	} else {
		logger.Info("pipeline run finished",
			"pipeline_id", runMetrics.PipelineID,
			"duration_seconds", runMetrics.DurationSeconds(),
			"records_processed", runMetrics.TotalRecordsProcessed())
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	if runMetrics.Status == "failed" {
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}
