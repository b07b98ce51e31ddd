// Package orchestrator sequences the medallion pipeline's stages
// (component J): Bronze, Silver, Gold, Graph Builder, and the sink
// writers, tracking per-stage metrics and enforcing the layer's
// dependency ordering.
//
// Grounded on
// original_source/squack_pipeline_v2/orchestration/pipeline.py.
package orchestrator

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/couchcryptid/realestate-medallion/internal/config"
	"github.com/couchcryptid/realestate-medallion/internal/domain"
	"github.com/couchcryptid/realestate-medallion/internal/embedding"
	"github.com/couchcryptid/realestate-medallion/internal/engine"
	"github.com/couchcryptid/realestate-medallion/internal/observability"
)

// Orchestrator coordinates a full pipeline run. It holds the engine
// connection, the once-initialized embedding provider, and every
// dependency a stage needs — mirroring PipelineOrchestrator's
// single-connection, initialize-provider-once-at-startup posture.
type Orchestrator struct {
	cfg     *config.Config
	eng     *engine.Engine
	logger  *slog.Logger
	metrics *observability.Metrics

	provider   embedding.Provider // nil when no API key is configured
	pipelineID string
}

// New constructs an Orchestrator, initializing the embedding provider once.
// A provider that fails to construct is logged as a warning, not a fatal
// error: the pipeline proceeds without embeddings (spec.md §4.J).
func New(cfg *config.Config, eng *engine.Engine, logger *slog.Logger, metrics *observability.Metrics) *Orchestrator {
	provider, err := embedding.NewFromConfig(cfg)
	if err != nil {
		logger.Warn("embedding provider unavailable, proceeding without embeddings", "error", err)
		provider = nil
	} else {
		logger.Info("embedding provider initialized", "provider", cfg.EmbeddingProvider)
	}

	return &Orchestrator{
		cfg:        cfg,
		eng:        eng,
		logger:     logger,
		metrics:    metrics,
		provider:   provider,
		pipelineID: uuid.NewString(),
	}
}

// CheckReadiness reports whether the orchestrator's engine connection is
// alive, satisfying internal/adapter/http's ReadinessChecker interface.
func (o *Orchestrator) CheckReadiness(ctx context.Context) error {
	rows, err := o.eng.Execute(ctx, "SELECT 1")
	if err != nil {
		return domain.WrapTransient("orchestrator: readiness probe", err)
	}
	return rows.Close()
}

// requireTable fails fast (ErrConfiguration) when a skip flag assumes a
// prerequisite table already exists, per spec.md §4.J's skip-flag rule:
// "the orchestrator must verify prerequisite tables exist and fail fast
// otherwise."
func (o *Orchestrator) requireTable(ctx context.Context, table string) error {
	exists, err := o.eng.TableExists(ctx, table)
	if err != nil {
		return err
	}
	if !exists {
		return domain.WrapConfiguration("orchestrator: required table "+table+" does not exist (skip flag assumes a prior run)", nil)
	}
	return nil
}

func (o *Orchestrator) recordStage(layer, entity string, sm domain.StageMetrics) {
	o.metrics.RecordsProcessed.WithLabelValues(layer, entity).Add(float64(sm.OutputRecords()))
	o.metrics.StageDuration.WithLabelValues(layer, entity).Observe(sm.DurationSeconds())
}
