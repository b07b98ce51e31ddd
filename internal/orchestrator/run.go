package orchestrator

import (
	"context"

	"github.com/couchcryptid/realestate-medallion/internal/catalog"
	"github.com/couchcryptid/realestate-medallion/internal/domain"
)

// RunOptions configures one full-pipeline invocation.
type RunOptions struct {
	SampleSize     int
	WriteParquet   bool
	WriteSearch    bool
	WriteGraph     bool
}

// RunFullPipeline runs the complete Bronze→Silver→Gold→Graph→Sinks
// sequence, honoring the config's skip_bronze/skip_silver/skip_gold flags
// for partial re-runs (spec.md §4.J). On the first fatal stage error, it
// returns a PipelineMetrics with status "failed" and the error recorded in
// ErrorMessages rather than propagating the error to the caller — matching
// run_full_pipeline's try/except-and-return-failed-metrics shape.
func (o *Orchestrator) RunFullPipeline(ctx context.Context, opts RunOptions) domain.PipelineMetrics {
	start := domain.Now()
	metrics := domain.PipelineMetrics{
		PipelineID: o.pipelineID,
		StartTime:  start,
		Entities:   make(map[domain.EntityType]domain.EntityMetrics),
		Status:     "running",
	}

	o.logger.Info("pipeline run starting", "pipeline_id", o.pipelineID)

	if err := o.runLayers(ctx, opts, &metrics); err != nil {
		metrics.EndTime = domain.Now()
		metrics.Status = "failed"
		metrics.ErrorMessages = append(metrics.ErrorMessages, err.Error())
		o.logger.Error("pipeline run failed", "pipeline_id", o.pipelineID, "error", err)
		return metrics
	}

	metrics.EndTime = domain.Now()
	metrics.Status = "completed"
	o.logger.Info("pipeline run completed", "pipeline_id", o.pipelineID, "duration_seconds", metrics.DurationSeconds())
	return metrics
}

func (o *Orchestrator) runLayers(ctx context.Context, opts RunOptions, metrics *domain.PipelineMetrics) error {
	if o.cfg.SkipBronze {
		o.logger.Info("skipping bronze layer")
		if err := o.requireTable(ctx, catalog.MustLookup("property").Bronze); err != nil {
			return err
		}
	} else {
		bronzeResults, err := o.runBronzeLayer(ctx, opts.SampleSize)
		if err != nil {
			return err
		}
		mergeEntityMetrics(metrics.Entities, bronzeResults)
	}

	if o.cfg.SkipSilver {
		o.logger.Info("skipping silver layer")
		if err := o.requireTable(ctx, catalog.MustLookup("property").Silver); err != nil {
			return err
		}
	} else {
		silverResults, err := o.runSilverLayer(ctx)
		if err != nil {
			return err
		}
		mergeEntityMetrics(metrics.Entities, silverResults)
	}

	if o.cfg.SkipGold {
		o.logger.Info("skipping gold layer")
		if err := o.requireTable(ctx, catalog.MustLookup("property").Gold); err != nil {
			return err
		}
	} else {
		goldResults, err := o.runGoldLayer(ctx)
		if err != nil {
			return err
		}
		mergeEntityMetrics(metrics.Entities, goldResults)
	}

	if opts.WriteGraph || o.cfg.Neo4jEnabled {
		if _, err := o.runGraphBuilder(ctx); err != nil {
			return err
		}
	}

	if opts.WriteParquet || opts.WriteSearch || opts.WriteGraph ||
		o.cfg.ParquetEnabled || o.cfg.ElasticsearchEnabled || o.cfg.Neo4jEnabled {
		if _, err := o.runWriters(ctx, opts.WriteParquet, opts.WriteSearch, opts.WriteGraph); err != nil {
			return err
		}
	}

	return nil
}

// mergeEntityMetrics appends src's per-entity stage metrics onto dst,
// so the same entity's Bronze/Silver/Gold stages accumulate across layers
// within one PipelineMetrics.
func mergeEntityMetrics(dst map[domain.EntityType]domain.EntityMetrics, src map[domain.EntityType]domain.EntityMetrics) {
	for entity, em := range src {
		existing, ok := dst[entity]
		if !ok {
			dst[entity] = em
			continue
		}
		existing.Stages = append(existing.Stages, em.Stages...)
		dst[entity] = existing
	}
}
