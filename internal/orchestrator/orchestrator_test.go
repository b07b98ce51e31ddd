package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/realestate-medallion/internal/config"
	"github.com/couchcryptid/realestate-medallion/internal/domain"
	"github.com/couchcryptid/realestate-medallion/internal/engine"
	"github.com/couchcryptid/realestate-medallion/internal/observability"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	e, err := engine.New(engine.Config{DatabaseFile: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func newTestOrchestrator(t *testing.T, eng *engine.Engine) *Orchestrator {
	t.Helper()
	cfg := &config.Config{EmbeddingProvider: "voyage"} // no API key: provider init warns and falls back to nil
	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetricsForTesting()
	return New(cfg, eng, logger, metrics)
}

func TestNew_FallsBackToNilProviderWithoutAPIKey(t *testing.T) {
	eng := newTestEngine(t)
	o := newTestOrchestrator(t, eng)
	assert.Nil(t, o.provider)
	assert.NotEmpty(t, o.pipelineID)
}

func TestCheckReadiness_SucceedsAgainstLiveEngine(t *testing.T) {
	eng := newTestEngine(t)
	o := newTestOrchestrator(t, eng)
	assert.NoError(t, o.CheckReadiness(context.Background()))
}

func TestCheckReadiness_FailsAfterEngineClosed(t *testing.T) {
	eng, err := engine.New(engine.Config{DatabaseFile: ":memory:"})
	require.NoError(t, err)
	o := newTestOrchestrator(t, eng)
	require.NoError(t, eng.Close())
	assert.Error(t, o.CheckReadiness(context.Background()))
}

func TestRequireTable_FailsWhenTableMissing(t *testing.T) {
	eng := newTestEngine(t)
	o := newTestOrchestrator(t, eng)
	ctx := context.Background()

	err := o.requireTable(ctx, "bronze_properties")
	require.Error(t, err)
}

func TestRequireTable_SucceedsWhenTableExists(t *testing.T) {
	eng := newTestEngine(t)
	o := newTestOrchestrator(t, eng)
	ctx := context.Background()

	require.NoError(t, eng.CreateTableAs(ctx, "bronze_properties", "SELECT 1 AS listing_id"))
	assert.NoError(t, o.requireTable(ctx, "bronze_properties"))
}

func TestMergeEntityMetrics_AppendsStagesForExistingEntity(t *testing.T) {
	bronzeStage, err := domain.NewStageMetrics("bronze", 10, 10, 0, 0, domain.Now(), domain.Now())
	require.NoError(t, err)
	silverStage, err := domain.NewStageMetrics("silver", 10, 9, 1, 0, domain.Now(), domain.Now())
	require.NoError(t, err)

	dst := map[domain.EntityType]domain.EntityMetrics{
		domain.EntityProperty: {EntityType: domain.EntityProperty, Stages: []domain.StageMetrics{bronzeStage}},
	}
	src := map[domain.EntityType]domain.EntityMetrics{
		domain.EntityProperty: {EntityType: domain.EntityProperty, Stages: []domain.StageMetrics{silverStage}},
	}

	mergeEntityMetrics(dst, src)

	assert.Len(t, dst[domain.EntityProperty].Stages, 2)
}

func TestMergeEntityMetrics_AddsNewEntity(t *testing.T) {
	stage, err := domain.NewStageMetrics("bronze", 1, 1, 0, 0, domain.Now(), domain.Now())
	require.NoError(t, err)

	dst := map[domain.EntityType]domain.EntityMetrics{}
	src := map[domain.EntityType]domain.EntityMetrics{
		domain.EntityLocation: {EntityType: domain.EntityLocation, Stages: []domain.StageMetrics{stage}},
	}

	mergeEntityMetrics(dst, src)

	require.Contains(t, dst, domain.EntityLocation)
	assert.Len(t, dst[domain.EntityLocation].Stages, 1)
}

func TestRunFullPipeline_FailsFastWhenSourceFilesMissing(t *testing.T) {
	eng := newTestEngine(t)
	o := newTestOrchestrator(t, eng)

	metrics := o.RunFullPipeline(context.Background(), RunOptions{})

	assert.Equal(t, "failed", metrics.Status)
	assert.NotEmpty(t, metrics.ErrorMessages)
}
