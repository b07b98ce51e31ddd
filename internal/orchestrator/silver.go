package orchestrator

import (
	"context"

	"github.com/couchcryptid/realestate-medallion/internal/catalog"
	"github.com/couchcryptid/realestate-medallion/internal/domain"
	"github.com/couchcryptid/realestate-medallion/internal/silver"
)

// runSilverLayer standardizes and embeds every entity, in the dependency
// order spec.md §4.J names: Location first (Neighborhood/Property Silver
// join on it), then Neighborhood before Wikipedia (Wikipedia
// left-aggregates on it).
func (o *Orchestrator) runSilverLayer(ctx context.Context) (map[domain.EntityType]domain.EntityMetrics, error) {
	if err := o.requireTable(ctx, catalog.MustLookup("location").Bronze); err != nil {
		return nil, err
	}

	results := make(map[domain.EntityType]domain.EntityMetrics)
	delay := o.cfg.RateLimitDelay

	locationEntity := catalog.MustLookup("location")
	locStart := domain.Now()
	locMeta, err := silver.TransformLocation(ctx, o.eng, locationEntity.Bronze, locationEntity.Silver)
	if err != nil {
		return nil, err
	}
	locStage, err := domain.NewStageMetrics("silver", locMeta.InputCount(), locMeta.OutputCount(), locMeta.DroppedCount(), 0, locStart, domain.Now())
	if err != nil {
		return nil, err
	}
	o.recordStage("silver", "location", locStage)
	results[domain.EntityLocation] = domain.EntityMetrics{EntityType: domain.EntityLocation, Stages: []domain.StageMetrics{locStage}}

	propertyEntity := catalog.MustLookup("property")
	propStart := domain.Now()
	propMeta, err := silver.TransformProperty(ctx, o.eng, o.provider, propertyEntity.Bronze, propertyEntity.Silver, delay)
	if err != nil {
		return nil, err
	}
	propStage, err := domain.NewStageMetrics("silver", propMeta.InputCount(), propMeta.OutputCount(), propMeta.DroppedCount(), 0, propStart, domain.Now())
	if err != nil {
		return nil, err
	}
	o.recordStage("silver", "property", propStage)
	results[domain.EntityProperty] = domain.EntityMetrics{EntityType: domain.EntityProperty, Stages: []domain.StageMetrics{propStage}}

	neighborhoodEntity := catalog.MustLookup("neighborhood")
	neighStart := domain.Now()
	neighMeta, err := silver.TransformNeighborhood(ctx, o.eng, o.provider, neighborhoodEntity.Bronze, locationEntity.Silver, neighborhoodEntity.Silver, delay)
	if err != nil {
		return nil, err
	}
	neighStage, err := domain.NewStageMetrics("silver", neighMeta.InputCount(), neighMeta.OutputCount(), neighMeta.DroppedCount(), 0, neighStart, domain.Now())
	if err != nil {
		return nil, err
	}
	o.recordStage("silver", "neighborhood", neighStage)
	results[domain.EntityNeighborhood] = domain.EntityMetrics{EntityType: domain.EntityNeighborhood, Stages: []domain.StageMetrics{neighStage}}

	wikiEntity := catalog.MustLookup("wikipedia")
	wikiStart := domain.Now()
	wikiMeta, err := silver.TransformWikipedia(ctx, o.eng, o.provider, wikiEntity.Bronze, neighborhoodEntity.Silver, wikiEntity.Silver, delay)
	if err != nil {
		return nil, err
	}
	wikiStage, err := domain.NewStageMetrics("silver", wikiMeta.InputCount(), wikiMeta.OutputCount(), wikiMeta.DroppedCount(), 0, wikiStart, domain.Now())
	if err != nil {
		return nil, err
	}
	o.recordStage("silver", "wikipedia", wikiStage)
	results[domain.EntityWikipedia] = domain.EntityMetrics{EntityType: domain.EntityWikipedia, Stages: []domain.StageMetrics{wikiStage}}

	o.logger.Info("silver layer complete",
		"location", locMeta.OutputCount(), "property", propMeta.OutputCount(),
		"neighborhood", neighMeta.OutputCount(), "wikipedia", wikiMeta.OutputCount())

	return results, nil
}
