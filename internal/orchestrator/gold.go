package orchestrator

import (
	"context"

	"github.com/couchcryptid/realestate-medallion/internal/catalog"
	"github.com/couchcryptid/realestate-medallion/internal/domain"
	"github.com/couchcryptid/realestate-medallion/internal/gold"
)

// runGoldLayer enriches every entity's Silver table into Gold. Property
// runs last: its view joins the Neighborhood and Wikipedia Gold views.
func (o *Orchestrator) runGoldLayer(ctx context.Context) (map[domain.EntityType]domain.EntityMetrics, error) {
	results := make(map[domain.EntityType]domain.EntityMetrics)

	locationEntity := catalog.MustLookup("location")
	locStart := domain.Now()
	locMeta, err := gold.Location(ctx, o.eng, locationEntity.Silver, locationEntity.Gold)
	if err != nil {
		return nil, err
	}
	locStage, err := domain.NewStageMetrics("gold", locMeta.InputCount(), locMeta.OutputCount(), 0, 0, locStart, domain.Now())
	if err != nil {
		return nil, err
	}
	o.recordStage("gold", "location", locStage)
	results[domain.EntityLocation] = domain.EntityMetrics{EntityType: domain.EntityLocation, Stages: []domain.StageMetrics{locStage}}

	neighborhoodEntity := catalog.MustLookup("neighborhood")
	neighStart := domain.Now()
	neighMeta, err := gold.Neighborhood(ctx, o.eng, neighborhoodEntity.Silver, neighborhoodEntity.Gold)
	if err != nil {
		return nil, err
	}
	neighStage, err := domain.NewStageMetrics("gold", neighMeta.InputCount(), neighMeta.OutputCount(), 0, 0, neighStart, domain.Now())
	if err != nil {
		return nil, err
	}
	o.recordStage("gold", "neighborhood", neighStage)
	results[domain.EntityNeighborhood] = domain.EntityMetrics{EntityType: domain.EntityNeighborhood, Stages: []domain.StageMetrics{neighStage}}

	wikiEntity := catalog.MustLookup("wikipedia")
	wikiStart := domain.Now()
	wikiMeta, err := gold.Wikipedia(ctx, o.eng, wikiEntity.Silver, wikiEntity.Gold)
	if err != nil {
		return nil, err
	}
	wikiStage, err := domain.NewStageMetrics("gold", wikiMeta.InputCount(), wikiMeta.OutputCount(), 0, 0, wikiStart, domain.Now())
	if err != nil {
		return nil, err
	}
	o.recordStage("gold", "wikipedia", wikiStage)
	results[domain.EntityWikipedia] = domain.EntityMetrics{EntityType: domain.EntityWikipedia, Stages: []domain.StageMetrics{wikiStage}}

	propertyEntity := catalog.MustLookup("property")
	propStart := domain.Now()
	propMeta, err := gold.Property(ctx, o.eng, propertyEntity.Silver, neighborhoodEntity.Gold, wikiEntity.Gold, propertyEntity.Gold)
	if err != nil {
		return nil, err
	}
	propStage, err := domain.NewStageMetrics("gold", propMeta.InputCount(), propMeta.OutputCount(), 0, 0, propStart, domain.Now())
	if err != nil {
		return nil, err
	}
	o.recordStage("gold", "property", propStage)
	results[domain.EntityProperty] = domain.EntityMetrics{EntityType: domain.EntityProperty, Stages: []domain.StageMetrics{propStage}}

	o.logger.Info("gold layer complete",
		"location", locMeta.OutputCount(), "neighborhood", neighMeta.OutputCount(),
		"wikipedia", wikiMeta.OutputCount(), "property", propMeta.OutputCount())

	return results, nil
}
