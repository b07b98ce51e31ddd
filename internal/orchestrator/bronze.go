package orchestrator

import (
	"context"

	"github.com/couchcryptid/realestate-medallion/internal/bronze"
	"github.com/couchcryptid/realestate-medallion/internal/catalog"
	"github.com/couchcryptid/realestate-medallion/internal/domain"
)

// runBronzeLayer ingests every entity's raw source into its Bronze table.
// sampleSize, when non-zero, caps the number of records ingested per
// entity (spec.md §4.J's run_bronze_layer(sample_size?)).
func (o *Orchestrator) runBronzeLayer(ctx context.Context, sampleSize int) (map[domain.EntityType]domain.EntityMetrics, error) {
	results := make(map[domain.EntityType]domain.EntityMetrics)

	// Location first: Neighborhood/Property Silver join on it.
	locationEntity := catalog.MustLookup("location")
	locStart := domain.Now()
	locMeta, err := bronze.IngestLocation(ctx, o.eng, locationEntity.Bronze, o.cfg.LocationsFile, "", sampleSize)
	if err != nil {
		return nil, err
	}
	locStage, err := domain.NewStageMetrics("bronze", locMeta.RecordCount(), locMeta.RecordCount(), 0, 0, locStart, domain.Now())
	if err != nil {
		return nil, err
	}
	o.recordStage("bronze", "location", locStage)
	results[domain.EntityLocation] = domain.EntityMetrics{EntityType: domain.EntityLocation, Stages: []domain.StageMetrics{locStage}}

	propertyEntity := catalog.MustLookup("property")
	propStart := domain.Now()
	propMeta, err := bronze.IngestProperty(ctx, o.eng, propertyEntity.Bronze, o.cfg.PropertiesFiles, "", sampleSize)
	if err != nil {
		return nil, err
	}
	propStage, err := domain.NewStageMetrics("bronze", propMeta.RecordCount(), propMeta.RecordCount(), 0, 0, propStart, domain.Now())
	if err != nil {
		return nil, err
	}
	o.recordStage("bronze", "property", propStage)
	results[domain.EntityProperty] = domain.EntityMetrics{EntityType: domain.EntityProperty, Stages: []domain.StageMetrics{propStage}}

	neighborhoodEntity := catalog.MustLookup("neighborhood")
	neighStart := domain.Now()
	neighMeta, err := bronze.IngestNeighborhood(ctx, o.eng, neighborhoodEntity.Bronze, o.cfg.NeighborhoodsFiles, "", sampleSize)
	if err != nil {
		return nil, err
	}
	neighStage, err := domain.NewStageMetrics("bronze", neighMeta.RecordCount(), neighMeta.RecordCount(), 0, 0, neighStart, domain.Now())
	if err != nil {
		return nil, err
	}
	o.recordStage("bronze", "neighborhood", neighStage)
	results[domain.EntityNeighborhood] = domain.EntityMetrics{EntityType: domain.EntityNeighborhood, Stages: []domain.StageMetrics{neighStage}}

	wikiEntity := catalog.MustLookup("wikipedia")
	wikiStart := domain.Now()
	wikiMeta, err := bronze.IngestWikipedia(ctx, o.eng, wikiEntity.Bronze, o.cfg.WikipediaDBPath, "", sampleSize)
	if err != nil {
		return nil, err
	}
	wikiStage, err := domain.NewStageMetrics("bronze", wikiMeta.RecordCount(), wikiMeta.RecordCount(), 0, 0, wikiStart, domain.Now())
	if err != nil {
		return nil, err
	}
	o.recordStage("bronze", "wikipedia", wikiStage)
	results[domain.EntityWikipedia] = domain.EntityMetrics{EntityType: domain.EntityWikipedia, Stages: []domain.StageMetrics{wikiStage}}

	o.logger.Info("bronze layer complete",
		"location", locMeta.RecordCount(), "property", propMeta.RecordCount(),
		"neighborhood", neighMeta.RecordCount(), "wikipedia", wikiMeta.RecordCount())

	return results, nil
}
