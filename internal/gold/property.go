package gold

import (
	"context"
	"fmt"

	"github.com/couchcryptid/realestate-medallion/internal/domain"
	"github.com/couchcryptid/realestate-medallion/internal/engine"
)

// Property builds the Gold property view over Silver: a struct_pack'd
// parking summary, a neighborhood/Wikipedia-enriched description, and the
// status/amenities/search_tags fields the search sink requires (spec.md
// §4.G "Property Gold"). neighborhoodsTable and wikipediaTable must already
// exist, as Silver tables or the Gold views built over them (the
// orchestrator passes the Gold views).
func Property(ctx context.Context, eng *engine.Engine, inputTable, neighborhoodsTable, wikipediaTable, outputTable string) (domain.GoldMetadata, error) {
	inputCount, err := requireInput(ctx, eng, inputTable)
	if err != nil {
		return domain.GoldMetadata{}, err
	}

	query := fmt.Sprintf(`
		SELECT
			s.listing_id,
			s.neighborhood_id,
			s.bedrooms,
			s.bathrooms,
			s.square_feet,
			s.property_type,
			s.year_built,
			CAST(s.price AS FLOAT) AS price,
			CAST(s.price_per_sqft AS FLOAT) AS price_per_sqft,
			s.street,
			s.city,
			s.state,
			s.zip_code,
			s.longitude,
			s.latitude,

			struct_pack(
				spaces := COALESCE(s.garage_spaces, 0),
				type := CASE
					WHEN s.garage_spaces > 2 THEN 'multi_car_garage'
					WHEN s.garage_spaces > 0 THEN 'single_garage'
					ELSE 'street_parking'
				END
			) AS parking,

			s.description,
			s.description || COALESCE(
				' Located in ' || n.name || '. ' ||
				(SELECT w.extract FROM %s w WHERE w.page_id = n.wikipedia_page_id LIMIT 1),
				''
			) AS enriched_description,

			s.features,

			'active' AS status,
			s.features AS amenities,

			LIST_VALUE(
				s.property_type,
				CASE WHEN s.bedrooms = 1 THEN 'studio'
					 WHEN s.bedrooms = 2 THEN 'two-bedroom'
					 WHEN s.bedrooms = 3 THEN 'three-bedroom'
					 WHEN s.bedrooms >= 4 THEN 'family-home'
					 ELSE 'property' END,
				CASE WHEN s.price < 500000 THEN 'affordable'
					 WHEN s.price < 1000000 THEN 'mid-range'
					 ELSE 'luxury' END
			) AS search_tags,

			s.embedding_text,
			s.embedding_vector,
			s.embedding_generated_at,

			CURRENT_TIMESTAMP AS gold_processed_at,
			'property_gold_v1' AS processing_version

		FROM %s s
		LEFT JOIN %s n ON s.neighborhood_id = n.neighborhood_id
		WHERE s.listing_id IS NOT NULL
			AND s.price > 0
			AND s.square_feet > 0
	`, wikipediaTable, inputTable, neighborhoodsTable)

	if err := eng.CreateViewAs(ctx, outputTable, query); err != nil {
		return domain.GoldMetadata{}, err
	}

	outputCount, err := eng.CountRecords(ctx, outputTable)
	if err != nil {
		return domain.GoldMetadata{}, err
	}

	enrichments := []string{"status_field", "amenities_field", "search_tags_field", "parking_struct", "enriched_description"}
	return domain.NewGoldMetadata(inputTable, outputTable, inputCount, outputCount, enrichments, domain.EntityProperty)
}
