package gold

import (
	"context"
	"fmt"

	"github.com/couchcryptid/realestate-medallion/internal/domain"
	"github.com/couchcryptid/realestate-medallion/internal/engine"
)

// Neighborhood builds the Gold neighborhood view over Silver: density
// banding, a composite livability score, a lifestyle category, an
// investment-attractiveness score, and business facets (spec.md §4.G
// "Neighborhood Gold").
func Neighborhood(ctx context.Context, eng *engine.Engine, inputTable, outputTable string) (domain.GoldMetadata, error) {
	inputCount, err := requireInput(ctx, eng, inputTable)
	if err != nil {
		return domain.GoldMetadata{}, err
	}

	query := fmt.Sprintf(`
		SELECT
			n.neighborhood_id,
			n.name,
			n.city,
			n.state,
			n.county_id,
			n.longitude,
			n.latitude,
			n.population,

			CASE
				WHEN n.population >= 50000 THEN 'high_density'
				WHEN n.population >= 20000 THEN 'medium_density'
				WHEN n.population >= 5000 THEN 'low_density'
				ELSE 'rural'
			END AS density_category,

			n.walkability_score,
			n.school_rating,

			CAST((
				COALESCE(CAST(n.walkability_score AS FLOAT), 0.0) * 0.5 +
				COALESCE(CAST(n.school_rating AS FLOAT), 0.0) * 10 * 0.5
			) AS FLOAT) AS overall_livability_score,

			CASE
				WHEN n.walkability_score >= 70 AND n.school_rating >= 8 THEN 'family_friendly_urban'
				WHEN n.walkability_score >= 70 THEN 'urban_lifestyle'
				WHEN n.school_rating >= 8 THEN 'family_oriented'
				ELSE 'standard_community'
			END AS lifestyle_category,

			CAST((
				CASE WHEN n.population > 10000 THEN 30.0 ELSE COALESCE(CAST(n.population AS FLOAT), 0.0) / 10000.0 * 30.0 END +
				(COALESCE(CAST(n.walkability_score AS FLOAT), 0.0) / 100.0 * 25.0 +
				 COALESCE(CAST(n.school_rating AS FLOAT), 0.0) / 10.0 * 25.0) +
				CASE
					WHEN UPPER(n.city) IN ('SAN FRANCISCO', 'OAKLAND', 'BERKELEY') THEN 20.0
					WHEN UPPER(n.city) IN ('PALO ALTO', 'MOUNTAIN VIEW', 'SUNNYVALE') THEN 18.0
					ELSE 10.0
				END
			) AS FLOAT) AS investment_attractiveness_score,

			n.wikipedia_page_id,
			n.embedding_text,
			n.embedding_vector,
			n.embedding_generated_at,

			-- DuckDB resolves these against the aliases projected above in
			-- the same SELECT (lateral column alias support), matching the
			-- teacher's single relation .project() chain.
			ARRAY[
				density_category,
				lifestyle_category,
				CASE WHEN investment_attractiveness_score >= 70 THEN 'high_investment' ELSE 'moderate_investment' END
			] AS business_facets,

			CURRENT_TIMESTAMP AS gold_processed_at,
			'neighborhood_gold_v1' AS processing_version

		FROM %s n
		WHERE n.neighborhood_id IS NOT NULL AND n.name IS NOT NULL
	`, inputTable)

	if err := eng.CreateViewAs(ctx, outputTable, query); err != nil {
		return domain.GoldMetadata{}, err
	}

	outputCount, err := eng.CountRecords(ctx, outputTable)
	if err != nil {
		return domain.GoldMetadata{}, err
	}

	enrichments := []string{"density_category", "livability_scoring", "lifestyle_categorization", "investment_attractiveness", "business_facets"}
	return domain.NewGoldMetadata(inputTable, outputTable, inputCount, outputCount, enrichments, domain.EntityNeighborhood)
}
