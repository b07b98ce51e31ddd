package silver

import (
	"context"
	"fmt"
	"time"

	"github.com/couchcryptid/realestate-medallion/internal/domain"
	"github.com/couchcryptid/realestate-medallion/internal/embedding"
	"github.com/couchcryptid/realestate-medallion/internal/engine"
)

// TransformNeighborhood refines bronze neighborhood data into Silver,
// left-joining the already-built silver_locations table for canonicalized
// county and hierarchical IDs (spec.md §4.F "Neighborhood"). locationsTable
// must already exist — Location Silver runs before Neighborhood Silver.
func TransformNeighborhood(ctx context.Context, eng *engine.Engine, provider embedding.Provider, inputTable, locationsTable, outputTable string, batchDelay time.Duration) (domain.SilverMetadata, error) {
	exists, err := eng.TableExists(ctx, inputTable)
	if err != nil {
		return domain.SilverMetadata{}, err
	}
	if !exists {
		return domain.SilverMetadata{}, domain.WrapConfiguration(fmt.Sprintf("silver: input table %q does not exist", inputTable), nil)
	}
	inputCount, err := eng.CountRecords(ctx, inputTable)
	if err != nil {
		return domain.SilverMetadata{}, err
	}

	const tmpTransformed = "tmp_silver_neighborhood_transformed"
	const tmpEmbed = "tmp_silver_neighborhood_embeddings"

	// Standardize the Bronze state the same way Location Silver does, so an
	// abbreviation and a full name for the same state still join.
	neighborhoodStateFullName := stateToFullNameCaseSQL("n.state")

	transformedSelect := fmt.Sprintf(`
		SELECT
			n.neighborhood_id,
			n.name,
			n.city,
			n.state,
			l.county_id AS county_id,
			n.coordinates.longitude AS longitude,
			n.coordinates.latitude AS latitude,
			n.demographics.population AS population,
			n.characteristics.walkability_score AS walkability_score,
			n.characteristics.school_rating AS school_rating,
			n.wikipedia_correlations.primary_wiki_article.page_id AS wikipedia_page_id,
			CONCAT_WS(' | ',
				COALESCE(n.description, ''),
				COALESCE(n.name, ''),
				CONCAT('Population: ', COALESCE(n.demographics.population, 0))
			) AS embedding_text
		FROM %s n
		LEFT JOIN %s l
			ON n.name = l.neighborhood
			AND n.city = l.city
			AND %s = l.state_standardized
		WHERE n.neighborhood_id IS NOT NULL AND n.name IS NOT NULL
	`, inputTable, locationsTable, neighborhoodStateFullName)

	if err := eng.CreateTableAs(ctx, tmpTransformed, transformedSelect); err != nil {
		return domain.SilverMetadata{}, err
	}
	defer eng.DropTable(ctx, tmpTransformed)

	keys, texts, err := fetchKeyTextPairs(ctx, eng, fmt.Sprintf("SELECT neighborhood_id, embedding_text FROM %s", tmpTransformed))
	if err != nil {
		return domain.SilverMetadata{}, err
	}
	if err := attachEmbeddings(ctx, eng, provider, batchDelay, tmpEmbed, "neighborhood_id", "VARCHAR", keys, texts); err != nil {
		return domain.SilverMetadata{}, err
	}
	defer eng.DropTable(ctx, tmpEmbed)

	finalSelect := fmt.Sprintf(`
		SELECT
			t.neighborhood_id, t.name, t.city, t.state, t.county_id, t.longitude,
			t.latitude, t.population, t.walkability_score, t.school_rating,
			t.wikipedia_page_id, e.embedding_text, e.embedding_vector, e.embedding_generated_at
		FROM %s t
		LEFT JOIN %s e ON t.neighborhood_id = e.neighborhood_id
	`, tmpTransformed, tmpEmbed)

	if err := eng.CreateTableAs(ctx, outputTable, finalSelect); err != nil {
		return domain.SilverMetadata{}, err
	}

	outputCount, err := eng.CountRecords(ctx, outputTable)
	if err != nil {
		return domain.SilverMetadata{}, err
	}

	return domain.NewSilverMetadata(inputTable, outputTable, inputCount, outputCount, domain.EntityNeighborhood)
}
