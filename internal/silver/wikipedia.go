package silver

import (
	"context"
	"fmt"
	"time"

	"github.com/couchcryptid/realestate-medallion/internal/domain"
	"github.com/couchcryptid/realestate-medallion/internal/embedding"
	"github.com/couchcryptid/realestate-medallion/internal/engine"
)

// TransformWikipedia refines bronze Wikipedia data into Silver: renames
// pageid to page_id, trims text fields, standardizes state to a two-letter
// code, left-aggregates silver_neighborhoods to attach
// {neighborhood_ids[], neighborhood_names[], primary_neighborhood_name}, and
// attaches embeddings. Deduplication by page_id is deferred to Gold, which
// has the article_quality_score needed to pick a winner (see DESIGN.md);
// Silver may carry more than one row per page_id. neighborhoodsTable must
// already exist.
func TransformWikipedia(ctx context.Context, eng *engine.Engine, provider embedding.Provider, inputTable, neighborhoodsTable, outputTable string, batchDelay time.Duration) (domain.SilverMetadata, error) {
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

	const tmpAgg = "tmp_silver_wikipedia_neighborhood_agg"
	const tmpTransformed = "tmp_silver_wikipedia_transformed"
	const tmpEmbed = "tmp_silver_wikipedia_embeddings"

	stateCase := stateToAbbrCaseSQL("w.state")

	// Left-aggregate neighborhoods by the Wikipedia page they correlate to.
	// primary_neighborhood_name picks the lexicographically-first
	// neighborhood_id's name, a deterministic stand-in for the source's
	// insertion-order "first by neighborhood_id".
	aggSelect := fmt.Sprintf(`
		SELECT
			wikipedia_page_id,
			ARRAY_AGG(neighborhood_id ORDER BY neighborhood_id) AS neighborhood_ids,
			ARRAY_AGG(name ORDER BY neighborhood_id) AS neighborhood_names,
			FIRST(name ORDER BY neighborhood_id) AS primary_neighborhood_name
		FROM %s
		WHERE wikipedia_page_id IS NOT NULL
		GROUP BY wikipedia_page_id
	`, neighborhoodsTable)
	if err := eng.CreateTableAs(ctx, tmpAgg, aggSelect); err != nil {
		return domain.SilverMetadata{}, err
	}
	defer eng.DropTable(ctx, tmpAgg)

	transformedSelect := fmt.Sprintf(`
		SELECT
			ROW_NUMBER() OVER () AS row_key,
			CAST(w.pageid AS BIGINT) AS page_id,
			TRIM(w.title) AS title,
			w.url,
			TRIM(w.extract) AS extract,
			w.categories,
			w.latitude,
			w.longitude,
			w.city,
			w.county,
			%s AS state,
			a.neighborhood_ids,
			a.neighborhood_names,
			a.primary_neighborhood_name,
			w.relevance_score,
			w.links_count,
			CONCAT_WS(' | ', TRIM(w.title), TRIM(w.extract)) AS embedding_text
		FROM %s w
		LEFT JOIN %s a ON CAST(w.pageid AS BIGINT) = a.wikipedia_page_id
		WHERE w.pageid IS NOT NULL
	`, stateCase, inputTable, tmpAgg)
	if err := eng.CreateTableAs(ctx, tmpTransformed, transformedSelect); err != nil {
		return domain.SilverMetadata{}, err
	}
	defer eng.DropTable(ctx, tmpTransformed)

	// Embeddings are keyed by row, not page_id: Silver keeps duplicate
	// page_ids, and a page_id key would fan the join out.
	keys, texts, err := fetchKeyTextPairs(ctx, eng, fmt.Sprintf("SELECT CAST(row_key AS VARCHAR), embedding_text FROM %s", tmpTransformed))
	if err != nil {
		return domain.SilverMetadata{}, err
	}
	if err := attachEmbeddings(ctx, eng, provider, batchDelay, tmpEmbed, "row_key", "VARCHAR", keys, texts); err != nil {
		return domain.SilverMetadata{}, err
	}
	defer eng.DropTable(ctx, tmpEmbed)

	finalSelect := fmt.Sprintf(`
		SELECT
			t.page_id, t.title, t.url, t.extract, t.categories,
			t.latitude, t.longitude, t.city, t.county, t.state,
			t.neighborhood_ids, t.neighborhood_names, t.primary_neighborhood_name,
			t.relevance_score, t.links_count,
			e.embedding_text, e.embedding_vector, e.embedding_generated_at
		FROM %s t
		LEFT JOIN %s e ON CAST(t.row_key AS VARCHAR) = e.row_key
	`, tmpTransformed, tmpEmbed)

	if err := eng.CreateTableAs(ctx, outputTable, finalSelect); err != nil {
		return domain.SilverMetadata{}, err
	}

	outputCount, err := eng.CountRecords(ctx, outputTable)
	if err != nil {
		return domain.SilverMetadata{}, err
	}

	return domain.NewSilverMetadata(inputTable, outputTable, inputCount, outputCount, domain.EntityWikipedia)
}
