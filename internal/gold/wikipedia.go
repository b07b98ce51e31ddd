package gold

import (
	"context"
	"fmt"

	"github.com/couchcryptid/realestate-medallion/internal/domain"
	"github.com/couchcryptid/realestate-medallion/internal/engine"
)

// Wikipedia builds the Gold Wikipedia view over Silver: content-depth and
// authority scoring, topic extraction from categories, a multi-factor
// article-quality score with a neighborhood-association boost, search
// facets, and a composite search-ranking score (spec.md §4.G "Wikipedia
// Gold"). Silver carries no dedup guarantee for page_id (see
// internal/silver/wikipedia.go), so this view computes article_quality_score
// first and then deduplicates, keeping the highest-scoring row per page_id —
// ties broken by the most recently generated embedding.
func Wikipedia(ctx context.Context, eng *engine.Engine, inputTable, outputTable string) (domain.GoldMetadata, error) {
	inputCount, err := requireInput(ctx, eng, inputTable)
	if err != nil {
		return domain.GoldMetadata{}, err
	}

	query := fmt.Sprintf(`
		WITH scored AS (
			SELECT
				w.page_id,
				w.title,
				w.url,
				w.extract,
				w.categories,
				w.state,
				w.neighborhood_ids,
				w.neighborhood_names,
				w.primary_neighborhood_name,
				w.relevance_score,
				w.links_count,
				w.embedding_text,
				w.embedding_vector,
				w.embedding_generated_at,

				CASE
					WHEN LENGTH(w.extract) >= 1000 AND w.links_count >= 10 THEN 'comprehensive'
					WHEN LENGTH(w.extract) >= 500 AND w.links_count >= 5 THEN 'detailed'
					WHEN LENGTH(w.extract) >= 200 THEN 'basic'
					ELSE 'stub'
				END AS content_depth_category,

				CAST((
					LEAST(LENGTH(w.extract) / 1000.0, 1.0) * 40 +
					LEAST(COALESCE(w.links_count, 0) / 20.0, 1.0) * 30 +
					COALESCE(w.relevance_score, 0) * 30
				) AS FLOAT) AS authority_score,

				CASE
					WHEN w.categories IS NOT NULL AND LENGTH(w.categories) > 0
					THEN list_filter(
						ARRAY[
							CASE WHEN array_to_string(w.categories, ' ') ILIKE '%geography%' OR array_to_string(w.categories, ' ') ILIKE '%location%' THEN 'geography' END,
							CASE WHEN array_to_string(w.categories, ' ') ILIKE '%history%' OR array_to_string(w.categories, ' ') ILIKE '%historic%' THEN 'history' END,
							CASE WHEN array_to_string(w.categories, ' ') ILIKE '%business%' OR array_to_string(w.categories, ' ') ILIKE '%company%' THEN 'business' END,
							CASE WHEN array_to_string(w.categories, ' ') ILIKE '%culture%' OR array_to_string(w.categories, ' ') ILIKE '%art%' THEN 'culture' END,
							CASE WHEN array_to_string(w.categories, ' ') ILIKE '%transport%' OR array_to_string(w.categories, ' ') ILIKE '%infrastructure%' THEN 'infrastructure' END
						],
						x -> x IS NOT NULL
					)
					ELSE CAST([] AS VARCHAR[])
				END AS key_topics,

				CAST((
					(
						COALESCE(w.relevance_score, 0) * 0.4 +
						CASE
							WHEN LENGTH(w.extract) >= 1000 THEN 0.6
							WHEN LENGTH(w.extract) >= 500 THEN 0.4
							WHEN LENGTH(w.extract) >= 200 THEN 0.2
							ELSE 0.1
						END * 0.3 +
						CASE
							WHEN COALESCE(w.links_count, 0) >= 20 THEN 0.6
							WHEN COALESCE(w.links_count, 0) >= 10 THEN 0.4
							WHEN COALESCE(w.links_count, 0) >= 5 THEN 0.2
							ELSE 0.1
						END * 0.3
					) +
					CASE
						WHEN w.neighborhood_names IS NOT NULL AND array_length(w.neighborhood_names) > 1 THEN 0.15
						WHEN w.neighborhood_names IS NOT NULL AND array_length(w.neighborhood_names) >= 1 THEN 0.1
						ELSE 0.0
					END
				) AS FLOAT) AS article_quality_score,

				CASE
					WHEN COALESCE(w.relevance_score, 0) >= 0.8 AND LENGTH(w.extract) >= 500 THEN 'premium'
					WHEN COALESCE(w.relevance_score, 0) >= 0.6 AND LENGTH(w.extract) >= 200 THEN 'high'
					WHEN COALESCE(w.relevance_score, 0) >= 0.4 THEN 'medium'
					ELSE 'basic'
				END AS article_quality,

				CASE
					WHEN w.latitude IS NOT NULL AND w.longitude IS NOT NULL THEN 1.0
					WHEN w.latitude IS NOT NULL OR w.longitude IS NOT NULL THEN 0.5
					ELSE 0.0
				END AS geographic_relevance_score

			FROM %s w
			WHERE w.page_id IS NOT NULL AND w.title IS NOT NULL AND LENGTH(w.title) > 0
		),
		ranked AS (
			SELECT *,
				ROW_NUMBER() OVER (
					PARTITION BY page_id
					ORDER BY article_quality_score DESC, embedding_generated_at DESC NULLS LAST
				) AS rn
			FROM scored
		)
		SELECT
			page_id, title, url, extract, categories, state,
			neighborhood_ids, neighborhood_names, primary_neighborhood_name,
			relevance_score, links_count, embedding_text, embedding_vector, embedding_generated_at,
			content_depth_category, authority_score, key_topics, article_quality_score,
			article_quality, geographic_relevance_score,

			ARRAY[
				article_quality,
				content_depth_category,
				CASE WHEN geographic_relevance_score >= 0.5 THEN 'geo_located' ELSE 'no_location' END,
				CASE WHEN authority_score >= 70 THEN 'high_authority' ELSE 'standard_authority' END,
				CASE
					WHEN neighborhood_names IS NOT NULL AND array_length(neighborhood_names) > 1 THEN 'multi_neighborhood'
					WHEN neighborhood_names IS NOT NULL AND array_length(neighborhood_names) = 1 THEN 'has_neighborhood'
					ELSE 'no_neighborhood'
				END
			] AS search_facets,

			CAST((
				article_quality_score * 0.45 +
				geographic_relevance_score * 0.25 +
				CASE WHEN LENGTH(title) BETWEEN 10 AND 100 THEN 0.15 ELSE 0.05 END +
				CASE
					WHEN neighborhood_names IS NOT NULL AND array_length(neighborhood_names) > 0 THEN 0.15
					ELSE 0.0
				END
			) AS FLOAT) AS search_ranking_score,

			CURRENT_TIMESTAMP AS gold_processed_at,
			'wikipedia_gold_v1' AS processing_version

		FROM ranked
		WHERE rn = 1
	`, inputTable)

	if err := eng.CreateViewAs(ctx, outputTable, query); err != nil {
		return domain.GoldMetadata{}, err
	}

	outputCount, err := eng.CountRecords(ctx, outputTable)
	if err != nil {
		return domain.GoldMetadata{}, err
	}

	enrichments := []string{
		"content_quality_analysis", "authority_scoring", "topic_extraction",
		"geographic_relevance", "business_categorization", "search_optimization",
		"ranking_algorithms", "page_id_dedup",
	}
	return domain.NewGoldMetadata(inputTable, outputTable, inputCount, outputCount, enrichments, domain.EntityWikipedia)
}
