package retrieval

import (
	"strconv"
	"strings"

	"github.com/couchcryptid/realestate-medallion/internal/retrieval/location"
)

// sourceFields are the document fields returned for each hit, mirroring
// RRFQueryBuilder._get_source_fields.
var sourceFields = []string{
	"listing_id",
	"property_type",
	"price",
	"bedrooms",
	"bathrooms",
	"square_feet",
	"address",
	"description",
	"features",
	"neighborhood",
}

// buildQuery constructs the Elasticsearch request body for one hybrid
// search: a standard (lexical) retriever and a knn (vector) retriever,
// fused via RRF, both carrying the same location filters (spec.md §4.K
// steps 4-5). Grounded on RRFQueryBuilder.build_query.
func buildQuery(params SearchParams, queryVector []float32, queryText string) map[string]any {
	filters := buildFilters(params.LocationIntent)

	textQuery := buildTextQuery(queryText, params.TextBoost, filters)
	vectorConfig := buildVectorConfig(queryVector, params.Size, filters)

	return map[string]any{
		"retriever": map[string]any{
			"rrf": map[string]any{
				"retrievers": []map[string]any{
					{"standard": map[string]any{"query": textQuery}},
					{"knn": vectorConfig},
				},
				"rank_constant":    params.RankConstant,
				"rank_window_size": params.RankWindowSize,
			},
		},
		"size":    params.Size,
		"_source": sourceFields,
	}
}

func buildTextQuery(queryText string, textBoost float64, filters []map[string]any) map[string]any {
	base := map[string]any{
		"multi_match": map[string]any{
			"query": queryText,
			"fields": []string{
				boostedField("description", 2.0*textBoost),
				boostedField("features", 1.5*textBoost),
				boostedField("amenities", 1.5*textBoost),
				"address.street",
				"address.city",
				"neighborhood.name",
			},
			"type":      "best_fields",
			"fuzziness": "AUTO",
		},
	}
	if len(filters) == 0 {
		return base
	}
	return map[string]any{
		"bool": map[string]any{
			"must":   base,
			"filter": filters,
		},
	}
}

func buildVectorConfig(queryVector []float32, size int, filters []map[string]any) map[string]any {
	config := map[string]any{
		"field":          "embedding",
		"query_vector":   queryVector,
		"k":              min(size*5, 100),
		"num_candidates": min(size*10, 200),
	}
	if len(filters) > 0 {
		config["filter"] = filters
	}
	return config
}

// buildFilters translates a location.Intent into term filters, pushed
// into both sub-retrievers rather than applied post-hoc (spec.md §4.K
// step 5). Grounded on LocationFilterBuilder.build_filters.
func buildFilters(intent *location.Intent) []map[string]any {
	if intent == nil || !intent.HasLocation {
		return nil
	}

	var filters []map[string]any
	if intent.City != "" {
		filters = append(filters, map[string]any{
			"term": map[string]any{"address.city": strings.ToLower(intent.City)},
		})
	}
	if intent.State != "" {
		filters = append(filters, map[string]any{
			"term": map[string]any{"address.state": intent.State},
		})
	}
	if intent.Neighborhood != "" {
		filters = append(filters, map[string]any{
			"term": map[string]any{"neighborhood.name.keyword": intent.Neighborhood},
		})
	}
	if intent.ZipCode != "" {
		filters = append(filters, map[string]any{
			"term": map[string]any{"address.zip_code": intent.ZipCode},
		})
	}
	return filters
}

func boostedField(field string, boost float64) string {
	return field + "^" + strconv.FormatFloat(boost, 'g', -1, 64)
}
