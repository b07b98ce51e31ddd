// Package retrieval implements the Hybrid Retrieval Core (component K):
// location-aware query understanding, reciprocal-rank-fusion query
// construction, retried execution against the search engine, and result
// shaping (spec.md §4.K).
//
// Grounded on original_source/real_estate_search/hybrid/{models.py,
// query_builder.py,search_executor.py,result_processor.py,search_engine.py}.
package retrieval

import "github.com/couchcryptid/realestate-medallion/internal/retrieval/location"

// SearchParams are the inputs to one hybrid search.
type SearchParams struct {
	QueryText       string
	Size            int
	RankConstant    int // RRF k parameter; defaults to 60.
	RankWindowSize  int // RRF window size; defaults to 100.
	TextBoost       float64
	VectorBoost     float64
	LocationIntent  *location.Intent
}

// DefaultSearchParams fills RankConstant/RankWindowSize/boosts/Size with
// spec.md §4.K's documented defaults, leaving QueryText for the caller.
func DefaultSearchParams(queryText string) SearchParams {
	return SearchParams{
		QueryText:      queryText,
		Size:           10,
		RankConstant:   60,
		RankWindowSize: 100,
		TextBoost:      1.0,
		VectorBoost:    1.0,
	}
}

// Result is one ranked hit with the engine-supplied combined score;
// individual lexical/vector scores are not available under RRF fusion
// (spec.md §4.K step 7).
type Result struct {
	ListingID   string
	HybridScore float64
	Source      map[string]any
}

// SearchMetadata describes how a HybridResult was produced.
type SearchMetadata struct {
	RRFUsed            bool
	RankConstant       int
	RankWindowSize     int
	ElasticsearchTookMS int
}

// HybridResult is the complete output of one Search call.
type HybridResult struct {
	Query             string
	TotalHits         int
	ExecutionTimeMS   int
	EmbeddingTimeMS   int
	Results           []Result
	SearchMetadata    SearchMetadata
	LocationIntent    *location.Intent
}
