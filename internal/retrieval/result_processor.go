package retrieval

import "fmt"

// processResponse converts a raw Elasticsearch response into a
// HybridResult, attaching the combined RRF score per hit since individual
// lexical/vector scores are unavailable under fusion (spec.md §4.K step 7).
// Grounded on ResultProcessor.process_response.
func processResponse(query string, resp searchResponse, executionTimeMS, embeddingTimeMS int, params SearchParams) HybridResult {
	results := make([]Result, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		results = append(results, Result{
			ListingID:   fmt.Sprintf("%v", hit.Source["listing_id"]),
			HybridScore: hit.Score,
			Source:      hit.Source,
		})
	}

	return HybridResult{
		Query:           query,
		TotalHits:       resp.Hits.Total.Value,
		ExecutionTimeMS: executionTimeMS,
		EmbeddingTimeMS: embeddingTimeMS,
		Results:         results,
		SearchMetadata: SearchMetadata{
			RRFUsed:             true,
			RankConstant:        params.RankConstant,
			RankWindowSize:      params.RankWindowSize,
			ElasticsearchTookMS: resp.Took,
		},
		LocationIntent: params.LocationIntent,
	}
}
