package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessResponse_ConvertsHitsAndPreservesRRFScore(t *testing.T) {
	resp := searchResponse{Took: 42}
	resp.Hits.Total.Value = 2
	resp.Hits.Hits = []struct {
		Score  float64        `json:"_score"`
		Source map[string]any `json:"_source"`
	}{
		{Score: 0.032, Source: map[string]any{"listing_id": "p1"}},
		{Score: 0.016, Source: map[string]any{"listing_id": "p2"}},
	}

	params := DefaultSearchParams("cozy condo")
	result := processResponse("cozy condo", resp, 150, 20, params)

	require.Len(t, result.Results, 2)
	assert.Equal(t, "p1", result.Results[0].ListingID)
	assert.Equal(t, 0.032, result.Results[0].HybridScore)
	assert.Equal(t, 2, result.TotalHits)
	assert.Equal(t, 150, result.ExecutionTimeMS)
	assert.Equal(t, 20, result.EmbeddingTimeMS)
	assert.True(t, result.SearchMetadata.RRFUsed)
	assert.Equal(t, 60, result.SearchMetadata.RankConstant)
	assert.Equal(t, 42, result.SearchMetadata.ElasticsearchTookMS)
}

func TestProcessResponse_EmptyHitsYieldsEmptyResults(t *testing.T) {
	params := DefaultSearchParams("no matches")
	result := processResponse("no matches", searchResponse{}, 5, 1, params)

	assert.Empty(t, result.Results)
	assert.Equal(t, 0, result.TotalHits)
}
