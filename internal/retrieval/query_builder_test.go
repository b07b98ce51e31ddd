package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/realestate-medallion/internal/retrieval/location"
)

func TestBuildQuery_NoLocationProducesUnfilteredRetrievers(t *testing.T) {
	params := DefaultSearchParams("modern kitchen")
	query := buildQuery(params, []float32{0.1, 0.2}, "modern kitchen")

	retriever, ok := query["retriever"].(map[string]any)
	require.True(t, ok)
	rrf, ok := retriever["rrf"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 60, rrf["rank_constant"])
	assert.Equal(t, 100, rrf["rank_window_size"])

	retrievers, ok := rrf["retrievers"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, retrievers, 2)

	standard := retrievers[0]["standard"].(map[string]any)
	textQuery := standard["query"].(map[string]any)
	_, hasBool := textQuery["bool"]
	assert.False(t, hasBool, "no filters means the multi_match should not be wrapped in bool")

	knn := retrievers[1]["knn"].(map[string]any)
	assert.NotContains(t, knn, "filter")
}

func TestBuildQuery_WithLocationPushesSameFiltersIntoBothRetrievers(t *testing.T) {
	params := DefaultSearchParams("cozy condo")
	params.LocationIntent = &location.Intent{
		City:        "San Francisco",
		State:       "California",
		HasLocation: true,
	}
	query := buildQuery(params, []float32{0.1}, "cozy condo")

	retriever := query["retriever"].(map[string]any)
	rrf := retriever["rrf"].(map[string]any)
	retrievers := rrf["retrievers"].([]map[string]any)

	standard := retrievers[0]["standard"].(map[string]any)
	textQuery := standard["query"].(map[string]any)
	boolQuery, ok := textQuery["bool"].(map[string]any)
	require.True(t, ok, "filters present means the multi_match must be wrapped in bool")
	textFilters := boolQuery["filter"].([]map[string]any)

	knn := retrievers[1]["knn"].(map[string]any)
	vectorFilters := knn["filter"].([]map[string]any)

	assert.Equal(t, textFilters, vectorFilters, "both sub-retrievers must carry identical filters")
	assert.Len(t, textFilters, 2)
}

func TestBuildQuery_VectorKAndCandidatesAreSizeDerivedAndCapped(t *testing.T) {
	params := DefaultSearchParams("q")
	params.Size = 50

	query := buildQuery(params, []float32{0.1}, "q")
	retriever := query["retriever"].(map[string]any)
	rrf := retriever["rrf"].(map[string]any)
	retrievers := rrf["retrievers"].([]map[string]any)
	knn := retrievers[1]["knn"].(map[string]any)

	assert.Equal(t, 100, knn["k"], "k = min(size*5, 100)")
	assert.Equal(t, 200, knn["num_candidates"], "num_candidates = min(size*10, 200)")
}

func TestBuildQuery_SmallSizeIsNotCapped(t *testing.T) {
	params := DefaultSearchParams("q")
	params.Size = 10

	query := buildQuery(params, []float32{0.1}, "q")
	retriever := query["retriever"].(map[string]any)
	rrf := retriever["rrf"].(map[string]any)
	retrievers := rrf["retrievers"].([]map[string]any)
	knn := retrievers[1]["knn"].(map[string]any)

	assert.Equal(t, 50, knn["k"])
	assert.Equal(t, 100, knn["num_candidates"])
}

func TestBuildFilters_TranslatesEachLocationComponent(t *testing.T) {
	intent := &location.Intent{
		City:         "Austin",
		State:        "Texas",
		Neighborhood: "Downtown",
		ZipCode:      "78701",
		HasLocation:  true,
	}

	filters := buildFilters(intent)
	require.Len(t, filters, 4)

	assert.Equal(t, map[string]any{"term": map[string]any{"address.city": "austin"}}, filters[0])
	assert.Equal(t, map[string]any{"term": map[string]any{"address.state": "Texas"}}, filters[1])
	assert.Equal(t, map[string]any{"term": map[string]any{"neighborhood.name.keyword": "Downtown"}}, filters[2])
	assert.Equal(t, map[string]any{"term": map[string]any{"address.zip_code": "78701"}}, filters[3])
}

func TestBuildFilters_NilOrNoLocationYieldsNoFilters(t *testing.T) {
	assert.Nil(t, buildFilters(nil))
	assert.Nil(t, buildFilters(&location.Intent{HasLocation: false, City: "Ignored"}))
}

func TestBuildFilters_PartialIntentOmitsMissingFields(t *testing.T) {
	filters := buildFilters(&location.Intent{City: "Reno", HasLocation: true})
	require.Len(t, filters, 1)
	assert.Equal(t, map[string]any{"term": map[string]any{"address.city": "reno"}}, filters[0])
}
