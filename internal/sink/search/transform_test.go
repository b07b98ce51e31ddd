package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformProperty_NestsAddressAndGeoPoint(t *testing.T) {
	generatedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	row := map[string]any{
		"listing_id":             "p1",
		"street":                 "123 Main St",
		"city":                   "Springfield",
		"state":                  "IL",
		"zip_code":               "62704",
		"latitude":               39.78,
		"longitude":              -89.65,
		"embedding_generated_at": generatedAt,
		"price":                  250000.0,
	}

	doc, err := transformProperty(row)
	require.NoError(t, err)

	assert.NotContains(t, doc, "street")
	assert.NotContains(t, doc, "latitude")
	assert.NotContains(t, doc, "longitude")

	address, ok := doc["address"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "123 Main St", address["street"])
	assert.Equal(t, "Springfield", address["city"])

	geoPoint, ok := address["geo_point"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 39.78, geoPoint["lat"])
	assert.Equal(t, -89.65, geoPoint["lon"])

	assert.Equal(t, "2026-01-02T03:04:05Z", doc["embedding_generated_at"])
	assert.Equal(t, 250000.0, doc["price"])
}

func TestTransformNeighborhood_BuildsGeoPointWithoutAddress(t *testing.T) {
	row := map[string]any{
		"neighborhood_id": "n1",
		"name":            "Downtown",
		"latitude":        39.8,
		"longitude":       -89.6,
	}

	doc, err := transformNeighborhood(row)
	require.NoError(t, err)

	assert.NotContains(t, doc, "latitude")
	assert.NotContains(t, doc, "longitude")
	assert.NotContains(t, doc, "address")

	geoPoint, ok := doc["geo_point"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 39.8, geoPoint["lat"])
}

func TestTransformWikipedia_IsoifiesTimestampsOnly(t *testing.T) {
	processedAt := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	row := map[string]any{
		"page_id":           int64(42),
		"title":             "Springfield",
		"gold_processed_at": processedAt,
	}

	doc, err := transformWikipedia(row)
	require.NoError(t, err)

	assert.Equal(t, "2026-03-04T05:06:07Z", doc["gold_processed_at"])
	assert.Equal(t, "Springfield", doc["title"])
}
