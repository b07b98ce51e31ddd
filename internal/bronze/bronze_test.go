package bronze

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/realestate-medallion/internal/engine"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	e, err := engine.New(engine.Config{DatabaseFile: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func writeJSONFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const propertiesFixture = `[
	{"listing_id": "p1", "listing_price": 500000, "bedrooms": 3, "bathrooms": 2, "square_feet": 1500, "address": "1 Main St", "city": "Springfield", "state": "IL", "zip_code": "62701", "latitude": 39.78, "longitude": -89.65},
	{"listing_id": "p2", "listing_price": 650000, "bedrooms": 4, "bathrooms": 3, "square_feet": 2200, "address": "2 Main St", "city": "Springfield", "state": "IL", "zip_code": "62701", "latitude": 39.79, "longitude": -89.64}
]`

func TestIngestProperty_LoadsRawRecords(t *testing.T) {
	eng := newTestEngine(t)
	path := writeJSONFile(t, "properties.json", propertiesFixture)

	meta, err := IngestProperty(context.Background(), eng, "bronze_properties", nil, path, 0)
	require.NoError(t, err)

	assert.Equal(t, "bronze_properties", meta.TableName())
	assert.Equal(t, 2, meta.RecordCount())

	count, err := eng.CountRecords(context.Background(), "bronze_properties")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestIngestProperty_SampleSizeLimitsRows(t *testing.T) {
	eng := newTestEngine(t)
	path := writeJSONFile(t, "properties.json", propertiesFixture)

	meta, err := IngestProperty(context.Background(), eng, "bronze_properties", nil, path, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, meta.RecordCount())
}

func TestIngestProperty_MissingFileIsFatal(t *testing.T) {
	eng := newTestEngine(t)
	_, err := IngestProperty(context.Background(), eng, "bronze_properties", nil, "/no/such/file.json", 0)
	require.Error(t, err)
}

func TestIngestProperty_FallsBackToFilePathsSlice(t *testing.T) {
	eng := newTestEngine(t)
	path := writeJSONFile(t, "properties.json", propertiesFixture)

	meta, err := IngestProperty(context.Background(), eng, "bronze_properties", []string{path}, "", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, meta.RecordCount())
}

const neighborhoodsFixture = `[
	{"neighborhood_id": "n1", "name": "Downtown", "city": "Springfield", "state": "IL", "population": 12000, "walkability_score": 80},
	{"neighborhood_id": "n2", "name": "Uptown", "city": "Springfield", "state": "IL", "population": 8000, "walkability_score": 65}
]`

func TestIngestNeighborhood_LoadsRawRecords(t *testing.T) {
	eng := newTestEngine(t)
	path := writeJSONFile(t, "neighborhoods.json", neighborhoodsFixture)

	meta, err := IngestNeighborhood(context.Background(), eng, "bronze_neighborhoods", nil, path, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, meta.RecordCount())
}

const locationsFixture = `[
	{"neighborhood": "Downtown", "city": "Springfield", "county": "Sangamon", "state": "IL", "zip_code": "62701"},
	{"city": "Chicago", "county": "Cook", "state": "IL", "zip_code": "60601"}
]`

func TestIngestLocation_LoadsRawRecords(t *testing.T) {
	eng := newTestEngine(t)
	path := writeJSONFile(t, "locations.json", locationsFixture)

	meta, err := IngestLocation(context.Background(), eng, "bronze_locations", "", path, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, meta.RecordCount())
}

func TestIngestLocation_UsesConfiguredPathWhenArgEmpty(t *testing.T) {
	eng := newTestEngine(t)
	path := writeJSONFile(t, "locations.json", locationsFixture)

	meta, err := IngestLocation(context.Background(), eng, "bronze_locations", path, "", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, meta.RecordCount())
}

func TestIngestWikipedia_MissingPathIsConfigurationError(t *testing.T) {
	eng := newTestEngine(t)
	_, err := IngestWikipedia(context.Background(), eng, "bronze_wikipedia", "", "", 0)
	require.Error(t, err)
}

func TestValidateProperty_ValidFixturePasses(t *testing.T) {
	eng := newTestEngine(t)
	path := writeJSONFile(t, "properties.json", propertiesFixture)
	_, err := IngestProperty(context.Background(), eng, "bronze_properties", nil, path, 0)
	require.NoError(t, err)

	result, err := ValidateProperty(context.Background(), eng, "bronze_properties")
	require.NoError(t, err)

	assert.True(t, result.IsValid)
	assert.True(t, result.SchemaValid)
	assert.True(t, result.NullsValid)
	assert.True(t, result.DuplicatesValid)
	assert.Equal(t, 2, result.RecordCount)
	assert.Empty(t, result.Errors)
}

func TestValidateProperty_DuplicateListingIDFails(t *testing.T) {
	eng := newTestEngine(t)
	fixture := `[
		{"listing_id": "dup", "listing_price": 1, "bedrooms": 1, "bathrooms": 1, "square_feet": 1, "address": "a", "city": "c", "state": "s", "zip_code": "z", "latitude": 1.0, "longitude": 1.0},
		{"listing_id": "dup", "listing_price": 1, "bedrooms": 1, "bathrooms": 1, "square_feet": 1, "address": "a", "city": "c", "state": "s", "zip_code": "z", "latitude": 1.0, "longitude": 1.0}
	]`
	path := writeJSONFile(t, "properties.json", fixture)
	_, err := IngestProperty(context.Background(), eng, "bronze_properties", nil, path, 0)
	require.NoError(t, err)

	result, err := ValidateProperty(context.Background(), eng, "bronze_properties")
	require.NoError(t, err)

	assert.False(t, result.IsValid)
	assert.False(t, result.DuplicatesValid)
	assert.NotEmpty(t, result.Errors)
}

func TestValidateProperty_EmptyTableReportsNoRecordsError(t *testing.T) {
	eng := newTestEngine(t)
	path := writeJSONFile(t, "properties.json", `[]`)
	_, err := IngestProperty(context.Background(), eng, "bronze_properties", nil, path, 0)
	require.NoError(t, err)

	result, err := ValidateProperty(context.Background(), eng, "bronze_properties")
	require.NoError(t, err)

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors, "no records found")
}

func TestValidateNeighborhood_ValidFixturePasses(t *testing.T) {
	eng := newTestEngine(t)
	path := writeJSONFile(t, "neighborhoods.json", neighborhoodsFixture)
	_, err := IngestNeighborhood(context.Background(), eng, "bronze_neighborhoods", nil, path, 0)
	require.NoError(t, err)

	result, err := ValidateNeighborhood(context.Background(), eng, "bronze_neighborhoods")
	require.NoError(t, err)
	assert.True(t, result.IsValid)
}

func TestValidateWikipedia_ShortContentWarns(t *testing.T) {
	eng := newTestEngine(t)
	fixture := `[{"page_id": 1, "title": "x", "summary": "y", "content": "short", "url": "http://x"}]`
	path := writeJSONFile(t, "wiki.json", fixture)
	require.NoError(t, ingestJSON(context.Background(), eng, "bronze_wikipedia", path, 0))

	result, err := ValidateWikipedia(context.Background(), eng, "bronze_wikipedia")
	require.NoError(t, err)

	assert.True(t, result.IsValid)
	assert.NotEmpty(t, result.Warnings)
}

func TestValidateLocation_AllNullHierarchyWarns(t *testing.T) {
	eng := newTestEngine(t)
	fixture := `[{"neighborhood": null, "city": null, "county": null, "state": null}]`
	path := writeJSONFile(t, "locations.json", fixture)
	require.NoError(t, ingestJSON(context.Background(), eng, "bronze_locations", path, 0))

	result, err := ValidateLocation(context.Background(), eng, "bronze_locations")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Warnings)
}
