package graph

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/realestate-medallion/internal/embedding"
	"github.com/couchcryptid/realestate-medallion/internal/engine"
	"github.com/couchcryptid/realestate-medallion/internal/gold"
	"github.com/couchcryptid/realestate-medallion/internal/silver"
)

type stubProvider struct{ dimension int }

func (p *stubProvider) GenerateEmbeddings(ctx context.Context, texts []string) (embedding.Response, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		v := make([]float32, p.dimension)
		for j := range v {
			v[j] = float32(i+1) / float32(j+1)
		}
		vectors[i] = v
	}
	return embedding.Response{Vectors: vectors, ModelName: "stub", Dimension: p.dimension}, nil
}
func (p *stubProvider) GetBatchSize() int { return 50 }
func (p *stubProvider) Dimension() int    { return p.dimension }
func (p *stubProvider) ModelName() string { return "stub" }

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	e, err := engine.New(engine.Config{DatabaseFile: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func loadJSONFixture(t *testing.T, eng *engine.Engine, table, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), table+".json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, eng.CreateTableAs(context.Background(), table,
		"SELECT * FROM read_json_auto('"+path+"', maximum_object_size=20000000)"))
}

const bronzePropertiesFixture = `[
	{
		"listing_id": "p1", "listing_price": 500000,
		"property_details": {"bedrooms": 3, "bathrooms": 2, "square_feet": 1500, "property_type": "Single Family", "lot_size": 0.25, "garage_spaces": 2},
		"address": {"street": "1 Main St", "city": "Springfield", "state": "IL", "zip": "62701"},
		"coordinates": {"longitude": -89.65, "latitude": 39.78},
		"description": "A lovely home", "features": ["Pool", "Garage"], "neighborhood_id": "downtown_springfield"
	},
	{
		"listing_id": "p2", "listing_price": 750000,
		"property_details": {"bedrooms": 4, "bathrooms": 3, "square_feet": 2200, "property_type": "Single Family", "lot_size": 0.3, "garage_spaces": 2},
		"address": {"street": "2 Main St", "city": "Springfield", "state": "IL", "zip": "62701"},
		"coordinates": {"longitude": -89.64, "latitude": 39.79},
		"description": "Another lovely home", "features": ["Pool", "Fireplace"], "neighborhood_id": "downtown_springfield"
	}
]`

const bronzeLocationsFixture = `[
	{"neighborhood": "Downtown", "city": "Springfield", "county": "Sangamon County", "state": "IL", "zip_code": "62701"},
	{"neighborhood": null, "city": "Springfield", "county": "Sangamon County", "state": "IL", "zip_code": null},
	{"neighborhood": null, "city": null, "county": "Sangamon County", "state": "IL", "zip_code": null},
	{"neighborhood": null, "city": null, "county": null, "state": "IL", "zip_code": null}
]`

func buildFixtureGold(t *testing.T, eng *engine.Engine) {
	t.Helper()
	ctx := context.Background()

	loadJSONFixture(t, eng, "bronze_locations", bronzeLocationsFixture)
	_, err := silver.TransformLocation(ctx, eng, "bronze_locations", "silver_locations")
	require.NoError(t, err)
	_, err = gold.Location(ctx, eng, "silver_locations", "gold_locations")
	require.NoError(t, err)

	loadJSONFixture(t, eng, "bronze_properties", bronzePropertiesFixture)
	_, err = silver.TransformProperty(ctx, eng, &stubProvider{dimension: 4}, "bronze_properties", "silver_properties", 0)
	require.NoError(t, err)
	require.NoError(t, eng.CreateTableAs(ctx, "silver_neighborhoods",
		`SELECT CAST(NULL AS VARCHAR) AS neighborhood_id, CAST(NULL AS VARCHAR) AS name,
		        CAST(NULL AS BIGINT) AS wikipedia_page_id WHERE FALSE`))
	require.NoError(t, eng.CreateTableAs(ctx, "silver_wikipedia",
		`SELECT CAST(NULL AS BIGINT) AS page_id, CAST(NULL AS VARCHAR) AS extract WHERE FALSE`))
	_, err = gold.Property(ctx, eng, "silver_properties", "silver_neighborhoods", "silver_wikipedia", "gold_properties")
	require.NoError(t, err)
}

func TestBuild_MaterializesNodeAndEdgeTables(t *testing.T) {
	eng := newTestEngine(t)
	buildFixtureGold(t, eng)

	result, err := Build(context.Background(), eng, "gold_properties", "nonexistent_neighborhoods", "nonexistent_wikipedia", "gold_locations")
	require.NoError(t, err)

	assert.Contains(t, result.NodeTables, "gold_graph_property")
	assert.Contains(t, result.NodeTables, "gold_graph_feature")
	assert.Contains(t, result.NodeTables, "gold_graph_propertytype")
	assert.Contains(t, result.NodeTables, "gold_graph_pricerange")
	assert.Contains(t, result.NodeTables, "gold_graph_city")
	assert.Contains(t, result.NodeTables, "gold_graph_state")
	assert.NotContains(t, result.NodeTables, "gold_graph_neighborhood", "neighborhoods gold table does not exist in this fixture")

	assert.Contains(t, result.EdgeTables, "gold_graph_located_in")
	assert.Contains(t, result.EdgeTables, "gold_graph_has_feature")
	assert.Contains(t, result.EdgeTables, "gold_graph_type_of")
	assert.Contains(t, result.EdgeTables, "gold_graph_in_price_range")
	assert.Contains(t, result.EdgeTables, "gold_graph_in_city")
	assert.Contains(t, result.EdgeTables, "gold_graph_in_state")
	assert.Contains(t, result.EdgeTables, "gold_graph_geographic_hierarchy")
	assert.Contains(t, result.EdgeTables, "gold_graph_similar_to", "stub embeddings are scalar multiples of each other, so their cosine similarity exceeds the 0.85 threshold")
	assert.False(t, result.SkippedSimilarTo)

	var graphNodeID string
	row := eng.DB().QueryRowContext(context.Background(), "SELECT graph_node_id FROM gold_graph_property WHERE listing_id = 'p1'")
	require.NoError(t, row.Scan(&graphNodeID))
	assert.Equal(t, "property:p1", graphNodeID)

	var featureCount int
	row = eng.DB().QueryRowContext(context.Background(), "SELECT COUNT(*) FROM gold_graph_feature")
	require.NoError(t, row.Scan(&featureCount))
	assert.Equal(t, 3, featureCount, "pool, garage, fireplace deduped and lowercased")

	var fromID, toID string
	row = eng.DB().QueryRowContext(context.Background(), "SELECT from_id, to_id FROM gold_graph_in_city WHERE from_id = 'property:p1'")
	require.NoError(t, row.Scan(&fromID, &toID))
	assert.Equal(t, "property:p1", fromID)
	assert.Equal(t, "city:springfield_il", toID)

	assert.Equal(t, result.TotalNodes > 0, true)
	assert.Equal(t, result.TotalEdges > 0, true)
}

func TestBuild_SkipsSimilarToWhenEmbeddingsAreNull(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	// A minimal gold_properties stand-in whose embedding_vector column
	// carries only nulls, simulating an unconfigured embedding provider.
	require.NoError(t, eng.CreateTableAs(ctx, "gold_properties_unembedded", `
		SELECT
			'p1' AS listing_id, CAST(NULL AS VARCHAR) AS neighborhood_id,
			3 AS bedrooms, 2 AS bathrooms, 1500 AS square_feet,
			'Single Family' AS property_type, 2005 AS year_built,
			500000.0 AS price, 333.3 AS price_per_sqft,
			'1 Main St' AS street, 'Springfield' AS city, 'IL' AS state, '62701' AS zip_code,
			-89.65 AS longitude, 39.78 AS latitude,
			'A home' AS description, ['pool'] AS features,
			CAST(NULL AS DOUBLE[]) AS embedding_vector
	`))

	result, err := Build(ctx, eng, "gold_properties_unembedded", "nonexistent_neighborhoods", "nonexistent_wikipedia", "nonexistent_locations")
	require.NoError(t, err)

	assert.True(t, result.SkippedSimilarTo)
	assert.NotContains(t, result.EdgeTables, "gold_graph_similar_to")
}
