package silver

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/realestate-medallion/internal/embedding"
	"github.com/couchcryptid/realestate-medallion/internal/engine"
)

type stubProvider struct{ dimension int }

func (p *stubProvider) GenerateEmbeddings(ctx context.Context, texts []string) (embedding.Response, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = make([]float32, p.dimension)
	}
	return embedding.Response{Vectors: vectors, ModelName: "stub", Dimension: p.dimension}, nil
}
func (p *stubProvider) GetBatchSize() int  { return 50 }
func (p *stubProvider) Dimension() int     { return p.dimension }
func (p *stubProvider) ModelName() string  { return "stub" }

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

const bronzeLocationsFixture = `[
	{"neighborhood": "Downtown", "city": "Springfield", "county": "Sangamon County", "state": "IL", "zip_code": "62701"},
	{"neighborhood": null, "city": "Chicago", "county": "Cook County", "state": "IL", "zip_code": "90001"},
	{"neighborhood": null, "city": null, "county": null, "state": "UT", "zip_code": null}
]`

func TestTransformLocation_ComputesHierarchyAndZipValidity(t *testing.T) {
	eng := newTestEngine(t)
	loadJSONFixture(t, eng, "bronze_locations", bronzeLocationsFixture)

	meta, err := TransformLocation(context.Background(), eng, "bronze_locations", "silver_locations")
	require.NoError(t, err)
	assert.Equal(t, 3, meta.InputCount())
	assert.Equal(t, 3, meta.OutputCount())
	assert.Equal(t, 0, meta.DroppedCount())

	rows, err := eng.Execute(context.Background(), "SELECT location_type, zip_validity, state_standardized FROM silver_locations ORDER BY location_type")
	require.NoError(t, err)
	defer rows.Close()

	var got []struct{ locationType, zipValidity, stateStd string }
	for rows.Next() {
		var r struct{ locationType, zipValidity, stateStd string }
		require.NoError(t, rows.Scan(&r.locationType, &r.zipValidity, &r.stateStd))
		got = append(got, r)
	}
	require.Len(t, got, 3)
	assert.Equal(t, "city", got[0].locationType)
	assert.Equal(t, "placeholder", got[0].zipValidity)
	assert.Equal(t, "neighborhood", got[1].locationType)
	assert.Equal(t, "valid", got[1].zipValidity)
	assert.Equal(t, "Illinois", got[1].stateStd)
	assert.Equal(t, "state", got[2].locationType)
	assert.Equal(t, "missing", got[2].zipValidity)
	assert.Equal(t, "Utah", got[2].stateStd)
}

func TestTransformLocation_MissingInputTableErrors(t *testing.T) {
	eng := newTestEngine(t)
	_, err := TransformLocation(context.Background(), eng, "bronze_locations", "silver_locations")
	require.Error(t, err)
}

const bronzePropertiesFixture = `[
	{
		"listing_id": "p1", "listing_price": 500000,
		"property_details": {"bedrooms": 3, "bathrooms": 2, "square_feet": 1500, "property_type": "Single Family", "lot_size": 0.25},
		"address": {"street": "1 Main St", "city": "Springfield", "state": "IL", "zip": "62701"},
		"coordinates": {"longitude": -89.65, "latitude": 39.78},
		"description": "A lovely home", "features": ["pool", "garage"], "neighborhood_id": "downtown_springfield"
	},
	{
		"listing_id": "p2", "listing_price": 0,
		"property_details": {"bedrooms": 1, "bathrooms": 1, "square_feet": 500, "property_type": "Condo", "lot_size": 0},
		"address": {"street": "2 Main St", "city": "Springfield", "state": "IL", "zip": "62701"},
		"coordinates": {"longitude": -89.64, "latitude": 39.79},
		"description": "Invalid price, should be filtered", "features": [], "neighborhood_id": "downtown_springfield"
	}
]`

func TestTransformProperty_FiltersAndAttachesEmbeddings(t *testing.T) {
	eng := newTestEngine(t)
	loadJSONFixture(t, eng, "bronze_properties", bronzePropertiesFixture)

	meta, err := TransformProperty(context.Background(), eng, &stubProvider{dimension: 4}, "bronze_properties", "silver_properties", 0)
	require.NoError(t, err)

	assert.Equal(t, 2, meta.InputCount())
	assert.Equal(t, 1, meta.OutputCount(), "p2 has listing_price=0 and must be filtered")
	assert.Equal(t, 1, meta.DroppedCount())

	var lotSizeSqft int
	row := eng.DB().QueryRowContext(context.Background(), "SELECT lot_size_sqft FROM silver_properties WHERE listing_id = 'p1'")
	require.NoError(t, row.Scan(&lotSizeSqft))
	assert.Equal(t, 10890, lotSizeSqft) // 0.25 * 43560
}

func TestTransformNeighborhood_LeftJoinsLocations(t *testing.T) {
	eng := newTestEngine(t)
	loadJSONFixture(t, eng, "bronze_locations", bronzeLocationsFixture)
	_, err := TransformLocation(context.Background(), eng, "bronze_locations", "silver_locations")
	require.NoError(t, err)

	neighborhoods := `[
		{"neighborhood_id": "n1", "name": "Downtown", "city": "Springfield", "state": "IL",
		 "coordinates": {"longitude": -89.65, "latitude": 39.78},
		 "demographics": {"population": 12000}, "characteristics": {"walkability_score": 80, "school_rating": 7},
		 "description": "A downtown area", "wikipedia_correlations": {"primary_wiki_article": {"page_id": 42}}}
	]`
	loadJSONFixture(t, eng, "bronze_neighborhoods", neighborhoods)

	meta, err := TransformNeighborhood(context.Background(), eng, &stubProvider{dimension: 4}, "bronze_neighborhoods", "silver_locations", "silver_neighborhoods", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, meta.OutputCount())

	var countyID string
	var wikipediaPageID int64
	row := eng.DB().QueryRowContext(context.Background(), "SELECT county_id, wikipedia_page_id FROM silver_neighborhoods WHERE neighborhood_id = 'n1'")
	require.NoError(t, row.Scan(&countyID, &wikipediaPageID))
	assert.Equal(t, "sangamon_il", countyID)
	assert.Equal(t, int64(42), wikipediaPageID)
}

func TestTransformWikipedia_CarriesDuplicatePageIDsForGoldToResolve(t *testing.T) {
	eng := newTestEngine(t)
	loadJSONFixture(t, eng, "bronze_locations", `[]`)
	_, err := TransformLocation(context.Background(), eng, "bronze_locations", "silver_locations")
	require.NoError(t, err)
	loadJSONFixture(t, eng, "bronze_neighborhoods_raw", `[]`)
	require.NoError(t, eng.CreateTableAs(context.Background(), "silver_neighborhoods",
		"SELECT CAST(NULL AS VARCHAR) AS neighborhood_id, CAST(NULL AS VARCHAR) AS name, CAST(NULL AS BIGINT) AS wikipedia_page_id WHERE FALSE"))

	wiki := `[
		{"pageid": 7, "title": " Old Town ", "extract": " first crawl ", "categories": ["history"], "city": "Springfield", "county": "Sangamon", "state": "Illinois", "latitude": 39.78, "longitude": -89.65, "relevance_score": 0.5, "links_count": 3, "url": "http://x/7"},
		{"pageid": 7, "title": " Old Town ", "extract": " second crawl, better ", "categories": ["history"], "city": "Springfield", "county": "Sangamon", "state": "IL", "latitude": 39.78, "longitude": -89.65, "relevance_score": 0.9, "links_count": 5, "url": "http://x/7"}
	]`
	loadJSONFixture(t, eng, "bronze_wikipedia", wiki)

	meta, err := TransformWikipedia(context.Background(), eng, &stubProvider{dimension: 4}, "bronze_wikipedia", "silver_neighborhoods", "silver_wikipedia", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, meta.InputCount())
	assert.Equal(t, 2, meta.OutputCount(), "Silver does not dedup; Gold resolves duplicate page_ids by article_quality_score")

	var count int
	row := eng.DB().QueryRowContext(context.Background(), "SELECT COUNT(*) FROM silver_wikipedia WHERE page_id = 7")
	require.NoError(t, row.Scan(&count))
	assert.Equal(t, 2, count)
}

func TestTransformProperty_MissingInputTableErrors(t *testing.T) {
	eng := newTestEngine(t)
	_, err := TransformProperty(context.Background(), eng, &stubProvider{dimension: 4}, "bronze_properties", "silver_properties", time.Millisecond)
	require.Error(t, err)
}
