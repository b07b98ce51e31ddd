package graphdb

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/realestate-medallion/internal/catalog"
)

func TestValidRelationshipTypes_AcceptsEveryCatalogRelationship(t *testing.T) {
	for _, relType := range relationshipTypes {
		assert.True(t, validRelationshipTypes[relType], "expected %s to be allowlisted", relType)
	}
}

func TestValidRelationshipTypes_RejectsUnknownType(t *testing.T) {
	assert.False(t, validRelationshipTypes["DROP TABLE properties; --"])
	assert.False(t, validRelationshipTypes["UNKNOWN_REL"])
}

func TestNodePrimaryKey(t *testing.T) {
	cases := map[string]string{
		"Property":               "listing_id",
		"Neighborhood":           "neighborhood_id",
		"WikipediaArticle":       "page_id",
		catalog.LabelFeature:     "feature_id",
		catalog.LabelPropertyType: "type_id",
		catalog.LabelPriceRange:  "range_id",
		catalog.LabelCity:        "city_id",
		catalog.LabelCounty:      "county_id",
		catalog.LabelState:       "state_id",
		catalog.LabelZipCode:     "zip_code",
	}
	for label, want := range cases {
		assert.Equal(t, want, nodePrimaryKey(label), "label %s", label)
	}
}

func TestNodeLabels_CoverEveryGraphBuilderLabel(t *testing.T) {
	want := []string{
		catalog.LabelCity, catalog.LabelCounty, catalog.LabelState, catalog.LabelZipCode,
		"Neighborhood", "WikipediaArticle",
		catalog.LabelFeature, catalog.LabelPropertyType, catalog.LabelPriceRange,
		"Property",
	}
	assert.ElementsMatch(t, want, nodeLabels)
}

func TestRelationshipTypes_MatchCatalogConstants(t *testing.T) {
	want := []string{
		catalog.RelLocatedIn, catalog.RelHasFeature, catalog.RelInCity, catalog.RelInState,
		catalog.RelInZipCode, catalog.RelTypeOf, catalog.RelInPriceRange, catalog.RelSimilarTo,
		catalog.RelGeographicHierarchy,
	}
	assert.ElementsMatch(t, want, relationshipTypes)
}
