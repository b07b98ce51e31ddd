package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_KnownEntity(t *testing.T) {
	tn, err := Lookup("property")
	require.NoError(t, err)
	assert.Equal(t, "bronze_properties", tn.Bronze)
	assert.Equal(t, "silver_properties", tn.Silver)
	assert.Equal(t, "gold_properties", tn.Gold)
	assert.Equal(t, "Property", tn.GraphLabel)
}

func TestLookup_UnknownEntity(t *testing.T) {
	_, err := Lookup("parcel")
	require.Error(t, err)
}

func TestAll_OrdersLocationFirst(t *testing.T) {
	all := All()
	require.Len(t, all, 4)
	assert.Equal(t, "location", all[0].Entity)
	assert.Equal(t, "neighborhood", all[1].Entity)
	assert.Equal(t, "wikipedia", all[2].Entity)
	assert.Equal(t, "property", all[3].Entity)
}

func TestGraphNodeTable(t *testing.T) {
	assert.Equal(t, "gold_graph_property", GraphNodeTable("Property"))
	assert.Equal(t, "gold_graph_zipcode", GraphNodeTable(LabelZipCode))
}

func TestGraphEdgeTable(t *testing.T) {
	assert.Equal(t, "gold_graph_similar_to", GraphEdgeTable(RelSimilarTo))
}
