// Package catalog is the frozen table-name registry (component B). It holds
// no logic beyond lookup — its only job is to keep Bronze/Silver/Gold table
// names consistent so a rename happens in one place.
package catalog

import "fmt"

// TableNames names the Bronze/Silver/Gold/graph tables for one entity type.
type TableNames struct {
	Entity      string
	Bronze      string
	Silver      string
	Gold        string // a view, not a materialized table
	GraphLabel  string // empty for entities with no graph node label
}

var registry = map[string]TableNames{
	"property": {
		Entity:     "property",
		Bronze:     "bronze_properties",
		Silver:     "silver_properties",
		Gold:       "gold_properties",
		GraphLabel: "Property",
	},
	"neighborhood": {
		Entity:     "neighborhood",
		Bronze:     "bronze_neighborhoods",
		Silver:     "silver_neighborhoods",
		Gold:       "gold_neighborhoods",
		GraphLabel: "Neighborhood",
	},
	"wikipedia": {
		Entity:     "wikipedia",
		Bronze:     "bronze_wikipedia",
		Silver:     "silver_wikipedia",
		Gold:       "gold_wikipedia",
		GraphLabel: "WikipediaArticle",
	},
	"location": {
		Entity:     "location",
		Bronze:     "bronze_locations",
		Silver:     "silver_locations",
		Gold:       "gold_locations",
		GraphLabel: "",
	},
}

// entityOrder fixes iteration order where the orchestrator needs it
// (Location first, since Neighborhood/Property Silver join on it).
var entityOrder = []string{"location", "neighborhood", "wikipedia", "property"}

// Lookup returns the TableNames for a known entity type.
func Lookup(entity string) (TableNames, error) {
	t, ok := registry[entity]
	if !ok {
		return TableNames{}, fmt.Errorf("catalog: unknown entity type %q", entity)
	}
	return t, nil
}

// MustLookup returns the TableNames for one of the four entity types this
// package's registry fixes at compile time ("property", "neighborhood",
// "wikipedia", "location"), panicking on any other input. Callers that
// pass a compile-time literal never observe the panic; it exists to catch
// a typo immediately rather than propagate a zero-value TableNames.
func MustLookup(entity string) TableNames {
	t, err := Lookup(entity)
	if err != nil {
		panic(err)
	}
	return t
}

// All returns every entity's TableNames in a fixed, dependency-respecting
// order (location, neighborhood, wikipedia, property).
func All() []TableNames {
	out := make([]TableNames, 0, len(entityOrder))
	for _, e := range entityOrder {
		out = append(out, registry[e])
	}
	return out
}

// Graph table name prefixes (component H). Node tables are
// "gold_graph_<lowercase label>"; edge tables are
// "gold_graph_<lowercase relationship type>".
const GraphTablePrefix = "gold_graph_"

// GraphNodeTable returns the materialized table name for a graph node label.
func GraphNodeTable(label string) string {
	return GraphTablePrefix + lower(label)
}

// GraphEdgeTable returns the materialized table name for a graph
// relationship type.
func GraphEdgeTable(relationshipType string) string {
	return GraphTablePrefix + lower(relationshipType)
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// Node labels and relationship types enumerated in spec.md §3 "Graph
// tables", beyond the four primary entities.
const (
	LabelFeature     = "Feature"
	LabelPropertyType = "PropertyType"
	LabelPriceRange  = "PriceRange"
	LabelCity        = "City"
	LabelState       = "State"
	LabelCounty      = "County"
	LabelZipCode     = "ZipCode"

	RelLocatedIn            = "LOCATED_IN"
	RelHasFeature            = "HAS_FEATURE"
	RelInCity                = "IN_CITY"
	RelInState               = "IN_STATE"
	RelInZipCode             = "IN_ZIP_CODE"
	RelTypeOf                = "TYPE_OF"
	RelInPriceRange          = "IN_PRICE_RANGE"
	RelSimilarTo             = "SIMILAR_TO"
	RelGeographicHierarchy   = "GEOGRAPHIC_HIERARCHY"
)
