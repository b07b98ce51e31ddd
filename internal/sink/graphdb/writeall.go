package graphdb

import (
	"context"
	"time"

	"github.com/couchcryptid/realestate-medallion/internal/catalog"
)

// WriteResult summarizes a full WriteAll run across every node and
// relationship table.
type WriteResult struct {
	Nodes              []NodeWriteResult
	Relationships      []RelationshipWriteResult
	ConstraintsCreated []string
	TotalNodes         int
	TotalRelationships int
	Duration           time.Duration
}

// nodeLabels lists every graph node label in write order: the geographic
// labels first, then Neighborhood and WikipediaArticle, then the
// classification labels, and Property last.
var nodeLabels = []string{
	catalog.LabelCity,
	catalog.LabelCounty,
	catalog.LabelState,
	catalog.LabelZipCode,
	"Neighborhood",
	"WikipediaArticle",
	catalog.LabelFeature,
	catalog.LabelPropertyType,
	catalog.LabelPriceRange,
	"Property",
}

// relationshipTypes lists every graph relationship type in write order.
// Relationship writes run after every node label has been written, since
// MERGE on a relationship requires both endpoints to already exist.
var relationshipTypes = []string{
	catalog.RelLocatedIn,
	catalog.RelHasFeature,
	catalog.RelInCity,
	catalog.RelInState,
	catalog.RelInZipCode,
	catalog.RelTypeOf,
	catalog.RelInPriceRange,
	catalog.RelSimilarTo,
	catalog.RelGeographicHierarchy,
}

// nodePrimaryKey returns the Gold-layer column that uniquely identifies
// a node of the given label, used as the MERGE key in WriteNodeTable.
func nodePrimaryKey(label string) string {
	switch label {
	case "Property":
		return "listing_id"
	case "Neighborhood":
		return "neighborhood_id"
	case "WikipediaArticle":
		return "page_id"
	case catalog.LabelFeature:
		return "feature_id"
	case catalog.LabelPropertyType:
		return "type_id"
	case catalog.LabelPriceRange:
		return "range_id"
	case catalog.LabelCity:
		return "city_id"
	case catalog.LabelCounty:
		return "county_id"
	case catalog.LabelState:
		return "state_id"
	case catalog.LabelZipCode:
		return "zip_code"
	default:
		return "id"
	}
}

// WriteAll creates constraints/indexes, then writes every node table
// followed by every relationship table (spec.md §4.I.3's ordering rule:
// all nodes before any relationship, since a relationship MERGE requires
// both endpoints to already exist).
func (w *Writer) WriteAll(ctx context.Context) (WriteResult, error) {
	start := time.Now()

	created, err := w.CreateConstraints(ctx)
	if err != nil {
		return WriteResult{}, err
	}

	result := WriteResult{ConstraintsCreated: created}

	for _, label := range nodeLabels {
		table := catalog.GraphNodeTable(label)
		nr, err := w.WriteNodeTable(ctx, label, table, nodePrimaryKey(label))
		if err != nil {
			return WriteResult{}, err
		}
		result.Nodes = append(result.Nodes, nr)
		result.TotalNodes += nr.NodesCreated
	}

	for _, relType := range relationshipTypes {
		table := catalog.GraphEdgeTable(relType)
		rr, err := w.WriteEdgeTable(ctx, relType, table)
		if err != nil {
			return WriteResult{}, err
		}
		result.Relationships = append(result.Relationships, rr)
		result.TotalRelationships += rr.RelationshipsCreated
	}

	result.Duration = time.Since(start)
	return result, nil
}
