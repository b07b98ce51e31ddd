package graphdb

import (
	"context"
	"fmt"
	"time"

	"github.com/couchcryptid/realestate-medallion/internal/catalog"
	"github.com/couchcryptid/realestate-medallion/internal/domain"
)

// RelationshipWriteResult summarizes one edge-table bulk upsert.
type RelationshipWriteResult struct {
	RelationshipType      string
	Table                 string
	RecordsRead           int
	RelationshipsCreated  int
	Duration              time.Duration
}

// validRelationshipTypes allowlists the relationship type names that may
// be interpolated into a Cypher relationship pattern (Cypher has no
// parameter placeholder for a relationship type), mirroring the
// safe-identifier check internal/engine applies before SQL interpolation.
var validRelationshipTypes = map[string]bool{
	catalog.RelLocatedIn:          true,
	catalog.RelHasFeature:         true,
	catalog.RelInCity:             true,
	catalog.RelInState:            true,
	catalog.RelInZipCode:          true,
	catalog.RelTypeOf:             true,
	catalog.RelInPriceRange:       true,
	catalog.RelSimilarTo:          true,
	catalog.RelGeographicHierarchy: true,
}

// WriteEdgeTable bulk-upserts every row of table into Neo4j as a
// relationship of relationshipType, matching each endpoint by its
// namespaced graph_node_id (spec.md §4.I.3's two-MATCH-plus-MERGE
// pattern). When table carries a weight column, it is set on the
// relationship after MERGE.
func (w *Writer) WriteEdgeTable(ctx context.Context, relationshipType, table string) (RelationshipWriteResult, error) {
	if !validRelationshipTypes[relationshipType] {
		return RelationshipWriteResult{}, domain.WrapProgrammer(fmt.Sprintf("sink/graphdb: unknown relationship type %q", relationshipType), nil)
	}

	start := time.Now()

	exists, err := w.eng.TableExists(ctx, table)
	if err != nil {
		return RelationshipWriteResult{}, err
	}
	if !exists {
		return RelationshipWriteResult{RelationshipType: relationshipType, Table: table}, nil
	}

	hasWeight, err := w.tableHasColumn(ctx, table, "weight")
	if err != nil {
		return RelationshipWriteResult{}, err
	}

	rows, err := w.rowsAsMaps(ctx, "SELECT * FROM "+table)
	if err != nil {
		return RelationshipWriteResult{}, err
	}

	cypher := fmt.Sprintf(`
		UNWIND $rows AS r
		MATCH (from {graph_node_id: r.from_id})
		MATCH (to {graph_node_id: r.to_id})
		MERGE (from)-[rel:%s]->(to)
	`, relationshipType)
	if hasWeight {
		cypher += "\nSET rel.weight = r.weight"
	}

	session := w.session(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, cypher, map[string]any{"rows": rows})
	if err != nil {
		return RelationshipWriteResult{}, wrapRun(fmt.Sprintf("write %s relationships", relationshipType), err)
	}
	summary, err := result.Consume(ctx)
	if err != nil {
		return RelationshipWriteResult{}, wrapRun(fmt.Sprintf("consume %s relationship write", relationshipType), err)
	}

	return RelationshipWriteResult{
		RelationshipType:     relationshipType,
		Table:                table,
		RecordsRead:          len(rows),
		RelationshipsCreated: summary.Counters().RelationshipsCreated(),
		Duration:             time.Since(start),
	}, nil
}
