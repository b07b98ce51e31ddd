package orchestrator

import (
	"context"

	"github.com/couchcryptid/realestate-medallion/internal/catalog"
	"github.com/couchcryptid/realestate-medallion/internal/graph"
)

// runGraphBuilder materializes the gold_graph_* node/edge tables Neo4j
// export reads from. All Gold tables must exist first (spec.md §4.J rule
// 5).
func (o *Orchestrator) runGraphBuilder(ctx context.Context) (graph.BuildResult, error) {
	propertyEntity := catalog.MustLookup("property")
	neighborhoodEntity := catalog.MustLookup("neighborhood")
	wikiEntity := catalog.MustLookup("wikipedia")
	locationEntity := catalog.MustLookup("location")

	result, err := graph.Build(ctx, o.eng, propertyEntity.Gold, neighborhoodEntity.Gold, wikiEntity.Gold, locationEntity.Gold)
	if err != nil {
		return graph.BuildResult{}, err
	}

	o.logger.Info("graph builder complete",
		"node_tables", len(result.NodeTables), "edge_tables", len(result.EdgeTables),
		"total_nodes", result.TotalNodes, "total_edges", result.TotalEdges,
		"similar_to_skipped", result.SkippedSimilarTo)

	return result, nil
}
