package orchestrator

import (
	"context"

	"github.com/couchcryptid/realestate-medallion/internal/sink/graphdb"
	"github.com/couchcryptid/realestate-medallion/internal/sink/parquet"
	"github.com/couchcryptid/realestate-medallion/internal/sink/search"
)

// WriterStats summarizes what each enabled sink wrote during runWriters.
type WriterStats struct {
	Parquet map[string][]parquet.Result
	Search  map[string]search.Result
	Graph   *graphdb.WriteResult
}

// runWriters exports Gold (and Graph) tables to every enabled sink. All
// Gold tables and, if write_neo4j, the graph tables must already exist
// (spec.md §4.J rule 5).
func (o *Orchestrator) runWriters(ctx context.Context, writeParquet, writeSearch, writeGraph bool) (WriterStats, error) {
	var stats WriterStats

	if writeParquet && o.cfg.ParquetEnabled {
		writer, err := parquet.New(o.eng, o.cfg.ParquetDir)
		if err != nil {
			return stats, err
		}
		results, err := writer.ExportAllLayers(ctx)
		if err != nil {
			return stats, err
		}
		stats.Parquet = results
		o.logger.Info("parquet export complete", "tables", len(results["bronze"])+len(results["silver"])+len(results["gold"]))
	}

	if writeSearch || o.cfg.ElasticsearchEnabled {
		writer, err := search.New(ctx, o.eng, search.Config{
			Host:     o.cfg.ElasticsearchHost,
			Port:     o.cfg.ElasticsearchPort,
			Username: o.cfg.ESUsername,
			Password: o.cfg.ESPassword,
		})
		if err != nil {
			return stats, err
		}
		results, err := writer.IndexAll(ctx)
		if err != nil {
			return stats, err
		}
		stats.Search = results
		o.logger.Info("elasticsearch export complete", "documents_indexed", writer.DocumentsIndexed())
	}

	if writeGraph || o.cfg.Neo4jEnabled {
		writer, err := graphdb.New(ctx, o.eng, graphdb.Config{
			URI:      o.cfg.Neo4jURI,
			Username: o.cfg.Neo4jUsername,
			Password: o.cfg.Neo4jPassword,
			Database: o.cfg.Neo4jDatabase,
		})
		if err != nil {
			return stats, err
		}
		defer writer.Close(ctx)

		result, err := writer.WriteAll(ctx)
		if err != nil {
			return stats, err
		}
		stats.Graph = &result
		o.logger.Info("neo4j export complete",
			"total_nodes", result.TotalNodes, "total_relationships", result.TotalRelationships)
	}

	return stats, nil
}
