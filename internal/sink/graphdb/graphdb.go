// Package graphdb implements the graph-database sink writer (component
// I.3): it bulk-upserts the node/edge tables the Graph Builder (component
// H) materialized into Neo4j via parameterized Cypher, with no runtime
// reflection over record shapes (spec.md §4.I.3).
//
// Grounded on original_source/squack_pipeline_v2/writers/neo4j.py.
package graphdb

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/couchcryptid/realestate-medallion/internal/domain"
	"github.com/couchcryptid/realestate-medallion/internal/engine"
)

// Config configures the Neo4j connection.
type Config struct {
	URI      string
	Username string
	Password string
	Database string
}

// Writer bulk-upserts DuckDB graph tables into Neo4j.
type Writer struct {
	eng      *engine.Engine
	driver   neo4j.DriverWithContext
	database string
}

// New constructs a Writer and verifies connectivity once, failing fast if
// the cluster is unreachable.
func New(ctx context.Context, eng *engine.Engine, cfg Config) (*Writer, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, domain.WrapConfiguration("sink/graphdb: create driver", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, domain.WrapTransient("sink/graphdb: verify connectivity", err)
	}

	database := cfg.Database
	if database == "" {
		database = "neo4j"
	}

	return &Writer{eng: eng, driver: driver, database: database}, nil
}

// Close releases the underlying Neo4j driver.
func (w *Writer) Close(ctx context.Context) error {
	return w.driver.Close(ctx)
}

func (w *Writer) session(ctx context.Context) neo4j.SessionWithContext {
	return w.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: w.database})
}

func wrapRun(stage string, err error) error {
	return domain.WrapTransient(fmt.Sprintf("sink/graphdb: %s", stage), err)
}
