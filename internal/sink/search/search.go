// Package search implements the search-engine sink writer (component I.2):
// a unified writer, composed of three entity-specific writers
// (Property/Neighborhood/Wikipedia), that streams Gold rows into
// Elasticsearch in fixed-size bulk batches (spec.md §4.I.2).
//
// Grounded on
// original_source/squack_pipeline_v2/writers/elastic/{base.py,writer.py}.
package search

import (
	"context"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/couchcryptid/realestate-medallion/internal/domain"
	"github.com/couchcryptid/realestate-medallion/internal/engine"
)

// Config configures the Elasticsearch connection.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Writer is the unified search-engine writer for Property, Neighborhood,
// and Wikipedia Gold tables.
type Writer struct {
	eng    *engine.Engine
	client *elasticsearch.Client

	documentsIndexed int
}

// New constructs a Writer and pings the cluster once, failing fast if it
// is unreachable (mirrors ElasticsearchWriterBase.__init__'s connection
// check). Basic auth is used when both Username and Password are set.
func New(ctx context.Context, eng *engine.Engine, cfg Config) (*Writer, error) {
	esCfg := elasticsearch.Config{
		Addresses: []string{fmt.Sprintf("http://%s:%d", cfg.Host, cfg.Port)},
	}
	if cfg.Username != "" && cfg.Password != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, domain.WrapConfiguration("sink/search: create elasticsearch client", err)
	}

	res, err := client.Ping(client.Ping.WithContext(ctx))
	if err != nil {
		return nil, domain.WrapTransient("sink/search: ping elasticsearch", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, domain.WrapTransient(fmt.Sprintf("sink/search: elasticsearch ping failed: %s", res.String()), nil)
	}

	return &Writer{eng: eng, client: client}, nil
}

// DocumentsIndexed returns the running total of documents successfully
// indexed across every call made on this Writer.
func (w *Writer) DocumentsIndexed() int { return w.documentsIndexed }

// IndexAll indexes every Gold table that exists (gold_properties,
// gold_neighborhoods, gold_wikipedia), skipping any that don't, and
// returns the combined per-entity results.
func (w *Writer) IndexAll(ctx context.Context) (map[string]Result, error) {
	entities := []struct {
		table string
		name  string
		index func(context.Context) (Result, error)
	}{
		{"gold_properties", "properties", func(ctx context.Context) (Result, error) {
			return w.IndexProperties(ctx, "", "", 0)
		}},
		{"gold_neighborhoods", "neighborhoods", func(ctx context.Context) (Result, error) {
			return w.IndexNeighborhoods(ctx, "", "", 0)
		}},
		{"gold_wikipedia", "wikipedia", func(ctx context.Context) (Result, error) {
			return w.IndexWikipedia(ctx, "", "", 0)
		}},
	}

	results := make(map[string]Result, len(entities))
	for _, e := range entities {
		exists, err := w.eng.TableExists(ctx, e.table)
		if err != nil {
			return nil, err
		}
		if !exists {
			continue
		}
		result, err := e.index(ctx)
		if err != nil {
			return nil, err
		}
		results[e.name] = result
	}
	return results, nil
}
