package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/couchcryptid/realestate-medallion/internal/config"
	"github.com/couchcryptid/realestate-medallion/internal/domain"
	"github.com/couchcryptid/realestate-medallion/internal/embedding"
	"github.com/couchcryptid/realestate-medallion/internal/retrieval/location"
)

const slowQueryThreshold = 1000 * time.Millisecond

// Retriever executes hybrid (lexical + vector) searches against the
// properties index, combining location extraction, embedding generation,
// RRF query construction, retried execution, and result shaping into one
// entry point (spec.md §4.K). Grounded on HybridSearchEngine.
type Retriever struct {
	client    *elasticsearch.Client
	index     string
	extractor *location.Extractor
	embedder  embedding.Provider
	executor  *executor
	logger    *slog.Logger
}

// NewClient opens an Elasticsearch client from cfg and pings the cluster
// once, mirroring sink/search.New's fail-fast connection check.
func NewClient(ctx context.Context, cfg *config.Config) (*elasticsearch.Client, error) {
	esCfg := elasticsearch.Config{
		Addresses: []string{fmt.Sprintf("http://%s:%d", cfg.ElasticsearchHost, cfg.ElasticsearchPort)},
		// The executor owns retries; the transport's own 502/503/504 retries
		// would multiply its attempt count.
		DisableRetry: true,
	}
	if cfg.ESUsername != "" && cfg.ESPassword != "" {
		esCfg.Username = cfg.ESUsername
		esCfg.Password = cfg.ESPassword
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, domain.WrapConfiguration("retrieval: create elasticsearch client", err)
	}

	res, err := client.Ping(client.Ping.WithContext(ctx))
	if err != nil {
		return nil, domain.WrapTransient("retrieval: ping elasticsearch", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, domain.WrapTransient(fmt.Sprintf("retrieval: elasticsearch ping failed: %s", res.String()), nil)
	}

	return client, nil
}

// New constructs a Retriever. The location extractor is optional: pass a
// nil *location.Extractor to always skip location-aware filtering (e.g.
// when no LLM credentials are configured), matching the module's
// fail-open behavior.
func New(client *elasticsearch.Client, embedder embedding.Provider, extractor *location.Extractor, logger *slog.Logger) *Retriever {
	index := "properties"
	return &Retriever{
		client:    client,
		index:     index,
		extractor: extractor,
		embedder:  embedder,
		executor:  newExecutor(client, index),
		logger:    logger,
	}
}

// Search runs one hybrid search for queryText, extracting location intent
// first and using the cleaned query plus derived filters when location is
// found (spec.md §4.K steps 1-7).
func (r *Retriever) Search(ctx context.Context, queryText string, size int) (HybridResult, error) {
	params := DefaultSearchParams(queryText)
	if size > 0 {
		params.Size = size
	}

	start := time.Now()

	var intent location.Intent
	if r.extractor != nil {
		intent = r.extractor.Extract(ctx, queryText)
	}
	searchText := queryText
	if intent.HasLocation {
		params.LocationIntent = &intent
		searchText = intent.CleanedQuery
		r.logger.Info("retrieval: location extracted",
			"city", intent.City, "state", intent.State,
			"neighborhood", intent.Neighborhood, "zip_code", intent.ZipCode,
			"confidence", intent.Confidence)
	}

	embeddingStart := time.Now()
	vector, err := r.embedQuery(ctx, searchText)
	if err != nil {
		return HybridResult{}, err
	}
	embeddingTimeMS := int(time.Since(embeddingStart).Milliseconds())

	query := buildQuery(params, vector, searchText)

	resp, _, err := r.executor.execute(ctx, query)
	if err != nil {
		r.logger.Error("retrieval: hybrid search failed", "query", queryText, "error", err)
		return HybridResult{}, err
	}

	totalTimeMS := int(time.Since(start).Milliseconds())
	result := processResponse(queryText, resp, totalTimeMS, embeddingTimeMS, params)

	r.logger.Info("retrieval: search completed",
		"query", queryText, "hits", result.TotalHits,
		"total_time_ms", totalTimeMS, "embedding_time_ms", embeddingTimeMS)
	if time.Duration(totalTimeMS)*time.Millisecond > slowQueryThreshold {
		r.logger.Warn("retrieval: slow query", "query", queryText, "total_time_ms", totalTimeMS)
	}

	return result, nil
}

func (r *Retriever) embedQuery(ctx context.Context, text string) ([]float32, error) {
	resp, err := r.embedder.GenerateEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, domain.WrapProvider("retrieval: generate query embedding", err)
	}
	if len(resp.Vectors) != 1 {
		return nil, domain.WrapProvider("retrieval: embedding provider returned unexpected vector count", nil)
	}
	return resp.Vectors[0], nil
}
