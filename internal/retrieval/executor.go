package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/elastic/go-elasticsearch/v9"

	"github.com/couchcryptid/realestate-medallion/internal/domain"
)

// executionMetrics describes one search call's timing and retry count,
// mirroring search_executor.py's ExecutionMetrics.
type executionMetrics struct {
	ExecutionTimeMS int
	RetryCount      int
}

// executor runs queries against Elasticsearch with exponential-backoff
// retries on transient errors, per spec.md §4.K step 6. Grounded on
// SearchExecutor._execute_with_retry.
type executor struct {
	client    *elasticsearch.Client
	index     string
	maxTries  uint64
	retryWait time.Duration // initial backoff interval; tests shrink this to 0
}

func newExecutor(client *elasticsearch.Client, index string) *executor {
	return &executor{client: client, index: index, maxTries: 3, retryWait: time.Second}
}

type searchResponse struct {
	Took int `json:"took"`
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			Score  float64        `json:"_score"`
			Source map[string]any `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// execute runs query with up to e.maxTries attempts, waiting 2^attempt
// seconds between connection-level retries. Query-syntax and
// missing-index errors (4xx) are never retried.
func (e *executor) execute(ctx context.Context, query map[string]any) (searchResponse, executionMetrics, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return searchResponse{}, executionMetrics{}, domain.WrapProgrammer("retrieval: marshal query", err)
	}

	metrics := executionMetrics{}
	var parsed searchResponse

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = e.retryWait
	b.Multiplier = 2
	b.MaxElapsedTime = 0
	bo := backoff.WithMaxRetries(b, e.maxTries-1)

	attempt := 0
	op := func() error {
		attempt++
		metrics.RetryCount = attempt - 1
		res, err := e.client.Search(
			e.client.Search.WithContext(ctx),
			e.client.Search.WithIndex(e.index),
			e.client.Search.WithBody(bytes.NewReader(body)),
		)
		if err != nil {
			return domain.WrapTransient(fmt.Sprintf("retrieval: search request failed (attempt %d)", attempt), err)
		}
		defer res.Body.Close()

		if res.IsError() {
			if nonRetryableStatus(res.StatusCode) {
				return backoff.Permanent(domain.WrapPermanent(fmt.Sprintf("retrieval: search rejected: %s", res.String()), nil))
			}
			return domain.WrapTransient(fmt.Sprintf("retrieval: search error (attempt %d): %s", attempt, res.String()), nil)
		}

		if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
			return backoff.Permanent(domain.WrapProvider("retrieval: decode search response", err))
		}
		return nil
	}

	if err := backoff.Retry(op, bo); err != nil {
		return searchResponse{}, metrics, err
	}

	metrics.ExecutionTimeMS = parsed.Took
	return parsed, metrics, nil
}

// nonRetryableStatus reports query syntax errors (400) and missing
// indexes (404) as permanent, per spec.md §4.K step 6 / §7.
func nonRetryableStatus(status int) bool {
	return status == 400 || status == 404 || status == 401 || status == 403
}
