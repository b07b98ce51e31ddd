package retrieval

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, addr string) *elasticsearch.Client {
	t.Helper()
	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{addr}, DisableRetry: true})
	require.NoError(t, err)
	return client
}

func TestNonRetryableStatus(t *testing.T) {
	assert.True(t, nonRetryableStatus(400))
	assert.True(t, nonRetryableStatus(404))
	assert.True(t, nonRetryableStatus(401))
	assert.True(t, nonRetryableStatus(403))
	assert.False(t, nonRetryableStatus(500))
	assert.False(t, nonRetryableStatus(503))
	assert.False(t, nonRetryableStatus(200))
}

func TestExecute_SucceedsOnFirstAttempt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"took":5,"hits":{"total":{"value":1},"hits":[{"_score":1.5,"_source":{"listing_id":"p1"}}]}}`))
	}))
	defer srv.Close()

	e := newExecutor(newTestClient(t, srv.URL), "properties")
	resp, metrics, err := e.execute(context.Background(), map[string]any{"size": 10})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Hits.Total.Value)
	assert.Equal(t, 0, metrics.RetryCount)
	assert.Equal(t, "p1", resp.Hits.Hits[0].Source["listing_id"])
}

func TestExecute_DoesNotRetryOnQuerySyntaxError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"type":"parsing_exception"}}`))
	}))
	defer srv.Close()

	e := newExecutor(newTestClient(t, srv.URL), "properties")
	_, _, err := e.execute(context.Background(), map[string]any{})

	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "a 400 must fail immediately, never retried")
}

func TestExecute_RetriesOnServerErrorThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":{"type":"unavailable_shards_exception"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"took":1,"hits":{"total":{"value":0},"hits":[]}}`))
	}))
	defer srv.Close()

	e := newExecutor(newTestClient(t, srv.URL), "properties")
	e.retryWait = 0

	resp, metrics, err := e.execute(context.Background(), map[string]any{})

	require.NoError(t, err)
	assert.Equal(t, 0, resp.Hits.Total.Value)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, 1, metrics.RetryCount)
}

func TestExecute_FailsAfterMaxRetriesExhausted(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":{"type":"unavailable_shards_exception"}}`))
	}))
	defer srv.Close()

	e := newExecutor(newTestClient(t, srv.URL), "properties")
	e.retryWait = 0

	_, _, err := e.execute(context.Background(), map[string]any{})

	require.Error(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls), "must stop after maxTries attempts")
}
