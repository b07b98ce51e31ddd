package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// medallion pipeline and the hybrid retrieval core.
type Metrics struct {
	PipelineRunning  prometheus.Gauge
	PipelineDuration prometheus.Histogram
	PipelineErrors   *prometheus.CounterVec // labels: stage, kind

	// Per-layer record counts, labeled by layer={bronze,silver,gold} and entity.
	RecordsProcessed *prometheus.CounterVec
	StageDuration    *prometheus.HistogramVec // labels: stage, entity

	// Embedding provider metrics.
	EmbeddingRequests *prometheus.CounterVec   // labels: provider, outcome={success,error}
	EmbeddingDuration *prometheus.HistogramVec // labels: provider
	EmbeddingBatch    prometheus.Histogram

	// Sink write metrics, labeled by sink={parquet,search,graphdb} and entity.
	SinkWrites   *prometheus.CounterVec
	SinkErrors   *prometheus.CounterVec
	SinkDuration *prometheus.HistogramVec

	// Hybrid retrieval metrics.
	RetrievalRequests *prometheus.CounterVec   // labels: outcome={success,error}
	RetrievalDuration prometheus.Histogram
	LocationExtracted *prometheus.CounterVec // labels: method={llm,rule,none}
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.PipelineRunning,
		m.PipelineDuration,
		m.PipelineErrors,
		m.RecordsProcessed,
		m.StageDuration,
		m.EmbeddingRequests,
		m.EmbeddingDuration,
		m.EmbeddingBatch,
		m.SinkWrites,
		m.SinkErrors,
		m.SinkDuration,
		m.RetrievalRequests,
		m.RetrievalDuration,
		m.LocationExtracted,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "medallion",
			Name:      "pipeline_running",
			Help:      "1 when a pipeline run is active, 0 when idle.",
		}),
		PipelineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "medallion",
			Name:      "pipeline_duration_seconds",
			Help:      "Duration of a complete bronze-silver-gold-graph-sink run.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		}),
		PipelineErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medallion",
			Name:      "pipeline_errors_total",
			Help:      "Pipeline failures by stage and error kind.",
		}, []string{"stage", "kind"}),
		RecordsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medallion",
			Name:      "records_processed_total",
			Help:      "Records processed by layer and entity.",
		}, []string{"layer", "entity"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "medallion",
			Name:      "stage_duration_seconds",
			Help:      "Duration of a single stage run by stage and entity.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"stage", "entity"}),
		EmbeddingRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medallion",
			Name:      "embedding_requests_total",
			Help:      "Embedding provider requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		EmbeddingDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "medallion",
			Name:      "embedding_duration_seconds",
			Help:      "Embedding provider call duration by provider.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider"}),
		EmbeddingBatch: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "medallion",
			Name:      "embedding_batch_size",
			Help:      "Number of texts submitted per embedding batch call.",
			Buckets:   []float64{1, 8, 16, 32, 64, 128, 256},
		}),
		SinkWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medallion",
			Name:      "sink_writes_total",
			Help:      "Records written by sink and entity.",
		}, []string{"sink", "entity"}),
		SinkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medallion",
			Name:      "sink_errors_total",
			Help:      "Sink write failures by sink and entity.",
		}, []string{"sink", "entity"}),
		SinkDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "medallion",
			Name:      "sink_write_duration_seconds",
			Help:      "Sink write duration by sink and entity.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}, []string{"sink", "entity"}),
		RetrievalRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medallion",
			Name:      "retrieval_requests_total",
			Help:      "Hybrid retrieval requests by outcome.",
		}, []string{"outcome"}),
		RetrievalDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "medallion",
			Name:      "retrieval_duration_seconds",
			Help:      "End-to-end hybrid search duration, including location extraction.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		LocationExtracted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medallion",
			Name:      "location_extracted_total",
			Help:      "Query location extraction outcomes by method.",
		}, []string{"method"}),
	}
}
