package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./data", cfg.InputPath)
	assert.Equal(t, "./output", cfg.OutputPath)
	assert.Equal(t, 0, cfg.SampleSize)
	assert.False(t, cfg.SkipBronze)
	assert.False(t, cfg.SkipSilver)
	assert.False(t, cfg.SkipGold)

	assert.Equal(t, "4GB", cfg.DuckDBMemoryLimit)
	assert.Equal(t, 4, cfg.DuckDBThreads)
	assert.Equal(t, ":memory:", cfg.DuckDBDatabase)

	assert.Equal(t, "voyage", cfg.EmbeddingProvider)
	assert.Equal(t, "voyage-3", cfg.VoyageModel)
	assert.Equal(t, 1024, cfg.EmbeddingOutputDimension)

	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 4, cfg.MaxWorkers)
	assert.True(t, cfg.ShowProgress)
	assert.Equal(t, 100*time.Millisecond, cfg.RateLimitDelay)

	assert.True(t, cfg.ParquetEnabled)
	assert.Equal(t, "./output/parquet", cfg.ParquetDir)

	assert.False(t, cfg.ElasticsearchEnabled)
	assert.Equal(t, "localhost", cfg.ElasticsearchHost)
	assert.Equal(t, 9200, cfg.ElasticsearchPort)
	assert.Equal(t, 100, cfg.ElasticsearchBulkSize)
	assert.Equal(t, 30*time.Second, cfg.ElasticsearchTimeout)

	assert.False(t, cfg.Neo4jEnabled)
	assert.Equal(t, "bolt://localhost:7687", cfg.Neo4jURI)
	assert.Equal(t, "neo4j", cfg.Neo4jUsername)
	assert.Equal(t, "neo4j", cfg.Neo4jDatabase)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("DATA_PROPERTIES_FILES", "a.json, b.json")
	t.Setenv("DATA_NEIGHBORHOODS_FILES", "n.json")
	t.Setenv("DATA_WIKIPEDIA_DB_PATH", "/data/wiki.db")
	t.Setenv("DATA_LOCATIONS_FILE", "/data/locations.json")
	t.Setenv("DATA_INPUT_PATH", "/custom/in")
	t.Setenv("DATA_OUTPUT_PATH", "/custom/out")
	t.Setenv("DATA_SAMPLE_SIZE", "50")
	t.Setenv("SKIP_BRONZE", "true")
	t.Setenv("EMBEDDING_PROVIDER", "openai")
	t.Setenv("PROCESSING_BATCH_SIZE", "250")
	t.Setenv("OUTPUT_NEO4J_ENABLED", "true")
	t.Setenv("NEO4J_PASSWORD", "hunter2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"a.json", "b.json"}, cfg.PropertiesFiles)
	assert.Equal(t, []string{"n.json"}, cfg.NeighborhoodsFiles)
	assert.Equal(t, "/data/wiki.db", cfg.WikipediaDBPath)
	assert.Equal(t, "/data/locations.json", cfg.LocationsFile)
	assert.Equal(t, "/custom/in", cfg.InputPath)
	assert.Equal(t, "/custom/out", cfg.OutputPath)
	assert.Equal(t, 50, cfg.SampleSize)
	assert.True(t, cfg.SkipBronze)
	assert.Equal(t, "openai", cfg.EmbeddingProvider)
	assert.Equal(t, 250, cfg.BatchSize)
	assert.True(t, cfg.Neo4jEnabled)
	assert.Equal(t, "hunter2", cfg.Neo4jPassword)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidSampleSize(t *testing.T) {
	t.Setenv("DATA_SAMPLE_SIZE", "-5")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATA_SAMPLE_SIZE")
}

func TestLoad_InvalidBatchSize(t *testing.T) {
	t.Setenv("PROCESSING_BATCH_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PROCESSING_BATCH_SIZE")
}

func TestLoad_InvalidEmbeddingProvider(t *testing.T) {
	t.Setenv("EMBEDDING_PROVIDER", "watson")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EMBEDDING_PROVIDER")
}

func TestLoad_Neo4jEnabledWithoutPassword(t *testing.T) {
	t.Setenv("OUTPUT_NEO4J_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NEO4J_PASSWORD")
}

func TestLoad_ElasticsearchMismatchedCredentials(t *testing.T) {
	t.Setenv("OUTPUT_ELASTICSEARCH_ENABLED", "true")
	t.Setenv("ES_USERNAME", "elastic")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ES_USERNAME")
}
