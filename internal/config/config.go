// Package config loads pipeline settings from environment variables.
//
// File-based configuration loading (YAML/TOML) is out of scope; Load only
// ever reads the process environment and applies documented defaults.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every setting recognized by the pipeline, populated from
// environment variables.
type Config struct {
	// Data sources (data_sources.*).
	PropertiesFiles    []string
	NeighborhoodsFiles []string
	WikipediaDBPath    string
	LocationsFile      string

	// Data (data.*).
	InputPath  string
	OutputPath string
	SampleSize int // 0 means "no sampling".

	// Layer skip flags, supplementing the original's skip_bronze/skip_silver/skip_gold.
	SkipBronze bool
	SkipSilver bool
	SkipGold   bool

	// DuckDB (duckdb.*).
	DuckDBMemoryLimit string
	DuckDBThreads     int
	DuckDBDatabase    string

	// Embedding provider (embedding.*).
	EmbeddingProvider        string // voyage | openai | ollama | gemini
	VoyageModel              string
	OpenAIModel              string
	OllamaBaseURL            string
	OllamaModel              string
	GeminiModel              string
	VoyageAPIKey             string
	OpenAIAPIKey             string
	GoogleAPIKey             string
	EmbeddingOutputDimension int

	// Processing (processing.*).
	BatchSize      int
	MaxWorkers     int
	ShowProgress   bool
	RateLimitDelay time.Duration

	// Output (output.*).
	ParquetEnabled bool
	ParquetDir     string

	ElasticsearchEnabled  bool
	ElasticsearchHost     string
	ElasticsearchPort     int
	ElasticsearchBulkSize int
	ElasticsearchTimeout  time.Duration
	ESUsername            string
	ESPassword            string

	Neo4jEnabled  bool
	Neo4jURI      string
	Neo4jUsername string
	Neo4jPassword string
	Neo4jDatabase string

	// Location-extraction LLM (retrieval.location_llm.*), backing the
	// Hybrid Retrieval Core's location-understanding module.
	LocationLLMProvider string
	LocationLLMModel    string

	// Ambient.
	LogLevel        string
	LogFormat       string
	HTTPAddr        string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset, and validates required combinations.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	rateLimitDelay, err := parseDuration("PROCESSING_RATE_LIMIT_DELAY", "100ms")
	if err != nil {
		return nil, err
	}

	esTimeout, err := parseDuration("ELASTICSEARCH_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	sampleSize, err := parseInt("DATA_SAMPLE_SIZE", 0)
	if err != nil {
		return nil, err
	}
	if sampleSize < 0 {
		return nil, errors.New("DATA_SAMPLE_SIZE must be >= 0")
	}

	duckdbThreads, err := parseInt("DUCKDB_THREADS", 4)
	if err != nil {
		return nil, err
	}
	if duckdbThreads <= 0 {
		return nil, errors.New("DUCKDB_THREADS must be > 0")
	}

	batchSize, err := parseInt("PROCESSING_BATCH_SIZE", 100)
	if err != nil {
		return nil, err
	}
	if batchSize <= 0 {
		return nil, errors.New("PROCESSING_BATCH_SIZE must be > 0")
	}

	maxWorkers, err := parseInt("PROCESSING_MAX_WORKERS", 4)
	if err != nil {
		return nil, err
	}
	if maxWorkers <= 0 {
		return nil, errors.New("PROCESSING_MAX_WORKERS must be > 0")
	}

	esPort, err := parseInt("ELASTICSEARCH_PORT", 9200)
	if err != nil {
		return nil, err
	}

	esBulkSize, err := parseInt("ELASTICSEARCH_BULK_SIZE", 100)
	if err != nil {
		return nil, err
	}

	embeddingDim, err := parseInt("EMBEDDING_OUTPUT_DIMENSION", 1024)
	if err != nil {
		return nil, err
	}
	if embeddingDim <= 0 {
		return nil, errors.New("EMBEDDING_OUTPUT_DIMENSION must be > 0")
	}

	cfg := &Config{
		PropertiesFiles:    splitList(os.Getenv("DATA_PROPERTIES_FILES")),
		NeighborhoodsFiles: splitList(os.Getenv("DATA_NEIGHBORHOODS_FILES")),
		WikipediaDBPath:    os.Getenv("DATA_WIKIPEDIA_DB_PATH"),
		LocationsFile:      os.Getenv("DATA_LOCATIONS_FILE"),

		InputPath:  envOrDefault("DATA_INPUT_PATH", "./data"),
		OutputPath: envOrDefault("DATA_OUTPUT_PATH", "./output"),
		SampleSize: sampleSize,

		SkipBronze: envBool("SKIP_BRONZE", false),
		SkipSilver: envBool("SKIP_SILVER", false),
		SkipGold:   envBool("SKIP_GOLD", false),

		DuckDBMemoryLimit: envOrDefault("DUCKDB_MEMORY_LIMIT", "4GB"),
		DuckDBThreads:     duckdbThreads,
		DuckDBDatabase:    envOrDefault("DUCKDB_DATABASE_FILE", ":memory:"),

		EmbeddingProvider:        envOrDefault("EMBEDDING_PROVIDER", "voyage"),
		VoyageModel:              envOrDefault("EMBEDDING_VOYAGE_MODEL", "voyage-3"),
		OpenAIModel:              envOrDefault("EMBEDDING_OPENAI_MODEL", "text-embedding-3-large"),
		OllamaBaseURL:            envOrDefault("EMBEDDING_OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:              envOrDefault("EMBEDDING_OLLAMA_MODEL", "nomic-embed-text"),
		GeminiModel:              envOrDefault("EMBEDDING_GEMINI_MODEL", "text-embedding-004"),
		VoyageAPIKey:             os.Getenv("VOYAGE_API_KEY"),
		OpenAIAPIKey:             os.Getenv("OPENAI_API_KEY"),
		GoogleAPIKey:             os.Getenv("GOOGLE_API_KEY"),
		EmbeddingOutputDimension: embeddingDim,

		BatchSize:      batchSize,
		MaxWorkers:     maxWorkers,
		ShowProgress:   envBool("PROCESSING_SHOW_PROGRESS", true),
		RateLimitDelay: rateLimitDelay,

		ParquetEnabled: envBool("OUTPUT_PARQUET_ENABLED", true),
		ParquetDir:     envOrDefault("OUTPUT_PARQUET_DIR", "./output/parquet"),

		ElasticsearchEnabled:  envBool("OUTPUT_ELASTICSEARCH_ENABLED", false),
		ElasticsearchHost:     envOrDefault("ELASTICSEARCH_HOST", "localhost"),
		ElasticsearchPort:     esPort,
		ElasticsearchBulkSize: esBulkSize,
		ElasticsearchTimeout:  esTimeout,
		ESUsername:            os.Getenv("ES_USERNAME"),
		ESPassword:            os.Getenv("ES_PASSWORD"),

		Neo4jEnabled:  envBool("OUTPUT_NEO4J_ENABLED", false),
		Neo4jURI:      envOrDefault("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUsername: envOrDefault("NEO4J_USERNAME", "neo4j"),
		Neo4jPassword: os.Getenv("NEO4J_PASSWORD"),
		Neo4jDatabase: envOrDefault("NEO4J_DATABASE", "neo4j"),

		LocationLLMProvider: envOrDefault("RETRIEVAL_LOCATION_LLM_PROVIDER", "openai"),
		LocationLLMModel:    envOrDefault("RETRIEVAL_LOCATION_LLM_MODEL", "gpt-4o-mini"),

		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		ShutdownTimeout: shutdownTimeout,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.EmbeddingProvider {
	case "voyage", "openai", "ollama", "gemini":
	default:
		return errors.New("EMBEDDING_PROVIDER must be one of voyage, openai, ollama, gemini")
	}
	if c.Neo4jEnabled && c.Neo4jPassword == "" {
		return errors.New("OUTPUT_NEO4J_ENABLED is true but NEO4J_PASSWORD is not set")
	}
	if c.ElasticsearchEnabled && (c.ESUsername == "") != (c.ESPassword == "") {
		return errors.New("ES_USERNAME and ES_PASSWORD must both be set or both be empty")
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v == "true" || v == "1"
}

func parseDuration(key, fallback string) (time.Duration, error) {
	s := envOrDefault(key, fallback)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
