package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/realestate-medallion/internal/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		EmbeddingProvider:        "voyage",
		VoyageAPIKey:             "test-key",
		VoyageModel:              "voyage-3",
		EmbeddingOutputDimension: CanonicalDimension,
	}
}

func TestNewFromConfig_Voyage(t *testing.T) {
	cfg := baseConfig()
	p, err := NewFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, CanonicalDimension, p.Dimension())
}

func TestNewFromConfig_OllamaRejectsMismatchedDimension(t *testing.T) {
	cfg := baseConfig()
	cfg.EmbeddingProvider = "ollama"
	cfg.OllamaModel = "nomic-embed-text"
	cfg.EmbeddingOutputDimension = CanonicalDimension

	_, err := NewFromConfig(cfg)
	require.Error(t, err, "ollama's nomic-embed-text natively produces 768 dimensions and cannot be resized")
}

func TestNewFromConfig_UnknownProvider(t *testing.T) {
	cfg := baseConfig()
	cfg.EmbeddingProvider = "watson"
	_, err := NewFromConfig(cfg)
	require.Error(t, err)
}

func TestNewFromConfig_MissingAPIKey(t *testing.T) {
	cfg := baseConfig()
	cfg.VoyageAPIKey = ""
	_, err := NewFromConfig(cfg)
	require.Error(t, err)
}
