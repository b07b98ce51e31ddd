package embedding

import (
	"fmt"

	"github.com/couchcryptid/realestate-medallion/internal/config"
	"github.com/couchcryptid/realestate-medallion/internal/domain"
)

// CanonicalDimension is the output vector length every provider must
// produce, resolving spec.md's embedding-dimension Open Question.
const CanonicalDimension = 1024

// nativeDimensions are the output sizes a (provider, model) pair produces
// when no explicit output-dimension override is requested.
var nativeDimensions = map[string]map[string]int{
	"voyage": {"voyage-3": 1024},
	"openai": {
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
	},
	"ollama": {"nomic-embed-text": 768},
	"gemini": {"text-embedding-004": 768},
}

// NewFromConfig constructs the Provider named by cfg.EmbeddingProvider.
// Voyage and OpenAI support requesting CanonicalDimension natively via
// OutputDimension; Ollama and a mismatched Gemini tier cannot, and are
// rejected here rather than silently truncated (spec.md §4, Open Question
// resolution).
func NewFromConfig(cfg *config.Config) (Provider, error) {
	dimension := cfg.EmbeddingOutputDimension
	if dimension <= 0 {
		dimension = CanonicalDimension
	}

	switch cfg.EmbeddingProvider {
	case "voyage":
		return NewVoyageProvider(cfg.VoyageAPIKey, cfg.VoyageModel, dimension)
	case "openai":
		return NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel, dimension)
	case "ollama":
		if err := requireNativeMatch("ollama", cfg.OllamaModel, dimension); err != nil {
			return nil, err
		}
		return NewOllamaProvider(cfg.OllamaBaseURL, cfg.OllamaModel, dimension)
	case "gemini":
		if native, ok := nativeDimensions["gemini"][cfg.GeminiModel]; ok && native != dimension {
			return nil, domain.WrapConfiguration(
				fmt.Sprintf("embedding: gemini model %q natively produces dimension %d, configured output dimension is %d", cfg.GeminiModel, native, dimension),
				nil,
			)
		}
		return NewGeminiProvider(cfg.GoogleAPIKey, cfg.GeminiModel, dimension)
	default:
		return nil, domain.WrapConfiguration(fmt.Sprintf("embedding: unknown provider %q", cfg.EmbeddingProvider), nil)
	}
}

// requireNativeMatch fails fast when provider/model cannot natively produce
// dimension and has no output-dimension override mechanism (Ollama).
func requireNativeMatch(provider, model string, dimension int) error {
	native, ok := nativeDimensions[provider][model]
	if !ok {
		return nil // unknown model: allow, caller's API will reject if truly incompatible.
	}
	if native != dimension {
		return domain.WrapConfiguration(
			fmt.Sprintf("embedding: %s model %q natively produces dimension %d and cannot be resized to %d", provider, model, native, dimension),
			nil,
		)
	}
	return nil
}
