// Package location extracts geographic intent from a natural-language
// search query (part of the Hybrid Retrieval Core, component K): a
// language-model-backed module with a trivial rule-based fallback when
// the model is unreachable or returns an unusable answer.
//
// Grounded on
// original_source/real_estate_search/hybrid/location.py's
// LocationUnderstandingModule.
package location

import (
	"context"
	"encoding/json"
	"strings"

	anyllm "github.com/mozilla-ai/any-llm-go"
	"github.com/mozilla-ai/any-llm-go/providers/anthropic"
	"github.com/mozilla-ai/any-llm-go/providers/gemini"
	"github.com/mozilla-ai/any-llm-go/providers/ollama"
	anyllmopenai "github.com/mozilla-ai/any-llm-go/providers/openai"

	"github.com/couchcryptid/realestate-medallion/internal/config"
	"github.com/couchcryptid/realestate-medallion/internal/domain"
)

// Intent is the extracted location information for one query, plus the
// query with location terms removed. An Intent with HasLocation false, no
// location fields set, and CleanedQuery equal to the original query is the
// rule-based fallback result.
type Intent struct {
	City         string
	State        string
	Neighborhood string
	ZipCode      string
	HasLocation  bool
	CleanedQuery string
	Confidence   float64
}

const extractionSystemPrompt = `You extract location information from real estate search queries.

Find cities, states, neighborhoods, and ZIP codes in the text, then produce a cleaned query with the location terms removed.

- Look for city names (e.g. San Francisco, San Jose, Salinas, Oakland).
- Look for state names or abbreviations (e.g. California, CA, Utah, UT); convert abbreviations to the full state name.
- Look for neighborhood names.
- Look for ZIP codes (5-digit numbers).
- If any location is found, set has_location to true.
- Remove all location terms from the cleaned query while preserving property features and natural language structure.
- If no location is present, cleaned_query equals the original query.

Respond with ONLY a JSON object with exactly these fields: city, state, neighborhood, zip_code (strings, "" if not found), has_location (bool), cleaned_query (string), confidence (number between 0 and 1).`

// Extractor extracts Intent via a language model, falling back to a
// trivial rule-based extractor on any failure (spec.md §4.K step 1).
type Extractor struct {
	backend anyllm.Provider
	model   string
}

// New constructs an Extractor backed by provider/model ("openai",
// "anthropic", "gemini", or "ollama"; API keys are read from the
// provider's own environment variable by any-llm-go when apiKey is "").
func New(provider, model, apiKey string) (*Extractor, error) {
	var opts []anyllm.Option
	if apiKey != "" {
		opts = append(opts, anyllm.WithAPIKey(apiKey))
	}

	var backend anyllm.Provider
	var err error
	switch strings.ToLower(provider) {
	case "openai":
		backend, err = anyllmopenai.New(opts...)
	case "anthropic":
		backend, err = anthropic.New(opts...)
	case "gemini":
		backend, err = gemini.New(opts...)
	case "ollama":
		backend, err = ollama.New(opts...)
	default:
		return nil, domain.WrapConfiguration("retrieval/location: unsupported LLM provider "+provider, nil)
	}
	if err != nil {
		return nil, domain.WrapConfiguration("retrieval/location: create "+provider+" backend", err)
	}

	return &Extractor{backend: backend, model: model}, nil
}

// NewFromConfig constructs an Extractor from cfg.LocationLLMProvider/
// LocationLLMModel, resolving the API key from the matching provider
// credential already loaded by config.Load. Unlike embedding.NewFromConfig,
// callers are expected to treat a returned error as non-fatal and fall
// back to a nil *Extractor (spec.md §4.K step 1's "fall back ... if the
// module fails" extends to construction, not just per-call failures).
func NewFromConfig(cfg *config.Config) (*Extractor, error) {
	apiKey := ""
	switch strings.ToLower(cfg.LocationLLMProvider) {
	case "openai":
		apiKey = cfg.OpenAIAPIKey
	case "gemini":
		apiKey = cfg.GoogleAPIKey
	}
	return New(cfg.LocationLLMProvider, cfg.LocationLLMModel, apiKey)
}

type extractionResponse struct {
	City         string  `json:"city"`
	State        string  `json:"state"`
	Neighborhood string  `json:"neighborhood"`
	ZipCode      string  `json:"zip_code"`
	HasLocation  bool    `json:"has_location"`
	CleanedQuery string  `json:"cleaned_query"`
	Confidence   float64 `json:"confidence"`
}

// Extract runs the language-model extraction, falling back to
// ruleBasedExtraction on any model or parse failure (never returns an
// error — per spec.md §4.K step 1, extraction always degrades gracefully).
func (e *Extractor) Extract(ctx context.Context, query string) Intent {
	fallback := ruleBasedExtraction(query)
	if e == nil || e.backend == nil {
		return fallback
	}

	resp, err := e.backend.Completion(ctx, anyllm.CompletionParams{
		Model: e.model,
		Messages: []anyllm.Message{
			{Role: anyllm.RoleSystem, Content: extractionSystemPrompt},
			{Role: anyllm.RoleUser, Content: query},
		},
	})
	if err != nil || len(resp.Choices) == 0 {
		return fallback
	}

	var parsed extractionResponse
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.ContentString()), &parsed); err != nil {
		return fallback
	}

	intent := Intent{
		City:         normalizeField(parsed.City),
		State:        normalizeField(parsed.State),
		Neighborhood: normalizeField(parsed.Neighborhood),
		ZipCode:      normalizeField(parsed.ZipCode),
		CleanedQuery: parsed.CleanedQuery,
	}
	intent.HasLocation = intent.City != "" || intent.State != "" || intent.Neighborhood != "" || intent.ZipCode != ""
	if intent.CleanedQuery == "" {
		intent.CleanedQuery = query
	}
	if !intent.HasLocation {
		return fallback
	}

	intent.Confidence = parsed.Confidence
	if intent.Confidence <= 0 {
		intent.Confidence = 1.0
	}
	if intent.Confidence > 1 {
		intent.Confidence = 1.0
	}

	return intent
}

// normalizeField treats the model's "unknown"/"none"/"" sentinel values
// as an absent field (spec.md §4.K step 1).
func normalizeField(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "unknown", "none":
		return ""
	default:
		return v
	}
}

// ruleBasedExtraction is the minimal fallback used when the model is
// unavailable: it finds no location, exactly like the original's
// _rule_based_extraction, which intentionally hardcodes no location
// lookup table and defers all real extraction to the model.
func ruleBasedExtraction(query string) Intent {
	return Intent{CleanedQuery: query, HasLocation: false, Confidence: 0}
}
