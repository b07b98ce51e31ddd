package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/couchcryptid/realestate-medallion/internal/domain"
)

// GeminiProvider calls Google's Generative Language API embeddings
// endpoint. There is no dedicated Gemini embeddings SDK in the dependency
// set (any-llm-go targets chat completion, not embeddings), so this talks
// to the documented REST endpoint directly, the same way VoyageProvider
// does for Voyage.
type GeminiProvider struct {
	apiKey     string
	model      string
	dimension  int
	httpClient *http.Client
	baseURL    string
}

var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider constructs a Gemini provider.
func NewGeminiProvider(apiKey, model string, dimension int) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, domain.WrapConfiguration("embedding: gemini provider requires an API key", nil)
	}
	if model == "" {
		model = "text-embedding-004"
	}
	return &GeminiProvider{
		apiKey:     apiKey,
		model:      model,
		dimension:  dimension,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://generativelanguage.googleapis.com/v1beta",
	}, nil
}

type geminiBatchRequest struct {
	Requests []geminiSingleRequest `json:"requests"`
}

type geminiSingleRequest struct {
	Model                string              `json:"model"`
	Content              geminiContent       `json:"content"`
	OutputDimensionality int                 `json:"outputDimensionality,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiBatchResponse struct {
	Embeddings []struct {
		Values []float32 `json:"values"`
	} `json:"embeddings"`
}

// GenerateEmbeddings implements Provider.
func (p *GeminiProvider) GenerateEmbeddings(ctx context.Context, texts []string) (Response, error) {
	requests := make([]geminiSingleRequest, len(texts))
	modelPath := "models/" + p.model
	for i, text := range texts {
		requests[i] = geminiSingleRequest{
			Model:                modelPath,
			Content:              geminiContent{Parts: []geminiPart{{Text: text}}},
			OutputDimensionality: p.dimension,
		}
	}

	body, err := json.Marshal(geminiBatchRequest{Requests: requests})
	if err != nil {
		return Response{}, domain.WrapProgrammer("embedding: marshal gemini request", err)
	}

	url := fmt.Sprintf("%s/%s:batchEmbedContents?key=%s", p.baseURL, modelPath, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Response{}, domain.WrapProgrammer("embedding: build gemini request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return Response{}, domain.WrapTransient("embedding: gemini request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, domain.WrapTransient("embedding: read gemini response", err)
	}
	if resp.StatusCode >= 500 {
		return Response{}, domain.WrapTransient(fmt.Sprintf("embedding: gemini server error %d", resp.StatusCode), nil)
	}
	if resp.StatusCode >= 400 {
		return Response{}, domain.WrapProvider(fmt.Sprintf("embedding: gemini request rejected %d: %s", resp.StatusCode, raw), nil)
	}

	var parsed geminiBatchResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Response{}, domain.WrapProvider("embedding: parse gemini response", err)
	}
	if len(parsed.Embeddings) != len(texts) {
		return Response{}, domain.WrapProvider(fmt.Sprintf("embedding: gemini returned %d vectors for %d inputs", len(parsed.Embeddings), len(texts)), nil)
	}

	vectors := make([][]float32, len(texts))
	for i, e := range parsed.Embeddings {
		vectors[i] = e.Values
	}

	return Response{
		Vectors:    vectors,
		TokenCount: 0,
		ModelName:  p.model,
		Dimension:  p.dimension,
	}, nil
}

// GetBatchSize implements Provider.
func (p *GeminiProvider) GetBatchSize() int { return 100 }

// Dimension implements Provider.
func (p *GeminiProvider) Dimension() int { return p.dimension }

// ModelName implements Provider.
func (p *GeminiProvider) ModelName() string { return p.model }
