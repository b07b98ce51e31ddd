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

// OllamaProvider calls a local Ollama server's embeddings endpoint.
// Ollama has no batch API, so GetBatchSize is 1 and GenerateEmbeddings
// issues one request per text.
type OllamaProvider struct {
	baseURL    string
	model      string
	dimension  int
	httpClient *http.Client
}

var _ Provider = (*OllamaProvider)(nil)

// NewOllamaProvider constructs an Ollama provider against baseURL (default
// http://localhost:11434).
func NewOllamaProvider(baseURL, model string, dimension int) (*OllamaProvider, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "nomic-embed-text"
	}
	return &OllamaProvider{
		baseURL:    baseURL,
		model:      model,
		dimension:  dimension,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaResponse struct {
	Embedding []float32 `json:"embedding"`
}

// GenerateEmbeddings implements Provider, issuing one HTTP call per text
// since Ollama's /api/embeddings endpoint processes a single prompt.
func (p *OllamaProvider) GenerateEmbeddings(ctx context.Context, texts []string) (Response, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := p.embedOne(ctx, text)
		if err != nil {
			return Response{}, err
		}
		vectors[i] = v
	}
	return Response{
		Vectors:    vectors,
		TokenCount: 0, // Ollama does not report token counts.
		ModelName:  p.model,
		Dimension:  p.dimension,
	}, nil
}

func (p *OllamaProvider) embedOne(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(ollamaRequest{Model: p.model, Prompt: text})
	if err != nil {
		return nil, domain.WrapProgrammer("embedding: marshal ollama request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, domain.WrapProgrammer("embedding: build ollama request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, domain.WrapTransient("embedding: ollama request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.WrapTransient("embedding: read ollama response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, domain.WrapProvider(fmt.Sprintf("embedding: ollama error %d: %s", resp.StatusCode, raw), nil)
	}

	var parsed ollamaResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, domain.WrapProvider("embedding: parse ollama response", err)
	}
	return parsed.Embedding, nil
}

// GetBatchSize implements Provider. Ollama has no batch endpoint.
func (p *OllamaProvider) GetBatchSize() int { return 1 }

// Dimension implements Provider.
func (p *OllamaProvider) Dimension() int { return p.dimension }

// ModelName implements Provider.
func (p *OllamaProvider) ModelName() string { return p.model }
