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

// VoyageProvider calls the Voyage AI embeddings endpoint. Voyage recommends
// small batches (see GetBatchSize), unlike OpenAI's larger-batch API.
type VoyageProvider struct {
	apiKey     string
	model      string
	dimension  int
	httpClient *http.Client
	baseURL    string
}

var _ Provider = (*VoyageProvider)(nil)

// NewVoyageProvider constructs a Voyage provider. The client is a plain
// net/http.Client; Voyage has no official Go SDK in the dependency set, so
// calls use its documented REST endpoint directly.
func NewVoyageProvider(apiKey, model string, dimension int) (*VoyageProvider, error) {
	if apiKey == "" {
		return nil, domain.WrapConfiguration("embedding: voyage provider requires an API key", nil)
	}
	if model == "" {
		model = "voyage-3"
	}
	return &VoyageProvider{
		apiKey:     apiKey,
		model:      model,
		dimension:  dimension,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://api.voyageai.com/v1/embeddings",
	}, nil
}

type voyageRequest struct {
	Input           []string `json:"input"`
	Model           string   `json:"model"`
	InputType       string   `json:"input_type"`
	OutputDimension int      `json:"output_dimension,omitempty"`
}

type voyageResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// GenerateEmbeddings implements Provider.
func (p *VoyageProvider) GenerateEmbeddings(ctx context.Context, texts []string) (Response, error) {
	body, err := json.Marshal(voyageRequest{
		Input:           texts,
		Model:           p.model,
		InputType:       "document",
		OutputDimension: p.dimension,
	})
	if err != nil {
		return Response{}, domain.WrapProgrammer("embedding: marshal voyage request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return Response{}, domain.WrapProgrammer("embedding: build voyage request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return Response{}, domain.WrapTransient("embedding: voyage request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, domain.WrapTransient("embedding: read voyage response", err)
	}

	if resp.StatusCode >= 500 {
		return Response{}, domain.WrapTransient(fmt.Sprintf("embedding: voyage server error %d", resp.StatusCode), nil)
	}
	if resp.StatusCode >= 400 {
		return Response{}, domain.WrapProvider(fmt.Sprintf("embedding: voyage request rejected %d: %s", resp.StatusCode, raw), nil)
	}

	var parsed voyageResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Response{}, domain.WrapProvider("embedding: parse voyage response", err)
	}
	if len(parsed.Data) != len(texts) {
		return Response{}, domain.WrapProvider(fmt.Sprintf("embedding: voyage returned %d vectors for %d inputs", len(parsed.Data), len(texts)), nil)
	}

	vectors := make([][]float32, len(texts))
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return Response{}, domain.WrapProvider(fmt.Sprintf("embedding: voyage returned out-of-range index %d", d.Index), nil)
		}
		vectors[d.Index] = d.Embedding
	}

	return Response{
		Vectors:    vectors,
		TokenCount: parsed.Usage.TotalTokens,
		ModelName:  p.model,
		Dimension:  p.dimension,
	}, nil
}

// GetBatchSize implements Provider. Voyage recommends small batches.
func (p *VoyageProvider) GetBatchSize() int { return 10 }

// Dimension implements Provider.
func (p *VoyageProvider) Dimension() int { return p.dimension }

// ModelName implements Provider.
func (p *VoyageProvider) ModelName() string { return p.model }
