package embedding

import (
	"context"
	"fmt"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"

	"github.com/couchcryptid/realestate-medallion/internal/domain"
)

// OpenAIProvider calls the OpenAI embeddings API. OpenAI supports larger
// batches than Voyage, so its GetBatchSize is correspondingly higher.
type OpenAIProvider struct {
	client    oai.Client
	model     string
	dimension int
}

var _ Provider = (*OpenAIProvider)(nil)

// NewOpenAIProvider constructs an OpenAI provider. When dimension is
// positive, every request asks the API to natively project to that
// dimension rather than truncating client-side; the model is not checked
// here.
func NewOpenAIProvider(apiKey, model string, dimension int) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, domain.WrapConfiguration("embedding: openai provider requires an API key", nil)
	}
	if model == "" {
		model = oai.EmbeddingModelTextEmbedding3Large
	}
	client := oai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIProvider{client: client, model: model, dimension: dimension}, nil
}

// GenerateEmbeddings implements Provider.
func (p *OpenAIProvider) GenerateEmbeddings(ctx context.Context, texts []string) (Response, error) {
	params := oai.EmbeddingNewParams{
		Model: p.model,
		Input: oai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
	}
	if p.dimension > 0 {
		params.Dimensions = param.NewOpt(int64(p.dimension))
	}

	resp, err := p.client.Embeddings.New(ctx, params)
	if err != nil {
		return Response{}, domain.WrapTransient("embedding: openai request failed", err)
	}
	if len(resp.Data) != len(texts) {
		return Response{}, domain.WrapProvider(fmt.Sprintf("embedding: openai returned %d vectors for %d inputs", len(resp.Data), len(texts)), nil)
	}

	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		idx := int(d.Index)
		if idx < 0 || idx >= len(texts) {
			return Response{}, domain.WrapProvider(fmt.Sprintf("embedding: openai returned out-of-range index %d", idx), nil)
		}
		vectors[idx] = float64ToFloat32(d.Embedding)
	}

	tokenCount := 0
	if resp.Usage.TotalTokens != 0 {
		tokenCount = int(resp.Usage.TotalTokens)
	}

	return Response{
		Vectors:    vectors,
		TokenCount: tokenCount,
		ModelName:  p.model,
		Dimension:  p.dimension,
	}, nil
}

// GetBatchSize implements Provider. OpenAI supports larger batches than
// hosted alternatives like Voyage.
func (p *OpenAIProvider) GetBatchSize() int { return 100 }

// Dimension implements Provider.
func (p *OpenAIProvider) Dimension() int { return p.dimension }

// ModelName implements Provider.
func (p *OpenAIProvider) ModelName() string { return p.model }

func float64ToFloat32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}
