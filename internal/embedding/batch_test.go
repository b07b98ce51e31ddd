package embedding

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	batchSize int
	dimension int
	calls     [][]string
}

func (f *fakeProvider) GenerateEmbeddings(ctx context.Context, texts []string) (Response, error) {
	f.calls = append(f.calls, append([]string(nil), texts...))
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = make([]float32, f.dimension)
	}
	return Response{Vectors: vectors, ModelName: "fake", Dimension: f.dimension}, nil
}

func (f *fakeProvider) GetBatchSize() int  { return f.batchSize }
func (f *fakeProvider) Dimension() int     { return f.dimension }
func (f *fakeProvider) ModelName() string  { return "fake" }

func TestGenerateAll_ChunksByBatchSize(t *testing.T) {
	p := &fakeProvider{batchSize: 2, dimension: 4}
	texts := []string{"a", "b", "c", "d", "e"}

	vectors, _, err := GenerateAll(context.Background(), p, texts, 0)
	require.NoError(t, err)

	assert.Len(t, vectors, 5)
	require.Len(t, p.calls, 3)
	assert.Equal(t, []string{"a", "b"}, p.calls[0])
	assert.Equal(t, []string{"c", "d"}, p.calls[1])
	assert.Equal(t, []string{"e"}, p.calls[2])
}

func TestGenerateAll_RespectsContextCancellation(t *testing.T) {
	p := &fakeProvider{batchSize: 1, dimension: 4}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := GenerateAll(ctx, p, []string{"a", "b"}, 10*time.Millisecond)
	require.Error(t, err)
}
