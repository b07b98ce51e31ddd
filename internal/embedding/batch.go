package embedding

import (
	"context"
	"time"
)

// GenerateAll chunks texts into GetBatchSize()-sized calls to p, sleeping
// delay between batches (spec.md §5 rate limiting), and concatenates the
// resulting vectors in input order. Callers needing metrics around
// individual batches should call GenerateEmbeddings directly instead.
func GenerateAll(ctx context.Context, p Provider, texts []string, delay time.Duration) ([][]float32, int, error) {
	batchSize := p.GetBatchSize()
	if batchSize <= 0 {
		batchSize = 1
	}

	vectors := make([][]float32, 0, len(texts))
	totalTokens := 0

	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}

		resp, err := p.GenerateEmbeddings(ctx, texts[start:end])
		if err != nil {
			return nil, 0, err
		}
		vectors = append(vectors, resp.Vectors...)
		totalTokens += resp.TokenCount

		if end < len(texts) && delay > 0 {
			select {
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return vectors, totalTokens, nil
}
