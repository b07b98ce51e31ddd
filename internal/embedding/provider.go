// Package embedding implements the Embedding Provider (component C):
// a polymorphic client over hosted and local embedding APIs, selected by a
// configuration tag through NewFromConfig.
package embedding

import (
	"context"
)

// Response is the result of one GenerateEmbeddings call.
type Response struct {
	Vectors    [][]float32
	TokenCount int
	ModelName  string
	Dimension  int
}

// Provider is the capability set every embedding backend implements.
// Callers chunk inputs to at most GetBatchSize() per call; a Provider never
// does this chunking itself, and a Provider never retries a failed call
// internally — that's the caller's concern, unlike internal/retrieval's
// search executor, which does retry at its own layer.
type Provider interface {
	// GenerateEmbeddings embeds texts, returning one vector per input in
	// the same order. len(texts) must be <= GetBatchSize().
	GenerateEmbeddings(ctx context.Context, texts []string) (Response, error)

	// GetBatchSize returns the maximum input length this provider accepts
	// in a single GenerateEmbeddings call.
	GetBatchSize() int

	// Dimension is the provider-immutable output vector length.
	Dimension() int

	// ModelName is the provider-immutable model identifier.
	ModelName() string
}
