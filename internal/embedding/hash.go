// Package embedding provides the local deterministic embedder used when no
// model-backed provider is configured.
package embedding

import (
	"context"

	"github.com/samvaad-ai/samvaad/internal/domain"
)

// Compile-time check: HashEmbedder implements domain.Embedder.
var _ domain.Embedder = (*HashEmbedder)(nil)

// HashEmbedder folds character codes into a fixed-width vector. Equal
// inputs always produce equal vectors, which keeps index writes and
// query embeddings comparable without any external provider.
type HashEmbedder struct {
	dim int
}

// NewHashEmbedder creates a hash embedder producing vectors of dim width.
func NewHashEmbedder(dim int) *HashEmbedder {
	if dim <= 0 {
		dim = domain.DefaultVectorDimensions
	}
	return &HashEmbedder{dim: dim}
}

// Embed produces a deterministic vector for text. It never fails and
// reports zero token usage.
func (e *HashEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	vec := make([]float32, e.dim)

	runes := []rune(text)
	for i, r := range runes {
		vec[i%e.dim] += float32(r) / 255
	}

	n := float32(len(runes))
	if n == 0 {
		n = 1
	}
	for i := range vec {
		vec[i] /= n
	}

	return domain.EmbeddingResult{Embedding: vec}, nil
}

// HealthCheck always succeeds: the embedder has no external dependency.
func (e *HashEmbedder) HealthCheck(_ context.Context) error {
	return nil
}
