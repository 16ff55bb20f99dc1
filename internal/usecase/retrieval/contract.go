package retrieval

import (
	"context"

	"github.com/samvaad-ai/samvaad/internal/domain"
)

// embedder is the consumer interface for query embedding (ISP).
type embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// knowledgeRepo is the consumer interface for the knowledge store (ISP).
type knowledgeRepo interface {
	Search(ctx context.Context, vector []float32, k int) ([]domain.RetrievalResult, error)
	Fallback() []domain.KnowledgeEntry
	VectorMode() bool
}
