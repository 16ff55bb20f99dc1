// Package knowledge persists the support catalog into the vector index with
// an in-process fallback for degraded operation.
package knowledge

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/samvaad-ai/samvaad/internal/db"
	"github.com/samvaad-ai/samvaad/internal/domain"
)

const (
	indexName = domain.KeyPrefix + "kb:idx"
	keyPrefix = domain.KeyPrefix + "kb:"
)

// store is the consumer interface for the knowledge index (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo is the knowledge store. Entries that cannot be persisted to the
// vector index land in the in-process fallback slice instead; every loaded
// entry lives in exactly one of the two.
type Repo struct {
	store      store
	embedder   domain.Embedder
	dimensions int
	logger     *zap.Logger

	fallback   []domain.KnowledgeEntry
	vectorLive bool
}

// New creates a knowledge repository. A nil store means every entry goes to
// the in-process fallback.
func New(s store, embedder domain.Embedder, dimensions int, logger *zap.Logger) *Repo {
	return &Repo{
		store:      s,
		embedder:   embedder,
		dimensions: dimensions,
		logger:     logger,
	}
}

// Load embeds and persists the catalog. Called once at startup before the
// server accepts traffic; not safe for concurrent use with Search.
func (r *Repo) Load(ctx context.Context, entries []domain.KnowledgeEntry) error {
	if r.store == nil {
		r.fallback = append(r.fallback, entries...)
		r.logger.Warn("vector store absent, knowledge base kept in memory",
			zap.Int("entries", len(entries)))
		return nil
	}

	if err := r.ensureIndex(ctx); err != nil {
		r.fallback = append(r.fallback, entries...)
		r.logger.Warn("vector index unavailable, knowledge base kept in memory",
			zap.Int("entries", len(entries)), zap.Error(err))
		return nil
	}
	r.vectorLive = true

	var indexed int
	for _, entry := range entries {
		if err := r.persist(ctx, entry); err != nil {
			r.fallback = append(r.fallback, entry)
			r.logger.Warn("knowledge entry kept in memory",
				zap.String("id", entry.ID), zap.Error(err))
			continue
		}
		indexed++
	}

	r.logger.Info("knowledge base loaded",
		zap.Int("indexed", indexed),
		zap.Int("in_memory", len(r.fallback)))
	return nil
}

// Search runs a KNN query against the vector index.
func (r *Repo) Search(ctx context.Context, vector []float32, k int) ([]domain.RetrievalResult, error) {
	if r.store == nil || !r.vectorLive {
		return nil, domain.ErrDependencyUnavailable
	}

	res, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    indexName,
		Vector:       vector,
		K:            k,
		ReturnFields: []string{"content", "category", "source"},
	})
	if err != nil {
		return nil, fmt.Errorf("knn search: %w", err)
	}

	out := make([]domain.RetrievalResult, 0, len(res.Entries))
	for _, entry := range res.Entries {
		out = append(out, parseSearchEntry(entry.Fields))
	}
	return out, nil
}

// Fallback returns the in-process entries in load order. The slice is not
// mutated after Load, so callers may read it without copying.
func (r *Repo) Fallback() []domain.KnowledgeEntry {
	return r.fallback
}

// VectorMode reports whether the vector index accepted the catalog.
func (r *Repo) VectorMode() bool {
	return r.vectorLive
}

func (r *Repo) ensureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, indexName)
	if err != nil {
		return fmt.Errorf("probe index: %w", err)
	}
	if exists {
		return nil
	}

	def := &db.IndexDefinition{
		Name:     indexName,
		Prefixes: []string{keyPrefix},
		Fields: []db.IndexField{
			{Name: "content", Type: db.IndexFieldText},
			{Name: "category", Type: db.IndexFieldTag},
			{Name: "language", Type: db.IndexFieldTag},
			{Name: "tags", Type: db.IndexFieldTag, TagSeparator: ","},
			{Name: "source", Type: db.IndexFieldTag},
			{
				Name:           "vector",
				Type:           db.IndexFieldVector,
				VectorAlgo:     db.VectorHNSW,
				VectorDim:      r.dimensions,
				VectorDistance: db.DistanceCosine,
			},
		},
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

func (r *Repo) persist(ctx context.Context, entry domain.KnowledgeEntry) error {
	res, err := r.embedder.Embed(ctx, entry.Content)
	if err != nil {
		return fmt.Errorf("embed entry: %w", err)
	}
	if len(res.Embedding) == 0 {
		return fmt.Errorf("embed entry %s: empty vector", entry.ID)
	}

	if err := r.store.HSet(ctx, keyPrefix+entry.ID, buildHashFields(entry, res.Embedding)); err != nil {
		return fmt.Errorf("hset entry: %w", err)
	}
	return nil
}
