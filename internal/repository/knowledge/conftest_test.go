package knowledge

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/samvaad-ai/samvaad/internal/db"
	"github.com/samvaad-ai/samvaad/internal/domain"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn        func(ctx context.Context, key string, fields map[string]string) error
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
	searchKNNFn   func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	return m.result, m.err
}

func newTestRepo(t *testing.T) (*Repo, *mockStore, *mockEmbedder) {
	t.Helper()
	ms := &mockStore{}
	me := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3, 0.4}}}
	repo := New(ms, me, 4, zap.NewNop())
	return repo, ms, me
}

func testEntries() []domain.KnowledgeEntry {
	return []domain.KnowledgeEntry{
		{
			ID:       "anxiety_breathing_en",
			Content:  "Deep breathing exercises can help manage anxiety.",
			Category: "anxiety_management",
			Language: "en",
			Tags:     []string{"breathing", "anxiety"},
			Source:   "clinical_psychology",
		},
		{
			ID:       "exam_stress_en",
			Content:  "Exam stress is normal. Create a study schedule.",
			Category: "exam_stress",
			Language: "en",
			Tags:     []string{"exams", "stress"},
			Source:   "academic_counseling",
		},
	}
}
