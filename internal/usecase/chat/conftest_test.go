package chat

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/samvaad-ai/samvaad/internal/domain"
	"github.com/samvaad-ai/samvaad/internal/lang"
	"github.com/samvaad-ai/samvaad/internal/repository/conversation"
	"github.com/samvaad-ai/samvaad/internal/sentiment"
)

type mockRetriever struct {
	results []domain.RetrievalResult
	calls   int
}

func (m *mockRetriever) Search(_ context.Context, _, _ string) []domain.RetrievalResult {
	m.calls++
	return m.results
}

type mockGenerator struct {
	response string
	err      error
	calls    int

	gotPrompt  string
	gotHistory []domain.ChatTurn
}

func (m *mockGenerator) Generate(_ context.Context, systemPrompt string, history []domain.ChatTurn) (string, error) {
	m.calls++
	m.gotPrompt = systemPrompt
	m.gotHistory = history
	return m.response, m.err
}

type testHarness struct {
	svc       *Service
	store     *conversation.Store
	retriever *mockRetriever
	generator *mockGenerator
}

// newTestService wires the orchestrator with the real detector, classifier
// and conversation store, a stubbed retriever, and an optional generator.
func newTestService(t *testing.T, generator *mockGenerator) *testHarness {
	t.Helper()

	retriever := &mockRetriever{}
	store := conversation.NewStore(zap.NewNop())
	composer := NewComposer(rand.New(rand.NewSource(1)))

	var gen domain.Generator
	if generator != nil {
		gen = generator
	}

	svc := NewService(
		lang.NewDetector(),
		sentiment.NewClassifier(),
		retriever,
		store,
		gen,
		composer,
		Config{HistoryWindow: 10, GenerationTimeout: time.Second},
		zap.NewNop(),
	)

	return &testHarness{svc: svc, store: store, retriever: retriever, generator: generator}
}
