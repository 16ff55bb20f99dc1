package chat

import (
	"context"

	"github.com/samvaad-ai/samvaad/internal/domain"
)

// detector is the consumer interface for language detection (ISP).
type detector interface {
	Detect(text string) string
}

// classifier is the consumer interface for sentiment classification (ISP).
type classifier interface {
	Classify(text string) string
}

// retriever is the consumer interface for knowledge retrieval (ISP).
type retriever interface {
	Search(ctx context.Context, query, language string) []domain.RetrievalResult
}

// conversationStore is the consumer interface for dialogue state (ISP).
// Lock/Unlock bracket one turn; GetOrCreate, AppendMessage, MergeProfile and
// EscalateRisk require the lock to be held.
type conversationStore interface {
	Lock(userID, conversationID string)
	Unlock(conversationID string)
	GetOrCreate(userID, conversationID string) *domain.Conversation
	Get(conversationID string) (*domain.Conversation, error)
	AppendMessage(conversationID string, msg domain.Message) error
	MergeProfile(conversationID string, patch domain.ProfilePatch) error
	EscalateRisk(conversationID string, level domain.RiskLevel) error
}
