// Package conversation keeps per-user chat sessions in process memory.
package conversation

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/samvaad-ai/samvaad/internal/domain"
)

type entry struct {
	mu         sync.Mutex
	conv       *domain.Conversation
	lastActive time.Time
}

// Store holds conversations keyed by conversation id. Callers must bracket
// multi-step updates with Lock/Unlock on the id so a turn's reads and writes
// see a consistent conversation.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
	logger  *zap.Logger
	now     func() time.Time
}

// NewStore creates an empty conversation store.
func NewStore(logger *zap.Logger) *Store {
	return &Store{
		entries: make(map[string]*entry),
		logger:  logger,
		now:     time.Now,
	}
}

// GetOrCreate returns the conversation for the id, creating it when absent.
// Idempotent: a second call with the same id returns the existing record.
// The caller must hold the conversation lock before reading or writing the
// returned record.
func (s *Store) GetOrCreate(userID, conversationID string) *domain.Conversation {
	return s.getOrCreateEntry(userID, conversationID).conv
}

// Lock acquires the per-conversation mutex, creating the record when absent.
// Every Lock must be paired with an Unlock on the same id.
func (s *Store) Lock(userID, conversationID string) {
	s.getOrCreateEntry(userID, conversationID).mu.Lock()
}

// Unlock releases the per-conversation mutex.
func (s *Store) Unlock(conversationID string) {
	s.mu.RLock()
	e := s.entries[conversationID]
	s.mu.RUnlock()
	if e != nil {
		e.mu.Unlock()
	}
}

// Get returns a deep copy of the conversation so callers can read it without
// holding the conversation lock.
func (s *Store) Get(conversationID string) (*domain.Conversation, error) {
	s.mu.RLock()
	e := s.entries[conversationID]
	s.mu.RUnlock()
	if e == nil {
		return nil, domain.ErrConversationNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshot(e.conv), nil
}

// Len returns the number of messages in the conversation, 0 when unknown.
func (s *Store) Len(conversationID string) int {
	s.mu.RLock()
	e := s.entries[conversationID]
	s.mu.RUnlock()
	if e == nil {
		return 0
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.conv.Messages)
}

// AppendMessage adds a message to the conversation and refreshes its
// last-active time. The caller must hold the conversation lock.
func (s *Store) AppendMessage(conversationID string, msg domain.Message) error {
	s.mu.RLock()
	e := s.entries[conversationID]
	s.mu.RUnlock()
	if e == nil {
		return domain.ErrConversationNotFound
	}

	e.conv.Messages = append(e.conv.Messages, msg)
	e.lastActive = s.now()
	return nil
}

// MergeProfile applies the non-nil fields of the patch onto the profile.
// Concerns are appended, skipping duplicates. The caller must hold the
// conversation lock.
func (s *Store) MergeProfile(conversationID string, patch domain.ProfilePatch) error {
	s.mu.RLock()
	e := s.entries[conversationID]
	s.mu.RUnlock()
	if e == nil {
		return domain.ErrConversationNotFound
	}

	if patch.Name != nil {
		e.conv.Profile.Name = *patch.Name
	}
	if patch.PreferredLanguage != nil {
		e.conv.Profile.PreferredLanguage = *patch.PreferredLanguage
	}
	for _, c := range patch.Concerns {
		if !containsString(e.conv.Profile.Concerns, c) {
			e.conv.Profile.Concerns = append(e.conv.Profile.Concerns, c)
		}
	}
	return nil
}

// EscalateRisk raises the profile risk level. Risk never goes down; a patch
// below the current level is ignored. The caller must hold the conversation
// lock.
func (s *Store) EscalateRisk(conversationID string, level domain.RiskLevel) error {
	s.mu.RLock()
	e := s.entries[conversationID]
	s.mu.RUnlock()
	if e == nil {
		return domain.ErrConversationNotFound
	}

	if level.AtLeast(e.conv.Profile.Risk) {
		e.conv.Profile.Risk = level
	}
	return nil
}

// StartSweeper evicts conversations idle longer than ttl. High-risk
// conversations are exempt so a crisis session never disappears mid-episode.
// Stops when ctx is cancelled.
func (s *Store) StartSweeper(ctx context.Context, ttl, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(ttl)
			}
		}
	}()
}

func (s *Store) sweep(ttl time.Duration) {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	var evicted int
	for id, e := range s.entries {
		// TryLock: never stall the sweeper behind an in-flight turn.
		if !e.mu.TryLock() {
			continue
		}
		idle := e.lastActive.Before(cutoff)
		highRisk := e.conv.Profile.Risk == domain.RiskHigh
		e.mu.Unlock()

		if idle && !highRisk {
			delete(s.entries, id)
			evicted++
		}
	}

	if evicted > 0 {
		s.logger.Info("expired conversations evicted", zap.Int("count", evicted))
	}
}

func (s *Store) getOrCreateEntry(userID, conversationID string) *entry {
	s.mu.RLock()
	e := s.entries[conversationID]
	s.mu.RUnlock()
	if e != nil {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e = s.entries[conversationID]; e != nil {
		return e
	}
	e = &entry{
		conv: &domain.Conversation{
			UserID:         userID,
			ConversationID: conversationID,
		},
		lastActive: s.now(),
	}
	s.entries[conversationID] = e
	return e
}

func snapshot(c *domain.Conversation) *domain.Conversation {
	out := &domain.Conversation{
		UserID:         c.UserID,
		ConversationID: c.ConversationID,
		Messages:       make([]domain.Message, len(c.Messages)),
		Profile:        c.Profile,
	}
	copy(out.Messages, c.Messages)
	out.Profile.Concerns = append([]string(nil), c.Profile.Concerns...)
	return out
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
