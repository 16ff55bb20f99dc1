package domain

import "time"

// Role identifies the author of a conversation message.
type Role string

const (
	// RoleUser marks a message written by the end user.
	RoleUser Role = "user"
	// RoleAssistant marks a message composed by the service.
	RoleAssistant Role = "assistant"
)

// RiskLevel is the coarse escalation flag on a conversation profile.
// Escalation is monotonic within a process run: once High, never lowered.
type RiskLevel string

const (
	// RiskUnset means no risk signal has been observed yet.
	RiskUnset RiskLevel = ""
	// RiskLow is the baseline level.
	RiskLow RiskLevel = "low"
	// RiskMedium marks repeated negative signals.
	RiskMedium RiskLevel = "medium"
	// RiskHigh marks crisis keywords or negative sentiment.
	RiskHigh RiskLevel = "high"
)

// rank orders risk levels for monotonic escalation.
func (r RiskLevel) rank() int {
	switch r {
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	default:
		return 0
	}
}

// AtLeast reports whether r is already at or above other.
func (r RiskLevel) AtLeast(other RiskLevel) bool {
	return r.rank() >= other.rank()
}

// Message is a single conversation turn entry. History is append-only and
// insertion order is significant: it is fed back into generation.
type Message struct {
	Role      Role
	Content   string
	Timestamp time.Time
	Language  string
	Sentiment string
}

// Profile holds optional per-user attributes attached to a conversation.
type Profile struct {
	Name              string
	PreferredLanguage string
	Concerns          []string
	Risk              RiskLevel
}

// ProfilePatch is an explicit field-by-field update to a Profile.
// Nil pointers leave the current value untouched.
type ProfilePatch struct {
	Name              *string
	PreferredLanguage *string
	Concerns          []string
}

// Conversation is the dialogue state for one conversation id.
type Conversation struct {
	UserID         string
	ConversationID string
	Messages       []Message
	Profile        Profile
}

// Reply is the structured outcome of one orchestrated turn.
type Reply struct {
	Response       string
	ConversationID string
	Language       string
	Sentiment      string
}
