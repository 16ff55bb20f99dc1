package domain

import "context"

// ChatTurn is one prior message handed to the generative model.
type ChatTurn struct {
	Role    Role
	Content string
}

// Generator produces a reply from a system instruction and dialogue history.
// The orchestrator treats any error as "provider down" and falls back to the
// local pattern composer; a Generator must never be required for a turn to
// complete.
type Generator interface {
	Generate(ctx context.Context, systemPrompt string, history []ChatTurn) (string, error)
}
