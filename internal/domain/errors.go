package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation signals malformed or missing required input.
	ErrValidation = errors.New("validation failed")
	// ErrConversationNotFound signals a missing conversation.
	ErrConversationNotFound = errors.New("conversation not found")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrGenerationProviderError signals a chat completion provider failure.
	ErrGenerationProviderError = errors.New("generation provider error")
	// ErrDependencyUnavailable signals an external dependency that is down
	// or unconfigured; callers are expected to take the fallback path.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// FieldError wraps ErrValidation with the offending field for 400 responses.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: field %q %s", ErrValidation.Error(), e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrValidation }

// NewFieldError creates a field-level validation error.
func NewFieldError(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}
