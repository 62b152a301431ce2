package moderation

import (
	"errors"
	"fmt"
)

// ErrConflict is returned when an optimistic-concurrency check fails because
// another operator changed the entity first. Callers should re-read and retry.
var ErrConflict = errors.New("concurrent modification detected")

// ValidationError reports a missing or malformed field. Nothing was changed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// TransitionError reports a moderation action that is not legal from the
// entity's current status. Nothing was changed.
type TransitionError struct {
	Entity string
	From   string
	Action string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s %s in status %q", e.Action, e.Entity, e.From)
}

func NewTransitionError(entity, from, action string) *TransitionError {
	return &TransitionError{Entity: entity, From: from, Action: action}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsTransition reports whether err is a TransitionError.
func IsTransition(err error) bool {
	var te *TransitionError
	return errors.As(err, &te)
}
