package models

import (
	"errors"
	"fmt"
	"time"
)

// ValidationError reports input that was rejected before touching the store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StateError reports an operation attempted against a memory that is still
// locked.
type StateError struct {
	MemoryID   string
	UnlockDate time.Time
}

func (e *StateError) Error() string {
	return fmt.Sprintf("memory %s is locked until %s", e.MemoryID, e.UnlockDate.Format(time.RFC3339))
}

// IsStateError reports whether err is (or wraps) a StateError.
func IsStateError(err error) bool {
	var se *StateError
	return errors.As(err, &se)
}
