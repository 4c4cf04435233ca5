// Package common defines shared sentinel errors used across the vault's
// storage and service layers. Callers should use errors.Is / errors.As to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Account directory errors.
	ErrEmailAlreadyTaken = errors.New("email already registered")

	// Session errors.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError reports a field-level constraint violation (required field,
// length limit, enum membership). The front-end surfaces Reason next to Field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
