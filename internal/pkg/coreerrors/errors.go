// Package coreerrors defines the failure kinds raised by the content core.
// Handlers map these onto HTTP statuses; services never swallow them.
package coreerrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing blog, comment or user.
	ErrNotFound = errors.New("resource not found")

	// ErrPermissionDenied signals an actor lacking the role for an operation.
	ErrPermissionDenied = errors.New("not authorized")

	// ErrInvalidTransition signals an illegal status target for the actor and
	// current state.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError carries a field-level rule violation message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidation builds a ValidationError for a field.
func NewValidation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
