package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for request validation.
var (
	// ErrURLMissing indicates that the request carried no url at all.
	ErrURLMissing = errors.New("url is required")

	// ErrURLInvalid indicates that the url is not an absolute http(s) URL.
	ErrURLInvalid = errors.New("url is invalid")
)

// ValidationError represents a validation error with detailed field information.
// Kind is one of the sentinel errors above so callers can branch with errors.Is.
type ValidationError struct {
	Field   string
	Message string
	Kind    error
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Unwrap exposes the validation kind.
func (e *ValidationError) Unwrap() error {
	return e.Kind
}
