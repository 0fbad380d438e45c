package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrValidation     = errors.New("validation failed")
	ErrInternalServer = errors.New("internal server error")

	// ErrAccessDenied is returned on anonymous-capable read paths (special token
	// mismatch, entry not yet approved). Kept apart from ErrForbidden.
	ErrAccessDenied = errors.New("access denied")

	// Account state errors
	ErrBanned = errors.New("account is banned")
)

// ValidationError names the offending field and value. It unwraps to ErrValidation.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError builds a ValidationError for field/value.
func NewValidationError(field, value string) error {
	return &ValidationError{Field: field, Value: value}
}
