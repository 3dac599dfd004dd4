package domain

import "errors"

// Error kinds shared by services and handlers
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidState    = errors.New("invalid state")
)

// Error is a business failure whose message is safe to return to the caller
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// Forbidden builds an ErrForbidden failure
func Forbidden(msg string) error { return &Error{Kind: ErrForbidden, Message: msg} }

// NotFound builds an ErrNotFound failure
func NotFound(msg string) error { return &Error{Kind: ErrNotFound, Message: msg} }

// Conflict builds an ErrConflict failure
func Conflict(msg string) error { return &Error{Kind: ErrConflict, Message: msg} }

// InvalidState builds an ErrInvalidState failure
func InvalidState(msg string) error { return &Error{Kind: ErrInvalidState, Message: msg} }

// Unauthenticated builds an ErrUnauthenticated failure
func Unauthenticated(msg string) error { return &Error{Kind: ErrUnauthenticated, Message: msg} }

// ValidationError carries per-field messages for malformed input
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Invalid input data" }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid builds a ValidationError for a single field
func Invalid(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
