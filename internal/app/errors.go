package app

import (
	"errors"
	"sort"
	"strings"

	"flashdeck/pkg/domain"
)

var (
	// ErrNotFound is returned when the addressed deck or card does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the principal does not own the record.
	// It is never downgraded to ErrNotFound.
	ErrForbidden = errors.New("forbidden")
	// ErrMalformedRequest is returned when a write could not be persisted,
	// e.g. a card referencing a missing deck.
	ErrMalformedRequest = errors.New("malformed request")

	// ErrInvalidCredentials is returned when the supplied credentials do not match.
	// The message is shown to clients and must not enable account enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

// ValidationError lists every payload field that failed validation.
type ValidationError struct {
	Fields domain.FieldErrors
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func validationError(fields domain.FieldErrors) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// ResourceError ties ErrNotFound or ErrForbidden to the record that caused it.
type ResourceError struct {
	Resource string
	ID       string
	Err      error
}

func (e *ResourceError) Error() string {
	return e.Resource + " " + e.ID + ": " + e.Err.Error()
}

func (e *ResourceError) Unwrap() error { return e.Err }
