package app

import (
	"errors"

	"flashdeck/pkg/domain"
)

// Payload yields a decoded request body. Writes call it only after the
// addressed record has been resolved and authorized, so a bad body never
// masks a 404 or 403.
//
// A Payload may return a *ValidationError for fields of the wrong type; those
// are merged with the regular field validation. Any other error is returned
// unchanged.
type Payload[T any] func() (T, error)

// PayloadOf wraps an already decoded value.
func PayloadOf[T any](v T) Payload[T] {
	return func() (T, error) { return v, nil }
}

type validatable interface {
	Validate() domain.FieldErrors
}

// decodeInput runs the payload, lets adjust fill defaults, and validates.
func decodeInput[T validatable](payload Payload[T], adjust func(*T)) (T, error) {
	var in T
	var typeErrs domain.FieldErrors
	if payload != nil {
		v, err := payload()
		var verr *ValidationError
		switch {
		case err == nil:
		case errors.As(err, &verr):
			typeErrs = verr.Fields
		default:
			return in, err
		}
		in = v
	}
	if adjust != nil {
		adjust(&in)
	}
	fields := in.Validate()
	for field, msg := range typeErrs {
		fields[field] = msg
	}
	if len(fields) > 0 {
		return in, &ValidationError{Fields: fields}
	}
	return in, nil
}
