package domain

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

const (
	MaxNameLength        = 255
	MaxDescriptionLength = 16 << 20
)

// FieldErrors maps a payload field to a human readable problem.
type FieldErrors map[string]string

func (f FieldErrors) add(field, msg string) {
	if _, exists := f[field]; !exists {
		f[field] = msg
	}
}

// Validate checks a deck payload. Both fields are required on create and update.
func (in DeckInput) Validate() FieldErrors {
	errs := FieldErrors{}
	requireText(errs, "name", in.Name, MaxNameLength)
	requireText(errs, "description", in.Description, MaxDescriptionLength)
	return errs
}

// Validate checks a card payload. Both fields are required on create and update.
func (in CardInput) Validate() FieldErrors {
	errs := FieldErrors{}
	requireText(errs, "name", in.Name, MaxNameLength)
	if in.DeckID == nil || strings.TrimSpace(*in.DeckID) == "" {
		errs.add("deck_id", "deck_id is required")
	}
	return errs
}

// Validate checks a registration payload. Password strength is checked by pkg/auth.
func (in RegisterInput) Validate() FieldErrors {
	errs := FieldErrors{}
	name := strings.TrimSpace(in.Name)
	requireText(errs, "name", &name, MaxNameLength)
	email := strings.TrimSpace(in.Email)
	switch {
	case email == "":
		errs.add("email", "email is required")
	case !validEmail(email):
		errs.add("email", "email must be a valid email address")
	}
	if in.Password == "" {
		errs.add("password", "password is required")
	}
	return errs
}

func requireText(errs FieldErrors, field string, value *string, max int) {
	if value == nil || strings.TrimSpace(*value) == "" {
		errs.add(field, field+" is required")
		return
	}
	if utf8.RuneCountInString(*value) > max {
		errs.add(field, field+" is too long")
	}
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email && strings.Contains(email, "@")
}
