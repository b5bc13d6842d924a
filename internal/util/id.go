package util

import "github.com/google/uuid"

// NewID returns a random UUID string used for entity and request ids.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether raw looks like an id produced by NewID.
func ValidID(raw string) bool {
	_, err := uuid.Parse(raw)
	return err == nil
}
