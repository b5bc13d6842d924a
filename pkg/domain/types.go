package domain

import "time"

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Deck is a named collection of cards owned by a single user.
type Deck struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Card belongs to exactly one deck. Its owner is tracked separately from the
// deck owner.
type Card struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	DeckID    string    `json:"deck_id"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeckInput carries the client-writable deck fields. Pointers distinguish
// "absent" from "empty".
type DeckInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// CardInput carries the client-writable card fields.
type CardInput struct {
	Name   *string `json:"name"`
	DeckID *string `json:"deck_id"`
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
