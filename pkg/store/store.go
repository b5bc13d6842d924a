package store

import (
	"context"
	"errors"
	"time"

	"flashdeck/pkg/domain"
)

var (
	// ErrNotFound is returned when a record with the given id does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrForeignKey is returned when a write references a missing parent row.
	ErrForeignKey = errors.New("foreign key violation")
	// ErrDuplicateEmail is returned when a user email is already registered.
	ErrDuplicateEmail = errors.New("email already exists")
)

// Store defines persistence operations for users, decks, and cards.
type Store interface {
	// users
	CreateUser(ctx context.Context, u domain.User) error
	GetUserByEmail(ctx context.Context, email string) (domain.User, bool, error)
	GetUserByID(ctx context.Context, id string) (domain.User, bool, error)

	// decks
	CreateDeck(ctx context.Context, d domain.Deck) (domain.Deck, error)
	GetDeck(ctx context.Context, id string) (domain.Deck, bool, error)
	ListDecksByOwner(ctx context.Context, ownerID string) ([]domain.Deck, error)
	UpdateDeck(ctx context.Context, d domain.Deck) (domain.Deck, error)
	// DeleteDeck removes the deck and every card referencing it atomically.
	DeleteDeck(ctx context.Context, id string) error

	// cards
	CreateCard(ctx context.Context, c domain.Card) (domain.Card, error)
	GetCard(ctx context.Context, id string) (domain.Card, bool, error)
	ListCardsByDeck(ctx context.Context, deckID string) ([]domain.Card, error)
	UpdateCard(ctx context.Context, c domain.Card) (domain.Card, error)
	DeleteCard(ctx context.Context, id string) error
}

// SessionStore issues and resolves access tokens.
type SessionStore interface {
	NewSession(userID string) (string, error)
	GetUserIDByToken(token string) (string, bool, error)
	DeleteSession(token string) error
	TTL() time.Duration
}
