package store

import (
	"context"
	"sync"
	"time"

	"flashdeck/pkg/domain"
)

// MemoryStore keeps records in-process. It enforces the card -> deck foreign
// key and the deck cascade like the Postgres schema does; user references are
// not checked.
type MemoryStore struct {
	mu        sync.RWMutex
	decks     map[string]domain.Deck
	deckOrder []string
	cards     map[string]domain.Card
	cardOrder []string
	users     map[string]domain.User // key: user ID
	emails    map[string]string      // email -> user ID
	now       func() time.Time
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		decks:  make(map[string]domain.Deck),
		cards:  make(map[string]domain.Card),
		users:  make(map[string]domain.User),
		emails: make(map[string]string),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateUser registers a user.
func (m *MemoryStore) CreateUser(_ context.Context, u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.emails[u.Email]; exists {
		return ErrDuplicateEmail
	}
	m.users[u.ID] = u
	m.emails[u.Email] = u.ID
	return nil
}

// GetUserByEmail looks up a user by email.
func (m *MemoryStore) GetUserByEmail(_ context.Context, email string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.emails[email]
	if !ok {
		return domain.User{}, false, nil
	}
	u, exists := m.users[id]
	return u, exists, nil
}

// GetUserByID returns a user by ID.
func (m *MemoryStore) GetUserByID(_ context.Context, id string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok, nil
}

// CreateDeck stores a deck and tracks insertion order.
func (m *MemoryStore) CreateDeck(_ context.Context, d domain.Deck) (domain.Deck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	d.CreatedAt, d.UpdatedAt = now, now
	m.decks[d.ID] = d
	m.deckOrder = append(m.deckOrder, d.ID)
	return d, nil
}

// GetDeck retrieves a deck by ID.
func (m *MemoryStore) GetDeck(_ context.Context, id string) (domain.Deck, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.decks[id]
	return d, ok, nil
}

// ListDecksByOwner returns decks filtered by owner ID in insertion order.
func (m *MemoryStore) ListDecksByOwner(_ context.Context, ownerID string) ([]domain.Deck, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Deck, 0)
	for _, id := range m.deckOrder {
		if d, ok := m.decks[id]; ok && d.OwnerID == ownerID {
			res = append(res, d)
		}
	}
	return res, nil
}

// UpdateDeck replaces name and description.
func (m *MemoryStore) UpdateDeck(_ context.Context, d domain.Deck) (domain.Deck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.decks[d.ID]
	if !ok {
		return domain.Deck{}, ErrNotFound
	}
	current.Name = d.Name
	current.Description = d.Description
	current.UpdatedAt = m.now()
	m.decks[d.ID] = current
	return current, nil
}

// DeleteDeck removes a deck and all of its cards under one lock.
func (m *MemoryStore) DeleteDeck(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.decks[id]; !ok {
		return ErrNotFound
	}
	delete(m.decks, id)
	m.deckOrder = without(m.deckOrder, id)
	kept := m.cardOrder[:0]
	for _, cid := range m.cardOrder {
		if c, ok := m.cards[cid]; ok && c.DeckID == id {
			delete(m.cards, cid)
			continue
		}
		kept = append(kept, cid)
	}
	m.cardOrder = kept
	return nil
}

// CreateCard stores a card. The referenced deck must exist.
func (m *MemoryStore) CreateCard(_ context.Context, c domain.Card) (domain.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.decks[c.DeckID]; !ok {
		return domain.Card{}, ErrForeignKey
	}
	now := m.now()
	c.CreatedAt, c.UpdatedAt = now, now
	m.cards[c.ID] = c
	m.cardOrder = append(m.cardOrder, c.ID)
	return c, nil
}

// GetCard retrieves a card by ID.
func (m *MemoryStore) GetCard(_ context.Context, id string) (domain.Card, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.cards[id]
	return c, ok, nil
}

// ListCardsByDeck returns the cards of a deck in insertion order.
func (m *MemoryStore) ListCardsByDeck(_ context.Context, deckID string) ([]domain.Card, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Card, 0)
	for _, id := range m.cardOrder {
		if c, ok := m.cards[id]; ok && c.DeckID == deckID {
			res = append(res, c)
		}
	}
	return res, nil
}

// UpdateCard replaces name and deck_id. The new deck must exist.
func (m *MemoryStore) UpdateCard(_ context.Context, c domain.Card) (domain.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.cards[c.ID]
	if !ok {
		return domain.Card{}, ErrNotFound
	}
	if _, ok := m.decks[c.DeckID]; !ok {
		return domain.Card{}, ErrForeignKey
	}
	current.Name = c.Name
	current.DeckID = c.DeckID
	current.UpdatedAt = m.now()
	m.cards[c.ID] = current
	return current, nil
}

// DeleteCard removes one card.
func (m *MemoryStore) DeleteCard(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cards[id]; !ok {
		return ErrNotFound
	}
	delete(m.cards, id)
	m.cardOrder = without(m.cardOrder, id)
	return nil
}

func without(ids []string, id string) []string {
	filtered := ids[:0]
	for _, item := range ids {
		if item != id {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
