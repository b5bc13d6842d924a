package app

import (
	"context"
	"fmt"
	"strings"

	"flashdeck/internal/util"
	"flashdeck/pkg/domain"
)

// ListDecks returns every deck owned by the principal, oldest first.
func (a *App) ListDecks(ctx context.Context, principalID string) ([]domain.Deck, error) {
	decks, err := a.store.ListDecksByOwner(ctx, principalID)
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	return decks, nil
}

// CreateDeck validates the payload and stores a deck owned by the principal.
// Any owner supplied by the client is ignored.
func (a *App) CreateDeck(ctx context.Context, principalID string, payload Payload[domain.DeckInput]) (domain.Deck, error) {
	in, err := decodeInput(payload, nil)
	if err != nil {
		return domain.Deck{}, err
	}
	deck := domain.Deck{
		ID:          util.NewID(),
		Name:        strings.TrimSpace(*in.Name),
		Description: *in.Description,
		OwnerID:     principalID,
	}
	created, err := a.store.CreateDeck(ctx, deck)
	if err != nil {
		return domain.Deck{}, fmt.Errorf("create deck: %w: %w", ErrMalformedRequest, err)
	}
	return created, nil
}

// GetDeck returns the deck if the principal owns it.
func (a *App) GetDeck(ctx context.Context, principalID, id string) (domain.Deck, error) {
	return a.authorizedDeck(ctx, principalID, id)
}

// UpdateDeck replaces the name and description of an owned deck. The id and
// owner are never changed.
func (a *App) UpdateDeck(ctx context.Context, principalID, id string, payload Payload[domain.DeckInput]) (domain.Deck, error) {
	deck, err := a.authorizedDeck(ctx, principalID, id)
	if err != nil {
		return domain.Deck{}, err
	}
	in, err := decodeInput(payload, nil)
	if err != nil {
		return domain.Deck{}, err
	}
	deck.Name = strings.TrimSpace(*in.Name)
	deck.Description = *in.Description
	updated, err := a.store.UpdateDeck(ctx, deck)
	if err != nil {
		return domain.Deck{}, fmt.Errorf("update deck: %w: %w", ErrMalformedRequest, err)
	}
	return updated, nil
}

// DeleteDeck removes an owned deck together with all of its cards.
func (a *App) DeleteDeck(ctx context.Context, principalID, id string) error {
	if _, err := a.authorizedDeck(ctx, principalID, id); err != nil {
		return err
	}
	if err := a.store.DeleteDeck(ctx, id); err != nil {
		return fmt.Errorf("delete deck: %w", err)
	}
	return nil
}

// authorizedDeck resolves the deck, then applies the ownership policy.
// A missing deck is reported before a foreign one.
func (a *App) authorizedDeck(ctx context.Context, principalID, id string) (domain.Deck, error) {
	if !util.ValidID(id) {
		return domain.Deck{}, &ResourceError{Resource: "deck", ID: id, Err: ErrNotFound}
	}
	deck, ok, err := a.store.GetDeck(ctx, id)
	if err != nil {
		return domain.Deck{}, fmt.Errorf("get deck: %w", err)
	}
	if !ok {
		return domain.Deck{}, &ResourceError{Resource: "deck", ID: id, Err: ErrNotFound}
	}
	if domain.Authorize(principalID, deck.OwnerID) == domain.Deny {
		return domain.Deck{}, &ResourceError{Resource: "deck", ID: id, Err: ErrForbidden}
	}
	return deck, nil
}
