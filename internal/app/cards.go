package app

import (
	"context"
	"fmt"
	"strings"

	"flashdeck/internal/util"
	"flashdeck/pkg/domain"
)

// ListDeckCards returns every card of a deck the principal owns, regardless of
// who owns the individual cards.
func (a *App) ListDeckCards(ctx context.Context, principalID, deckID string) ([]domain.Card, error) {
	if _, err := a.authorizedDeck(ctx, principalID, deckID); err != nil {
		return nil, err
	}
	cards, err := a.store.ListCardsByDeck(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return cards, nil
}

// CreateCard stores a card owned by the principal. The deck comes from the
// payload; routeDeckID fills it in when the payload omits it.
func (a *App) CreateCard(ctx context.Context, principalID, routeDeckID string, payload Payload[domain.CardInput]) (domain.Card, error) {
	in, err := decodeInput(payload, func(c *domain.CardInput) {
		if (c.DeckID == nil || strings.TrimSpace(*c.DeckID) == "") && routeDeckID != "" {
			c.DeckID = &routeDeckID
		}
	})
	if err != nil {
		return domain.Card{}, err
	}
	deckID := strings.TrimSpace(*in.DeckID)
	if err := a.checkCardDeck(ctx, principalID, deckID); err != nil {
		return domain.Card{}, err
	}
	card := domain.Card{
		ID:      util.NewID(),
		Name:    strings.TrimSpace(*in.Name),
		DeckID:  deckID,
		OwnerID: principalID,
	}
	created, err := a.store.CreateCard(ctx, card)
	if err != nil {
		return domain.Card{}, fmt.Errorf("create card: %w: %w", ErrMalformedRequest, err)
	}
	return created, nil
}

// GetCard returns the card if the principal owns it.
func (a *App) GetCard(ctx context.Context, principalID, id string) (domain.Card, error) {
	return a.authorizedCard(ctx, principalID, id)
}

// UpdateCard replaces the name and deck of an owned card.
func (a *App) UpdateCard(ctx context.Context, principalID, id string, payload Payload[domain.CardInput]) (domain.Card, error) {
	card, err := a.authorizedCard(ctx, principalID, id)
	if err != nil {
		return domain.Card{}, err
	}
	in, err := decodeInput(payload, nil)
	if err != nil {
		return domain.Card{}, err
	}
	deckID := strings.TrimSpace(*in.DeckID)
	if err := a.checkCardDeck(ctx, principalID, deckID); err != nil {
		return domain.Card{}, err
	}
	card.Name = strings.TrimSpace(*in.Name)
	card.DeckID = deckID
	updated, err := a.store.UpdateCard(ctx, card)
	if err != nil {
		return domain.Card{}, fmt.Errorf("update card: %w: %w", ErrMalformedRequest, err)
	}
	return updated, nil
}

// DeleteCard removes an owned card.
func (a *App) DeleteCard(ctx context.Context, principalID, id string) error {
	if _, err := a.authorizedCard(ctx, principalID, id); err != nil {
		return err
	}
	if err := a.store.DeleteCard(ctx, id); err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	return nil
}

func (a *App) authorizedCard(ctx context.Context, principalID, id string) (domain.Card, error) {
	if !util.ValidID(id) {
		return domain.Card{}, &ResourceError{Resource: "card", ID: id, Err: ErrNotFound}
	}
	card, ok, err := a.store.GetCard(ctx, id)
	if err != nil {
		return domain.Card{}, fmt.Errorf("get card: %w", err)
	}
	if !ok {
		return domain.Card{}, &ResourceError{Resource: "card", ID: id, Err: ErrNotFound}
	}
	if domain.Authorize(principalID, card.OwnerID) == domain.Deny {
		return domain.Card{}, &ResourceError{Resource: "card", ID: id, Err: ErrForbidden}
	}
	return card, nil
}

// checkCardDeck is a no-op unless strict card decks are enabled. Without it
// a card may reference another user's deck; a missing deck is still rejected
// by the store's foreign key.
func (a *App) checkCardDeck(ctx context.Context, principalID, deckID string) error {
	if !a.strictCardDecks {
		return nil
	}
	_, err := a.authorizedDeck(ctx, principalID, deckID)
	return err
}
