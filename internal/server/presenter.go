package server

import (
	"time"

	"flashdeck/pkg/domain"
)

// envelope wraps every successful payload as {"data": ...}.
type envelope struct {
	Data any `json:"data"`
}

type tokenView struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
}

type registerView struct {
	User domain.User `json:"user"`
	tokenView
}

func presentToken(token string, ttl time.Duration) tokenView {
	return tokenView{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(ttl / time.Second),
	}
}

func presentDecks(decks []domain.Deck) []domain.Deck {
	if decks == nil {
		return []domain.Deck{}
	}
	return decks
}

func presentCards(cards []domain.Card) []domain.Card {
	if cards == nil {
		return []domain.Card{}
	}
	return cards
}
