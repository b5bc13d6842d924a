package store

import (
	"time"

	"flashdeck/pkg/domain"
)

// GORM models used for persistence.
type UserModel struct {
	ID           string    `gorm:"primaryKey"`
	Name         string    `gorm:"size:255;not null"`
	Email        string    `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (UserModel) TableName() string { return "users" }

type DeckModel struct {
	ID          string      `gorm:"primaryKey"`
	Name        string      `gorm:"size:255;not null"`
	Description string      `gorm:"type:text;not null"`
	OwnerID     string      `gorm:"not null;index"`
	Owner       UserModel   `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Cards       []CardModel `gorm:"foreignKey:DeckID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time   `gorm:"not null;index"`
	UpdatedAt   time.Time   `gorm:"not null"`
}

func (DeckModel) TableName() string { return "decks" }

type CardModel struct {
	ID        string    `gorm:"primaryKey"`
	Name      string    `gorm:"size:255;not null"`
	DeckID    string    `gorm:"not null;index"`
	OwnerID   string    `gorm:"not null;index"`
	Owner     UserModel `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (CardModel) TableName() string { return "cards" }

func userToModel(u domain.User) UserModel {
	return UserModel{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func deckToModel(d domain.Deck) DeckModel {
	return DeckModel{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		OwnerID:     d.OwnerID,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func deckFromModel(m DeckModel) domain.Deck {
	return domain.Deck{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		OwnerID:     m.OwnerID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func cardToModel(c domain.Card) CardModel {
	return CardModel{
		ID:        c.ID,
		Name:      c.Name,
		DeckID:    c.DeckID,
		OwnerID:   c.OwnerID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func cardFromModel(m CardModel) domain.Card {
	return domain.Card{
		ID:        m.ID,
		Name:      m.Name,
		DeckID:    m.DeckID,
		OwnerID:   m.OwnerID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
