package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"flashdeck/pkg/domain"
)

const migrateLockID int64 = 51732401

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormLog,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := withMigrationLock(db, func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(&UserModel{}, &DeckModel{}, &CardModel{}); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func withMigrationLock(db *gorm.DB, fn func(*gorm.DB) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("open sql conn: %w", err)
	}
	defer conn.Close()
	if err := execAdvisory(ctx, conn, "SELECT pg_advisory_lock($1)", migrateLockID); err != nil {
		return fmt.Errorf("acquire migrate lock: %w", err)
	}
	defer func() {
		_ = execAdvisory(ctx, conn, "SELECT pg_advisory_unlock($1)", migrateLockID)
	}()
	return fn(db)
}

func execAdvisory(ctx context.Context, conn *sql.Conn, query string, lockID int64) error {
	_, err := conn.ExecContext(ctx, query, lockID)
	return err
}

// translateError maps driver errors onto the package sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return fmt.Errorf("%w: %v", ErrForeignKey, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrForeignKey, pgErr.ConstraintName)
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", ErrDuplicateEmail, pgErr.ConstraintName)
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", ErrDuplicateEmail, err)
	}
	return err
}

// CreateUser registers a user.
func (s *GormStore) CreateUser(ctx context.Context, u domain.User) error {
	model := userToModel(u)
	return translateError(s.db.WithContext(ctx).Create(&model).Error)
}

// GetUserByEmail looks up a user by email.
func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// GetUserByID returns a user by ID.
func (s *GormStore) GetUserByID(ctx context.Context, id string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// CreateDeck inserts a deck row, stamping its timestamps.
func (s *GormStore) CreateDeck(ctx context.Context, d domain.Deck) (domain.Deck, error) {
	now := time.Now().UTC()
	d.CreatedAt, d.UpdatedAt = now, now
	model := deckToModel(d)
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&model).Error; err != nil {
		return domain.Deck{}, translateError(err)
	}
	return deckFromModel(model), nil
}

// GetDeck retrieves a deck.
func (s *GormStore) GetDeck(ctx context.Context, id string) (domain.Deck, bool, error) {
	var model DeckModel
	if err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Deck{}, false, nil
		}
		return domain.Deck{}, false, err
	}
	return deckFromModel(model), true, nil
}

// ListDecksByOwner returns decks filtered by owner ordered by created_at.
func (s *GormStore) ListDecksByOwner(ctx context.Context, ownerID string) ([]domain.Deck, error) {
	var models []DeckModel
	if err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Deck, 0, len(models))
	for _, m := range models {
		res = append(res, deckFromModel(m))
	}
	return res, nil
}

// UpdateDeck writes name and description. owner_id is never touched.
func (s *GormStore) UpdateDeck(ctx context.Context, d domain.Deck) (domain.Deck, error) {
	var model DeckModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&DeckModel{}).
			Where("id = ?", d.ID).
			Updates(map[string]any{
				"name":        d.Name,
				"description": d.Description,
				"updated_at":  time.Now().UTC(),
			})
		if res.Error != nil {
			return translateError(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.First(&model, "id = ?", d.ID).Error
	})
	if err != nil {
		return domain.Deck{}, err
	}
	return deckFromModel(model), nil
}

// DeleteDeck removes a deck and its cards (cards are also covered by the FK cascade).
func (s *GormStore) DeleteDeck(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&CardModel{}, "deck_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&DeckModel{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// CreateCard inserts a card row. A deck_id without a matching deck fails with ErrForeignKey.
func (s *GormStore) CreateCard(ctx context.Context, c domain.Card) (domain.Card, error) {
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	model := cardToModel(c)
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&model).Error; err != nil {
		return domain.Card{}, translateError(err)
	}
	return cardFromModel(model), nil
}

// GetCard retrieves a card.
func (s *GormStore) GetCard(ctx context.Context, id string) (domain.Card, bool, error) {
	var model CardModel
	if err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Card{}, false, nil
		}
		return domain.Card{}, false, err
	}
	return cardFromModel(model), true, nil
}

// ListCardsByDeck returns every card of a deck regardless of card owner.
func (s *GormStore) ListCardsByDeck(ctx context.Context, deckID string) ([]domain.Card, error) {
	var models []CardModel
	if err := s.db.WithContext(ctx).
		Where("deck_id = ?", deckID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Card, 0, len(models))
	for _, m := range models {
		res = append(res, cardFromModel(m))
	}
	return res, nil
}

// UpdateCard writes name and deck_id.
func (s *GormStore) UpdateCard(ctx context.Context, c domain.Card) (domain.Card, error) {
	var model CardModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&CardModel{}).
			Where("id = ?", c.ID).
			Updates(map[string]any{
				"name":       c.Name,
				"deck_id":    c.DeckID,
				"updated_at": time.Now().UTC(),
			})
		if res.Error != nil {
			return translateError(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.First(&model, "id = ?", c.ID).Error
	})
	if err != nil {
		return domain.Card{}, err
	}
	return cardFromModel(model), nil
}

// DeleteCard removes one card.
func (s *GormStore) DeleteCard(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&CardModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
