package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"flashdeck/pkg/store"
)

const defaultSessionTTL = 24 * time.Hour

// Config holds runtime configuration for the core application.
type Config struct {
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	JWTSecret     string
	JWTIssuer     string
	JWTAudience   string
	JWTLeeway     time.Duration
	SessionTTL    time.Duration
	// StrictCardDecks requires the target deck of a card write to exist and
	// be owned by the caller.
	StrictCardDecks bool
	Store           store.Store
	Sessions        store.SessionStore
}

// App is the core application service wiring together storage, sessions and
// the ownership policy.
type App struct {
	store           store.Store
	sessions        store.SessionStore
	strictCardDecks bool
	closers         []func() error
}

// New constructs the application. When Store or Sessions are nil they are
// built from the database URL and JWT settings.
func New(cfg Config) (*App, error) {
	a := &App{strictCardDecks: cfg.StrictCardDecks}

	dataStore := cfg.Store
	if dataStore == nil {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("database URL required")
		}
		gormStore, err := store.NewGormStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
		a.closers = append(a.closers, gormStore.Close)
		dataStore = gormStore
	}

	sessionStore := cfg.Sessions
	if sessionStore == nil {
		if cfg.SessionTTL == 0 {
			cfg.SessionTTL = defaultSessionTTL
		}
		var revoker store.TokenRevoker
		if strings.TrimSpace(cfg.RedisAddr) != "" {
			redisRevoker := store.NewRedisTokenRevoker(cfg.RedisAddr, cfg.RedisPassword, "")
			a.closers = append(a.closers, redisRevoker.Close)
			revoker = redisRevoker
		} else {
			revoker = store.NewMemoryTokenRevoker()
		}
		jwtStore, err := store.NewJWTSessionStore(cfg.JWTSecret, cfg.SessionTTL, revoker, store.JWTOptions{
			Issuer:   cfg.JWTIssuer,
			Audience: cfg.JWTAudience,
			Leeway:   cfg.JWTLeeway,
		})
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("init jwt session store: %w", err)
		}
		sessionStore = jwtStore
	}

	a.store = dataStore
	a.sessions = sessionStore
	return a, nil
}

// SessionTTL reports the lifetime of issued access tokens.
func (a *App) SessionTTL() time.Duration {
	return a.sessions.TTL()
}

// Close releases connections opened by New.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
