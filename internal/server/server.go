package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"flashdeck/internal/app"
	"flashdeck/internal/util"
	"flashdeck/pkg/domain"
)

const defaultMaxBodyBytes = 32 << 20

// Limiter decides whether another request for key fits in the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// Config wires required dependencies for the HTTP server.
type Config struct {
	App             *app.App
	RegisterLimiter Limiter
	TokenLimiter    Limiter
	TrustedProxies  *util.TrustedProxies
	CORS            util.CORSOptions
	MaxBodyBytes    int64
}

// Server exposes the flashcard API over HTTP.
type Server struct {
	app             *app.App
	registerLimiter Limiter
	tokenLimiter    Limiter
	trustedProxies  *util.TrustedProxies
	cors            util.CORSOptions
	mux             *http.ServeMux
	maxBodyBytes    int64
}

// New constructs the server with routes configured.
func New(cfg Config) (*Server, error) {
	if cfg.App == nil {
		return nil, errors.New("app is required")
	}
	maxBodyBytes := cfg.MaxBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	s := &Server{
		app:             cfg.App,
		registerLimiter: cfg.RegisterLimiter,
		tokenLimiter:    cfg.TokenLimiter,
		trustedProxies:  cfg.TrustedProxies,
		cors:            cfg.CORS,
		mux:             http.NewServeMux(),
		maxBodyBytes:    maxBodyBytes,
	}
	s.routes()
	return s, nil
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(util.WithRequestLog("flashdeck", util.WithSecurityHeaders(util.WithCORS(s.cors, s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	// accounts
	s.mux.Handle("/api/register", s.withRateLimit(s.registerLimiter, "register", s.handleRegister))
	s.mux.Handle("/api/token", s.withRateLimit(s.tokenLimiter, "token", s.handleToken))
	s.mux.Handle("/api/logout", s.withUser(s.handleLogout))
	s.mux.Handle("/api/user", s.withUser(s.handleCurrentUser))

	// decks
	s.mux.Handle("/api/decks", s.withUser(s.handleDecks))
	s.mux.Handle("/api/decks/", s.withUser(s.handleDeckByID))

	// cards
	s.mux.Handle("/api/cards/", s.withUser(s.handleCardByID))

	s.mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		notFound(w)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type userHandler func(http.ResponseWriter, *http.Request, domain.User)

// withUser authenticates the bearer token before any resource is touched.
func (s *Server) withUser(next userHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "AUTH_INVALID_TOKEN", "unauthenticated")
			return
		}
		user, err := s.app.UserFromToken(r.Context(), token)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		logger := util.LoggerFromContext(r.Context()).With("user_id", user.ID)
		next(w, r.WithContext(util.ContextWithLogger(r.Context(), logger)), user)
	})
}

func (s *Server) withRateLimit(limiter Limiter, scope string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if limiter != nil && r.Method == http.MethodPost {
			key := scope + ":" + util.ClientIP(r, s.trustedProxies)
			if !limiter.Allow(r.Context(), key) {
				writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests")
				return
			}
		}
		next(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) < len("Bearer ") || !strings.EqualFold(authHeader[:len("Bearer ")], "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(authHeader[len("Bearer "):])
	if token == "" {
		return "", false
	}
	return token, true
}

// splitID splits "{id}" or "{id}/{sub}" below prefix.
func splitID(path, prefix string) (id, sub string) {
	rest := strings.TrimPrefix(path, prefix)
	parts := strings.SplitN(rest, "/", 2)
	id = parts[0]
	if len(parts) == 2 {
		sub = parts[1]
		if sub == "" {
			sub = "/"
		}
	}
	return id, sub
}
