package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"flashdeck/internal/util"
	"flashdeck/pkg/auth"
	"flashdeck/pkg/domain"
	"flashdeck/pkg/store"
)

const emailTakenMessage = "email has already been taken"

// Register creates an account and issues its first access token.
func (a *App) Register(ctx context.Context, in domain.RegisterInput) (domain.User, string, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	fields := in.Validate()
	if _, bad := fields["password"]; !bad {
		if err := auth.ValidatePassword(in.Password); err != nil {
			fields["password"] = err.Error()
		}
	}
	if err := validationError(fields); err != nil {
		return domain.User{}, "", err
	}
	_, exists, err := a.store.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("check email: %w", err)
	}
	if exists {
		return domain.User{}, "", &ValidationError{Fields: domain.FieldErrors{"email": emailTakenMessage}}
	}
	passwordHash, err := auth.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("hash password: %w", err)
	}
	now := time.Now().UTC()
	user := domain.User{
		ID:           util.NewID(),
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := a.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return domain.User{}, "", &ValidationError{Fields: domain.FieldErrors{"email": emailTakenMessage}}
		}
		return domain.User{}, "", fmt.Errorf("save user: %w", err)
	}
	token, err := a.sessions.NewSession(user.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// IssueToken exchanges email and password for an access token.
func (a *App) IssueToken(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}
	user, ok, err := a.store.GetUserByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("fetch user: %w", err)
	}
	if !ok {
		auth.DummyCompare(password)
		return "", ErrInvalidCredentials
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}
	token, err := a.sessions.NewSession(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// UserFromToken resolves the principal behind an access token.
func (a *App) UserFromToken(ctx context.Context, token string) (domain.User, error) {
	uid, ok, err := a.sessions.GetUserIDByToken(token)
	if err != nil || !ok {
		return domain.User{}, ErrUnauthenticated
	}
	user, found, err := a.store.GetUserByID(ctx, uid)
	if err != nil {
		return domain.User{}, fmt.Errorf("fetch user: %w", err)
	}
	if !found {
		return domain.User{}, ErrUnauthenticated
	}
	return user, nil
}

// Logout revokes the access token until it would have expired.
func (a *App) Logout(_ context.Context, token string) error {
	if err := a.sessions.DeleteSession(token); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}
