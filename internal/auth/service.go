// Package auth implements account registration/login and the session layer
// that carries the user's API credential. The credential is never global
// state: handlers receive an explicit Session value and pass it on.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/performate/performate/internal/store"
)

var (
	ErrInvalidPassword = errors.New("auth: incorrect password")
	ErrMissingFields   = errors.New("auth: all fields are required")
)

// Service wraps the user repository with password hashing.
type Service struct {
	users *store.UserRepository
}

func NewService(users *store.UserRepository) *Service {
	return &Service{users: users}
}

// Register creates an account linked to an API token. Duplicate usernames
// surface store.ErrUsernameTaken.
func (s *Service) Register(ctx context.Context, username, password, apiToken string) error {
	if strings.TrimSpace(username) == "" || password == "" || strings.TrimSpace(apiToken) == "" {
		return ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("auth: hash password: %w", err)
	}

	return s.users.Create(ctx, &store.User{
		Username:     username,
		PasswordHash: string(hash),
		APIToken:     apiToken,
	})
}

// Login verifies the password and returns the stored user record. Unknown
// usernames surface store.ErrUserNotFound.
func (s *Service) Login(ctx context.Context, username, password string) (*store.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidPassword
	}

	if err := s.users.TouchLogin(ctx, username, time.Now()); err != nil {
		return nil, err
	}
	return user, nil
}
