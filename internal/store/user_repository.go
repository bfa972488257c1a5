package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already exists")
)

// User is one registered account. PasswordHash is a bcrypt digest; APIToken
// is the linked platform credential, stored as provided.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	APIToken     string
	CreatedAt    time.Time
	LastLogin    *time.Time
}

// UserRepository handles user persistence.
type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user. A duplicate username maps to ErrUsernameTaken.
func (r *UserRepository) Create(ctx context.Context, user *User) error {
	if user.Username == "" {
		return errors.New("store: username is required")
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, api_token, created_at, last_login)
		VALUES (?, ?, ?, ?, ?, NULL)
	`,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.APIToken,
		user.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("store: insert user: %w", err)
	}
	return nil
}

// FindByUsername loads a user record.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, api_token, created_at, last_login
		FROM users WHERE username = ?
	`, username)

	var (
		user      User
		createdAt string
		lastLogin sql.NullString
	)
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.APIToken, &createdAt, &lastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: query user: %w", err)
	}

	if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
		user.CreatedAt = ts
	}
	if lastLogin.Valid {
		if ts, err := time.Parse(time.RFC3339, lastLogin.String); err == nil {
			user.LastLogin = &ts
		}
	}
	return &user, nil
}

// TouchLogin records a successful login time.
func (r *UserRepository) TouchLogin(ctx context.Context, username string, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login = ? WHERE username = ?`,
		at.UTC().Format(time.RFC3339), username)
	if err != nil {
		return fmt.Errorf("store: update last login: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
