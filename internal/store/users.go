// internal/store/users.go
//
// User accounts.
// Responsibilities:
//   - Signup validation and bcrypt password hashing.
//   - Case-insensitive username lookup and authentication.
//   - Per-user solve counters (solves, total_guesses), kept by runs.go.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUsernameTaken is returned by CreateUser for an existing username (any case).
	ErrUsernameTaken = errors.New("store: username taken")
	// ErrInvalidSignup wraps username/password rule violations.
	ErrInvalidSignup = errors.New("store: invalid signup")
	// ErrInvalidCredentials is returned by Authenticate.
	ErrInvalidCredentials = errors.New("store: invalid username or password")
)

// User matches the users table shape.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	Solves       int       `json:"solves"`
	TotalGuesses int       `json:"totalGuesses"`
}

// AverageGuesses is TotalGuesses/Solves, or 0 before the first solve.
func (u *User) AverageGuesses() float64 {
	if u.Solves == 0 {
		return 0
	}
	return float64(u.TotalGuesses) / float64(u.Solves)
}

// CreateUser validates input, checks uniqueness, hashes the password, and inserts a new user.
func (s *SQLite) CreateUser(ctx context.Context, username, pw string) (*User, error) {
	username = strings.TrimSpace(username)
	if err := validateSignup(username, pw); err != nil {
		return nil, err
	}
	var exists int
	err := s.DB.QueryRowContext(ctx, `SELECT 1 FROM users WHERE lower(username)=lower(?)`, username).Scan(&exists)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(h),
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	if _, err := s.DB.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		u.ID, u.Username, u.PasswordHash, u.CreatedAt.Format(time.RFC3339),
	); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// Authenticate returns the user when pw matches, or ErrInvalidCredentials.
func (s *SQLite) Authenticate(ctx context.Context, username, pw string) (*User, error) {
	u, err := s.FindUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(pw)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// FindUserByUsername loads a user (case-insensitive) or returns ErrNotFound.
func (s *SQLite) FindUserByUsername(ctx context.Context, username string) (*User, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at, solves, total_guesses
	                                  FROM users WHERE lower(username)=lower(?)`, username)
	return scanUser(row)
}

// FindUserByID loads a user or returns ErrNotFound.
func (s *SQLite) FindUserByID(ctx context.Context, id string) (*User, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at, solves, total_guesses
	                                  FROM users WHERE id=?`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created, &u.Solves, &u.TotalGuesses); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.CreatedAt = mustParse(created)
	return &u, nil
}

// validateSignup enforces basic username/password rules.
func validateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return fmt.Errorf("%w: username must be 3–24 chars", ErrInvalidSignup)
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return fmt.Errorf("%w: username: letters, numbers, underscore only", ErrInvalidSignup)
		}
	}
	if len(p) < 8 || len(p) > 72 {
		return fmt.Errorf("%w: password must be 8–72 chars", ErrInvalidSignup)
	}
	return nil
}
