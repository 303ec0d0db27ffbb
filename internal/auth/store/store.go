package store

import (
	"context"
	"errors"
	"time"

	"github.com/Dobariya-Nishant/auth-service/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement it.
// It exposes sub-repositories to keep concerns tidy and testable.
type Store interface {
	Users() Users
	Sessions() Sessions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to handle multi-step writes (e.g. sign-up).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during login.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// GetUserByEmail is used during login and sign-up conflict checks.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateProfile mutates the mutable profile fields and bumps
	// updated_at. Nil fields are left untouched.
	UpdateProfile(ctx context.Context, userID string, fullName, profilePicture, dateOfBirth *string) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps
	// updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// DeleteUser cascades to sessions (per schema).
	DeleteUser(ctx context.Context, userID string) error
}

type Sessions interface {
	// CreateSession inserts a new session row.
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSession returns the session holding exactly this refresh token
	// for this user, or ErrNotFound.
	GetSession(ctx context.Context, userID, refreshToken string) (domain.Session, error)

	// ListSessions returns the user's sessions newest-first, at most
	// limit rows. A non-zero before restricts the page to sessions
	// created strictly earlier, giving stable keyset pagination.
	ListSessions(ctx context.Context, userID string, limit int, before time.Time) ([]domain.Session, error)

	// RotateSessionToken atomically replaces oldToken with newToken on
	// the session that currently holds oldToken. The match and swap
	// happen in a single statement; when the row is gone or already
	// rotated it returns ErrNotFound. The session's expires_at is left
	// untouched.
	RotateSessionToken(ctx context.Context, userID, oldToken, newToken string, now time.Time) error

	// DeleteSession removes the session holding exactly this refresh
	// token. Deleting an absent session returns ErrNotFound.
	DeleteSession(ctx context.Context, userID, refreshToken string) error

	// DeleteExpiredSessions removes sessions past their hard deadline and
	// reports how many rows went away. Housekeeping.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}
