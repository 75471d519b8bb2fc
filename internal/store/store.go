package store

import (
	"context"
	"errors"

	"github.com/peakscale/weightlog/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. The sqlite driver implements it.
// It exposes sub-repositories to keep concerns tidy and testable.
type Store interface {
	Users() Users
	Entries() Entries

	// ApplyMigrations brings the schema to the current version. Must be
	// called once after open, before any repository call.
	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, rolling back when fn errors
	// and committing otherwise. Preferred over Tx for multi-step operations
	// that must be atomic.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases the underlying handle. Repository calls on a closed
	// store fail.
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
	// Create inserts a new user with an empty phone number and no goal
	// weight, returning the store-assigned id. A duplicate username reports
	// ErrAlreadyExists and leaves state unchanged.
	Create(ctx context.Context, username, credentialHash string, credentialSalt []byte) (int64, error)

	// GetByUsername returns the full user row, including the credential
	// hash and salt needed for verification.
	GetByUsername(ctx context.Context, username string) (domain.User, error)

	// GetByID returns a user by id.
	GetByID(ctx context.Context, id int64) (domain.User, error)

	// UpdateGoalWeight writes the new goal and keeps the read cache
	// consistent with the write (write-through). ErrNotFound when no such
	// user exists.
	UpdateGoalWeight(ctx context.Context, userID int64, goal float64) error

	// GoalWeight returns the user's goal weight, nil when no goal is set.
	// The frequently-read value is served from a per-store cache after the
	// first lookup.
	GoalWeight(ctx context.Context, userID int64) (*float64, error)

	// UpdatePhoneNumber sets the phone number; "" is a valid "unset" value.
	UpdatePhoneNumber(ctx context.Context, userID int64, phoneNumber string) error

	// PhoneNumber reads the phone number directly; no caching, the field is
	// read rarely.
	PhoneNumber(ctx context.Context, userID int64) (string, error)

	// Delete removes the user; owned entries go with it (ON DELETE CASCADE).
	Delete(ctx context.Context, userID int64) error

	// Count returns the number of registered users.
	Count(ctx context.Context) (int64, error)
}

type Entries interface {
	// Create inserts a new measurement and returns the store-assigned id.
	// Constraint violations (missing user, non-positive weight) surface as
	// errors; no row is created.
	Create(ctx context.Context, e domain.WeightEntry) (int64, error)

	// ListByUser returns all of the user's entries ordered by date
	// descending. A user with no entries gets an empty slice, not an error.
	ListByUser(ctx context.Context, userID int64) ([]domain.WeightEntry, error)

	// Delete removes an entry by id and returns the number of rows removed;
	// 0 means no such entry and is not an error.
	Delete(ctx context.Context, entryID int64) (int64, error)
}
