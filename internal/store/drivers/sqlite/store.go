package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/peakscale/weightlog/internal/store"

	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// dbtx is the subset of database/sql shared by *sql.DB and *sql.Tx, so the
// same repos serve both the root store and transactions.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db    *sql.DB
	dsn   string
	goals *goalCache
}

// NewStore opens (creating if necessary) the SQLite database at dsn. Foreign
// keys are enforced on the connection, and the pool is pinned to a single
// connection: the store is a single-writer local file, and ":memory:" test
// databases only exist per connection.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:    db,
		dsn:   dsn,
		goals: newGoalCache(),
	}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, automatically handling
// commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	// Rollback is safe to call after commit; this covers early returns.
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) Users() store.Users     { return &usersRepo{db: s.db, goals: s.goals} }
func (s *Store) Entries() store.Entries { return &entriesRepo{db: s.db} }

// goalCache caches users' goal weights for the lifetime of the store. It is
// a field of the store instance, not package state, so independent stores
// (and their tests) cannot see each other's values. No eviction: the
// expected user count of a local installation is tiny.
type goalCache struct {
	mu sync.Mutex
	m  map[int64]goalValue
}

// goalValue distinguishes "no goal set" from every numeric value, so a
// cached absence can never be confused with a real goal.
type goalValue struct {
	set bool
	v   float64
}

func newGoalCache() *goalCache {
	return &goalCache{m: make(map[int64]goalValue)}
}

func (c *goalCache) get(userID int64) (goalValue, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	gv, ok := c.m[userID]
	return gv, ok
}

func (c *goalCache) put(userID int64, gv goalValue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[userID] = gv
}

func (c *goalCache) drop(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, userID)
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure from
// the engine (e.g. a duplicate username).
func isUniqueViolation(err error) bool {
	var se *sqlitedrv.Error
	if errors.As(err, &se) {
		code := se.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

func mapNullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func mapNullFloatPtr(nf sql.NullFloat64) *float64 {
	if nf.Valid {
		val := nf.Float64
		return &val
	}
	return nil
}
