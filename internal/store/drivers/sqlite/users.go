package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/peakscale/weightlog/internal/domain"
	"github.com/peakscale/weightlog/internal/store"
)

// usersRepo runs against either the root store or a transaction. goals is
// nil inside a transaction: the cache is only touched by the root store's
// write path, so a rolled-back transaction can never leave a stale value
// behind.
type usersRepo struct {
	db    dbtx
	goals *goalCache
}

func (r *usersRepo) Create(ctx context.Context, username, credentialHash string, credentialSalt []byte) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, credential_hash, credential_salt, phone_number, goal_weight)
		 VALUES (?, ?, ?, '', NULL)`,
		username, credentialHash, credentialSalt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, store.ErrAlreadyExists
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	return res.LastInsertId()
}

func (r *usersRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, username, credential_hash, credential_salt, phone_number, goal_weight
		 FROM users WHERE username = ?`,
		username,
	)
	return scanUser(row)
}

func (r *usersRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, username, credential_hash, credential_salt, phone_number, goal_weight
		 FROM users WHERE id = ?`,
		id,
	)
	return scanUser(row)
}

// UpdateGoalWeight is write-through: after the row is updated, the cache is
// unconditionally overwritten so a read that follows the write always sees
// the new value.
func (r *usersRepo) UpdateGoalWeight(ctx context.Context, userID int64, goal float64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET goal_weight = ? WHERE id = ?`, goal, userID,
	)
	if err != nil {
		return fmt.Errorf("update goal weight: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	if r.goals != nil {
		r.goals.put(userID, goalValue{set: true, v: goal})
	}
	return nil
}

// GoalWeight is read-through: the cache answers after the first lookup, a
// miss falls back to the store and populates it. nil means no goal is set.
func (r *usersRepo) GoalWeight(ctx context.Context, userID int64) (*float64, error) {
	if r.goals != nil {
		if gv, ok := r.goals.get(userID); ok {
			if !gv.set {
				return nil, nil
			}
			v := gv.v
			return &v, nil
		}
	}

	var nf sql.NullFloat64
	err := r.db.QueryRowContext(ctx,
		`SELECT goal_weight FROM users WHERE id = ?`, userID,
	).Scan(&nf)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if r.goals != nil {
		r.goals.put(userID, goalValue{set: nf.Valid, v: nf.Float64})
	}
	return mapNullFloatPtr(nf), nil
}

func (r *usersRepo) UpdatePhoneNumber(ctx context.Context, userID int64, phoneNumber string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET phone_number = ? WHERE id = ?`, phoneNumber, userID,
	)
	if err != nil {
		return fmt.Errorf("update phone number: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) PhoneNumber(ctx context.Context, userID int64) (string, error) {
	var ns sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT phone_number FROM users WHERE id = ?`, userID,
	).Scan(&ns)
	if err != nil {
		return "", mapNotFound(err)
	}
	return mapNullString(ns), nil
}

// Delete removes the user; the schema's ON DELETE CASCADE removes the
// owned entries in the same statement.
func (r *usersRepo) Delete(ctx context.Context, userID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	if r.goals != nil {
		r.goals.drop(userID)
	}
	return nil
}

func (r *usersRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u     domain.User
		phone sql.NullString
		goal  sql.NullFloat64
	)
	err := row.Scan(&u.ID, &u.Username, &u.CredentialHash, &u.CredentialSalt, &phone, &goal)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.PhoneNumber = mapNullString(phone)
	u.GoalWeight = mapNullFloatPtr(goal)
	return u, nil
}
