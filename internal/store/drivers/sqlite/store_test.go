package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/peakscale/weightlog/internal/domain"
	"github.com/peakscale/weightlog/internal/store"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

func mustEntry(t *testing.T, userID int64, date string, weight float64) domain.WeightEntry {
	t.Helper()
	e, err := domain.NewWeightEntry(userID, date, weight)
	require.NoError(t, err)
	return e
}

func TestUsersCreateAndLookup(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	salt := []byte("0123456789abcdef")
	id, err := s.Users().Create(ctx, "alice", "hash-a", salt)
	require.NoError(t, err)
	require.Positive(t, id)

	u, err := s.Users().GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, id, u.ID)
	require.Equal(t, "alice", u.Username)
	require.Equal(t, "hash-a", u.CredentialHash)
	require.Equal(t, salt, u.CredentialSalt)
	require.Empty(t, u.PhoneNumber)
	require.Nil(t, u.GoalWeight)

	byID, err := s.Users().GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, u, byID)

	_, err = s.Users().GetByUsername(ctx, "nobody")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsersDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Users().Create(ctx, "alice", "hash-a", []byte("salt-one........"))
	require.NoError(t, err)

	_, err = s.Users().Create(ctx, "alice", "hash-b", []byte("salt-two........"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	n, err := s.Users().Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestGoalWeightCache(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.Users().Create(ctx, "alice", "hash", []byte("salt"))
	require.NoError(t, err)

	t.Run("unset goal reads as nil", func(t *testing.T) {
		goal, err := s.Users().GoalWeight(ctx, id)
		require.NoError(t, err)
		require.Nil(t, goal)
	})

	t.Run("update is write-through", func(t *testing.T) {
		require.NoError(t, s.Users().UpdateGoalWeight(ctx, id, 150))

		goal, err := s.Users().GoalWeight(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, goal)
		require.Equal(t, 150.0, *goal)
	})

	t.Run("reads are served from the cache", func(t *testing.T) {
		// Change the row underneath the store; the cached value must win
		// until the next write through the store overwrites it.
		_, err := s.db.ExecContext(ctx, `UPDATE users SET goal_weight = 120 WHERE id = ?`, id)
		require.NoError(t, err)

		goal, err := s.Users().GoalWeight(ctx, id)
		require.NoError(t, err)
		require.Equal(t, 150.0, *goal)

		require.NoError(t, s.Users().UpdateGoalWeight(ctx, id, 140))
		goal, err = s.Users().GoalWeight(ctx, id)
		require.NoError(t, err)
		require.Equal(t, 140.0, *goal)
	})

	t.Run("missing user is not found", func(t *testing.T) {
		_, err := s.Users().GoalWeight(ctx, 9999)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("non-positive goal violates the check constraint", func(t *testing.T) {
		err := s.Users().UpdateGoalWeight(ctx, id, -1)
		require.Error(t, err)
		require.NotErrorIs(t, err, store.ErrNotFound)
	})
}

func TestPhoneNumberPassthrough(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.Users().Create(ctx, "alice", "hash", []byte("salt"))
	require.NoError(t, err)

	phone, err := s.Users().PhoneNumber(ctx, id)
	require.NoError(t, err)
	require.Empty(t, phone)

	require.NoError(t, s.Users().UpdatePhoneNumber(ctx, id, "555-0100"))
	phone, err = s.Users().PhoneNumber(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "555-0100", phone)

	require.ErrorIs(t, s.Users().UpdatePhoneNumber(ctx, 9999, "555"), store.ErrNotFound)
}

func TestEntriesCRUD(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.Users().Create(ctx, "alice", "hash", []byte("salt"))
	require.NoError(t, err)

	t.Run("empty history is an empty slice", func(t *testing.T) {
		entries, err := s.Entries().ListByUser(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, entries)
		require.Empty(t, entries)
	})

	t.Run("list is date-descending", func(t *testing.T) {
		for _, e := range []struct {
			date   string
			weight float64
		}{
			{"2024-01-01", 190},
			{"2024-03-01", 182},
			{"2024-02-01", 186},
		} {
			_, err := s.Entries().Create(ctx, mustEntry(t, id, e.date, e.weight))
			require.NoError(t, err)
		}

		entries, err := s.Entries().ListByUser(ctx, id)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		require.Equal(t, "2024-03-01", entries[0].DateString())
		require.Equal(t, "2024-02-01", entries[1].DateString())
		require.Equal(t, "2024-01-01", entries[2].DateString())
	})

	t.Run("delete by id", func(t *testing.T) {
		entries, err := s.Entries().ListByUser(ctx, id)
		require.NoError(t, err)

		n, err := s.Entries().Delete(ctx, entries[0].ID)
		require.NoError(t, err)
		require.EqualValues(t, 1, n)

		remaining, err := s.Entries().ListByUser(ctx, id)
		require.NoError(t, err)
		require.Len(t, remaining, 2)
	})

	t.Run("deleting a missing entry affects zero rows", func(t *testing.T) {
		n, err := s.Entries().Delete(ctx, 9999)
		require.NoError(t, err)
		require.Zero(t, n)
	})
}

func TestEntryConstraints(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.Users().Create(ctx, "alice", "hash", []byte("salt"))
	require.NoError(t, err)

	t.Run("non-positive weight creates no row", func(t *testing.T) {
		// Bypass domain validation to prove the engine enforces it too.
		for _, w := range []float64{0, -5} {
			_, err := s.Entries().Create(ctx, domain.WeightEntry{
				UserID: id,
				Date:   mustEntry(t, id, "2024-01-01", 1).Date,
				Weight: w,
			})
			require.Error(t, err)
		}

		entries, err := s.Entries().ListByUser(ctx, id)
		require.NoError(t, err)
		require.Empty(t, entries)
	})

	t.Run("entry for a missing user is rejected", func(t *testing.T) {
		_, err := s.Entries().Create(ctx, mustEntry(t, 9999, "2024-01-01", 180))
		require.Error(t, err)
	})
}

func TestDeleteUserCascades(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.Users().Create(ctx, "alice", "hash", []byte("salt"))
	require.NoError(t, err)
	_, err = s.Entries().Create(ctx, mustEntry(t, id, "2024-01-01", 190))
	require.NoError(t, err)
	_, err = s.Entries().Create(ctx, mustEntry(t, id, "2024-02-01", 188))
	require.NoError(t, err)

	require.NoError(t, s.Users().Delete(ctx, id))

	entries, err := s.Entries().ListByUser(ctx, id)
	require.NoError(t, err)
	require.Empty(t, entries)

	var n int64
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n))
	require.Zero(t, n)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().Create(ctx, "alice", "hash", []byte("salt")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	n, err := s.Users().Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	// And the commit path works.
	err = s.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().Create(ctx, "alice", "hash", []byte("salt"))
		return err
	})
	require.NoError(t, err)

	n, err = s.Users().Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}
