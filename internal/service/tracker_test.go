package service

import (
	"context"
	"testing"

	"github.com/peakscale/weightlog/internal/prefs"
	"github.com/peakscale/weightlog/internal/store"
	"github.com/stretchr/testify/require"
)

// recordingNotifier captures deliveries instead of sending them.
type recordingNotifier struct {
	deliveries []delivery
}

type delivery struct {
	destination string
	message     string
}

func (n *recordingNotifier) Deliver(ctx context.Context, destination, message string) error {
	n.deliveries = append(n.deliveries, delivery{destination, message})
	return nil
}

func newTracker(t *testing.T) (*TrackerService, *recordingNotifier, store.Store) {
	t.Helper()
	st := newTestStore(t)
	n := &recordingNotifier{}
	return &TrackerService{
		Store:    st,
		Flags:    prefs.NewMemory(),
		Notifier: n,
	}, n, st
}

func registerUser(t *testing.T, st store.Store) int64 {
	t.Helper()
	svc := &AuthService{Store: st}
	u, err := svc.Register(context.Background(), "alice", "hunter2")
	require.NoError(t, err)
	return u.ID
}

func TestAddEntryValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, st := newTracker(t)
	userID := registerUser(t, st)

	_, err := svc.AddEntry(ctx, userID, "01/02/2024", 180)
	require.Error(t, err)

	_, err = svc.AddEntry(ctx, userID, "2024-01-02", -5)
	require.Error(t, err)

	entries, err := svc.Entries(ctx, userID)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestEntryLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _, st := newTracker(t)
	userID := registerUser(t, st)

	e, err := svc.AddEntry(ctx, userID, "2024-01-02", 188)
	require.NoError(t, err)
	require.Positive(t, e.ID)

	_, err = svc.AddEntry(ctx, userID, "2024-02-02", 184)
	require.NoError(t, err)

	entries, err := svc.Entries(ctx, userID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "2024-02-02", entries[0].DateString())

	deleted, err := svc.DeleteEntry(ctx, e.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = svc.DeleteEntry(ctx, e.ID)
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestGoalWeight(t *testing.T) {
	ctx := context.Background()
	svc, _, st := newTracker(t)
	userID := registerUser(t, st)

	goal, err := svc.GoalWeight(ctx, userID)
	require.NoError(t, err)
	require.Nil(t, goal)

	require.ErrorIs(t, svc.SetGoalWeight(ctx, userID, 0), ErrInvalidGoal)
	require.ErrorIs(t, svc.SetGoalWeight(ctx, userID, -10), ErrInvalidGoal)

	require.NoError(t, svc.SetGoalWeight(ctx, userID, 150))
	goal, err = svc.GoalWeight(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, goal)
	require.Equal(t, 150.0, *goal)
}

func TestGoalNotification(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*TrackerService, *recordingNotifier, int64) {
		svc, n, st := newTracker(t)
		userID := registerUser(t, st)
		require.NoError(t, svc.SetGoalWeight(ctx, userID, 150))
		return svc, n, userID
	}

	t.Run("delivered when opted in with phone on file", func(t *testing.T) {
		svc, n, userID := setup(t)
		require.NoError(t, svc.SetPhoneNumber(ctx, userID, "555-0100"))
		require.NoError(t, svc.SetSMSOptIn(userID, true))

		_, err := svc.AddEntry(ctx, userID, "2024-03-01", 149.5)
		require.NoError(t, err)

		require.Len(t, n.deliveries, 1)
		require.Equal(t, "555-0100", n.deliveries[0].destination)
		require.Contains(t, n.deliveries[0].message, "150")
	})

	t.Run("not delivered above goal", func(t *testing.T) {
		svc, n, userID := setup(t)
		require.NoError(t, svc.SetPhoneNumber(ctx, userID, "555-0100"))
		require.NoError(t, svc.SetSMSOptIn(userID, true))

		_, err := svc.AddEntry(ctx, userID, "2024-03-01", 160)
		require.NoError(t, err)
		require.Empty(t, n.deliveries)
	})

	t.Run("not delivered without opt-in", func(t *testing.T) {
		svc, n, userID := setup(t)
		require.NoError(t, svc.SetPhoneNumber(ctx, userID, "555-0100"))

		_, err := svc.AddEntry(ctx, userID, "2024-03-01", 149)
		require.NoError(t, err)
		require.Empty(t, n.deliveries)
	})

	t.Run("not delivered without a phone number", func(t *testing.T) {
		svc, n, userID := setup(t)
		require.NoError(t, svc.SetSMSOptIn(userID, true))

		_, err := svc.AddEntry(ctx, userID, "2024-03-01", 149)
		require.NoError(t, err)
		require.Empty(t, n.deliveries)
	})

	t.Run("not delivered without a goal", func(t *testing.T) {
		svc, n, st := newTracker(t)
		userID := registerUser(t, st)
		require.NoError(t, svc.SetPhoneNumber(ctx, userID, "555-0100"))
		require.NoError(t, svc.SetSMSOptIn(userID, true))

		_, err := svc.AddEntry(ctx, userID, "2024-03-01", 149)
		require.NoError(t, err)
		require.Empty(t, n.deliveries)
	})
}

func TestPhoneNumber(t *testing.T) {
	ctx := context.Background()
	svc, _, st := newTracker(t)
	userID := registerUser(t, st)

	phone, err := svc.PhoneNumber(ctx, userID)
	require.NoError(t, err)
	require.Empty(t, phone)

	require.NoError(t, svc.SetPhoneNumber(ctx, userID, "555-0100"))
	phone, err = svc.PhoneNumber(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, "555-0100", phone)
}
