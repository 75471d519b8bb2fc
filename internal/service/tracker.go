package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/peakscale/weightlog/internal/domain"
	"github.com/peakscale/weightlog/internal/notify"
	"github.com/peakscale/weightlog/internal/prefs"
	"github.com/peakscale/weightlog/internal/store"
	"github.com/peakscale/weightlog/pkg/slogx"
)

// ErrInvalidGoal reports a non-positive goal weight before any store work.
var ErrInvalidGoal = errors.New("goal weight must be positive")

// TrackerService owns the weight-history workflows: recording and deleting
// entries, the goal weight, the phone number, and the goal-achievement
// notification.
type TrackerService struct {
	Store    store.Store
	Flags    prefs.Flags
	Notifier notify.Notifier
}

// AddEntry validates and persists a new measurement, then checks whether it
// reached the user's goal. Notification problems are logged, never returned:
// a failed SMS must not fail the insert that already happened.
func (s *TrackerService) AddEntry(ctx context.Context, userID int64, date string, weight float64) (domain.WeightEntry, error) {
	e, err := domain.NewWeightEntry(userID, date, weight)
	if err != nil {
		return domain.WeightEntry{}, err
	}

	id, err := s.Store.Entries().Create(ctx, e)
	if err != nil {
		return domain.WeightEntry{}, err
	}
	e.ID = id

	s.checkGoalReached(ctx, userID, weight)

	return e, nil
}

// Entries returns the user's full history, most recent first.
func (s *TrackerService) Entries(ctx context.Context, userID int64) ([]domain.WeightEntry, error) {
	return s.Store.Entries().ListByUser(ctx, userID)
}

// DeleteEntry removes one entry by id. Returns false when no such entry
// exists, which callers treat as a stale view rather than a failure.
func (s *TrackerService) DeleteEntry(ctx context.Context, entryID int64) (bool, error) {
	n, err := s.Store.Entries().Delete(ctx, entryID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetGoalWeight validates and writes the user's target.
func (s *TrackerService) SetGoalWeight(ctx context.Context, userID int64, goal float64) error {
	if goal <= 0 {
		return ErrInvalidGoal
	}
	return s.Store.Users().UpdateGoalWeight(ctx, userID, goal)
}

// GoalWeight returns the user's target, nil when none is set.
func (s *TrackerService) GoalWeight(ctx context.Context, userID int64) (*float64, error) {
	return s.Store.Users().GoalWeight(ctx, userID)
}

// SetPhoneNumber stores the SMS destination; "" clears it.
func (s *TrackerService) SetPhoneNumber(ctx context.Context, userID int64, phoneNumber string) error {
	return s.Store.Users().UpdatePhoneNumber(ctx, userID, phoneNumber)
}

// PhoneNumber reads the stored SMS destination.
func (s *TrackerService) PhoneNumber(ctx context.Context, userID int64) (string, error) {
	return s.Store.Users().PhoneNumber(ctx, userID)
}

// SetSMSOptIn records whether the user wants goal notifications.
func (s *TrackerService) SetSMSOptIn(userID int64, optIn bool) error {
	return s.Flags.SetFlag(prefs.SMSOptInKey(userID), optIn)
}

// SMSOptIn reads the user's notification preference.
func (s *TrackerService) SMSOptIn(userID int64) (bool, error) {
	return s.Flags.Flag(prefs.SMSOptInKey(userID))
}

// checkGoalReached delivers a congratulation when the new weight is at or
// below the goal, the user opted in, and a phone number is on file.
func (s *TrackerService) checkGoalReached(ctx context.Context, userID int64, weight float64) {
	logger := slogx.FromContext(ctx)

	goal, err := s.Store.Users().GoalWeight(ctx, userID)
	if err != nil {
		logger.Error("goal check failed", "user_id", userID, "error", err)
		return
	}
	if goal == nil || weight > *goal {
		return
	}

	optIn, err := s.SMSOptIn(userID)
	if err != nil {
		logger.Error("opt-in lookup failed", "user_id", userID, "error", err)
		return
	}
	if !optIn {
		return
	}

	phone, err := s.Store.Users().PhoneNumber(ctx, userID)
	if err != nil || phone == "" {
		logger.Warn("goal reached but no phone number on file", "user_id", userID)
		return
	}

	msg := fmt.Sprintf("Congratulations! You reached your goal weight of %.1f.", *goal)
	if err := s.Notifier.Deliver(ctx, phone, msg); err != nil {
		logger.Error("goal notification failed", "user_id", userID, "error", err)
		return
	}
	logger.Info("goal notification sent", "user_id", userID)
}
