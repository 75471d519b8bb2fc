package domain

import (
	"fmt"
	"time"
)

// DateLayout is the canonical textual form for entry dates. Entries carry a
// calendar date only; no time-of-day component is stored.
const DateLayout = "2006-01-02"

// WeightEntry is one dated measurement owned by exactly one user.
type WeightEntry struct {
	ID     int64
	UserID int64
	Date   time.Time // midnight UTC, date precision only
	Weight float64   // strictly positive
}

// NewWeightEntry validates and builds an entry that has not been persisted
// yet (ID is zero until the store assigns one). Malformed dates and
// non-positive weights are construction-time errors, never silently
// defaulted.
func NewWeightEntry(userID int64, date string, weight float64) (WeightEntry, error) {
	d, err := ParseDate(date)
	if err != nil {
		return WeightEntry{}, err
	}
	if weight <= 0 {
		return WeightEntry{}, fmt.Errorf("weight must be positive, got %v", weight)
	}
	return WeightEntry{UserID: userID, Date: d, Weight: weight}, nil
}

// ParseDate parses a yyyy-MM-dd date string.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected %s: %w", s, DateLayout, err)
	}
	return d, nil
}

// DateString formats the entry date back into its canonical textual form.
func (e WeightEntry) DateString() string {
	return e.Date.Format(DateLayout)
}
