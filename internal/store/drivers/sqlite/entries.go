package sqlite

import (
	"context"
	"fmt"

	"github.com/peakscale/weightlog/internal/domain"
)

type entriesRepo struct {
	db dbtx
}

func (r *entriesRepo) Create(ctx context.Context, e domain.WeightEntry) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO entries (user_id, date, weight) VALUES (?, ?, ?)`,
		e.UserID, e.DateString(), e.Weight,
	)
	if err != nil {
		return 0, fmt.Errorf("create entry: %w", err)
	}
	return res.LastInsertId()
}

func (r *entriesRepo) ListByUser(ctx context.Context, userID int64) ([]domain.WeightEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, date, weight FROM entries WHERE user_id = ? ORDER BY date DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.WeightEntry{}
	for rows.Next() {
		var (
			e    domain.WeightEntry
			date string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &date, &e.Weight); err != nil {
			return nil, err
		}
		e.Date, err = domain.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *entriesRepo) Delete(ctx context.Context, entryID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, entryID)
	if err != nil {
		return 0, fmt.Errorf("delete entry: %w", err)
	}
	return res.RowsAffected()
}
