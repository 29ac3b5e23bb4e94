package traininglog

import (
	"context"

	"dojo/internal/adapters/storage"
	domain "dojo/internal/domain/traininglog"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new training log store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Append inserts a new entry.
// PRE: e has been validated
// POST: Entry is persisted; existing entries are untouched
func (s *SQLiteStore) Append(ctx context.Context, e domain.Entry) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO hours_log (id, user_id, class_name, date, hours, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		e.ID, e.UserID, e.ClassName, e.Date, e.Hours, storage.FormatTime(e.CreatedAt))
	return err
}

// SumHours totals every entry the user logged for a class.
func (s *SQLiteStore) SumHours(ctx context.Context, userID, className string) (float64, error) {
	var total float64
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(hours), 0) FROM hours_log WHERE user_id = ? AND class_name = ?",
		userID, className).Scan(&total)
	return total, err
}

// CountSince counts the user's entries dated on or after sinceDate.
func (s *SQLiteStore) CountSince(ctx context.Context, userID, sinceDate string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM hours_log WHERE user_id = ? AND date >= ?",
		userID, sinceDate).Scan(&n)
	return n, err
}

// ListByUser returns the user's most recent entries.
func (s *SQLiteStore) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, class_name, date, hours, created_at FROM hours_log WHERE user_id = ? ORDER BY date DESC, created_at DESC LIMIT ?",
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Entry
	for rows.Next() {
		var e domain.Entry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.UserID, &e.ClassName, &e.Date, &e.Hours, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt, _ = storage.ParseTime(createdAt)
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountAll returns the total number of logged entries.
func (s *SQLiteStore) CountAll(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM hours_log").Scan(&n)
	return n, err
}
