package classlog

import (
	"context"

	"dojo/internal/adapters/storage"
	domain "dojo/internal/domain/classlog"
)

const selectColumns = "SELECT id, user_id, class_name, instructor, date, duration_minutes, notes, created_at FROM class_log"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new class log store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Log by its ID.
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Log, error) {
	l, err := scanLog(s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id).Scan)
	if err != nil {
		return domain.Log{}, storage.NotFound("class log", err)
	}
	return l, nil
}

// Save persists a Log (insert or update).
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, l domain.Log) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO class_log (id, user_id, class_name, instructor, date, duration_minutes, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id, class_name=excluded.class_name,
		 instructor=excluded.instructor, date=excluded.date, duration_minutes=excluded.duration_minutes, notes=excluded.notes`,
		l.ID, l.UserID, l.ClassName, l.Instructor, l.Date, l.DurationMinutes, l.Notes, storage.FormatTime(l.CreatedAt))
	return err
}

// Delete removes a Log.
// POST: Returns an error wrapping storage.ErrNotFound when nothing was deleted
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM class_log WHERE id = ?", id)
	if err != nil {
		return err
	}
	return storage.RequireAffected("class log", res)
}

// List returns logs newest first.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Log, error) {
	query := selectColumns
	var args []any
	if filter.UserID != "" {
		query += " WHERE user_id = ?"
		args = append(args, filter.UserID)
	}
	query += " ORDER BY date DESC, created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Log
	for rows.Next() {
		l, err := scanLog(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// CountFrom counts logs dated on or after fromDate.
func (s *SQLiteStore) CountFrom(ctx context.Context, fromDate string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM class_log WHERE date >= ?", fromDate).Scan(&n)
	return n, err
}

func scanLog(scan func(dest ...any) error) (domain.Log, error) {
	var l domain.Log
	var createdAt string
	if err := scan(&l.ID, &l.UserID, &l.ClassName, &l.Instructor, &l.Date, &l.DurationMinutes, &l.Notes, &createdAt); err != nil {
		return domain.Log{}, err
	}
	l.CreatedAt, _ = storage.ParseTime(createdAt)
	return l, nil
}
