package audit

import (
	"context"

	"dojo/internal/adapters/storage"
	domain "dojo/internal/domain/audit"
)

// SQLiteStore implements the audit Store interface using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new audit log store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save persists an audit entry.
func (s *SQLiteStore) Save(ctx context.Context, e domain.Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, created_at, user_id, user_email, action, description, level, source, message, stacktrace, context)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, storage.FormatTime(e.CreatedAt), e.UserID, e.UserEmail, e.Action, e.Description,
		string(e.Level), string(e.Source), e.Message, e.Stacktrace, e.Context)
	return err
}

// List returns audit entries with optional filtering.
// POST: Returns at most limit entries ordered by created_at desc
func (s *SQLiteStore) List(ctx context.Context, filter Filter, limit int) ([]domain.Entry, error) {
	query := `SELECT id, created_at, user_id, user_email, action, description, level, source, message, stacktrace, context FROM audit_log WHERE 1=1`
	args := []any{}

	if filter.Action != nil {
		query += " AND action = ?"
		args = append(args, *filter.Action)
	}
	if filter.Level != nil {
		query += " AND level = ?"
		args = append(args, string(*filter.Level))
	}
	if filter.Source != nil {
		query += " AND source = ?"
		args = append(args, string(*filter.Source))
	}
	if filter.UserID != nil {
		query += " AND user_id = ?"
		args = append(args, *filter.UserID)
	}

	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		var e domain.Entry
		var createdAt, level, source string
		if err := rows.Scan(&e.ID, &createdAt, &e.UserID, &e.UserEmail, &e.Action, &e.Description,
			&level, &source, &e.Message, &e.Stacktrace, &e.Context); err != nil {
			return nil, err
		}
		e.CreatedAt, _ = storage.ParseTime(createdAt)
		e.Level = domain.Level(level)
		e.Source = domain.Source(source)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
