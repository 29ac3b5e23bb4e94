package gymclass

import (
	"context"

	"dojo/internal/adapters/storage"
	domain "dojo/internal/domain/gymclass"
)

const selectColumns = "SELECT id, name, coach, schedule, capacity, enrolled, created_at FROM gym_class"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new class store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Class by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Class, error) {
	c, err := scanClass(s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id).Scan)
	if err != nil {
		return domain.Class{}, storage.NotFound("class", err)
	}
	return c, nil
}

// Save persists a Class (insert or update).
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, c domain.Class) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO gym_class (id, name, coach, schedule, capacity, enrolled, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name=excluded.name, coach=excluded.coach, schedule=excluded.schedule,
		 capacity=excluded.capacity, enrolled=excluded.enrolled`,
		c.ID, c.Name, c.Coach, c.Schedule, c.Capacity, c.Enrolled, storage.FormatTime(c.CreatedAt))
	return err
}

// Delete removes a Class.
// POST: Returns an error wrapping storage.ErrNotFound when nothing was deleted
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM gym_class WHERE id = ?", id)
	if err != nil {
		return err
	}
	return storage.RequireAffected("class", res)
}

// List returns the roster, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Class, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Class
	for rows.Next() {
		c, err := scanClass(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Count returns the number of classes on the roster.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM gym_class").Scan(&n)
	return n, err
}

func scanClass(scan func(dest ...any) error) (domain.Class, error) {
	var c domain.Class
	var createdAt string
	if err := scan(&c.ID, &c.Name, &c.Coach, &c.Schedule, &c.Capacity, &c.Enrolled, &createdAt); err != nil {
		return domain.Class{}, err
	}
	c.CreatedAt, _ = storage.ParseTime(createdAt)
	return c, nil
}
