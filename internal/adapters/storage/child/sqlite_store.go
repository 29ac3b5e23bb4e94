package child

import (
	"context"

	"dojo/internal/adapters/storage"
	domain "dojo/internal/domain/child"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new child profile store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// CreateProfile inserts a child profile.
// PRE: p has been validated
func (s *SQLiteStore) CreateProfile(ctx context.Context, p domain.Profile) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO child_profile (id, full_name, birth_date, health_info, created_at) VALUES (?, ?, ?, ?, ?)",
		p.ID, p.FullName, p.BirthDate, p.HealthInfo, storage.FormatTime(p.CreatedAt))
	return err
}

// DeleteProfile removes a child profile and, by cascade, its links.
func (s *SQLiteStore) DeleteProfile(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM child_profile WHERE id = ?", id)
	return err
}

// GetProfile retrieves a child profile by ID.
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetProfile(ctx context.Context, id string) (domain.Profile, error) {
	var p domain.Profile
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, full_name, birth_date, health_info, created_at FROM child_profile WHERE id = ?", id).
		Scan(&p.ID, &p.FullName, &p.BirthDate, &p.HealthInfo, &createdAt)
	if err != nil {
		return domain.Profile{}, storage.NotFound("child profile", err)
	}
	p.CreatedAt, _ = storage.ParseTime(createdAt)
	return p, nil
}

// CreateLink inserts a guardian link.
// PRE: l has been validated; both ends exist
func (s *SQLiteStore) CreateLink(ctx context.Context, l domain.ParentLink) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO parent_link (id, parent_id, child_id, relation, created_at) VALUES (?, ?, ?, ?, ?)",
		l.ID, l.ParentID, l.ChildID, l.Relation, storage.FormatTime(l.CreatedAt))
	return err
}

// ListByParent returns the children linked to a guardian, by name.
func (s *SQLiteStore) ListByParent(ctx context.Context, parentID string) ([]domain.Profile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.full_name, c.birth_date, c.health_info, c.created_at
		 FROM child_profile c JOIN parent_link l ON l.child_id = c.id
		 WHERE l.parent_id = ? ORDER BY c.full_name`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Profile
	for rows.Next() {
		var p domain.Profile
		var createdAt string
		if err := rows.Scan(&p.ID, &p.FullName, &p.BirthDate, &p.HealthInfo, &createdAt); err != nil {
			return nil, err
		}
		p.CreatedAt, _ = storage.ParseTime(createdAt)
		out = append(out, p)
	}
	return out, rows.Err()
}
