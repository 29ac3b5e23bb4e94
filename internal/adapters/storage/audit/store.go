package audit

import (
	"context"

	domain "dojo/internal/domain/audit"
)

// Store defines the interface for audit log persistence.
type Store interface {
	// Save persists an entry.
	// PRE: entry has an ID and action
	// POST: Entry is persisted
	Save(ctx context.Context, entry domain.Entry) error

	// List returns entries matching filter, newest first.
	// PRE: limit > 0
	List(ctx context.Context, filter Filter, limit int) ([]domain.Entry, error)
}

// Filter narrows a List call. Nil fields are ignored.
type Filter struct {
	Action *string
	Level  *domain.Level
	Source *domain.Source
	UserID *string
}

var _ Store = (*SQLiteStore)(nil)
