package profile

import (
	"context"

	domain "dojo/internal/domain/profile"
)

// Store persists Profile state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (domain.Profile, error)
	Save(ctx context.Context, value domain.Profile) error
	Delete(ctx context.Context, id string) error
	UpdateAdminFields(ctx context.Context, id, studentNotes, beltLevel string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Profile, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
}

// ListFilter carries filtering parameters for List operations.
// Results are ordered by join date, newest first.
type ListFilter struct {
	Limit  int
	Offset int
	Role   string
	Search string // matched against name and email
}
