package gymclass

import (
	"context"

	domain "dojo/internal/domain/gymclass"
)

// Store persists the class roster.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Class, error)
	Save(ctx context.Context, value domain.Class) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Class, error)
	Count(ctx context.Context) (int, error)
}
