package account

import (
	"context"

	domain "dojo/internal/domain/account"
)

// Store persists Credential state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Credential, error)
	GetByEmail(ctx context.Context, email string) (domain.Credential, error)
	Save(ctx context.Context, value domain.Credential) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
