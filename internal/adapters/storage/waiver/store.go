package waiver

import (
	"context"

	domain "dojo/internal/domain/waiver"
)

// Store persists Waiver state.
type Store interface {
	GetActiveByUser(ctx context.Context, userID string) (domain.Waiver, error)
	Create(ctx context.Context, value domain.Waiver) error
	Revoke(ctx context.Context, id string) error
}
