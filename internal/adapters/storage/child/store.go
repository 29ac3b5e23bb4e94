package child

import (
	"context"

	domain "dojo/internal/domain/child"
)

// Store persists child profiles and their guardian links as separate rows.
type Store interface {
	CreateProfile(ctx context.Context, p domain.Profile) error
	DeleteProfile(ctx context.Context, id string) error
	GetProfile(ctx context.Context, id string) (domain.Profile, error)
	CreateLink(ctx context.Context, l domain.ParentLink) error
	ListByParent(ctx context.Context, parentID string) ([]domain.Profile, error)
}
