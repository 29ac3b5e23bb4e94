package traininglog

import (
	"context"

	domain "dojo/internal/domain/traininglog"
)

// Store persists training log entries. Entries are append-only, so there is
// no update or delete.
type Store interface {
	Append(ctx context.Context, e domain.Entry) error
	SumHours(ctx context.Context, userID, className string) (float64, error)
	CountSince(ctx context.Context, userID, sinceDate string) (int, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Entry, error)
	CountAll(ctx context.Context) (int, error)
}
