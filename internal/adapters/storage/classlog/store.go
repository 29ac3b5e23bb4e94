package classlog

import (
	"context"

	domain "dojo/internal/domain/classlog"
)

// Store persists admin-recorded class logs.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Log, error)
	Save(ctx context.Context, value domain.Log) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Log, error)
	CountFrom(ctx context.Context, fromDate string) (int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	UserID string
	Limit  int
}
