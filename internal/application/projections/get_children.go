package projections

import (
	"context"

	"dojo/internal/domain/child"
)

// ChildLister lists a guardian's children.
type ChildLister interface {
	ListByParent(ctx context.Context, parentID string) ([]child.Profile, error)
}

// ChildView is a child as shown to the guardian.
type ChildView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	BirthDate  string `json:"birthDate"`
	HealthInfo string `json:"healthInfo"`
}

// QueryChildren lists the caller's children.
// POST: Never nil
func QueryChildren(ctx context.Context, parentID string, store ChildLister) ([]ChildView, error) {
	kids, err := store.ListByParent(ctx, parentID)
	if err != nil {
		return nil, err
	}
	out := make([]ChildView, 0, len(kids))
	for _, k := range kids {
		out = append(out, ChildView{ID: k.ID, Name: k.FullName, BirthDate: k.BirthDate, HealthInfo: k.HealthInfo})
	}
	return out, nil
}
