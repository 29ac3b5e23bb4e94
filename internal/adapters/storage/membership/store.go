package membership

import (
	"context"

	domain "dojo/internal/domain/membership"
)

// PlanStore persists membership plans.
type PlanStore interface {
	GetByID(ctx context.Context, id string) (domain.Plan, error)
	Save(ctx context.Context, value domain.Plan) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Plan, error)
}

// AssignmentStore persists user-to-plan assignments.
type AssignmentStore interface {
	Save(ctx context.Context, value domain.Assignment) error
	List(ctx context.Context, filter AssignmentFilter) ([]domain.Assignment, error)
	Count(ctx context.Context, filter AssignmentFilter) (int, error)
}

// AssignmentFilter narrows assignment queries. End-date bounds are inclusive
// civil dates; empty bounds are ignored.
type AssignmentFilter struct {
	UserID       string
	ActiveOnly   bool
	EndFrom      string
	EndTo        string
	EndBefore    string // strictly before
	HasEndDate   bool
	MembershipID string
}

// AssignmentView joins an assignment with the member it belongs to.
type AssignmentView struct {
	domain.Assignment
	FullName string
	Email    string
	PlanType string
}

// AssignmentViewStore lists assignments together with member details.
type AssignmentViewStore interface {
	ListWithMembers(ctx context.Context, filter AssignmentFilter) ([]AssignmentView, error)
}
