package projections

import (
	"context"

	membershipStore "dojo/internal/adapters/storage/membership"
	"dojo/internal/domain/membership"
)

// PlanLister lists membership plans.
type PlanLister interface {
	List(ctx context.Context) ([]membership.Plan, error)
}

// AssignmentLister lists assignments.
type AssignmentLister interface {
	List(ctx context.Context, filter membershipStore.AssignmentFilter) ([]membership.Assignment, error)
}

// MembershipStatsDeps holds dependencies for MembershipStats.
type MembershipStatsDeps struct {
	Plans       PlanLister
	Assignments AssignmentLister
}

// QueryMembershipStats returns active counts and revenue per plan.
// POST: Plans with no assignments are listed with zero counts
func QueryMembershipStats(ctx context.Context, deps MembershipStatsDeps) ([]membership.PlanStats, error) {
	plans, err := deps.Plans.List(ctx)
	if err != nil {
		return nil, err
	}
	assignments, err := deps.Assignments.List(ctx, membershipStore.AssignmentFilter{})
	if err != nil {
		return nil, err
	}
	return membership.Summarize(plans, assignments), nil
}
