package orchestrators

import (
	"context"
	"fmt"
	"time"

	"dojo/internal/domain/audit"
	"dojo/internal/domain/billing"
	"dojo/internal/domain/membership"
	"dojo/internal/domain/profile"
)

// PlanGetter reads a membership plan.
type PlanGetter interface {
	GetByID(ctx context.Context, id string) (membership.Plan, error)
}

// ProfileGetter reads a profile.
type ProfileGetter interface {
	GetByID(ctx context.Context, id string) (profile.Profile, error)
}

// AssignMembershipInput carries an admin's plan assignment.
type AssignMembershipInput struct {
	ActorID      string
	ActorEmail   string
	UserID       string
	MembershipID string
	StartDate    string // defaults to today in the gym's zone
	TotalPaid    float64
}

// AssignMembershipDeps holds dependencies for AssignMembership.
type AssignMembershipDeps struct {
	Plans       PlanGetter
	Profiles    ProfileGetter
	Assignments AssignmentSaver
	Audit       AuditRecorder
	Location    *time.Location
	Now         func() time.Time
	GenerateID  func() string
}

// ExecuteAssignMembership starts a plan for a member.
// PRE: Actor is an admin; user and plan exist
// POST: Active assignment stored with the plan's end date
func ExecuteAssignMembership(ctx context.Context, input AssignMembershipInput, deps AssignMembershipDeps) (membership.Assignment, error) {
	now := clock(deps.Now)
	member, err := deps.Profiles.GetByID(ctx, input.UserID)
	if err != nil {
		return membership.Assignment{}, err
	}
	plan, err := deps.Plans.GetByID(ctx, input.MembershipID)
	if err != nil {
		return membership.Assignment{}, err
	}

	start := input.StartDate
	if start == "" {
		start = billing.Today(now, deps.Location)
	}
	end, err := membership.EndFor(plan, start)
	if err != nil {
		return membership.Assignment{}, invalid("startDate", membership.ErrInvalidDate)
	}

	a := membership.Assignment{
		ID:           newID(deps.GenerateID),
		UserID:       member.ID,
		MembershipID: plan.ID,
		Type:         plan.Type,
		StartDate:    start,
		EndDate:      end,
		Active:       true,
		TotalPaid:    input.TotalPaid,
		CreatedAt:    now,
	}
	if err := a.Validate(); err != nil {
		return membership.Assignment{}, invalid("", err)
	}
	if err := deps.Assignments.Save(ctx, a); err != nil {
		return membership.Assignment{}, fmt.Errorf("save assignment: %w", err)
	}

	recordAudit(ctx, deps.Audit, audit.NewEntry(input.ActorID, input.ActorEmail, audit.ActionAssignPlan, now).
		WithDescription(fmt.Sprintf("%s → %s (%s to %s)", plan.Type, member.Email, start, end)))
	return a, nil
}
