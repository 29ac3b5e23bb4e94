package orchestrators

import (
	"context"
	"strings"
	"time"

	"dojo/internal/domain/audit"
	"dojo/internal/domain/membership"
)

// PlanStore persists membership plans.
type PlanStore interface {
	GetByID(ctx context.Context, id string) (membership.Plan, error)
	Save(ctx context.Context, p membership.Plan) error
	Delete(ctx context.Context, id string) error
}

// SavePlanInput carries a plan create (empty ID) or update.
type SavePlanInput struct {
	ActorID      string
	ActorEmail   string
	ID           string
	Type         string
	Price        float64
	Duration     string
	DurationDays int
}

// PlanDeps holds dependencies for the plan orchestrators.
type PlanDeps struct {
	Plans      PlanStore
	Audit      AuditRecorder
	Now        func() time.Time
	GenerateID func() string
}

// ExecuteSavePlan creates or updates a membership plan.
func ExecuteSavePlan(ctx context.Context, input SavePlanInput, deps PlanDeps) (membership.Plan, error) {
	now := clock(deps.Now)
	p := membership.Plan{ID: input.ID, CreatedAt: now}
	if input.ID != "" {
		existing, err := deps.Plans.GetByID(ctx, input.ID)
		if err != nil {
			return membership.Plan{}, err
		}
		p = existing
	} else {
		p.ID = newID(deps.GenerateID)
	}
	p.Type = strings.TrimSpace(input.Type)
	p.Price = input.Price
	p.Duration = strings.TrimSpace(input.Duration)
	p.DurationDays = input.DurationDays

	if err := p.Validate(); err != nil {
		return membership.Plan{}, invalid("", err)
	}
	if err := deps.Plans.Save(ctx, p); err != nil {
		return membership.Plan{}, err
	}
	recordAudit(ctx, deps.Audit, audit.NewEntry(input.ActorID, input.ActorEmail, audit.ActionManagePlan, now).
		WithDescription("save "+p.Type))
	return p, nil
}

// ExecuteDeletePlan removes a plan. Existing assignments keep their type.
func ExecuteDeletePlan(ctx context.Context, actorID, actorEmail, id string, deps PlanDeps) error {
	if err := deps.Plans.Delete(ctx, id); err != nil {
		return err
	}
	recordAudit(ctx, deps.Audit, audit.NewEntry(actorID, actorEmail, audit.ActionManagePlan, clock(deps.Now)).
		WithDescription("delete "+id))
	return nil
}
