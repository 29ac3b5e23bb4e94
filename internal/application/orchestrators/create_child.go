package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"dojo/internal/domain/audit"
	"dojo/internal/domain/child"
)

// ChildStore persists child profiles and guardian links.
type ChildStore interface {
	CreateProfile(ctx context.Context, p child.Profile) error
	DeleteProfile(ctx context.Context, id string) error
	CreateLink(ctx context.Context, l child.ParentLink) error
}

// CreateChildInput carries a guardian's request to add a child.
type CreateChildInput struct {
	ParentID   string
	Email      string
	FullName   string
	BirthDate  string
	HealthInfo string
	Relation   string // defaults to parent
}

// CreateChildDeps holds dependencies for CreateChild.
type CreateChildDeps struct {
	Children   ChildStore
	Audit      AuditRecorder
	Now        func() time.Time
	GenerateID func() string
}

// ExecuteCreateChild creates a child profile linked to its guardian.
// PRE: ParentID is the authenticated user
// POST: Both rows exist, or neither does
// INVARIANT: No child profile without a parent link
func ExecuteCreateChild(ctx context.Context, input CreateChildInput, deps CreateChildDeps) (child.Profile, error) {
	now := clock(deps.Now)
	relation := input.Relation
	if relation == "" {
		relation = child.RelationParent
	}

	c := child.Profile{
		ID:         newID(deps.GenerateID),
		FullName:   strings.TrimSpace(input.FullName),
		BirthDate:  input.BirthDate,
		HealthInfo: input.HealthInfo,
		CreatedAt:  now,
	}
	if err := c.Validate(); err != nil {
		return child.Profile{}, invalid("", err)
	}
	link := child.ParentLink{
		ID:        newID(deps.GenerateID),
		ParentID:  input.ParentID,
		ChildID:   c.ID,
		Relation:  relation,
		CreatedAt: now,
	}
	if err := link.Validate(); err != nil {
		return child.Profile{}, invalid("relation", err)
	}

	if err := deps.Children.CreateProfile(ctx, c); err != nil {
		return child.Profile{}, fmt.Errorf("create child profile: %w", err)
	}
	if err := deps.Children.CreateLink(ctx, link); err != nil {
		if delErr := deps.Children.DeleteProfile(ctx, c.ID); delErr != nil {
			slog.Error("child_compensation_failed", "child_id", c.ID, "error", delErr)
		}
		return child.Profile{}, fmt.Errorf("link child to parent: %w", err)
	}

	recordAudit(ctx, deps.Audit, audit.NewEntry(input.ParentID, input.Email, audit.ActionCreateChild, now).
		WithDescription(c.FullName))
	return c, nil
}
