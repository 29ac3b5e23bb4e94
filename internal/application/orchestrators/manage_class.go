package orchestrators

import (
	"context"
	"strings"
	"time"

	"dojo/internal/domain/audit"
	"dojo/internal/domain/gymclass"
)

// ClassStore persists the class roster.
type ClassStore interface {
	GetByID(ctx context.Context, id string) (gymclass.Class, error)
	Save(ctx context.Context, c gymclass.Class) error
	Delete(ctx context.Context, id string) error
}

// SaveClassInput carries a class create (empty ID) or update.
type SaveClassInput struct {
	ActorID    string
	ActorEmail string
	ID         string
	Name       string
	Coach      string
	Schedule   string
	Capacity   int
	Enrolled   int
}

// ClassDeps holds dependencies for the class roster orchestrators.
type ClassDeps struct {
	Classes    ClassStore
	Audit      AuditRecorder
	Now        func() time.Time
	GenerateID func() string
}

// ExecuteSaveClass creates or updates a class.
// POST: Returns storage.ErrNotFound (wrapped) when updating a missing class
func ExecuteSaveClass(ctx context.Context, input SaveClassInput, deps ClassDeps) (gymclass.Class, error) {
	now := clock(deps.Now)
	c := gymclass.Class{ID: input.ID, CreatedAt: now}
	if input.ID != "" {
		existing, err := deps.Classes.GetByID(ctx, input.ID)
		if err != nil {
			return gymclass.Class{}, err
		}
		c = existing
	} else {
		c.ID = newID(deps.GenerateID)
	}
	c.Name = strings.TrimSpace(input.Name)
	c.Coach = strings.TrimSpace(input.Coach)
	c.Schedule = strings.TrimSpace(input.Schedule)
	c.Capacity = input.Capacity
	c.Enrolled = input.Enrolled

	if err := c.Validate(); err != nil {
		return gymclass.Class{}, invalid("", err)
	}
	if err := deps.Classes.Save(ctx, c); err != nil {
		return gymclass.Class{}, err
	}
	recordAudit(ctx, deps.Audit, audit.NewEntry(input.ActorID, input.ActorEmail, audit.ActionManageClass, now).
		WithDescription("save "+c.Name))
	return c, nil
}

// ExecuteDeleteClass removes a class.
func ExecuteDeleteClass(ctx context.Context, actorID, actorEmail, id string, deps ClassDeps) error {
	if err := deps.Classes.Delete(ctx, id); err != nil {
		return err
	}
	recordAudit(ctx, deps.Audit, audit.NewEntry(actorID, actorEmail, audit.ActionManageClass, clock(deps.Now)).
		WithDescription("delete "+id))
	return nil
}
