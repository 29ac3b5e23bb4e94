package orchestrators

import (
	"context"
	"strings"
	"time"

	"dojo/internal/domain/audit"
	"dojo/internal/domain/classlog"
)

// ClassLogStore persists admin-recorded class sessions.
type ClassLogStore interface {
	GetByID(ctx context.Context, id string) (classlog.Log, error)
	Save(ctx context.Context, l classlog.Log) error
	Delete(ctx context.Context, id string) error
}

// SaveClassLogInput carries a class log create (empty ID) or update.
type SaveClassLogInput struct {
	ActorID         string
	ActorEmail      string
	ID              string
	UserID          string
	ClassName       string
	Instructor      string
	Date            string
	DurationMinutes int
	Notes           string
}

// ClassLogDeps holds dependencies for the class log orchestrators.
type ClassLogDeps struct {
	Logs       ClassLogStore
	Profiles   ProfileGetter
	Audit      AuditRecorder
	Now        func() time.Time
	GenerateID func() string
}

// ExecuteSaveClassLog records or corrects a class session for a member.
// PRE: Actor is an admin; the member exists
func ExecuteSaveClassLog(ctx context.Context, input SaveClassLogInput, deps ClassLogDeps) (classlog.Log, error) {
	now := clock(deps.Now)
	l := classlog.Log{ID: input.ID, CreatedAt: now}
	if input.ID != "" {
		existing, err := deps.Logs.GetByID(ctx, input.ID)
		if err != nil {
			return classlog.Log{}, err
		}
		l = existing
	} else {
		l.ID = newID(deps.GenerateID)
	}
	if _, err := deps.Profiles.GetByID(ctx, input.UserID); err != nil {
		return classlog.Log{}, err
	}
	l.UserID = input.UserID
	l.ClassName = strings.TrimSpace(input.ClassName)
	l.Instructor = strings.TrimSpace(input.Instructor)
	l.Date = input.Date
	l.DurationMinutes = input.DurationMinutes
	l.Notes = input.Notes

	if err := l.Validate(); err != nil {
		return classlog.Log{}, invalid("", err)
	}
	if err := deps.Logs.Save(ctx, l); err != nil {
		return classlog.Log{}, err
	}
	recordAudit(ctx, deps.Audit, audit.NewEntry(input.ActorID, input.ActorEmail, audit.ActionManageClassLog, now).
		WithDescription(l.ClassName+" "+l.Date))
	return l, nil
}

// ExecuteDeleteClassLog removes a class log.
func ExecuteDeleteClassLog(ctx context.Context, actorID, actorEmail, id string, deps ClassLogDeps) error {
	if err := deps.Logs.Delete(ctx, id); err != nil {
		return err
	}
	recordAudit(ctx, deps.Audit, audit.NewEntry(actorID, actorEmail, audit.ActionManageClassLog, clock(deps.Now)).
		WithDescription("delete "+id))
	return nil
}
