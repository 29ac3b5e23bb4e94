package orchestrators

import (
	"context"
	"fmt"
	"time"

	"dojo/internal/domain/audit"
	"dojo/internal/domain/profile"
)

// AdminFieldsUpdater writes the coach-managed profile fields.
type AdminFieldsUpdater interface {
	UpdateAdminFields(ctx context.Context, id, studentNotes, beltLevel string) error
}

// AdminUpdateUserInput carries notes and belt changes for one student.
type AdminUpdateUserInput struct {
	ActorID      string
	ActorEmail   string
	UserID       string
	StudentNotes string
	BeltLevel    string
}

// AdminUpdateUserDeps holds dependencies for AdminUpdateUser.
type AdminUpdateUserDeps struct {
	Profiles AdminFieldsUpdater
	Audit    AuditRecorder
	Now      func() time.Time
}

// ExecuteAdminUpdateUser sets a student's notes and belt level.
// PRE: Actor is an admin
// POST: Only student_notes and belt_level change
func ExecuteAdminUpdateUser(ctx context.Context, input AdminUpdateUserInput, deps AdminUpdateUserDeps) error {
	if err := profile.ValidateBelt(input.BeltLevel); err != nil {
		return invalid("belt_level", err)
	}
	if len(input.StudentNotes) > profile.MaxNotesLength {
		return invalid("student_notes", profile.ErrNotesTooLong)
	}
	if err := deps.Profiles.UpdateAdminFields(ctx, input.UserID, input.StudentNotes, input.BeltLevel); err != nil {
		return err
	}
	recordAudit(ctx, deps.Audit, audit.NewEntry(input.ActorID, input.ActorEmail, audit.ActionUpdateUser, clock(deps.Now)).
		WithDescription(fmt.Sprintf("user=%s belt=%s", input.UserID, input.BeltLevel)))
	return nil
}
