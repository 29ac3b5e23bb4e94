package orchestrators

import (
	"context"
	"time"

	"dojo/internal/domain/audit"
	"dojo/internal/domain/waiver"
)

// WaiverRevoker finds and revokes a member's active waiver.
type WaiverRevoker interface {
	GetActiveByUser(ctx context.Context, userID string) (waiver.Waiver, error)
	Revoke(ctx context.Context, id string) error
}

// RevokeWaiverInput carries input for the revoke orchestrator.
type RevokeWaiverInput struct {
	ActorID    string
	ActorEmail string
	UserID     string
}

// RevokeWaiverDeps holds dependencies for RevokeWaiver.
type RevokeWaiverDeps struct {
	Waivers WaiverRevoker
	Audit   AuditRecorder
	Now     func() time.Time
}

// ExecuteRevokeWaiver revokes the member's active waiver so they can sign again.
// PRE: Actor is an admin
// POST: Returns storage.ErrNotFound (wrapped) when the member has no active waiver
func ExecuteRevokeWaiver(ctx context.Context, input RevokeWaiverInput, deps RevokeWaiverDeps) error {
	w, err := deps.Waivers.GetActiveByUser(ctx, input.UserID)
	if err != nil {
		return err
	}
	if err := deps.Waivers.Revoke(ctx, w.ID); err != nil {
		return err
	}
	recordAudit(ctx, deps.Audit, audit.NewEntry(input.ActorID, input.ActorEmail, audit.ActionRevokeWaiver, clock(deps.Now)).
		WithDescription("user="+input.UserID))
	return nil
}
