package orchestrators

import (
	"context"
	"errors"
	"strings"
	"time"

	"dojo/internal/adapters/storage"
	"dojo/internal/domain/audit"
	"dojo/internal/domain/waiver"
)

// WaiverStore defines the interface for waiver persistence.
type WaiverStore interface {
	GetActiveByUser(ctx context.Context, userID string) (waiver.Waiver, error)
	Create(ctx context.Context, w waiver.Waiver) error
}

// SignWaiverInput carries the signed form. Minors are signed for by a
// guardian, so the participant fields come from the minor block.
type SignWaiverInput struct {
	UserID           string
	Email            string
	IsMinor          bool
	MinorName        string
	MinorAge         *int
	ParticipantName  string
	ParticipantAge   *int
	ParticipantEmail string
	GuardianName     string
	GuardianRelation string
	SignatureURL     string
	Owners           string // comma separated
	AcceptedESignLaw bool
	AllowImageRights bool
}

// SignWaiverDeps holds dependencies for SignWaiver.
type SignWaiverDeps struct {
	Waivers    WaiverStore
	Audit      AuditRecorder
	Now        func() time.Time
	GenerateID func() string
}

// ExecuteSignWaiver records a liability waiver signature.
// PRE: UserID is the authenticated user
// POST: Waiver stored and the profile flagged as signed
// INVARIANT: One active waiver per user; a second signature returns waiver.ErrAlreadySigned
func ExecuteSignWaiver(ctx context.Context, input SignWaiverInput, deps SignWaiverDeps) (waiver.Waiver, error) {
	if _, err := deps.Waivers.GetActiveByUser(ctx, input.UserID); err == nil {
		return waiver.Waiver{}, waiver.ErrAlreadySigned
	} else if !errors.Is(err, storage.ErrNotFound) {
		return waiver.Waiver{}, err
	}

	owner1, owner2 := waiver.SplitOwners(input.Owners)
	w := waiver.Waiver{
		ID:               newID(deps.GenerateID),
		UserID:           input.UserID,
		Status:           waiver.StatusSigned,
		IsMinor:          input.IsMinor,
		ParticipantEmail: strings.TrimSpace(input.ParticipantEmail),
		SignatureURL:     input.SignatureURL,
		GymOwner1:        owner1,
		GymOwner2:        owner2,
		AcceptedESignLaw: input.AcceptedESignLaw,
		AllowedMarketing: input.AllowImageRights,
		SignedAt:         clock(deps.Now),
	}
	if input.IsMinor {
		w.ParticipantName = strings.TrimSpace(input.MinorName)
		w.ParticipantAge = input.MinorAge
		w.GuardianName = strings.TrimSpace(input.GuardianName)
		w.GuardianRelation = strings.TrimSpace(input.GuardianRelation)
	} else {
		w.ParticipantName = strings.TrimSpace(input.ParticipantName)
		w.ParticipantAge = input.ParticipantAge
	}

	if err := w.Validate(); err != nil {
		return waiver.Waiver{}, invalid("", err)
	}
	if err := deps.Waivers.Create(ctx, w); err != nil {
		return waiver.Waiver{}, err
	}

	recordAudit(ctx, deps.Audit, audit.NewEntry(input.UserID, input.Email, audit.ActionSignWaiver, w.SignedAt).
		WithDescription(w.ParticipantName))
	return w, nil
}
