package orchestrators

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dojo/internal/domain/audit"
	"dojo/internal/domain/billing"
	"dojo/internal/domain/profile"
	"dojo/internal/domain/traininglog"
)

// TrainingLogStore appends entries and answers rollup queries.
type TrainingLogStore interface {
	Append(ctx context.Context, e traininglog.Entry) error
	SumHours(ctx context.Context, userID, className string) (float64, error)
	CountSince(ctx context.Context, userID, sinceDate string) (int, error)
}

// LogHoursInput carries one self-reported training session.
type LogHoursInput struct {
	UserID    string
	Email     string
	ClassName string
	Date      string
	Hours     float64
}

// LogHoursDeps holds dependencies for LogHours.
type LogHoursDeps struct {
	Logs       TrainingLogStore
	Profiles   ProfileStoreForUpdate
	Audit      AuditRecorder
	Location   *time.Location
	Now        func() time.Time
	GenerateID func() string
}

// LogHoursResult carries the refreshed rollups.
type LogHoursResult struct {
	Entry   traininglog.Entry
	Profile profile.Profile
}

// ExecuteLogHours appends a training entry and refreshes the profile rollups.
// PRE: UserID is the authenticated user
// POST: Entry appended; class total, training total and streak updated
// INVARIANT: Entries are never modified after append
func ExecuteLogHours(ctx context.Context, input LogHoursInput, deps LogHoursDeps) (LogHoursResult, error) {
	now := clock(deps.Now)
	e := traininglog.Entry{
		ID:        newID(deps.GenerateID),
		UserID:    input.UserID,
		ClassName: strings.TrimSpace(input.ClassName),
		Date:      input.Date,
		Hours:     input.Hours,
		CreatedAt: now,
	}
	if err := e.Validate(); err != nil {
		return LogHoursResult{}, invalid("", err)
	}

	p, err := deps.Profiles.GetByID(ctx, input.UserID)
	if err != nil {
		return LogHoursResult{}, err
	}

	if err := deps.Logs.Append(ctx, e); err != nil {
		return LogHoursResult{}, fmt.Errorf("append training log: %w", err)
	}

	classTotal, err := deps.Logs.SumHours(ctx, input.UserID, e.ClassName)
	if err != nil {
		return LogHoursResult{}, err
	}
	streak, err := deps.Logs.CountSince(ctx, input.UserID, traininglog.StreakSince(billing.Today(now, deps.Location)))
	if err != nil {
		return LogHoursResult{}, err
	}

	p.ApplyLoggedHours(e.ClassName, e.Hours, classTotal, streak)
	if err := deps.Profiles.Save(ctx, p); err != nil {
		return LogHoursResult{}, fmt.Errorf("save rollups: %w", err)
	}

	recordAudit(ctx, deps.Audit, audit.NewEntry(input.UserID, input.Email, audit.ActionLogHours, now).
		WithDescription(fmt.Sprintf("%s: %.1fh on %s", e.ClassName, e.Hours, e.Date)))
	return LogHoursResult{Entry: e, Profile: p}, nil
}
