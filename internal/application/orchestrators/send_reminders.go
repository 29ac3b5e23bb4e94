package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dojo/internal/adapters/email"
	membershipStore "dojo/internal/adapters/storage/membership"
	"dojo/internal/domain/audit"
	"dojo/internal/domain/billing"
	"dojo/internal/domain/membership"
)

// ExpiringLister lists assignments joined with their members.
type ExpiringLister interface {
	ListWithMembers(ctx context.Context, filter membershipStore.AssignmentFilter) ([]membershipStore.AssignmentView, error)
}

// SendRemindersInput carries the admin who triggered the run.
type SendRemindersInput struct {
	ActorID    string
	ActorEmail string
}

// SendRemindersDeps holds dependencies for SendReminders.
type SendRemindersDeps struct {
	Assignments ExpiringLister
	Sender      email.Sender
	Audit       AuditRecorder
	WindowDays  int
	Location    *time.Location
	Now         func() time.Time
}

// SendRemindersResult counts the outcome per recipient.
type SendRemindersResult struct {
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// ExecuteSendReminders e-mails every member whose active plan ends within
// the reminder window.
// POST: Each recipient is attempted once; a failed send is logged and counted
func ExecuteSendReminders(ctx context.Context, input SendRemindersInput, deps SendRemindersDeps) (SendRemindersResult, error) {
	now := clock(deps.Now)
	window := deps.WindowDays
	if window <= 0 {
		window = membership.DefaultExpiringWindowDays
	}
	today := billing.Today(now, deps.Location)
	limit, err := billing.AddDays(today, window)
	if err != nil {
		return SendRemindersResult{}, err
	}

	views, err := deps.Assignments.ListWithMembers(ctx, membershipStore.AssignmentFilter{
		ActiveOnly: true,
		HasEndDate: true,
		EndFrom:    today,
		EndTo:      limit,
	})
	if err != nil {
		return SendRemindersResult{}, err
	}

	var res SendRemindersResult
	for _, v := range views {
		if v.Email == "" {
			res.Skipped++
			continue
		}
		end, err := time.Parse(billing.DateLayout, v.EndDate)
		if err != nil {
			res.Skipped++
			continue
		}
		planType := v.PlanType
		if planType == "" {
			planType = v.Type
		}
		msg := email.ReminderMessage(email.Reminder{
			Email:    v.Email,
			Name:     v.FullName,
			PlanType: planType,
			EndDate:  end,
		})
		if _, err := deps.Sender.Send(ctx, msg); err != nil {
			slog.Warn("reminder_send_failed", "user_id", v.UserID, "email", v.Email, "error", err)
			res.Failed++
			continue
		}
		res.Sent++
	}

	slog.Info("reminders_sent", "sent", res.Sent, "failed", res.Failed, "skipped", res.Skipped)
	recordAudit(ctx, deps.Audit, audit.NewEntry(input.ActorID, input.ActorEmail, audit.ActionSendReminders, now).
		WithDescription(fmt.Sprintf("sent=%d failed=%d skipped=%d", res.Sent, res.Failed, res.Skipped)))
	return res, nil
}
