package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"dojo/internal/adapters/email"
)

// ErrContactIncomplete is returned when a lead has no way to reply to.
var ErrContactIncomplete = errors.New("name and an email or phone are required")

// ContactInput carries a contact form submission.
type ContactInput struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// ContactDeps holds dependencies for Contact.
type ContactDeps struct {
	Notifier email.LeadNotifier
}

// ExecuteContact forwards a lead to the staff.
// POST: Notifier failures are logged and not returned
func ExecuteContact(ctx context.Context, input ContactInput, deps ContactDeps) error {
	lead := email.Lead{
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.TrimSpace(input.Email),
		Phone:   strings.TrimSpace(input.Phone),
		Message: strings.TrimSpace(input.Message),
	}
	if lead.Name == "" || (lead.Email == "" && lead.Phone == "") {
		return invalid("", ErrContactIncomplete)
	}
	if err := deps.Notifier.NotifyLead(ctx, lead); err != nil {
		slog.Warn("contact_notify_failed", "email", lead.Email, "error", err)
	}
	return nil
}
