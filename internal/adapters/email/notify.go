package email

import (
	"context"
	"log/slog"
)

// Lead is a prospective member who reached out from the contact page.
type Lead struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// LeadNotifier forwards contact leads to the gym staff.
type LeadNotifier interface {
	NotifyLead(ctx context.Context, lead Lead) error
}

// LogNotifier records leads in the structured log. It stands in for the
// messaging channel the gym uses for enquiries.
type LogNotifier struct{}

// NotifyLead logs the lead.
func (LogNotifier) NotifyLead(_ context.Context, lead Lead) error {
	slog.Info("contact_lead", "name", lead.Name, "email", lead.Email, "phone", lead.Phone)
	return nil
}

// MailNotifier e-mails leads to the staff inbox.
type MailNotifier struct {
	Sender Sender
	Inbox  string
}

// NotifyLead sends the lead to the staff inbox with the lead as reply-to.
func (n MailNotifier) NotifyLead(ctx context.Context, lead Lead) error {
	_, err := n.Sender.Send(ctx, LeadMessage(lead, n.Inbox))
	return err
}
