package email

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
)

// ResendSender sends e-mail through the Resend API.
type ResendSender struct {
	client  *resend.Client
	from    string
	replyTo string
}

// NewResendSender creates a sender with default from and reply-to addresses.
// PRE: apiKey is a valid Resend API key
func NewResendSender(apiKey, from, replyTo string) *ResendSender {
	return &ResendSender{
		client:  resend.NewClient(apiKey),
		from:    from,
		replyTo: replyTo,
	}
}

// Send queues a message for delivery.
// PRE: msg has at least one recipient and a subject
// POST: Returns the Resend message ID
func (s *ResendSender) Send(ctx context.Context, msg Message) (Receipt, error) {
	params := &resend.SendEmailRequest{
		From:    firstNonEmpty(msg.From, s.from),
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	}
	if reply := firstNonEmpty(msg.ReplyTo, s.replyTo); reply != "" {
		params.ReplyTo = reply
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		slog.Error("resend_send_failed", "error", err, "to", msg.To, "subject", msg.Subject)
		return Receipt{}, fmt.Errorf("resend send failed: %w", err)
	}

	slog.Info("resend_sent", "message_id", sent.Id, "to", msg.To)
	return Receipt{MessageID: sent.Id, SentAt: time.Now()}, nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
