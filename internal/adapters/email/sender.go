package email

import (
	"context"
	"time"
)

// Message is a single outbound e-mail.
type Message struct {
	To      []string
	From    string // falls back to the sender's default when empty
	Subject string
	HTML    string
	ReplyTo string
}

// Receipt identifies an accepted message.
type Receipt struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers e-mail through an external provider.
type Sender interface {
	Send(ctx context.Context, msg Message) (Receipt, error)
}
