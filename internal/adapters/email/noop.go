package email

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// NoopSender logs messages instead of delivering them. It keeps the
// messages it was given so development pages and tests can inspect them.
type NoopSender struct {
	mu   sync.Mutex
	sent []Message
}

// NewNoopSender creates a new NoopSender.
func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

// Send records the message without delivering it.
func (s *NoopSender) Send(_ context.Context, msg Message) (Receipt, error) {
	s.mu.Lock()
	s.sent = append(s.sent, msg)
	n := len(s.sent)
	s.mu.Unlock()

	slog.Info("noop_email_send", "to", msg.To, "subject", msg.Subject)
	return Receipt{MessageID: fmt.Sprintf("noop-%d", n), SentAt: time.Now()}, nil
}

// Sent returns a copy of the recorded messages.
func (s *NoopSender) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.sent...)
}
