package orchestrators

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"dojo/internal/domain/audit"
)

// ClientErrorInput carries an error reported by the browser.
type ClientErrorInput struct {
	UserID     string
	Email      string
	Source     string
	Message    string
	Stacktrace string
	Context    map[string]any
}

// ClientErrorDeps holds dependencies for RecordClientError.
type ClientErrorDeps struct {
	Audit AuditRecorder
	Now   func() time.Time
}

// ExecuteRecordClientError stores browser telemetry in the audit log.
// POST: Unknown sources are recorded as client; the message is truncated
func ExecuteRecordClientError(ctx context.Context, input ClientErrorInput, deps ClientErrorDeps) error {
	msg := strings.TrimSpace(input.Message)
	if msg == "" {
		return invalid("message", audit.ErrEmptyMessage)
	}
	source := audit.SourceClient
	if audit.Source(input.Source) == audit.SourceClientPromise {
		source = audit.SourceClientPromise
	}
	var ctxJSON string
	if len(input.Context) > 0 {
		b, err := json.Marshal(input.Context)
		if err == nil {
			ctxJSON = string(b)
		}
	}
	e := audit.NewEntry(input.UserID, input.Email, audit.ActionClientError, clock(deps.Now)).
		WithClientError(source, msg, input.Stacktrace, ctxJSON)
	return deps.Audit.Save(ctx, e)
}
