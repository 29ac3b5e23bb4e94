package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"dojo/internal/domain/audit"
)

// ValidationError marks input the caller must fix. Handlers map it to 400.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Err.Error())
}

func (e *ValidationError) Unwrap() error { return e.Err }

// invalid wraps err as a ValidationError for field.
func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrForbidden is returned when the actor may not act on the target.
var ErrForbidden = errors.New("forbidden")

// AuditRecorder persists audit entries.
type AuditRecorder interface {
	Save(ctx context.Context, e audit.Entry) error
}

// recordAudit saves an audit entry without failing the caller's operation.
func recordAudit(ctx context.Context, rec AuditRecorder, e audit.Entry) {
	if rec == nil {
		return
	}
	if err := rec.Save(ctx, e); err != nil {
		slog.Warn("audit_write_failed", "action", e.Action, "user_id", e.UserID, "error", err)
	}
}

func newID(gen func() string) string {
	if gen != nil {
		return gen()
	}
	return uuid.New().String()
}

func clock(now func() time.Time) time.Time {
	if now != nil {
		return now()
	}
	return time.Now()
}
