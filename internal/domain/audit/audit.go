package audit

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Level represents the severity of an entry.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Source identifies where an entry originated.
type Source string

const (
	SourceServer        Source = "server"
	SourceClient        Source = "client"
	SourceClientPromise Source = "client-promise"
)

// Action names recorded by the back office.
const (
	ActionRegister       = "register"
	ActionLogin          = "login"
	ActionLogHours       = "log_hours"
	ActionSignWaiver     = "sign_waiver"
	ActionRevokeWaiver   = "revoke_waiver"
	ActionCreateChild    = "create_child"
	ActionUpdateUser     = "update_user"
	ActionAssignPlan     = "assign_membership"
	ActionSendReminders  = "send_reminders"
	ActionClientError    = "client_error"
	ActionManageClass    = "manage_class"
	ActionManagePlan     = "manage_membership"
	ActionManageClassLog = "manage_class_log"
)

// ReportLimit is the number of entries shown on the reports page.
const ReportLimit = 50

// MaxMessageLength bounds client-supplied error messages.
const MaxMessageLength = 2000

// ErrEmptyMessage is returned when a client error carries no message.
var ErrEmptyMessage = errors.New("message cannot be empty")

// Entry is a single audit or telemetry log row.
type Entry struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UserID      string    `json:"user_id,omitempty"`
	UserEmail   string    `json:"user_email,omitempty"`
	Action      string    `json:"action"`
	Description string    `json:"description,omitempty"`
	Level       Level     `json:"level"`
	Source      Source    `json:"source"`
	Message     string    `json:"message,omitempty"`
	Stacktrace  string    `json:"stacktrace,omitempty"`
	Context     string    `json:"context,omitempty"`
}

// NewEntry creates an info-level server entry stamped with now.
// PRE: action is non-empty
// POST: Returns an Entry with a fresh ID
func NewEntry(userID, userEmail, action string, now time.Time) Entry {
	return Entry{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UserID:    userID,
		UserEmail: userEmail,
		Action:    action,
		Level:     LevelInfo,
		Source:    SourceServer,
	}
}

// WithDescription sets the entry description.
func (e Entry) WithDescription(desc string) Entry {
	e.Description = desc
	return e
}

// WithLevel sets the severity level.
func (e Entry) WithLevel(l Level) Entry {
	e.Level = l
	return e
}

// WithClientError fills the telemetry fields of a client-reported error.
// Messages longer than MaxMessageLength are truncated.
func (e Entry) WithClientError(source Source, message, stacktrace, context string) Entry {
	if len(message) > MaxMessageLength {
		message = message[:MaxMessageLength]
	}
	e.Source = source
	e.Level = LevelError
	e.Message = message
	e.Stacktrace = stacktrace
	e.Context = context
	return e
}
