package classlog

import (
	"errors"
	"strings"
	"time"

	"dojo/internal/domain/billing"
)

// Domain errors
var (
	ErrMissingUser     = errors.New("class log must reference a user")
	ErrEmptyClassName  = errors.New("class name cannot be empty")
	ErrInvalidDate     = errors.New("date must be YYYY-MM-DD")
	ErrInvalidDuration = errors.New("duration must be between 1 and 600 minutes")
)

// Log is an admin-recorded class session attended by a member.
type Log struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	ClassName       string    `json:"class_name"`
	Instructor      string    `json:"instructor"`
	Date            string    `json:"date"`
	DurationMinutes int       `json:"duration_minutes"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
}

// Validate checks if the Log has valid data.
// PRE: Log struct is populated
// POST: Returns nil if valid, error otherwise
func (l *Log) Validate() error {
	if l.UserID == "" {
		return ErrMissingUser
	}
	if strings.TrimSpace(l.ClassName) == "" {
		return ErrEmptyClassName
	}
	if _, err := time.Parse(billing.DateLayout, l.Date); err != nil {
		return ErrInvalidDate
	}
	if l.DurationMinutes < 1 || l.DurationMinutes > 600 {
		return ErrInvalidDuration
	}
	return nil
}
