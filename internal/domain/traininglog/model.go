package traininglog

import (
	"errors"
	"strings"
	"time"

	"dojo/internal/domain/billing"
)

// StreakWindowDays is the look-back window used to compute a member's streak.
const StreakWindowDays = 14

// MaxHoursPerEntry bounds a single logged session.
const MaxHoursPerEntry = 12

// Domain errors
var (
	ErrMissingFields = errors.New("className, date and hours are required")
	ErrInvalidDate   = errors.New("date must be YYYY-MM-DD")
	ErrInvalidHours  = errors.New("hours must be greater than 0 and at most 12")
)

// Entry is one self-reported training session. Entries are append-only.
type Entry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ClassName string    `json:"class_name"`
	Date      string    `json:"date"`
	Hours     float64   `json:"hours"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks if the Entry has valid data.
// PRE: Entry struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Entry) Validate() error {
	if e.UserID == "" || strings.TrimSpace(e.ClassName) == "" || e.Date == "" || e.Hours == 0 {
		return ErrMissingFields
	}
	if _, err := time.Parse(billing.DateLayout, e.Date); err != nil {
		return ErrInvalidDate
	}
	if e.Hours < 0 || e.Hours > MaxHoursPerEntry {
		return ErrInvalidHours
	}
	return nil
}

// StreakSince returns the first civil date inside the streak window ending today.
func StreakSince(today string) string {
	since, err := billing.AddDays(today, -StreakWindowDays)
	if err != nil {
		return today
	}
	return since
}
