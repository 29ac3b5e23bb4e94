package membership

import (
	"errors"
	"strings"
	"time"

	"dojo/internal/domain/billing"
)

// DefaultExpiringWindowDays is how far ahead an assignment counts as expiring.
const DefaultExpiringWindowDays = 5

// Domain errors
var (
	ErrEmptyType      = errors.New("membership type cannot be empty")
	ErrNegativePrice  = errors.New("price cannot be negative")
	ErrEmptyDuration  = errors.New("duration cannot be empty")
	ErrInvalidLength  = errors.New("duration in days cannot be negative")
	ErrMissingUser    = errors.New("assignment must reference a user")
	ErrInvalidDate    = errors.New("dates must be YYYY-MM-DD")
	ErrEndBeforeStart = errors.New("end date cannot be before start date")
)

// Plan is a membership offering defined by admins. Duration is the label
// admins type ("1 mes", "Trimestral") and is stored as entered. DurationDays
// is optional; when set, assignments get an end date derived from it.
type Plan struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Price        float64   `json:"price"`
	Duration     string    `json:"duration"`
	DurationDays int       `json:"duration_days,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Validate checks if the Plan has valid data.
// PRE: Plan struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Plan) Validate() error {
	if strings.TrimSpace(p.Type) == "" {
		return ErrEmptyType
	}
	if p.Price < 0 {
		return ErrNegativePrice
	}
	if strings.TrimSpace(p.Duration) == "" {
		return ErrEmptyDuration
	}
	if p.DurationDays < 0 {
		return ErrInvalidLength
	}
	return nil
}

// Assignment links a user to a plan for a period.
type Assignment struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	MembershipID string    `json:"membership_id"` // empty when assigned by type only (self-registration)
	Type         string    `json:"type"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`      // empty means open-ended
	Active       bool      `json:"active"`
	TotalPaid    float64   `json:"total_paid"`
	CreatedAt    time.Time `json:"created_at"`
}

// Validate checks if the Assignment has valid data.
// PRE: Assignment struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Assignment) Validate() error {
	if a.UserID == "" {
		return ErrMissingUser
	}
	if a.MembershipID == "" && strings.TrimSpace(a.Type) == "" {
		return ErrEmptyType
	}
	if _, err := time.Parse(billing.DateLayout, a.StartDate); err != nil {
		return ErrInvalidDate
	}
	if a.EndDate != "" {
		if _, err := time.Parse(billing.DateLayout, a.EndDate); err != nil {
			return ErrInvalidDate
		}
		if a.EndDate < a.StartDate {
			return ErrEndBeforeStart
		}
	}
	if a.TotalPaid < 0 {
		return ErrNegativePrice
	}
	return nil
}

// EndFor derives the end date of an assignment that starts on start and runs
// for plan.DurationDays days. A plan without a day count gives an open-ended
// assignment (empty end date).
func EndFor(plan Plan, start string) (string, error) {
	if plan.DurationDays == 0 {
		if _, err := time.Parse(billing.DateLayout, start); err != nil {
			return "", err
		}
		return "", nil
	}
	return billing.AddDays(start, plan.DurationDays)
}

// Status classifies an assignment relative to a civil "today".
type Status string

const (
	StatusCurrent  Status = "current"
	StatusExpiring Status = "expiring"
	StatusPending  Status = "pending"
	StatusInactive Status = "inactive"
)

// Classify reports where an assignment stands on today.
// Expiring means active with an end date in [today, today+windowDays];
// pending means active with an end date strictly before today.
// PRE: today is YYYY-MM-DD in the gym's time zone
// POST: Returns exactly one status
func Classify(a Assignment, today string, windowDays int) Status {
	if !a.Active {
		return StatusInactive
	}
	if a.EndDate == "" {
		return StatusCurrent
	}
	if a.EndDate < today {
		return StatusPending
	}
	limit, err := billing.AddDays(today, windowDays)
	if err != nil {
		return StatusCurrent
	}
	if a.EndDate <= limit {
		return StatusExpiring
	}
	return StatusCurrent
}

// PlanStats is the per-plan aggregate shown on the memberships page.
type PlanStats struct {
	MembershipID string  `json:"membershipId"`
	Type         string  `json:"type"`
	ActiveCount  int     `json:"activeCount"`
	Revenue      float64 `json:"revenue"`
}

// Summarize aggregates assignments per plan. Plans without assignments are
// included with zero counts; assignments to unknown plans are grouped by type.
func Summarize(plans []Plan, assignments []Assignment) []PlanStats {
	byID := make(map[string]int, len(plans))
	stats := make([]PlanStats, 0, len(plans))
	for _, p := range plans {
		byID[p.ID] = len(stats)
		stats = append(stats, PlanStats{MembershipID: p.ID, Type: p.Type})
	}
	byType := map[string]int{}
	for _, a := range assignments {
		idx, ok := byID[a.MembershipID]
		if !ok {
			idx, ok = byType[a.Type]
			if !ok {
				idx = len(stats)
				byType[a.Type] = idx
				stats = append(stats, PlanStats{Type: a.Type})
			}
		}
		if a.Active {
			stats[idx].ActiveCount++
		}
		stats[idx].Revenue += a.TotalPaid
	}
	return stats
}
