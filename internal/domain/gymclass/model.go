package gymclass

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyName       = errors.New("class name cannot be empty")
	ErrEmptyCoach      = errors.New("coach cannot be empty")
	ErrInvalidCapacity = errors.New("capacity must be positive")
	ErrOverCapacity    = errors.New("enrolled cannot exceed capacity")
)

// Class is a scheduled class in the gym roster.
type Class struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Coach     string    `json:"coach"`
	Schedule  string    `json:"schedule"` // free text, e.g. "Lun/Mie 19:00"
	Capacity  int       `json:"capacity"`
	Enrolled  int       `json:"enrolled"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks if the Class has valid data.
// PRE: Class struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Class) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(c.Coach) == "" {
		return ErrEmptyCoach
	}
	if c.Capacity <= 0 {
		return ErrInvalidCapacity
	}
	if c.Enrolled < 0 || c.Enrolled > c.Capacity {
		return ErrOverCapacity
	}
	return nil
}

// SpotsLeft returns how many more members can enroll.
func (c *Class) SpotsLeft() int {
	return c.Capacity - c.Enrolled
}
