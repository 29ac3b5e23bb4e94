package child

import (
	"errors"
	"strings"
	"time"

	"dojo/internal/domain/billing"
)

// Relations a guardian may declare for a child.
const (
	RelationParent   = "parent"
	RelationGuardian = "guardian"
)

// Domain errors
var (
	ErrEmptyName       = errors.New("child name cannot be empty")
	ErrInvalidBirth    = errors.New("birth date must be YYYY-MM-DD")
	ErrMissingParent   = errors.New("parent link must reference a parent")
	ErrMissingChild    = errors.New("parent link must reference a child")
	ErrInvalidRelation = errors.New("relation must be one of: parent, guardian")
)

// Profile is a child member managed by a guardian.
type Profile struct {
	ID         string
	FullName   string
	BirthDate  string
	HealthInfo string
	CreatedAt  time.Time
}

// Validate checks if the child Profile has valid data.
// PRE: Profile struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.FullName) == "" {
		return ErrEmptyName
	}
	if p.BirthDate != "" {
		if _, err := time.Parse(billing.DateLayout, p.BirthDate); err != nil {
			return ErrInvalidBirth
		}
	}
	return nil
}

// ParentLink ties a guardian account to a child profile. A child profile
// without at least one link is an orphan and must not persist.
type ParentLink struct {
	ID        string
	ParentID  string
	ChildID   string
	Relation  string
	CreatedAt time.Time
}

// Validate checks if the ParentLink has valid data.
// PRE: ParentLink struct is populated
// POST: Returns nil if valid, error otherwise
func (l *ParentLink) Validate() error {
	if l.ParentID == "" {
		return ErrMissingParent
	}
	if l.ChildID == "" {
		return ErrMissingChild
	}
	if l.Relation != RelationParent && l.Relation != RelationGuardian {
		return ErrInvalidRelation
	}
	return nil
}
