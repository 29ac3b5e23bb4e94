package profile

import (
	"errors"
	"strings"
	"time"

	"dojo/internal/domain/access"
	"dojo/internal/domain/account"
	"dojo/internal/domain/billing"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength    = 120
	MaxNotesLength   = 4000
	MaxAddressLength = 300
)

// Belt levels recognised by the back office. An empty belt means "not graded yet".
var BeltLevels = []string{"white", "blue", "purple", "brown", "black"}

// Domain errors
var (
	ErrEmptyName     = errors.New("name cannot be empty")
	ErrNameTooLong   = errors.New("name cannot exceed 120 characters")
	ErrInvalidRole   = errors.New("role must be one of: user, admin")
	ErrInvalidBelt   = errors.New("belt level must be one of: white, blue, purple, brown, black")
	ErrNotesTooLong  = errors.New("student notes cannot exceed 4000 characters")
	ErrInvalidDate   = errors.New("dates must be YYYY-MM-DD")
	ErrMissingParent = errors.New("a parent name is required for minors")
)

// ClassProgress is the per-class hours rollup kept on the profile.
type ClassProgress struct {
	Name         string  `json:"name"`
	WeeklyHours  float64 `json:"weeklyHours"`
	MonthlyHours float64 `json:"monthlyHours"`
	TotalHours   float64 `json:"totalHours"`
}

// Training is the aggregate training summary kept on the profile.
type Training struct {
	Streak       int     `json:"streak"`
	TotalHours   float64 `json:"totalHours"`
	WeeklyHours  float64 `json:"weeklyHours"`
	MonthlyHours float64 `json:"monthlyHours"`
}

// Profile is the member record keyed by the identity-provider user id.
type Profile struct {
	ID            string
	Email         string
	FullName      string
	Avatar        string
	BirthDate     string
	Nationality   string
	HasExperience bool
	HowFound      string
	HealthInfo    string
	Underage      bool
	ParentName    string
	ParentPhone   string
	Address       string
	JoinDate      string
	NextPayment   string // empty means "not stored"
	Classes       []string
	ClassProgress []ClassProgress
	Streak        int
	Training      Training
	Role          string
	BeltLevel     string
	StudentNotes  string
	WaiverSigned  bool
	CreatedAt     time.Time
}

// New returns a profile with registration defaults applied.
// POST: Role is user, rollups are zero, collections are non-nil
func New(id, email, fullName string, now time.Time) Profile {
	return Profile{
		ID:            id,
		Email:         account.NormalizeEmail(email),
		FullName:      strings.TrimSpace(fullName),
		Role:          access.RoleUser,
		Classes:       []string{},
		ClassProgress: []ClassProgress{},
		CreatedAt:     now,
	}
}

// Validate checks if the Profile has valid data.
// PRE: Profile struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.FullName) == "" {
		return ErrEmptyName
	}
	if len(p.FullName) > MaxNameLength {
		return ErrNameTooLong
	}
	if err := account.ValidateEmail(p.Email); err != nil {
		return err
	}
	if !access.IsValidRole(p.Role) {
		return ErrInvalidRole
	}
	if err := ValidateBelt(p.BeltLevel); err != nil {
		return err
	}
	if len(p.StudentNotes) > MaxNotesLength {
		return ErrNotesTooLong
	}
	if len(p.Address) > MaxAddressLength {
		return errors.New("address cannot exceed 300 characters")
	}
	for _, d := range []string{p.BirthDate, p.JoinDate, p.NextPayment} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(billing.DateLayout, d); err != nil {
			return ErrInvalidDate
		}
	}
	if p.Underage && strings.TrimSpace(p.ParentName) == "" {
		return ErrMissingParent
	}
	return nil
}

// ValidateBelt checks a belt level; empty is allowed.
func ValidateBelt(belt string) error {
	if belt == "" {
		return nil
	}
	for _, b := range BeltLevels {
		if b == belt {
			return nil
		}
	}
	return ErrInvalidBelt
}

// IsAdmin reports whether the stored role claims admin.
// INVARIANT: Profile fields are not mutated
func (p *Profile) IsAdmin() bool {
	return p.Role == access.RoleAdmin
}

// ApplyLoggedHours records a new training entry against the rollups.
// classTotal is the sum of every logged entry for className (including the
// new one) and streak is the recomputed recent-activity count.
// POST: ClassProgress has exactly one row for className with TotalHours = classTotal;
// Training.TotalHours grows by hours; Streak and Training.Streak equal streak
func (p *Profile) ApplyLoggedHours(className string, hours, classTotal float64, streak int) {
	found := false
	for i := range p.ClassProgress {
		if p.ClassProgress[i].Name == className {
			p.ClassProgress[i].TotalHours = classTotal
			found = true
			break
		}
	}
	if !found {
		p.ClassProgress = append(p.ClassProgress, ClassProgress{Name: className, TotalHours: classTotal})
	}
	p.Training.TotalHours += hours
	p.Training.Streak = streak
	p.Streak = streak
}
