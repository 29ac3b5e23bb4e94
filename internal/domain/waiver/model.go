package waiver

import (
	"errors"
	"strings"
	"time"
)

// StatusSigned is the only status a stored waiver can have; revocation is a flag.
const StatusSigned = "signed"

// Domain errors
var (
	ErrMissingUser        = errors.New("waiver must be associated with a user")
	ErrMissingParticipant = errors.New("participant name is required")
	ErrMissingGuardian    = errors.New("guardian name and relation are required for minors")
	ErrMissingSignature   = errors.New("a signature is required")
	ErrESignNotAccepted   = errors.New("the electronic signature terms must be accepted")
	ErrAlreadySigned      = errors.New("waiver already signed")
)

// Waiver is a signed liability release.
type Waiver struct {
	ID               string
	UserID           string
	Status           string
	Revoked          bool
	ParticipantName  string
	ParticipantEmail string
	ParticipantAge   *int
	IsMinor          bool
	GuardianName     string
	GuardianRelation string
	SignatureURL     string
	GymOwner1        string
	GymOwner2        string
	AcceptedESignLaw bool
	AllowedMarketing bool
	SignedAt         time.Time
}

// Validate checks if the Waiver has valid data.
// PRE: Waiver struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Guardian fields are set iff the participant is a minor
func (w *Waiver) Validate() error {
	if w.UserID == "" {
		return ErrMissingUser
	}
	if strings.TrimSpace(w.ParticipantName) == "" {
		return ErrMissingParticipant
	}
	if w.IsMinor && (strings.TrimSpace(w.GuardianName) == "" || strings.TrimSpace(w.GuardianRelation) == "") {
		return ErrMissingGuardian
	}
	if strings.TrimSpace(w.SignatureURL) == "" {
		return ErrMissingSignature
	}
	if !w.AcceptedESignLaw {
		return ErrESignNotAccepted
	}
	return nil
}

// IsActive reports whether the waiver still counts as the user's signature.
func (w *Waiver) IsActive() bool {
	return w.Status == StatusSigned && !w.Revoked
}

// SplitOwners splits the comma-separated owners field into the two owner
// columns. Missing entries come back empty.
func SplitOwners(owners string) (string, string) {
	if strings.TrimSpace(owners) == "" {
		return "", ""
	}
	parts := strings.Split(owners, ",")
	first := strings.TrimSpace(parts[0])
	second := ""
	if len(parts) > 1 {
		second = strings.TrimSpace(parts[1])
	}
	return first, second
}
