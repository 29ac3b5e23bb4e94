package account

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Limits for credential fields.
const (
	MaxEmailLength    = 254
	MinPasswordLength = 8
	MaxFailedLogins   = 5
	LockoutDuration   = 15 * time.Minute
	bcryptCost        = 12
)

// Domain errors
var (
	ErrInvalidEmail     = errors.New("email must contain '@'")
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrEmailTooLong     = errors.New("email cannot exceed 254 characters")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrWrongPassword    = errors.New("incorrect password")
)

// Credential is the identity-provider record behind a signed-in user.
// Its ID is shared with the member's profile.
type Credential struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	FailedLogins int
	LockedUntil  time.Time
}

// NormalizeEmail lower-cases and trims an address before lookup or storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks if the Credential has valid data.
// PRE: Credential struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Credential) Validate() error {
	return ValidateEmail(c.Email)
}

// ValidateEmail applies the address rules shared by credentials and profiles.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmptyEmail
	}
	if len(email) > MaxEmailLength {
		return ErrEmailTooLong
	}
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	return nil
}

// SetPassword hashes and stores a password using bcrypt.
// PRE: plaintext has at least MinPasswordLength characters
// POST: PasswordHash is set to a bcrypt hash
func (c *Credential) SetPassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	if len(plaintext) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return err
	}
	c.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// INVARIANT: Credential fields are not mutated
func (c *Credential) CheckPassword(plaintext string) error {
	if c.PasswordHash == "" {
		return ErrWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(plaintext)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// IsLocked reports whether the credential is locked out at now.
func (c *Credential) IsLocked(now time.Time) bool {
	if c.LockedUntil.IsZero() {
		return false
	}
	return now.Before(c.LockedUntil)
}

// RecordFailedLogin increments the failure counter and locks the credential
// once MaxFailedLogins is reached.
// POST: FailedLogins incremented; LockedUntil set if the limit is hit
func (c *Credential) RecordFailedLogin(now time.Time) {
	c.FailedLogins++
	if c.FailedLogins >= MaxFailedLogins {
		c.LockedUntil = now.Add(LockoutDuration)
	}
}

// ResetFailedLogins clears the failure counter and lock.
func (c *Credential) ResetFailedLogins() {
	c.FailedLogins = 0
	c.LockedUntil = time.Time{}
}
