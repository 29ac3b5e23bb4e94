package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"dojo/internal/adapters/storage"
	"dojo/internal/domain/account"
)

// Provider is the identity contract consumed by the guard and handlers.
type Provider interface {
	Session(r *http.Request) (Session, bool)
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignUp(ctx context.Context, email, password string) (Session, error)
	SignOut(w http.ResponseWriter)
	IsAdmin(ctx context.Context, s Session) (bool, error)
	Refresh(s Session) (Session, error)
	DeleteUser(ctx context.Context, userID string) error
}

// Sign-in errors.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is locked due to too many failed attempts")
	ErrEmailTaken         = errors.New("email is already registered")
)

// CredentialStore is the credential persistence used by Local.
type CredentialStore interface {
	GetByID(ctx context.Context, id string) (account.Credential, error)
	GetByEmail(ctx context.Context, email string) (account.Credential, error)
	Save(ctx context.Context, c account.Credential) error
	Delete(ctx context.Context, id string) error
}

// Local is a Provider backed by the credential table and signed cookies.
type Local struct {
	Credentials CredentialStore
	Tokens      *Tokens
	Roles       RoleChecker
	// SecureCookies sets the Secure attribute on session cookies.
	SecureCookies bool
	Now           func() time.Time
}

var _ Provider = (*Local)(nil)

func (l *Local) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

// Session returns the verified session carried by the request cookie.
func (l *Local) Session(r *http.Request) (Session, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return Session{}, false
	}
	s, err := l.Tokens.Parse(cookie.Value, l.now())
	if err != nil {
		return Session{}, false
	}
	return s, true
}

// SignIn verifies credentials and issues a session.
// PRE: email and password are provided
// POST: Failed attempts are counted; the credential locks after account.MaxFailedLogins
// INVARIANT: A locked credential never signs in
func (l *Local) SignIn(ctx context.Context, email, password string) (Session, error) {
	email = account.NormalizeEmail(email)
	if email == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}
	now := l.now()

	cred, err := l.Credentials.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "not_found")
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}

	if cred.IsLocked(now) {
		slog.Info("auth_event", "event", "login_blocked", "email", email, "reason", "locked")
		return Session{}, ErrAccountLocked
	}

	if err := cred.CheckPassword(password); err != nil {
		cred.RecordFailedLogin(now)
		if saveErr := l.Credentials.Save(ctx, cred); saveErr != nil {
			slog.Error("auth_event", "event", "failed_login_not_recorded", "email", email, "error", saveErr)
		}
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "wrong_password", "failed_logins", cred.FailedLogins)
		return Session{}, ErrInvalidCredentials
	}

	if cred.FailedLogins > 0 {
		cred.ResetFailedLogins()
		if err := l.Credentials.Save(ctx, cred); err != nil {
			return Session{}, err
		}
	}

	slog.Info("auth_event", "event", "login_success", "email", email)
	return l.Tokens.Issue(cred.ID, cred.Email, now)
}

// SignUp creates a credential and issues a session for it.
// POST: Returns ErrEmailTaken when the address is already registered
func (l *Local) SignUp(ctx context.Context, email, password string) (Session, error) {
	email = account.NormalizeEmail(email)
	if err := account.ValidateEmail(email); err != nil {
		return Session{}, err
	}
	if _, err := l.Credentials.GetByEmail(ctx, email); err == nil {
		return Session{}, ErrEmailTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		return Session{}, err
	}

	now := l.now()
	cred := account.Credential{ID: uuid.New().String(), Email: email, CreatedAt: now}
	if err := cred.SetPassword(password); err != nil {
		return Session{}, err
	}
	if err := l.Credentials.Save(ctx, cred); err != nil {
		return Session{}, fmt.Errorf("save credential: %w", err)
	}
	slog.Info("auth_event", "event", "signup", "email", email)
	return l.Tokens.Issue(cred.ID, cred.Email, now)
}

// SignOut clears the session cookie.
func (l *Local) SignOut(w http.ResponseWriter) {
	ClearCookie(w, l.SecureCookies)
}

// IsAdmin delegates to the configured role checker.
func (l *Local) IsAdmin(ctx context.Context, s Session) (bool, error) {
	return l.Roles.IsAdmin(ctx, s)
}

// Refresh reissues the session with a fresh expiry.
func (l *Local) Refresh(s Session) (Session, error) {
	return l.Tokens.Issue(s.UserID, s.Email, l.now())
}

// DeleteUser removes a credential, used to roll back a failed registration.
func (l *Local) DeleteUser(ctx context.Context, userID string) error {
	return l.Credentials.Delete(ctx, userID)
}
