package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"dojo/internal/adapters/identity"
	"dojo/internal/domain/access"
	"dojo/internal/domain/audit"
)

// Authenticator signs users in.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (identity.Session, error)
}

// RoleChecker resolves the admin flag for a session.
type RoleChecker interface {
	IsAdmin(ctx context.Context, s identity.Session) (bool, error)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	Session identity.Session
	IsAdmin bool
	Landing string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	Auth  Authenticator
	Roles RoleChecker
	Audit AuditRecorder
	Now   func() time.Time
}

// ExecuteLogin signs the user in and picks the landing page for their role.
// PRE: Email and password provided
// POST: Returns the issued session; identity.ErrInvalidCredentials or
// identity.ErrAccountLocked on failure
// INVARIANT: A failed role check lands the user on the member profile
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	s, err := deps.Auth.SignIn(ctx, input.Email, input.Password)
	if err != nil {
		return LoginResult{}, err
	}

	isAdmin, err := deps.Roles.IsAdmin(ctx, s)
	if err != nil {
		slog.Warn("role_check_failed", "user_id", s.UserID, "error", err)
		isAdmin = false
	}

	recordAudit(ctx, deps.Audit, audit.NewEntry(s.UserID, s.Email, audit.ActionLogin, clock(deps.Now)))
	return LoginResult{Session: s, IsAdmin: isAdmin, Landing: access.LandingPage(isAdmin)}, nil
}
