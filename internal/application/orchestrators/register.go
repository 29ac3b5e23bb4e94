package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"dojo/internal/adapters/identity"
	"dojo/internal/domain/access"
	"dojo/internal/domain/account"
	"dojo/internal/domain/audit"
	"dojo/internal/domain/billing"
	"dojo/internal/domain/membership"
	"dojo/internal/domain/profile"
)

// Registrar creates and removes identities.
type Registrar interface {
	SignUp(ctx context.Context, email, password string) (identity.Session, error)
	DeleteUser(ctx context.Context, userID string) error
}

// ProfileSaver persists profiles.
type ProfileSaver interface {
	Save(ctx context.Context, p profile.Profile) error
}

// PlanLister lists membership plans.
type PlanLister interface {
	List(ctx context.Context) ([]membership.Plan, error)
}

// AssignmentSaver persists membership assignments.
type AssignmentSaver interface {
	Save(ctx context.Context, a membership.Assignment) error
}

// RegisterInput carries the sign-up form.
type RegisterInput struct {
	Email          string
	Password       string
	FullName       string
	BirthDate      string
	Nationality    string
	HasExperience  bool
	HowFound       string
	HealthInfo     string
	Underage       bool
	ParentName     string
	ParentPhone    string
	Address        string
	Avatar         string
	Classes        []string
	JoinDate       string // defaults to today in the gym's zone
	MembershipType string // optional
}

// RegisterDeps holds dependencies for Register.
type RegisterDeps struct {
	Auth         Registrar
	Profiles     ProfileSaver
	Plans        PlanLister
	Assignments  AssignmentSaver
	IsAdminEmail func(email string) bool
	Audit        AuditRecorder
	Location     *time.Location
	Now          func() time.Time
	GenerateID   func() string
}

// RegisterResult carries the created identity.
type RegisterResult struct {
	Session identity.Session
	Profile profile.Profile
}

// ExecuteRegister creates a credential, its profile and an optional membership.
// PRE: Email, password and full name provided
// POST: Profile exists with role admin when the email is configured as an admin,
// user otherwise; the credential is removed again if the profile cannot be saved
// INVARIANT: No credential without a profile
func ExecuteRegister(ctx context.Context, input RegisterInput, deps RegisterDeps) (RegisterResult, error) {
	now := clock(deps.Now)
	if strings.TrimSpace(input.FullName) == "" {
		return RegisterResult{}, invalid("fullName", profile.ErrEmptyName)
	}
	if err := account.ValidateEmail(input.Email); err != nil {
		return RegisterResult{}, invalid("email", err)
	}

	joinDate := input.JoinDate
	if joinDate == "" {
		joinDate = billing.Today(now, deps.Location)
	}

	p := profile.New("", input.Email, input.FullName, now)
	p.BirthDate = input.BirthDate
	p.Nationality = input.Nationality
	p.HasExperience = input.HasExperience
	p.HowFound = input.HowFound
	p.HealthInfo = input.HealthInfo
	p.Underage = input.Underage
	p.ParentName = input.ParentName
	p.ParentPhone = input.ParentPhone
	p.Address = input.Address
	p.Avatar = input.Avatar
	p.JoinDate = joinDate
	if input.Classes != nil {
		p.Classes = input.Classes
	}
	if deps.IsAdminEmail != nil && deps.IsAdminEmail(p.Email) {
		p.Role = access.RoleAdmin
	}
	if err := p.Validate(); err != nil {
		return RegisterResult{}, invalid("", err)
	}

	s, err := deps.Auth.SignUp(ctx, input.Email, input.Password)
	if err != nil {
		if errors.Is(err, identity.ErrEmailTaken) || errors.Is(err, account.ErrPasswordTooShort) ||
			errors.Is(err, account.ErrEmptyPassword) {
			return RegisterResult{}, invalid("", err)
		}
		return RegisterResult{}, err
	}
	p.ID = s.UserID

	if err := deps.Profiles.Save(ctx, p); err != nil {
		if delErr := deps.Auth.DeleteUser(ctx, s.UserID); delErr != nil {
			slog.Error("register_compensation_failed", "user_id", s.UserID, "error", delErr)
		}
		return RegisterResult{}, fmt.Errorf("save profile: %w", err)
	}

	if input.MembershipType != "" {
		if err := assignOnRegister(ctx, p, input.MembershipType, deps, now); err != nil {
			slog.Warn("register_membership_failed", "user_id", p.ID, "type", input.MembershipType, "error", err)
		}
	}

	if p.Role == access.RoleAdmin {
		slog.Info("auth_event", "event", "admin_promoted", "email", p.Email)
	}
	recordAudit(ctx, deps.Audit, audit.NewEntry(p.ID, p.Email, audit.ActionRegister, now))
	return RegisterResult{Session: s, Profile: p}, nil
}

// assignOnRegister links the new member to the plan named by membershipType,
// starting on the join date. An unknown type is still recorded, open-ended.
func assignOnRegister(ctx context.Context, p profile.Profile, membershipType string, deps RegisterDeps, now time.Time) error {
	a := membership.Assignment{
		ID:        newID(deps.GenerateID),
		UserID:    p.ID,
		Type:      membershipType,
		StartDate: p.JoinDate,
		Active:    true,
		CreatedAt: now,
	}
	if deps.Plans != nil {
		plans, err := deps.Plans.List(ctx)
		if err != nil {
			return err
		}
		for _, plan := range plans {
			if strings.EqualFold(plan.Type, membershipType) {
				end, err := membership.EndFor(plan, p.JoinDate)
				if err != nil {
					return err
				}
				a.MembershipID = plan.ID
				a.Type = plan.Type
				a.EndDate = end
				break
			}
		}
	}
	if err := a.Validate(); err != nil {
		return err
	}
	return deps.Assignments.Save(ctx, a)
}
