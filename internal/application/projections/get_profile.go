package projections

import (
	"context"
	"log/slog"
	"time"

	"dojo/internal/domain/access"
	"dojo/internal/domain/billing"
	"dojo/internal/domain/profile"
)

// ProfileGetter reads a profile by ID.
type ProfileGetter interface {
	GetByID(ctx context.Context, id string) (profile.Profile, error)
}

// ProfileView is the profile as served to the member.
type ProfileView struct {
	ID            string                  `json:"id"`
	Email         string                  `json:"email"`
	Name          string                  `json:"name"`
	Avatar        string                  `json:"avatar"`
	BirthDate     string                  `json:"birthDate"`
	Nationality   string                  `json:"nationality"`
	HasExperience bool                    `json:"hasExperience"`
	HowFound      string                  `json:"howFound"`
	HealthInfo    string                  `json:"healthInfo"`
	IsMinor       bool                    `json:"isMinor"`
	ParentName    string                  `json:"parentName"`
	ParentPhone   string                  `json:"parentPhone"`
	Address       string                  `json:"address"`
	JoinDate      string                  `json:"joinDate"`
	NextPayment   string                  `json:"nextPayment"`
	Classes       []string                `json:"classes"`
	ClassProgress []profile.ClassProgress `json:"classProgress"`
	Streak        int                     `json:"streak"`
	Training      profile.Training        `json:"training"`
	Role          string                  `json:"role"`
	BeltLevel     string                  `json:"beltLevel"`
	WaiverSigned  bool                    `json:"waiverSigned"`
}

// GetProfileQuery carries the caller and their resolved admin flag.
type GetProfileQuery struct {
	UserID  string
	IsAdmin bool
}

// GetProfileDeps holds dependencies for GetProfile.
type GetProfileDeps struct {
	Profiles ProfileGetter
	Location *time.Location
	Now      func() time.Time
}

// QueryGetProfile builds the served profile.
// PRE: IsAdmin comes from the same request-scoped role check the guard used
// POST: nextPayment is derived from joinDate only when none is stored; nothing is persisted
// INVARIANT: The served role agrees with page gating for the same request
func QueryGetProfile(ctx context.Context, query GetProfileQuery, deps GetProfileDeps) (ProfileView, error) {
	p, err := deps.Profiles.GetByID(ctx, query.UserID)
	if err != nil {
		return ProfileView{}, err
	}

	role, mismatch := access.ServedRole(p.Role, query.IsAdmin)
	if mismatch {
		slog.Warn("role_mismatch", "user_id", p.ID, "stored_role", p.Role, "served_role", role)
	}

	next := p.NextPayment
	if next == "" && p.JoinDate != "" {
		now := time.Now()
		if deps.Now != nil {
			now = deps.Now()
		}
		if deps.Location != nil {
			now = now.In(deps.Location)
		}
		if derived, err := billing.NextPaymentDate(p.JoinDate, now); err == nil {
			next = derived
		} else {
			slog.Warn("next_payment_underivable", "user_id", p.ID, "join_date", p.JoinDate, "error", err)
		}
	}

	classes := p.Classes
	if classes == nil {
		classes = []string{}
	}
	progress := p.ClassProgress
	if progress == nil {
		progress = []profile.ClassProgress{}
	}

	return ProfileView{
		ID:            p.ID,
		Email:         p.Email,
		Name:          p.FullName,
		Avatar:        p.Avatar,
		BirthDate:     p.BirthDate,
		Nationality:   p.Nationality,
		HasExperience: p.HasExperience,
		HowFound:      p.HowFound,
		HealthInfo:    p.HealthInfo,
		IsMinor:       p.Underage,
		ParentName:    p.ParentName,
		ParentPhone:   p.ParentPhone,
		Address:       p.Address,
		JoinDate:      p.JoinDate,
		NextPayment:   next,
		Classes:       classes,
		ClassProgress: progress,
		Streak:        p.Streak,
		Training:      p.Training,
		Role:          role,
		BeltLevel:     p.BeltLevel,
		WaiverSigned:  p.WaiverSigned,
	}, nil
}
