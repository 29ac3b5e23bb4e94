package orchestrators

import (
	"context"
	"fmt"

	"dojo/internal/domain/profile"
)

// ProfileStoreForUpdate reads and writes a member's own profile.
type ProfileStoreForUpdate interface {
	GetByID(ctx context.Context, id string) (profile.Profile, error)
	Save(ctx context.Context, p profile.Profile) error
}

// UpdateProfileInput carries a partial self-update. Nil fields are left unchanged.
type UpdateProfileInput struct {
	UserID        string
	FullName      *string
	Avatar        *string
	BirthDate     *string
	Nationality   *string
	HasExperience *bool
	HowFound      *string
	HealthInfo    *string
	Underage      *bool
	ParentName    *string
	ParentPhone   *string
	Address       *string
	Classes       []string
}

// UpdateProfileDeps holds dependencies for UpdateProfile.
type UpdateProfileDeps struct {
	Profiles ProfileStoreForUpdate
}

// ExecuteUpdateProfile applies member-editable fields to the caller's profile.
// PRE: UserID is the authenticated user
// POST: Role, belt, notes, join date and billing fields are never touched
func ExecuteUpdateProfile(ctx context.Context, input UpdateProfileInput, deps UpdateProfileDeps) (profile.Profile, error) {
	p, err := deps.Profiles.GetByID(ctx, input.UserID)
	if err != nil {
		return profile.Profile{}, err
	}

	setString(&p.FullName, input.FullName)
	setString(&p.Avatar, input.Avatar)
	setString(&p.BirthDate, input.BirthDate)
	setString(&p.Nationality, input.Nationality)
	setString(&p.HowFound, input.HowFound)
	setString(&p.HealthInfo, input.HealthInfo)
	setString(&p.ParentName, input.ParentName)
	setString(&p.ParentPhone, input.ParentPhone)
	setString(&p.Address, input.Address)
	if input.HasExperience != nil {
		p.HasExperience = *input.HasExperience
	}
	if input.Underage != nil {
		p.Underage = *input.Underage
	}
	if input.Classes != nil {
		p.Classes = input.Classes
	}

	if err := p.Validate(); err != nil {
		return profile.Profile{}, invalid("", err)
	}
	if err := deps.Profiles.Save(ctx, p); err != nil {
		return profile.Profile{}, fmt.Errorf("save profile: %w", err)
	}
	return p, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
