package projections

import (
	"context"

	classLogStore "dojo/internal/adapters/storage/classlog"
	membershipStore "dojo/internal/adapters/storage/membership"
	profileStore "dojo/internal/adapters/storage/profile"
	"dojo/internal/application/listutil"
	"dojo/internal/domain/access"
	"dojo/internal/domain/classlog"
	"dojo/internal/domain/membership"
	"dojo/internal/domain/profile"
	"dojo/internal/domain/traininglog"
)

// ProfileLister pages through profiles.
type ProfileLister interface {
	List(ctx context.Context, filter profileStore.ListFilter) ([]profile.Profile, error)
	Count(ctx context.Context, filter profileStore.ListFilter) (int, error)
}

// UserRow is a student in the admin user list.
type UserRow struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	JoinDate     string `json:"joinDate"`
	BeltLevel    string `json:"belt_level"`
	StudentNotes string `json:"student_notes"`
	WaiverSigned bool   `json:"waiverSigned"`
	IsMinor      bool   `json:"isMinor"`
}

// AdminUsersResult carries one page of students.
type AdminUsersResult struct {
	Users []UserRow         `json:"users"`
	Page  listutil.PageInfo `json:"page"`
}

// AdminUsersDeps holds dependencies for AdminUsers.
type AdminUsersDeps struct {
	Profiles ProfileLister
}

// QueryAdminUsers lists students, newest join date first.
// POST: Administrators are excluded
func QueryAdminUsers(ctx context.Context, params listutil.Params, deps AdminUsersDeps) (AdminUsersResult, error) {
	filter := profileStore.ListFilter{Role: access.RoleUser, Search: params.Search}
	total, err := deps.Profiles.Count(ctx, filter)
	if err != nil {
		return AdminUsersResult{}, err
	}
	page := listutil.NewPageInfo(params.Page, params.PerPage, total)
	filter.Limit = page.PerPage
	filter.Offset = page.Offset()

	profiles, err := deps.Profiles.List(ctx, filter)
	if err != nil {
		return AdminUsersResult{}, err
	}
	rows := make([]UserRow, 0, len(profiles))
	for _, p := range profiles {
		rows = append(rows, toUserRow(p))
	}
	return AdminUsersResult{Users: rows, Page: page}, nil
}

func toUserRow(p profile.Profile) UserRow {
	return UserRow{
		ID:           p.ID,
		Name:         p.FullName,
		Email:        p.Email,
		JoinDate:     p.JoinDate,
		BeltLevel:    p.BeltLevel,
		StudentNotes: p.StudentNotes,
		WaiverSigned: p.WaiverSigned,
		IsMinor:      p.Underage,
	}
}

// TrainingLogLister lists a member's training entries.
type TrainingLogLister interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]traininglog.Entry, error)
}

// ClassLogLister lists class sessions.
type ClassLogLister interface {
	List(ctx context.Context, filter classLogStore.ListFilter) ([]classlog.Log, error)
}

// UserDetail is the admin view of a single student.
type UserDetail struct {
	UserRow
	Phone       string                  `json:"parentPhone"`
	HealthInfo  string                  `json:"healthInfo"`
	Training    profile.Training        `json:"training"`
	Progress    []profile.ClassProgress `json:"classProgress"`
	Memberships []membership.Assignment `json:"memberships"`
	RecentHours []traininglog.Entry     `json:"recentHours"`
	ClassLogs   []classlog.Log          `json:"classLogs"`
}

// AdminUserDetailDeps holds dependencies for AdminUserDetail.
type AdminUserDetailDeps struct {
	Profiles    ProfileGetter
	Assignments AssignmentLister
	Training    TrainingLogLister
	ClassLogs   ClassLogLister
}

// RecentActivityLimit bounds the history lists on the detail page.
const RecentActivityLimit = 20

// QueryAdminUserDetail gathers a student's profile and history.
func QueryAdminUserDetail(ctx context.Context, userID string, deps AdminUserDetailDeps) (UserDetail, error) {
	p, err := deps.Profiles.GetByID(ctx, userID)
	if err != nil {
		return UserDetail{}, err
	}
	assignments, err := deps.Assignments.List(ctx, membershipStore.AssignmentFilter{UserID: userID})
	if err != nil {
		return UserDetail{}, err
	}
	hours, err := deps.Training.ListByUser(ctx, userID, RecentActivityLimit)
	if err != nil {
		return UserDetail{}, err
	}
	logs, err := deps.ClassLogs.List(ctx, classLogStore.ListFilter{UserID: userID, Limit: RecentActivityLimit})
	if err != nil {
		return UserDetail{}, err
	}
	return UserDetail{
		UserRow:     toUserRow(p),
		Phone:       p.ParentPhone,
		HealthInfo:  p.HealthInfo,
		Training:    p.Training,
		Progress:    p.ClassProgress,
		Memberships: assignments,
		RecentHours: hours,
		ClassLogs:   logs,
	}, nil
}
