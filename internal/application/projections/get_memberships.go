package projections

import (
	"context"
	"time"

	membershipStore "dojo/internal/adapters/storage/membership"
	"dojo/internal/domain/billing"
	"dojo/internal/domain/membership"
)

// AssignmentViewLister lists assignments joined with their members.
type AssignmentViewLister interface {
	ListWithMembers(ctx context.Context, filter membershipStore.AssignmentFilter) ([]membershipStore.AssignmentView, error)
}

// MembershipRow is one member's assignment in the admin lists.
type MembershipRow struct {
	AssignmentID string            `json:"id"`
	UserID       string            `json:"userId"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Type         string            `json:"type"`
	StartDate    string            `json:"startDate"`
	EndDate      string            `json:"endDate"`
	TotalPaid    float64           `json:"totalPaid"`
	Status       membership.Status `json:"status"`
}

// MembershipListQuery selects a window relative to today. Zero means today
// only; a negative value selects DefaultExpiringWindowDays.
type MembershipListQuery struct {
	WindowDays int
}

// MembershipListDeps holds dependencies for the membership lists.
type MembershipListDeps struct {
	Assignments AssignmentViewLister
	Location    *time.Location
	Now         func() time.Time
}

// MembershipListResult carries the rows and the date they were computed for.
type MembershipListResult struct {
	Today string          `json:"today"`
	Rows  []MembershipRow `json:"rows"`
}

// QueryExpiringMemberships lists active assignments ending within the window,
// today included.
// POST: Every row has status expiring
func QueryExpiringMemberships(ctx context.Context, query MembershipListQuery, deps MembershipListDeps) (MembershipListResult, error) {
	window := query.WindowDays
	if window < 0 {
		window = membership.DefaultExpiringWindowDays
	}
	today := gymToday(deps.Location, deps.Now)
	limit, err := billing.AddDays(today, window)
	if err != nil {
		return MembershipListResult{}, err
	}
	return listMemberships(ctx, today, window, membershipStore.AssignmentFilter{
		ActiveOnly: true, HasEndDate: true, EndFrom: today, EndTo: limit,
	}, deps)
}

// QueryPendingMemberships lists active assignments whose end date has passed.
// POST: Every row has status pending
func QueryPendingMemberships(ctx context.Context, deps MembershipListDeps) (MembershipListResult, error) {
	today := gymToday(deps.Location, deps.Now)
	return listMemberships(ctx, today, membership.DefaultExpiringWindowDays, membershipStore.AssignmentFilter{
		ActiveOnly: true, HasEndDate: true, EndBefore: today,
	}, deps)
}

func listMemberships(ctx context.Context, today string, window int, filter membershipStore.AssignmentFilter, deps MembershipListDeps) (MembershipListResult, error) {
	views, err := deps.Assignments.ListWithMembers(ctx, filter)
	if err != nil {
		return MembershipListResult{}, err
	}
	rows := make([]MembershipRow, 0, len(views))
	for _, v := range views {
		planType := v.PlanType
		if planType == "" {
			planType = v.Type
		}
		rows = append(rows, MembershipRow{
			AssignmentID: v.ID,
			UserID:       v.UserID,
			Name:         v.FullName,
			Email:        v.Email,
			Type:         planType,
			StartDate:    v.StartDate,
			EndDate:      v.EndDate,
			TotalPaid:    v.TotalPaid,
			Status:       membership.Classify(v.Assignment, today, window),
		})
	}
	return MembershipListResult{Today: today, Rows: rows}, nil
}

func gymToday(loc *time.Location, now func() time.Time) string {
	t := time.Now()
	if now != nil {
		t = now()
	}
	return billing.Today(t, loc)
}
