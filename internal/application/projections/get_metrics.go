package projections

import (
	"context"
	"time"

	membershipStore "dojo/internal/adapters/storage/membership"
)

// AssignmentCounter counts assignments matching a filter.
type AssignmentCounter interface {
	Count(ctx context.Context, filter membershipStore.AssignmentFilter) (int, error)
}

// Counter returns a total row count.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// TrainingLogCounter counts all training entries.
type TrainingLogCounter interface {
	CountAll(ctx context.Context) (int, error)
}

// ClassLogCounter counts class sessions from a date.
type ClassLogCounter interface {
	CountFrom(ctx context.Context, fromDate string) (int, error)
}

// Metrics is the admin dashboard summary.
type Metrics struct {
	ActiveMembers      int `json:"activeMembers"`
	TotalLogs          int `json:"totalLogs"`
	UpcomingClasses    int `json:"upcomingClasses"`
	PendingPayments    int `json:"pendingPayments"`
	ClassLogsThisMonth int `json:"classLogsThisMonth"`
}

// MetricsDeps holds dependencies for AdminMetrics.
type MetricsDeps struct {
	Assignments AssignmentCounter
	TrainingLog TrainingLogCounter
	Classes     Counter
	ClassLogs   ClassLogCounter
	Location    *time.Location
	Now         func() time.Time
}

// QueryAdminMetrics computes the dashboard counters.
// POST: ActiveMembers excludes assignments already past due
func QueryAdminMetrics(ctx context.Context, deps MetricsDeps) (Metrics, error) {
	today := gymToday(deps.Location, deps.Now)

	active, err := deps.Assignments.Count(ctx, membershipStore.AssignmentFilter{ActiveOnly: true})
	if err != nil {
		return Metrics{}, err
	}
	pending, err := deps.Assignments.Count(ctx, membershipStore.AssignmentFilter{ActiveOnly: true, HasEndDate: true, EndBefore: today})
	if err != nil {
		return Metrics{}, err
	}
	logs, err := deps.TrainingLog.CountAll(ctx)
	if err != nil {
		return Metrics{}, err
	}
	classes, err := deps.Classes.Count(ctx)
	if err != nil {
		return Metrics{}, err
	}
	monthly, err := deps.ClassLogs.CountFrom(ctx, today[:8]+"01")
	if err != nil {
		return Metrics{}, err
	}

	return Metrics{
		ActiveMembers:      active - pending,
		TotalLogs:          logs,
		UpcomingClasses:    classes,
		PendingPayments:    pending,
		ClassLogsThisMonth: monthly,
	}, nil
}
