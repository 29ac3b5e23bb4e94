package projections

import (
	"context"

	auditStore "dojo/internal/adapters/storage/audit"
	"dojo/internal/domain/audit"
)

// AuditLister lists audit entries.
type AuditLister interface {
	List(ctx context.Context, filter auditStore.Filter, limit int) ([]audit.Entry, error)
}

// ReportsQuery optionally narrows the report to one level.
type ReportsQuery struct {
	Level string
}

// QueryReports returns the latest audit entries, newest first.
// POST: At most audit.ReportLimit entries; never nil
func QueryReports(ctx context.Context, query ReportsQuery, store AuditLister) ([]audit.Entry, error) {
	var filter auditStore.Filter
	if query.Level != "" {
		level := audit.Level(query.Level)
		filter.Level = &level
	}
	entries, err := store.List(ctx, filter, audit.ReportLimit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	return entries, nil
}
