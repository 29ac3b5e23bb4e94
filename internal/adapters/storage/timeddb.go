package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"dojo/internal/adapters/http/perf"
)

// SQLDB is the database interface used by all stores.
// Both *sql.DB and *TimedDB satisfy this interface.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

var _ SQLDB = (*sql.DB)(nil)

// DefaultSlowQueryMs is the default threshold for slow query warnings.
const DefaultSlowQueryMs = 50

// TimedDB wraps a *sql.DB to log slow queries and record them to a collector.
type TimedDB struct {
	db        *sql.DB
	collector *perf.Collector
	threshold float64
}

var _ SQLDB = (*TimedDB)(nil)

// NewTimedDB wraps db with timing instrumentation. A non-positive slowMs
// falls back to DefaultSlowQueryMs; collector may be nil.
// PRE: db is a valid database connection
// POST: Returns a TimedDB that logs slow queries and records to collector
func NewTimedDB(db *sql.DB, collector *perf.Collector, slowMs int) *TimedDB {
	if slowMs <= 0 {
		slowMs = DefaultSlowQueryMs
	}
	return &TimedDB{
		db:        db,
		collector: collector,
		threshold: float64(slowMs),
	}
}

// RawDB returns the underlying *sql.DB (needed for migrations and pool config).
func (t *TimedDB) RawDB() *sql.DB {
	return t.db
}

func (t *TimedDB) logQuery(op, query string, start time.Time) {
	durationMs := float64(time.Since(start).Microseconds()) / 1000.0

	if durationMs >= t.threshold {
		slog.Warn("slow_query",
			"op", op,
			"query", firstLine(query),
			"duration_ms", durationMs,
		)
	} else {
		slog.Debug("query", "op", op, "duration_ms", durationMs)
	}

	if t.collector != nil {
		t.collector.Record(perf.Entry{
			Kind:       perf.KindQuery,
			Path:       op,
			DurationMs: durationMs,
			Timestamp:  start,
		})
	}
}

// firstLine trims a query to something short enough for a log attribute.
func firstLine(q string) string {
	const max = 120
	for i, r := range q {
		if r == '\n' {
			q = q[:i]
			break
		}
	}
	if len(q) > max {
		return q[:max]
	}
	return q
}

// ExecContext wraps sql.DB.ExecContext with timing.
func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := t.db.ExecContext(ctx, query, args...)
	t.logQuery("ExecContext", query, start)
	return result, err
}

// QueryContext wraps sql.DB.QueryContext with timing.
func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.db.QueryContext(ctx, query, args...)
	t.logQuery("QueryContext", query, start)
	return rows, err
}

// QueryRowContext wraps sql.DB.QueryRowContext with timing.
func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := t.db.QueryRowContext(ctx, query, args...)
	t.logQuery("QueryRowContext", query, start)
	return row
}

// BeginTx wraps sql.DB.BeginTx with timing.
func (t *TimedDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	start := time.Now()
	tx, err := t.db.BeginTx(ctx, opts)
	t.logQuery("BeginTx", "BEGIN", start)
	return tx, err
}

// Close closes the underlying database connection.
func (t *TimedDB) Close() error {
	return t.db.Close()
}

// Ping verifies the database connection.
func (t *TimedDB) Ping() error {
	return t.db.Ping()
}
