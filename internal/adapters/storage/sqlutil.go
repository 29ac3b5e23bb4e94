package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// TimeLayout is the timestamp format written to TEXT columns.
const TimeLayout = "2006-01-02T15:04:05.999999999Z07:00"

// ErrNotFound is returned by stores when a row does not exist.
var ErrNotFound = errors.New("not found")

// FormatTime renders t for storage; the zero time is stored as "".
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimeLayout)
}

// ParseTime accepts the formats this codebase and SQLite defaults produce.
func ParseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time: %s", s)
}

// NullableString maps "" to SQL NULL.
func NullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// NotFound wraps sql.ErrNoRows into ErrNotFound with the entity name.
func NotFound(entity string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s not found: %w", entity, ErrNotFound)
	}
	return err
}

// RequireAffected returns ErrNotFound when an UPDATE or DELETE touched no rows.
func RequireAffected(entity string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s not found: %w", entity, ErrNotFound)
	}
	return nil
}
