package billing

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"
)

// DateLayout is the civil date format used for join and payment dates.
const DateLayout = "2006-01-02"

// DefaultTimezone is the gym's local zone; "today" is always evaluated here.
const DefaultTimezone = "America/Tijuana"

// ErrInvalidJoinDate is returned when the join date is not a YYYY-MM-DD civil date.
var ErrInvalidJoinDate = errors.New("join date must be YYYY-MM-DD")

// NextPaymentDate returns the next monthly anniversary of joinDate strictly
// after the civil date of now. The anniversary day is clamped to the length
// of the target month, so a member who joined on the 31st pays on the 29th
// (or 28th) in February.
// PRE: now is already expressed in the gym's time zone
// POST: Returns a YYYY-MM-DD date later than now's civil date
// INVARIANT: The join year and month do not influence the result
func NextPaymentDate(joinDate string, now time.Time) (string, error) {
	join, err := time.Parse(DateLayout, joinDate)
	if err != nil {
		return "", ErrInvalidJoinDate
	}
	anniversary := join.Day()

	year, month, today := now.Date()
	day := clampDay(anniversary, year, month)
	if day <= today {
		month++
		if month > time.December {
			month = time.January
			year++
		}
		day = clampDay(anniversary, year, month)
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day), nil
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func clampDay(day, year int, month time.Month) int {
	if n := DaysIn(year, month); day > n {
		return n
	}
	return day
}

// Today returns the civil date of now in loc, formatted as YYYY-MM-DD.
// A nil loc means UTC.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(DateLayout)
}

// AddDays shifts a YYYY-MM-DD date by n days.
// PRE: date is a valid civil date
func AddDays(date string, n int) (string, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", err
	}
	return d.AddDate(0, 0, n).Format(DateLayout), nil
}

// LoadLocation resolves a time zone name, falling back to DefaultTimezone
// when name is empty.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", name, err)
	}
	return loc, nil
}
