package domain

import (
	"strings"
	"time"
)

const invalidDateMessage = "Invalid date input"

// dayLayouts are tried in order by ParseDate and ParseDay.
var dayLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// Day is the UTC calendar day (year, month, day-of-month) of an instant.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar day of t in UTC, whatever location t carries.
// The events.event_day column is derived the same way.
func DayOf(t time.Time) (Day, error) {
	if t.IsZero() {
		return Day{}, &InvalidInputError{Message: invalidDateMessage}
	}
	y, m, d := t.UTC().Date()
	return Day{Year: y, Month: m, Day: d}, nil
}

// ParseDate reads s as a date or date-time and returns the instant in UTC.
// Strings without an offset are read as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, &InvalidInputError{Message: invalidDateMessage}
	}
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &InvalidInputError{Message: invalidDateMessage}
}

// ParseDay reads s like ParseDate and returns its calendar day.
func ParseDay(s string) (Day, error) {
	t, err := ParseDate(s)
	if err != nil {
		return Day{}, err
	}
	return DayOf(t)
}

// Contains reports whether t falls on d.
func (d Day) Contains(t time.Time) bool {
	got, err := DayOf(t)
	return err == nil && got == d
}

// Date returns midnight of d in loc.
func (d Day) Date(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Day) String() string {
	return d.Date(time.UTC).Format(time.DateOnly)
}
