// Package calendar does whole-day arithmetic on civil dates.
//
// Stored dates arrive as ISO strings; anything that does not parse is
// reported as absent instead of failing, so callers can treat it as
// "not tracked".
package calendar

import (
	"strings"
	"time"
)

const DayLayout = "2006-01-02"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDay returns the civil date of s as midnight UTC. Timestamps with an
// offset are first moved into loc so the calendar day matches the caller's.
func ParseDay(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DayLayout, s); err == nil {
		return t, true
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			continue
		}
		return Day(t.In(loc)), true
	}
	return time.Time{}, false
}

// Day truncates t to its calendar date, expressed as midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts whole calendar days from from to to; negative when to is earlier.
func DaysBetween(from, to time.Time) int {
	return int(Day(to).Sub(Day(from)).Hours() / 24)
}

// DaysUntil parses date and returns date − today in whole days.
func DaysUntil(date string, today time.Time) (int, bool) {
	day, ok := ParseDay(date, today.Location())
	if !ok {
		return 0, false
	}
	return DaysBetween(today, day), true
}

// StartOfMonth returns the first day of today's month.
func StartOfMonth(today time.Time) time.Time {
	y, m, _ := today.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func Format(t time.Time) string {
	return t.Format(DayLayout)
}
