package trend

import (
	"fmt"
	"time"
)

const (
	daysPerWeek   = 7
	secondsPerDay = 24 * 60 * 60
	dateLayout  = "2006-01-02"
)

// DefaultAnchor is the first day of week 1 used by the dashboard.
var DefaultAnchor = time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)

// Calendar buckets dates into fixed seven-day windows counted from Anchor.
// Week 1 starts on the anchor day; earlier dates map to week 0 and below.
type Calendar struct {
	anchor time.Time
}

// NewCalendar returns a calendar anchored at the calendar day of anchor.
func NewCalendar(anchor time.Time) Calendar {
	return Calendar{anchor: civilDay(anchor)}
}

// ParseAnchor parses a YYYY-MM-DD anchor date.
func ParseAnchor(s string) (Calendar, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Calendar{}, fmt.Errorf("parse week anchor %q: %w", s, err)
	}
	return NewCalendar(t), nil
}

func (c Calendar) Anchor() time.Time { return c.anchor }

// WeekOf returns floor((day(t) - anchor) / 7) + 1.
func (c Calendar) WeekOf(t time.Time) int {
	days := (civilDay(t).Unix() - c.anchor.Unix()) / secondsPerDay
	return int(floorDiv(days, daysPerWeek)) + 1
}

// Range returns the first and last (inclusive) day of the given week.
func (c Calendar) Range(week int) (start, end time.Time) {
	start = c.anchor.AddDate(0, 0, (week-1)*daysPerWeek)
	end = start.AddDate(0, 0, daysPerWeek-1)
	return start, end
}

// civilDay drops the clock part of t, keeping the calendar day as observed in
// t's own location, and returns it as UTC midnight.
func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
