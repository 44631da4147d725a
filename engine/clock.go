package engine

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Day-granularity calendar date (this IS a daily attendance system)
// =============================================================================

// Date is a calendar date with no time-of-day component. All record
// uniqueness, week windows and the future-date rule operate on Dates,
// never on wall-clock instants.
type Date struct {
	Time time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Today returns the business "today" in local calendar terms.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.normalize().Before(other.normalize()) }
func (d Date) Equal(other Date) bool         { return d.normalize().Equal(other.normalize()) }
func (d Date) After(other Date) bool         { return d.normalize().After(other.normalize()) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d Date) AddDays(n int) Date   { return Date{Time: d.Time.AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{Time: d.Time.AddDate(0, n, 0)} }

// Properties
func (d Date) Year() int             { return d.Time.Year() }
func (d Date) Month() time.Month     { return d.Time.Month() }
func (d Date) Day() int              { return d.Time.Day() }
func (d Date) Weekday() time.Weekday { return d.normalize().Weekday() }
func (d Date) IsZero() bool          { return d.Time.IsZero() }

func (d Date) String() string { return d.normalize().Format("2006-01-02") }

// StartOfWeek snaps the date to the Monday of its ISO week: subtract the
// weekday index with Monday = 0 (so Sunday snaps back 6 days).
func (d Date) StartOfWeek() Date {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

// IsMonday reports whether the date is week-aligned.
func (d Date) IsMonday() bool { return d.Weekday() == time.Monday }

func DaysBetween(from, to Date) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}

// =============================================================================
// PERIOD - Inclusive date window for aggregation
// =============================================================================

// Period is an inclusive [Start, End] date window. Weekly summaries use a
// Monday-Sunday period; monthly reports use a calendar-month period.
type Period struct {
	Start Date
	End   Date
}

// Contains returns true if the date is within the period [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// WeekPeriod returns the Monday-Sunday window starting at weekStart.
// The caller supplies a correctly aligned Monday; this does not snap.
func WeekPeriod(weekStart Date) Period {
	return Period{Start: weekStart, End: weekStart.AddDays(6)}
}

// WeekOf returns the Monday-Sunday window containing d (convenience
// wrapper that does the Monday snap).
func WeekOf(d Date) Period {
	return WeekPeriod(d.StartOfWeek())
}

// MonthPeriod returns the calendar-month window for year/month.
func MonthPeriod(year int, month time.Month) Period {
	start := NewDate(year, month, 1)
	end := start.AddMonths(1).AddDays(-1)
	return Period{Start: start, End: end}
}

// =============================================================================
// CLOCK TIME - Minute-granularity time of day ("HH:MM")
// =============================================================================

// ClockTime is a time of day in minutes since midnight. Session endpoints
// (am_time_in etc.) are ClockTimes; a record's Date carries the calendar day.
type ClockTime int

// ParseClock parses a 24-hour "HH:MM" string.
func ParseClock(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return ClockTime(t.Hour()*60 + t.Minute()), nil
}

// MustClock parses a "HH:MM" string and returns a pointer, panicking on
// malformed input. For tests and seed data with literal times.
func MustClock(s string) *ClockTime {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return &c
}

func (c ClockTime) Hour() int   { return int(c) / 60 }
func (c ClockTime) Minute() int { return int(c) % 60 }

func (c ClockTime) Before(other ClockTime) bool { return c < other }
func (c ClockTime) After(other ClockTime) bool  { return c > other }

// MinutesUntil returns the signed minute span from c to other.
func (c ClockTime) MinutesUntil(other ClockTime) int { return int(other) - int(c) }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}
