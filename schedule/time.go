package schedule

import (
	"context"
	"time"
)

// =============================================================================
// DAY ARITHMETIC - All scheduling math happens on UTC midnights
// =============================================================================

// Day truncates a time to midnight UTC. Every date stored or compared by the
// engine goes through this first, so day diffs are exact integers and no
// timezone drift can leak into cycle arithmetic.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current date at midnight UTC.
func Today() time.Time { return Day(time.Now().UTC()) }

// DaysBetween returns the whole number of days from one midnight to another.
// Negative when to precedes from.
func DaysBetween(from, to time.Time) int {
	return int(Day(to).Sub(Day(from)).Hours() / 24)
}

// MonthWindow returns the first day of t's month and the number of days in it.
func MonthWindow(t time.Time) (start time.Time, days int) {
	start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	days = DaysBetween(start, start.AddDate(0, 1, 0))
	return start, days
}

// EndOfMonth returns the last day of t's month at midnight UTC.
func EndOfMonth(t time.Time) time.Time {
	start, days := MonthWindow(t)
	return start.AddDate(0, 0, days-1)
}

// FarFuture is the open-ended upper bound for windowed deletes when the
// caller does not supply one.
var FarFuture = time.Date(2100, time.January, 1, 0, 0, 0, 0, time.UTC)

// =============================================================================
// HOLIDAY PROVIDER - External collaborator, failure degrades to "no holidays"
// =============================================================================

// HolidayProvider returns the holiday dates in [from, to]. Callers must treat
// a provider error as an empty holiday set; the generator logs and proceeds.
type HolidayProvider interface {
	Holidays(ctx context.Context, from, to time.Time) ([]time.Time, error)
}

// NoHolidays is the no-op provider used when holiday data is unavailable.
type NoHolidays struct{}

func (NoHolidays) Holidays(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	return nil, nil
}

// holidaySet indexes holiday dates by day for O(1) membership checks.
type holidaySet map[time.Time]bool

func newHolidaySet(dates []time.Time) holidaySet {
	set := make(holidaySet, len(dates))
	for _, d := range dates {
		set[Day(d)] = true
	}
	return set
}

func (h holidaySet) contains(date time.Time) bool { return h[Day(date)] }
