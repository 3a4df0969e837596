package schedule

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// COVERAGE REPORT - Scheduled hours per guard over a date range
// =============================================================================

// GuardCoverage is one guard's scheduled workload in the report range.
type GuardCoverage struct {
	GuardID GuardID
	Shifts  int
	Hours   decimal.Decimal
}

// CoverageReport summarizes a sub-unit's scheduled workload. Hours use
// decimal arithmetic so half-hour shift boundaries never accumulate
// floating-point error.
type CoverageReport struct {
	SubunitID SubunitID
	From      time.Time
	To        time.Time

	TotalShifts int
	TotalHours  decimal.Decimal

	// Unassigned counts pending-assignment rows still waiting for a guard.
	Unassigned int

	Guards []GuardCoverage
}

// CoverageReporter computes coverage reports from persisted shifts.
type CoverageReporter struct {
	Shifts ShiftStore
}

// Report aggregates scheduled hours per guard in [from, to].
func (r *CoverageReporter) Report(ctx context.Context, subunitID SubunitID, from, to time.Time) (*CoverageReport, error) {
	shifts, err := r.Shifts.ListRange(ctx, subunitID, Day(from), Day(to))
	if err != nil {
		return nil, err
	}

	report := &CoverageReport{
		SubunitID:  subunitID,
		From:       Day(from),
		To:         Day(to),
		TotalHours: decimal.Zero,
	}

	perGuard := make(map[GuardID]*GuardCoverage)
	for _, shift := range shifts {
		hours, err := shiftHours(shift)
		if err != nil {
			return nil, err
		}

		report.TotalShifts++
		report.TotalHours = report.TotalHours.Add(hours)

		if shift.GuardID == nil {
			if shift.Status == StatusPendingAssignment {
				report.Unassigned++
			}
			continue
		}

		entry, ok := perGuard[*shift.GuardID]
		if !ok {
			entry = &GuardCoverage{GuardID: *shift.GuardID, Hours: decimal.Zero}
			perGuard[*shift.GuardID] = entry
		}
		entry.Shifts++
		entry.Hours = entry.Hours.Add(hours)
	}

	for _, entry := range perGuard {
		report.Guards = append(report.Guards, *entry)
	}
	sort.Slice(report.Guards, func(i, j int) bool {
		return report.Guards[i].GuardID < report.Guards[j].GuardID
	})
	return report, nil
}

// shiftHours computes a shift's duration in decimal hours. Rest shifts (null
// times) contribute zero. An end time at or before the start time means the
// shift spans midnight and gains a day.
func shiftHours(s Shift) (decimal.Decimal, error) {
	if s.StartTime == nil || s.EndTime == nil {
		return decimal.Zero, nil
	}
	start, err := clockMinutes(*s.StartTime)
	if err != nil {
		return decimal.Zero, fmt.Errorf("shift %s: %w", s.ID, err)
	}
	end, err := clockMinutes(*s.EndTime)
	if err != nil {
		return decimal.Zero, fmt.Errorf("shift %s: %w", s.ID, err)
	}
	if end <= start {
		end += 24 * 60
	}
	return decimal.NewFromInt(int64(end - start)).Div(decimal.NewFromInt(60)), nil
}

// clockMinutes parses an "HH:MM" clock string into minutes since midnight.
func clockMinutes(clock string) (int, error) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q", clock)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid clock time %q", clock)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid clock time %q", clock)
	}
	return hours*60 + minutes, nil
}
