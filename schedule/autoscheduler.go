/*
autoscheduler.go - Monthly batch driver

PURPOSE:

	Iterates all active sub-units carrying a configuration and generates any
	period that is not already fully scheduled. Designed to run daily from a
	cron trigger: every pass is idempotent and safe to interrupt mid-loop.

PERIOD TARGETS:

	The current month is always a target. Once the day of month reaches 25,
	next month becomes a target too, so upcoming rosters exist before the
	month boundary.

IDEMPOTENCY:

	A sub-unit/period is skipped only when BOTH hold:
	- a generation-log row exists for (subunit, month, year), and
	- the period's shift row count exceeds a small threshold.
	The log alone is not trusted; a log row with missing shifts is retried.

FAILURE ISOLATION:

	Each sub-unit's failure is caught and logged; the loop continues. The
	result reports aggregate counts, not a single pass/fail.

SEE ALSO:
  - api/scheduler.go: Cron wiring around Run
*/
package schedule

import (
	"context"
	"log"
	"time"
)

// SkipRowThreshold is the minimum shift count for a period to be considered
// already generated. A lone generation-log row below this is retried.
const SkipRowThreshold = 10

// nextMonthDay is the day of month from which next month is pre-generated.
const nextMonthDay = 25

// AutoSchedulerStats are the aggregate results of one batch pass.
type AutoSchedulerStats struct {
	Periods   int
	Generated int
	Skipped   int
	Failed    int
}

// AutoScheduler is the monthly batch driver. Sub-units are processed
// strictly sequentially; there is no parallel fan-out against the store.
type AutoScheduler struct {
	Service *Service

	// Now overrides the clock for tests. Nil means time.Now.
	Now func() time.Time
}

// Run executes one batch pass over every active sub-unit and target period.
func (a *AutoScheduler) Run(ctx context.Context) (*AutoSchedulerStats, error) {
	now := Today()
	if a.Now != nil {
		now = Day(a.Now())
	}

	periods := []time.Time{mustMonthStart(now)}
	if now.Day() >= nextMonthDay {
		periods = append(periods, mustMonthStart(now).AddDate(0, 1, 0))
	}

	subunits, err := a.Service.Config.ListActiveSubunits(ctx)
	if err != nil {
		return nil, err
	}

	stats := &AutoSchedulerStats{Periods: len(periods)}
	for _, period := range periods {
		for _, subunit := range subunits {
			if subunit.ConfigurationID == nil {
				continue
			}

			done, err := a.alreadyScheduled(ctx, subunit.ID, period)
			if err != nil {
				log.Printf("[AutoScheduler] skip check failed for sub-unit %s: %v", subunit.ID, err)
				stats.Failed++
				continue
			}
			if done {
				stats.Skipped++
				continue
			}

			if _, err := a.Service.Generate(ctx, subunit.ID, period, true, "auto-scheduler"); err != nil {
				log.Printf("[AutoScheduler] generation failed for sub-unit %s (%s): %v",
					subunit.ID, period.Format("2006-01"), err)
				stats.Failed++
				continue
			}
			stats.Generated++
		}
	}

	log.Printf("[AutoScheduler] completed: %d generated, %d skipped, %d failed across %d period(s)",
		stats.Generated, stats.Skipped, stats.Failed, stats.Periods)
	return stats, nil
}

// alreadyScheduled applies the two-signal idempotency check for one period.
func (a *AutoScheduler) alreadyScheduled(ctx context.Context, subunitID SubunitID, period time.Time) (bool, error) {
	exists, err := a.Service.Log.LogExists(ctx, subunitID, period.Month(), period.Year())
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	count, err := a.Service.Shifts.CountRange(ctx, subunitID, period, EndOfMonth(period))
	if err != nil {
		return false, err
	}
	return count > SkipRowThreshold, nil
}

func mustMonthStart(t time.Time) time.Time {
	start, _ := MonthWindow(t)
	return start
}
