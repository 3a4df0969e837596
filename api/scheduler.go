/*
scheduler.go - Cron wrapper around the automatic shift scheduler

PURPOSE:

	Runs the monthly shift generation sweep on a cron schedule so active
	subunits always have a current (and, late in the month, next) period
	scheduled without manual intervention.

DESIGN:
  - robfig/cron drives the schedule (default: one daily run at 02:00)
  - Each tick delegates to schedule.AutoScheduler, which decides per
    subunit whether the period is already covered
  - RunNow triggers an immediate pass for admin and test use

CONFIGURATION:
  - Spec: Cron expression (default "0 2 * * *")
  - Enabled: Whether the cron loop starts (default true)

USAGE:

	cs := NewCronScheduler(service)
	cs.Start()
	// ... later
	cs.Stop()

SEE ALSO:
  - schedule/autoscheduler.go: Skip rules and period selection
  - handlers.go: RunScheduler endpoint (manual trigger)
*/
package api

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/warp/shift-engine/schedule"
)

// CronScheduler runs the auto-scheduler on a cron expression.
type CronScheduler struct {
	Service *schedule.Service
	Spec    string
	Enabled bool

	cron *cron.Cron
}

// NewCronScheduler creates a scheduler with the default daily spec.
func NewCronScheduler(service *schedule.Service) *CronScheduler {
	return &CronScheduler{
		Service: service,
		Spec:    "0 2 * * *",
		Enabled: true,
	}
}

// Start begins the cron loop.
func (cs *CronScheduler) Start() error {
	if !cs.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return nil
	}

	cs.cron = cron.New()
	if _, err := cs.cron.AddFunc(cs.Spec, cs.tick); err != nil {
		return err
	}
	cs.cron.Start()
	log.Printf("[Scheduler] Started with spec %q", cs.Spec)
	return nil
}

// Stop stops the cron loop and waits for a running pass to finish.
func (cs *CronScheduler) Stop() {
	if cs.cron != nil {
		ctx := cs.cron.Stop()
		<-ctx.Done()
		log.Println("[Scheduler] Stopped")
	}
}

// RunNow triggers an immediate pass (for testing/admin).
func (cs *CronScheduler) RunNow() (*schedule.AutoSchedulerStats, error) {
	runner := &schedule.AutoScheduler{Service: cs.Service}
	return runner.Run(context.Background())
}

func (cs *CronScheduler) tick() {
	if _, err := cs.RunNow(); err != nil {
		log.Printf("[Scheduler] Pass failed: %v", err)
	}
}
