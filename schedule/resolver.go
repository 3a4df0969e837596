package schedule

import (
	"context"
	"log"
)

// =============================================================================
// CONFIGURATION RESOLVER - Cycle arithmetic from detail rows
// =============================================================================

// DefaultCycleStates is the conservative fallback when a configuration has
// no detail rows. Generation must not hard-fail on missing cycle metadata.
const DefaultCycleStates = 3

// ConfigResolver derives cycle arithmetic from a configuration's detail rows.
type ConfigResolver struct {
	Store ConfigStore
}

// CycleStates returns the number of distinct shift-state labels among the
// configuration's detail rows, in insertion order. Falls back to
// DefaultCycleStates with a logged warning when no rows exist.
func (r *ConfigResolver) CycleStates(ctx context.Context, id ConfigurationID) (int, error) {
	details, err := r.Store.GetConfigurationDetails(ctx, id)
	if err != nil {
		return 0, err
	}
	if len(details) == 0 {
		log.Printf("[Resolver] configuration %s has no detail rows, assuming %d cycle states", id, DefaultCycleStates)
		return DefaultCycleStates, nil
	}

	seen := make(map[string]bool, len(details))
	count := 0
	for _, d := range details {
		if !seen[d.StateLabel] {
			seen[d.StateLabel] = true
			count++
		}
	}
	return count, nil
}

// RequiredHeadcount is the headcount formula driving all completeness
// checks: activeGuards * cycleStates.
func (r *ConfigResolver) RequiredHeadcount(ctx context.Context, activeGuards int, id ConfigurationID) (int, error) {
	states, err := r.CycleStates(ctx, id)
	if err != nil {
		return 0, err
	}
	return activeGuards * states, nil
}
