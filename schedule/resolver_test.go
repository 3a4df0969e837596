package schedule_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/shift-engine/schedule"
	"github.com/warp/shift-engine/schedule/store"
)

// =============================================================================
// CYCLE-STATE RESOLUTION
// =============================================================================

func TestCycleStates_CountsDistinctLabels(t *testing.T) {
	// GIVEN: A six-row cycle with repeated DAY/NIGHT/REST labels
	// WHEN: Resolving the state count
	// THEN: Repeats collapse to 3 distinct states

	mem := store.NewMemory()
	config, details := sixRowCycle("cfg-1")
	mem.AddConfiguration(config, details)

	resolver := &schedule.ConfigResolver{Store: mem}
	states, err := resolver.CycleStates(context.Background(), "cfg-1")
	require.NoError(t, err)
	assert.Equal(t, 3, states)
}

func TestCycleStates_NoDetails_FallsBackToDefault(t *testing.T) {
	mem := store.NewMemory()
	mem.AddConfiguration(schedule.RotationConfiguration{
		ID: "cfg-empty", Name: "hollow", Projection: schedule.ProjectionCyclic, Active: true,
	}, nil)

	resolver := &schedule.ConfigResolver{Store: mem}
	states, err := resolver.CycleStates(context.Background(), "cfg-empty")
	require.NoError(t, err)
	assert.Equal(t, schedule.DefaultCycleStates, states)
}

func TestRequiredHeadcount_Formula(t *testing.T) {
	// Required headcount is guards-per-shift times distinct states.
	mem := store.NewMemory()
	config, details := sixRowCycle("cfg-1")
	mem.AddConfiguration(config, details)

	resolver := &schedule.ConfigResolver{Store: mem}
	required, err := resolver.RequiredHeadcount(context.Background(), 2, "cfg-1")
	require.NoError(t, err)
	assert.Equal(t, 6, required)

	required, err = resolver.RequiredHeadcount(context.Background(), 3, "cfg-1")
	require.NoError(t, err)
	assert.Equal(t, 9, required)
}
