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
// ROTATION ENGINE TESTS
// =============================================================================

func TestRotate_ReordersAndRegenerates(t *testing.T) {
	// GIVEN: A fully generated July for six guards
	// WHEN: Rotating over the whole month window
	// THEN: All rows are replaced and the first guard moves to the end

	mem := store.NewMemory()
	seedCyclicSubunit(mem, "ng")
	svc := newTestService(mem)
	engine := &schedule.RotationEngine{Service: svc}
	ctx := context.Background()

	_, err := svc.Generate(ctx, "ng", july2025, true, "test")
	require.NoError(t, err)

	from, to := july2025, schedule.EndOfMonth(july2025)
	result, err := engine.Rotate(ctx, "ng", "ops", &from, &to)
	require.NoError(t, err)

	assert.Equal(t, 186, result.Deleted)
	assert.Equal(t, 186, result.Generated)
	assert.Equal(t, []string{"Guard 02", "Guard 03", "Guard 04", "Guard 05", "Guard 06", "Guard 01"}, result.Order)

	// Guard 2 now leads the roster: offset 0, first DAY row on July 1.
	shifts, err := mem.ListRange(ctx, "ng", july2025, july2025)
	require.NoError(t, err)
	second := guardShifts(shifts, "guard-02")
	require.Len(t, second, 1)
	assert.Equal(t, "DAY", second[0].StateLabel)
	assert.Equal(t, 1, second[0].OrderInCycle)
	assert.Equal(t, 1, second[0].Slot)

	// Guard 1 moved to the last position: offset 5, opening on the final REST row.
	first := guardShifts(shifts, "guard-01")
	require.Len(t, first, 1)
	assert.Equal(t, "REST", first[0].StateLabel)
	assert.Equal(t, 6, first[0].Slot)
}

func TestRotate_FullCycleRestoresOriginalOrder(t *testing.T) {
	// GIVEN: A generated July for six guards
	// WHEN: Rotating six times over the same window
	// THEN: Each pass replaces the same number of shifts, every pass advances
	//       the persisted order by one, and the sixth restores the original

	mem := store.NewMemory()
	seedCyclicSubunit(mem, "ng")
	svc := newTestService(mem)
	engine := &schedule.RotationEngine{Service: svc}
	ctx := context.Background()

	_, err := svc.Generate(ctx, "ng", july2025, true, "test")
	require.NoError(t, err)

	original := []string{"Guard 01", "Guard 02", "Guard 03", "Guard 04", "Guard 05", "Guard 06"}
	from, to := july2025, schedule.EndOfMonth(july2025)

	for pass := 1; pass <= len(original); pass++ {
		result, err := engine.Rotate(ctx, "ng", "ops", &from, &to)
		require.NoError(t, err, "pass %d", pass)
		assert.Equal(t, 186, result.Deleted, "pass %d", pass)
		assert.Equal(t, 186, result.Generated, "pass %d", pass)

		expected := append(append([]string{}, original[pass%6:]...), original[:pass%6]...)
		assert.Equal(t, expected, result.Order, "pass %d", pass)
	}

	// Back to the original lineup: guard 1 opens the month on the first
	// DAY row again.
	dayOne, err := mem.ListRange(ctx, "ng", july2025, july2025)
	require.NoError(t, err)
	lead := guardShifts(dayOne, "guard-01")
	require.Len(t, lead, 1)
	assert.Equal(t, "DAY", lead[0].StateLabel)
	assert.Equal(t, 1, lead[0].Slot)
}

func TestRotate_MidMonthWindow_PreservesEarlierDays(t *testing.T) {
	// GIVEN: A generated month
	// WHEN: Rotating from July 10 onward
	// THEN: July 1-9 keep the original order; July 10+ carry the rotated one,
	//       with cycle math still anchored to the month start

	mem := store.NewMemory()
	seedCyclicSubunit(mem, "ng")
	svc := newTestService(mem)
	engine := &schedule.RotationEngine{Service: svc}
	ctx := context.Background()

	_, err := svc.Generate(ctx, "ng", july2025, true, "test")
	require.NoError(t, err)

	from := july2025.AddDate(0, 0, 9)
	to := schedule.EndOfMonth(july2025)
	result, err := engine.Rotate(ctx, "ng", "ops", &from, &to)
	require.NoError(t, err)

	assert.Equal(t, 6*22, result.Deleted)
	assert.Equal(t, 6*22, result.Generated)

	// July 1 untouched: guard 1 still leads.
	dayOne, err := mem.ListRange(ctx, "ng", july2025, july2025)
	require.NoError(t, err)
	lead := guardShifts(dayOne, "guard-01")
	require.Len(t, lead, 1)
	assert.Equal(t, 1, lead[0].Slot)

	// July 10: guard 2 holds slot 1 under the rotated order, and its cycle
	// row is day-index 9 of the month, not day 0 of the window.
	dayTen, err := mem.ListRange(ctx, "ng", from, from)
	require.NoError(t, err)
	rotatedLead := guardShifts(dayTen, "guard-02")
	require.Len(t, rotatedLead, 1)
	assert.Equal(t, 1, rotatedLead[0].Slot)
	assert.Equal(t, "NIGHT", rotatedLead[0].StateLabel) // (9+0)%6 = 3
	assert.Equal(t, 4, rotatedLead[0].OrderInCycle)
}

func TestRotate_FewerThanTwoGuards_Fails(t *testing.T) {
	mem := store.NewMemory()
	configID := schedule.ConfigurationID("cfg-1")
	config, details := sixRowCycle(configID)
	mem.AddConfiguration(config, details)
	mem.AddSubunit(schedule.WorkSubunit{
		ID: "solo", PostID: "post-1", Name: "Solo Post",
		ActiveGuardsPerShift: 1, ConfigurationID: &configID, Active: true,
	})
	mem.AddRosterEntry("solo", schedule.RosterEntry{AssignmentID: "a01", GuardID: "guard-01"})

	engine := &schedule.RotationEngine{Service: newTestService(mem)}
	_, err := engine.Rotate(context.Background(), "solo", "ops", nil, nil)
	assert.ErrorIs(t, err, schedule.ErrRotationNeedsTwo)
}

func TestRotate_ValidatesSubunitFirst(t *testing.T) {
	engine := &schedule.RotationEngine{Service: newTestService(store.NewMemory())}
	_, err := engine.Rotate(context.Background(), "ghost", "ops", nil, nil)
	assert.ErrorIs(t, err, schedule.ErrSubunitNotFound)
}
