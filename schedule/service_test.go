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
// PENDING-SHIFT RECLAIM / PURGE TESTS
// =============================================================================

func TestReclaimPending_ClaimsFutureUnassignedOnly(t *testing.T) {
	// GIVEN: Pending shifts in the past and the future, plus an assigned one
	// WHEN: A new guard reclaims
	// THEN: Only future unassigned pending rows flip to scheduled

	mem := store.NewMemory()
	today := schedule.Today()

	mem.SeedShift(schedule.Shift{
		ID: "past", SubunitID: "vault", Date: today.AddDate(0, 0, -2),
		StateLabel: "DAY", Status: schedule.StatusPendingAssignment,
	})
	mem.SeedShift(schedule.Shift{
		ID: "future-1", SubunitID: "vault", Date: today.AddDate(0, 0, 3),
		StateLabel: "DAY", Status: schedule.StatusPendingAssignment,
	})
	mem.SeedShift(schedule.Shift{
		ID: "future-2", SubunitID: "vault", Date: today.AddDate(0, 0, 5),
		StateLabel: "NIGHT", Status: schedule.StatusPendingAssignment,
	})
	mem.SeedShift(schedule.Shift{
		ID: "held", SubunitID: "vault", GuardID: guardPtr("guard-09"),
		Date: today.AddDate(0, 0, 3), StateLabel: "NIGHT", Status: schedule.StatusScheduled,
	})

	svc := newTestService(mem)
	claimed, err := svc.ReclaimPending(context.Background(), "vault", "guard-40")
	require.NoError(t, err)
	assert.Equal(t, 2, claimed)

	shifts, err := mem.ListRange(context.Background(), "vault", today, schedule.FarFuture)
	require.NoError(t, err)
	for _, s := range shifts {
		assert.Equal(t, schedule.StatusScheduled, s.Status)
		require.NotNil(t, s.GuardID)
	}

	// The past pending row stays pending.
	past, err := mem.ListRange(context.Background(), "vault", today.AddDate(0, 0, -2), today.AddDate(0, 0, -2))
	require.NoError(t, err)
	require.Len(t, past, 1)
	assert.Equal(t, schedule.StatusPendingAssignment, past[0].Status)
}

func TestPurgeGuardShifts_FutureOnly(t *testing.T) {
	// GIVEN: A guard with shifts yesterday, today, and next week
	// WHEN: Purging after assignment removal
	// THEN: Today and later disappear; history stays

	mem := store.NewMemory()
	today := schedule.Today()

	for i, offset := range []int{-1, 0, 7} {
		mem.SeedShift(schedule.Shift{
			ID:        schedule.ShiftID([]string{"old", "now", "next"}[i]),
			SubunitID: "vault", GuardID: guardPtr("guard-40"),
			Date: today.AddDate(0, 0, offset), StateLabel: "DAY",
			OrderInCycle: 1, Status: schedule.StatusScheduled,
		})
	}
	mem.SeedShift(schedule.Shift{
		ID: "other", SubunitID: "vault", GuardID: guardPtr("guard-41"),
		Date: today.AddDate(0, 0, 7), StateLabel: "DAY",
		OrderInCycle: 1, Status: schedule.StatusScheduled,
	})

	svc := newTestService(mem)
	deleted, err := svc.PurgeGuardShifts(context.Background(), "vault", "guard-40")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	remaining, err := mem.ListRange(context.Background(), "vault", today.AddDate(0, 0, -1), schedule.FarFuture)
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	assert.Equal(t, schedule.ShiftID("old"), remaining[0].ID)
	assert.Equal(t, schedule.ShiftID("other"), remaining[1].ID)
}
