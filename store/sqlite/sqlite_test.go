/*
sqlite_test.go - Persistence tests against an in-memory database

Tests for:
- Sub-unit and configuration round trips, including detail row ordering
- The one-active-assignment-per-guard constraint and soft ending
- Shift batch inserts and the double-booking conflict mapping
- Pending claim, per-guard purge, generation log, holidays, reset
*/
package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/shift-engine/schedule"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func str(s string) *string { return &s }

func guard(id string) *schedule.GuardID {
	g := schedule.GuardID(id)
	return &g
}

// =============================================================================
// SUBUNITS AND CONFIGURATIONS
// =============================================================================

func TestSubunitRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	configID := schedule.ConfigurationID("cfg-1")
	require.NoError(t, store.SaveSubunit(ctx, schedule.WorkSubunit{
		ID: "gate", PostID: "post-1", Name: "Main Gate",
		ActiveGuardsPerShift: 2, ConfigurationID: &configID, Active: true,
	}))

	got, err := store.GetSubunit(ctx, "gate")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Main Gate", got.Name)
	assert.Equal(t, 2, got.ActiveGuardsPerShift)
	require.NotNil(t, got.ConfigurationID)
	assert.Equal(t, configID, *got.ConfigurationID)

	// Missing rows come back as nil without an error.
	missing, err := store.GetSubunit(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListActiveSubunits_SkipsInactive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSubunit(ctx, schedule.WorkSubunit{
		ID: "live", PostID: "p", Name: "Live", ActiveGuardsPerShift: 1, Active: true,
	}))
	require.NoError(t, store.SaveSubunit(ctx, schedule.WorkSubunit{
		ID: "dead", PostID: "p", Name: "Dead", ActiveGuardsPerShift: 1, Active: false,
	}))

	active, err := store.ListActiveSubunits(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, schedule.SubunitID("live"), active[0].ID)

	all, err := store.ListSubunits(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestConfigurationRoundTrip_DetailsOrdered(t *testing.T) {
	// GIVEN: Detail rows saved out of cycle order
	// WHEN: Reading them back
	// THEN: They come back sorted by order index

	store := newTestStore(t)
	ctx := context.Background()

	config := schedule.RotationConfiguration{
		ID: "cfg-1", Name: "Test cycle", CycleLengthDays: 3,
		Projection: schedule.ProjectionCyclic, Active: true,
	}
	details := []schedule.ConfigurationDetail{
		{ID: "d3", ConfigurationID: "cfg-1", OrderIndex: 3, StateLabel: "REST"},
		{ID: "d1", ConfigurationID: "cfg-1", OrderIndex: 1, StateLabel: "DAY",
			StartTime: "08:00", EndTime: "20:00",
			Weekdays:      []time.Weekday{time.Saturday, time.Sunday},
			HolidayPolicy: schedule.HolidayOnlyHolidays},
		{ID: "d2", ConfigurationID: "cfg-1", OrderIndex: 2, StateLabel: "NIGHT",
			StartTime: "20:00", EndTime: "08:00"},
	}
	require.NoError(t, store.SaveConfiguration(ctx, config, details))

	got, err := store.GetConfigurationDetails(ctx, "cfg-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "DAY", got[0].StateLabel)
	assert.Equal(t, "NIGHT", got[1].StateLabel)
	assert.Equal(t, "REST", got[2].StateLabel)
	assert.Equal(t, []time.Weekday{time.Saturday, time.Sunday}, got[0].Weekdays)
	assert.Equal(t, schedule.HolidayOnlyHolidays, got[0].HolidayPolicy)

	// Re-saving replaces the detail set instead of appending.
	require.NoError(t, store.SaveConfiguration(ctx, config, details[:2]))
	got, err = store.GetConfigurationDetails(ctx, "cfg-1")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

// =============================================================================
// ASSIGNMENTS
// =============================================================================

func TestSaveAssignment_RejectsSecondActive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := AssignmentRecord{
		ID: "a1", SubunitID: "gate", GuardID: "g1", GuardName: "Guard One",
		Role: schedule.RoleTitular, Active: true, StartDate: day(2025, time.January, 1),
	}
	require.NoError(t, store.SaveAssignment(ctx, first))

	dup := first
	dup.ID = "a2"
	err := store.SaveAssignment(ctx, dup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already has an active assignment")

	// After ending the first, the same guard can be assigned again.
	require.NoError(t, store.EndAssignment(ctx, "a1", day(2025, time.June, 30), "transfer"))
	require.NoError(t, store.SaveAssignment(ctx, dup))

	count, err := store.CountActive(ctx, "gate")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	ended, err := store.GetAssignment(ctx, "a1")
	require.NoError(t, err)
	require.NotNil(t, ended)
	assert.False(t, ended.Active)
	require.NotNil(t, ended.EndDate)
	assert.Equal(t, day(2025, time.June, 30), *ended.EndDate)
	assert.Equal(t, "transfer", ended.TerminationReason)
}

func TestActiveRoster_OrderAndPattern(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	patternStart := day(2025, time.March, 1)
	records := []AssignmentRecord{
		{ID: "a2", SubunitID: "gate", GuardID: "g2", GuardName: "Second",
			Role: schedule.RoleSubstitute, Active: true, StartDate: day(2025, time.January, 1)},
		{ID: "a1", SubunitID: "gate", GuardID: "g1", GuardName: "First",
			Role: schedule.RoleTitular, RestPattern: "4-2", PatternStart: &patternStart,
			Active: true, StartDate: day(2025, time.January, 1)},
		{ID: "a3", SubunitID: "other", GuardID: "g3", GuardName: "Elsewhere",
			Role: schedule.RoleTitular, Active: true, StartDate: day(2025, time.January, 1)},
	}
	for _, r := range records {
		require.NoError(t, store.SaveAssignment(ctx, r))
	}

	roster, err := store.ActiveRoster(ctx, "gate")
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, schedule.GuardID("g1"), roster[0].GuardID)
	assert.Equal(t, "4-2", roster[0].RestPattern)
	require.NotNil(t, roster[0].PatternStart)
	assert.Equal(t, patternStart, *roster[0].PatternStart)
	assert.Equal(t, schedule.GuardID("g2"), roster[1].GuardID)
	assert.Nil(t, roster[1].PatternStart)
}

func TestUpdateRosterOrder_Persists(t *testing.T) {
	// GIVEN: Three assignments in id order
	// WHEN: Persisting a rotated ordering
	// THEN: ActiveRoster follows it, scoped to the sub-unit

	store := newTestStore(t)
	ctx := context.Background()

	for _, r := range []AssignmentRecord{
		{ID: "a1", SubunitID: "gate", GuardID: "g1", GuardName: "First",
			Role: schedule.RoleTitular, Active: true, StartDate: day(2025, time.January, 1)},
		{ID: "a2", SubunitID: "gate", GuardID: "g2", GuardName: "Second",
			Role: schedule.RoleTitular, Active: true, StartDate: day(2025, time.January, 1)},
		{ID: "a3", SubunitID: "gate", GuardID: "g3", GuardName: "Third",
			Role: schedule.RoleTitular, Active: true, StartDate: day(2025, time.January, 1)},
		{ID: "b1", SubunitID: "other", GuardID: "g9", GuardName: "Elsewhere",
			Role: schedule.RoleTitular, Active: true, StartDate: day(2025, time.January, 1)},
	} {
		require.NoError(t, store.SaveAssignment(ctx, r))
	}

	require.NoError(t, store.UpdateRosterOrder(ctx, "gate",
		[]schedule.AssignmentID{"a2", "a3", "a1"}))

	roster, err := store.ActiveRoster(ctx, "gate")
	require.NoError(t, err)
	require.Len(t, roster, 3)
	assert.Equal(t, schedule.GuardID("g2"), roster[0].GuardID)
	assert.Equal(t, schedule.GuardID("g3"), roster[1].GuardID)
	assert.Equal(t, schedule.GuardID("g1"), roster[2].GuardID)

	// The other sub-unit keeps its default id ordering.
	other, err := store.ActiveRoster(ctx, "other")
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, schedule.GuardID("g9"), other[0].GuardID)
}

// =============================================================================
// SHIFTS
// =============================================================================

func TestInsertBatch_ConflictOnDoubleBooking(t *testing.T) {
	// GIVEN: A stored shift for a guard on a date and cycle order
	// WHEN: Inserting another shift with the same key
	// THEN: The batch fails with ErrShiftConflict and nothing is written

	store := newTestStore(t)
	ctx := context.Background()

	base := schedule.Shift{
		ID: "s1", SubunitID: "gate", GuardID: guard("g1"),
		Date: day(2025, time.July, 1), StartTime: str("08:00"), EndTime: str("20:00"),
		StateLabel: "DAY", OrderInCycle: 1, Slot: 1,
		Group: "GROUP_1", Status: schedule.StatusScheduled,
	}
	require.NoError(t, store.InsertBatch(ctx, []schedule.Shift{base}))

	clash := base
	clash.ID = "s2"
	err := store.InsertBatch(ctx, []schedule.Shift{clash})
	assert.ErrorIs(t, err, schedule.ErrShiftConflict)

	count, err := store.CountRange(ctx, "gate", day(2025, time.July, 1), day(2025, time.July, 31))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestInsertBatch_UnassignedRowsNeverConflict(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	pending := schedule.Shift{
		SubunitID: "gate", Date: day(2025, time.July, 1),
		StateLabel: "DAY", OrderInCycle: 1, Slot: 1,
		Group: schedule.GroupRelief, Status: schedule.StatusPendingAssignment,
	}
	a, b := pending, pending
	a.ID, b.ID = "p1", "p2"
	require.NoError(t, store.InsertBatch(ctx, []schedule.Shift{a, b}))

	count, err := store.CountRange(ctx, "gate", day(2025, time.July, 1), day(2025, time.July, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestDeleteRange_Bounds(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var shifts []schedule.Shift
	for d := 1; d <= 5; d++ {
		shifts = append(shifts, schedule.Shift{
			ID: schedule.ShiftID(string(rune('a' + d))), SubunitID: "gate",
			GuardID: guard("g1"), Date: day(2025, time.July, d),
			StateLabel: "DAY", OrderInCycle: 1, Slot: 1,
			Group: "GROUP_1", Status: schedule.StatusScheduled,
		})
	}
	require.NoError(t, store.InsertBatch(ctx, shifts))

	deleted, err := store.DeleteRange(ctx, "gate", day(2025, time.July, 2), day(2025, time.July, 4))
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)

	remaining, err := store.ListRange(ctx, "gate", day(2025, time.July, 1), day(2025, time.July, 31))
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	assert.Equal(t, day(2025, time.July, 1), remaining[0].Date)
	assert.Equal(t, day(2025, time.July, 5), remaining[1].Date)
}

func TestClaimPending_OnlyFutureUnassigned(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.InsertBatch(ctx, []schedule.Shift{
		{ID: "past", SubunitID: "gate", Date: day(2025, time.July, 1),
			StateLabel: "DAY", OrderInCycle: 1, Slot: 1,
			Group: schedule.GroupRelief, Status: schedule.StatusPendingAssignment},
		{ID: "future", SubunitID: "gate", Date: day(2025, time.July, 20),
			StateLabel: "DAY", OrderInCycle: 1, Slot: 1,
			Group: schedule.GroupRelief, Status: schedule.StatusPendingAssignment},
		{ID: "held", SubunitID: "gate", GuardID: guard("g9"),
			Date: day(2025, time.July, 21), StateLabel: "DAY", OrderInCycle: 1,
			Slot: 2, Group: "GROUP_1", Status: schedule.StatusScheduled},
	}))

	claimed, err := store.ClaimPending(ctx, "gate", "g1", day(2025, time.July, 10))
	require.NoError(t, err)
	assert.Equal(t, 1, claimed)

	shifts, err := store.ListRange(ctx, "gate", day(2025, time.July, 20), day(2025, time.July, 20))
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	require.NotNil(t, shifts[0].GuardID)
	assert.Equal(t, schedule.GuardID("g1"), *shifts[0].GuardID)
	assert.Equal(t, schedule.StatusScheduled, shifts[0].Status)
}

func TestDeleteFutureForGuard_LeavesOthers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.InsertBatch(ctx, []schedule.Shift{
		{ID: "mine-past", SubunitID: "gate", GuardID: guard("g1"),
			Date: day(2025, time.July, 1), StateLabel: "DAY", OrderInCycle: 1,
			Slot: 1, Group: "GROUP_1", Status: schedule.StatusScheduled},
		{ID: "mine-future", SubunitID: "gate", GuardID: guard("g1"),
			Date: day(2025, time.July, 20), StateLabel: "DAY", OrderInCycle: 1,
			Slot: 1, Group: "GROUP_1", Status: schedule.StatusScheduled},
		{ID: "theirs", SubunitID: "gate", GuardID: guard("g2"),
			Date: day(2025, time.July, 20), StateLabel: "DAY", OrderInCycle: 1,
			Slot: 2, Group: "GROUP_1", Status: schedule.StatusScheduled},
	}))

	deleted, err := store.DeleteFutureForGuard(ctx, "gate", "g1", day(2025, time.July, 10))
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	remaining, err := store.ListRange(ctx, "gate", day(2025, time.July, 1), day(2025, time.July, 31))
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}

// =============================================================================
// GENERATION LOG AND HOLIDAYS
// =============================================================================

func TestGenerationLog(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	exists, err := store.LogExists(ctx, "gate", time.July, 2025)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.AppendLog(ctx, schedule.GenerationLog{
		ID: "log-1", SubunitID: "gate", ConfigurationID: "cfg-1",
		Month: time.July, Year: 2025,
		Description: "cyclic generation by ops", CreatedAt: time.Now(),
	}))

	exists, err = store.LogExists(ctx, "gate", time.July, 2025)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.LogExists(ctx, "gate", time.August, 2025)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestHolidays_WindowAndDuplicates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveHoliday(ctx, "h1", day(2025, time.July, 14), "National Day"))
	require.NoError(t, store.SaveHoliday(ctx, "h2", day(2025, time.July, 14), "National Day"))
	require.NoError(t, store.SaveHoliday(ctx, "h3", day(2025, time.August, 15), "Assumption"))

	july, err := store.Holidays(ctx, day(2025, time.July, 1), day(2025, time.July, 31))
	require.NoError(t, err)
	require.Len(t, july, 1)
	assert.Equal(t, day(2025, time.July, 14), july[0])

	both, err := store.Holidays(ctx, day(2025, time.July, 1), day(2025, time.August, 31))
	require.NoError(t, err)
	assert.Len(t, both, 2)
}

func TestReset_WipesEverything(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSubunit(ctx, schedule.WorkSubunit{
		ID: "gate", PostID: "p", Name: "Gate", ActiveGuardsPerShift: 1, Active: true,
	}))
	require.NoError(t, store.SaveHoliday(ctx, "h1", day(2025, time.July, 14), "National Day"))

	require.NoError(t, store.Reset(ctx))

	got, err := store.GetSubunit(ctx, "gate")
	require.NoError(t, err)
	assert.Nil(t, got)

	holidays, err := store.Holidays(ctx, day(2025, time.January, 1), day(2025, time.December, 31))
	require.NoError(t, err)
	assert.Empty(t, holidays)
}
