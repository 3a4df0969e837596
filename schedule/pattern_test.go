package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/shift-engine/schedule"
)

// =============================================================================
// PARSING TESTS
// =============================================================================

func TestParseRestPattern_Valid(t *testing.T) {
	p, err := schedule.ParseRestPattern("4-2")
	require.NoError(t, err)
	assert.Equal(t, 4, p.WorkDays)
	assert.Equal(t, 2, p.RestDays)
	assert.Equal(t, 6, p.CycleLength())
}

func TestParseRestPattern_Invalid(t *testing.T) {
	for _, raw := range []string{"", "4", "4-0", "0-2", "-1-2", "a-b", "4-2-1x"} {
		_, err := schedule.ParseRestPattern(raw)
		assert.Error(t, err, "pattern %q should be rejected", raw)
	}
}

// =============================================================================
// WORKS-ON EVALUATION
// =============================================================================

func TestWorksOn_FourTwoPattern(t *testing.T) {
	// GIVEN: A titular on a 4-2 pattern starting 2025-01-01
	// WHEN: Evaluating each day of the first cycle and the next
	// THEN: Days 0-3 work, days 4-5 rest, then the cycle repeats

	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	entry := schedule.RosterEntry{
		GuardID:      "g-1",
		RestPattern:  "4-2",
		PatternStart: &start,
	}

	expected := []bool{true, true, true, true, false, false}
	for offset := 0; offset < 12; offset++ {
		date := start.AddDate(0, 0, offset)
		assert.Equal(t, expected[offset%6], entry.WorksOn(date),
			"day %d (%s)", offset, date.Format("2006-01-02"))
	}
}

func TestWorksOn_BeforePatternStart(t *testing.T) {
	// GIVEN: A pattern starting tomorrow
	// WHEN: Evaluating today
	// THEN: The guard does not work (pattern not started)

	start := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	entry := schedule.RosterEntry{GuardID: "g-1", RestPattern: "4-2", PatternStart: &start}

	assert.False(t, entry.WorksOn(start.AddDate(0, 0, -1)))
	assert.True(t, entry.WorksOn(start))
}

func TestWorksOn_NoPattern_AlwaysWorks(t *testing.T) {
	entry := schedule.RosterEntry{GuardID: "g-1"}
	assert.True(t, entry.WorksOn(time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC)))
}

func TestWorksOn_MalformedPattern_AlwaysWorks(t *testing.T) {
	// A malformed pattern must not silently drop the titular from coverage.
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	entry := schedule.RosterEntry{GuardID: "g-1", RestPattern: "banana", PatternStart: &start}
	assert.True(t, entry.WorksOn(start.AddDate(0, 0, 5)))
}

func TestWorksOn_IgnoresTimeOfDay(t *testing.T) {
	// GIVEN: A pattern start carrying a non-midnight clock component
	// WHEN: Evaluating a date late in the day
	// THEN: Evaluation still happens on whole UTC days

	start := time.Date(2025, time.January, 1, 23, 50, 0, 0, time.UTC)
	entry := schedule.RosterEntry{GuardID: "g-1", RestPattern: "1-1", PatternStart: &start}

	assert.True(t, entry.WorksOn(time.Date(2025, time.January, 1, 0, 5, 0, 0, time.UTC)))
	assert.False(t, entry.WorksOn(time.Date(2025, time.January, 2, 23, 59, 0, 0, time.UTC)))
}
