package factory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/shift-engine/factory"
	"github.com/warp/shift-engine/schedule"
)

// =============================================================================
// JSON PARSING
// =============================================================================

func TestParse_CyclicConfiguration(t *testing.T) {
	// GIVEN: A JSON cycle definition with day, night, and rest rows
	// WHEN: Parsing
	// THEN: Domain structs come back validated with defaults applied

	jsonStr := `{
		"id": "guard-2-2-2",
		"name": "2-day/2-night/2-rest",
		"details": [
			{"order": 1, "state": "DAY", "start": "08:00", "end": "20:00"},
			{"order": 2, "state": "NIGHT", "start": "20:00", "end": "08:00"},
			{"order": 3, "state": "REST"}
		]
	}`

	f := factory.NewConfigFactory()
	config, details, err := f.Parse(jsonStr)
	require.NoError(t, err)

	assert.Equal(t, schedule.ConfigurationID("guard-2-2-2"), config.ID)
	assert.Equal(t, schedule.ProjectionCyclic, config.Projection)
	assert.Equal(t, 3, config.CycleLengthDays)
	assert.True(t, config.Active)

	require.Len(t, details, 3)
	assert.Equal(t, "DAY", details[0].StateLabel)
	assert.Equal(t, schedule.HolidayIndifferent, details[0].HolidayPolicy)
	assert.True(t, details[2].IsRest())
}

func TestParse_RuleBasedWithWeekdaysAndHolidays(t *testing.T) {
	jsonStr := `{
		"name": "Weekend reinforcement",
		"projection": "rule_based",
		"details": [
			{"order": 1, "state": "DAY", "start": "08:00", "end": "16:00",
			 "weekdays": ["saturday", "sunday"], "holidays": "only_holidays"}
		]
	}`

	f := factory.NewConfigFactory()
	config, details, err := f.Parse(jsonStr)
	require.NoError(t, err)

	assert.Equal(t, schedule.ProjectionRuleBased, config.Projection)
	assert.NotEmpty(t, config.ID, "missing id gets generated")

	require.Len(t, details, 1)
	assert.Equal(t, []time.Weekday{time.Saturday, time.Sunday}, details[0].Weekdays)
	assert.Equal(t, schedule.HolidayOnlyHolidays, details[0].HolidayPolicy)
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestFromJSON_Rejections(t *testing.T) {
	f := factory.NewConfigFactory()

	cases := []struct {
		name string
		cj   factory.ConfigJSON
	}{
		{"missing name", factory.ConfigJSON{Details: []factory.DetailJSON{{Order: 1, State: "REST"}}}},
		{"no details", factory.ConfigJSON{Name: "empty"}},
		{"unknown projection", factory.ConfigJSON{Name: "x", Projection: "spiral",
			Details: []factory.DetailJSON{{Order: 1, State: "REST"}}}},
		{"duplicate order", factory.ConfigJSON{Name: "x",
			Details: []factory.DetailJSON{{Order: 1, State: "REST"}, {Order: 1, State: "DAY", Start: "08:00", End: "16:00"}}}},
		{"non-rest row without times", factory.ConfigJSON{Name: "x",
			Details: []factory.DetailJSON{{Order: 1, State: "DAY"}}}},
		{"blank state", factory.ConfigJSON{Name: "x",
			Details: []factory.DetailJSON{{Order: 1, State: "  "}}}},
		{"bad holiday policy", factory.ConfigJSON{Name: "x",
			Details: []factory.DetailJSON{{Order: 1, State: "REST", Holidays: "sometimes"}}}},
		{"bad weekday", factory.ConfigJSON{Name: "x",
			Details: []factory.DetailJSON{{Order: 1, State: "REST", Weekdays: []string{"funday"}}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := f.FromJSON(tc.cj)
			assert.Error(t, err)
		})
	}
}

func TestFromJSON_NormalizesStateLabel(t *testing.T) {
	f := factory.NewConfigFactory()
	_, details, err := f.FromJSON(factory.ConfigJSON{
		Name:    "z-rest",
		Details: []factory.DetailJSON{{Order: 1, State: " z "}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Z", details[0].StateLabel)
	assert.True(t, details[0].IsRest())
}

// =============================================================================
// PRESETS
// =============================================================================

func TestPresets_AllParse(t *testing.T) {
	f := factory.NewConfigFactory()
	for _, name := range factory.PresetNames() {
		preset, ok := factory.Preset(name)
		require.True(t, ok, "preset %s", name)

		config, details, err := f.FromJSON(preset)
		require.NoError(t, err, "preset %s", name)
		assert.NotEmpty(t, config.Name)
		assert.NotEmpty(t, details)
	}
}

func TestPreset_GuardCycle_Shape(t *testing.T) {
	preset, ok := factory.Preset("guard-2-2-2")
	require.True(t, ok)

	f := factory.NewConfigFactory()
	config, details, err := f.FromJSON(preset)
	require.NoError(t, err)

	assert.Equal(t, 6, config.CycleLengthDays)
	rest := 0
	for _, d := range details {
		if d.IsRest() {
			rest++
		}
	}
	assert.Equal(t, 2, rest)
}

func TestPreset_Unknown(t *testing.T) {
	_, ok := factory.Preset("nonsense")
	assert.False(t, ok)
}

func TestPreset_OfficeWeek_SelectsOfficeMode(t *testing.T) {
	preset, ok := factory.Preset("office-week")
	require.True(t, ok)

	f := factory.NewConfigFactory()
	config, _, err := f.FromJSON(preset)
	require.NoError(t, err)
	assert.True(t, config.IsOffice())
}
