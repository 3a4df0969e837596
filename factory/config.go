/*
Package factory provides JSON to Go rotation-configuration conversion.

PURPOSE:

	Converts JSON cycle definitions into schedule.RotationConfiguration and
	detail rows. This enables cycle configuration without code changes -
	operations staff can define rotation templates in JSON, and the factory
	creates the proper Go structs.

JSON SCHEMA:

	{
	  "id": "guard-2-2-2",
	  "name": "2-day/2-night/2-rest",
	  "projection": "cyclic",
	  "details": [
	    {"order": 1, "state": "DAY", "start": "08:00", "end": "20:00"},
	    {"order": 2, "state": "DAY", "start": "08:00", "end": "20:00"},
	    {"order": 3, "state": "NIGHT", "start": "20:00", "end": "08:00"},
	    {"order": 4, "state": "NIGHT", "start": "20:00", "end": "08:00"},
	    {"order": 5, "state": "REST"},
	    {"order": 6, "state": "REST"}
	  ]
	}

	Rule-based details additionally accept:
	  "weekdays": ["monday", ..., "sunday"]
	  "holidays": "indifferent" | "never" | "only_holidays"

KEY FEATURES:
  - Validates structure (non-rest rows need times, orders unique)
  - Sets sensible defaults (cyclic projection, indifferent holiday policy)
  - Named presets for common guard cycles

SEE ALSO:
  - schedule/types.go: Target domain types
  - api/handlers.go: CreateConfiguration endpoint
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/warp/shift-engine/schedule"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ConfigJSON is the JSON representation of a rotation configuration.
type ConfigJSON struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Projection string       `json:"projection,omitempty"` // cyclic (default) or rule_based
	CycleDays  int          `json:"cycle_days,omitempty"` // defaults to len(details)
	Active     *bool        `json:"active,omitempty"`     // defaults to true
	Details    []DetailJSON `json:"details"`
}

// DetailJSON is one cycle row / rule.
type DetailJSON struct {
	Order    int      `json:"order"`
	State    string   `json:"state"`
	Start    string   `json:"start,omitempty"`
	End      string   `json:"end,omitempty"`
	Weekdays []string `json:"weekdays,omitempty"`
	Holidays string   `json:"holidays,omitempty"`
}

// =============================================================================
// CONFIG FACTORY
// =============================================================================

// ConfigFactory converts JSON cycle definitions to domain structs.
type ConfigFactory struct{}

func NewConfigFactory() *ConfigFactory { return &ConfigFactory{} }

// Parse parses a JSON string into a configuration and its detail rows.
func (f *ConfigFactory) Parse(jsonStr string) (*schedule.RotationConfiguration, []schedule.ConfigurationDetail, error) {
	var cj ConfigJSON
	if err := json.Unmarshal([]byte(jsonStr), &cj); err != nil {
		return nil, nil, fmt.Errorf("failed to parse configuration JSON: %w", err)
	}
	return f.FromJSON(cj)
}

// FromJSON validates and converts a decoded ConfigJSON.
func (f *ConfigFactory) FromJSON(cj ConfigJSON) (*schedule.RotationConfiguration, []schedule.ConfigurationDetail, error) {
	if strings.TrimSpace(cj.Name) == "" {
		return nil, nil, fmt.Errorf("configuration name is required")
	}
	if len(cj.Details) == 0 {
		return nil, nil, fmt.Errorf("configuration %q needs at least one detail row", cj.Name)
	}

	projection := schedule.ProjectionCyclic
	switch cj.Projection {
	case "", string(schedule.ProjectionCyclic):
	case string(schedule.ProjectionRuleBased):
		projection = schedule.ProjectionRuleBased
	default:
		return nil, nil, fmt.Errorf("unknown projection %q", cj.Projection)
	}

	id := cj.ID
	if id == "" {
		id = uuid.NewString()
	}
	cycleDays := cj.CycleDays
	if cycleDays == 0 {
		cycleDays = len(cj.Details)
	}
	active := true
	if cj.Active != nil {
		active = *cj.Active
	}

	config := &schedule.RotationConfiguration{
		ID:              schedule.ConfigurationID(id),
		Name:            cj.Name,
		CycleLengthDays: cycleDays,
		Projection:      projection,
		Active:          active,
	}

	seenOrders := make(map[int]bool, len(cj.Details))
	details := make([]schedule.ConfigurationDetail, 0, len(cj.Details))
	for _, dj := range cj.Details {
		if seenOrders[dj.Order] {
			return nil, nil, fmt.Errorf("configuration %q: duplicate order %d", cj.Name, dj.Order)
		}
		seenOrders[dj.Order] = true

		detail := schedule.ConfigurationDetail{
			ID:              uuid.NewString(),
			ConfigurationID: config.ID,
			OrderIndex:      dj.Order,
			StateLabel:      strings.ToUpper(strings.TrimSpace(dj.State)),
			StartTime:       dj.Start,
			EndTime:         dj.End,
			HolidayPolicy:   schedule.HolidayIndifferent,
		}
		if detail.StateLabel == "" {
			return nil, nil, fmt.Errorf("configuration %q: detail %d has no state label", cj.Name, dj.Order)
		}
		if !detail.IsRest() && (dj.Start == "" || dj.End == "") {
			return nil, nil, fmt.Errorf("configuration %q: non-rest detail %d needs start and end times", cj.Name, dj.Order)
		}

		switch dj.Holidays {
		case "", string(schedule.HolidayIndifferent):
		case string(schedule.HolidayNever):
			detail.HolidayPolicy = schedule.HolidayNever
		case string(schedule.HolidayOnlyHolidays):
			detail.HolidayPolicy = schedule.HolidayOnlyHolidays
		default:
			return nil, nil, fmt.Errorf("configuration %q: unknown holiday policy %q", cj.Name, dj.Holidays)
		}

		for _, name := range dj.Weekdays {
			weekday, err := parseWeekday(name)
			if err != nil {
				return nil, nil, fmt.Errorf("configuration %q: %w", cj.Name, err)
			}
			detail.Weekdays = append(detail.Weekdays, weekday)
		}

		details = append(details, detail)
	}
	return config, details, nil
}

func parseWeekday(name string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	case "tuesday":
		return time.Tuesday, nil
	case "wednesday":
		return time.Wednesday, nil
	case "thursday":
		return time.Thursday, nil
	case "friday":
		return time.Friday, nil
	case "saturday":
		return time.Saturday, nil
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}

// =============================================================================
// PRESETS - Common guard cycles
// =============================================================================

// Preset returns a ready-made ConfigJSON by name, and whether it exists.
func Preset(name string) (ConfigJSON, bool) {
	switch name {
	case "guard-2-2-2":
		return ConfigJSON{
			ID:         "guard-2-2-2",
			Name:       "2-day/2-night/2-rest",
			Projection: string(schedule.ProjectionCyclic),
			Details: []DetailJSON{
				{Order: 1, State: "DAY", Start: "08:00", End: "20:00"},
				{Order: 2, State: "DAY", Start: "08:00", End: "20:00"},
				{Order: 3, State: "NIGHT", Start: "20:00", End: "08:00"},
				{Order: 4, State: "NIGHT", Start: "20:00", End: "08:00"},
				{Order: 5, State: "REST"},
				{Order: 6, State: "REST"},
			},
		}, true
	case "guard-day-night-rest":
		return ConfigJSON{
			ID:         "guard-day-night-rest",
			Name:       "day/night/rest",
			Projection: string(schedule.ProjectionCyclic),
			Details: []DetailJSON{
				{Order: 1, State: "DAY", Start: "07:00", End: "19:00"},
				{Order: 2, State: "NIGHT", Start: "19:00", End: "07:00"},
				{Order: 3, State: "REST"},
			},
		}, true
	case "office-week":
		return ConfigJSON{
			ID:         "office-week",
			Name:       "Office administrative week",
			Projection: string(schedule.ProjectionCyclic),
			Details: []DetailJSON{
				{Order: 1, State: "OFFICE", Start: "08:00", End: "12:00"},
				{Order: 2, State: "OFFICE", Start: "14:00", End: "18:00"},
			},
		}, true
	case "rule-based-post":
		return ConfigJSON{
			ID:         "rule-based-post",
			Name:       "Rule-based post coverage",
			Projection: string(schedule.ProjectionRuleBased),
			Details: []DetailJSON{
				{Order: 1, State: "DAY", Start: "06:00", End: "18:00"},
				{Order: 2, State: "NIGHT", Start: "18:00", End: "06:00"},
				{Order: 3, State: "DAY", Start: "08:00", End: "16:00",
					Weekdays: []string{"saturday", "sunday"},
					Holidays: string(schedule.HolidayOnlyHolidays)},
			},
		}, true
	}
	return ConfigJSON{}, false
}

// PresetNames lists the available presets.
func PresetNames() []string {
	return []string{"guard-2-2-2", "guard-day-night-rest", "office-week", "rule-based-post"}
}
