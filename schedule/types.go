/*
Package schedule provides the core shift-scheduling engine.

PURPOSE:

	This package contains the domain types and algorithms for generating,
	validating, rotating, and regenerating recurring guard shifts for a work
	sub-unit under a configurable rotation cycle. It is the in-process core of
	the staffing backend: the surrounding application (HTTP surface, cron
	driver) only wires stores into it and invokes its operations.

KEY CONCEPTS IN THIS FILE (types.go):
  - WorkSubunit: A schedulable division of a physical post
  - RotationConfiguration / ConfigurationDetail: A named cycle template and
    its ordered shift-state rows
  - RosterEntry: One guard's active assignment to a sub-unit, produced once
    at the store boundary (no shape-shifting joined rows)
  - Shift: One scheduled work interval, possibly unassigned
  - GenerationLog: Append-only idempotency marker for a generation run

DESIGN PRINCIPLES:
 1. Purity: Every generation call is a function of its inputs plus the
    current store snapshot. No module-level cursors or counters.
 2. Type Safety: Strong typing for IDs prevents mixing guard/sub-unit IDs.
 3. Explicit degradation: Best-effort side effects surface as warnings in
    operation results, never as silent swallows.

SEE ALSO:
  - generator.go: The three generation strategies
  - store.go: Persistence contracts consumed by the engine
  - pattern.go: Biological rest-pattern evaluation
*/
package schedule

import (
	"strings"
	"time"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type SubunitID string
type ConfigurationID string
type GuardID string
type AssignmentID string
type ShiftID string

// =============================================================================
// WORK SUBUNIT - Schedulable division of a physical post
// =============================================================================

// WorkSubunit is one schedulable unit of a post (e.g. a single entrance).
// Shifts cannot be generated while ConfigurationID is nil or the referenced
// configuration is inactive.
type WorkSubunit struct {
	ID     SubunitID
	PostID string
	Name   string

	// ActiveGuardsPerShift is how many guards stand each shift-state
	// simultaneously. Drives the headcount formula and slot fan-out.
	ActiveGuardsPerShift int

	ConfigurationID *ConfigurationID
	Active          bool
}

// =============================================================================
// ROTATION CONFIGURATION - Named cycle template
// =============================================================================

// Projection selects the generation strategy for a configuration.
type Projection string

const (
	// ProjectionCyclic is fixed round-robin rotation through detail rows.
	ProjectionCyclic Projection = "cyclic"

	// ProjectionRuleBased treats detail rows as independent weekday/holiday
	// rules with biological rest-pattern evaluation and substitute coverage.
	ProjectionRuleBased Projection = "rule_based"
)

// RotationConfiguration is a named cycle definition, e.g. "2-day/2-night/2-rest".
type RotationConfiguration struct {
	ID              ConfigurationID
	Name            string
	CycleLengthDays int
	Projection      Projection
	Active          bool
}

// IsOffice reports whether the configuration selects the deterministic
// weekly office template instead of its detail rows.
func (c RotationConfiguration) IsOffice() bool {
	return strings.Contains(strings.ToLower(c.Name), "office")
}

// HolidayPolicy controls whether a detail row applies on holidays.
type HolidayPolicy string

const (
	HolidayIndifferent  HolidayPolicy = "indifferent"
	HolidayNever        HolidayPolicy = "never"
	HolidayOnlyHolidays HolidayPolicy = "only_holidays"
)

// ConfigurationDetail is one ordered row of a configuration. Under the
// cyclic projection it is a fixed rotation position; under the rule-based
// projection it is an independent rule with its own applicability.
type ConfigurationDetail struct {
	ID              string
	ConfigurationID ConfigurationID
	OrderIndex      int
	StateLabel      string

	// StartTime/EndTime are "HH:MM" clock strings; empty for rest rows.
	StartTime string
	EndTime   string

	// Weekdays the row applies on. Empty means every day.
	Weekdays []time.Weekday

	HolidayPolicy HolidayPolicy
}

// IsRest reports whether the row represents a rest state. Rest rows produce
// shifts with null start/end times.
func (d ConfigurationDetail) IsRest() bool {
	label := strings.ToUpper(strings.TrimSpace(d.StateLabel))
	return label == "REST" || label == "Z"
}

// AppliesOn reports whether the row, interpreted as a rule, is active on the
// given weekday/holiday combination.
func (d ConfigurationDetail) AppliesOn(day time.Weekday, holiday bool) bool {
	switch d.HolidayPolicy {
	case HolidayNever:
		if holiday {
			return false
		}
	case HolidayOnlyHolidays:
		if !holiday {
			return false
		}
	}
	if len(d.Weekdays) == 0 {
		return true
	}
	for _, wd := range d.Weekdays {
		if wd == day {
			return true
		}
	}
	return false
}

// =============================================================================
// ROSTER ENTRY - One guard's active assignment to a sub-unit
// =============================================================================

// Role distinguishes primary guards from relief coverage.
type Role string

const (
	RoleTitular    Role = "titular"
	RoleSubstitute Role = "substitute"
)

// RosterEntry is the flattened view of one active EmployeeAssignment, built
// exactly once at the store boundary. The engine never handles joined rows.
type RosterEntry struct {
	AssignmentID AssignmentID
	GuardID      GuardID
	GuardName    string
	Role         Role

	// RestPattern is a "W-R" string (W work days, R rest days); empty when
	// the guard has no biological pattern and always works.
	RestPattern  string
	PatternStart *time.Time
}

// =============================================================================
// SHIFT - One scheduled work interval
// =============================================================================

type ShiftStatus string

const (
	StatusScheduled         ShiftStatus = "scheduled"
	StatusFulfilled         ShiftStatus = "fulfilled"
	StatusUnfulfilled       ShiftStatus = "unfulfilled"
	StatusPartial           ShiftStatus = "partial"
	StatusPendingAssignment ShiftStatus = "pending_assignment"
)

// Rotation group labels for rule-based and office strategies. The cyclic
// strategy derives numbered GROUP_N labels instead.
const (
	GroupTitular    = "TITULAR"
	GroupRelief     = "RELIEF"
	GroupPureRelief = "PURE-RELIEF"
	GroupOffice     = "OFFICE"
)

// Shift is one scheduled work interval. GuardID is nil for unassigned
// pending shifts; StartTime/EndTime are nil for rest states.
type Shift struct {
	ID        ShiftID
	SubunitID SubunitID
	GuardID   *GuardID

	Date      time.Time // midnight UTC
	StartTime *string   // "HH:MM"
	EndTime   *string

	StateLabel   string
	OrderInCycle int
	Slot         int
	Group        string
	Status       ShiftStatus

	// CoversGuardID is set on relief shifts: the titular whose rest day
	// this shift covers.
	CoversGuardID *GuardID

	GeneratedBy string
}

// IsAssigned reports whether a guard holds the shift.
func (s Shift) IsAssigned() bool { return s.GuardID != nil }

// =============================================================================
// GENERATION LOG - Idempotency marker, not a source of truth
// =============================================================================

// GenerationLog records one successful generation run. The auto-scheduler
// uses it only as a skip signal and always cross-checks shift row counts.
type GenerationLog struct {
	ID              string
	SubunitID       SubunitID
	ConfigurationID ConfigurationID
	Month           time.Month
	Year            int
	Description     string
	CreatedAt       time.Time
}
