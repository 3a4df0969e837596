/*
generator.go - The core shift generation algorithm

PURPOSE:

	Produces the full set of shift rows for a calendar month from a sub-unit,
	its rotation configuration, and its roster. Three strategies:

	Office mode (configuration name contains "office"):
	  Deterministic weekly template independent of detail rows. Mon-Fri two
	  shifts (08:00-12:00, 14:00-18:00), Saturday one (08:00-12:00), Sunday
	  none. Every roster member gets the same template.

	Cyclic (default projection):
	  Fixed round-robin. Employee i gets offset floor(L/N)*i mod L over the
	  L detail rows; day d maps to row (d + offset) mod L. Guarantees every
	  employee cycles through every state over L days.

	Rule-based:
	  Detail rows are independent weekday/holiday rules. For each applicable
	  rule and slot, a titular is picked round-robin; the biological rest
	  pattern decides whether they work, else a substitute covers, else the
	  slot is persisted unassigned as pending-assignment.

MONTH ANCHORING:

	Cycle math always anchors to day 0 of the month, even when the caller only
	wants days from a later start persisted (FillFromMonthStart=false). This
	keeps continuity across rotation boundaries and prevents all-rest
	artifacts.

SIDE EFFECTS:

	One bulk insert of all produced rows, then a best-effort generation-log
	write whose failure becomes a warning in the result, never an error.

SEE ALSO:
  - pattern.go: WorksOn evaluation
  - rotation.go, regenerate.go, autoscheduler.go: Callers
*/
package schedule

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// INPUT / RESULT
// =============================================================================

// GenerationInput carries everything one generation run needs. It is a pure
// snapshot: the generator performs no configuration or roster reads.
type GenerationInput struct {
	Subunit       WorkSubunit
	Configuration RotationConfiguration
	Details       []ConfigurationDetail
	Roster        []RosterEntry

	// Start is the caller-supplied start date; the target month is derived
	// from it.
	Start time.Time

	// FillFromMonthStart controls whether days earlier in the month than
	// Start are persisted too (true) or skipped (false, partial repair).
	FillFromMonthStart bool

	GeneratedBy string
}

// GenerationResult summarizes one run.
type GenerationResult struct {
	Created  int
	Month    time.Month
	Year     int
	Strategy string

	// Warnings collects degraded-dependency and best-effort failures so
	// they stay visible to tests and operators.
	Warnings []string
}

// Generator is the core algorithm. It writes through ShiftStore and
// GenerationLogStore and consults HolidayProvider for the rule-based
// strategy.
type Generator struct {
	Shifts   ShiftStore
	Log      GenerationLogStore
	Holidays HolidayProvider
}

// Strategy names reported in results and log descriptions.
const (
	StrategyOffice    = "office"
	StrategyCyclic    = "cyclic"
	StrategyRuleBased = "rule_based"
)

// Office template clock times.
var (
	officeMorningStart   = "08:00"
	officeMorningEnd     = "12:00"
	officeAfternoonStart = "14:00"
	officeAfternoonEnd   = "18:00"
)

// =============================================================================
// GENERATE
// =============================================================================

// Generate produces and persists the month's shifts for the input snapshot.
func (g *Generator) Generate(ctx context.Context, in GenerationInput) (*GenerationResult, error) {
	if len(in.Roster) == 0 {
		return nil, ErrEmptyRoster
	}

	start := Day(in.Start)
	monthStart, daysInMonth := MonthWindow(start)

	result := &GenerationResult{
		Month: monthStart.Month(),
		Year:  monthStart.Year(),
	}

	var shifts []Shift
	var err error
	switch {
	case in.Configuration.IsOffice():
		result.Strategy = StrategyOffice
		shifts = g.generateOffice(in, monthStart, daysInMonth, start)
	case in.Configuration.Projection == ProjectionCyclic:
		result.Strategy = StrategyCyclic
		shifts, err = g.generateCyclic(in, monthStart, daysInMonth, start)
	default:
		result.Strategy = StrategyRuleBased
		shifts = g.generateRuleBased(ctx, in, monthStart, daysInMonth, start, result)
	}
	if err != nil {
		return nil, err
	}

	if len(shifts) > 0 {
		if err := g.Shifts.InsertBatch(ctx, shifts); err != nil {
			return nil, fmt.Errorf("persisting generated shifts: %w", err)
		}
	}
	result.Created = len(shifts)

	g.writeLog(ctx, in, result)
	return result, nil
}

// writeLog records the generation run. Best-effort: failure is logged and
// reported as a warning, never rolled back.
func (g *Generator) writeLog(ctx context.Context, in GenerationInput, result *GenerationResult) {
	entry := GenerationLog{
		ID:              uuid.NewString(),
		SubunitID:       in.Subunit.ID,
		ConfigurationID: in.Configuration.ID,
		Month:           result.Month,
		Year:            result.Year,
		Description: fmt.Sprintf("generated %d shift(s) via %s strategy by %s",
			result.Created, result.Strategy, in.GeneratedBy),
		CreatedAt: time.Now().UTC(),
	}
	if err := g.Log.AppendLog(ctx, entry); err != nil {
		log.Printf("[Generator] generation log write failed for sub-unit %s: %v", in.Subunit.ID, err)
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("generation log write failed: %v", err))
	}
}

// skipDay reports whether the day must not be persisted because the caller
// asked for a partial repair starting later in the month.
func skipDay(date, start time.Time, fillFromMonthStart bool) bool {
	return !fillFromMonthStart && date.Before(start)
}

// =============================================================================
// OFFICE MODE - Deterministic weekly template
// =============================================================================

func (g *Generator) generateOffice(in GenerationInput, monthStart time.Time, daysInMonth int, start time.Time) []Shift {
	var shifts []Shift
	for d := 0; d < daysInMonth; d++ {
		date := monthStart.AddDate(0, 0, d)
		if skipDay(date, start, in.FillFromMonthStart) {
			continue
		}

		var slots [][2]string
		switch date.Weekday() {
		case time.Sunday:
			continue
		case time.Saturday:
			slots = [][2]string{{officeMorningStart, officeMorningEnd}}
		default:
			slots = [][2]string{
				{officeMorningStart, officeMorningEnd},
				{officeAfternoonStart, officeAfternoonEnd},
			}
		}

		for i, entry := range in.Roster {
			for order, span := range slots {
				startTime, endTime := span[0], span[1]
				guard := entry.GuardID
				shifts = append(shifts, Shift{
					ID:           ShiftID(uuid.NewString()),
					SubunitID:    in.Subunit.ID,
					GuardID:      &guard,
					Date:         date,
					StartTime:    &startTime,
					EndTime:      &endTime,
					StateLabel:   GroupOffice,
					OrderInCycle: order + 1,
					Slot:         i + 1,
					Group:        GroupOffice,
					Status:       StatusScheduled,
					GeneratedBy:  in.GeneratedBy,
				})
			}
		}
	}
	return shifts
}

// =============================================================================
// CYCLIC STRATEGY - Fixed round-robin over detail rows
// =============================================================================

func (g *Generator) generateCyclic(in GenerationInput, monthStart time.Time, daysInMonth int, start time.Time) ([]Shift, error) {
	cycleLength := len(in.Details)
	if cycleLength == 0 {
		return nil, ErrNoCycleDetails
	}

	guardsPerShift := in.Subunit.ActiveGuardsPerShift
	if guardsPerShift < 1 {
		guardsPerShift = 1
	}

	total := len(in.Roster)
	var shifts []Shift
	for i, entry := range in.Roster {
		offset := (cycleLength / total) * i % cycleLength
		group := fmt.Sprintf("GROUP_%d", i/guardsPerShift+1)

		for d := 0; d < daysInMonth; d++ {
			date := monthStart.AddDate(0, 0, d)
			if skipDay(date, start, in.FillFromMonthStart) {
				continue
			}

			row := in.Details[(d+offset)%cycleLength]
			guard := entry.GuardID
			shift := Shift{
				ID:           ShiftID(uuid.NewString()),
				SubunitID:    in.Subunit.ID,
				GuardID:      &guard,
				Date:         date,
				StateLabel:   row.StateLabel,
				OrderInCycle: row.OrderIndex,
				Slot:         i + 1,
				Group:        group,
				Status:       StatusScheduled,
				GeneratedBy:  in.GeneratedBy,
			}
			if !row.IsRest() {
				startTime, endTime := row.StartTime, row.EndTime
				shift.StartTime = &startTime
				shift.EndTime = &endTime
			}
			shifts = append(shifts, shift)
		}
	}
	return shifts, nil
}

// =============================================================================
// RULE-BASED STRATEGY - Weekday/holiday rules + rest patterns + relief
// =============================================================================

func (g *Generator) generateRuleBased(ctx context.Context, in GenerationInput, monthStart time.Time, daysInMonth int, start time.Time, result *GenerationResult) []Shift {
	holidays := g.monthHolidays(ctx, monthStart, daysInMonth, result)

	var titulars, substitutes []RosterEntry
	for _, entry := range in.Roster {
		if entry.Role == RoleSubstitute {
			substitutes = append(substitutes, entry)
		} else {
			titulars = append(titulars, entry)
		}
	}

	guardsPerShift := in.Subunit.ActiveGuardsPerShift
	if guardsPerShift < 1 {
		guardsPerShift = 1
	}

	var shifts []Shift
	for d := 0; d < daysInMonth; d++ {
		date := monthStart.AddDate(0, 0, d)
		if skipDay(date, start, in.FillFromMonthStart) {
			continue
		}
		isHoliday := holidays.contains(date)

		for _, rule := range in.Details {
			if !rule.AppliesOn(date.Weekday(), isHoliday) {
				continue
			}
			// Guards already holding a slot for this (day, rule). The store
			// enforces uniqueness on (subunit, guard, date, order); booking
			// the same guard twice here would fail the whole batch.
			used := make(map[GuardID]bool, guardsPerShift)
			for slot := 0; slot < guardsPerShift; slot++ {
				shifts = append(shifts, g.fillSlot(in, rule, titulars, substitutes, used, date, d, slot))
			}
		}
	}
	return shifts
}

// fillSlot resolves one (day, rule, slot) to a shift: titular if their
// pattern says they work, a substitute covering the rest day otherwise, or
// an unassigned pending shift when no eligible guard exists. A guard never
// holds two slots of the same (day, rule): when the pools are smaller than
// the slot count, the extra slots persist as pending-assignment.
func (g *Generator) fillSlot(in GenerationInput, rule ConfigurationDetail, titulars, substitutes []RosterEntry, used map[GuardID]bool, date time.Time, dayIndex, slot int) Shift {
	shift := Shift{
		ID:           ShiftID(uuid.NewString()),
		SubunitID:    in.Subunit.ID,
		Date:         date,
		StateLabel:   rule.StateLabel,
		OrderInCycle: rule.OrderIndex,
		Slot:         slot + 1,
		Status:       StatusScheduled,
		GeneratedBy:  in.GeneratedBy,
	}
	if !rule.IsRest() {
		startTime, endTime := rule.StartTime, rule.EndTime
		shift.StartTime = &startTime
		shift.EndTime = &endTime
	}

	if len(titulars) == 0 {
		// No titulars at all: substitutes alone fill slots round-robin.
		if sub, ok := pickSubstitute(substitutes, used, dayIndex+slot); ok {
			used[sub.GuardID] = true
			shift.GuardID = &sub.GuardID
			shift.Group = GroupPureRelief
			return shift
		}
		shift.Group = GroupTitular
		shift.Status = StatusPendingAssignment
		return shift
	}

	titular := titulars[slot%len(titulars)]
	if used[titular.GuardID] {
		// Fewer distinct titulars than slots: this slot has no titular of
		// its own and stays open for a future assignment.
		shift.Group = GroupTitular
		shift.Status = StatusPendingAssignment
		return shift
	}
	if titular.WorksOn(date) {
		used[titular.GuardID] = true
		shift.GuardID = &titular.GuardID
		shift.Group = GroupTitular
		return shift
	}

	// Titular rests today: deterministic substitute pick starting at
	// (day + slot), skipping guards already booked for this (day, rule).
	if sub, ok := pickSubstitute(substitutes, used, dayIndex+slot); ok {
		used[sub.GuardID] = true
		shift.GuardID = &sub.GuardID
		shift.Group = GroupRelief
		shift.CoversGuardID = &titular.GuardID
		return shift
	}

	// No relief pool: persist unassigned, to be reclaimed by a future
	// assignment.
	shift.Group = GroupRelief
	shift.Status = StatusPendingAssignment
	shift.CoversGuardID = &titular.GuardID
	return shift
}

// pickSubstitute scans the substitute pool starting at the round-robin
// position for the first guard not yet booked for the current (day, rule).
func pickSubstitute(substitutes []RosterEntry, used map[GuardID]bool, start int) (RosterEntry, bool) {
	n := len(substitutes)
	if n == 0 {
		return RosterEntry{}, false
	}
	for k := 0; k < n; k++ {
		sub := substitutes[(start+k)%n]
		if !used[sub.GuardID] {
			return sub, true
		}
	}
	return RosterEntry{}, false
}

// monthHolidays fetches the month's holidays. Provider failure degrades to
// an empty set with a warning; it never fails the generation.
func (g *Generator) monthHolidays(ctx context.Context, monthStart time.Time, daysInMonth int, result *GenerationResult) holidaySet {
	provider := g.Holidays
	if provider == nil {
		provider = NoHolidays{}
	}
	monthEnd := monthStart.AddDate(0, 0, daysInMonth-1)
	dates, err := provider.Holidays(ctx, monthStart, monthEnd)
	if err != nil {
		log.Printf("[Generator] holiday provider failed for %s: %v, proceeding without holidays",
			monthStart.Format("2006-01"), err)
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("holiday provider unavailable, generated without holidays: %v", err))
		return newHolidaySet(nil)
	}
	return newHolidaySet(dates)
}
