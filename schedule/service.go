/*
service.go - Operation orchestration over the store contracts

PURPOSE:

	Loads the data snapshot an operation needs (sub-unit, configuration,
	detail rows, roster), enforces the precondition chain, and invokes the
	generator. Rotation, regeneration, and the auto-scheduler all build on
	this layer so the precondition checks live in exactly one place.

PRECONDITION CHAIN (Generate):
 1. Sub-unit exists and is active
 2. Sub-unit has a configuration, and it exists and is active
 3. Roster completeness gate (strict equality), unless the caller supplies
    a manual roster (rotation does)

SEE ALSO:
  - rotation.go, regenerate.go, autoscheduler.go: Wrappers
  - api/handlers.go: HTTP callers
*/
package schedule

import (
	"context"
	"time"
)

// Service wires the store contracts into the engine's operations.
type Service struct {
	Config      ConfigStore
	Assignments AssignmentStore
	Shifts      ShiftStore
	Log         GenerationLogStore
	Holidays    HolidayProvider
}

// NewService builds a Service over a bundled store and holiday provider.
// A nil provider degrades to no holidays.
func NewService(stores Stores, holidays HolidayProvider) *Service {
	if holidays == nil {
		holidays = NoHolidays{}
	}
	return &Service{
		Config:      stores,
		Assignments: stores,
		Shifts:      stores,
		Log:         stores,
		Holidays:    holidays,
	}
}

// Resolver returns the cycle-arithmetic resolver bound to this service's
// configuration store.
func (s *Service) Resolver() *ConfigResolver {
	return &ConfigResolver{Store: s.Config}
}

// Validator returns the completeness validator bound to this service.
func (s *Service) Validator() *Validator {
	return &Validator{Resolver: s.Resolver(), Assignments: s.Assignments}
}

func (s *Service) generator() *Generator {
	return &Generator{Shifts: s.Shifts, Log: s.Log, Holidays: s.Holidays}
}

// =============================================================================
// SNAPSHOT LOADING
// =============================================================================

// snapshot is the validated configuration context for one operation.
type snapshot struct {
	Subunit       WorkSubunit
	Configuration RotationConfiguration
	Details       []ConfigurationDetail
}

// loadSnapshot enforces preconditions 1 and 2 of the chain.
func (s *Service) loadSnapshot(ctx context.Context, subunitID SubunitID) (*snapshot, error) {
	subunit, err := s.Config.GetSubunit(ctx, subunitID)
	if err != nil {
		return nil, err
	}
	if subunit == nil {
		return nil, ErrSubunitNotFound
	}
	if !subunit.Active {
		return nil, ErrSubunitInactive
	}
	if subunit.ConfigurationID == nil {
		return nil, ErrNoConfiguration
	}

	config, err := s.Config.GetConfiguration(ctx, *subunit.ConfigurationID)
	if err != nil {
		return nil, err
	}
	if config == nil {
		return nil, ErrConfigurationNotFound
	}
	if !config.Active {
		return nil, ErrConfigurationInactive
	}

	details, err := s.Config.GetConfigurationDetails(ctx, config.ID)
	if err != nil {
		return nil, err
	}

	return &snapshot{Subunit: *subunit, Configuration: *config, Details: details}, nil
}

// =============================================================================
// GENERATION ENTRY POINTS
// =============================================================================

// Generate runs a completeness-gated generation for a sub-unit using its
// live roster. This is the path behind manual triggers, regeneration, and
// the auto-scheduler.
func (s *Service) Generate(ctx context.Context, subunitID SubunitID, start time.Time, fillFromMonthStart bool, generatedBy string) (*GenerationResult, error) {
	snap, err := s.loadSnapshot(ctx, subunitID)
	if err != nil {
		return nil, err
	}

	completeness, err := s.Validator().Validate(ctx, subunitID, snap.Subunit.ActiveGuardsPerShift, snap.Configuration.ID)
	if err != nil {
		return nil, err
	}
	if !completeness.Complete {
		return nil, &IncompleteRosterError{
			SubunitID: subunitID,
			Required:  completeness.Required,
			Assigned:  completeness.Assigned,
			Message:   completeness.Message,
		}
	}

	roster, err := s.Assignments.ActiveRoster(ctx, subunitID)
	if err != nil {
		return nil, err
	}

	return s.generator().Generate(ctx, GenerationInput{
		Subunit:            snap.Subunit,
		Configuration:      snap.Configuration,
		Details:            snap.Details,
		Roster:             roster,
		Start:              start,
		FillFromMonthStart: fillFromMonthStart,
		GeneratedBy:        generatedBy,
	})
}

// GenerateWithRoster runs generation with a caller-supplied roster,
// bypassing the completeness gate. Rotation uses this to re-run the month
// with a reordered roster.
func (s *Service) GenerateWithRoster(ctx context.Context, subunitID SubunitID, roster []RosterEntry, start time.Time, fillFromMonthStart bool, generatedBy string) (*GenerationResult, error) {
	snap, err := s.loadSnapshot(ctx, subunitID)
	if err != nil {
		return nil, err
	}
	return s.generator().Generate(ctx, GenerationInput{
		Subunit:            snap.Subunit,
		Configuration:      snap.Configuration,
		Details:            snap.Details,
		Roster:             roster,
		Start:              start,
		FillFromMonthStart: fillFromMonthStart,
		GeneratedBy:        generatedBy,
	})
}

// Completeness exposes the validator result for a sub-unit without
// generating anything.
func (s *Service) Completeness(ctx context.Context, subunitID SubunitID) (CompletenessResult, error) {
	snap, err := s.loadSnapshot(ctx, subunitID)
	if err != nil {
		return CompletenessResult{}, err
	}
	return s.Validator().Validate(ctx, subunitID, snap.Subunit.ActiveGuardsPerShift, snap.Configuration.ID)
}

// =============================================================================
// PENDING-SHIFT RECLAIM - Invoked by the assignment surface
// =============================================================================

// ReclaimPending assigns a newly-assigned guard to the sub-unit's unassigned
// pending shifts dated today or later, flipping them back to scheduled.
// Returns the number of reclaimed shifts.
func (s *Service) ReclaimPending(ctx context.Context, subunitID SubunitID, guard GuardID) (int, error) {
	return s.Shifts.ClaimPending(ctx, subunitID, guard, Today())
}

// PurgeGuardShifts removes a pairing's shifts dated today or later. Invoked
// by administrative assignment removal.
func (s *Service) PurgeGuardShifts(ctx context.Context, subunitID SubunitID, guard GuardID) (int, error) {
	return s.Shifts.DeleteFutureForGuard(ctx, subunitID, guard, Today())
}
