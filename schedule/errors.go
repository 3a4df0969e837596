/*
errors.go - Centralized error types for the scheduling engine

PURPOSE:

	All error types in one place for consistency and discoverability.
	Callers distinguish categories with errors.Is / errors.As.

ERROR CATEGORIES:
 1. Not-found   - referenced sub-unit or configuration missing (fatal)
 2. Invalid-state - inactive records, missing configuration, incomplete
    roster, rotation with too few guards (fatal to the one operation)
 3. Conflict    - duplicate shift insert detected by the store

Degraded dependencies (holiday provider) and best-effort side effects
(generation-log writes) are NOT errors: they surface as warnings inside
operation results.

SEE ALSO:
  - completeness.go: Builds IncompleteRosterError
  - store/sqlite: Maps unique-constraint violations to ErrShiftConflict
*/
package schedule

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrSubunitNotFound is returned when a referenced sub-unit doesn't exist.
	ErrSubunitNotFound = errors.New("work sub-unit not found")

	// ErrConfigurationNotFound is returned when a referenced rotation
	// configuration doesn't exist.
	ErrConfigurationNotFound = errors.New("rotation configuration not found")

	// ErrSubunitInactive is returned when generating for a deactivated sub-unit.
	ErrSubunitInactive = errors.New("work sub-unit is inactive")

	// ErrNoConfiguration is returned when a sub-unit has no rotation
	// configuration attached.
	ErrNoConfiguration = errors.New("work sub-unit has no rotation configuration")

	// ErrConfigurationInactive is returned when the attached configuration
	// has been deactivated.
	ErrConfigurationInactive = errors.New("rotation configuration is inactive")

	// ErrEmptyRoster is returned when generation is attempted with no guards.
	ErrEmptyRoster = errors.New("no active guards assigned")

	// ErrNoCycleDetails is returned when a cyclic configuration has no
	// detail rows to rotate through.
	ErrNoCycleDetails = errors.New("configuration has no detail rows")

	// ErrRotationNeedsTwo is returned when rotating a roster of fewer than
	// two active guards.
	ErrRotationNeedsTwo = errors.New("rotation requires at least two active guards")

	// ErrShiftConflict is returned when a shift insert collides with an
	// existing row for the same (subunit, guard, date, order).
	ErrShiftConflict = errors.New("shift already exists for guard and date")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// IncompleteRosterError reports a failed completeness gate: the assigned
// guard count does not exactly match the required headcount.
type IncompleteRosterError struct {
	SubunitID SubunitID
	Required  int
	Assigned  int
	Message   string
}

func (e *IncompleteRosterError) Error() string {
	return fmt.Sprintf("roster incomplete for sub-unit %s: %s", e.SubunitID, e.Message)
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSubunitNotFound) ||
		errors.Is(err, ErrConfigurationNotFound)
}

// IsInvalidState returns true if the error is a precondition failure on an
// otherwise existing record. These fail the single operation but must not
// abort sibling sub-units in a batch.
func IsInvalidState(err error) bool {
	var incomplete *IncompleteRosterError
	return errors.Is(err, ErrSubunitInactive) ||
		errors.Is(err, ErrNoConfiguration) ||
		errors.Is(err, ErrConfigurationInactive) ||
		errors.Is(err, ErrEmptyRoster) ||
		errors.Is(err, ErrNoCycleDetails) ||
		errors.Is(err, ErrRotationNeedsTwo) ||
		errors.As(err, &incomplete)
}
