/*
store.go - Persistence contracts consumed by the scheduling engine

PURPOSE:

	Defines the interface between the engine and the external data store.
	The engine only ever reads configuration/assignment data and performs
	insert/delete/count batches on shifts scoped by sub-unit and date range.
	Different implementations can use SQLite, PostgreSQL, or in-memory storage.

KEY INTERFACES:

	ConfigStore:        WorkSubunit + RotationConfiguration reads
	AssignmentStore:    Active roster reads (flattened to RosterEntry)
	ShiftStore:         Bulk insert, range delete, count, list, reclaim
	GenerationLogStore: Append-only idempotency markers

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite
  - schedule/store/memory.go: In-memory for testing

SEE ALSO:
  - service.go: Orchestrates these contracts per operation
*/
package schedule

import (
	"context"
	"time"
)

// =============================================================================
// CONFIGURATION STORE
// =============================================================================

// ConfigStore reads sub-units and rotation configurations. Missing records
// are reported as (nil, nil); the service layer maps them to not-found errors.
type ConfigStore interface {
	GetSubunit(ctx context.Context, id SubunitID) (*WorkSubunit, error)

	// ListActiveSubunits returns every active sub-unit, for the batch driver.
	ListActiveSubunits(ctx context.Context) ([]WorkSubunit, error)

	GetConfiguration(ctx context.Context, id ConfigurationID) (*RotationConfiguration, error)

	// GetConfigurationDetails returns a configuration's detail rows ordered
	// by insertion (order index ascending).
	GetConfigurationDetails(ctx context.Context, id ConfigurationID) ([]ConfigurationDetail, error)
}

// =============================================================================
// ASSIGNMENT STORE
// =============================================================================

// AssignmentStore reads active guard assignments for a sub-unit. The store
// flattens joined rows into RosterEntry exactly once; the engine never sees
// raw assignment records.
type AssignmentStore interface {
	// ActiveRoster returns the active roster in its persisted order,
	// assignment id ascending until a rotation has reordered it. Order
	// stability matters: the cyclic offset formula depends on roster
	// position.
	ActiveRoster(ctx context.Context, subunitID SubunitID) ([]RosterEntry, error)

	// CountActive returns the number of active assignments for the sub-unit.
	CountActive(ctx context.Context, subunitID SubunitID) (int, error)

	// UpdateRosterOrder persists a new roster ordering. Subsequent
	// ActiveRoster calls return entries in this order, so repeated
	// rotations walk the whole cycle.
	UpdateRosterOrder(ctx context.Context, subunitID SubunitID, ordered []AssignmentID) error
}

// =============================================================================
// SHIFT STORE
// =============================================================================

// ShiftStore persists shift rows. All writes are batches scoped by sub-unit
// and date range; there is no single-row update surface in the engine.
type ShiftStore interface {
	// InsertBatch persists generated shifts atomically. A collision on
	// (subunit, guard, date, order) returns ErrShiftConflict and nothing
	// is written.
	InsertBatch(ctx context.Context, shifts []Shift) error

	// DeleteRange removes the sub-unit's shifts dated within [from, to]
	// and returns how many were removed.
	DeleteRange(ctx context.Context, subunitID SubunitID, from, to time.Time) (int, error)

	// CountRange counts the sub-unit's shifts dated within [from, to].
	CountRange(ctx context.Context, subunitID SubunitID, from, to time.Time) (int, error)

	// ListRange returns the sub-unit's shifts dated within [from, to],
	// ordered by date then slot.
	ListRange(ctx context.Context, subunitID SubunitID, from, to time.Time) ([]Shift, error)

	// ClaimPending assigns the guard to the sub-unit's unassigned
	// pending-assignment shifts dated from or later, flipping them back to
	// scheduled. Returns the number of reclaimed rows.
	ClaimPending(ctx context.Context, subunitID SubunitID, guard GuardID, from time.Time) (int, error)

	// DeleteFutureForGuard purges the pairing's shifts dated from or later.
	// Used by administrative assignment removal.
	DeleteFutureForGuard(ctx context.Context, subunitID SubunitID, guard GuardID, from time.Time) (int, error)
}

// =============================================================================
// GENERATION LOG STORE
// =============================================================================

// GenerationLogStore persists generation-run markers. Append-only.
type GenerationLogStore interface {
	AppendLog(ctx context.Context, entry GenerationLog) error

	// LogExists checks for a marker for (subunit, month, year).
	LogExists(ctx context.Context, subunitID SubunitID, month time.Month, year int) (bool, error)
}

// =============================================================================
// STORE BUNDLE
// =============================================================================

// Stores bundles every contract the engine needs. Concrete stores implement
// the whole set.
type Stores interface {
	ConfigStore
	AssignmentStore
	ShiftStore
	GenerationLogStore
}
