package schedule

import (
	"context"
	"log"
	"time"
)

// =============================================================================
// ROTATION ENGINE - Reorder the roster and re-run the window
// =============================================================================

// RotationResult reports one rotation run.
type RotationResult struct {
	Deleted   int
	Generated int

	// Order is the rotated roster by guard name, new first position first.
	Order []string

	Warnings []string
}

// RotationEngine reorders a sub-unit's roster by moving the first guard to
// the end, then regenerates the date window with the rotated roster. Past
// shifts are never disturbed: the window defaults to [today, far future] and
// generation skips days before the window start while its cycle math still
// anchors to day 0 of the month. The rotated order is persisted, so N
// rotations over an N-guard roster walk the full cycle back to the original
// order.
type RotationEngine struct {
	Service *Service
}

// Rotate rotates the roster and regenerates shifts in [from ?? today,
// to ?? far future].
func (e *RotationEngine) Rotate(ctx context.Context, subunitID SubunitID, actorID string, from, to *time.Time) (*RotationResult, error) {
	// Validate the sub-unit/configuration chain before touching any rows.
	if _, err := e.Service.loadSnapshot(ctx, subunitID); err != nil {
		return nil, err
	}

	// Ordered by assignment id ascending: the cyclic offset formula depends
	// on stable roster positions.
	roster, err := e.Service.Assignments.ActiveRoster(ctx, subunitID)
	if err != nil {
		return nil, err
	}
	if len(roster) < 2 {
		return nil, ErrRotationNeedsTwo
	}

	// [A,B,C] -> [B,C,A]
	rotated := make([]RosterEntry, 0, len(roster))
	rotated = append(rotated, roster[1:]...)
	rotated = append(rotated, roster[0])

	windowFrom := Today()
	if from != nil {
		windowFrom = Day(*from)
	}
	windowTo := FarFuture
	if to != nil {
		windowTo = Day(*to)
	}

	deleted, err := e.Service.Shifts.DeleteRange(ctx, subunitID, windowFrom, windowTo)
	if err != nil {
		return nil, err
	}

	// FillFromMonthStart=false: the already-elapsed portion of the month is
	// not rewritten, but the cycle still anchors to day 0 for continuity.
	generation, err := e.Service.GenerateWithRoster(ctx, subunitID, rotated, windowFrom, false, actorID)
	if err != nil {
		return nil, err
	}

	// Persist the new order so the next rotation starts from it.
	ordered := make([]AssignmentID, len(rotated))
	for i, entry := range rotated {
		ordered[i] = entry.AssignmentID
	}
	if err := e.Service.Assignments.UpdateRosterOrder(ctx, subunitID, ordered); err != nil {
		return nil, err
	}

	order := make([]string, len(rotated))
	for i, entry := range rotated {
		order[i] = entry.GuardName
	}

	log.Printf("[Rotation] sub-unit %s: %d shift(s) deleted, %d regenerated", subunitID, deleted, generation.Created)
	return &RotationResult{
		Deleted:   deleted,
		Generated: generation.Created,
		Order:     order,
		Warnings:  generation.Warnings,
	}, nil
}
