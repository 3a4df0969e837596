package schedule

import (
	"context"
	"log"
)

// =============================================================================
// REGENERATION CONTROLLER - Future-only wipe and rebuild
// =============================================================================

// RegenerationResult reports one regeneration run.
type RegenerationResult struct {
	Deleted    int
	Generation *GenerationResult
}

// RegenerationController deletes a sub-unit's shifts from tomorrow onward
// and regenerates the current month with the live roster under the full
// completeness gate. Used when a configuration or guard count changes.
// Shifts dated today or earlier are never touched.
type RegenerationController struct {
	Service *Service
}

// Regenerate rebuilds the sub-unit's future shifts.
func (c *RegenerationController) Regenerate(ctx context.Context, subunitID SubunitID, actorID string) (*RegenerationResult, error) {
	tomorrow := Today().AddDate(0, 0, 1)

	deleted, err := c.Service.Shifts.DeleteRange(ctx, subunitID, tomorrow, FarFuture)
	if err != nil {
		return nil, err
	}

	// FillFromMonthStart=false keeps today's and earlier rows in place while
	// the cycle math still anchors to day 0 of the month.
	generation, err := c.Service.Generate(ctx, subunitID, tomorrow, false, actorID)
	if err != nil {
		return nil, err
	}

	log.Printf("[Regeneration] sub-unit %s: %d future shift(s) replaced with %d", subunitID, deleted, generation.Created)
	return &RegenerationResult{Deleted: deleted, Generation: generation}, nil
}
