package schedule

import (
	"context"
	"fmt"
)

// =============================================================================
// COMPLETENESS VALIDATOR - Gatekeeper for generation
// =============================================================================

// CompletenessResult reports how a sub-unit's roster compares to its
// required headcount.
type CompletenessResult struct {
	Complete bool
	Required int
	Assigned int

	// Missing is how many guards must still be assigned. Zero when the
	// roster is complete or over-staffed.
	Missing int

	Message string
}

// Validator compares the assigned guard count against the required headcount.
//
// The check is strict equality: an over-staffed roster is reported
// incomplete as well, with the excess flagged in the message. This forces
// explicit administrative correction instead of silently tolerating extra
// guards; do not loosen it to >=.
type Validator struct {
	Resolver    *ConfigResolver
	Assignments AssignmentStore
}

// Validate computes the completeness gate for a sub-unit.
func (v *Validator) Validate(ctx context.Context, subunitID SubunitID, activeGuards int, configID ConfigurationID) (CompletenessResult, error) {
	required, err := v.Resolver.RequiredHeadcount(ctx, activeGuards, configID)
	if err != nil {
		return CompletenessResult{}, err
	}
	assigned, err := v.Assignments.CountActive(ctx, subunitID)
	if err != nil {
		return CompletenessResult{}, err
	}

	result := CompletenessResult{
		Required: required,
		Assigned: assigned,
	}
	switch {
	case assigned == required:
		result.Complete = true
		result.Message = fmt.Sprintf("roster complete: %d guard(s) assigned", assigned)
	case assigned < required:
		result.Missing = required - assigned
		result.Message = fmt.Sprintf("need %d more guard(s) before shifts can be generated", result.Missing)
	default:
		result.Message = fmt.Sprintf("over-staffed: %d guard(s) assigned but only %d required, remove %d before generating",
			assigned, required, assigned-required)
	}
	return result, nil
}
