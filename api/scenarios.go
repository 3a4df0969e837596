/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates subunits, rotation
	configurations, assignments, and holidays that demonstrate specific
	generation strategies.

AVAILABLE SCENARIOS:

	guard-cycle:    Cyclic 2-day/2-night/2-rest post with a six-guard roster
	office-team:    Administrative subunit with office hours
	rule-based:     Titular/substitute post with rest patterns and a holiday

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create configurations via factory presets
 3. Create subunit pointing at the configuration
 4. Assign guards
 5. Optionally register holidays

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "guard-cycle"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx)
 3. Add case to LoadScenario handler

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Shared handler context and helpers
  - factory/config.go: Configuration presets
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/warp/shift-engine/factory"
	"github.com/warp/shift-engine/schedule"
	"github.com/warp/shift-engine/store/sqlite"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "guard-cycle",
		Name:        "Guard Cycle",
		Description: "Cyclic 2-day/2-night/2-rest post with a six-guard roster",
	},
	{
		ID:          "office-team",
		Name:        "Office Team",
		Description: "Administrative subunit with split office hours, weekends off",
	},
	{
		ID:          "rule-based",
		Name:        "Rule-Based Post",
		Description: "Titular/substitute coverage with rest patterns and a holiday rule",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}

	writeJSON(w, http.StatusOK, ScenarioDTO{
		ID:          h.currentScenario,
		Name:        h.currentScenario,
		Description: "Currently loaded scenario",
	})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()

	// Reset first
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	var err error
	switch req.ScenarioID {
	case "guard-cycle":
		err = h.loadGuardCycleScenario(ctx)
	case "office-team":
		err = h.loadOfficeTeamScenario(ctx)
	case "rule-based":
		err = h.loadRuleBasedScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"loaded": req.ScenarioID})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) savePreset(ctx context.Context, presetID string) (schedule.ConfigurationID, error) {
	preset, ok := factory.Preset(presetID)
	if !ok {
		return "", fmt.Errorf("preset %q not found", presetID)
	}
	config, details, err := h.ConfigFactory.FromJSON(preset)
	if err != nil {
		return "", err
	}
	if err := h.Store.SaveConfiguration(ctx, *config, details); err != nil {
		return "", err
	}
	return config.ID, nil
}

func (h *Handler) saveRoster(ctx context.Context, subunitID schedule.SubunitID, records []sqlite.AssignmentRecord) error {
	for _, record := range records {
		record.SubunitID = subunitID
		record.Active = true
		if record.StartDate.IsZero() {
			record.StartDate = schedule.Today()
		}
		if record.Role == "" {
			record.Role = schedule.RoleTitular
		}
		if err := h.Store.SaveAssignment(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

// loadGuardCycleScenario: six guards on a 2-day/2-night/2-rest cycle,
// two on post at a time.
func (h *Handler) loadGuardCycleScenario(ctx context.Context) error {
	configID, err := h.savePreset(ctx, "guard-2-2-2")
	if err != nil {
		return err
	}

	subunit := schedule.WorkSubunit{
		ID:                   "north-gate",
		PostID:               "post-north",
		Name:                 "North Gate",
		ActiveGuardsPerShift: 2,
		ConfigurationID:      &configID,
		Active:               true,
	}
	if err := h.Store.SaveSubunit(ctx, subunit); err != nil {
		return err
	}

	names := []string{"Alice Moreau", "Bruno Diallo", "Carla Mendes", "David Okafor", "Elena Vasquez", "Felix Traore"}
	records := make([]sqlite.AssignmentRecord, len(names))
	for i, name := range names {
		records[i] = sqlite.AssignmentRecord{
			ID:        schedule.AssignmentID(fmt.Sprintf("ng-a%02d", i+1)),
			GuardID:   schedule.GuardID(fmt.Sprintf("guard-%02d", i+1)),
			GuardName: name,
		}
	}
	return h.saveRoster(ctx, subunit.ID, records)
}

// loadOfficeTeamScenario: administrative staff on office hours.
func (h *Handler) loadOfficeTeamScenario(ctx context.Context) error {
	configID, err := h.savePreset(ctx, "office-week")
	if err != nil {
		return err
	}

	subunit := schedule.WorkSubunit{
		ID:                   "hq-admin",
		PostID:               "post-hq",
		Name:                 "HQ Office Team",
		ActiveGuardsPerShift: 1,
		ConfigurationID:      &configID,
		Active:               true,
	}
	if err := h.Store.SaveSubunit(ctx, subunit); err != nil {
		return err
	}

	return h.saveRoster(ctx, subunit.ID, []sqlite.AssignmentRecord{
		{ID: "hq-a01", GuardID: "admin-01", GuardName: "Greta Lindqvist"},
		{ID: "hq-a02", GuardID: "admin-02", GuardName: "Hassan Benali"},
	})
}

// loadRuleBasedScenario: titular/substitute post with rest patterns and
// an upcoming holiday that triggers the holiday-only rule.
func (h *Handler) loadRuleBasedScenario(ctx context.Context) error {
	configID, err := h.savePreset(ctx, "rule-based-post")
	if err != nil {
		return err
	}

	subunit := schedule.WorkSubunit{
		ID:                   "vault-watch",
		PostID:               "post-vault",
		Name:                 "Vault Watch",
		ActiveGuardsPerShift: 1,
		ConfigurationID:      &configID,
		Active:               true,
	}
	if err := h.Store.SaveSubunit(ctx, subunit); err != nil {
		return err
	}

	patternStart := schedule.Day(schedule.Today().AddDate(0, 0, -30))
	records := []sqlite.AssignmentRecord{
		{ID: "vw-a01", GuardID: "guard-21", GuardName: "Ines Castillo", Role: schedule.RoleTitular, RestPattern: "4-2", PatternStart: &patternStart},
		{ID: "vw-a02", GuardID: "guard-22", GuardName: "Jonas Weber", Role: schedule.RoleTitular, RestPattern: "4-2", PatternStart: &patternStart},
		{ID: "vw-a03", GuardID: "guard-23", GuardName: "Khadija Soro", Role: schedule.RoleSubstitute},
	}
	if err := h.saveRoster(ctx, subunit.ID, records); err != nil {
		return err
	}

	// A holiday two weeks out exercises the only_holidays rule.
	holiday := schedule.Day(time.Now().UTC().AddDate(0, 0, 14))
	return h.Store.SaveHoliday(ctx, "scenario-holiday", holiday, "National Day")
}
