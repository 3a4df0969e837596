/*
handlers.go - HTTP API handlers for the shift scheduling engine

PURPOSE:

	Exposes the scheduling engine via REST API. Handles HTTP
	request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:

	Subunits:
	  GET    /api/subunits                     List all subunits
	  POST   /api/subunits                     Create subunit
	  GET    /api/subunits/{id}                Get subunit details
	  GET    /api/subunits/{id}/completeness   Roster completeness check
	  GET    /api/subunits/{id}/shifts         List shifts in a window
	  GET    /api/subunits/{id}/coverage       Coverage report for a window
	  POST   /api/subunits/{id}/generate       Generate shifts
	  POST   /api/subunits/{id}/rotate         Rotate roster and regenerate
	  POST   /api/subunits/{id}/regenerate     Replace future shifts

	Assignments:
	  GET    /api/subunits/{id}/assignments    List roster
	  POST   /api/subunits/{id}/assignments    Assign a guard
	  DELETE /api/assignments/{id}             End an assignment

	Configurations:
	  GET    /api/configurations               List all configurations
	  POST   /api/configurations               Create from JSON or preset

	Holidays:
	  GET    /api/holidays                     List holidays in a window
	  POST   /api/holidays                     Register a holiday

	Scheduler:
	  POST   /api/scheduler/run                Run the auto-scheduler now

	Scenarios:
	  GET    /api/scenarios                    List demo scenarios
	  POST   /api/scenarios/load               Load a demo scenario

ARCHITECTURE:

	Handler struct holds all dependencies:
	- Store: Database access
	- Service: Scheduling engine operations
	- ConfigFactory: JSON to configuration conversion
	- validate: Shared request validator

ERROR HANDLING:

	Errors are returned as JSON with appropriate HTTP status:
	- 400: Validation errors, invalid input
	- 404: Resource not found
	- 409: Conflict (incomplete roster, duplicate rows)
	- 500: Internal errors

SECURITY NOTE:

	Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/warp/shift-engine/factory"
	"github.com/warp/shift-engine/schedule"
	"github.com/warp/shift-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store         *sqlite.Store
	Service       *schedule.Service
	ConfigFactory *factory.ConfigFactory

	validate *validator.Validate

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler over the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:         store,
		Service:       schedule.NewService(store, store),
		ConfigFactory: factory.NewConfigFactory(),
		validate:      validator.New(),
	}
}

// =============================================================================
// SUBUNIT HANDLERS
// =============================================================================

// ListSubunits returns all subunits.
func (h *Handler) ListSubunits(w http.ResponseWriter, r *http.Request) {
	subunits, err := h.Store.ListSubunits(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list subunits", err)
		return
	}

	dtos := make([]SubunitDTO, len(subunits))
	for i, s := range subunits {
		dtos[i] = toSubunitDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetSubunit returns a single subunit.
func (h *Handler) GetSubunit(w http.ResponseWriter, r *http.Request) {
	id := schedule.SubunitID(chi.URLParam(r, "id"))

	subunit, err := h.Store.GetSubunit(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get subunit", err)
		return
	}
	if subunit == nil {
		writeError(w, http.StatusNotFound, "Subunit not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toSubunitDTO(*subunit))
}

// CreateSubunit creates or updates a subunit.
func (h *Handler) CreateSubunit(w http.ResponseWriter, r *http.Request) {
	var req CreateSubunitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	subunit := schedule.WorkSubunit{
		ID:                   schedule.SubunitID(req.ID),
		PostID:               req.PostID,
		Name:                 req.Name,
		ActiveGuardsPerShift: req.ActiveGuardsPerShift,
		Active:               true,
	}
	if subunit.ID == "" {
		subunit.ID = schedule.SubunitID(uuid.NewString())
	}
	if req.ConfigurationID != nil {
		cid := schedule.ConfigurationID(*req.ConfigurationID)
		subunit.ConfigurationID = &cid
	}
	if req.Active != nil {
		subunit.Active = *req.Active
	}

	if err := h.Store.SaveSubunit(r.Context(), subunit); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save subunit", err)
		return
	}
	writeJSON(w, http.StatusCreated, toSubunitDTO(subunit))
}

// GetCompleteness reports whether a subunit's roster can generate shifts.
func (h *Handler) GetCompleteness(w http.ResponseWriter, r *http.Request) {
	id := schedule.SubunitID(chi.URLParam(r, "id"))

	result, err := h.Service.Completeness(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CompletenessDTO{
		Complete: result.Complete,
		Required: result.Required,
		Assigned: result.Assigned,
		Missing:  result.Missing,
		Message:  result.Message,
	})
}

// ListShifts returns a subunit's shifts within a window. Defaults to the
// current month.
func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	id := schedule.SubunitID(chi.URLParam(r, "id"))

	from, to, err := windowParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date window", err)
		return
	}

	shifts, err := h.Store.ListRange(r.Context(), id, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list shifts", err)
		return
	}
	writeJSON(w, http.StatusOK, toShiftDTOs(shifts))
}

// GetCoverage returns the per-guard coverage report for a window.
func (h *Handler) GetCoverage(w http.ResponseWriter, r *http.Request) {
	id := schedule.SubunitID(chi.URLParam(r, "id"))

	from, to, err := windowParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date window", err)
		return
	}

	reporter := &schedule.CoverageReporter{Shifts: h.Store}
	report, err := reporter.Report(r.Context(), id, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build coverage report", err)
		return
	}

	guards := make([]GuardCoverageDTO, len(report.Guards))
	for i, g := range report.Guards {
		guards[i] = GuardCoverageDTO{
			GuardID: string(g.GuardID),
			Shifts:  g.Shifts,
			Hours:   g.Hours.StringFixed(2),
		}
	}
	writeJSON(w, http.StatusOK, CoverageReportDTO{
		SubunitID:   string(report.SubunitID),
		From:        report.From.Format("2006-01-02"),
		To:          report.To.Format("2006-01-02"),
		TotalShifts: report.TotalShifts,
		TotalHours:  report.TotalHours.StringFixed(2),
		Unassigned:  report.Unassigned,
		Guards:      guards,
	})
}

// =============================================================================
// GENERATION HANDLERS
// =============================================================================

// Generate creates a month of shifts for a subunit.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	id := schedule.SubunitID(chi.URLParam(r, "id"))

	var req GenerateRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	start := schedule.Today()
	if req.Start != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.Start, time.UTC)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid start date (use YYYY-MM-DD)", err)
			return
		}
		start = parsed
	}
	actor := req.GeneratedBy
	if actor == "" {
		actor = "api"
	}
	fill := true
	if req.FillFromMonthStart != nil {
		fill = *req.FillFromMonthStart
	}

	result, err := h.Service.Generate(r.Context(), id, start, fill, actor)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGenerationDTO(result))
}

// Rotate rotates the roster and regenerates the window.
func (h *Handler) Rotate(w http.ResponseWriter, r *http.Request) {
	id := schedule.SubunitID(chi.URLParam(r, "id"))

	var req RotateRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	var from, to *time.Time
	if req.From != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.From, time.UTC)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
			return
		}
		from = &parsed
	}
	if req.To != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.To, time.UTC)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid to date (use YYYY-MM-DD)", err)
			return
		}
		to = &parsed
	}

	engine := &schedule.RotationEngine{Service: h.Service}
	result, err := engine.Rotate(r.Context(), id, "api", from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RotationResultDTO{
		Deleted:   result.Deleted,
		Generated: result.Generated,
		Order:     result.Order,
		Warnings:  result.Warnings,
	})
}

// Regenerate replaces a subunit's future shifts.
func (h *Handler) Regenerate(w http.ResponseWriter, r *http.Request) {
	id := schedule.SubunitID(chi.URLParam(r, "id"))

	controller := &schedule.RegenerationController{Service: h.Service}
	result, err := controller.Regenerate(r.Context(), id, "api")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RegenerationResultDTO{
		Deleted:   result.Deleted,
		Generated: toGenerationDTO(result.Generation),
	})
}

// RunScheduler triggers one auto-scheduler pass immediately.
func (h *Handler) RunScheduler(w http.ResponseWriter, r *http.Request) {
	scheduler := &schedule.AutoScheduler{Service: h.Service}
	stats, err := scheduler.Run(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Scheduler run failed", err)
		return
	}
	writeJSON(w, http.StatusOK, SchedulerRunDTO{
		Periods:   stats.Periods,
		Generated: stats.Generated,
		Skipped:   stats.Skipped,
		Failed:    stats.Failed,
	})
}

// =============================================================================
// ASSIGNMENT HANDLERS
// =============================================================================

// ListAssignments returns a subunit's active roster.
func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	id := schedule.SubunitID(chi.URLParam(r, "id"))

	roster, err := h.Store.ActiveRoster(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list assignments", err)
		return
	}

	dtos := make([]AssignmentDTO, len(roster))
	for i, entry := range roster {
		dtos[i] = AssignmentDTO{
			ID:           string(entry.AssignmentID),
			SubunitID:    string(id),
			GuardID:      string(entry.GuardID),
			GuardName:    entry.GuardName,
			Role:         string(entry.Role),
			RestPattern:  entry.RestPattern,
			PatternStart: formatDatePtr(entry.PatternStart),
			Active:       true,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateAssignment assigns a guard to a subunit. Newly assigned guards
// reclaim matching pending shifts from today onward.
func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	subunitID := schedule.SubunitID(chi.URLParam(r, "id"))

	var req CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	record := sqlite.AssignmentRecord{
		ID:        schedule.AssignmentID(uuid.NewString()),
		SubunitID: subunitID,
		GuardID:   schedule.GuardID(req.GuardID),
		GuardName: req.GuardName,
		Role:      schedule.RoleTitular,
		Active:    true,
		StartDate: schedule.Today(),
	}
	if req.Role != "" {
		record.Role = schedule.Role(req.Role)
	}
	if req.RestPattern != "" {
		if _, err := schedule.ParseRestPattern(req.RestPattern); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid rest pattern (use W-R, e.g. 4-2)", err)
			return
		}
		record.RestPattern = req.RestPattern
	}
	if req.PatternStart != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.PatternStart, time.UTC)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid pattern_start (use YYYY-MM-DD)", err)
			return
		}
		record.PatternStart = &parsed
	}
	if req.StartDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.StartDate, time.UTC)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid start_date (use YYYY-MM-DD)", err)
			return
		}
		record.StartDate = parsed
	}

	if err := h.Store.SaveAssignment(r.Context(), record); err != nil {
		writeError(w, http.StatusConflict, "Failed to save assignment", err)
		return
	}

	claimed, err := h.Service.ReclaimPending(r.Context(), subunitID, record.GuardID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Assignment saved but pending reclaim failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"assignment": AssignmentDTO{
			ID:           string(record.ID),
			SubunitID:    string(record.SubunitID),
			GuardID:      string(record.GuardID),
			GuardName:    record.GuardName,
			Role:         string(record.Role),
			RestPattern:  record.RestPattern,
			PatternStart: formatDatePtr(record.PatternStart),
			Active:       true,
			StartDate:    record.StartDate.Format("2006-01-02"),
		},
		"reclaimed_shifts": claimed,
	})
}

// EndAssignment ends an assignment, optionally purging the guard's future
// shifts in the subunit.
func (h *Handler) EndAssignment(w http.ResponseWriter, r *http.Request) {
	id := schedule.AssignmentID(chi.URLParam(r, "id"))

	var req EndAssignmentRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	record, err := h.Store.GetAssignment(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get assignment", err)
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "Assignment not found", nil)
		return
	}

	endDate := schedule.Today()
	if req.EndDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.EndDate, time.UTC)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end_date (use YYYY-MM-DD)", err)
			return
		}
		endDate = parsed
	}

	if err := h.Store.EndAssignment(r.Context(), id, endDate, req.Reason); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to end assignment", err)
		return
	}

	purged := 0
	if req.PurgeShifts {
		purged, err = h.Service.PurgeGuardShifts(r.Context(), record.SubunitID, record.GuardID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Assignment ended but shift purge failed", err)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ended":         string(id),
		"purged_shifts": purged,
	})
}

// =============================================================================
// CONFIGURATION HANDLERS
// =============================================================================

// ListConfigurations returns all rotation configurations.
func (h *Handler) ListConfigurations(w http.ResponseWriter, r *http.Request) {
	configs, err := h.Store.ListConfigurations(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list configurations", err)
		return
	}

	dtos := make([]ConfigurationDTO, len(configs))
	for i, c := range configs {
		dtos[i] = ConfigurationDTO{
			ID:              string(c.ID),
			Name:            c.Name,
			Projection:      string(c.Projection),
			CycleLengthDays: c.CycleLengthDays,
			Active:          c.Active,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateConfiguration creates a configuration from inline JSON or a preset.
func (h *Handler) CreateConfiguration(w http.ResponseWriter, r *http.Request) {
	var req CreateConfigurationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var configJSON factory.ConfigJSON
	switch {
	case req.Preset != "":
		preset, ok := factory.Preset(req.Preset)
		if !ok {
			writeError(w, http.StatusBadRequest, "Unknown preset", nil)
			return
		}
		configJSON = preset
	case req.Config != nil:
		configJSON = *req.Config
	default:
		writeError(w, http.StatusBadRequest, "Provide either preset or config", nil)
		return
	}

	config, details, err := h.ConfigFactory.FromJSON(configJSON)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid configuration", err)
		return
	}

	if err := h.Store.SaveConfiguration(r.Context(), *config, details); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save configuration", err)
		return
	}

	writeJSON(w, http.StatusCreated, ConfigurationDTO{
		ID:              string(config.ID),
		Name:            config.Name,
		Projection:      string(config.Projection),
		CycleLengthDays: config.CycleLengthDays,
		Active:          config.Active,
		Details:         configJSON.Details,
	})
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns holidays in a window.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	from, to, err := windowParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date window", err)
		return
	}

	dates, err := h.Store.Holidays(r.Context(), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
		return
	}

	dtos := make([]HolidayDTO, len(dates))
	for i, d := range dates {
		dtos[i] = HolidayDTO{Date: d.Format("2006-01-02")}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday registers a public holiday.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	if err := h.Store.SaveHoliday(r.Context(), uuid.NewString(), date, req.Name); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save holiday", err)
		return
	}
	writeJSON(w, http.StatusCreated, HolidayDTO{Date: date.Format("2006-01-02"), Name: req.Name})
}

// =============================================================================
// HELPERS
// =============================================================================

func toSubunitDTO(s schedule.WorkSubunit) SubunitDTO {
	dto := SubunitDTO{
		ID:                   string(s.ID),
		PostID:               s.PostID,
		Name:                 s.Name,
		ActiveGuardsPerShift: s.ActiveGuardsPerShift,
		Active:               s.Active,
	}
	if s.ConfigurationID != nil {
		cid := string(*s.ConfigurationID)
		dto.ConfigurationID = &cid
	}
	return dto
}

// windowParams parses optional from/to query params, defaulting to the
// current month.
func windowParams(r *http.Request) (time.Time, time.Time, error) {
	monthStart, days := schedule.MonthWindow(schedule.Today())
	from := monthStart
	to := monthStart.AddDate(0, 0, days-1)

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed
	}
	return from, to, nil
}

// writeDomainError maps engine errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	var incomplete *schedule.IncompleteRosterError
	switch {
	case schedule.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case errors.As(err, &incomplete):
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error: incomplete.Message,
			Code:  "roster_incomplete",
			Details: map[string]int{
				"required": incomplete.Required,
				"assigned": incomplete.Assigned,
			},
		})
	case schedule.IsInvalidState(err):
		writeError(w, http.StatusConflict, "Operation not allowed in current state", err)
	case errors.Is(err, schedule.ErrShiftConflict):
		writeError(w, http.StatusConflict, "Conflicting shifts already exist", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
