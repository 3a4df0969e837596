/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:

	Defines the JSON structures for API communication. These types decouple
	the internal domain model from the external API contract, allowing:
	- Field renaming without breaking clients
	- API-specific validation
	- Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:

	Subunits:
	  SubunitDTO, CreateSubunitRequest

	Configurations:
	  ConfigurationDTO (wraps factory.ConfigJSON), CreateConfigurationRequest

	Assignments:
	  AssignmentDTO, CreateAssignmentRequest, EndAssignmentRequest

	Shifts:
	  ShiftDTO, GenerateRequest, GenerationResultDTO, RotationResultDTO,
	  RegenerationResultDTO, CompletenessDTO, CoverageReportDTO

	Scenarios:
	  ScenarioDTO, LoadScenarioRequest

VALIDATION:

	Request types carry go-playground/validator struct tags; handlers run
	them through a shared *validator.Validate before touching the store.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/config.go: ConfigJSON type
*/
package api

import (
	"time"

	"github.com/warp/shift-engine/factory"
	"github.com/warp/shift-engine/schedule"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// SubunitDTO represents a work subunit in API responses.
type SubunitDTO struct {
	ID                   string  `json:"id"`
	PostID               string  `json:"post_id"`
	Name                 string  `json:"name"`
	ActiveGuardsPerShift int     `json:"active_guards_per_shift"`
	ConfigurationID      *string `json:"configuration_id,omitempty"`
	Active               bool    `json:"active"`
}

// CreateSubunitRequest is the request to create or update a subunit.
type CreateSubunitRequest struct {
	ID                   string  `json:"id"`
	PostID               string  `json:"post_id" validate:"required"`
	Name                 string  `json:"name" validate:"required"`
	ActiveGuardsPerShift int     `json:"active_guards_per_shift" validate:"required,min=1"`
	ConfigurationID      *string `json:"configuration_id,omitempty"`
	Active               *bool   `json:"active,omitempty"`
}

// ConfigurationDTO represents a rotation configuration in API responses.
type ConfigurationDTO struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	Projection      string               `json:"projection"`
	CycleLengthDays int                  `json:"cycle_length_days"`
	Active          bool                 `json:"active"`
	Details         []factory.DetailJSON `json:"details,omitempty"`
}

// CreateConfigurationRequest is the request to create a configuration,
// either from an inline JSON definition or a named preset.
type CreateConfigurationRequest struct {
	Preset string              `json:"preset,omitempty"`
	Config *factory.ConfigJSON `json:"config,omitempty"`
}

// AssignmentDTO represents a guard assignment.
type AssignmentDTO struct {
	ID           string  `json:"id"`
	SubunitID    string  `json:"subunit_id"`
	GuardID      string  `json:"guard_id"`
	GuardName    string  `json:"guard_name"`
	Role         string  `json:"role"`
	RestPattern  string  `json:"rest_pattern,omitempty"`
	PatternStart *string `json:"pattern_start,omitempty"`
	Active       bool    `json:"active"`
	StartDate    string  `json:"start_date,omitempty"`
	EndDate      *string `json:"end_date,omitempty"`
}

// CreateAssignmentRequest is the request to assign a guard to a subunit.
type CreateAssignmentRequest struct {
	GuardID      string `json:"guard_id" validate:"required"`
	GuardName    string `json:"guard_name" validate:"required"`
	Role         string `json:"role" validate:"omitempty,oneof=titular substitute"`
	RestPattern  string `json:"rest_pattern,omitempty"`
	PatternStart string `json:"pattern_start,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
}

// EndAssignmentRequest is the request to end an assignment.
type EndAssignmentRequest struct {
	EndDate     string `json:"end_date,omitempty"`
	Reason      string `json:"reason,omitempty"`
	PurgeShifts bool   `json:"purge_shifts,omitempty"`
}

// ShiftDTO represents a single scheduled shift.
type ShiftDTO struct {
	ID            string  `json:"id"`
	SubunitID     string  `json:"subunit_id"`
	GuardID       *string `json:"guard_id,omitempty"`
	Date          string  `json:"date"`
	StartTime     *string `json:"start_time,omitempty"`
	EndTime       *string `json:"end_time,omitempty"`
	StateLabel    string  `json:"state_label"`
	OrderInCycle  int     `json:"order_in_cycle"`
	Slot          int     `json:"slot"`
	Group         string  `json:"group"`
	Status        string  `json:"status"`
	CoversGuardID *string `json:"covers_guard_id,omitempty"`
	GeneratedBy   string  `json:"generated_by,omitempty"`
}

// GenerateRequest is the request to generate shifts for a subunit.
type GenerateRequest struct {
	Start              string `json:"start,omitempty"`                 // ISO date, defaults to today
	FillFromMonthStart *bool  `json:"fill_from_month_start,omitempty"` // defaults to true
	GeneratedBy        string `json:"generated_by,omitempty"`
}

// GenerationResultDTO is the outcome of a generation run.
type GenerationResultDTO struct {
	Created  int      `json:"created"`
	Month    int      `json:"month"`
	Year     int      `json:"year"`
	Strategy string   `json:"strategy"`
	Warnings []string `json:"warnings,omitempty"`
}

// RotationResultDTO is the outcome of a roster rotation.
type RotationResultDTO struct {
	Deleted   int      `json:"deleted"`
	Generated int      `json:"generated"`
	Order     []string `json:"order"`
	Warnings  []string `json:"warnings,omitempty"`
}

// RotateRequest is the request to rotate a roster.
type RotateRequest struct {
	From string `json:"from,omitempty"` // ISO date, defaults to today
	To   string `json:"to,omitempty"`   // ISO date, defaults to far future
}

// RegenerationResultDTO is the outcome of a regeneration.
type RegenerationResultDTO struct {
	Deleted   int                 `json:"deleted"`
	Generated GenerationResultDTO `json:"generated"`
}

// CompletenessDTO reports whether a roster can generate shifts.
type CompletenessDTO struct {
	Complete bool   `json:"complete"`
	Required int    `json:"required"`
	Assigned int    `json:"assigned"`
	Missing  int    `json:"missing"`
	Message  string `json:"message"`
}

// GuardCoverageDTO is per-guard aggregate coverage.
type GuardCoverageDTO struct {
	GuardID string `json:"guard_id"`
	Shifts  int    `json:"shifts"`
	Hours   string `json:"hours"`
}

// CoverageReportDTO summarizes scheduled coverage over a window.
type CoverageReportDTO struct {
	SubunitID   string             `json:"subunit_id"`
	From        string             `json:"from"`
	To          string             `json:"to"`
	TotalShifts int                `json:"total_shifts"`
	TotalHours  string             `json:"total_hours"`
	Unassigned  int                `json:"unassigned"`
	Guards      []GuardCoverageDTO `json:"guards"`
}

// SchedulerRunDTO is the outcome of an auto-scheduler pass.
type SchedulerRunDTO struct {
	Periods   int `json:"periods"`
	Generated int `json:"generated"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// HolidayDTO represents a public holiday.
type HolidayDTO struct {
	Date string `json:"date"`
	Name string `json:"name,omitempty"`
}

// CreateHolidayRequest is the request to register a holiday.
type CreateHolidayRequest struct {
	Date string `json:"date" validate:"required"`
	Name string `json:"name,omitempty"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest is the request to load a demo scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id" validate:"required"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toShiftDTO(s schedule.Shift) ShiftDTO {
	dto := ShiftDTO{
		ID:           string(s.ID),
		SubunitID:    string(s.SubunitID),
		Date:         s.Date.Format("2006-01-02"),
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
		StateLabel:   s.StateLabel,
		OrderInCycle: s.OrderInCycle,
		Slot:         s.Slot,
		Group:        s.Group,
		Status:       string(s.Status),
		GeneratedBy:  s.GeneratedBy,
	}
	if s.GuardID != nil {
		id := string(*s.GuardID)
		dto.GuardID = &id
	}
	if s.CoversGuardID != nil {
		id := string(*s.CoversGuardID)
		dto.CoversGuardID = &id
	}
	return dto
}

func toShiftDTOs(shifts []schedule.Shift) []ShiftDTO {
	dtos := make([]ShiftDTO, len(shifts))
	for i, s := range shifts {
		dtos[i] = toShiftDTO(s)
	}
	return dtos
}

func toGenerationDTO(res *schedule.GenerationResult) GenerationResultDTO {
	if res == nil {
		return GenerationResultDTO{}
	}
	return GenerationResultDTO{
		Created:  res.Created,
		Month:    int(res.Month),
		Year:     res.Year,
		Strategy: res.Strategy,
		Warnings: res.Warnings,
	}
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}
