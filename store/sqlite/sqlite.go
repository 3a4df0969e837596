/*
Package sqlite provides a SQLite-backed implementation of the scheduling
store contracts.

PURPOSE:

	Implements schedule.Stores (ConfigStore, AssignmentStore, ShiftStore,
	GenerationLogStore) plus schedule.HolidayProvider using SQLite. In
	production the same patterns apply to PostgreSQL - only minor SQL dialect
	differences.

KEY TABLES:

	subunits:                Work sub-units of a physical post
	rotation_configurations: Named cycle templates
	configuration_details:   Ordered shift-state rows per configuration
	employee_assignments:    Guard-to-sub-unit links (soft-ended, never
	                         hard-deleted except administratively)
	shifts:                  Generated shift rows (insert/delete batches)
	generation_log:          Append-only idempotency markers
	holidays:                Holiday calendar rows

RACE WINDOW:

	The unique index idx_shifts_guard_day closes the race between the
	completeness check and the bulk insert: two concurrent generation runs for
	the same sub-unit cannot both land rows for the same (guard, date, order).
	The loser maps to schedule.ErrShiftConflict.

CONCURRENCY:

	Uses sync.RWMutex for in-process thread-safety. SQLite is opened with WAL
	for better crash recovery and reader concurrency.

SEE ALSO:
  - schedule/store.go: Contract definitions
  - schedule/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/shift-engine/schedule"
)

const dateFormat = "2006-01-02"

// Store implements all scheduling store contracts using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schemaSQL := `
	CREATE TABLE IF NOT EXISTS subunits (
		id TEXT PRIMARY KEY,
		post_id TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		active_guards_per_shift INTEGER NOT NULL DEFAULT 1,
		configuration_id TEXT,
		active BOOLEAN NOT NULL DEFAULT TRUE
	);

	CREATE INDEX IF NOT EXISTS idx_subunits_active
		ON subunits(active);

	CREATE TABLE IF NOT EXISTS rotation_configurations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		cycle_length_days INTEGER NOT NULL,
		projection TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE
	);

	CREATE TABLE IF NOT EXISTS configuration_details (
		id TEXT PRIMARY KEY,
		configuration_id TEXT NOT NULL,
		order_index INTEGER NOT NULL,
		state_label TEXT NOT NULL,
		start_time TEXT NOT NULL DEFAULT '',
		end_time TEXT NOT NULL DEFAULT '',
		weekdays TEXT NOT NULL DEFAULT '',
		holiday_policy TEXT NOT NULL DEFAULT 'indifferent'
	);

	CREATE INDEX IF NOT EXISTS idx_details_configuration
		ON configuration_details(configuration_id, order_index);

	CREATE TABLE IF NOT EXISTS employee_assignments (
		id TEXT PRIMARY KEY,
		subunit_id TEXT NOT NULL,
		guard_id TEXT NOT NULL,
		guard_name TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'titular',
		rest_pattern TEXT NOT NULL DEFAULT '',
		pattern_start TEXT,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		start_date TEXT NOT NULL,
		end_date TEXT,
		termination_reason TEXT NOT NULL DEFAULT '',
		-- 0 until a rotation persists an explicit roster ordering.
		position INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_assignments_subunit_active
		ON employee_assignments(subunit_id, active);

	-- At most one active assignment per (guard, sub-unit) pair.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_assignments_unique_active
		ON employee_assignments(subunit_id, guard_id) WHERE active;

	CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		subunit_id TEXT NOT NULL,
		guard_id TEXT,
		date TEXT NOT NULL,
		start_time TEXT,
		end_time TEXT,
		state_label TEXT NOT NULL,
		order_in_cycle INTEGER NOT NULL,
		slot INTEGER NOT NULL,
		group_label TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'scheduled',
		covers_guard_id TEXT,
		generated_by TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_shifts_subunit_date
		ON shifts(subunit_id, date);
	CREATE INDEX IF NOT EXISTS idx_shifts_guard
		ON shifts(guard_id) WHERE guard_id IS NOT NULL;
	CREATE INDEX IF NOT EXISTS idx_shifts_status
		ON shifts(status);

	-- Closes the completeness-check/bulk-insert race window: no guard can be
	-- double-booked for the same date and cycle order.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_shifts_guard_day
		ON shifts(subunit_id, guard_id, date, order_in_cycle)
		WHERE guard_id IS NOT NULL;

	CREATE TABLE IF NOT EXISTS generation_log (
		id TEXT PRIMARY KEY,
		subunit_id TEXT NOT NULL,
		configuration_id TEXT NOT NULL,
		month INTEGER NOT NULL,
		year INTEGER NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_generation_log_period
		ON generation_log(subunit_id, year, month);

	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		UNIQUE(date, name)
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_date
		ON holidays(date);
	`
	_, err := s.db.Exec(schemaSQL)
	return err
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// =============================================================================
// CONFIG STORE
// =============================================================================

func (s *Store) GetSubunit(ctx context.Context, id schedule.SubunitID) (*schedule.WorkSubunit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, post_id, name, active_guards_per_shift, configuration_id, active
		FROM subunits WHERE id = ?`, id)
	return scanSubunit(row)
}

func (s *Store) ListActiveSubunits(ctx context.Context) ([]schedule.WorkSubunit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listSubunits(ctx, `WHERE active`)
}

// ListSubunits returns every sub-unit, active or not. Admin surface.
func (s *Store) ListSubunits(ctx context.Context) ([]schedule.WorkSubunit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listSubunits(ctx, ``)
}

func (s *Store) listSubunits(ctx context.Context, where string) ([]schedule.WorkSubunit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, post_id, name, active_guards_per_shift, configuration_id, active
		FROM subunits `+where+` ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []schedule.WorkSubunit
	for rows.Next() {
		subunit, err := scanSubunit(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *subunit)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubunit(row rowScanner) (*schedule.WorkSubunit, error) {
	var subunit schedule.WorkSubunit
	var configID sql.NullString
	err := row.Scan(&subunit.ID, &subunit.PostID, &subunit.Name,
		&subunit.ActiveGuardsPerShift, &configID, &subunit.Active)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if configID.Valid {
		id := schedule.ConfigurationID(configID.String)
		subunit.ConfigurationID = &id
	}
	return &subunit, nil
}

// SaveSubunit inserts or replaces a sub-unit.
func (s *Store) SaveSubunit(ctx context.Context, subunit schedule.WorkSubunit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var configID any
	if subunit.ConfigurationID != nil {
		configID = string(*subunit.ConfigurationID)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO subunits
		(id, post_id, name, active_guards_per_shift, configuration_id, active)
		VALUES (?, ?, ?, ?, ?, ?)`,
		subunit.ID, subunit.PostID, subunit.Name,
		subunit.ActiveGuardsPerShift, configID, subunit.Active)
	return err
}

func (s *Store) GetConfiguration(ctx context.Context, id schedule.ConfigurationID) (*schedule.RotationConfiguration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var config schedule.RotationConfiguration
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, cycle_length_days, projection, active
		FROM rotation_configurations WHERE id = ?`, id).
		Scan(&config.ID, &config.Name, &config.CycleLengthDays, &config.Projection, &config.Active)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// ListConfigurations returns every rotation configuration. Admin surface.
func (s *Store) ListConfigurations(ctx context.Context) ([]schedule.RotationConfiguration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, cycle_length_days, projection, active
		FROM rotation_configurations ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []schedule.RotationConfiguration
	for rows.Next() {
		var config schedule.RotationConfiguration
		if err := rows.Scan(&config.ID, &config.Name, &config.CycleLengthDays,
			&config.Projection, &config.Active); err != nil {
			return nil, err
		}
		result = append(result, config)
	}
	return result, rows.Err()
}

func (s *Store) GetConfigurationDetails(ctx context.Context, id schedule.ConfigurationID) ([]schedule.ConfigurationDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, configuration_id, order_index, state_label, start_time, end_time, weekdays, holiday_policy
		FROM configuration_details WHERE configuration_id = ?
		ORDER BY order_index`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []schedule.ConfigurationDetail
	for rows.Next() {
		var detail schedule.ConfigurationDetail
		var weekdays string
		if err := rows.Scan(&detail.ID, &detail.ConfigurationID, &detail.OrderIndex,
			&detail.StateLabel, &detail.StartTime, &detail.EndTime,
			&weekdays, &detail.HolidayPolicy); err != nil {
			return nil, err
		}
		detail.Weekdays = parseWeekdays(weekdays)
		result = append(result, detail)
	}
	return result, rows.Err()
}

// SaveConfiguration replaces a configuration and its detail rows atomically.
func (s *Store) SaveConfiguration(ctx context.Context, config schedule.RotationConfiguration, details []schedule.ConfigurationDetail) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO rotation_configurations
		(id, name, cycle_length_days, projection, active)
		VALUES (?, ?, ?, ?, ?)`,
		config.ID, config.Name, config.CycleLengthDays, config.Projection, config.Active); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM configuration_details WHERE configuration_id = ?`, config.ID); err != nil {
		return err
	}
	for _, detail := range details {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO configuration_details
			(id, configuration_id, order_index, state_label, start_time, end_time, weekdays, holiday_policy)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			detail.ID, config.ID, detail.OrderIndex, detail.StateLabel,
			detail.StartTime, detail.EndTime, formatWeekdays(detail.Weekdays),
			detail.HolidayPolicy); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Weekdays persist as a comma-separated list of time.Weekday ints; empty
// means every day.
func formatWeekdays(days []time.Weekday) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(int(d))
	}
	return strings.Join(parts, ",")
}

func parseWeekdays(s string) []time.Weekday {
	if s == "" {
		return nil
	}
	var days []time.Weekday
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 6 {
			continue
		}
		days = append(days, time.Weekday(n))
	}
	return days
}

// =============================================================================
// ASSIGNMENT STORE
// =============================================================================

// AssignmentRecord is the full assignment row, used by the admin surface.
// The engine itself only ever sees the flattened RosterEntry view.
type AssignmentRecord struct {
	ID                schedule.AssignmentID
	SubunitID         schedule.SubunitID
	GuardID           schedule.GuardID
	GuardName         string
	Role              schedule.Role
	RestPattern       string
	PatternStart      *time.Time
	Active            bool
	StartDate         time.Time
	EndDate           *time.Time
	TerminationReason string
}

func (s *Store) ActiveRoster(ctx context.Context, subunitID schedule.SubunitID) ([]schedule.RosterEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, guard_id, guard_name, role, rest_pattern, pattern_start
		FROM employee_assignments
		WHERE subunit_id = ? AND active
		ORDER BY position ASC, id ASC`, subunitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roster []schedule.RosterEntry
	for rows.Next() {
		var entry schedule.RosterEntry
		var patternStart sql.NullString
		if err := rows.Scan(&entry.AssignmentID, &entry.GuardID, &entry.GuardName,
			&entry.Role, &entry.RestPattern, &patternStart); err != nil {
			return nil, err
		}
		if patternStart.Valid && patternStart.String != "" {
			t, err := time.ParseInLocation(dateFormat, patternStart.String, time.UTC)
			if err != nil {
				return nil, fmt.Errorf("assignment %s: bad pattern start: %w", entry.AssignmentID, err)
			}
			entry.PatternStart = &t
		}
		roster = append(roster, entry)
	}
	return roster, rows.Err()
}

func (s *Store) CountActive(ctx context.Context, subunitID schedule.SubunitID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM employee_assignments
		WHERE subunit_id = ? AND active`, subunitID).Scan(&count)
	return count, err
}

// UpdateRosterOrder persists the rotated roster ordering as 1-based
// positions. Assignments not listed keep position 0 and sort first.
func (s *Store) UpdateRosterOrder(ctx context.Context, subunitID schedule.SubunitID, ordered []schedule.AssignmentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, id := range ordered {
		if _, err := tx.ExecContext(ctx, `
			UPDATE employee_assignments SET position = ?
			WHERE id = ? AND subunit_id = ?`,
			i+1, id, subunitID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SaveAssignment inserts an assignment row. A second active assignment for
// the same (guard, sub-unit) pair violates idx_assignments_unique_active.
func (s *Store) SaveAssignment(ctx context.Context, record AssignmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var patternStart any
	if record.PatternStart != nil {
		patternStart = record.PatternStart.Format(dateFormat)
	}
	var endDate any
	if record.EndDate != nil {
		endDate = record.EndDate.Format(dateFormat)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employee_assignments
		(id, subunit_id, guard_id, guard_name, role, rest_pattern, pattern_start,
		 active, start_date, end_date, termination_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.SubunitID, record.GuardID, record.GuardName,
		record.Role, record.RestPattern, patternStart,
		record.Active, record.StartDate.Format(dateFormat), endDate,
		record.TerminationReason)
	if isUniqueConstraintError(err) {
		return fmt.Errorf("guard %s already has an active assignment on sub-unit %s",
			record.GuardID, record.SubunitID)
	}
	return err
}

// EndAssignment soft-ends an assignment: active=false, end date set. The row
// is never hard-deleted here.
func (s *Store) EndAssignment(ctx context.Context, id schedule.AssignmentID, endDate time.Time, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		UPDATE employee_assignments
		SET active = FALSE, end_date = ?, termination_reason = ?
		WHERE id = ?`,
		endDate.Format(dateFormat), reason, id)
	return err
}

// GetAssignment returns one assignment row, or nil when missing.
func (s *Store) GetAssignment(ctx context.Context, id schedule.AssignmentID) (*AssignmentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var record AssignmentRecord
	var patternStart, endDate sql.NullString
	var startDate string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, subunit_id, guard_id, guard_name, role, rest_pattern, pattern_start,
		       active, start_date, end_date, termination_reason
		FROM employee_assignments WHERE id = ?`, id).
		Scan(&record.ID, &record.SubunitID, &record.GuardID, &record.GuardName,
			&record.Role, &record.RestPattern, &patternStart,
			&record.Active, &startDate, &endDate, &record.TerminationReason)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	record.StartDate, _ = time.ParseInLocation(dateFormat, startDate, time.UTC)
	if patternStart.Valid && patternStart.String != "" {
		t, _ := time.ParseInLocation(dateFormat, patternStart.String, time.UTC)
		record.PatternStart = &t
	}
	if endDate.Valid && endDate.String != "" {
		t, _ := time.ParseInLocation(dateFormat, endDate.String, time.UTC)
		record.EndDate = &t
	}
	return &record, nil
}

// =============================================================================
// SHIFT STORE
// =============================================================================

func (s *Store) InsertBatch(ctx context.Context, shifts []schedule.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO shifts
		(id, subunit_id, guard_id, date, start_time, end_time, state_label,
		 order_in_cycle, slot, group_label, status, covers_guard_id, generated_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, shift := range shifts {
		var guardID, coversID, startTime, endTime any
		if shift.GuardID != nil {
			guardID = string(*shift.GuardID)
		}
		if shift.CoversGuardID != nil {
			coversID = string(*shift.CoversGuardID)
		}
		if shift.StartTime != nil {
			startTime = *shift.StartTime
		}
		if shift.EndTime != nil {
			endTime = *shift.EndTime
		}

		_, err := stmt.ExecContext(ctx,
			shift.ID, shift.SubunitID, guardID, shift.Date.Format(dateFormat),
			startTime, endTime, shift.StateLabel, shift.OrderInCycle,
			shift.Slot, shift.Group, shift.Status, coversID, shift.GeneratedBy)
		if err != nil {
			if isUniqueConstraintError(err) {
				return schedule.ErrShiftConflict
			}
			return fmt.Errorf("failed to insert shift: %w", err)
		}
	}
	return tx.Commit()
}

func (s *Store) DeleteRange(ctx context.Context, subunitID schedule.SubunitID, from, to time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM shifts
		WHERE subunit_id = ? AND date >= ? AND date <= ?`,
		subunitID, from.Format(dateFormat), to.Format(dateFormat))
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	return int(affected), err
}

func (s *Store) CountRange(ctx context.Context, subunitID schedule.SubunitID, from, to time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM shifts
		WHERE subunit_id = ? AND date >= ? AND date <= ?`,
		subunitID, from.Format(dateFormat), to.Format(dateFormat)).Scan(&count)
	return count, err
}

func (s *Store) ListRange(ctx context.Context, subunitID schedule.SubunitID, from, to time.Time) ([]schedule.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, subunit_id, guard_id, date, start_time, end_time, state_label,
		       order_in_cycle, slot, group_label, status, covers_guard_id, generated_by
		FROM shifts
		WHERE subunit_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC, slot ASC, order_in_cycle ASC`,
		subunitID, from.Format(dateFormat), to.Format(dateFormat))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []schedule.Shift
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, shift)
	}
	return result, rows.Err()
}

func scanShift(rows *sql.Rows) (schedule.Shift, error) {
	var shift schedule.Shift
	var guardID, startTime, endTime, coversID sql.NullString
	var date string
	err := rows.Scan(&shift.ID, &shift.SubunitID, &guardID, &date,
		&startTime, &endTime, &shift.StateLabel, &shift.OrderInCycle,
		&shift.Slot, &shift.Group, &shift.Status, &coversID, &shift.GeneratedBy)
	if err != nil {
		return schedule.Shift{}, err
	}

	shift.Date, err = time.ParseInLocation(dateFormat, date, time.UTC)
	if err != nil {
		return schedule.Shift{}, fmt.Errorf("shift %s: bad date: %w", shift.ID, err)
	}
	if guardID.Valid {
		id := schedule.GuardID(guardID.String)
		shift.GuardID = &id
	}
	if coversID.Valid {
		id := schedule.GuardID(coversID.String)
		shift.CoversGuardID = &id
	}
	if startTime.Valid {
		value := startTime.String
		shift.StartTime = &value
	}
	if endTime.Valid {
		value := endTime.String
		shift.EndTime = &value
	}
	return shift, nil
}

func (s *Store) ClaimPending(ctx context.Context, subunitID schedule.SubunitID, guard schedule.GuardID, from time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `
		UPDATE shifts
		SET guard_id = ?, status = ?
		WHERE subunit_id = ? AND guard_id IS NULL AND status = ? AND date >= ?`,
		guard, schedule.StatusScheduled, subunitID,
		schedule.StatusPendingAssignment, from.Format(dateFormat))
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	return int(affected), err
}

func (s *Store) DeleteFutureForGuard(ctx context.Context, subunitID schedule.SubunitID, guard schedule.GuardID, from time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM shifts
		WHERE subunit_id = ? AND guard_id = ? AND date >= ?`,
		subunitID, guard, from.Format(dateFormat))
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	return int(affected), err
}

// =============================================================================
// GENERATION LOG STORE
// =============================================================================

func (s *Store) AppendLog(ctx context.Context, entry schedule.GenerationLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO generation_log
		(id, subunit_id, configuration_id, month, year, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.SubunitID, entry.ConfigurationID,
		int(entry.Month), entry.Year, entry.Description,
		entry.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

func (s *Store) LogExists(ctx context.Context, subunitID schedule.SubunitID, month time.Month, year int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM generation_log
		WHERE subunit_id = ? AND month = ? AND year = ?`,
		subunitID, int(month), year).Scan(&count)
	return count > 0, err
}

// =============================================================================
// HOLIDAY PROVIDER
// =============================================================================

func (s *Store) Holidays(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT date FROM holidays
		WHERE date >= ? AND date <= ?
		ORDER BY date`,
		from.Format(dateFormat), to.Format(dateFormat))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []time.Time
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, err
		}
		t, err := time.ParseInLocation(dateFormat, date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("bad holiday date %q: %w", date, err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// SaveHoliday inserts a holiday row; duplicates are ignored.
func (s *Store) SaveHoliday(ctx context.Context, id string, date time.Time, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO holidays (id, date, name) VALUES (?, ?, ?)`,
		id, date.Format(dateFormat), name)
	return err
}

// Reset wipes every table. Dev/scenario use only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{
		"subunits", "rotation_configurations", "configuration_details",
		"employee_assignments", "shifts", "generation_log", "holidays",
	} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}
