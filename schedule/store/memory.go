// Package store provides in-memory implementations of the schedule store
// contracts, for tests and development.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/shift-engine/schedule"
)

// =============================================================================
// MEMORY STORE - Implements schedule.Stores and schedule.HolidayProvider
// =============================================================================

type Memory struct {
	mu sync.RWMutex

	subunits map[schedule.SubunitID]schedule.WorkSubunit
	configs  map[schedule.ConfigurationID]schedule.RotationConfiguration
	details  map[schedule.ConfigurationID][]schedule.ConfigurationDetail
	rosters  map[schedule.SubunitID][]schedule.RosterEntry
	shifts   []schedule.Shift
	logs     []schedule.GenerationLog
	holidays []time.Time
}

func NewMemory() *Memory {
	return &Memory{
		subunits: make(map[schedule.SubunitID]schedule.WorkSubunit),
		configs:  make(map[schedule.ConfigurationID]schedule.RotationConfiguration),
		details:  make(map[schedule.ConfigurationID][]schedule.ConfigurationDetail),
		rosters:  make(map[schedule.SubunitID][]schedule.RosterEntry),
	}
}

// =============================================================================
// SEEDING - Test/dev setup helpers
// =============================================================================

func (m *Memory) AddSubunit(s schedule.WorkSubunit) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subunits[s.ID] = s
}

func (m *Memory) AddConfiguration(c schedule.RotationConfiguration, details []schedule.ConfigurationDetail) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs[c.ID] = c
	rows := make([]schedule.ConfigurationDetail, len(details))
	copy(rows, details)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].OrderIndex < rows[j].OrderIndex })
	m.details[c.ID] = rows
}

func (m *Memory) AddRosterEntry(subunitID schedule.SubunitID, entry schedule.RosterEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	roster := append(m.rosters[subunitID], entry)
	sort.SliceStable(roster, func(i, j int) bool { return roster[i].AssignmentID < roster[j].AssignmentID })
	m.rosters[subunitID] = roster
}

func (m *Memory) RemoveRosterEntry(subunitID schedule.SubunitID, assignmentID schedule.AssignmentID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	roster := m.rosters[subunitID][:0:0]
	for _, entry := range m.rosters[subunitID] {
		if entry.AssignmentID != assignmentID {
			roster = append(roster, entry)
		}
	}
	m.rosters[subunitID] = roster
}

func (m *Memory) AddHoliday(date time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holidays = append(m.holidays, schedule.Day(date))
}

// SeedShift inserts a single pre-existing shift, bypassing generation.
func (m *Memory) SeedShift(s schedule.Shift) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shifts = append(m.shifts, s)
}

// =============================================================================
// CONFIG STORE
// =============================================================================

func (m *Memory) GetSubunit(_ context.Context, id schedule.SubunitID) (*schedule.WorkSubunit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.subunits[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *Memory) ListActiveSubunits(_ context.Context) ([]schedule.WorkSubunit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []schedule.WorkSubunit
	for _, s := range m.subunits {
		if s.Active {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *Memory) GetConfiguration(_ context.Context, id schedule.ConfigurationID) (*schedule.RotationConfiguration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.configs[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *Memory) GetConfigurationDetails(_ context.Context, id schedule.ConfigurationID) ([]schedule.ConfigurationDetail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows := make([]schedule.ConfigurationDetail, len(m.details[id]))
	copy(rows, m.details[id])
	return rows, nil
}

// =============================================================================
// ASSIGNMENT STORE
// =============================================================================

func (m *Memory) ActiveRoster(_ context.Context, subunitID schedule.SubunitID) ([]schedule.RosterEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	roster := make([]schedule.RosterEntry, len(m.rosters[subunitID]))
	copy(roster, m.rosters[subunitID])
	return roster, nil
}

func (m *Memory) CountActive(_ context.Context, subunitID schedule.SubunitID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rosters[subunitID]), nil
}

func (m *Memory) UpdateRosterOrder(_ context.Context, subunitID schedule.SubunitID, ordered []schedule.AssignmentID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	position := make(map[schedule.AssignmentID]int, len(ordered))
	for i, id := range ordered {
		position[id] = i + 1
	}
	roster := m.rosters[subunitID]
	// Entries missing from the new ordering sort first, by id, matching the
	// SQL store's default position.
	sort.SliceStable(roster, func(i, j int) bool {
		pi, pj := position[roster[i].AssignmentID], position[roster[j].AssignmentID]
		if pi != pj {
			return pi < pj
		}
		return roster[i].AssignmentID < roster[j].AssignmentID
	})
	m.rosters[subunitID] = roster
	return nil
}

// =============================================================================
// SHIFT STORE
// =============================================================================

func (m *Memory) InsertBatch(_ context.Context, shifts []schedule.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Mirror the unique index enforced by the SQL store.
	existing := make(map[shiftKey]bool, len(m.shifts))
	for _, s := range m.shifts {
		if s.GuardID != nil {
			existing[shiftKey{s.SubunitID, *s.GuardID, schedule.Day(s.Date), s.OrderInCycle}] = true
		}
	}
	for _, s := range shifts {
		if s.GuardID == nil {
			continue
		}
		k := shiftKey{s.SubunitID, *s.GuardID, schedule.Day(s.Date), s.OrderInCycle}
		if existing[k] {
			return schedule.ErrShiftConflict
		}
		existing[k] = true
	}

	m.shifts = append(m.shifts, shifts...)
	return nil
}

type shiftKey struct {
	Subunit schedule.SubunitID
	Guard   schedule.GuardID
	Date    time.Time
	Order   int
}

func (m *Memory) DeleteRange(_ context.Context, subunitID schedule.SubunitID, from, to time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.shifts[:0:0]
	deleted := 0
	for _, s := range m.shifts {
		if s.SubunitID == subunitID && inRange(s.Date, from, to) {
			deleted++
			continue
		}
		kept = append(kept, s)
	}
	m.shifts = kept
	return deleted, nil
}

func (m *Memory) CountRange(_ context.Context, subunitID schedule.SubunitID, from, to time.Time) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, s := range m.shifts {
		if s.SubunitID == subunitID && inRange(s.Date, from, to) {
			count++
		}
	}
	return count, nil
}

func (m *Memory) ListRange(_ context.Context, subunitID schedule.SubunitID, from, to time.Time) ([]schedule.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []schedule.Shift
	for _, s := range m.shifts {
		if s.SubunitID == subunitID && inRange(s.Date, from, to) {
			result = append(result, s)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].Slot < result[j].Slot
	})
	return result, nil
}

func (m *Memory) ClaimPending(_ context.Context, subunitID schedule.SubunitID, guard schedule.GuardID, from time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	claimed := 0
	for i := range m.shifts {
		s := &m.shifts[i]
		if s.SubunitID == subunitID && s.GuardID == nil &&
			s.Status == schedule.StatusPendingAssignment && !s.Date.Before(from) {
			g := guard
			s.GuardID = &g
			s.Status = schedule.StatusScheduled
			claimed++
		}
	}
	return claimed, nil
}

func (m *Memory) DeleteFutureForGuard(_ context.Context, subunitID schedule.SubunitID, guard schedule.GuardID, from time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.shifts[:0:0]
	deleted := 0
	for _, s := range m.shifts {
		if s.SubunitID == subunitID && s.GuardID != nil && *s.GuardID == guard && !s.Date.Before(from) {
			deleted++
			continue
		}
		kept = append(kept, s)
	}
	m.shifts = kept
	return deleted, nil
}

func inRange(date, from, to time.Time) bool {
	return !date.Before(from) && !date.After(to)
}

// =============================================================================
// GENERATION LOG STORE
// =============================================================================

func (m *Memory) AppendLog(_ context.Context, entry schedule.GenerationLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, entry)
	return nil
}

func (m *Memory) LogExists(_ context.Context, subunitID schedule.SubunitID, month time.Month, year int) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, l := range m.logs {
		if l.SubunitID == subunitID && l.Month == month && l.Year == year {
			return true, nil
		}
	}
	return false, nil
}

// Logs returns a copy of all generation-log rows, for assertions.
func (m *Memory) Logs() []schedule.GenerationLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	logs := make([]schedule.GenerationLog, len(m.logs))
	copy(logs, m.logs)
	return logs
}

// =============================================================================
// HOLIDAY PROVIDER
// =============================================================================

func (m *Memory) Holidays(_ context.Context, from, to time.Time) ([]time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []time.Time
	for _, d := range m.holidays {
		if inRange(d, schedule.Day(from), schedule.Day(to)) {
			result = append(result, d)
		}
	}
	return result, nil
}
