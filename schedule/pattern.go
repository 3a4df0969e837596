package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// BIOLOGICAL REST PATTERN - "W-R" work/rest cycle evaluation
// =============================================================================

// RestPattern is a parsed "W-R" string: W consecutive work days followed by
// R consecutive rest days.
type RestPattern struct {
	WorkDays int
	RestDays int
}

// CycleLength is the total span of one pattern cycle.
func (p RestPattern) CycleLength() int { return p.WorkDays + p.RestDays }

// ParseRestPattern parses a "W-R" string such as "4-2". Both components must
// be positive integers.
func ParseRestPattern(s string) (RestPattern, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return RestPattern{}, fmt.Errorf("invalid rest pattern %q: want \"W-R\"", s)
	}
	work, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || work <= 0 {
		return RestPattern{}, fmt.Errorf("invalid rest pattern %q: bad work days", s)
	}
	rest, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || rest <= 0 {
		return RestPattern{}, fmt.Errorf("invalid rest pattern %q: bad rest days", s)
	}
	return RestPattern{WorkDays: work, RestDays: rest}, nil
}

// WorksOn decides whether the titular works on the target date under their
// biological rest pattern. Pure integer/date arithmetic on UTC midnights:
//
//	diffDays = floor((target - patternStart) / 1 day)
//	diffDays < 0            -> pattern not started, does not work
//	diffDays mod (W+R) < W  -> works
//
// A guard with no pattern or no pattern start always works.
func (e RosterEntry) WorksOn(date time.Time) bool {
	if e.RestPattern == "" || e.PatternStart == nil {
		return true
	}
	pattern, err := ParseRestPattern(e.RestPattern)
	if err != nil {
		// Malformed pattern degrades to "always works" rather than dropping
		// the titular from coverage.
		return true
	}
	diff := DaysBetween(*e.PatternStart, date)
	if diff < 0 {
		return false
	}
	return diff%pattern.CycleLength() < pattern.WorkDays
}
