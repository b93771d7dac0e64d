package models

import (
	"fmt"
	"strings"
)

// Class session types a slot can carry.
const (
	ClassTypeTheory   = "theory"
	ClassTypeLab      = "lab"
	ClassTypeTutorial = "tutorial"
	ClassTypeOther    = "other"
)

// Conflict categories reported by the detector.
const (
	ConflictTypeTeacher = "teacher"
	ConflictTypeRoom    = "room"
)

// Period is a lecture window within the institute day. Times are "HH:MM".
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// MasterTimetable defines the shared grid shape every class timetable follows.
type MasterTimetable struct {
	Years   []int    `json:"years"`
	Days    []string `json:"days"`
	Periods []Period `json:"periods"`
}

// HasDay reports whether the day belongs to the master grid.
func (m MasterTimetable) HasDay(day string) bool {
	for _, d := range m.Days {
		if d == day {
			return true
		}
	}
	return false
}

// HasYear reports whether the year belongs to the master grid.
func (m MasterTimetable) HasYear(year int) bool {
	for _, y := range m.Years {
		if y == year {
			return true
		}
	}
	return false
}

// PeriodCount returns the number of periods per day.
func (m MasterTimetable) PeriodCount() int {
	return len(m.Periods)
}

// Slot is one cell of a timetable grid. A zero Slot is an empty cell.
//
// Merged slots occupy two consecutive periods: the head carries Merged=true,
// the following cell carries the same content plus Continuation=true. The
// engine keeps the pair in lockstep; clearing either end clears both.
type Slot struct {
	Subject      string `json:"subject,omitempty"`
	Teacher      string `json:"teacher,omitempty"`
	Room         string `json:"room,omitempty"`
	Type         string `json:"type,omitempty"`
	Merged       bool   `json:"merged,omitempty"`
	Continuation bool   `json:"continuation,omitempty"`
}

// Occupied reports whether the cell holds a scheduled class.
func (s Slot) Occupied() bool {
	return s.Subject != "" || s.Teacher != "" || s.Room != ""
}

// DisplayLabel renders the subject as shown on the grid. Continuation cells
// are suffixed so a merged pair reads as one two-period block.
func (s Slot) DisplayLabel() string {
	if !s.Occupied() {
		return ""
	}
	if s.Continuation {
		return s.Subject + " (cont.)"
	}
	return s.Subject
}

// Timetable is the weekly grid for one class (year + department + division).
// Schedule maps day name to a period-indexed slice of slots.
type Timetable struct {
	Year       int               `json:"year"`
	Department string            `json:"department"`
	Division   string            `json:"division"`
	Schedule   map[string][]Slot `json:"schedule"`
}

// TimetableKey builds the canonical identifier for a class timetable.
func TimetableKey(year int, department, division string) string {
	return fmt.Sprintf("%d-%s-%s", year, department, division)
}

// Key returns the canonical identifier of this timetable.
func (t *Timetable) Key() string {
	return TimetableKey(t.Year, t.Department, t.Division)
}

// ParseTimetableKey splits a canonical key back into its components.
func ParseTimetableKey(key string) (year int, department, division string, err error) {
	parts := strings.SplitN(key, "-", 3)
	if len(parts) != 3 {
		return 0, "", "", fmt.Errorf("invalid timetable key %q", key)
	}
	if _, err := fmt.Sscanf(parts[0], "%d", &year); err != nil {
		return 0, "", "", fmt.Errorf("invalid timetable key %q", key)
	}
	return year, parts[1], parts[2], nil
}

// Conflict is a double booking of one resource across two class timetables
// during the same day and period.
type Conflict struct {
	Type         string `json:"type"`
	Identifier   string `json:"identifier"`
	Day          string `json:"day"`
	PeriodIndex  int    `json:"periodIndex"`
	TimetableKey string `json:"timetableKey"`
	ConflictWith string `json:"conflictWith"`
	Subject      string `json:"subject,omitempty"`
}
