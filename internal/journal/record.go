// Package journal owns the append-only session log and its record model.
// Records are written as JSON lines to journal.jsonl; day notes go to
// notes.jsonl beside it.
package journal

import (
	"fmt"
	"time"
)

// Phase identifies one scheduled interval class.
type Phase string

// Phase constants.
const (
	PhaseFocus      Phase = "focus"
	PhaseShortBreak Phase = "short_break"
	PhaseLongBreak  Phase = "long_break"
)

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool {
	switch p {
	case PhaseFocus, PhaseShortBreak, PhaseLongBreak:
		return true
	}
	return false
}

// IsBreak reports whether p is a rest phase.
func (p Phase) IsBreak() bool {
	return p == PhaseShortBreak || p == PhaseLongBreak
}

// Label returns the human-readable phase name.
func (p Phase) Label() string {
	switch p {
	case PhaseFocus:
		return "Focus"
	case PhaseShortBreak:
		return "Short Break"
	case PhaseLongBreak:
		return "Long Break"
	}
	return string(p)
}

// SchemaVersion tags every persisted record so later fields can be added
// without breaking older journals.
const SchemaVersion = 1

// DayLayout is the calendar-day format used for streaks, heatmaps and notes.
const DayLayout = "2006-01-02"

// SessionRecord is one finished (completed or abandoned) phase. Records are
// immutable once appended; corrections are appended as new records.
type SessionRecord struct {
	Version        int       `json:"v"`
	Phase          Phase     `json:"phase"`
	PlannedSeconds int       `json:"planned_seconds"`
	ActualSeconds  int       `json:"actual_seconds"`
	Completed      bool      `json:"completed"`
	TaskID         string    `json:"task_id,omitempty"`
	StartedAt      time.Time `json:"started_at"`
	Pauses         int       `json:"pauses,omitempty"`
	Note           string    `json:"note,omitempty"`
}

// Validate checks the record invariants enforced at append time.
func (r SessionRecord) Validate() error {
	if !r.Phase.Valid() {
		return fmt.Errorf("unknown phase %q", r.Phase)
	}
	if r.PlannedSeconds <= 0 {
		return fmt.Errorf("planned duration must be positive, got %d", r.PlannedSeconds)
	}
	if r.ActualSeconds < 0 {
		return fmt.Errorf("actual duration must be non-negative, got %d", r.ActualSeconds)
	}
	if r.ActualSeconds > r.PlannedSeconds {
		return fmt.Errorf("actual duration %d exceeds planned %d", r.ActualSeconds, r.PlannedSeconds)
	}
	return nil
}

// Day returns the local calendar day the session started on.
func (r SessionRecord) Day() string {
	return r.StartedAt.Local().Format(DayLayout)
}

// DayNote is one free-text journal entry for a calendar day. Notes are
// append-only; the latest entry for a date wins on load.
type DayNote struct {
	Version   int       `json:"v"`
	Date      string    `json:"date"`
	Text      string    `json:"text"`
	WrittenAt time.Time `json:"written_at"`
}

// PersistenceError reports unreadable, unwritable or corrupt journal storage.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
