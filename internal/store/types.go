// Package store provides SQLite-backed persistence for tasks and alarms.
package store

import (
	"fmt"
	"strings"
	"time"
)

// Task is a user-defined unit of work. Completed pomodoro counts are derived
// from the journal at display time and never stored here, so deleting a task
// cannot rewrite history.
type Task struct {
	ID                 string
	Title              string
	EstimatedPomodoros int
	Done               bool
	CreatedAt          time.Time
}

// Alarm is a wall-clock trigger. TimeOfDay is "HH:MM" or "HH:MM:SS"; the
// long form matches to the second, the short form to the minute. An alarm
// with Repeat false disables itself after firing once.
type Alarm struct {
	ID        string
	TimeOfDay string
	Label     string
	SoundRef  string
	Enabled   bool
	Repeat    bool
	CreatedAt time.Time
}

// Seconds reports whether the alarm carries seconds precision.
func (a Alarm) Seconds() bool {
	return strings.Count(a.TimeOfDay, ":") == 2
}

// ValidationError rejects malformed task or alarm input before any write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func validateTask(t Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if t.EstimatedPomodoros <= 0 {
		return &ValidationError{Field: "estimated_pomodoros", Reason: fmt.Sprintf("must be positive, got %d", t.EstimatedPomodoros)}
	}
	return nil
}

// ParseTimeOfDay validates an alarm time and returns its normalized form
// ("HH:MM" or "HH:MM:SS") plus whether it carries seconds precision.
func ParseTimeOfDay(s string) (string, bool, error) {
	if t, err := time.Parse("15:04:05", s); err == nil {
		return t.Format("15:04:05"), true, nil
	}
	if t, err := time.Parse("15:04", s); err == nil {
		return t.Format("15:04"), false, nil
	}
	return "", false, &ValidationError{Field: "time_of_day", Reason: fmt.Sprintf("%q is not HH:MM or HH:MM:SS", s)}
}
