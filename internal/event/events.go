// Package event carries core state changes to UI and notification
// subscribers. Publishing never blocks: a consumer that falls behind loses
// events rather than stalling the timer.
package event

import (
	"time"

	"github.com/tomo-dev/tomo/internal/journal"
)

// Event is any message published on the Bus. Consumers type-switch on the
// concrete types below.
type Event interface{}

// PhaseStarted announces a new running phase.
type PhaseStarted struct {
	Phase          journal.Phase
	PlannedSeconds int
	TaskID         string
	Auto           bool // started by auto-transition rather than a command
}

// Tick reports one second of countdown progress.
type Tick struct {
	Phase            journal.Phase
	RemainingSeconds int
	PlannedSeconds   int
}

// Paused freezes the countdown.
type Paused struct {
	Phase            journal.Phase
	RemainingSeconds int
}

// Resumed continues a frozen countdown.
type Resumed struct {
	Phase            journal.Phase
	RemainingSeconds int
}

// PhaseCompleted reports a countdown that reached zero. The record carries
// the durable form of the session.
type PhaseCompleted struct {
	Record journal.SessionRecord
}

// SessionAbandoned reports a skip or reset before the countdown finished.
type SessionAbandoned struct {
	Record  journal.SessionRecord
	Skipped bool // true for skip, false for reset
}

// AlarmFired reports a wall-clock alarm match.
type AlarmFired struct {
	AlarmID string
	Label   string
	At      time.Time
	OneShot bool // alarm wants disabling after this fire
}

// Warning surfaces a non-fatal failure, typically a journal append that
// could not be persisted.
type Warning struct {
	Op  string
	Err error
}
