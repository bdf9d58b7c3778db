// Package tui implements the full-screen dashboard using Bubble Tea.
package tui

import (
	"time"

	"github.com/tomo-dev/tomo/internal/event"
	"github.com/tomo-dev/tomo/internal/stats"
	"github.com/tomo-dev/tomo/internal/store"
)

// ============================================================================
// Core Event Messages
// ============================================================================

// CoreEventMsg wraps one event from the bus. The receiving handler re-arms
// the subscription so the next event arrives as another CoreEventMsg.
type CoreEventMsg struct {
	Event event.Event
}

// BusClosedMsg signals that the event bus shut down underneath the dashboard.
type BusClosedMsg struct{}

// ClockTickMsg carries the wall clock, once per second.
type ClockTickMsg time.Time

// ============================================================================
// Data Load Messages
// ============================================================================

// TasksLoadedMsg delivers a fresh task listing.
type TasksLoadedMsg struct {
	Tasks []store.Task
	Err   error
}

// AlarmsLoadedMsg delivers a fresh alarm listing.
type AlarmsLoadedMsg struct {
	Alarms []store.Alarm
	Err    error
}

// SummaryLoadedMsg delivers recomputed journal aggregates.
type SummaryLoadedMsg struct {
	Summary stats.Summary
	ByTask  map[string]int
	Skipped int
	Err     error
}

// ============================================================================
// Action Messages
// ============================================================================

// ActionDoneMsg reports the outcome of a user-triggered mutation such as a
// session command or a store write. Note is shown as a flash on success.
type ActionDoneMsg struct {
	Note string
	Err  error
}

// FlashClearMsg expires a flash message. Seq guards against clearing a newer
// flash than the one this timer was armed for.
type FlashClearMsg struct {
	Seq int
}

// QuitArmClearMsg expires the press-again-to-quit confirmation window.
type QuitArmClearMsg struct{}
