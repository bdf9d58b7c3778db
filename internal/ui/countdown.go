// Package ui renders session progress in a plain terminal, outside the full
// dashboard. On a TTY the countdown updates in place with ANSI escapes; when
// piped it degrades to transition lines so logs stay readable.
package ui

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/tomo-dev/tomo/internal/event"
)

// IsTTY reports whether stdout is an interactive terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// CountdownDisplay turns machine and alarm events into terminal output. It
// keeps just enough state (current phase, planned seconds) to redraw the
// live line from any event.
type CountdownDisplay struct {
	mu         sync.Mutex
	isTTY      bool
	active     bool // a live countdown line is currently drawn
	paused     bool
	phaseLabel string
	planned    int
	remaining  int
	lastMin    int // last minute mark printed in plain mode
}

// NewCountdownDisplay returns a display. forcePlain suppresses in-place
// rendering even on a TTY.
func NewCountdownDisplay(forcePlain bool) *CountdownDisplay {
	return &CountdownDisplay{
		isTTY:   !forcePlain && IsTTY(),
		lastMin: -1,
	}
}

// Handle renders one event. Unknown event types are ignored; warnings
// already reach stderr at their source.
func (d *CountdownDisplay) Handle(ev event.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch e := ev.(type) {
	case event.PhaseStarted:
		d.phaseLabel = e.Phase.Label()
		d.planned = e.PlannedSeconds
		d.remaining = e.PlannedSeconds
		d.paused = false
		d.lastMin = -1
		if d.isTTY {
			d.drawLine()
			return
		}
		auto := ""
		if e.Auto {
			auto = " (auto)"
		}
		fmt.Printf("%s started: %s%s\n", d.phaseLabel, FormatClock(e.PlannedSeconds), auto)

	case event.Tick:
		d.phaseLabel = e.Phase.Label()
		d.planned = e.PlannedSeconds
		d.remaining = e.RemainingSeconds
		if d.isTTY {
			d.drawLine()
			return
		}
		// Plain mode prints one line per minute mark.
		if min := e.RemainingSeconds / 60; e.RemainingSeconds%60 == 0 && min != d.lastMin {
			d.lastMin = min
			fmt.Printf("%s: %s remaining\n", d.phaseLabel, FormatClock(e.RemainingSeconds))
		}

	case event.Paused:
		d.paused = true
		d.remaining = e.RemainingSeconds
		if d.isTTY {
			d.drawLine()
			return
		}
		fmt.Printf("%s paused at %s\n", e.Phase.Label(), FormatClock(e.RemainingSeconds))

	case event.Resumed:
		d.paused = false
		d.remaining = e.RemainingSeconds
		if d.isTTY {
			d.drawLine()
			return
		}
		fmt.Printf("%s resumed at %s\n", e.Phase.Label(), FormatClock(e.RemainingSeconds))

	case event.PhaseCompleted:
		d.clearLine()
		label := e.Record.Phase.Label()
		if d.isTTY {
			fmt.Printf("\033[32m\u2705\033[0m %s complete (%s)\n", label, FormatClock(e.Record.ActualSeconds))
			return
		}
		fmt.Printf("%s complete (%s)\n", label, FormatClock(e.Record.ActualSeconds))

	case event.SessionAbandoned:
		d.clearLine()
		verb := "reset"
		if e.Skipped {
			verb = "skipped"
		}
		label := e.Record.Phase.Label()
		if d.isTTY {
			fmt.Printf("\033[90m\u23ed\033[0m %s %s after %s\n", label, verb, FormatClock(e.Record.ActualSeconds))
			return
		}
		fmt.Printf("%s %s after %s\n", label, verb, FormatClock(e.Record.ActualSeconds))

	case event.AlarmFired:
		label := e.Label
		if label == "" {
			label = "alarm"
		}
		line := fmt.Sprintf("\u23f0 %s (%s)", label, e.At.Format("15:04"))
		if d.isTTY {
			// Push the alarm above the live line; the next tick redraws it.
			d.clearLine()
			fmt.Println(line)
			return
		}
		fmt.Println(line)
	}
}

// Finish moves the cursor off the live line so the shell prompt lands on a
// fresh one.
func (d *CountdownDisplay) Finish() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.isTTY && d.active {
		fmt.Println()
		d.active = false
	}
}

// drawLine redraws the single live countdown line in place.
func (d *CountdownDisplay) drawLine() {
	icon := "\033[33m\u23f3\033[0m"
	detail := ""
	if d.paused {
		icon = "\033[90m\u23f8\033[0m"
		detail = "  \033[90m[paused]\033[0m"
	}
	fmt.Printf("\r\033[2K  %s %s  %s / %s%s", icon, d.phaseLabel, FormatClock(d.remaining), FormatClock(d.planned), detail)
	d.active = true
}

// clearLine erases the live line before printing a terminal message.
func (d *CountdownDisplay) clearLine() {
	if d.isTTY && d.active {
		fmt.Print("\r\033[2K")
		d.active = false
	}
}

// FormatClock renders seconds as MM:SS, or H:MM:SS from an hour up.
func FormatClock(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	h := totalSeconds / 3600
	m := (totalSeconds % 3600) / 60
	s := totalSeconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// FormatMinutes renders a minute total in a human-readable way.
func FormatMinutes(min int) string {
	if min < 60 {
		return fmt.Sprintf("%dm", min)
	}
	return fmt.Sprintf("%dh%02dm", min/60, min%60)
}
