// timer_tab.go renders the live session view and maps keys onto the
// session machine commands.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tomo-dev/tomo/internal/config"
	"github.com/tomo-dev/tomo/internal/journal"
	"github.com/tomo-dev/tomo/internal/timer"
	"github.com/tomo-dev/tomo/internal/ui"
)

// maxBarWidth caps the countdown progress bar.
const maxBarWidth = 40

// timerModel is the view model for the timer tab.
type timerModel struct {
	machine *timer.Machine
	cfg     *config.Config

	snap    timer.Snapshot
	titles  map[string]string
	outcome string // last completion/abandon line
	width   int
}

func newTimerModel(machine *timer.Machine, cfg *config.Config, width int) timerModel {
	return timerModel{
		machine: machine,
		cfg:     cfg,
		snap:    machine.Snapshot(),
		width:   width,
	}
}

// refresh re-reads the machine snapshot.
func (m *timerModel) refresh() {
	m.snap = m.machine.Snapshot()
}

// Update handles keys for the timer tab.
func (m timerModel) Update(msg tea.Msg) (timerModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	keys := DefaultKeyMap
	switch {
	case key.Matches(keyMsg, keys.Start):
		return m, control("", m.machine.Start)

	case key.Matches(keyMsg, keys.Pause):
		// p toggles: pause when running, resume when paused.
		if m.snap.State == timer.StatePaused {
			return m, control("", m.machine.Resume)
		}
		return m, control("", m.machine.Pause)

	case key.Matches(keyMsg, keys.Resume):
		return m, control("", m.machine.Resume)

	case key.Matches(keyMsg, keys.Skip):
		return m, control("", m.machine.Skip)

	case key.Matches(keyMsg, keys.Reset):
		return m, control("", m.machine.Reset)
	}

	return m, nil
}

// View renders the timer tab.
func (m timerModel) View() string {
	var b strings.Builder

	switch m.snap.State {
	case timer.StateRunning, timer.StatePaused:
		m.renderLive(&b)
	default:
		m.renderIdle(&b)
	}

	if m.outcome != "" {
		b.WriteString("\n\n")
		b.WriteString(DimStyle.Render(m.outcome))
	}

	b.WriteString("\n\n")
	b.WriteString(m.renderCycle())
	return b.String()
}

// renderLive renders a running or paused countdown.
func (m timerModel) renderLive(b *strings.Builder) {
	icon := IconRunning
	if m.snap.State == timer.StatePaused {
		icon = IconPaused
	}

	b.WriteString(fmt.Sprintf("%s %s", icon, phaseBadge(m.snap.Phase)))
	if m.snap.State == timer.StatePaused {
		b.WriteString("  ")
		b.WriteString(WarningStyle.Render("[paused]"))
	}
	b.WriteString("\n\n")

	clock := fmt.Sprintf("%s / %s",
		ui.FormatClock(m.snap.RemainingSeconds),
		ui.FormatClock(m.snap.PlannedSeconds),
	)
	b.WriteString(ClockStyle.Render(clock))
	b.WriteString("\n")
	b.WriteString(m.renderBar())
	b.WriteString("\n")

	if title := m.taskTitle(); title != "" {
		b.WriteString("\n")
		b.WriteString("Task: " + title)
	}
	if m.snap.Pauses > 0 {
		b.WriteString("\n")
		b.WriteString(DimStyle.Render(fmt.Sprintf("Interruptions: %d", m.snap.Pauses)))
	}
}

// renderIdle renders the between-sessions view.
func (m timerModel) renderIdle(b *strings.Builder) {
	next := m.snap.NextPhase
	planned := m.cfg.Durations(next).DefaultSeconds

	b.WriteString(fmt.Sprintf("%s Idle — next up: %s (%s)",
		IconIdle,
		phaseBadge(next),
		ui.FormatMinutes(planned/60),
	))
	b.WriteString("\n\n")
	b.WriteString(DimStyle.Render("Press s to start."))
}

// renderBar renders the elapsed-fraction progress bar.
func (m timerModel) renderBar() string {
	width := maxBarWidth
	if m.width-12 < width {
		width = m.width - 12
	}
	if width < 10 {
		width = 10
	}

	planned := m.snap.PlannedSeconds
	if planned <= 0 {
		planned = 1
	}
	elapsed := planned - m.snap.RemainingSeconds
	filled := elapsed * width / planned
	if filled > width {
		filled = width
	}

	bar := ProgressFullStyle.Render(strings.Repeat("\u2588", filled)) +
		ProgressEmptyStyle.Render(strings.Repeat("\u2591", width-filled))
	pct := elapsed * 100 / planned
	return fmt.Sprintf("%s %3d%%", bar, pct)
}

// renderCycle renders the long-break cycle dots.
func (m timerModel) renderCycle() string {
	total := m.snap.CyclesPerLong
	if total <= 0 {
		total = m.cfg.CyclesPerLongBreak
	}
	if total <= 0 {
		return ""
	}

	var dots []string
	for i := 0; i < total; i++ {
		if i < m.snap.FocusInCycle {
			dots = append(dots, SuccessStyle.Render("\u25cf"))
		} else {
			dots = append(dots, DimStyle.Render("\u25cb"))
		}
	}
	return fmt.Sprintf("Cycle: %s  %s",
		strings.Join(dots, " "),
		DimStyle.Render(fmt.Sprintf("(long break after %d)", total)),
	)
}

// taskTitle resolves the active task id to its title. A deleted task keeps
// showing its id so the line stays attributable.
func (m timerModel) taskTitle() string {
	if m.snap.TaskID == "" {
		return ""
	}
	if title, ok := m.titles[m.snap.TaskID]; ok {
		return title
	}
	return m.snap.TaskID
}

// phaseBadge renders a phase label in its class color.
func phaseBadge(phase journal.Phase) string {
	if phase.IsBreak() {
		return BreakStyle.Render(phase.Label())
	}
	return FocusStyle.Render(phase.Label())
}
