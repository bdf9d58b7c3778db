// Package tui implements the full-screen dashboard using Bubble Tea.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tomo-dev/tomo/internal/event"
	"github.com/tomo-dev/tomo/internal/store"
	"github.com/tomo-dev/tomo/internal/timer"
	"github.com/tomo-dev/tomo/internal/ui"
)

// Tab identifies the active dashboard tab.
type Tab int

const (
	TabTimer Tab = iota
	TabStats
	TabTasks
	TabAlarms
)

const tabCount = 4

// Layout constants. List and content dimensions stay fixed for consistent
// sizing; only the outer box follows the window.
const (
	maxDashboardWidth = 90
	contentWidth      = maxDashboardWidth - 8
	contentHeight     = 15
)

// Model is the top-level dashboard model. It owns the event bus
// subscription, the shared task-title index and the per-tab view models.
type Model struct {
	deps Deps
	sub  chan event.Event

	activeTab Tab
	width     int
	height    int
	now       time.Time

	timer  timerModel
	stats  statsModel
	tasks  tasksModel
	alarms alarmsModel

	titles    map[string]string
	lastTasks []store.Task

	flash    string
	flashErr bool
	flashSeq int

	quitArmed bool // waiting for the confirming quit press
}

// NewModel creates the dashboard model over the opened services.
func NewModel(deps Deps, sub chan event.Event) Model {
	return Model{
		deps:   deps,
		sub:    sub,
		now:    time.Now(),
		width:  80,
		height: 24,
		timer:  newTimerModel(deps.Machine, deps.Config, 80),
		stats:  statsModel{dataDir: deps.DataDir},
		tasks:  newTasksModel(deps.Store, deps.Machine),
		alarms: newAlarmsModel(deps.Store, deps.Config.Sound),
		titles: map[string]string{},
	}
}

// Init arms the event subscription, the wall clock and the initial loads.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForEvent(m.sub),
		tickClock(),
		loadTasks(m.deps.Store),
		loadAlarms(m.deps.Store),
		loadSummary(m.deps.Journal),
	)
}

// Update handles messages and routes them to the active tab.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.timer.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case CoreEventMsg:
		return m.handleEvent(msg.Event)

	case BusClosedMsg:
		return m, tea.Quit

	case ClockTickMsg:
		m.now = time.Time(msg)
		m.timer.refresh()
		return m, tickClock()

	case TasksLoadedMsg:
		if msg.Err != nil {
			m.tasks.err = msg.Err
			return m, nil
		}
		m.tasks.err = nil
		m.lastTasks = msg.Tasks
		m.titles = make(map[string]string, len(msg.Tasks))
		for _, t := range msg.Tasks {
			m.titles[t.ID] = t.Title
		}
		m.timer.titles = m.titles
		m.stats.titles = m.titles
		m.tasks.setTasks(m.lastTasks)
		return m, nil

	case AlarmsLoadedMsg:
		if msg.Err != nil {
			m.alarms.err = msg.Err
			return m, nil
		}
		m.alarms.err = nil
		m.alarms.setAlarms(msg.Alarms)
		// Keep the poll loop in sync with alarm edits.
		if m.deps.Monitor != nil {
			m.deps.Monitor.SetAlarms(msg.Alarms)
		}
		return m, nil

	case SummaryLoadedMsg:
		if msg.Err != nil {
			m.stats.err = msg.Err
			return m, nil
		}
		m.stats.err = nil
		m.stats.summary = msg.Summary
		m.stats.byTask = msg.ByTask
		m.stats.skipped = msg.Skipped
		m.tasks.completed = msg.ByTask
		m.tasks.setTasks(m.lastTasks)
		return m, nil

	case ActionDoneMsg:
		if msg.Err != nil {
			return m.setFlash(msg.Err.Error(), true)
		}
		if msg.Note == "" {
			// Session command; the bus events carry the state change.
			return m, nil
		}
		next, cmd := m.setFlash(msg.Note, false)
		return next, tea.Batch(cmd,
			loadTasks(m.deps.Store),
			loadAlarms(m.deps.Store),
			loadSummary(m.deps.Journal),
		)

	case FlashClearMsg:
		if msg.Seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil

	case QuitArmClearMsg:
		m.quitArmed = false
		return m, nil
	}

	return m.routeToTab(msg)
}

// handleKey applies global bindings, then routes to the active tab.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := DefaultKeyMap

	// While a text input owns the keyboard only ctrl+c stays global.
	if m.tabEditing() {
		if key.Matches(msg, keys.CtrlC) {
			return m.requestQuit()
		}
		return m.routeToTab(msg)
	}

	switch {
	case key.Matches(msg, keys.CtrlC), key.Matches(msg, keys.Quit):
		return m.requestQuit()

	case key.Matches(msg, keys.NextTab):
		m.activeTab = (m.activeTab + 1) % tabCount
		return m, nil

	case key.Matches(msg, keys.PrevTab):
		m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		return m, nil
	}

	return m.routeToTab(msg)
}

// requestQuit quits immediately when idle. With a live session it asks for a
// confirming press, then resets so the partial session still gets recorded.
func (m Model) requestQuit() (tea.Model, tea.Cmd) {
	snap := m.deps.Machine.Snapshot()
	if snap.State == timer.StateIdle {
		return m, tea.Quit
	}
	if !m.quitArmed {
		m.quitArmed = true
		next, cmd := m.setFlash("Session running — press again to quit", false)
		return next, tea.Batch(cmd, clearQuitArm())
	}
	_ = m.deps.Machine.Reset()
	return m, tea.Quit
}

// handleEvent reacts to one bus event and re-arms the subscription.
func (m Model) handleEvent(ev event.Event) (tea.Model, tea.Cmd) {
	rearm := waitForEvent(m.sub)
	m.timer.refresh()

	switch ev := ev.(type) {
	case event.PhaseCompleted:
		m.timer.outcome = fmt.Sprintf("%s %s complete (%s)",
			IconDone, ev.Record.Phase.Label(), ui.FormatClock(ev.Record.ActualSeconds))
		return m, tea.Batch(rearm, loadSummary(m.deps.Journal))

	case event.SessionAbandoned:
		verb := "reset"
		if ev.Skipped {
			verb = "skipped"
		}
		m.timer.outcome = fmt.Sprintf("%s %s (%s in)",
			ev.Record.Phase.Label(), verb, ui.FormatClock(ev.Record.ActualSeconds))
		return m, tea.Batch(rearm, loadSummary(m.deps.Journal))

	case event.AlarmFired:
		label := ev.Label
		if label == "" {
			label = "Alarm"
		}
		next, cmd := m.setFlash(fmt.Sprintf("\u23f0 %s (%s)", label, ev.At.Format("15:04")), false)
		return next, tea.Batch(rearm, cmd, alarmFired(m.deps.OnAlarm, m.deps.Store, ev))

	case event.Warning:
		next, cmd := m.setFlash(fmt.Sprintf("failed to %s: %v", ev.Op, ev.Err), true)
		return next, tea.Batch(rearm, cmd)
	}

	// Ticks and start/pause/resume need no handling beyond the refresh.
	return m, rearm
}

// routeToTab forwards a message to the active tab's view model.
func (m Model) routeToTab(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.activeTab {
	case TabTimer:
		m.timer, cmd = m.timer.Update(msg)
	case TabTasks:
		m.tasks, cmd = m.tasks.Update(msg)
	case TabAlarms:
		m.alarms, cmd = m.alarms.Update(msg)
	}
	return m, cmd
}

// tabEditing reports whether the active tab has a focused text input.
func (m Model) tabEditing() bool {
	switch m.activeTab {
	case TabTasks:
		return m.tasks.editing()
	case TabAlarms:
		return m.alarms.editing()
	}
	return false
}

// setFlash replaces the flash line and arms its expiry.
func (m Model) setFlash(text string, isErr bool) (Model, tea.Cmd) {
	m.flash = text
	m.flashErr = isErr
	m.flashSeq++
	return m, clearFlash(m.flashSeq)
}

// View renders the dashboard.
func (m Model) View() string {
	var b strings.Builder

	header := TitleStyle.Render("tomo") + "  " + DimStyle.Render(m.now.Format("15:04:05"))
	b.WriteString(header)
	b.WriteString("\n\n")

	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch m.activeTab {
	case TabTimer:
		b.WriteString(m.timer.View())
	case TabStats:
		b.WriteString(m.stats.View())
	case TabTasks:
		b.WriteString(m.tasks.View())
	case TabAlarms:
		b.WriteString(m.alarms.View())
	}

	b.WriteString("\n\n")
	if m.flash != "" {
		style := SuccessStyle
		if m.flashErr {
			style = ErrorStyle
		}
		b.WriteString(style.Render(m.flash))
		b.WriteString("\n")
	}
	b.WriteString(m.renderFooter())

	boxWidth := maxDashboardWidth
	if m.width-4 < boxWidth {
		boxWidth = m.width - 4
	}
	boxed := BoxStyle.Width(boxWidth).Render(b.String())

	// Center vertically if there's space, offset slightly toward the top.
	boxHeight := lipgloss.Height(boxed)
	if m.height > boxHeight {
		padding := (m.height - boxHeight) / 3
		if padding > 0 {
			boxed = strings.Repeat("\n", padding) + boxed
		}
	}
	return boxed
}

// renderTabs renders the tab bar with active highlighting.
func (m Model) renderTabs() string {
	tabs := []string{"Timer", "Stats", "Tasks", "Alarms"}
	var rendered []string
	for i, tab := range tabs {
		if Tab(i) == m.activeTab {
			rendered = append(rendered, ActiveTabStyle.Render(tab))
		} else {
			rendered = append(rendered, InactiveTabStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// renderFooter renders the key hints for the current tab.
func (m Model) renderFooter() string {
	var hints []string

	switch m.activeTab {
	case TabTimer:
		hints = append(hints, "s: Start", "p: Pause/Resume", "k: Skip", "x: Reset")
	case TabStats:
		// Display only.
	case TabTasks:
		hints = append(hints, "a: Add", "Enter: Work on", "d: Done", "x: Delete", "/: Filter")
	case TabAlarms:
		hints = append(hints, "a: Add", "d: Toggle", "x: Delete")
	}
	hints = append(hints, "Tab: Switch tabs")

	quitHint := "q: Quit"
	if m.quitArmed {
		return DimStyle.Render(strings.Join(hints, " · ")) + " · " +
			WarningStyle.Render("Press q again to quit")
	}
	return DimStyle.Render(strings.Join(hints, " · ") + " · " + quitHint)
}
