// commands.go provides the Bubble Tea commands that bridge the dashboard to
// the core services: the event bus subscription, the wall clock, and the
// loaders that refresh tabs after a mutation.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tomo-dev/tomo/internal/event"
	"github.com/tomo-dev/tomo/internal/journal"
	"github.com/tomo-dev/tomo/internal/stats"
	"github.com/tomo-dev/tomo/internal/store"
)

// heatmapDays is the window the stats tab renders.
const heatmapDays = 7

// waitForEvent blocks on the bus subscription and surfaces the next event.
func waitForEvent(sub chan event.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-sub
		if !ok {
			return BusClosedMsg{}
		}
		return CoreEventMsg{Event: ev}
	}
}

// tickClock schedules the next wall-clock tick.
func tickClock() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return ClockTickMsg(t)
	})
}

// loadTasks fetches the task listing from the store.
func loadTasks(st *store.Store) tea.Cmd {
	return func() tea.Msg {
		tasks, err := st.ListTasks()
		if err != nil {
			return TasksLoadedMsg{Err: err}
		}
		return TasksLoadedMsg{Tasks: tasks}
	}
}

// loadAlarms fetches the alarm listing from the store.
func loadAlarms(st *store.Store) tea.Cmd {
	return func() tea.Msg {
		alarms, err := st.ListAlarms()
		if err != nil {
			return AlarmsLoadedMsg{Err: err}
		}
		return AlarmsLoadedMsg{Alarms: alarms}
	}
}

// loadSummary recomputes the journal aggregates for the stats tab.
func loadSummary(j *journal.Journal) tea.Cmd {
	return func() tea.Msg {
		records, skipped, err := j.LoadAll()
		if err != nil {
			return SummaryLoadedMsg{Err: err}
		}
		now := time.Now()
		return SummaryLoadedMsg{
			Summary: stats.Summarize(records, now, heatmapDays),
			ByTask:  stats.CompletedByTask(records),
			Skipped: skipped,
		}
	}
}

// control runs a session-machine command and reports its outcome.
func control(note string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return ActionDoneMsg{Err: err}
		}
		return ActionDoneMsg{Note: note}
	}
}

// alarmFired lets the app persist one-shot disables, then refreshes the
// alarm listing so the tab reflects the new enabled state.
func alarmFired(onAlarm func(event.AlarmFired), st *store.Store, ev event.AlarmFired) tea.Cmd {
	return func() tea.Msg {
		if onAlarm != nil {
			onAlarm(ev)
		}
		alarms, err := st.ListAlarms()
		if err != nil {
			return AlarmsLoadedMsg{Err: err}
		}
		return AlarmsLoadedMsg{Alarms: alarms}
	}
}

// clearFlash expires the current flash after a short delay.
func clearFlash(seq int) tea.Cmd {
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return FlashClearMsg{Seq: seq}
	})
}

// clearQuitArm expires the quit confirmation window.
func clearQuitArm() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return QuitArmClearMsg{}
	})
}
