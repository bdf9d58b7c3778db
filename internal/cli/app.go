// app.go wires the shared services each command opens against the data
// directory: configuration, journal, task/alarm store and the event bus.
package cli

import (
	"fmt"
	"os"

	"github.com/tomo-dev/tomo/internal/alarm"
	"github.com/tomo-dev/tomo/internal/config"
	"github.com/tomo-dev/tomo/internal/event"
	"github.com/tomo-dev/tomo/internal/journal"
	"github.com/tomo-dev/tomo/internal/planner"
	"github.com/tomo-dev/tomo/internal/store"
	"github.com/tomo-dev/tomo/internal/timer"
)

// app bundles the services behind every command.
type app struct {
	dir     string
	cfg     *config.Config
	journal *journal.Journal
	store   *store.Store
	bus     *event.Bus
}

// openApp resolves the data directory and opens everything in it. Callers
// must Close.
func openApp() (*app, error) {
	dir, err := config.DataDir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.ReadConfig(dir)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("opening task store: %w", err)
	}
	return &app{
		dir:     dir,
		cfg:     cfg,
		journal: journal.Open(dir),
		store:   st,
		bus:     event.NewBus(),
	}, nil
}

// Close releases the store and shuts the bus down.
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close store: %v\n", err)
	}
	a.bus.Close()
}

// loadRecords reads the journal, downgrading corrupt lines to a warning.
func (a *app) loadRecords() ([]journal.SessionRecord, error) {
	records, skipped, err := a.journal.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("loading journal: %w", err)
	}
	if skipped > 0 {
		fmt.Fprintf(os.Stderr, "Warning: skipped %d corrupt journal line(s)\n", skipped)
	}
	return records, nil
}

// newMachine builds a session machine whose planner is seeded with the
// journal history.
func (a *app) newMachine() (*timer.Machine, error) {
	history, err := a.loadRecords()
	if err != nil {
		return nil, err
	}
	return timer.New(a.cfg, planner.New(a.cfg, history), a.journal, a.bus), nil
}

// startAlarmMonitor loads alarms into a monitor and starts its poll loop.
func (a *app) startAlarmMonitor() (*alarm.Monitor, error) {
	alarms, err := a.store.ListAlarms()
	if err != nil {
		return nil, fmt.Errorf("listing alarms: %w", err)
	}
	mon := alarm.NewMonitor(a.bus)
	mon.SetAlarms(alarms)
	mon.Start()
	return mon, nil
}

// handleAlarmFired persists the disable for a one-shot alarm after it fires.
func (a *app) handleAlarmFired(ev event.AlarmFired) {
	if !ev.OneShot {
		return
	}
	if err := a.store.SetAlarmEnabled(ev.AlarmID, false); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to disable one-shot alarm: %v\n", err)
	}
}

// taskTitles maps task ids to titles for export and stats display.
func (a *app) taskTitles() map[string]string {
	tasks, err := a.store.ListTasks()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to list tasks: %v\n", err)
		return nil
	}
	titles := make(map[string]string, len(tasks))
	for _, t := range tasks {
		titles[t.ID] = t.Title
	}
	return titles
}
