// tui.go is the dashboard entry point: the dependency bundle handed over
// by the CLI and the program bootstrap.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tomo-dev/tomo/internal/alarm"
	"github.com/tomo-dev/tomo/internal/config"
	"github.com/tomo-dev/tomo/internal/event"
	"github.com/tomo-dev/tomo/internal/journal"
	"github.com/tomo-dev/tomo/internal/store"
	"github.com/tomo-dev/tomo/internal/timer"
)

// Deps bundles the opened services the dashboard renders and drives.
// Monitor may be nil when alarms are unavailable. The caller keeps
// ownership throughout: Run never closes a dependency, and the machine's
// tick loop must already be running.
type Deps struct {
	Config  *config.Config
	DataDir string
	Journal *journal.Journal
	Store   *store.Store
	Bus     *event.Bus
	Machine *timer.Machine
	Monitor *alarm.Monitor

	// OnAlarm is invoked for every fired alarm, letting the caller persist
	// one-shot disables. May be nil.
	OnAlarm func(event.AlarmFired)
}

// Run starts the dashboard in alternate screen mode and blocks until the
// user quits.
func Run(deps Deps) error {
	sub := deps.Bus.Subscribe()
	defer deps.Bus.Unsubscribe(sub)

	p := tea.NewProgram(NewModel(deps, sub), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
