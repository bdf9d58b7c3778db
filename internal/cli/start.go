// start.go implements the "tomo start" command which runs sessions in the
// foreground with a live countdown.
package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tomo-dev/tomo/internal/event"
	"github.com/tomo-dev/tomo/internal/journal"
	"github.com/tomo-dev/tomo/internal/timer"
	"github.com/tomo-dev/tomo/internal/ui"
)

var startCmd = &cobra.Command{
	Use:   "start [focus|short|long]",
	Short: "Start a session and run the countdown",
	Long: `Start the next scheduled phase, or a named one, and count it down in
the foreground. With auto-start enabled the cycle keeps rolling from
phase to phase; otherwise the command exits when the phase ends.

Ctrl-C abandons the running session; the partial time is still
recorded. Alarms keep firing while the countdown runs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStart,
}

var (
	taskFlag     string
	durationFlag int
	plainFlag    bool
	autoFlag     bool
)

func init() {
	startCmd.Flags().StringVar(&taskFlag, "task", "", "Task id or unique prefix to attribute sessions to")
	startCmd.Flags().IntVar(&durationFlag, "duration", 0, "Override the planned duration in seconds")
	startCmd.Flags().BoolVar(&plainFlag, "plain", false, "Line-per-minute output instead of in-place redraw")
	startCmd.Flags().BoolVar(&autoFlag, "auto", false, "Roll from phase to phase regardless of the configured auto-start flags")
}

func runStart(cmd *cobra.Command, args []string) error {
	var phase journal.Phase
	if len(args) > 0 {
		p, err := parsePhase(args[0])
		if err != nil {
			return err
		}
		phase = p
	}

	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if autoFlag {
		app.cfg.AutoStartBreaks = true
		app.cfg.AutoStartFocus = true
	}

	machine, err := app.newMachine()
	if err != nil {
		return err
	}
	defer machine.Close()

	if taskFlag != "" {
		task, err := app.store.ResolveTask(taskFlag)
		if err != nil {
			return err
		}
		machine.SetTask(task.ID)
		fmt.Printf("Task: %s\n", task.Title)
	}

	mon, err := app.startAlarmMonitor()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: alarms unavailable: %v\n", err)
	} else {
		defer mon.Stop()
	}

	sub := app.bus.Subscribe()
	display := ui.NewCountdownDisplay(plainFlag)

	if err := machine.StartFor(phase, durationFlag); err != nil {
		return err
	}
	machine.Run()

	// Ctrl-C abandons the running session before exit.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	for {
		select {
		case ev, ok := <-sub:
			if !ok {
				display.Finish()
				return nil
			}
			display.Handle(ev)
			switch e := ev.(type) {
			case event.AlarmFired:
				app.handleAlarmFired(e)
			case event.PhaseCompleted:
				snap := machine.Snapshot()
				if snap.State == timer.StateIdle {
					display.Finish()
					fmt.Printf("Next: %s (tomo start)\n", snap.NextPhase.Label())
					return nil
				}
			}
		case <-sigCh:
			// Reset records the partial session; already-idle machines
			// have nothing to abandon.
			_ = machine.Reset()
			drainEvents(sub, display)
			display.Finish()
			return nil
		}
	}
}

// drainEvents hands any already-published events to the display so the
// abandon line is printed before exit.
func drainEvents(sub chan event.Event, display *ui.CountdownDisplay) {
	for {
		select {
		case ev := <-sub:
			display.Handle(ev)
		default:
			return
		}
	}
}

// parsePhase maps a CLI phase argument onto a journal phase.
func parsePhase(s string) (journal.Phase, error) {
	switch strings.ToLower(s) {
	case "focus", "f":
		return journal.PhaseFocus, nil
	case "short", "short-break", "short_break", "s":
		return journal.PhaseShortBreak, nil
	case "long", "long-break", "long_break", "l":
		return journal.PhaseLongBreak, nil
	}
	return "", fmt.Errorf("unknown phase %q (want focus, short or long)", s)
}
