// status.go implements the "tomo status" command showing today's progress
// at a glance.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomo-dev/tomo/internal/stats"
	"github.com/tomo-dev/tomo/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's sessions, streak and open tasks",
	Long: `Display a one-screen summary: focus completed today, the current
streak, lifetime totals, open tasks and enabled alarms.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	records, err := app.loadRecords()
	if err != nil {
		return err
	}
	sum := stats.Summarize(records, time.Now(), 7)
	today := stats.DayCount{}
	if len(sum.Heatmap) > 0 {
		today = sum.Heatmap[len(sum.Heatmap)-1]
	}

	openTasks := 0
	tasks, err := app.store.ListTasks()
	if err != nil {
		return fmt.Errorf("listing tasks: %w", err)
	}
	for _, t := range tasks {
		if !t.Done {
			openTasks++
		}
	}

	enabledAlarms := 0
	alarms, err := app.store.ListAlarms()
	if err != nil {
		return fmt.Errorf("listing alarms: %w", err)
	}
	for _, a := range alarms {
		if a.Enabled {
			enabledAlarms++
		}
	}

	fmt.Println("Tomo Status")
	fmt.Println()
	fmt.Printf("  Today:   %d focus session(s), %s\n", today.Sessions, ui.FormatMinutes(today.Minutes))
	fmt.Printf("  Streak:  %d day(s) (longest %d)\n", sum.CurrentStreak, sum.LongestStreak)
	fmt.Printf("  Total:   %d focus session(s), %s\n", sum.Totals.CompletedFocusSessions, ui.FormatMinutes(sum.Totals.FocusMinutes))
	fmt.Printf("  Tasks:   %d open\n", openTasks)
	fmt.Printf("  Alarms:  %d enabled\n", enabledAlarms)
	fmt.Println()
	fmt.Printf("  Focus %s · short break %s · long break every %d focus\n",
		ui.FormatMinutes(app.cfg.Focus.DefaultSeconds/60),
		ui.FormatMinutes(app.cfg.ShortBreak.DefaultSeconds/60),
		app.cfg.CyclesPerLongBreak,
	)

	return nil
}
