// stats.go implements the "tomo stats" command with streaks, totals and a
// daily activity heatmap.
package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomo-dev/tomo/internal/stats"
	"github.com/tomo-dev/tomo/internal/ui"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show streaks, totals and recent activity",
	RunE:  runStats,
}

var daysFlag int

func init() {
	statsCmd.Flags().IntVar(&daysFlag, "days", 7, "Days of history in the activity view")
}

func runStats(cmd *cobra.Command, args []string) error {
	if daysFlag <= 0 {
		return fmt.Errorf("--days must be positive, got %d", daysFlag)
	}

	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	records, err := app.loadRecords()
	if err != nil {
		return err
	}
	sum := stats.Summarize(records, time.Now(), daysFlag)

	fmt.Printf("Current streak: %d day(s)\n", sum.CurrentStreak)
	fmt.Printf("Longest streak: %d day(s)\n", sum.LongestStreak)
	fmt.Printf("Completed focus: %d session(s), %s\n", sum.Totals.CompletedFocusSessions, ui.FormatMinutes(sum.Totals.FocusMinutes))

	fmt.Println()
	fmt.Printf("Last %d day(s):\n", daysFlag)
	for _, day := range sum.Heatmap {
		fmt.Printf("  %s  %2d  %s\n", day.Date, day.Sessions, activityBar(day.Sessions))
	}

	byTask := stats.CompletedByTask(records)
	if len(byTask) > 0 {
		titles := app.taskTitles()
		type taskCount struct {
			name  string
			count int
		}
		var counts []taskCount
		for id, n := range byTask {
			name := titles[id]
			if name == "" {
				name = id + " (deleted)"
			}
			counts = append(counts, taskCount{name, n})
		}
		sort.Slice(counts, func(a, b int) bool {
			if counts[a].count != counts[b].count {
				return counts[a].count > counts[b].count
			}
			return counts[a].name < counts[b].name
		})

		fmt.Println()
		fmt.Println("By task:")
		for _, tc := range counts {
			fmt.Printf("  %3d  %s\n", tc.count, tc.name)
		}
	}

	return nil
}

// activityBar renders a session count as a block bar, capped so one wild
// day cannot blow out the column.
func activityBar(sessions int) string {
	const maxBlocks = 20
	if sessions > maxBlocks {
		return strings.Repeat("\u2588", maxBlocks) + "+"
	}
	return strings.Repeat("\u2588", sessions)
}
