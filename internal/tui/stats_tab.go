// stats_tab.go renders journal aggregates: streaks, totals, the recent-day
// heatmap and the per-task rollup.
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tomo-dev/tomo/internal/stats"
	"github.com/tomo-dev/tomo/internal/ui"
)

// maxHeatBlocks caps one heatmap row; busier days overflow into a "+".
const maxHeatBlocks = 20

// maxTaskRows caps the per-task rollup.
const maxTaskRows = 5

// statsModel is the view model for the stats tab. It is display-only; the
// top-level model feeds it fresh aggregates after every journal write.
type statsModel struct {
	summary stats.Summary
	byTask  map[string]int
	titles  map[string]string
	skipped int
	dataDir string
	err     error
}

// View renders the stats tab.
func (m statsModel) View() string {
	if m.err != nil {
		return ErrorStyle.Render("Stats unavailable: " + m.err.Error())
	}

	var b strings.Builder

	b.WriteString(fmt.Sprintf("Current streak: %s   Longest: %d",
		SuccessStyle.Render(fmt.Sprintf("%d day(s)", m.summary.CurrentStreak)),
		m.summary.LongestStreak,
	))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Completed focus: %d session(s) · %s",
		m.summary.Totals.CompletedFocusSessions,
		ui.FormatMinutes(m.summary.Totals.FocusMinutes),
	))
	b.WriteString("\n\n")

	b.WriteString(TitleStyle.Render(fmt.Sprintf("Last %d days", len(m.summary.Heatmap))))
	b.WriteString("\n")
	for _, day := range m.summary.Heatmap {
		b.WriteString(fmt.Sprintf("  %s  %2d  %s\n", day.Date, day.Sessions, heatBar(day.Sessions)))
	}

	if rows := m.taskRows(); len(rows) > 0 {
		b.WriteString("\n")
		b.WriteString(TitleStyle.Render("By task"))
		b.WriteString("\n")
		for _, row := range rows {
			b.WriteString(fmt.Sprintf("  %3d  %s\n", row.count, row.title))
		}
	}

	if m.skipped > 0 {
		b.WriteString("\n")
		b.WriteString(WarningStyle.Render(fmt.Sprintf("Skipped %d corrupt journal line(s)", m.skipped)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(DimStyle.Render("Data: " + m.dataDir))

	return strings.TrimRight(b.String(), "\n")
}

type taskRow struct {
	title string
	count int
}

// taskRows sorts the per-task counts, busiest first, ties by title.
func (m statsModel) taskRows() []taskRow {
	rows := make([]taskRow, 0, len(m.byTask))
	for id, count := range m.byTask {
		title, ok := m.titles[id]
		if !ok {
			title = id + " (deleted)"
		}
		rows = append(rows, taskRow{title: title, count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].title < rows[j].title
	})
	if len(rows) > maxTaskRows {
		rows = rows[:maxTaskRows]
	}
	return rows
}

// heatBar renders one block per completed session, capped at maxHeatBlocks.
func heatBar(sessions int) string {
	if sessions <= 0 {
		return ""
	}
	if sessions > maxHeatBlocks {
		return ProgressFullStyle.Render(strings.Repeat("\u25aa", maxHeatBlocks)) + "+"
	}
	return ProgressFullStyle.Render(strings.Repeat("\u25aa", sessions))
}
