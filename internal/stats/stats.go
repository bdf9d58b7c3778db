// Package stats derives aggregates from journal records: totals, streaks,
// heatmaps and per-task rollups. Everything here is a pure function over the
// records it is handed; nothing caches, so every query reflects the journal
// as loaded.
package stats

import (
	"sort"
	"time"

	"github.com/tomo-dev/tomo/internal/journal"
)

// Totals are the whole-journal focus aggregates.
type Totals struct {
	CompletedFocusSessions int
	FocusMinutes           int
}

// DayCount is one heatmap cell: completed focus activity for a calendar day.
type DayCount struct {
	Date     string // journal.DayLayout
	Sessions int
	Minutes  int
}

// Summary bundles the aggregate views for display surfaces.
type Summary struct {
	Totals        Totals
	CurrentStreak int
	LongestStreak int
	Heatmap       []DayCount
}

// qualifies reports whether a record counts toward streaks and heatmaps.
func qualifies(rec journal.SessionRecord) bool {
	return rec.Phase == journal.PhaseFocus && rec.Completed
}

// ComputeTotals sums completed focus sessions and focused minutes.
func ComputeTotals(records []journal.SessionRecord) Totals {
	var t Totals
	seconds := 0
	for _, rec := range records {
		if !qualifies(rec) {
			continue
		}
		t.CompletedFocusSessions++
		seconds += rec.ActualSeconds
	}
	t.FocusMinutes = seconds / 60
	return t
}

// qualifyingDays returns the set of local calendar days with at least one
// completed focus session.
func qualifyingDays(records []journal.SessionRecord) map[string]bool {
	days := map[string]bool{}
	for _, rec := range records {
		if qualifies(rec) {
			days[rec.Day()] = true
		}
	}
	return days
}

// CurrentStreak counts the trailing run of consecutive qualifying days. The
// run stays alive while its last day is today or yesterday; a full day
// passing with no completed focus session resets it to zero. An empty today
// alone does not break the run, since the day is not over.
func CurrentStreak(records []journal.SessionRecord, now time.Time) int {
	days := qualifyingDays(records)
	if len(days) == 0 {
		return 0
	}

	cursor := now.Local()
	if !days[cursor.Format(journal.DayLayout)] {
		cursor = cursor.AddDate(0, 0, -1)
		if !days[cursor.Format(journal.DayLayout)] {
			return 0
		}
	}

	streak := 0
	for days[cursor.Format(journal.DayLayout)] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

// LongestStreak finds the longest run of consecutive qualifying days
// anywhere in the history.
func LongestStreak(records []journal.SessionRecord) int {
	daySet := qualifyingDays(records)
	if len(daySet) == 0 {
		return 0
	}

	days := make([]time.Time, 0, len(daySet))
	for day := range daySet {
		d, err := time.Parse(journal.DayLayout, day)
		if err != nil {
			continue
		}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i-1].AddDate(0, 0, 1).Equal(days[i]) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// Heatmap reports completed focus activity for the trailing days calendar
// days ending today, in chronological order. Days without sessions report
// zero.
func Heatmap(records []journal.SessionRecord, now time.Time, days int) []DayCount {
	type cell struct {
		sessions int
		seconds  int
	}
	perDay := map[string]cell{}
	for _, rec := range records {
		if !qualifies(rec) {
			continue
		}
		c := perDay[rec.Day()]
		c.sessions++
		c.seconds += rec.ActualSeconds
		perDay[rec.Day()] = c
	}

	out := make([]DayCount, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := now.Local().AddDate(0, 0, -i).Format(journal.DayLayout)
		c := perDay[date]
		out = append(out, DayCount{Date: date, Sessions: c.sessions, Minutes: c.seconds / 60})
	}
	return out
}

// CompletedByTask counts completed focus sessions per task id. Dangling ids
// (deleted tasks) keep their buckets; display layers render those as
// deleted.
func CompletedByTask(records []journal.SessionRecord) map[string]int {
	out := map[string]int{}
	for _, rec := range records {
		if qualifies(rec) && rec.TaskID != "" {
			out[rec.TaskID]++
		}
	}
	return out
}

// Summarize computes the standard dashboard bundle: totals, both streaks and
// a heatmap of the given width.
func Summarize(records []journal.SessionRecord, now time.Time, heatmapDays int) Summary {
	return Summary{
		Totals:        ComputeTotals(records),
		CurrentStreak: CurrentStreak(records, now),
		LongestStreak: LongestStreak(records),
		Heatmap:       Heatmap(records, now, heatmapDays),
	}
}
