package stats

import (
	"testing"
	"time"

	"github.com/tomo-dev/tomo/internal/journal"
)

// day returns local noon on 2026-08-<d>.
func day(d int) time.Time {
	return time.Date(2026, 8, d, 12, 0, 0, 0, time.Local)
}

func focusOn(t time.Time, completed bool, actualSeconds int) journal.SessionRecord {
	return journal.SessionRecord{
		Version:        journal.SchemaVersion,
		Phase:          journal.PhaseFocus,
		PlannedSeconds: 1500,
		ActualSeconds:  actualSeconds,
		Completed:      completed,
		StartedAt:      t,
	}
}

func breakOn(t time.Time) journal.SessionRecord {
	return journal.SessionRecord{
		Version:        journal.SchemaVersion,
		Phase:          journal.PhaseShortBreak,
		PlannedSeconds: 300,
		ActualSeconds:  300,
		Completed:      true,
		StartedAt:      t,
	}
}

func TestCurrentStreakCountsTrailingRun(t *testing.T) {
	var records []journal.SessionRecord
	for d := 1; d <= 5; d++ {
		records = append(records, focusOn(day(d), true, 1500))
	}

	if got := CurrentStreak(records, day(5)); got != 5 {
		t.Errorf("CurrentStreak on day 5 = %d, want 5", got)
	}
}

func TestCurrentStreakSurvivesEmptyToday(t *testing.T) {
	var records []journal.SessionRecord
	for d := 1; d <= 5; d++ {
		records = append(records, focusOn(day(d), true, 1500))
	}

	// Day 6 has no sessions yet; the run through day 5 still stands.
	if got := CurrentStreak(records, day(6)); got != 5 {
		t.Errorf("CurrentStreak on empty day 6 = %d, want 5", got)
	}
}

func TestCurrentStreakResetsAfterFullDayGap(t *testing.T) {
	var records []journal.SessionRecord
	for d := 1; d <= 5; d++ {
		records = append(records, focusOn(day(d), true, 1500))
	}

	// Day 6 passed with nothing; querying on day 7 finds the streak dead.
	if got := CurrentStreak(records, day(7)); got != 0 {
		t.Errorf("CurrentStreak after gap = %d, want 0", got)
	}

	// One qualifying session on day 7 restarts at 1.
	records = append(records, focusOn(day(7), true, 1500))
	if got := CurrentStreak(records, day(7)); got != 1 {
		t.Errorf("CurrentStreak after restart = %d, want 1", got)
	}
}

func TestAbandonedAndBreakSessionsDoNotQualify(t *testing.T) {
	records := []journal.SessionRecord{
		focusOn(day(1), true, 1500),
		focusOn(day(2), false, 200), // abandoned
		breakOn(day(2)),             // break, completed
	}

	if got := CurrentStreak(records, day(2)); got != 1 {
		t.Errorf("CurrentStreak = %d, want 1 (day 2 has no completed focus)", got)
	}
}

func TestLongestStreakSpansHistory(t *testing.T) {
	var records []journal.SessionRecord
	for _, d := range []int{1, 2, 3, 7, 8, 9, 10, 20} {
		records = append(records, focusOn(day(d), true, 1500))
	}

	if got := LongestStreak(records); got != 4 {
		t.Errorf("LongestStreak = %d, want 4", got)
	}
	if got := LongestStreak(nil); got != 0 {
		t.Errorf("LongestStreak(nil) = %d, want 0", got)
	}
}

func TestComputeTotals(t *testing.T) {
	records := []journal.SessionRecord{
		focusOn(day(1), true, 1500),
		focusOn(day(1), true, 1500),
		focusOn(day(2), false, 700), // abandoned: excluded
		breakOn(day(2)),             // break: excluded
	}

	totals := ComputeTotals(records)
	if totals.CompletedFocusSessions != 2 {
		t.Errorf("CompletedFocusSessions = %d, want 2", totals.CompletedFocusSessions)
	}
	if totals.FocusMinutes != 50 {
		t.Errorf("FocusMinutes = %d, want 50", totals.FocusMinutes)
	}
}

func TestHeatmapCoversTrailingWindowInOrder(t *testing.T) {
	records := []journal.SessionRecord{
		focusOn(day(14), true, 1500),
		focusOn(day(14), true, 1500),
		focusOn(day(17), true, 900),
		focusOn(day(3), true, 1500), // outside the window
	}

	cells := Heatmap(records, day(17), 7)
	if len(cells) != 7 {
		t.Fatalf("len(cells) = %d, want 7", len(cells))
	}
	if cells[0].Date != "2026-08-11" {
		t.Errorf("first cell date = %s, want 2026-08-11", cells[0].Date)
	}
	if cells[6].Date != "2026-08-17" {
		t.Errorf("last cell date = %s, want 2026-08-17", cells[6].Date)
	}

	byDate := map[string]DayCount{}
	for _, c := range cells {
		byDate[c.Date] = c
	}
	if got := byDate["2026-08-14"]; got.Sessions != 2 || got.Minutes != 50 {
		t.Errorf("2026-08-14 = %+v, want 2 sessions / 50 minutes", got)
	}
	if got := byDate["2026-08-17"]; got.Sessions != 1 || got.Minutes != 15 {
		t.Errorf("2026-08-17 = %+v, want 1 session / 15 minutes", got)
	}
	if got := byDate["2026-08-12"]; got.Sessions != 0 {
		t.Errorf("2026-08-12 = %+v, want empty cell", got)
	}
}

func TestCompletedByTask(t *testing.T) {
	a := focusOn(day(1), true, 1500)
	a.TaskID = "task-a"
	b := focusOn(day(2), true, 1500)
	b.TaskID = "task-a"
	c := focusOn(day(2), true, 1500)
	c.TaskID = "task-b"
	abandoned := focusOn(day(3), false, 100)
	abandoned.TaskID = "task-a"
	untagged := focusOn(day(3), true, 1500)

	counts := CompletedByTask([]journal.SessionRecord{a, b, c, abandoned, untagged})
	if counts["task-a"] != 2 {
		t.Errorf("task-a = %d, want 2", counts["task-a"])
	}
	if counts["task-b"] != 1 {
		t.Errorf("task-b = %d, want 1", counts["task-b"])
	}
	if len(counts) != 2 {
		t.Errorf("len(counts) = %d, want 2", len(counts))
	}
}

func TestSummarizeBundlesViews(t *testing.T) {
	records := []journal.SessionRecord{
		focusOn(day(16), true, 1500),
		focusOn(day(17), true, 1500),
	}

	s := Summarize(records, day(17), 7)
	if s.CurrentStreak != 2 {
		t.Errorf("CurrentStreak = %d, want 2", s.CurrentStreak)
	}
	if s.LongestStreak != 2 {
		t.Errorf("LongestStreak = %d, want 2", s.LongestStreak)
	}
	if s.Totals.CompletedFocusSessions != 2 {
		t.Errorf("CompletedFocusSessions = %d, want 2", s.Totals.CompletedFocusSessions)
	}
	if len(s.Heatmap) != 7 {
		t.Errorf("len(Heatmap) = %d, want 7", len(s.Heatmap))
	}
}
