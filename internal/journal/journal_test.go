package journal

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func testRecord(day int, phase Phase, completed bool) SessionRecord {
	return SessionRecord{
		Version:        SchemaVersion,
		Phase:          phase,
		PlannedSeconds: 1500,
		ActualSeconds:  1200,
		Completed:      completed,
		StartedAt:      time.Date(2026, 8, day, 9, 0, 0, 0, time.UTC),
	}
}

func TestAppendAndLoadAll(t *testing.T) {
	j := Open(t.TempDir())

	want := []SessionRecord{
		testRecord(1, PhaseFocus, true),
		testRecord(2, PhaseShortBreak, true),
		testRecord(3, PhaseFocus, false),
	}
	for _, rec := range want {
		if err := j.Append(rec); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, skipped, err := j.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	if len(got) != len(want) {
		t.Fatalf("len(records) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Phase != want[i].Phase {
			t.Errorf("record %d Phase = %q, want %q", i, got[i].Phase, want[i].Phase)
		}
		if got[i].PlannedSeconds != want[i].PlannedSeconds {
			t.Errorf("record %d PlannedSeconds = %d, want %d", i, got[i].PlannedSeconds, want[i].PlannedSeconds)
		}
		if got[i].ActualSeconds != want[i].ActualSeconds {
			t.Errorf("record %d ActualSeconds = %d, want %d", i, got[i].ActualSeconds, want[i].ActualSeconds)
		}
		if got[i].Completed != want[i].Completed {
			t.Errorf("record %d Completed = %v, want %v", i, got[i].Completed, want[i].Completed)
		}
		if !got[i].StartedAt.Equal(want[i].StartedAt) {
			t.Errorf("record %d StartedAt = %v, want %v", i, got[i].StartedAt, want[i].StartedAt)
		}
	}
}

func TestLoadAllMissingFile(t *testing.T) {
	j := Open(filepath.Join(t.TempDir(), "nope"))

	records, skipped, err := j.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("len(records) = %d, want 0", len(records))
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
}

func TestLoadAllSalvagesCorruptLines(t *testing.T) {
	dir := t.TempDir()
	lines := []string{
		`{"v":1,"phase":"focus","planned_seconds":1500,"actual_seconds":1500,"completed":true,"started_at":"2026-08-01T09:00:00Z"}`,
		`{this is not json`,
		``,
		`{"v":1,"phase":"focus","planned_seconds":1500,"actual_seconds":9999,"completed":true,"started_at":"2026-08-02T09:00:00Z"}`,
		`{"v":1,"phase":"short_break","planned_seconds":300,"actual_seconds":300,"completed":true,"started_at":"2026-08-03T09:00:00Z"}`,
	}
	path := filepath.Join(dir, "journal.jsonl")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	j := Open(dir)
	records, skipped, err := j.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("len(records) = %d, want 2", len(records))
	}
	// One unparseable line plus one record violating actual <= planned.
	if skipped != 2 {
		t.Errorf("skipped = %d, want 2", skipped)
	}
}

func TestAppendRejectsInvalidRecords(t *testing.T) {
	j := Open(t.TempDir())

	bad := []SessionRecord{
		{Phase: "nap", PlannedSeconds: 100, ActualSeconds: 50},
		{Phase: PhaseFocus, PlannedSeconds: 0, ActualSeconds: 0},
		{Phase: PhaseFocus, PlannedSeconds: 100, ActualSeconds: 200},
		{Phase: PhaseFocus, PlannedSeconds: 100, ActualSeconds: -1},
	}
	for i, rec := range bad {
		if err := j.Append(rec); err == nil {
			t.Errorf("Append(bad[%d]) succeeded, want error", i)
		}
	}

	if _, err := os.Stat(j.Path()); !os.IsNotExist(err) {
		t.Error("rejected appends should not create the journal file")
	}
}

func TestLoadAllOrdersByStartTime(t *testing.T) {
	j := Open(t.TempDir())

	days := []int{5, 2, 9, 1}
	for _, d := range days {
		if err := j.Append(testRecord(d, PhaseFocus, true)); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	records, _, err := j.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	for i := 1; i < len(records); i++ {
		if records[i].StartedAt.Before(records[i-1].StartedAt) {
			t.Errorf("records out of order at %d: %v before %v", i, records[i].StartedAt, records[i-1].StartedAt)
		}
	}
}

func TestAppendFillsDefaults(t *testing.T) {
	j := Open(t.TempDir())

	rec := SessionRecord{Phase: PhaseFocus, PlannedSeconds: 60, ActualSeconds: 60, Completed: true}
	if err := j.Append(rec); err != nil {
		t.Fatalf("Append: %v", err)
	}

	records, _, err := j.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	if records[0].Version != SchemaVersion {
		t.Errorf("Version = %d, want %d", records[0].Version, SchemaVersion)
	}
	if records[0].StartedAt.IsZero() {
		t.Error("StartedAt was not defaulted")
	}
}

func TestClear(t *testing.T) {
	j := Open(t.TempDir())

	if err := j.Append(testRecord(1, PhaseFocus, true)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := j.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	records, _, err := j.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("len(records) after Clear = %d, want 0", len(records))
	}

	// Clearing a journal that never existed is fine.
	if err := Open(t.TempDir()).Clear(); err != nil {
		t.Errorf("Clear on missing file: %v", err)
	}
}

func TestNotesLatestEntryWins(t *testing.T) {
	j := Open(t.TempDir())

	if err := j.AppendNote("2026-08-20", "first draft"); err != nil {
		t.Fatalf("AppendNote: %v", err)
	}
	if err := j.AppendNote("2026-08-20", "final"); err != nil {
		t.Fatalf("AppendNote: %v", err)
	}
	if err := j.AppendNote("2026-08-21", "next day"); err != nil {
		t.Fatalf("AppendNote: %v", err)
	}

	notes, skipped, err := j.LoadNotes()
	if err != nil {
		t.Fatalf("LoadNotes: %v", err)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	if notes["2026-08-20"] != "final" {
		t.Errorf("note for 2026-08-20 = %q, want %q", notes["2026-08-20"], "final")
	}
	if notes["2026-08-21"] != "next day" {
		t.Errorf("note for 2026-08-21 = %q, want %q", notes["2026-08-21"], "next day")
	}
}

func TestAppendNoteValidatesDate(t *testing.T) {
	j := Open(t.TempDir())

	if err := j.AppendNote("August 20th", "nope"); err == nil {
		t.Error("AppendNote with bad date succeeded, want error")
	}
	// Empty date means today.
	if err := j.AppendNote("", "today"); err != nil {
		t.Fatalf("AppendNote with empty date: %v", err)
	}
	notes, _, err := j.LoadNotes()
	if err != nil {
		t.Fatalf("LoadNotes: %v", err)
	}
	today := time.Now().Format(DayLayout)
	if notes[today] != "today" {
		t.Errorf("note for today = %q, want %q", notes[today], "today")
	}
}

func TestConcurrentAppends(t *testing.T) {
	j := Open(t.TempDir())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(day int) {
			defer wg.Done()
			if err := j.Append(testRecord(day%28+1, PhaseFocus, true)); err != nil {
				t.Errorf("Append: %v", err)
			}
		}(i)
	}
	wg.Wait()

	records, skipped, err := j.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(records) != 20 {
		t.Errorf("len(records) = %d, want 20", len(records))
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0 (interleaved writes corrupted lines)", skipped)
	}
}
