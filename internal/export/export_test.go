package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomo-dev/tomo/internal/journal"
)

func TestWriteCSVShape(t *testing.T) {
	start := time.Date(2026, 8, 20, 9, 30, 0, 0, time.Local)
	records := []journal.SessionRecord{
		{
			Version:        1,
			Phase:          journal.PhaseFocus,
			PlannedSeconds: 1500,
			ActualSeconds:  1500,
			Completed:      true,
			TaskID:         "t1",
			StartedAt:      start,
			Pauses:         2,
			Note:           "deep work",
		},
		{
			Version:        1,
			Phase:          journal.PhaseShortBreak,
			PlannedSeconds: 300,
			ActualSeconds:  120,
			Completed:      false,
			StartedAt:      start.Add(26 * time.Minute),
		},
	}
	titles := map[string]string{"t1": "write report"}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, records, titles); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parsing output: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}

	wantHeader := "date|start_time|duration_min|type|task|completed|pauses|notes"
	if got := strings.Join(rows[0], "|"); got != wantHeader {
		t.Errorf("header = %s, want %s", got, wantHeader)
	}
	if got, want := strings.Join(rows[1], "|"), "2026-08-20|09:30:00|25|Focus|write report|yes|2|deep work"; got != want {
		t.Errorf("row 1 = %s, want %s", got, want)
	}
	if got, want := strings.Join(rows[2], "|"), "2026-08-20|09:56:00|2|Short Break||no|0|"; got != want {
		t.Errorf("row 2 = %s, want %s", got, want)
	}
}

func TestWriteCSVKeepsIdForDeletedTask(t *testing.T) {
	records := []journal.SessionRecord{
		{
			Version:        1,
			Phase:          journal.PhaseFocus,
			PlannedSeconds: 60,
			ActualSeconds:  60,
			Completed:      true,
			TaskID:         "gone-task-id",
			StartedAt:      time.Date(2026, 8, 20, 9, 0, 0, 0, time.Local),
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, records, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parsing output: %v", err)
	}
	if got := rows[1][4]; got != "gone-task-id" {
		t.Errorf("task column = %q, want the raw id", got)
	}
}

func TestWriteFileCreatesTimestampedExport(t *testing.T) {
	dataDir := t.TempDir()
	records := []journal.SessionRecord{
		{
			Version:        1,
			Phase:          journal.PhaseFocus,
			PlannedSeconds: 60,
			ActualSeconds:  60,
			Completed:      true,
			StartedAt:      time.Now(),
		},
	}

	path, err := WriteFile(dataDir, records, nil)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	name := filepath.Base(path)
	if !strings.HasPrefix(name, "sessions-") || !strings.HasSuffix(name, ".csv") {
		t.Errorf("export name = %s, want sessions-<timestamp>.csv", name)
	}
	if filepath.Dir(path) != filepath.Join(dataDir, "exports") {
		t.Errorf("export dir = %s, want %s", filepath.Dir(path), filepath.Join(dataDir, "exports"))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parsing export: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("len(rows) = %d, want 2", len(rows))
	}
}

func TestWriteToCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.csv")
	if err := WriteTo(path, nil, nil); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("export not created: %v", err)
	}
}

// createExport creates an export file named for the given timestamp.
func createExport(t *testing.T, dataDir string, ts time.Time) string {
	t.Helper()
	dir := filepath.Join(dataDir, "exports")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating exports dir: %v", err)
	}
	name := "sessions-" + ts.Format(fileTimestampLayout) + ".csv"
	if err := os.WriteFile(filepath.Join(dir, name), []byte("date\n"), 0644); err != nil {
		t.Fatalf("creating export %s: %v", name, err)
	}
	return name
}

func TestPruneKeepRecent_KeepsCorrectCount(t *testing.T) {
	dataDir := t.TempDir()

	now := time.Now()
	e1 := createExport(t, dataDir, now.AddDate(0, 0, -4))
	e2 := createExport(t, dataDir, now.AddDate(0, 0, -3))
	_ = createExport(t, dataDir, now.AddDate(0, 0, -2))
	_ = createExport(t, dataDir, now.AddDate(0, 0, -1))

	pruned, err := PruneKeepRecent(dataDir, 2, false)
	if err != nil {
		t.Fatalf("PruneKeepRecent failed: %v", err)
	}

	if len(pruned) != 2 {
		t.Fatalf("expected 2 pruned, got %d: %v", len(pruned), pruned)
	}
	if pruned[0] != e1 || pruned[1] != e2 {
		t.Errorf("expected pruned=[%s, %s], got %v", e1, e2, pruned)
	}

	entries, _ := os.ReadDir(filepath.Join(dataDir, "exports"))
	if len(entries) != 2 {
		t.Errorf("expected 2 remaining exports, got %d", len(entries))
	}
}

func TestPruneKeepRecent_DryRun(t *testing.T) {
	dataDir := t.TempDir()

	now := time.Now()
	e1 := createExport(t, dataDir, now.AddDate(0, 0, -3))
	createExport(t, dataDir, now.AddDate(0, 0, -1))

	pruned, err := PruneKeepRecent(dataDir, 1, true)
	if err != nil {
		t.Fatalf("PruneKeepRecent dry-run failed: %v", err)
	}

	if len(pruned) != 1 || pruned[0] != e1 {
		t.Errorf("expected pruned=[%s], got %v", e1, pruned)
	}

	entries, _ := os.ReadDir(filepath.Join(dataDir, "exports"))
	if len(entries) != 2 {
		t.Errorf("expected 2 exports to remain in dry-run, got %d", len(entries))
	}
}

func TestPruneKeepRecent_IgnoresForeignFiles(t *testing.T) {
	dataDir := t.TempDir()
	dir := filepath.Join(dataDir, "exports")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating exports dir: %v", err)
	}
	for _, name := range []string{"notes.txt", "sessions-garbage.csv", "sessions-20260101-000000.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("creating %s: %v", name, err)
		}
	}

	pruned, err := PruneKeepRecent(dataDir, 0, false)
	if err != nil {
		t.Fatalf("PruneKeepRecent failed: %v", err)
	}
	if len(pruned) != 0 {
		t.Errorf("expected no pruned files, got %v", pruned)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 3 {
		t.Errorf("expected 3 foreign files to remain, got %d", len(entries))
	}
}

func TestPruneKeepRecent_MissingDir(t *testing.T) {
	pruned, err := PruneKeepRecent(t.TempDir(), 5, false)
	if err != nil {
		t.Fatalf("expected nil error for missing exports dir, got: %v", err)
	}
	if len(pruned) != 0 {
		t.Errorf("expected empty pruned list, got %v", pruned)
	}
}
