// Package testutil provides test helper utilities for tomo tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomo-dev/tomo/internal/journal"
)

// TempHome creates a temporary data directory with the given files, points
// TOMO_HOME at it and returns its path. Files is a map of relative path ->
// content; directories are created as needed. The directory is automatically
// cleaned up when the test finishes.
func TempHome(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TOMO_HOME", dir)

	for relPath, content := range files {
		absPath := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			t.Fatalf("creating directory for %s: %v", relPath, err)
		}
		if err := os.WriteFile(absPath, []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", relPath, err)
		}
	}

	return dir
}

// CompletedFocus returns a completed 25-minute focus record started at the
// given time.
func CompletedFocus(startedAt time.Time) journal.SessionRecord {
	return journal.SessionRecord{
		Version:        journal.SchemaVersion,
		Phase:          journal.PhaseFocus,
		PlannedSeconds: 1500,
		ActualSeconds:  1500,
		Completed:      true,
		StartedAt:      startedAt,
	}
}

// AbandonedFocus returns a focus record reset after the given number of
// seconds.
func AbandonedFocus(startedAt time.Time, actualSeconds int) journal.SessionRecord {
	return journal.SessionRecord{
		Version:        journal.SchemaVersion,
		Phase:          journal.PhaseFocus,
		PlannedSeconds: 1500,
		ActualSeconds:  actualSeconds,
		Completed:      false,
		StartedAt:      startedAt,
	}
}

// JournalLines renders records as journal.jsonl content.
func JournalLines(t *testing.T, records ...journal.SessionRecord) string {
	t.Helper()
	var b strings.Builder
	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			t.Fatalf("marshalling record: %v", err)
		}
		b.Write(data)
		b.WriteByte('\n')
	}
	return b.String()
}

// StreakJournal returns data directory contents holding one completed focus
// session per day for the last days days, today included.
func StreakJournal(t *testing.T, days int) map[string]string {
	t.Helper()
	now := time.Now()
	var records []journal.SessionRecord
	for i := days - 1; i >= 0; i-- {
		records = append(records, CompletedFocus(now.AddDate(0, 0, -i)))
	}
	return map[string]string{
		"journal.jsonl": JournalLines(t, records...),
	}
}

// EmptyHome returns contents for a data directory with no files.
func EmptyHome() map[string]string {
	return map[string]string{}
}
