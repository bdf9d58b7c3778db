// Package export renders the session journal to CSV and prunes old export
// files from the exports directory.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/tomo-dev/tomo/internal/journal"
)

// fileTimestampLayout names export files so they sort chronologically.
const fileTimestampLayout = "20060102-150405"

const exportsDir = "exports"

// header is the column set of the session log export.
var header = []string{"date", "start_time", "duration_min", "type", "task", "completed", "pauses", "notes"}

// WriteCSV renders records to w in the order given. taskTitles maps task ids
// to display titles; a session whose task has since been deleted keeps its
// raw id in the task column so the row stays attributable.
func WriteCSV(w io.Writer, records []journal.SessionRecord, taskTitles map[string]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, rec := range records {
		task := ""
		if rec.TaskID != "" {
			task = taskTitles[rec.TaskID]
			if task == "" {
				task = rec.TaskID
			}
		}
		completed := "no"
		if rec.Completed {
			completed = "yes"
		}
		row := []string{
			rec.Day(),
			rec.StartedAt.Local().Format("15:04:05"),
			strconv.Itoa(rec.ActualSeconds / 60),
			rec.Phase.Label(),
			task,
			completed,
			strconv.Itoa(rec.Pauses),
			rec.Note,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

// WriteTo writes an export to an explicit path, creating parent directories
// as needed.
func WriteTo(path string, records []journal.SessionRecord, taskTitles map[string]string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating export directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := WriteCSV(f, records, taskTitles); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing export file: %w", err)
	}
	return nil
}

// WriteFile writes a timestamped export into the exports directory under
// the data dir and returns its path.
func WriteFile(dataDir string, records []journal.SessionRecord, taskTitles map[string]string) (string, error) {
	name := "sessions-" + time.Now().Format(fileTimestampLayout) + ".csv"
	path := filepath.Join(dataDir, exportsDir, name)
	if err := WriteTo(path, records, taskTitles); err != nil {
		return "", err
	}
	return path, nil
}
