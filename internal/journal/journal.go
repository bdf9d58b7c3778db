// journal.go implements the append-only JSONL stores for session records
// and day notes.
package journal

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

const (
	journalFile = "journal.jsonl"
	notesFile   = "notes.jsonl"
)

// Journal is the append-only session log. Appends never rewrite or reorder
// existing records; loads salvage whatever still parses.
type Journal struct {
	path      string
	notesPath string
	mu        sync.Mutex
}

// Open returns a Journal rooted at the given data directory. The backing
// files are created lazily on first append.
func Open(dir string) *Journal {
	return &Journal{
		path:      filepath.Join(dir, journalFile),
		notesPath: filepath.Join(dir, notesFile),
	}
}

// Path returns the journal file location.
func (j *Journal) Path() string { return j.path }

// Append writes one record as a single JSON line. The schema version and
// start time are filled in when zero. Invariant violations are rejected
// before anything touches disk.
func (j *Journal) Append(rec SessionRecord) error {
	if rec.Version == 0 {
		rec.Version = SchemaVersion
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now()
	}
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("invalid session record: %w", err)
	}
	return j.appendLine(j.path, rec)
}

// LoadAll reads every salvageable record, ordered by start time ascending,
// and reports how many malformed lines were skipped. A missing file is an
// empty journal, not an error.
func (j *Journal) LoadAll() ([]SessionRecord, int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.Open(j.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []SessionRecord{}, 0, nil
		}
		return nil, 0, &PersistenceError{Op: "open journal", Path: j.path, Err: err}
	}
	defer f.Close()

	var records []SessionRecord
	skipped := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec SessionRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			skipped++
			continue
		}
		if rec.Validate() != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return records, skipped, &PersistenceError{Op: "read journal", Path: j.path, Err: err}
	}

	sort.SliceStable(records, func(a, b int) bool {
		return records[a].StartedAt.Before(records[b].StartedAt)
	})
	return records, skipped, nil
}

// Clear truncates the session log. Destructive; callers are expected to
// confirm with the user first. Notes are left alone.
func (j *Journal) Clear() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	err := os.Truncate(j.path, 0)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return &PersistenceError{Op: "truncate journal", Path: j.path, Err: err}
	}
	return nil
}

// AppendNote records a day note. date must be in DayLayout form; an empty
// date means today. Re-noting a day appends a fresh entry rather than
// editing the old one.
func (j *Journal) AppendNote(date, text string) error {
	if date == "" {
		date = time.Now().Format(DayLayout)
	}
	if _, err := time.Parse(DayLayout, date); err != nil {
		return fmt.Errorf("invalid note date %q: %w", date, err)
	}
	note := DayNote{
		Version:   SchemaVersion,
		Date:      date,
		Text:      text,
		WrittenAt: time.Now().UTC(),
	}
	return j.appendLine(j.notesPath, note)
}

// LoadNotes returns the effective note per date (latest entry wins) plus the
// count of malformed lines skipped.
func (j *Journal) LoadNotes() (map[string]string, int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	notes := map[string]string{}
	f, err := os.Open(j.notesPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return notes, 0, nil
		}
		return nil, 0, &PersistenceError{Op: "open notes", Path: j.notesPath, Err: err}
	}
	defer f.Close()

	skipped := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var note DayNote
		if err := json.Unmarshal(line, &note); err != nil {
			skipped++
			continue
		}
		if _, err := time.Parse(DayLayout, note.Date); err != nil {
			skipped++
			continue
		}
		notes[note.Date] = note.Text
	}
	if err := scanner.Err(); err != nil {
		return notes, skipped, &PersistenceError{Op: "read notes", Path: j.notesPath, Err: err}
	}
	return notes, skipped, nil
}

// appendLine marshals v and appends it as one line to path, creating the
// parent directory and file as needed.
func (j *Journal) appendLine(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return &PersistenceError{Op: "encode entry", Path: path, Err: err}
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &PersistenceError{Op: "create data directory", Path: path, Err: err}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return &PersistenceError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return &PersistenceError{Op: "write", Path: path, Err: err}
	}
	return nil
}
