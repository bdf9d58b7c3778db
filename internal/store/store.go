package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const dbFile = "tomo.db"

// Store wraps the SQLite database holding tasks and alarms.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database inside the data directory and
// ensures the schema exists.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, dbFile))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := createTables(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		estimated_pomodoros INTEGER NOT NULL,
		done INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS alarms (
		id TEXT PRIMARY KEY,
		time_of_day TEXT NOT NULL,
		label TEXT NOT NULL DEFAULT '',
		sound_ref TEXT NOT NULL DEFAULT '',
		enabled INTEGER NOT NULL DEFAULT 1,
		repeat INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL
	);
	`
	_, err := db.Exec(schema)
	return err
}

// CreateTask validates and inserts a new task.
func (s *Store) CreateTask(title string, estimatedPomodoros int) (*Task, error) {
	t := Task{
		ID:                 uuid.New().String(),
		Title:              strings.TrimSpace(title),
		EstimatedPomodoros: estimatedPomodoros,
		CreatedAt:          time.Now(),
	}
	if err := validateTask(t); err != nil {
		return nil, err
	}

	_, err := s.db.Exec(
		`INSERT INTO tasks (id, title, estimated_pomodoros, done, created_at)
		 VALUES (?, ?, ?, 0, ?)`,
		t.ID, t.Title, t.EstimatedPomodoros, t.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	return &t, nil
}

// GetTask retrieves a task by ID. Returns nil without error when absent.
func (s *Store) GetTask(id string) (*Task, error) {
	row := s.db.QueryRow(
		`SELECT id, title, estimated_pomodoros, done, created_at
		 FROM tasks WHERE id = ?`,
		id,
	)

	var t Task
	err := row.Scan(&t.ID, &t.Title, &t.EstimatedPomodoros, &t.Done, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}

	return &t, nil
}

// ListTasks returns all tasks, oldest first.
func (s *Store) ListTasks() ([]Task, error) {
	rows, err := s.db.Query(
		`SELECT id, title, estimated_pomodoros, done, created_at
		 FROM tasks ORDER BY created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Title, &t.EstimatedPomodoros, &t.Done, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return tasks, nil
}

// UpdateTask validates and rewrites an existing task row.
func (s *Store) UpdateTask(t Task) error {
	if err := validateTask(t); err != nil {
		return err
	}

	result, err := s.db.Exec(
		`UPDATE tasks SET title = ?, estimated_pomodoros = ?, done = ?
		 WHERE id = ?`,
		strings.TrimSpace(t.Title), t.EstimatedPomodoros, t.Done, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("task %s not found", t.ID)
	}

	return nil
}

// SetTaskDone flips the done flag.
func (s *Store) SetTaskDone(id string, done bool) error {
	result, err := s.db.Exec(`UPDATE tasks SET done = ? WHERE id = ?`, done, id)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("task %s not found", id)
	}
	return nil
}

// DeleteTask removes a task. Journal records keep the dangling task id and
// render as deleted.
func (s *Store) DeleteTask(id string) error {
	result, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("task %s not found", id)
	}
	return nil
}

// ResolveTask finds the task whose id starts with prefix. Ambiguous or
// unknown prefixes are errors.
func (s *Store) ResolveTask(prefix string) (*Task, error) {
	rows, err := s.db.Query(
		`SELECT id, title, estimated_pomodoros, done, created_at
		 FROM tasks WHERE id LIKE ? ORDER BY id ASC LIMIT 2`,
		prefix+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var matches []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Title, &t.EstimatedPomodoros, &t.Done, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		matches = append(matches, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no task matches %q", prefix)
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("task id %q is ambiguous", prefix)
	}
}

// CreateAlarm validates and inserts a new alarm, enabled by default.
func (s *Store) CreateAlarm(timeOfDay, label, soundRef string, repeat bool) (*Alarm, error) {
	normalized, _, err := ParseTimeOfDay(timeOfDay)
	if err != nil {
		return nil, err
	}

	a := Alarm{
		ID:        uuid.New().String(),
		TimeOfDay: normalized,
		Label:     strings.TrimSpace(label),
		SoundRef:  soundRef,
		Enabled:   true,
		Repeat:    repeat,
		CreatedAt: time.Now(),
	}

	_, err = s.db.Exec(
		`INSERT INTO alarms (id, time_of_day, label, sound_ref, enabled, repeat, created_at)
		 VALUES (?, ?, ?, ?, 1, ?, ?)`,
		a.ID, a.TimeOfDay, a.Label, a.SoundRef, a.Repeat, a.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert alarm: %w", err)
	}

	return &a, nil
}

// GetAlarm retrieves an alarm by ID. Returns nil without error when absent.
func (s *Store) GetAlarm(id string) (*Alarm, error) {
	row := s.db.QueryRow(
		`SELECT id, time_of_day, label, sound_ref, enabled, repeat, created_at
		 FROM alarms WHERE id = ?`,
		id,
	)

	var a Alarm
	err := row.Scan(&a.ID, &a.TimeOfDay, &a.Label, &a.SoundRef, &a.Enabled, &a.Repeat, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan alarm: %w", err)
	}

	return &a, nil
}

// ListAlarms returns all alarms ordered by time of day.
func (s *Store) ListAlarms() ([]Alarm, error) {
	rows, err := s.db.Query(
		`SELECT id, time_of_day, label, sound_ref, enabled, repeat, created_at
		 FROM alarms ORDER BY time_of_day ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query alarms: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var alarms []Alarm
	for rows.Next() {
		var a Alarm
		if err := rows.Scan(&a.ID, &a.TimeOfDay, &a.Label, &a.SoundRef, &a.Enabled, &a.Repeat, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alarm: %w", err)
		}
		alarms = append(alarms, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return alarms, nil
}

// UpdateAlarm validates and rewrites an existing alarm row.
func (s *Store) UpdateAlarm(a Alarm) error {
	normalized, _, err := ParseTimeOfDay(a.TimeOfDay)
	if err != nil {
		return err
	}

	result, err := s.db.Exec(
		`UPDATE alarms SET time_of_day = ?, label = ?, sound_ref = ?, enabled = ?, repeat = ?
		 WHERE id = ?`,
		normalized, strings.TrimSpace(a.Label), a.SoundRef, a.Enabled, a.Repeat, a.ID,
	)
	if err != nil {
		return fmt.Errorf("update alarm: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("alarm %s not found", a.ID)
	}

	return nil
}

// SetAlarmEnabled flips the enabled flag. Disabled alarms are retained but
// never evaluated by the monitor.
func (s *Store) SetAlarmEnabled(id string, enabled bool) error {
	result, err := s.db.Exec(`UPDATE alarms SET enabled = ? WHERE id = ?`, enabled, id)
	if err != nil {
		return fmt.Errorf("update alarm: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("alarm %s not found", id)
	}
	return nil
}

// DeleteAlarm removes an alarm.
func (s *Store) DeleteAlarm(id string) error {
	result, err := s.db.Exec(`DELETE FROM alarms WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete alarm: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("alarm %s not found", id)
	}
	return nil
}

// ResolveAlarm finds the alarm whose id starts with prefix. Ambiguous or
// unknown prefixes are errors.
func (s *Store) ResolveAlarm(prefix string) (*Alarm, error) {
	rows, err := s.db.Query(
		`SELECT id, time_of_day, label, sound_ref, enabled, repeat, created_at
		 FROM alarms WHERE id LIKE ? ORDER BY id ASC LIMIT 2`,
		prefix+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("query alarms: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var matches []Alarm
	for rows.Next() {
		var a Alarm
		if err := rows.Scan(&a.ID, &a.TimeOfDay, &a.Label, &a.SoundRef, &a.Enabled, &a.Repeat, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alarm: %w", err)
		}
		matches = append(matches, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no alarm matches %q", prefix)
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("alarm id %q is ambiguous", prefix)
	}
}
