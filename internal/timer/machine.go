// Package timer implements the pomodoro session machine: a one-second
// countdown over focus and break phases with pause, resume, skip and reset.
// Completion is transient; when a countdown reaches zero the machine emits a
// completion event and either auto-starts the next phase or returns to idle.
package timer

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/tomo-dev/tomo/internal/config"
	"github.com/tomo-dev/tomo/internal/event"
	"github.com/tomo-dev/tomo/internal/journal"
)

// State is the machine's resting state.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
)

// StateError reports a command issued in a state that does not allow it.
type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s while %s", e.Op, e.State)
}

// RecordSink persists finished sessions. *journal.Journal satisfies it.
type RecordSink interface {
	Append(rec journal.SessionRecord) error
}

// Planner supplies the duration for the next run of a phase and learns from
// finished sessions. *planner.Planner satisfies it; a nil Planner falls back
// to the configured defaults.
type Planner interface {
	PlanDuration(phase journal.Phase) int
	Observe(rec journal.SessionRecord)
}

// recordQueueSize bounds the persist queue between the tick path and the
// writer goroutine. Sessions finish at human speed, so a small buffer only
// ever fills when the disk has stopped cooperating.
const recordQueueSize = 16

// Machine drives the pomodoro cycle. All commands and Tick are safe for
// concurrent use; a single mutex serializes every state change, so no two
// ticks overlap and cancellation lands on a tick boundary.
//
// Finished sessions are handed to a buffered queue drained by a writer
// goroutine. A failed append never rolls back a transition: the machine
// warns and keeps going.
type Machine struct {
	mu sync.Mutex

	cfg     *config.Config
	planner Planner
	sink    RecordSink
	bus     *event.Bus

	state     State
	phase     journal.Phase
	planned   int
	remaining int
	pauses    int
	taskID    string
	startedAt time.Time

	focusInCycle int
	nextPhase    journal.Phase

	stopCh     chan struct{}
	records    chan journal.SessionRecord
	writerDone chan struct{}
	closed     bool
}

// Snapshot is a point-in-time copy of the machine for display. When the
// machine is idle, Phase holds the last phase run (empty before the first)
// and NextPhase the one Start would begin.
type Snapshot struct {
	State            State
	Phase            journal.Phase
	PlannedSeconds   int
	RemainingSeconds int
	Pauses           int
	TaskID           string
	FocusInCycle     int
	CyclesPerLong    int
	NextPhase        journal.Phase
}

// New returns an idle machine whose first phase is focus. The sink, planner
// and bus may each be nil; persistence, adaptive durations and events are
// then skipped respectively.
func New(cfg *config.Config, pl Planner, sink RecordSink, bus *event.Bus) *Machine {
	m := &Machine{
		cfg:        cfg,
		planner:    pl,
		sink:       sink,
		bus:        bus,
		state:      StateIdle,
		nextPhase:  journal.PhaseFocus,
		records:    make(chan journal.SessionRecord, recordQueueSize),
		writerDone: make(chan struct{}),
	}
	go m.writeRecords()
	return m
}

// Run starts the real-time tick loop. Calling Run on a running loop is a
// no-op. The loop only advances the countdown while the machine is running,
// so it can be left on across idle periods.
func (m *Machine) Run() {
	m.mu.Lock()
	if m.stopCh != nil {
		m.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	m.stopCh = stop
	m.mu.Unlock()

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.Tick()
			case <-stop:
				return
			}
		}
	}()
}

// Close stops the tick loop, drains the persist queue and waits for the
// writer to finish. The machine must not be used afterwards.
func (m *Machine) Close() {
	m.mu.Lock()
	if m.stopCh != nil {
		close(m.stopCh)
		m.stopCh = nil
	}
	alreadyClosed := m.closed
	m.closed = true
	m.mu.Unlock()

	if alreadyClosed {
		return
	}
	close(m.records)
	<-m.writerDone
}

// Start begins the next scheduled phase at its planned duration.
func (m *Machine) Start() error {
	return m.StartFor("", 0)
}

// StartFor begins a specific phase. An empty phase means the next scheduled
// one; seconds <= 0 means the planned duration for that phase. An explicit
// positive duration overrides the planner.
func (m *Machine) StartFor(phase journal.Phase, seconds int) error {
	if phase != "" && !phase.Valid() {
		return fmt.Errorf("unknown phase %q", phase)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateIdle {
		return &StateError{Op: "start", State: m.state}
	}
	if phase == "" {
		phase = m.nextPhase
	}
	planned := seconds
	if planned <= 0 {
		planned = m.planDuration(phase)
	}
	m.beginLocked(phase, planned, false)
	return nil
}

// Pause freezes the countdown and counts the interruption.
func (m *Machine) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateRunning {
		return &StateError{Op: "pause", State: m.state}
	}
	m.state = StatePaused
	m.pauses++
	m.publish(event.Paused{Phase: m.phase, RemainingSeconds: m.remaining})
	return nil
}

// Resume continues a paused countdown from its frozen value.
func (m *Machine) Resume() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StatePaused {
		return &StateError{Op: "resume", State: m.state}
	}
	m.state = StateRunning
	m.publish(event.Resumed{Phase: m.phase, RemainingSeconds: m.remaining})
	return nil
}

// Skip abandons the current phase and moves the sequence forward: the
// skipped phase counts as taken, so a skipped focus still advances toward
// the long break. The partial session is recorded as not completed.
func (m *Machine) Skip() error {
	return m.abandon("skip", true)
}

// Reset abandons the current phase without advancing the sequence; the same
// phase is offered again. The partial session is recorded as not completed.
func (m *Machine) Reset() error {
	return m.abandon("reset", false)
}

// SetTask attaches a task to sessions recorded from now on. An empty id
// clears the association.
func (m *Machine) SetTask(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.taskID = id
}

// Snapshot returns a copy of the current machine state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		State:            m.state,
		Phase:            m.phase,
		PlannedSeconds:   m.planned,
		RemainingSeconds: m.remaining,
		Pauses:           m.pauses,
		TaskID:           m.taskID,
		FocusInCycle:     m.focusInCycle,
		CyclesPerLong:    m.cfg.CyclesPerLongBreak,
		NextPhase:        m.nextPhase,
	}
}

// Tick advances the countdown by one second. Run calls it from the ticker;
// tests call it directly to step virtual time. A tick while not running is
// a no-op.
func (m *Machine) Tick() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateRunning {
		return
	}
	m.remaining--
	if m.remaining > 0 {
		m.publish(event.Tick{
			Phase:            m.phase,
			RemainingSeconds: m.remaining,
			PlannedSeconds:   m.planned,
		})
		return
	}
	m.completeLocked()
}

func (m *Machine) abandon(op string, skip bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateRunning && m.state != StatePaused {
		return &StateError{Op: op, State: m.state}
	}

	rec := m.recordLocked(false)
	m.persistLocked(rec)
	if m.planner != nil {
		m.planner.Observe(rec)
	}
	if skip {
		m.advanceCycleLocked(rec.Phase)
	} else {
		m.nextPhase = rec.Phase
	}
	m.state = StateIdle
	m.publish(event.SessionAbandoned{Record: rec, Skipped: skip})
	return nil
}

// completeLocked handles the countdown reaching zero: record, learn,
// advance the cycle and either auto-start the next phase or go idle.
func (m *Machine) completeLocked() {
	rec := m.recordLocked(true)
	m.persistLocked(rec)
	if m.planner != nil {
		m.planner.Observe(rec)
	}
	m.advanceCycleLocked(rec.Phase)
	m.publish(event.PhaseCompleted{Record: rec})

	if m.autoStart(rec.Phase) {
		next := m.nextPhase
		m.beginLocked(next, m.planDuration(next), true)
		return
	}
	m.state = StateIdle
}

func (m *Machine) beginLocked(phase journal.Phase, planned int, auto bool) {
	m.state = StateRunning
	m.phase = phase
	m.planned = planned
	m.remaining = planned
	m.pauses = 0
	m.startedAt = time.Now()
	m.publish(event.PhaseStarted{
		Phase:          phase,
		PlannedSeconds: planned,
		TaskID:         m.taskID,
		Auto:           auto,
	})
}

// advanceCycleLocked moves the sequence cursor past a taken phase. Every
// cycles_per_long_break-th focus earns a long break; the counter resets
// once the long break itself is taken.
func (m *Machine) advanceCycleLocked(phase journal.Phase) {
	if phase == journal.PhaseFocus {
		m.focusInCycle++
		if m.focusInCycle >= m.cfg.CyclesPerLongBreak {
			m.nextPhase = journal.PhaseLongBreak
		} else {
			m.nextPhase = journal.PhaseShortBreak
		}
		return
	}
	if phase == journal.PhaseLongBreak {
		m.focusInCycle = 0
	}
	m.nextPhase = journal.PhaseFocus
}

func (m *Machine) recordLocked(completed bool) journal.SessionRecord {
	actual := m.planned - m.remaining
	if completed {
		actual = m.planned
	}
	return journal.SessionRecord{
		Version:        journal.SchemaVersion,
		Phase:          m.phase,
		PlannedSeconds: m.planned,
		ActualSeconds:  actual,
		Completed:      completed,
		TaskID:         m.taskID,
		StartedAt:      m.startedAt,
		Pauses:         m.pauses,
	}
}

// persistLocked hands a record to the writer goroutine. The tick path never
// waits on I/O; if the queue is full the record is dropped with a warning.
func (m *Machine) persistLocked(rec journal.SessionRecord) {
	if m.closed {
		return
	}
	select {
	case m.records <- rec:
	default:
		m.warn("persist session", fmt.Errorf("record queue full, dropping %s record", rec.Phase))
	}
}

func (m *Machine) writeRecords() {
	defer close(m.writerDone)
	for rec := range m.records {
		if m.sink == nil {
			continue
		}
		if err := m.sink.Append(rec); err != nil {
			m.warn("persist session", err)
		}
	}
}

func (m *Machine) planDuration(phase journal.Phase) int {
	if m.planner != nil {
		return m.planner.PlanDuration(phase)
	}
	return m.cfg.Durations(phase).DefaultSeconds
}

func (m *Machine) autoStart(finished journal.Phase) bool {
	if finished == journal.PhaseFocus {
		return m.cfg.AutoStartBreaks
	}
	return m.cfg.AutoStartFocus
}

func (m *Machine) warn(op string, err error) {
	fmt.Fprintf(os.Stderr, "Warning: failed to %s: %v\n", op, err)
	if m.bus != nil {
		m.bus.Publish(event.Warning{Op: op, Err: err})
	}
}

func (m *Machine) publish(ev event.Event) {
	if m.bus != nil {
		m.bus.Publish(ev)
	}
}
