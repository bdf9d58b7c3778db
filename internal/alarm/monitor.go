// Package alarm polls the wall clock and fires configured alarms. The
// monitor runs on its own ticker, independent of any session countdown, so
// alarms fire whether or not a timer is running.
package alarm

import (
	"sync"
	"time"

	"github.com/tomo-dev/tomo/internal/event"
	"github.com/tomo-dev/tomo/internal/store"
)

// pollInterval is how often the monitor compares the clock against its
// alarms. One second keeps second-precision alarms honest.
const pollInterval = time.Second

// Monitor watches an in-memory snapshot of enabled alarms and publishes
// AlarmFired events on match. Each alarm fires at most once per matching
// window: a calendar minute for HH:MM alarms, a single second for HH:MM:SS.
// The firing memory lives here, not in the store, so a poll never touches
// disk.
type Monitor struct {
	mu     sync.Mutex
	alarms []store.Alarm
	fired  map[string]string // alarm ID -> window token of the last fire
	bus    *event.Bus
	stopCh chan struct{}
}

// NewMonitor returns a monitor with no alarms loaded. Call SetAlarms to
// seed it and after every alarm change in the store.
func NewMonitor(bus *event.Bus) *Monitor {
	return &Monitor{
		fired: make(map[string]string),
		bus:   bus,
	}
}

// SetAlarms replaces the monitor's snapshot. Disabled alarms are filtered
// out here so the poll loop only ever scans live ones. Firing memory for
// alarms no longer present is pruned.
func (m *Monitor) SetAlarms(alarms []store.Alarm) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make([]store.Alarm, 0, len(alarms))
	present := make(map[string]struct{}, len(alarms))
	for _, a := range alarms {
		if !a.Enabled {
			continue
		}
		next = append(next, a)
		present[a.ID] = struct{}{}
	}
	m.alarms = next

	for id := range m.fired {
		if _, ok := present[id]; !ok {
			delete(m.fired, id)
		}
	}
}

// Start launches the poll loop. Calling Start on a running monitor is a
// no-op.
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.stopCh != nil {
		m.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	m.stopCh = stop
	m.mu.Unlock()

	go func() {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.CheckAndFire(time.Now())
			case <-stop:
				return
			}
		}
	}()
}

// Stop halts the poll loop. Safe to call more than once.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopCh == nil {
		return
	}
	close(m.stopCh)
	m.stopCh = nil
}

// CheckAndFire compares now against the snapshot and publishes an
// AlarmFired event for every alarm whose window matches and has not fired
// in that window yet. One-shot alarms are dropped from the snapshot after
// firing; the event's OneShot flag tells the consumer to disable them in
// the store. The fired alarms are returned for callers that want them.
func (m *Monitor) CheckAndFire(now time.Time) []store.Alarm {
	m.mu.Lock()
	var fired []store.Alarm
	keep := make([]store.Alarm, 0, len(m.alarms))
	for _, a := range m.alarms {
		token, ok := matchWindow(a, now)
		if !ok || m.fired[a.ID] == token {
			keep = append(keep, a)
			continue
		}
		m.fired[a.ID] = token
		fired = append(fired, a)
		if a.Repeat {
			keep = append(keep, a)
		}
	}
	m.alarms = keep
	m.mu.Unlock()

	if m.bus != nil {
		for _, a := range fired {
			m.bus.Publish(event.AlarmFired{
				AlarmID: a.ID,
				Label:   a.Label,
				At:      now,
				OneShot: !a.Repeat,
			})
		}
	}
	return fired
}

// matchWindow reports whether now falls in the alarm's firing window and
// returns the token identifying that window. Tokens include the date so a
// repeating alarm fires again the next day.
func matchWindow(a store.Alarm, now time.Time) (string, bool) {
	if a.Seconds() {
		if now.Format("15:04:05") != a.TimeOfDay {
			return "", false
		}
		return now.Format("2006-01-02 15:04:05"), true
	}
	if now.Format("15:04") != a.TimeOfDay {
		return "", false
	}
	return now.Format("2006-01-02 15:04"), true
}
