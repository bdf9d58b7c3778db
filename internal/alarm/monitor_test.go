package alarm

import (
	"testing"
	"time"

	"github.com/tomo-dev/tomo/internal/event"
	"github.com/tomo-dev/tomo/internal/store"
)

func mkAlarm(id, timeOfDay string, repeat bool) store.Alarm {
	return store.Alarm{
		ID:        id,
		TimeOfDay: timeOfDay,
		Label:     "test " + id,
		Enabled:   true,
		Repeat:    repeat,
	}
}

func at(hour, min, sec int) time.Time {
	return time.Date(2026, 3, 14, hour, min, sec, 0, time.Local)
}

func TestMinuteAlarmFiresOncePerWindow(t *testing.T) {
	m := NewMonitor(nil)
	m.SetAlarms([]store.Alarm{mkAlarm("a1", "07:30", true)})

	if got := len(m.CheckAndFire(at(7, 29, 59))); got != 0 {
		t.Errorf("fired %d alarms before the window, want 0", got)
	}
	if got := len(m.CheckAndFire(at(7, 30, 0))); got != 1 {
		t.Errorf("fired %d alarms at window start, want 1", got)
	}
	// Every further poll inside the same minute is a repeat.
	if got := len(m.CheckAndFire(at(7, 30, 0))); got != 0 {
		t.Errorf("fired %d alarms on repeated poll, want 0", got)
	}
	if got := len(m.CheckAndFire(at(7, 30, 45))); got != 0 {
		t.Errorf("fired %d alarms later in the minute, want 0", got)
	}
	if got := len(m.CheckAndFire(at(7, 31, 0))); got != 0 {
		t.Errorf("fired %d alarms after the window, want 0", got)
	}
}

func TestRepeatingAlarmFiresAgainNextDay(t *testing.T) {
	m := NewMonitor(nil)
	m.SetAlarms([]store.Alarm{mkAlarm("a1", "07:30", true)})

	if got := len(m.CheckAndFire(at(7, 30, 0))); got != 1 {
		t.Fatalf("fired %d alarms on day one, want 1", got)
	}
	nextDay := at(7, 30, 10).AddDate(0, 0, 1)
	if got := len(m.CheckAndFire(nextDay)); got != 1 {
		t.Errorf("fired %d alarms on day two, want 1", got)
	}
}

func TestSecondPrecisionWindowIsOneSecond(t *testing.T) {
	m := NewMonitor(nil)
	m.SetAlarms([]store.Alarm{mkAlarm("a1", "07:30:15", true)})

	if got := len(m.CheckAndFire(at(7, 30, 14))); got != 0 {
		t.Errorf("fired %d alarms one second early, want 0", got)
	}
	if got := len(m.CheckAndFire(at(7, 30, 15))); got != 1 {
		t.Errorf("fired %d alarms on the exact second, want 1", got)
	}
	if got := len(m.CheckAndFire(at(7, 30, 15))); got != 0 {
		t.Errorf("fired %d alarms on a duplicate poll, want 0", got)
	}
	if got := len(m.CheckAndFire(at(7, 30, 16))); got != 0 {
		t.Errorf("fired %d alarms one second late, want 0", got)
	}
}

func TestDisabledAlarmsAreFilteredOut(t *testing.T) {
	m := NewMonitor(nil)
	a := mkAlarm("a1", "07:30", true)
	a.Enabled = false
	m.SetAlarms([]store.Alarm{a})

	if got := len(m.CheckAndFire(at(7, 30, 0))); got != 0 {
		t.Errorf("fired %d disabled alarms, want 0", got)
	}
}

func TestOneShotAlarmLeavesSnapshotAfterFiring(t *testing.T) {
	m := NewMonitor(nil)
	m.SetAlarms([]store.Alarm{mkAlarm("a1", "07:30", false)})

	if got := len(m.CheckAndFire(at(7, 30, 0))); got != 1 {
		t.Fatalf("fired %d alarms, want 1", got)
	}
	nextDay := at(7, 30, 0).AddDate(0, 0, 1)
	if got := len(m.CheckAndFire(nextDay)); got != 0 {
		t.Errorf("one-shot alarm fired %d times after its shot, want 0", got)
	}

	// Reloading the snapshot arms it again.
	m.SetAlarms([]store.Alarm{mkAlarm("a1", "07:30", false)})
	dayThree := at(7, 30, 0).AddDate(0, 0, 2)
	if got := len(m.CheckAndFire(dayThree)); got != 1 {
		t.Errorf("rearmed one-shot fired %d times, want 1", got)
	}
}

func TestCheckAndFirePublishesEvents(t *testing.T) {
	bus := event.NewBus()
	defer bus.Close()
	sub := bus.Subscribe()

	m := NewMonitor(bus)
	m.SetAlarms([]store.Alarm{mkAlarm("a1", "07:30", false)})
	now := at(7, 30, 0)
	m.CheckAndFire(now)

	select {
	case ev := <-sub:
		fired, ok := ev.(event.AlarmFired)
		if !ok {
			t.Fatalf("event = %T, want AlarmFired", ev)
		}
		if fired.AlarmID != "a1" {
			t.Errorf("AlarmID = %s, want a1", fired.AlarmID)
		}
		if !fired.At.Equal(now) {
			t.Errorf("At = %v, want %v", fired.At, now)
		}
		if !fired.OneShot {
			t.Error("OneShot = false, want true for a non-repeating alarm")
		}
	default:
		t.Fatal("no event published")
	}
}

func TestMultipleAlarmsShareAWindow(t *testing.T) {
	m := NewMonitor(nil)
	m.SetAlarms([]store.Alarm{
		mkAlarm("a1", "07:30", true),
		mkAlarm("a2", "07:30", true),
		mkAlarm("a3", "08:00", true),
	})

	fired := m.CheckAndFire(at(7, 30, 0))
	if len(fired) != 2 {
		t.Fatalf("fired %d alarms, want 2", len(fired))
	}
	ids := map[string]bool{}
	for _, a := range fired {
		ids[a.ID] = true
	}
	if !ids["a1"] || !ids["a2"] {
		t.Errorf("fired ids = %v, want a1 and a2", ids)
	}
}

func TestStartAndStopAreIdempotent(t *testing.T) {
	m := NewMonitor(nil)
	m.Start()
	m.Start()
	m.Stop()
	m.Stop()
}
