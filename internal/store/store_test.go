package store

import (
	"errors"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestTaskRoundTrip(t *testing.T) {
	s := openTestStore(t)

	created, err := s.CreateTask("write report", 4)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if created.ID == "" {
		t.Fatal("CreateTask returned empty id")
	}

	got, err := s.GetTask(created.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got == nil {
		t.Fatal("GetTask returned nil for existing task")
	}
	if got.Title != "write report" {
		t.Errorf("Title = %q, want %q", got.Title, "write report")
	}
	if got.EstimatedPomodoros != 4 {
		t.Errorf("EstimatedPomodoros = %d, want 4", got.EstimatedPomodoros)
	}
	if got.Done {
		t.Error("new task should not be done")
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt was not persisted")
	}
}

func TestGetTaskMissingReturnsNil(t *testing.T) {
	s := openTestStore(t)

	got, err := s.GetTask("no-such-id")
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got != nil {
		t.Errorf("GetTask = %+v, want nil", got)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	s := openTestStore(t)

	cases := []struct {
		name     string
		title    string
		estimate int
	}{
		{"empty title", "", 1},
		{"blank title", "   ", 1},
		{"zero estimate", "ok", 0},
		{"negative estimate", "ok", -2},
	}
	for _, tc := range cases {
		_, err := s.CreateTask(tc.title, tc.estimate)
		if err == nil {
			t.Errorf("%s: CreateTask succeeded, want error", tc.name)
			continue
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: error %v is not a ValidationError", tc.name, err)
		}
	}

	tasks, err := s.ListTasks()
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("len(tasks) = %d, want 0 (rejected input must not be applied)", len(tasks))
	}
}

func TestTaskDoneAndDelete(t *testing.T) {
	s := openTestStore(t)

	created, err := s.CreateTask("deep work", 2)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if err := s.SetTaskDone(created.ID, true); err != nil {
		t.Fatalf("SetTaskDone: %v", err)
	}
	got, err := s.GetTask(created.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if !got.Done {
		t.Error("task should be done")
	}

	if err := s.DeleteTask(created.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	got, err = s.GetTask(created.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got != nil {
		t.Error("task still present after delete")
	}

	if err := s.DeleteTask(created.ID); err == nil {
		t.Error("deleting a missing task should fail")
	}
}

func TestResolveTaskByPrefix(t *testing.T) {
	s := openTestStore(t)

	created, err := s.CreateTask("resolve me", 1)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	got, err := s.ResolveTask(created.ID[:8])
	if err != nil {
		t.Fatalf("ResolveTask: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("ResolveTask id = %s, want %s", got.ID, created.ID)
	}

	if _, err := s.ResolveTask("zzzz-no-match"); err == nil {
		t.Error("ResolveTask with unknown prefix should fail")
	}
}

func TestAlarmRoundTrip(t *testing.T) {
	s := openTestStore(t)

	created, err := s.CreateAlarm("07:30", "stand up", "chime", true)
	if err != nil {
		t.Fatalf("CreateAlarm: %v", err)
	}

	got, err := s.GetAlarm(created.ID)
	if err != nil {
		t.Fatalf("GetAlarm: %v", err)
	}
	if got == nil {
		t.Fatal("GetAlarm returned nil for existing alarm")
	}
	if got.TimeOfDay != "07:30" {
		t.Errorf("TimeOfDay = %q, want %q", got.TimeOfDay, "07:30")
	}
	if got.Label != "stand up" {
		t.Errorf("Label = %q, want %q", got.Label, "stand up")
	}
	if got.SoundRef != "chime" {
		t.Errorf("SoundRef = %q, want %q", got.SoundRef, "chime")
	}
	if !got.Enabled {
		t.Error("new alarm should be enabled")
	}
	if !got.Repeat {
		t.Error("Repeat = false, want true")
	}
	if got.Seconds() {
		t.Error("HH:MM alarm should not report seconds precision")
	}
}

func TestCreateAlarmNormalizesAndValidatesTime(t *testing.T) {
	s := openTestStore(t)

	created, err := s.CreateAlarm("7:05:09", "", "", false)
	if err != nil {
		t.Fatalf("CreateAlarm: %v", err)
	}
	if created.TimeOfDay != "07:05:09" {
		t.Errorf("TimeOfDay = %q, want %q", created.TimeOfDay, "07:05:09")
	}
	if !created.Seconds() {
		t.Error("HH:MM:SS alarm should report seconds precision")
	}
	if created.Repeat {
		t.Error("Repeat = true, want false")
	}

	for _, bad := range []string{"25:00", "12:61", "noon", "12", "12:00:61"} {
		if _, err := s.CreateAlarm(bad, "", "", true); err == nil {
			t.Errorf("CreateAlarm(%q) succeeded, want error", bad)
		}
	}
}

func TestAlarmEnableDisable(t *testing.T) {
	s := openTestStore(t)

	created, err := s.CreateAlarm("06:00", "", "", true)
	if err != nil {
		t.Fatalf("CreateAlarm: %v", err)
	}

	if err := s.SetAlarmEnabled(created.ID, false); err != nil {
		t.Fatalf("SetAlarmEnabled: %v", err)
	}
	got, err := s.GetAlarm(created.ID)
	if err != nil {
		t.Fatalf("GetAlarm: %v", err)
	}
	if got.Enabled {
		t.Error("alarm should be disabled")
	}

	// Disabled alarms stay listed.
	alarms, err := s.ListAlarms()
	if err != nil {
		t.Fatalf("ListAlarms: %v", err)
	}
	if len(alarms) != 1 {
		t.Errorf("len(alarms) = %d, want 1", len(alarms))
	}
}

func TestListAlarmsOrdersByTime(t *testing.T) {
	s := openTestStore(t)

	for _, tod := range []string{"22:00", "06:15", "12:30"} {
		if _, err := s.CreateAlarm(tod, "", "", true); err != nil {
			t.Fatalf("CreateAlarm(%s): %v", tod, err)
		}
	}

	alarms, err := s.ListAlarms()
	if err != nil {
		t.Fatalf("ListAlarms: %v", err)
	}
	want := []string{"06:15", "12:30", "22:00"}
	for i, w := range want {
		if alarms[i].TimeOfDay != w {
			t.Errorf("alarms[%d].TimeOfDay = %s, want %s", i, alarms[i].TimeOfDay, w)
		}
	}
}

func TestUpdateAlarm(t *testing.T) {
	s := openTestStore(t)

	created, err := s.CreateAlarm("09:00", "old", "", true)
	if err != nil {
		t.Fatalf("CreateAlarm: %v", err)
	}

	created.TimeOfDay = "09:30"
	created.Label = "new"
	created.Repeat = false
	if err := s.UpdateAlarm(*created); err != nil {
		t.Fatalf("UpdateAlarm: %v", err)
	}

	got, err := s.GetAlarm(created.ID)
	if err != nil {
		t.Fatalf("GetAlarm: %v", err)
	}
	if got.TimeOfDay != "09:30" || got.Label != "new" || got.Repeat {
		t.Errorf("alarm after update = %+v", got)
	}
}
