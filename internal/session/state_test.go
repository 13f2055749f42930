package session

import (
	"encoding/json"
	"testing"
)

func TestStatusJSON(t *testing.T) {
	tests := []struct {
		status Status
		name   string
	}{
		{Connected, "connected"},
		{Running, "running"},
		{Completed, "completed"},
		{Stopped, "stopped"},
		{Errored, "error"},
	}

	for _, tt := range tests {
		data, err := json.Marshal(tt.status)
		if err != nil {
			t.Fatalf("marshal %v: %v", tt.status, err)
		}
		if string(data) != `"`+tt.name+`"` {
			t.Errorf("marshal %v = %s, want %q", tt.status, data, tt.name)
		}

		var back Status
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if back != tt.status {
			t.Errorf("round trip %v = %v", tt.status, back)
		}
	}
}

func TestSessionTaskLifecycle(t *testing.T) {
	s := New("s1")

	if s.Status() != Connected {
		t.Fatalf("initial status = %v, want connected", s.Status())
	}

	s.BeginTask("file my taxes")
	snap := s.Snapshot()
	if snap.Status != Running {
		t.Errorf("status after BeginTask = %v, want running", snap.Status)
	}
	if snap.CurrentTask != "file my taxes" {
		t.Errorf("current task = %q", snap.CurrentTask)
	}
	if snap.StepCount != 0 {
		t.Errorf("step count after BeginTask = %d, want 0", snap.StepCount)
	}

	if n := s.NextStep(); n != 1 {
		t.Errorf("first NextStep = %d, want 1", n)
	}
	if n := s.NextStep(); n != 2 {
		t.Errorf("second NextStep = %d, want 2", n)
	}
	if snap := s.Snapshot(); snap.CurrentStep != "step 2" {
		t.Errorf("current step = %q, want %q", snap.CurrentStep, "step 2")
	}

	s.CompleteTask()
	if s.Status() != Completed {
		t.Errorf("status after CompleteTask = %v, want completed", s.Status())
	}

	// A new task resets progress and errors from the previous one.
	s.Fail("boom")
	s.BeginTask("again")
	snap = s.Snapshot()
	if snap.Status != Running || snap.StepCount != 0 || snap.LastError != "" || snap.CurrentStep != "" {
		t.Errorf("BeginTask did not reset state: %+v", snap)
	}
}

func TestSessionFail(t *testing.T) {
	s := New("s1")
	s.Fail("agent crashed")

	snap := s.Snapshot()
	if snap.Status != Errored {
		t.Errorf("status = %v, want error", snap.Status)
	}
	if snap.LastError != "agent crashed" {
		t.Errorf("last error = %q", snap.LastError)
	}
}

func TestSessionTouch(t *testing.T) {
	s := New("s1")
	before := s.Snapshot().LastActivityAt
	s.Touch()
	after := s.Snapshot().LastActivityAt
	if after.Before(before) {
		t.Error("Touch moved last activity backwards")
	}
}
