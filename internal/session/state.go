package session

import (
	"fmt"
	"sync"
	"time"
)

// Session holds the mutable state of one client session. It is owned
// exclusively by the orchestrator that created it; other goroutines
// (telemetry stream, HTTP handlers) read it through Snapshot.
type Session struct {
	id string

	mu           sync.Mutex
	status       Status
	currentTask  string
	stepCount    int
	currentStep  string
	lastError    string
	connectedAt  time.Time
	lastActivity time.Time
}

// State is a point-in-time copy of a Session, safe to retain and
// serialize.
type State struct {
	ID             string    `json:"id"`
	Status         Status    `json:"status"`
	CurrentTask    string    `json:"current_task,omitempty"`
	StepCount      int       `json:"step_count"`
	CurrentStep    string    `json:"current_step,omitempty"`
	LastError      string    `json:"error,omitempty"`
	ConnectedAt    time.Time `json:"connected_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

func New(id string) *Session {
	now := time.Now()
	return &Session{
		id:           id,
		status:       Connected,
		connectedAt:  now,
		lastActivity: now,
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) SetStatus(st Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = st
}

// Touch records inbound activity.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActivity = time.Now()
}

// BeginTask transitions the session to Running for a new task,
// resetting the step counter, step label, and last error.
func (s *Session) BeginTask(task string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = Running
	s.currentTask = task
	s.stepCount = 0
	s.currentStep = ""
	s.lastError = ""
}

// NextStep increments the step counter, updates the step label, and
// returns the new count.
func (s *Session) NextStep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stepCount++
	s.currentStep = fmt.Sprintf("step %d", s.stepCount)
	return s.stepCount
}

// CompleteTask marks the current task finished.
func (s *Session) CompleteTask() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = Completed
}

// Fail records an error message and transitions the session to Errored.
func (s *Session) Fail(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = Errored
	s.lastError = msg
}

func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		ID:             s.id,
		Status:         s.status,
		CurrentTask:    s.currentTask,
		StepCount:      s.stepCount,
		CurrentStep:    s.currentStep,
		LastError:      s.lastError,
		ConnectedAt:    s.connectedAt,
		LastActivityAt: s.lastActivity,
	}
}
