package ws

import (
	"github.com/madhavkalra7/LegalEase/internal/session"
)

// EventType classifies outbound events.
type EventType string

const (
	EventConnection   EventType = "connection"
	EventStatusUpdate EventType = "status_update"
	EventTyping       EventType = "typing"
	EventChatResponse EventType = "chat_response"
	EventStepStart    EventType = "step_start"
	EventStepComplete EventType = "step_complete"
	EventTaskComplete EventType = "task_complete"
	EventScreenshot   EventType = "screenshot"
	EventError        EventType = "error"
)

// Event is the outbound message envelope. Every event carries the
// session's current state alongside type-specific fields.
type Event struct {
	Type      EventType      `json:"type"`
	Message   string         `json:"message"`
	Timestamp string         `json:"timestamp"`
	SessionID string         `json:"session_id"`
	Status    session.Status `json:"status"`

	CurrentTask string `json:"current_task,omitempty"`
	StepCount   int    `json:"step_count"`
	CurrentStep string `json:"current_step,omitempty"`
	Error       string `json:"error,omitempty"`

	// Type-specific fields.
	Capabilities []string          `json:"capabilities,omitempty"`
	URL          string            `json:"url,omitempty"`
	Title        string            `json:"title,omitempty"`
	Screenshot   string            `json:"screenshot,omitempty"`
	Step         string            `json:"step,omitempty"`
	Action       string            `json:"action,omitempty"`
	Result       string            `json:"result,omitempty"`
	Intent       string            `json:"intent,omitempty"`
	Confidence   float64           `json:"confidence,omitempty"`
	ErrorType    string            `json:"error_type,omitempty"`
	Recoverable  bool              `json:"recoverable,omitempty"`
	Details      map[string]string `json:"details,omitempty"`
}

// Inbound message types.
const (
	MsgChatMessage = "chat_message"
	MsgStopTask    = "stop_task"
)

// ClientMessage is the inbound message envelope.
type ClientMessage struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}
