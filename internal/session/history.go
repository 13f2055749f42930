package session

import "sync"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a session's conversation with the reply
// generator.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// History accumulates the per-session conversation supplied to the
// reply generator on each call. The orchestrator appends from the
// command loop; Messages returns a copy safe to hand to collaborators.
type History struct {
	mu       sync.Mutex
	messages []Message
}

// NewHistory creates a history seeded with a system prompt, if any.
func NewHistory(systemPrompt string) *History {
	h := &History{}
	if systemPrompt != "" {
		h.messages = append(h.messages, Message{Role: RoleSystem, Content: systemPrompt})
	}
	return h
}

func (h *History) Append(role, content string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, Message{Role: role, Content: content})
}

func (h *History) Messages() []Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.messages)
}
