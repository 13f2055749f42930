package session

import "testing"

func TestHistorySystemPromptSeed(t *testing.T) {
	h := NewHistory("be helpful")
	msgs := h.Messages()
	if len(msgs) != 1 || msgs[0].Role != RoleSystem || msgs[0].Content != "be helpful" {
		t.Fatalf("seeded history = %+v", msgs)
	}

	if got := NewHistory("").Len(); got != 0 {
		t.Errorf("empty prompt history len = %d, want 0", got)
	}
}

func TestHistoryAppendOrder(t *testing.T) {
	h := NewHistory("sys")
	h.Append(RoleUser, "hi")
	h.Append(RoleAssistant, "hello")

	msgs := h.Messages()
	want := []Message{
		{RoleSystem, "sys"},
		{RoleUser, "hi"},
		{RoleAssistant, "hello"},
	}
	if len(msgs) != len(want) {
		t.Fatalf("len = %d, want %d", len(msgs), len(want))
	}
	for i := range want {
		if msgs[i] != want[i] {
			t.Errorf("messages[%d] = %+v, want %+v", i, msgs[i], want[i])
		}
	}

	// Messages returns a copy; mutating it must not affect the history.
	msgs[0].Content = "mutated"
	if h.Messages()[0].Content != "sys" {
		t.Error("Messages returned shared backing storage")
	}
}
