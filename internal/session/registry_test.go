package session

import (
	"fmt"
	"sync"
	"testing"
)

// testHandle is a minimal Handle for registry tests.
type testHandle struct {
	sess   *Session
	mu     sync.Mutex
	closed int
}

func newTestHandle(id string) *testHandle {
	return &testHandle{sess: New(id)}
}

func (h *testHandle) ID() string      { return h.sess.ID() }
func (h *testHandle) Snapshot() State { return h.sess.Snapshot() }

func (h *testHandle) Close(reason string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed++
}

func TestRegistryRegisterLookupRemove(t *testing.T) {
	r := NewRegistry()
	h := newTestHandle("s1")

	r.Register(h)
	if r.Count() != 1 {
		t.Fatalf("count = %d, want 1", r.Count())
	}

	got, ok := r.Lookup("s1")
	if !ok || got.ID() != "s1" {
		t.Fatalf("Lookup(s1) = %v, %v", got, ok)
	}

	if _, ok := r.Lookup("missing"); ok {
		t.Error("Lookup(missing) found a session")
	}

	r.Remove("s1")
	if r.Count() != 0 {
		t.Errorf("count after remove = %d, want 0", r.Count())
	}

	// Removing again is a no-op.
	r.Remove("s1")
	if r.Count() != 0 {
		t.Errorf("count after double remove = %d", r.Count())
	}
}

func TestRegistryRunningCount(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 3; i++ {
		r.Register(newTestHandle(fmt.Sprintf("s%d", i)))
	}

	h, _ := r.Lookup("s1")
	h.(*testHandle).sess.BeginTask("work")

	if got := r.RunningCount(); got != 1 {
		t.Errorf("running count = %d, want 1", got)
	}
	if got := r.Count(); got != 3 {
		t.Errorf("count = %d, want 3", got)
	}
}

func TestRegistrySnapshots(t *testing.T) {
	r := NewRegistry()
	r.Register(newTestHandle("a"))
	r.Register(newTestHandle("b"))

	snaps := r.Snapshots()
	if len(snaps) != 2 {
		t.Fatalf("snapshots = %d entries, want 2", len(snaps))
	}
	seen := map[string]bool{}
	for _, s := range snaps {
		seen[s.ID] = true
	}
	if !seen["a"] || !seen["b"] {
		t.Errorf("snapshot IDs = %v", seen)
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s%d", i)
			r.Register(newTestHandle(id))
			r.Lookup(id)
			r.Count()
			r.Snapshots()
			if i%2 == 0 {
				r.Remove(id)
			}
		}(i)
	}
	wg.Wait()

	if got := r.Count(); got != 10 {
		t.Errorf("count = %d, want 10", got)
	}
}
