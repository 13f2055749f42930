package session

import "sync"

// Handle is the registry's view of a live session. Implemented by the
// orchestrator; the registry references sessions, it does not own them.
type Handle interface {
	ID() string
	Snapshot() State
	// Close tears the session down. Idempotent.
	Close(reason string)
}

// Registry is the process-wide table of active sessions. It is the only
// structure mutated by more than one session concurrently.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]Handle
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]Handle),
	}
}

func (r *Registry) Register(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[h.ID()] = h
}

func (r *Registry) Lookup(id string) (Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.sessions[id]
	return h, ok
}

// Remove deregisters a session. Removing an absent ID is a no-op since
// teardown may be triggered from more than one path.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// RunningCount returns the number of sessions with an automation task
// in flight.
func (r *Registry) RunningCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, h := range r.sessions {
		if h.Snapshot().Status == Running {
			count++
		}
	}
	return count
}

// Snapshots returns a copy of every registered session's state.
func (r *Registry) Snapshots() []State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]State, 0, len(r.sessions))
	for _, h := range r.sessions {
		result = append(result, h.Snapshot())
	}
	return result
}

// All returns the registered handles, for shutdown paths that need to
// close every live session.
func (r *Registry) All() []Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]Handle, 0, len(r.sessions))
	for _, h := range r.sessions {
		result = append(result, h)
	}
	return result
}
