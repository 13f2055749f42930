package session

import "encoding/json"

// Status is the lifecycle state of a session. The only initial state is
// Connected; Errored is reachable from anywhere; Running may be entered
// once per task from Connected, Completed, or Stopped.
type Status int

const (
	Connected Status = iota
	Running
	Completed
	Stopped
	Errored
)

var statusNames = map[Status]string{
	Connected: "connected",
	Running:   "running",
	Completed: "completed",
	Stopped:   "stopped",
	Errored:   "error",
}

var statusFromName = map[string]Status{
	"connected": Connected,
	"running":   Running,
	"completed": Completed,
	"stopped":   Stopped,
	"error":     Errored,
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return "unknown"
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	if v, ok := statusFromName[name]; ok {
		*s = v
	}
	return nil
}
