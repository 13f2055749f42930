package agent

import (
	"errors"
	"fmt"
)

// Error sources, used to decide whether a failed run tears the session
// down (see config.AutomationConfig.FatalErrorSources).
const (
	SourceAgent      = "agent"
	SourceBrowser    = "browser"
	SourceAutomation = "automation"
)

// InitError reports a failed agent initialization. Always fatal for
// the session.
type InitError struct {
	Err error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("failed to initialize automation agent: %v", e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// RunError reports a failed automation run. Source identifies the
// subsystem the failure originated from; SourceAutomation failures
// leave the session usable, while agent/browser failures are fatal
// under the default policy.
type RunError struct {
	Source string
	Err    error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("automation run failed (%s): %v", e.Source, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// RunSource extracts the error source from err, defaulting to
// SourceAutomation for errors that don't carry one.
func RunSource(err error) string {
	var re *RunError
	if errors.As(err, &re) {
		return re.Source
	}
	return SourceAutomation
}
