// Package agent defines the boundary to the browser automation agent.
// The agent itself is an external collaborator; this package only
// specifies the interface the orchestrator drives it through.
package agent

import (
	"context"
	"errors"
)

// ErrNotReady is returned by the best-effort page accessors before the
// agent's page context exists. Callers treat it as "not yet ready",
// never as a failure.
var ErrNotReady = errors.New("agent: page context not ready")

// StepObserver receives step lifecycle callbacks during a run. Both
// methods execute on the run's call stack and must not fail: an
// implementation that hits an internal error logs it and returns.
type StepObserver interface {
	OnStepStart()
	OnStepEnd()
}

// Agent is a live automation agent bound to one session. It is owned
// exclusively by that session's orchestrator and never shared.
type Agent interface {
	// Run executes a task to completion, invoking the observer around
	// each step. It returns the agent's final result text, or an error
	// (typically a *RunError) if the task failed. Cancellation of ctx
	// aborts the run.
	Run(ctx context.Context, task string, obs StepObserver) (string, error)

	// Stop asks the agent to abandon the current run. The in-flight
	// Run call returns once the agent has wound down.
	Stop()

	// Close releases the agent and its browser resources.
	Close() error

	// Best-effort page accessors. Before the underlying page exists
	// they return ErrNotReady.
	PageURL() (string, error)
	PageTitle() (string, error)
	LastAction() (string, error)

	// Screenshot captures the current page as encoded JPEG bytes.
	Screenshot() ([]byte, error)
}

// Factory creates agents. Implementations carry the driver-level
// configuration (browser flags, LLM wiring, screenshot quality).
type Factory interface {
	// Initialize starts an agent for a session. Failure is fatal for
	// the session and is reported as a *InitError.
	Initialize(ctx context.Context, sessionID string) (Agent, error)
}
