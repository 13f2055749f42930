package orchestrator

import (
	"errors"
	"log"

	"github.com/madhavkalra7/LegalEase/internal/agent"
	"github.com/madhavkalra7/LegalEase/internal/ws"
)

// Error types surfaced to the client in the error event's error_type
// field. Agent/browser/automation failures reuse the agent package's
// source names so the fatality policy can match on them.
const (
	errTypeMessage    = "message"
	errTypeChat       = "chat"
	errTypeScreenshot = "screenshot"
	errTypeAgent      = agent.SourceAgent
	errTypeAutomation = agent.SourceAutomation
)

// reportError is the single funnel for every failure in a session: it
// logs, records non-recoverable errors in the session state, emits a
// typed error event if the connection is still open, and triggers
// teardown when the error source is classified fatal. Returns whether
// teardown was triggered.
//
// Teardown runs on its own goroutine because reportError may be called
// from the run goroutine that Close waits on.
func (ls *liveSession) reportError(errType string, err error, recoverable bool) bool {
	log.Printf("Session %s %s error: %v", ls.sess.ID(), errType, err)

	if !recoverable {
		ls.sess.Fail(err.Error())
	}

	ev := ls.event(ws.EventError, err.Error())
	ev.ErrorType = errType
	ev.Recoverable = recoverable
	if !recoverable {
		ev.Details = map[string]string{"source": errType}
	}
	if serr := ls.send(ev); serr != nil && !errors.Is(serr, ws.ErrChannelClosed) {
		log.Printf("Session %s failed to send error event: %v", ls.sess.ID(), serr)
	}

	fatal := !recoverable && ls.cfg.IsFatalSource(errType)
	if fatal {
		go ls.Close("unrecoverable " + errType + " error")
	}
	return fatal
}
