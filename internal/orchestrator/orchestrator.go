// Package orchestrator owns the lifecycle of one client session: the
// state machine, the command loop, the telemetry stream, and teardown
// ordering. One orchestrator goroutine and one telemetry goroutine run
// per session; everything they emit is serialized through the session's
// event channel.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/madhavkalra7/LegalEase/internal/agent"
	"github.com/madhavkalra7/LegalEase/internal/config"
	"github.com/madhavkalra7/LegalEase/internal/intent"
	"github.com/madhavkalra7/LegalEase/internal/session"
	"github.com/madhavkalra7/LegalEase/internal/ws"
)

// ReplyGenerator produces the assistant's next chat turn from the
// session's conversation history.
type ReplyGenerator interface {
	Reply(ctx context.Context, history []session.Message) (string, error)
}

type Orchestrator struct {
	cfg      *config.Config
	registry *session.Registry
	agents   agent.Factory
	replies  ReplyGenerator
}

func New(cfg *config.Config, registry *session.Registry, agents agent.Factory, replies ReplyGenerator) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		registry: registry,
		agents:   agents,
		replies:  replies,
	}
}

// HandleSession runs a full session lifecycle over an upgraded
// connection and blocks until the session is torn down.
func (o *Orchestrator) HandleSession(conn *websocket.Conn) {
	ls := &liveSession{
		cfg:           o.cfg,
		registry:      o.registry,
		replies:       o.replies,
		sess:          session.New(uuid.NewString()),
		ch:            ws.NewEventChannel(conn),
		history:       session.NewHistory(o.cfg.LLM.SystemPrompt),
		telemetryDone: make(chan struct{}),
	}
	ls.run(o.agents)
}

// liveSession is one active session. It implements session.Handle and
// agent.StepObserver.
type liveSession struct {
	cfg      *config.Config
	registry *session.Registry
	replies  ReplyGenerator

	sess    *session.Session
	ch      *ws.EventChannel
	agent   agent.Agent
	history *session.History

	telemetryCancel context.CancelFunc
	telemetryDone   chan struct{}

	runMu     sync.Mutex
	runActive bool
	runWG     sync.WaitGroup

	// stopMu serializes the stop transition against step and outcome
	// emission: a step callback that saw the session Running sends its
	// event before the stop acknowledgment, and one that runs after the
	// flip is suppressed. Without it a callback could pass its status
	// check, lose the race to handleStop, and put a step event on the
	// wire after "Task stopped by user".
	stopMu sync.Mutex

	closeOnce sync.Once
}

func (ls *liveSession) ID() string              { return ls.sess.ID() }
func (ls *liveSession) Snapshot() session.State { return ls.sess.Snapshot() }

func (ls *liveSession) run(factory agent.Factory) {
	id := ls.sess.ID()
	log.Printf("New session: %s", id)

	ls.registry.Register(ls)
	defer ls.Close("connection closed")

	initCtx, cancel := context.WithTimeout(context.Background(), ls.cfg.Automation.InitTimeout)
	ag, err := factory.Initialize(initCtx, id)
	cancel()
	if err != nil {
		// Initialization failure is always fatal: report, then let the
		// deferred Close tear the session down.
		ls.reportError(errTypeAgent, &agent.InitError{Err: err}, false)
		return
	}
	ls.agent = ag

	ev := ls.event(ws.EventConnection, "Connected to automation service")
	ev.Capabilities = ls.cfg.Capabilities
	if err := ls.send(ev); err != nil {
		return
	}

	tctx, tcancel := context.WithCancel(context.Background())
	ls.telemetryCancel = tcancel
	go ls.telemetryLoop(tctx)

	ls.commandLoop()
}

func (ls *liveSession) commandLoop() {
	for {
		data, err := ls.ch.Read()
		if err != nil {
			log.Printf("Session %s disconnected: %v", ls.sess.ID(), err)
			return
		}
		ls.sess.Touch()

		var msg ws.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			ls.reportError(errTypeMessage, errors.New("invalid message format"), true)
			continue
		}

		switch msg.Type {
		case ws.MsgChatMessage:
			ls.handleChat(msg.Message)
		case ws.MsgStopTask:
			ls.handleStop()
		default:
			ls.reportError(errTypeMessage, fmt.Errorf("unknown message type %q", msg.Type), true)
		}
	}
}

func (ls *liveSession) handleChat(text string) {
	cls := intent.Classify(text)
	if cls.RequiresAutomation {
		ls.startAutomation(text, cls)
		return
	}
	ls.respondChat(text)
}

// startAutomation dispatches an automation run in its own goroutine so
// the command loop keeps reading (a stop_task must be able to interrupt
// a run in flight). At most one run is in flight per session.
func (ls *liveSession) startAutomation(text string, cls intent.Classification) {
	ls.runMu.Lock()
	if ls.runActive {
		ls.runMu.Unlock()
		ls.reportError(errTypeAutomation, errors.New("a task is already running; stop it first"), true)
		return
	}
	ls.runActive = true
	ls.runMu.Unlock()

	ls.sess.BeginTask(text)

	ev := ls.event(ws.EventStatusUpdate,
		fmt.Sprintf("Starting %s automation... (Confidence: %.0f%%)", cls.TaskType, cls.Confidence*100))
	ev.Intent = cls.Intent
	ev.Action = cls.Action
	ev.Confidence = cls.Confidence
	if err := ls.send(ev); err != nil {
		ls.runMu.Lock()
		ls.runActive = false
		ls.runMu.Unlock()
		return
	}

	task := text
	if cls.TaskType == intent.TaskTaxFiling {
		task = intent.BuildFilingTask(text, intent.ExtractFilingDetails(text))
	}

	ls.runWG.Add(1)
	go func() {
		defer ls.runWG.Done()
		defer func() {
			ls.runMu.Lock()
			ls.runActive = false
			ls.runMu.Unlock()
		}()

		ctx, cancel := context.WithTimeout(context.Background(), ls.cfg.Automation.RunTimeout)
		defer cancel()

		result, err := ls.agent.Run(ctx, task, ls)

		if err != nil {
			if ls.sess.Status() == session.Stopped {
				// Run interrupted by a stop command; the stop path
				// already reported the outcome.
				return
			}
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				err = &agent.RunError{
					Source: agent.SourceAutomation,
					Err:    fmt.Errorf("run exceeded %s: %w", ls.cfg.Automation.RunTimeout, err),
				}
			}
			ls.reportError(agent.RunSource(err), err, false)
			return
		}

		ls.stopMu.Lock()
		if ls.sess.Status() == session.Stopped {
			ls.stopMu.Unlock()
			return
		}
		ls.sess.CompleteTask()
		done := ls.event(ws.EventTaskComplete, "Task completed successfully")
		done.Result = result
		serr := ls.send(done)
		ls.stopMu.Unlock()
		if serr != nil && !errors.Is(serr, ws.ErrChannelClosed) {
			log.Printf("Session %s task_complete event error: %v", ls.sess.ID(), serr)
		}
	}()
}

var errChatUnavailable = errors.New("I'm having trouble responding right now. Please try again.")

func (ls *liveSession) respondChat(text string) {
	if err := ls.send(ls.event(ws.EventTyping, "Thinking...")); err != nil {
		return
	}

	ls.history.Append(session.RoleUser, text)

	ctx, cancel := context.WithTimeout(context.Background(), ls.cfg.LLM.Timeout)
	defer cancel()

	reply, err := ls.replies.Reply(ctx, ls.history.Messages())
	if err != nil {
		log.Printf("Session %s chat reply error: %v", ls.sess.ID(), err)
		ls.reportError(errTypeChat, errChatUnavailable, true)
		return
	}

	ls.history.Append(session.RoleAssistant, reply)
	if err := ls.send(ls.event(ws.EventChatResponse, reply)); err != nil && !errors.Is(err, ws.ErrChannelClosed) {
		log.Printf("Session %s chat_response event error: %v", ls.sess.ID(), err)
	}
}

func (ls *liveSession) handleStop() {
	// Flip status and send the acknowledgment under stopMu: every step
	// callback that passed its status check has already emitted, and
	// none may emit afterward. The agent is stopped after the flip so a
	// callback racing the stop suppresses itself.
	ls.stopMu.Lock()
	ls.sess.SetStatus(session.Stopped)
	if ls.agent != nil {
		ls.agent.Stop()
	}
	err := ls.send(ls.event(ws.EventStatusUpdate, "Task stopped by user"))
	ls.stopMu.Unlock()
	if err != nil && !errors.Is(err, ws.ErrChannelClosed) {
		log.Printf("Session %s stop event error: %v", ls.sess.ID(), err)
	}
}

// OnStepStart implements agent.StepObserver. Never propagates its own
// failures into the agent's run. The status check and the send are one
// critical section under stopMu, so a step event can never follow the
// stop acknowledgment.
func (ls *liveSession) OnStepStart() {
	ls.stopMu.Lock()
	defer ls.stopMu.Unlock()
	if ls.sess.Status() != session.Running {
		return
	}
	n := ls.sess.NextStep()

	ev := ls.event(ws.EventStepStart, fmt.Sprintf("Starting step %d", n))
	ev.Step = ev.CurrentStep
	if url, err := ls.agent.PageURL(); err == nil {
		ev.URL = url
	}
	if title, err := ls.agent.PageTitle(); err == nil {
		ev.Title = title
	}
	if err := ls.send(ev); err != nil && !errors.Is(err, ws.ErrChannelClosed) {
		log.Printf("Session %s step_start event error: %v", ls.sess.ID(), err)
	}
}

// OnStepEnd implements agent.StepObserver.
func (ls *liveSession) OnStepEnd() {
	ls.stopMu.Lock()
	defer ls.stopMu.Unlock()
	if ls.sess.Status() != session.Running {
		return
	}
	snap := ls.sess.Snapshot()

	ev := ls.event(ws.EventStepComplete, fmt.Sprintf("Completed step %d", snap.StepCount))
	if action, err := ls.agent.LastAction(); err == nil {
		ev.Action = action
	}
	if url, err := ls.agent.PageURL(); err == nil {
		ev.URL = url
	}
	if title, err := ls.agent.PageTitle(); err == nil {
		ev.Title = title
	}
	if err := ls.send(ev); err != nil && !errors.Is(err, ws.ErrChannelClosed) {
		log.Printf("Session %s step_complete event error: %v", ls.sess.ID(), err)
	}
}

// Close tears the session down: cancel the telemetry stream and await
// its termination, stop and close the agent, deregister, release the
// connection. Idempotent; safe from any trigger path.
func (ls *liveSession) Close(reason string) {
	ls.closeOnce.Do(func() {
		id := ls.sess.ID()
		log.Printf("Closing session %s: %s", id, reason)

		if ls.telemetryCancel != nil {
			ls.telemetryCancel()
			<-ls.telemetryDone
		}

		if ls.agent != nil {
			ls.agent.Stop()
		}
		ls.runWG.Wait()
		if ls.agent != nil {
			if err := ls.agent.Close(); err != nil {
				log.Printf("Session %s agent close error: %v", id, err)
			}
		}

		ls.registry.Remove(id)
		ls.ch.Close()
	})
}

func (ls *liveSession) event(t ws.EventType, message string) *ws.Event {
	snap := ls.sess.Snapshot()
	return &ws.Event{
		Type:        t,
		Message:     message,
		SessionID:   snap.ID,
		Status:      snap.Status,
		CurrentTask: snap.CurrentTask,
		StepCount:   snap.StepCount,
		CurrentStep: snap.CurrentStep,
		Error:       snap.LastError,
	}
}

func (ls *liveSession) send(ev *ws.Event) error {
	return ls.ch.Send(ev)
}
