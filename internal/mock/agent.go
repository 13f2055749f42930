// Package mock provides scripted stand-ins for the external
// collaborators: an automation agent that replays a canned ITR filing
// run and a reply generator with canned answers. Used by -mock mode and
// by tests, so the full session flow works without a browser or an API
// key.
package mock

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"sync"
	"time"

	"github.com/madhavkalra7/LegalEase/internal/agent"
	"github.com/madhavkalra7/LegalEase/internal/config"
)

type scriptStep struct {
	url    string
	title  string
	action string
}

var filingScript = []scriptStep{
	{"https://incometax.gov.in/login", "Income Tax e-Filing - Login", "Entered PAN and captcha, requested OTP"},
	{"https://incometax.gov.in/dashboard", "Income Tax e-Filing - Dashboard", "Logged in, opened File ITR section"},
	{"https://incometax.gov.in/filing/start", "Start Filing", "Selected assessment year, ITR type and filing mode"},
	{"https://incometax.gov.in/filing/prefilled", "Pre-filled Information", "Reviewed pre-filled personal details"},
	{"https://incometax.gov.in/filing/income", "Income & Deductions", "Added income and deduction entries"},
	{"https://incometax.gov.in/filing/summary", "Tax Summary & Payment", "Reviewed tax summary and completed payment"},
	{"https://incometax.gov.in/filing/submit", "Final Submission", "Accepted declaration and submitted return"},
}

// Factory creates scripted agents.
type Factory struct {
	cfg config.AutomationConfig

	// StepDelay is the pause between scripted steps. Tests shrink it.
	StepDelay time.Duration

	// InitErr, when set, makes Initialize fail. Used to exercise the
	// fatal initialization path.
	InitErr error
}

func NewFactory(cfg config.AutomationConfig) *Factory {
	return &Factory{
		cfg:       cfg,
		StepDelay: 400 * time.Millisecond,
	}
}

func (f *Factory) Initialize(ctx context.Context, sessionID string) (agent.Agent, error) {
	if f.InitErr != nil {
		return nil, f.InitErr
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return &Agent{
		quality:   f.cfg.ScreenshotQuality,
		stepDelay: f.StepDelay,
		stop:      make(chan struct{}),
	}, nil
}

// Agent replays the filing script, reporting each step through the
// observer.
type Agent struct {
	quality   int
	stepDelay time.Duration

	mu         sync.Mutex
	started    bool
	stepIdx    int
	lastAction string
	stopped    bool
	stop       chan struct{}
	closed     bool
}

func (a *Agent) Run(ctx context.Context, task string, obs agent.StepObserver) (string, error) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return "", &agent.RunError{Source: agent.SourceAgent, Err: fmt.Errorf("agent is closed")}
	}
	// Each run gets a fresh stop channel: sessions may run tasks
	// repeatedly, and a previous stop must not cancel a later run.
	a.started = true
	a.stepIdx = 0
	a.stopped = false
	a.stop = make(chan struct{})
	stop := a.stop
	a.mu.Unlock()

	steps := 0
	for i, step := range filingScript {
		select {
		case <-ctx.Done():
			return "", &agent.RunError{Source: agent.SourceAutomation, Err: ctx.Err()}
		case <-stop:
			return fmt.Sprintf("Run stopped after %d steps", steps), nil
		default:
		}

		obs.OnStepStart()

		select {
		case <-ctx.Done():
			return "", &agent.RunError{Source: agent.SourceAutomation, Err: ctx.Err()}
		case <-stop:
			return fmt.Sprintf("Run stopped after %d steps", steps), nil
		case <-time.After(a.stepDelay):
		}

		a.mu.Lock()
		a.stepIdx = i
		a.lastAction = step.action
		a.mu.Unlock()

		obs.OnStepEnd()
		steps++
	}

	return fmt.Sprintf("Completed scripted filing run (%d steps). Acknowledgment: MOCK-ITR-0042", steps), nil
}

func (a *Agent) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.stopped {
		a.stopped = true
		close(a.stop)
	}
}

func (a *Agent) Close() error {
	a.Stop()
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	return nil
}

func (a *Agent) PageURL() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.started {
		return "", agent.ErrNotReady
	}
	return filingScript[a.stepIdx].url, nil
}

func (a *Agent) PageTitle() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.started {
		return "", agent.ErrNotReady
	}
	return filingScript[a.stepIdx].title, nil
}

func (a *Agent) LastAction() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.lastAction == "" {
		return "", agent.ErrNotReady
	}
	return a.lastAction, nil
}

// Screenshot renders a small placeholder frame whose color tracks the
// current step, encoded at the configured JPEG quality.
func (a *Agent) Screenshot() ([]byte, error) {
	a.mu.Lock()
	started := a.started
	idx := a.stepIdx
	quality := a.quality
	a.mu.Unlock()

	if !started {
		return nil, agent.ErrNotReady
	}

	img := image.NewRGBA(image.Rect(0, 0, 320, 200))
	shade := uint8(40 + idx*25)
	fill := color.RGBA{R: shade, G: 80, B: 160, A: 255}
	for y := 0; y < 200; y++ {
		for x := 0; x < 320; x++ {
			img.SetRGBA(x, y, fill)
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
