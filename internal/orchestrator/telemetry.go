package orchestrator

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/madhavkalra7/LegalEase/internal/agent"
	"github.com/madhavkalra7/LegalEase/internal/ws"
)

// telemetryLoop streams periodic screenshot snapshots while the session
// is alive. Capture failures are reported and the loop continues; only
// cancellation, deregistration, or a closed channel end it. Close waits
// on telemetryDone, so the loop must never call Close itself.
func (ls *liveSession) telemetryLoop(ctx context.Context) {
	defer close(ls.telemetryDone)

	ticker := time.NewTicker(ls.cfg.Automation.ScreenshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if _, ok := ls.registry.Lookup(ls.sess.ID()); !ok {
			return
		}

		shot, err := ls.agent.Screenshot()
		if errors.Is(err, agent.ErrNotReady) {
			// No page context yet; wait and retry.
			continue
		}
		if err != nil {
			ls.reportError(errTypeScreenshot, fmt.Errorf("failed to capture screenshot: %w", err), true)
			continue
		}

		ev := ls.event(ws.EventScreenshot, "Screenshot update")
		ev.Screenshot = base64.StdEncoding.EncodeToString(shot)
		if url, err := ls.agent.PageURL(); err == nil {
			ev.URL = url
		}
		if title, err := ls.agent.PageTitle(); err == nil {
			ev.Title = title
		}

		if err := ls.send(ev); err != nil {
			return
		}
	}
}
