package httpapi

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/app"
	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/backend"
	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/sequencer"
	"github.com/brechtparmentier/tools-batchPDFPrinter/pkg/types"
)

// runner owns the one run a server allows at a time. The sequencer already
// rejects concurrent runs; the runner adds the live counters and the last
// summary that GET /runs/current reports.
type runner struct {
	app    *app.App
	events *Broadcaster

	mu        sync.Mutex
	running   bool
	cancelRun context.CancelFunc
	attempted int
	succeeded int
	failed    int
	total     int
	last      *types.Summary
}

func newRunner(a *app.App, events *Broadcaster) *runner {
	return &runner{app: a, events: events}
}

// start validates the request, reserves the runner, and launches the run
// on a background goroutine so the HTTP handler returns immediately.
func (r *runner) start(ctx context.Context, req types.RunRequest) error {
	pv, err := r.app.Preview(req.Directory, req.BatchSize)
	if err != nil {
		return err
	}
	if req.InterBatchDelaySeconds != nil && *req.InterBatchDelaySeconds < 0 {
		return fmt.Errorf("inter_batch_delay_seconds must be >= 0, got %d", *req.InterBatchDelaySeconds)
	}
	if err := r.app.EnsureBackend(); err != nil {
		return err
	}
	// A missing default printer aborts before any file is attempted.
	if _, err := r.app.DefaultPrinter(ctx); err != nil {
		return fmt.Errorf("%w: printer check: %v", backend.ErrUnavailable, err)
	}

	runCtx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		cancel()
		return sequencer.ErrAlreadyRunning
	}
	r.running = true
	r.cancelRun = cancel
	r.attempted, r.succeeded, r.failed = 0, 0, 0
	r.total = pv.Plan.TotalFiles()
	r.last = nil
	r.mu.Unlock()

	var opts app.RunOptions
	if req.InterBatchDelaySeconds != nil {
		d := time.Duration(*req.InterBatchDelaySeconds) * time.Second
		opts.InterBatchDelay = &d
	}
	opts.OnProgress = func(e types.ProgressEvent) {
		r.mu.Lock()
		r.attempted++
		if e.Outcome.OK {
			r.succeeded++
		} else {
			r.failed++
		}
		r.mu.Unlock()
		recordOutcome(e.Outcome.OK)
		r.events.Publish(e)
	}

	go func() {
		summary, err := r.app.Run(runCtx, pv, opts)
		cancel()
		r.mu.Lock()
		r.running = false
		r.cancelRun = nil
		if err == nil {
			r.last = &summary
		}
		r.mu.Unlock()
		if err == nil {
			recordRun(summary.Cancelled, summary.Failed)
		}
	}()
	return nil
}

// cancel requests the stop both ways: through the sequencer flag and by
// cancelling the run's context, so a cancel that lands before the run
// loop starts is still observed.
func (r *runner) cancel() {
	r.app.Cancel()
	r.mu.Lock()
	if r.cancelRun != nil {
		r.cancelRun()
	}
	r.mu.Unlock()
}

func (r *runner) status() types.RunStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := types.RunStatus{
		State:      r.app.State(),
		Attempted:  r.attempted,
		Succeeded:  r.succeeded,
		Failed:     r.failed,
		TotalFiles: r.total,
	}
	if r.running {
		// The sequencer may not have transitioned yet when the goroutine
		// was just launched; report running regardless.
		st.State = types.StateRunning
	}
	if r.last != nil {
		st.DurationMs = r.last.Duration.Milliseconds()
		st.Cancelled = r.last.Cancelled
		st.FailedFiles = r.last.FailedFiles()
	}
	return st
}

// backendUnavailable classifies a start error for status mapping.
func backendUnavailable(err error) bool { return backend.IsUnavailable(err) }
