// Package sequencer drives a print run over a batch plan: strictly
// sequential submission, pacing between files and batches, cancellation at
// file boundaries, and a final tally. It is the one component with
// run-state behavior; everything else feeds it or observes it.
package sequencer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/backend"
	"github.com/brechtparmentier/tools-batchPDFPrinter/pkg/types"
)

// Sink receives every attempted outcome, in attempt order. The persistent
// job log implements it; it is a side channel, not part of Run's result.
type Sink interface {
	Record(file types.PrintableFile, outcome types.Outcome)
}

// ProgressFunc observes per-file progress. It is invoked from the run
// goroutine; front ends that render elsewhere marshal the event themselves.
type ProgressFunc func(types.ProgressEvent)

// Options configures one run.
type Options struct {
	// InterFileDelay is slept after each file except the last of the run.
	InterFileDelay time.Duration
	// InterBatchDelay is slept after each batch except the last.
	InterBatchDelay time.Duration
	// OnProgress, when set, receives an event per attempted file.
	OnProgress ProgressFunc
	// Log, when set, records every attempted outcome.
	Log Sink
}

// Sequencer owns the run state and the cancellation flag. A single
// instance is reusable: every Run starts from a clean slate, and only one
// run may be in flight at a time.
type Sequencer struct {
	mu        sync.Mutex
	state     types.RunState
	cancelled atomic.Bool

	// sleep is swapped out by tests to avoid real pacing delays.
	sleep func(time.Duration)
}

// New returns an idle sequencer.
func New() *Sequencer {
	return &Sequencer{state: types.StateIdle, sleep: time.Sleep}
}

// State returns the current run state. Safe to call from any goroutine.
func (s *Sequencer) State() types.RunState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Cancel requests that the current run stop. It is a request, not an
// instantaneous stop: the in-flight submission completes, and the loop
// observes the flag at the next file boundary. Calling Cancel outside a
// run is harmless; the flag is reset when the next run starts.
func (s *Sequencer) Cancel() {
	s.cancelled.Store(true)
}

func (s *Sequencer) stopRequested(ctx context.Context) bool {
	return s.cancelled.Load() || ctx.Err() != nil
}

// Run executes the plan against the backend. Individual file failures
// never abort the run; only cancellation halts early. Context cancellation
// is treated exactly like Cancel. Run returns ErrAlreadyRunning when a
// run is in flight; any other invocation resets state and proceeds.
func (s *Sequencer) Run(ctx context.Context, plan Plan, b backend.Backend, opts Options) (types.Summary, error) {
	s.mu.Lock()
	if s.state == types.StateRunning {
		s.mu.Unlock()
		return types.Summary{}, ErrAlreadyRunning
	}
	s.state = types.StateRunning
	s.cancelled.Store(false)
	s.mu.Unlock()

	start := time.Now()
	total := plan.TotalFiles()
	summary := types.Summary{}
	fileIndex := 0

run:
	for bi, batch := range plan.Batches {
		for fi, file := range batch {
			if s.stopRequested(ctx) {
				summary.Cancelled = true
				break run
			}

			outcome := b.Submit(ctx, file)
			summary.Attempted++
			if outcome.OK {
				summary.Succeeded++
			} else {
				summary.Failed++
			}
			summary.Results = append(summary.Results, types.FileResult{File: file, Outcome: outcome})

			if opts.Log != nil {
				opts.Log.Record(file, outcome)
			}
			if opts.OnProgress != nil {
				opts.OnProgress(types.ProgressEvent{
					FileIndex:    fileIndex,
					TotalFiles:   total,
					Batch:        bi + 1,
					TotalBatches: plan.NumBatches(),
					File:         file,
					Outcome:      outcome,
				})
			}
			fileIndex++

			// Pace only between files of the same batch, and not once a
			// stop has been requested. Batch boundaries get the longer
			// inter-batch pause instead.
			if fi < len(batch)-1 && !s.stopRequested(ctx) && opts.InterFileDelay > 0 {
				s.sleep(opts.InterFileDelay)
			}
		}
		if bi < plan.NumBatches()-1 && !s.stopRequested(ctx) && opts.InterBatchDelay > 0 {
			s.sleep(opts.InterBatchDelay)
		}
	}

	summary.Duration = time.Since(start)

	s.mu.Lock()
	if summary.Cancelled {
		s.state = types.StateCancelled
	} else {
		s.state = types.StateCompleted
	}
	s.mu.Unlock()
	return summary, nil
}
