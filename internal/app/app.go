// Package app wires the core together: config -> discovery -> ordering ->
// plan -> sequencer -> backend. Every front end is a thin adapter over it.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/backend"
	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/common/fsutil"
	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/config"
	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/discover"
	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/ordering"
	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/printlog"
	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/sequencer"
	"github.com/brechtparmentier/tools-batchPDFPrinter/pkg/types"
)

// Preview is the result of discovery + ordering + planning. Producing one
// never touches the print backend, so it doubles as the dry-run payload.
type Preview struct {
	Directory string
	Files     []types.PrintableFile
	Plan      sequencer.Plan
	TotalSize uint64
}

// App holds the shared core plus the selected print backend.
type App struct {
	Cfg config.Config
	Log zerolog.Logger

	seq          *sequencer.Sequencer
	backend      backend.Backend
	jobLog       *printlog.JobLog
	printerCheck func(context.Context) (string, error)
}

// New builds an App from validated config. No backend is constructed yet;
// list-only and dry-run paths never need one.
func New(cfg config.Config, log zerolog.Logger) *App {
	return &App{Cfg: cfg, Log: log, seq: sequencer.New(), printerCheck: backend.DefaultPrinter}
}

// Policy returns the ordering policy: the configured choice when present,
// otherwise the platform default.
func (a *App) Policy() ordering.Policy {
	if a.Cfg.CaseInsensitiveSort != nil {
		return ordering.Policy{CaseInsensitive: *a.Cfg.CaseInsensitiveSort}
	}
	return ordering.DefaultPolicy()
}

// Preview discovers and orders the PDFs under dir and builds the batch
// plan. A batchSize of 0 uses the configured value. dir must exist and be
// a directory; an empty tree yields an empty preview, not an error.
func (a *App) Preview(dir string, batchSize int) (Preview, error) {
	if batchSize == 0 {
		batchSize = a.Cfg.BatchSize
	}
	files, err := discover.Scan(dir)
	if err != nil {
		return Preview{}, err
	}
	a.Policy().Sort(files)
	plan, err := sequencer.NewPlan(files, batchSize)
	if err != nil {
		return Preview{}, err
	}
	// Keep the absolute root so front ends can render relative paths.
	root := dir
	if expanded, err := fsutil.ExpandHome(dir); err == nil {
		if abs, err := filepath.Abs(expanded); err == nil {
			root = abs
		}
	}
	return Preview{
		Directory: root,
		Files:     files,
		Plan:      plan,
		TotalSize: discover.TotalSize(files),
	}, nil
}

// EnsureBackend constructs the platform print backend once. Fails before
// any run when the mechanism is missing entirely.
func (a *App) EnsureBackend() error {
	if a.backend != nil {
		return nil
	}
	b, err := backend.New()
	if err != nil {
		return err
	}
	a.backend = b
	return nil
}

// SetBackend overrides the platform backend; used by tests and by front
// ends that count calls.
func (a *App) SetBackend(b backend.Backend) { a.backend = b }

// Backend returns the active backend, or nil before EnsureBackend.
func (a *App) Backend() backend.Backend { return a.backend }

// DefaultPrinter reports the system default printer for banners and
// pre-run checks.
func (a *App) DefaultPrinter(ctx context.Context) (string, error) {
	return a.printerCheck(ctx)
}

// SetPrinterCheck overrides the default-printer lookup; used by tests.
func (a *App) SetPrinterCheck(fn func(context.Context) (string, error)) {
	a.printerCheck = fn
}

// State exposes the sequencer state for front ends.
func (a *App) State() types.RunState { return a.seq.State() }

// Cancel requests that the in-flight run stop at the next file boundary.
func (a *App) Cancel() { a.seq.Cancel() }

// RunOptions are per-run overrides; nil durations fall back to config, so
// an explicit zero disables the corresponding pause.
type RunOptions struct {
	InterFileDelay  *time.Duration
	InterBatchDelay *time.Duration
	OnProgress      sequencer.ProgressFunc
}

// Run executes the previewed plan. The job log is opened lazily on the
// first real run and kept for the life of the process.
func (a *App) Run(ctx context.Context, pv Preview, opts RunOptions) (types.Summary, error) {
	if a.backend == nil {
		return types.Summary{}, fmt.Errorf("no print backend configured")
	}
	if a.jobLog == nil {
		jl, err := printlog.Open(a.Cfg.LogFile)
		if err != nil {
			return types.Summary{}, fmt.Errorf("open job log: %w", err)
		}
		a.jobLog = jl
	}
	fileDelay := a.Cfg.InterFileDelay()
	if opts.InterFileDelay != nil {
		fileDelay = *opts.InterFileDelay
	}
	batchDelay := a.Cfg.InterBatchDelay()
	if opts.InterBatchDelay != nil {
		batchDelay = *opts.InterBatchDelay
	}
	return a.seq.Run(ctx, pv.Plan, a.backend, sequencer.Options{
		InterFileDelay:  fileDelay,
		InterBatchDelay: batchDelay,
		OnProgress:      opts.OnProgress,
		Log:             a.jobLog,
	})
}

// Close releases the job log if one was opened.
func (a *App) Close() error {
	if a.jobLog != nil {
		return a.jobLog.Close()
	}
	return nil
}

// TestPage submits a small generated text file through the active backend
// so a user can verify the printer before a large run.
func (a *App) TestPage(ctx context.Context) types.Outcome {
	if a.backend == nil {
		return types.Failure("no print backend configured")
	}
	content := fmt.Sprintf("PDF printer test page\n\nDate: %s\n\nIf you can read this, your default printer works.\n",
		time.Now().Format("2006-01-02 15:04:05"))
	path := filepath.Join(os.TempDir(), "batchprint_test_page.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return types.Failure(err.Error())
	}
	defer os.Remove(path)

	fi, _ := os.Stat(path)
	var size uint64
	if fi != nil {
		size = uint64(fi.Size())
	}
	return a.backend.Submit(ctx, types.PrintableFile{
		Path:      path,
		Dir:       filepath.Dir(path),
		Name:      filepath.Base(path),
		SizeBytes: size,
	})
}
