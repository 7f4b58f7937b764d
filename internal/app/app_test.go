package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/backend"
	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/config"
	"github.com/brechtparmentier/tools-batchPDFPrinter/pkg/types"
)

func testApp(t *testing.T) *App {
	t.Helper()
	cfg := config.Config{
		BatchSize:              10,
		InterBatchDelaySeconds: intPtr(0),
		InterFileDelayMs:       intPtr(0),
		LogFile:                filepath.Join(t.TempDir(), "jobs.log"),
	}
	a := New(cfg, zerolog.Nop())
	t.Cleanup(func() { a.Close() })
	return a
}

func seedPDFs(t *testing.T, names ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, name := range names {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return root
}

func TestPreviewOrdersAndPlans(t *testing.T) {
	a := testApp(t)
	a.Cfg.CaseInsensitiveSort = boolPtr(false)
	root := seedPDFs(t, "b.pdf", "a.pdf", filepath.Join("sub", "c.pdf"))

	pv, err := a.Preview(root, 2)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if len(pv.Files) != 3 {
		t.Fatalf("expected 3 files, got %d", len(pv.Files))
	}
	// Root directory sorts before its subdirectory; names within it sort
	// lexically.
	want := []string{"a.pdf", "b.pdf", "c.pdf"}
	for i, f := range pv.Files {
		if f.Name != want[i] {
			t.Fatalf("order: got %s at %d, want %s", f.Name, i, want[i])
		}
	}
	if pv.Plan.NumBatches() != 2 || pv.Plan.BatchSize != 2 {
		t.Fatalf("plan: %d batches, size %d", pv.Plan.NumBatches(), pv.Plan.BatchSize)
	}
	if !filepath.IsAbs(pv.Directory) {
		t.Fatalf("preview directory not absolute: %s", pv.Directory)
	}
	if pv.TotalSize == 0 {
		t.Fatal("total size not computed")
	}
}

func TestPreviewUsesConfiguredBatchSize(t *testing.T) {
	a := testApp(t)
	a.Cfg.BatchSize = 2
	root := seedPDFs(t, "a.pdf", "b.pdf", "c.pdf")

	pv, err := a.Preview(root, 0)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if pv.Plan.BatchSize != 2 || pv.Plan.NumBatches() != 2 {
		t.Fatalf("plan: size %d, %d batches", pv.Plan.BatchSize, pv.Plan.NumBatches())
	}
}

func TestPreviewMissingDirectory(t *testing.T) {
	a := testApp(t)
	if _, err := a.Preview(filepath.Join(t.TempDir(), "absent"), 0); err == nil {
		t.Fatal("expected error")
	}
}

func TestRunRequiresBackend(t *testing.T) {
	a := testApp(t)
	root := seedPDFs(t, "a.pdf")
	pv, err := a.Preview(root, 0)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if _, err := a.Run(context.Background(), pv, RunOptions{}); err == nil {
		t.Fatal("expected error without a backend")
	}
}

func TestRunSubmitsInOrderAndLogs(t *testing.T) {
	a := testApp(t)
	a.Cfg.CaseInsensitiveSort = boolPtr(false)
	root := seedPDFs(t, "b.pdf", "a.pdf", "c.pdf")

	var submitted []string
	a.SetBackend(backend.Func(func(ctx context.Context, f types.PrintableFile) types.Outcome {
		submitted = append(submitted, f.Name)
		if f.Name == "b.pdf" {
			return types.Failure("jam")
		}
		return types.Success()
	}))

	pv, err := a.Preview(root, 2)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	var events int
	summary, err := a.Run(context.Background(), pv, RunOptions{
		OnProgress: func(types.ProgressEvent) { events++ },
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Attempted != 3 || summary.Succeeded != 2 || summary.Failed != 1 {
		t.Fatalf("summary: %+v", summary)
	}
	if len(submitted) != 3 || submitted[0] != "a.pdf" || submitted[1] != "b.pdf" || submitted[2] != "c.pdf" {
		t.Fatalf("submission order: %v", submitted)
	}
	if events != 3 {
		t.Fatalf("progress events: got %d", events)
	}
	if a.State() != types.StateCompleted {
		t.Fatalf("state: %s", a.State())
	}

	// Every attempt must land in the job log.
	b, err := os.ReadFile(a.Cfg.LogFile)
	if err != nil {
		t.Fatalf("read job log: %v", err)
	}
	if len(b) == 0 {
		t.Fatal("job log is empty")
	}
}

func TestPreviewNeverTouchesBackend(t *testing.T) {
	a := testApp(t)
	calls := 0
	a.SetBackend(backend.Func(func(ctx context.Context, f types.PrintableFile) types.Outcome {
		calls++
		return types.Success()
	}))
	root := seedPDFs(t, "a.pdf", "b.pdf")
	if _, err := a.Preview(root, 0); err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if calls != 0 {
		t.Fatalf("preview invoked the backend %d times", calls)
	}
}

func TestRunZeroDelayOverrideWinsOverConfig(t *testing.T) {
	a := testApp(t)
	// Configured pauses are long; the per-run zero override must silence
	// them entirely.
	a.Cfg.InterBatchDelaySeconds = intPtr(2)
	a.Cfg.InterFileDelayMs = intPtr(1500)
	a.SetBackend(backend.Func(func(ctx context.Context, f types.PrintableFile) types.Outcome {
		return types.Success()
	}))
	root := seedPDFs(t, "a.pdf", "b.pdf")
	pv, err := a.Preview(root, 1)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}

	zero := time.Duration(0)
	start := time.Now()
	summary, err := a.Run(context.Background(), pv, RunOptions{
		InterFileDelay:  &zero,
		InterBatchDelay: &zero,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Attempted != 2 {
		t.Fatalf("summary: %+v", summary)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("zero-delay run slept: %v", elapsed)
	}
}

func TestSetPrinterCheck(t *testing.T) {
	a := testApp(t)
	a.SetPrinterCheck(func(ctx context.Context) (string, error) {
		return "Office_Laser", nil
	})
	name, err := a.DefaultPrinter(context.Background())
	if err != nil {
		t.Fatalf("DefaultPrinter: %v", err)
	}
	if name != "Office_Laser" {
		t.Fatalf("printer: got %q", name)
	}
}

func TestPolicyOverride(t *testing.T) {
	a := testApp(t)
	a.Cfg.CaseInsensitiveSort = boolPtr(true)
	if !a.Policy().CaseInsensitive {
		t.Fatal("override to case-insensitive ignored")
	}
	a.Cfg.CaseInsensitiveSort = boolPtr(false)
	if a.Policy().CaseInsensitive {
		t.Fatal("override to case-sensitive ignored")
	}
}

func TestTestPage(t *testing.T) {
	a := testApp(t)

	if outcome := a.TestPage(context.Background()); outcome.OK {
		t.Fatal("expected failure without a backend")
	}

	var got types.PrintableFile
	a.SetBackend(backend.Func(func(ctx context.Context, f types.PrintableFile) types.Outcome {
		got = f
		return types.Success()
	}))
	outcome := a.TestPage(context.Background())
	if !outcome.OK {
		t.Fatalf("TestPage: %+v", outcome)
	}
	if got.Name == "" || got.SizeBytes == 0 {
		t.Fatalf("backend received incomplete file: %+v", got)
	}
}

func boolPtr(b bool) *bool { return &b }

func intPtr(n int) *int { return &n }
