package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/app"
	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/common/fsutil"
	"github.com/brechtparmentier/tools-batchPDFPrinter/pkg/types"
)

func buildPrintCmd(e *env) *cobra.Command {
	var (
		yes           bool
		batchDelaySec int
		fileDelayMs   int
	)
	cmd := &cobra.Command{
		Use:   "print <directory>",
		Short: "Print every PDF under a directory in paced batches",
		Example: "  batchprint print ~/Documents/scans\n" +
			"  batchprint print --batch-size 5 --delay 5 ~/Documents/scans\n" +
			"  batchprint print --dry-run ~/Downloads",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// An explicit 0 is a valid choice and must not fall back to
			// the default, so only flags the user set reach the config.
			if cmd.Flags().Changed("delay") {
				e.cfg.InterBatchDelaySeconds = &batchDelaySec
			}
			if cmd.Flags().Changed("file-delay") {
				e.cfg.InterFileDelayMs = &fileDelayMs
			}
			return runPrint(e, args[0], yes)
		},
	}
	cmd.Flags().IntVar(&e.cfg.BatchSize, "batch-size", 0, "Files per batch (default 10)")
	cmd.Flags().IntVar(&batchDelaySec, "delay", 0, "Seconds to pause between batches (default 3)")
	cmd.Flags().IntVar(&fileDelayMs, "file-delay", 0, "Milliseconds to pause between files (default 500)")
	cmd.Flags().BoolVar(&e.cfg.DryRun, "dry-run", false, "Show the print plan without printing anything")
	cmd.Flags().BoolVarP(&e.cfg.Verbose, "verbose", "v", false, "Detailed progress output")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func runPrint(e *env, dir string, yes bool) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	a := app.New(e.cfg, e.log)
	defer a.Close()

	fmt.Println("Smart Batch PDF Printer")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Printf("Searching in: %s\n", dir)

	pv, err := a.Preview(dir, 0)
	if err != nil {
		return err
	}
	if len(pv.Files) == 0 {
		fmt.Println("No PDF files found.")
		return nil
	}
	fmt.Printf("Found %d PDF files (%s total)\n", len(pv.Files), fsutil.FormatSize(pv.TotalSize))

	if e.cfg.DryRun {
		printPlan(pv)
		fmt.Printf("\nDry run: %d batches of up to %d files, %ds between batches. Nothing was printed.\n",
			pv.Plan.NumBatches(), pv.Plan.BatchSize, int(e.cfg.InterBatchDelay()/time.Second))
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if printer, err := a.DefaultPrinter(ctx); err != nil {
		return fmt.Errorf("printer check: %w", err)
	} else {
		fmt.Printf("Default printer: %s\n", printer)
	}
	if err := a.EnsureBackend(); err != nil {
		return err
	}

	if !yes && !confirm(os.Stdin, fmt.Sprintf("\nPrint %d PDF files? [y/N]: ", len(pv.Files))) {
		fmt.Println("Printing cancelled by user.")
		return nil
	}

	fmt.Printf("\nPrinting %d files in %d batches (batch size %d)\n\n",
		len(pv.Files), pv.Plan.NumBatches(), pv.Plan.BatchSize)

	lastBatch := 0
	summary, err := a.Run(ctx, pv, app.RunOptions{OnProgress: func(ev types.ProgressEvent) {
		if ev.Batch != lastBatch {
			fmt.Printf("Batch %d/%d\n", ev.Batch, ev.TotalBatches)
			lastBatch = ev.Batch
		}
		rel := relativeTo(pv.Directory, ev.File.Path)
		if ev.Outcome.OK {
			fmt.Printf("  [%d/%d] OK   %s\n", ev.FileIndex+1, ev.TotalFiles, rel)
		} else {
			fmt.Printf("  [%d/%d] FAIL %s: %s\n", ev.FileIndex+1, ev.TotalFiles, rel, ev.Outcome.Reason)
		}
	}})
	if err != nil {
		return err
	}

	printSummary(pv, summary)
	if summary.Failed > 0 {
		return errFilesFailed
	}
	return nil
}

func printPlan(pv app.Preview) {
	fmt.Println("\nPrint order:")
	for i, f := range pv.Files {
		fmt.Printf("  %3d) [Batch %d] %s (%s)\n",
			i+1, pv.Plan.BatchOf(i), relativeTo(pv.Directory, f.Path), fsutil.FormatSize(f.SizeBytes))
	}
}

func printSummary(pv app.Preview, s types.Summary) {
	fmt.Println("\nPrint run finished.")
	if s.Cancelled {
		fmt.Println("  Cancelled before completion.")
	}
	fmt.Printf("  Attempted: %d/%d\n", s.Attempted, len(pv.Files))
	fmt.Printf("  Succeeded: %d\n", s.Succeeded)
	fmt.Printf("  Failed:    %d\n", s.Failed)
	fmt.Printf("  Duration:  %.1fs\n", s.Duration.Seconds())
	if failed := s.FailedFiles(); len(failed) > 0 {
		fmt.Println("  Failed files:")
		for _, r := range failed {
			fmt.Printf("    %s: %s\n", relativeTo(pv.Directory, r.File.Path), r.Outcome.Reason)
		}
	}
	if skipped := len(pv.Files) - s.Attempted; skipped > 0 {
		fmt.Printf("  Not attempted: %d\n", skipped)
	}
}

func confirm(r *os.File, prompt string) bool {
	fmt.Print(prompt)
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

// relativeTo shortens path for display when it sits under root.
func relativeTo(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
