// Package menu is the guided terminal front end: numbered menus that walk
// a user through choosing a directory, tuning settings, previewing the
// plan, and running it. It drives exactly the same core as the other
// front ends.
package menu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/app"
	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/common/fsutil"
	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/config"
	"github.com/brechtparmentier/tools-batchPDFPrinter/pkg/types"
)

// Menu holds the interactive session state.
type Menu struct {
	app *app.App
	in  *bufio.Scanner
	out io.Writer

	directory string
	preview   *app.Preview
}

// New builds a menu session over the given streams.
func New(cfg config.Config, log zerolog.Logger, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		app: app.New(cfg, log),
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// Run is the main loop. It returns when the user quits or input ends.
func (m *Menu) Run() error {
	defer m.app.Close()
	m.header()
	for {
		choice, ok := m.choose("MAIN MENU", []string{
			"Choose a directory to print from",
			"Settings",
			"Help",
			"Quit",
		})
		if !ok || choice == 3 {
			fmt.Fprintln(m.out, "\nGoodbye.")
			return nil
		}
		switch choice {
		case 0:
			m.chooseDirectory()
		case 1:
			m.settings()
		case 2:
			m.help()
		}
	}
}

func (m *Menu) header() {
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, strings.Repeat("=", 50))
	fmt.Fprintln(m.out, "  SMART BATCH PDF PRINTER")
	fmt.Fprintln(m.out, strings.Repeat("=", 50))
}

// choose renders numbered options and reads a selection. The second
// return is false when input ended or the user typed q.
func (m *Menu) choose(title string, options []string) (int, bool) {
	fmt.Fprintf(m.out, "\n%s\n", title)
	for i, opt := range options {
		fmt.Fprintf(m.out, "  %d. %s\n", i+1, opt)
	}
	for {
		fmt.Fprintf(m.out, "Choice (1-%d, q to go back): ", len(options))
		line, ok := m.readLine()
		if !ok || strings.EqualFold(line, "q") {
			return 0, false
		}
		n, err := strconv.Atoi(line)
		if err == nil && n >= 1 && n <= len(options) {
			return n - 1, true
		}
		fmt.Fprintln(m.out, "Invalid choice, try again.")
	}
}

func (m *Menu) readLine() (string, bool) {
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *Menu) chooseDirectory() {
	fmt.Fprint(m.out, "\nDirectory to search (~ allowed): ")
	line, ok := m.readLine()
	if !ok || line == "" {
		return
	}
	expanded, err := fsutil.ExpandHome(line)
	if err == nil && !fsutil.IsDir(expanded) {
		err = fmt.Errorf("not a directory: %s", line)
	}
	if err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return
	}

	pv, err := m.app.Preview(expanded, 0)
	if err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return
	}
	if len(pv.Files) == 0 {
		fmt.Fprintln(m.out, "No PDF files found in that directory.")
		return
	}
	m.directory = expanded
	m.preview = &pv

	m.showPreview(pv)
	choice, ok := m.choose("WHAT NEXT?", []string{
		"Print these files",
		"Settings",
		"Back",
	})
	if !ok {
		return
	}
	switch choice {
	case 0:
		m.runPrint(pv)
	case 1:
		m.settings()
	}
}

func (m *Menu) showPreview(pv app.Preview) {
	fmt.Fprintf(m.out, "\nFound %d PDF files (%s total):\n",
		len(pv.Files), fsutil.FormatSize(pv.TotalSize))
	const maxShown = 20
	for i, f := range pv.Files {
		if i == maxShown {
			fmt.Fprintf(m.out, "  ... and %d more\n", len(pv.Files)-maxShown)
			break
		}
		fmt.Fprintf(m.out, "  %3d. %s\n", i+1, f.Name)
	}
	fmt.Fprintln(m.out, "Print order: by directory, then by filename.")
}

func (m *Menu) settings() {
	for {
		choice, ok := m.choose("SETTINGS", []string{
			fmt.Sprintf("Batch size: %d files per batch", m.app.Cfg.BatchSize),
			fmt.Sprintf("Pause between batches: %ds", m.batchDelaySeconds()),
			"Print a test page",
			"Dry run (show what would be printed)",
			"Done",
		})
		if !ok || choice == 4 {
			return
		}
		switch choice {
		case 0:
			m.setBatchSize()
		case 1:
			m.setBatchDelay()
		case 2:
			m.testPage()
		case 3:
			m.dryRun()
		}
	}
}

func (m *Menu) setBatchSize() {
	fmt.Fprintf(m.out, "New batch size (1-100, Enter keeps %d): ", m.app.Cfg.BatchSize)
	line, ok := m.readLine()
	if !ok || line == "" {
		return
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > 100 {
		fmt.Fprintln(m.out, "Use a value between 1 and 100.")
		return
	}
	m.app.Cfg.BatchSize = n
	m.refreshPreview()
	fmt.Fprintf(m.out, "Batch size set to %d.\n", n)
}

func (m *Menu) setBatchDelay() {
	fmt.Fprintf(m.out, "Seconds between batches (Enter keeps %d): ", m.batchDelaySeconds())
	line, ok := m.readLine()
	if !ok || line == "" {
		return
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 0 {
		fmt.Fprintln(m.out, "Use a non-negative number of seconds.")
		return
	}
	m.app.Cfg.InterBatchDelaySeconds = &n
	fmt.Fprintf(m.out, "Batch pause set to %ds.\n", n)
}

func (m *Menu) batchDelaySeconds() int {
	return int(m.app.Cfg.InterBatchDelay() / time.Second)
}

// refreshPreview rebuilds the plan after a batch-size change.
func (m *Menu) refreshPreview() {
	if m.directory == "" {
		return
	}
	if pv, err := m.app.Preview(m.directory, 0); err == nil {
		m.preview = &pv
	}
}

func (m *Menu) testPage() {
	if err := m.app.EnsureBackend(); err != nil {
		fmt.Fprintf(m.out, "Printer problem: %v\n", err)
		return
	}
	outcome := m.app.TestPage(context.Background())
	if outcome.OK {
		fmt.Fprintln(m.out, "Test page sent to the printer.")
	} else {
		fmt.Fprintf(m.out, "Test page failed: %s\n", outcome.Reason)
	}
}

func (m *Menu) dryRun() {
	if m.preview == nil {
		fmt.Fprintln(m.out, "Choose a directory first.")
		return
	}
	pv := *m.preview
	fmt.Fprintln(m.out, "\nDRY RUN - what would be printed:")
	for bi, batch := range pv.Plan.Batches {
		fmt.Fprintf(m.out, "Batch %d:\n", bi+1)
		for _, f := range batch {
			fmt.Fprintf(m.out, "  - %s\n", f.Name)
		}
	}
	fmt.Fprintf(m.out, "Total: %d batches, %d files\n", pv.Plan.NumBatches(), len(pv.Files))
}

func (m *Menu) runPrint(pv app.Preview) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT)
	defer stop()

	if printer, err := m.app.DefaultPrinter(ctx); err != nil {
		fmt.Fprintf(m.out, "Printer problem: %v\n", err)
		return
	} else {
		fmt.Fprintf(m.out, "\nDefault printer: %s\n", printer)
	}
	if err := m.app.EnsureBackend(); err != nil {
		fmt.Fprintf(m.out, "Printer problem: %v\n", err)
		return
	}

	fmt.Fprintf(m.out, "About to print %d files in batches of %d.\n",
		len(pv.Files), pv.Plan.BatchSize)
	fmt.Fprint(m.out, "Type YES to start: ")
	line, ok := m.readLine()
	if !ok || !strings.EqualFold(line, "yes") {
		fmt.Fprintln(m.out, "Printing cancelled.")
		return
	}

	summary, err := m.app.Run(ctx, pv, app.RunOptions{OnProgress: func(ev types.ProgressEvent) {
		if ev.Outcome.OK {
			fmt.Fprintf(m.out, "  [%d/%d] OK   %s\n", ev.FileIndex+1, ev.TotalFiles, ev.File.Name)
		} else {
			fmt.Fprintf(m.out, "  [%d/%d] FAIL %s: %s\n", ev.FileIndex+1, ev.TotalFiles, ev.File.Name, ev.Outcome.Reason)
		}
	}})
	if err != nil {
		fmt.Fprintf(m.out, "Run error: %v\n", err)
		return
	}

	fmt.Fprintln(m.out, "\nPRINTING FINISHED")
	if summary.Cancelled {
		fmt.Fprintln(m.out, "Cancelled before completion.")
	}
	fmt.Fprintf(m.out, "Succeeded: %d\n", summary.Succeeded)
	if summary.Failed > 0 {
		fmt.Fprintf(m.out, "Failed: %d\n", summary.Failed)
		for _, r := range summary.FailedFiles() {
			fmt.Fprintf(m.out, "  %s: %s\n", r.File.Name, r.Outcome.Reason)
		}
	}
}

func (m *Menu) help() {
	fmt.Fprint(m.out, `
HELP

1. Choose a directory; every subdirectory is searched for PDF files.
2. Review the preview of what was found.
3. Adjust settings if needed (batch size, pauses, test page).
4. Confirm to start printing.

Print order: first by directory (alphabetical), then by filename.
Files are sent in batches with a pause between batches so the print
spooler is never overwhelmed. A log of every attempt is appended to the
print log file.

Tips:
- Use smaller batches for slow printers.
- Do a dry run first for large trees.
`)
}
