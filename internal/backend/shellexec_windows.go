//go:build windows

package backend

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sys/windows"

	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/common/fsutil"
	"github.com/brechtparmentier/tools-batchPDFPrinter/pkg/types"
)

// ShellExec submits files through the shell's "print" verb, the handler
// registered for PDFs on the machine. A successful outcome means the
// request was accepted by the handler, not that anything reached paper;
// that limitation is inherent to the mechanism.
type ShellExec struct{}

// NewShellExec verifies the print verb mechanism is reachable.
func NewShellExec() (*ShellExec, error) {
	return &ShellExec{}, nil
}

func (s *ShellExec) Name() string { return "shellexecute" }

// Submit invokes ShellExecute with the "print" verb. The call can block on
// a slow handler, so it runs bounded by the submit timeout.
func (s *ShellExec) Submit(ctx context.Context, file types.PrintableFile) types.Outcome {
	if !fsutil.PathExists(file.Path) {
		return types.Failure("file not found")
	}
	ctx, cancel := context.WithTimeout(ctx, submitTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- shellPrint(file.Path)
	}()
	select {
	case err := <-done:
		if err != nil {
			return types.Failure(err.Error())
		}
		return types.Success()
	case <-ctx.Done():
		return types.Failure("timeout")
	}
}

func shellPrint(path string) error {
	verb, err := windows.UTF16PtrFromString("print")
	if err != nil {
		return err
	}
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	return windows.ShellExecute(0, verb, p, nil, nil, windows.SW_SHOWMINNOACTIVE)
}

// New selects the platform backend: the shell print verb.
func New() (Backend, error) {
	return NewShellExec()
}

// DefaultPrinter reports the default printer name via wmic.
func DefaultPrinter(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	out, err := exec.CommandContext(ctx, "wmic", "printer", "where", "default=true", "get", "name").Output()
	if err != nil {
		return "", fmt.Errorf("wmic: %w", err)
	}
	text := strings.TrimSpace(string(out))
	if strings.Contains(text, "No Instance(s) Available") {
		return "", errors.New("no default printer configured")
	}
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return "", errors.New("no default printer configured")
	}
	name := strings.TrimSpace(lines[len(lines)-1])
	if name == "" || name == "Name" {
		return "", errors.New("no default printer configured")
	}
	return name, nil
}
