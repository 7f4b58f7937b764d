//go:build !windows

package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/common/fsutil"
	"github.com/brechtparmentier/tools-batchPDFPrinter/pkg/types"
)

// LP submits files through the CUPS spooler command. Exit status and
// stderr are folded into the outcome; the command itself missing from
// PATH is a construction error, not a per-file failure.
type LP struct {
	cmd     string
	timeout time.Duration
}

// NewLP resolves the spooler command (default "lp") on PATH.
func NewLP() (*LP, error) {
	return newLPCommand("lp")
}

func newLPCommand(cmd string) (*LP, error) {
	if _, err := exec.LookPath(cmd); err != nil {
		return nil, fmt.Errorf("%w: %s not found, is CUPS installed?", ErrUnavailable, cmd)
	}
	return &LP{cmd: cmd, timeout: submitTimeout}, nil
}

func (l *LP) Name() string { return "lp" }

// Submit runs `lp <path>` with a bounded deadline.
func (l *LP) Submit(ctx context.Context, file types.PrintableFile) types.Outcome {
	if !fsutil.PathExists(file.Path) {
		return types.Failure("file not found")
	}
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, l.cmd, file.Path)
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err == nil {
		return types.Success()
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return types.Failure("timeout")
	}
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		return types.Failure(msg)
	}
	return types.Failure(err.Error())
}

// New selects the platform backend: the CUPS spooler command.
func New() (Backend, error) {
	return NewLP()
}

// DefaultPrinter reports the system default print destination via lpstat.
func DefaultPrinter(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	out, err := exec.CommandContext(ctx, "lpstat", "-d").Output()
	if err != nil {
		return "", fmt.Errorf("lpstat: %w", err)
	}
	// lpstat -d prints "system default destination: <name>" or
	// "no system default destination".
	line := strings.TrimSpace(string(out))
	if idx := strings.LastIndex(line, ": "); idx >= 0 {
		name := strings.TrimSpace(line[idx+2:])
		if name != "" {
			return name, nil
		}
	}
	return "", errors.New("no default printer configured")
}
