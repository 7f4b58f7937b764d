// Package backend provides the pluggable print capability: submit one file
// to the system's default printer and report the outcome. Two
// implementations exist, selected once at startup by platform: a CUPS
// spooler command on Unix-likes and the shell "print" verb on Windows.
package backend

import (
	"context"
	"errors"
	"time"

	"github.com/brechtparmentier/tools-batchPDFPrinter/pkg/types"
)

// submitTimeout bounds a single submission. A backend that has not
// returned by then reports Failure("timeout") rather than blocking the run.
const submitTimeout = 60 * time.Second

// ErrUnavailable wraps construction failures: the platform print mechanism
// is entirely missing. This aborts before any run starts; it is never a
// per-file outcome.
var ErrUnavailable = errors.New("print backend unavailable")

// IsUnavailable reports whether err means the backend cannot be built.
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }

// Backend submits files for printing. Submit must be safe to call
// repeatedly and never panics for ordinary failures; those are returned as
// failed outcomes with a reason.
type Backend interface {
	// Name identifies the mechanism, e.g. "lp" or "shellexecute".
	Name() string
	// Submit requests printing of one file on the default printer.
	Submit(ctx context.Context, file types.PrintableFile) types.Outcome
}

// Func adapts a plain function to the Backend interface.
type Func func(ctx context.Context, file types.PrintableFile) types.Outcome

func (f Func) Name() string { return "func" }

func (f Func) Submit(ctx context.Context, file types.PrintableFile) types.Outcome {
	return f(ctx, file)
}
