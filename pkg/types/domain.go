package types

import "time"

// PrintableFile is one discovered PDF, immutable once returned by discovery.
type PrintableFile struct {
	// Absolute path to the file.
	Path string `json:"path"`
	// Directory component of Path, the primary sort key.
	Dir string `json:"dir"`
	// Filename component of Path, the secondary sort key.
	Name string `json:"name"`
	// File size in bytes at discovery time.
	SizeBytes uint64 `json:"size_bytes"`
}

// Outcome is the per-file result of one submit attempt.
type Outcome struct {
	OK bool `json:"ok"`
	// Reason is set when OK is false.
	Reason string `json:"reason,omitempty"`
}

// Success returns the successful outcome.
func Success() Outcome { return Outcome{OK: true} }

// Failure returns a failed outcome with the given reason.
func Failure(reason string) Outcome { return Outcome{Reason: reason} }

// RunState is the lifecycle state of a sequencer run.
type RunState string

const (
	StateIdle      RunState = "idle"
	StateRunning   RunState = "running"
	StateCompleted RunState = "completed"
	StateCancelled RunState = "cancelled"
)

// Terminal reports whether the state is a finished run.
func (s RunState) Terminal() bool { return s == StateCompleted || s == StateCancelled }

// ProgressEvent is emitted after each file attempt.
type ProgressEvent struct {
	// FileIndex is the 0-based position in the overall plan.
	FileIndex int `json:"file_index"`
	// TotalFiles is the plan size.
	TotalFiles int `json:"total_files"`
	// Batch is the 1-based batch number the file belongs to.
	Batch int `json:"batch"`
	// TotalBatches is the number of batches in the plan.
	TotalBatches int           `json:"total_batches"`
	File         PrintableFile `json:"file"`
	Outcome      Outcome       `json:"outcome"`
}

// FileResult pairs a file with its outcome, in attempt order.
type FileResult struct {
	File    PrintableFile `json:"file"`
	Outcome Outcome       `json:"outcome"`
}

// Summary is the final tally of one run. Attempted = Succeeded + Failed;
// files skipped by cancellation are counted nowhere.
type Summary struct {
	Attempted int  `json:"attempted"`
	Succeeded int  `json:"succeeded"`
	Failed    int  `json:"failed"`
	Cancelled bool `json:"cancelled"`
	// Duration is the wall time of the run.
	Duration time.Duration `json:"-"`
	// Results holds one entry per attempted file, in plan order.
	Results []FileResult `json:"results,omitempty"`
}

// FailedFiles returns the files that failed, in attempt order.
func (s Summary) FailedFiles() []FileResult {
	var out []FileResult
	for _, r := range s.Results {
		if !r.Outcome.OK {
			out = append(out, r)
		}
	}
	return out
}
