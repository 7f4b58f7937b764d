package sequencer

import (
	"fmt"

	"github.com/brechtparmentier/tools-batchPDFPrinter/pkg/types"
)

// Batch is one contiguous slice of the ordered file list.
type Batch []types.PrintableFile

// Plan partitions an ordered file list into fixed-size batches. The last
// batch may be shorter. Concatenating all batches in order reproduces the
// input exactly: no reordering, no drops, no duplicates.
type Plan struct {
	Batches   []Batch
	BatchSize int
}

// NewPlan builds a plan over files with the given batch size.
func NewPlan(files []types.PrintableFile, batchSize int) (Plan, error) {
	if batchSize < 1 {
		return Plan{}, fmt.Errorf("batch size must be >= 1, got %d", batchSize)
	}
	p := Plan{BatchSize: batchSize}
	for start := 0; start < len(files); start += batchSize {
		end := start + batchSize
		if end > len(files) {
			end = len(files)
		}
		p.Batches = append(p.Batches, Batch(files[start:end]))
	}
	return p, nil
}

// TotalFiles is the number of files across all batches.
func (p Plan) TotalFiles() int {
	n := 0
	for _, b := range p.Batches {
		n += len(b)
	}
	return n
}

// NumBatches is the number of batches in the plan.
func (p Plan) NumBatches() int { return len(p.Batches) }

// Files returns the plan's files in print order.
func (p Plan) Files() []types.PrintableFile {
	out := make([]types.PrintableFile, 0, p.TotalFiles())
	for _, b := range p.Batches {
		out = append(out, b...)
	}
	return out
}

// BatchOf returns the 1-based batch number for an overall file index.
func (p Plan) BatchOf(fileIndex int) int {
	return fileIndex/p.BatchSize + 1
}
