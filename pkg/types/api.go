package types

// FilesResponse is returned by GET /files: the ordered plan preview.
type FilesResponse struct {
	Directory string `json:"directory"`
	// Count of discovered PDF files.
	Count int `json:"count"`
	// TotalSizeBytes across all discovered files.
	TotalSizeBytes uint64        `json:"total_size_bytes"`
	BatchSize      int           `json:"batch_size"`
	Batches        int           `json:"batches"`
	Files          []PlannedFile `json:"files"`
}

// PlannedFile is one entry of a plan preview.
type PlannedFile struct {
	// Position is the 1-based print order.
	Position int `json:"position"`
	// Batch is the 1-based batch number.
	Batch     int    `json:"batch"`
	Path      string `json:"path"`
	SizeBytes uint64 `json:"size_bytes"`
}

// RunRequest starts a print run over a directory.
type RunRequest struct {
	Directory string `json:"directory"`
	// BatchSize defaults to the server's configured value when omitted.
	BatchSize int `json:"batch_size,omitempty"`
	// InterBatchDelaySeconds between batches; defaults from server config
	// when omitted. An explicit 0 disables the pause.
	InterBatchDelaySeconds *int `json:"inter_batch_delay_seconds,omitempty"`
}

// RunStatus is returned by GET /runs/current.
type RunStatus struct {
	State RunState `json:"state"`
	// Attempted so far (equals the summary once terminal).
	Attempted  int `json:"attempted"`
	Succeeded  int `json:"succeeded"`
	Failed     int `json:"failed"`
	TotalFiles int `json:"total_files"`
	// DurationMs of the finished run; 0 while running.
	DurationMs int64 `json:"duration_ms,omitempty"`
	Cancelled  bool `json:"cancelled,omitempty"`
	// FailedFiles lists paths that failed, with reasons.
	FailedFiles []FileResult `json:"failed_files,omitempty"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
