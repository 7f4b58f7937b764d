package sequencer

import "errors"

// ErrAlreadyRunning is returned by Run while another run is in progress.
var ErrAlreadyRunning = errors.New("a print run is already in progress")

// IsAlreadyRunning reports whether err means a concurrent run was refused.
func IsAlreadyRunning(err error) bool { return errors.Is(err, ErrAlreadyRunning) }
