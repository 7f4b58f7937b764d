// Package printlog is the persistent, append-only record of every print
// attempt, plus process-wide console logging setup.
package printlog

import (
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/brechtparmentier/tools-batchPDFPrinter/pkg/types"
)

// JobLog appends one JSON line per attempted file to a log file. It is
// opened once per process and injected into the sequencer as a sink.
type JobLog struct {
	f   *os.File
	log zerolog.Logger
}

// Open creates or appends to the job log at path.
func Open(path string) (*JobLog, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &JobLog{
		f:   f,
		log: zerolog.New(f).With().Timestamp().Logger(),
	}, nil
}

// Record appends the attempt. Success and failure both land here so the
// log is a complete history of what was sent to the printer.
func (j *JobLog) Record(file types.PrintableFile, outcome types.Outcome) {
	if outcome.OK {
		j.log.Info().Str("file", file.Path).Str("outcome", "success").Msg("printed")
		return
	}
	j.log.Error().Str("file", file.Path).Str("outcome", "failure").Str("reason", outcome.Reason).Msg("print failed")
}

// Close closes the underlying file.
func (j *JobLog) Close() error { return j.f.Close() }

// Console builds the process logger writing human-readable lines to
// stderr. Level comes from the flag, or BATCHPRINT_LOG_LEVEL, or info.
func Console(level string) zerolog.Logger {
	if level == "" {
		level = os.Getenv("BATCHPRINT_LOG_LEVEL")
	}
	lvl := parseLevel(level)
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error", "err":
		return zerolog.ErrorLevel
	case "info", "":
		return zerolog.InfoLevel
	default:
		return zerolog.InfoLevel
	}
}
