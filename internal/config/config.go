// Package config holds runtime parameters shared by every front end.
// Precedence is flag > config file > environment > default.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	DefaultBatchSize       = 10
	DefaultInterBatchDelay = 3 * time.Second
	DefaultInterFileDelay  = 500 * time.Millisecond
	DefaultLogFile         = "batch_pdf_printer.log"
	DefaultAddr            = ":8085"
)

// Config holds the recognized options. Zero values mean "unspecified" and
// are replaced by ApplyDefaults before use.
type Config struct {
	// Directory is the root to search for PDF files.
	Directory string `json:"directory" yaml:"directory" toml:"directory"`
	// BatchSize is the number of files per batch (>= 1).
	BatchSize int `json:"batch_size" yaml:"batch_size" toml:"batch_size"`
	// InterBatchDelaySeconds is the pause between batches. Nil means
	// unspecified; an explicit 0 disables the pause.
	InterBatchDelaySeconds *int `json:"inter_batch_delay_seconds,omitempty" yaml:"inter_batch_delay_seconds,omitempty" toml:"inter_batch_delay_seconds,omitempty"`
	// InterFileDelayMs is the pause between files within a batch. Nil
	// means unspecified; an explicit 0 disables the pause.
	InterFileDelayMs *int `json:"inter_file_delay_ms,omitempty" yaml:"inter_file_delay_ms,omitempty" toml:"inter_file_delay_ms,omitempty"`
	DryRun           bool `json:"dry_run" yaml:"dry_run" toml:"dry_run"`
	Verbose          bool `json:"verbose" yaml:"verbose" toml:"verbose"`
	// LogFile is the append-only per-attempt log sink.
	LogFile string `json:"log_file" yaml:"log_file" toml:"log_file"`
	// Addr is the HTTP front end listen address.
	Addr string `json:"addr" yaml:"addr" toml:"addr"`
	// CaseInsensitiveSort overrides the platform default ordering policy
	// when non-nil.
	CaseInsensitiveSort *bool `json:"case_insensitive_sort,omitempty" yaml:"case_insensitive_sort,omitempty" toml:"case_insensitive_sort,omitempty"`
}

// ApplyDefaults fills unspecified fields from environment and defaults.
func (c *Config) ApplyDefaults() {
	if c.BatchSize == 0 {
		c.BatchSize = envInt("BATCHPRINT_BATCH_SIZE", DefaultBatchSize)
	}
	if c.InterBatchDelaySeconds == nil {
		v := int(DefaultInterBatchDelay / time.Second)
		c.InterBatchDelaySeconds = &v
	}
	if c.InterFileDelayMs == nil {
		v := int(DefaultInterFileDelay / time.Millisecond)
		c.InterFileDelayMs = &v
	}
	if c.LogFile == "" {
		c.LogFile = envStr("BATCHPRINT_LOG_FILE", DefaultLogFile)
	}
	if c.Addr == "" {
		c.Addr = envStr("BATCHPRINT_ADDR", DefaultAddr)
	}
}

// Validate rejects values a run must not start with.
func (c *Config) Validate() error {
	if c.BatchSize < 1 {
		return fmt.Errorf("batch size must be >= 1, got %d", c.BatchSize)
	}
	if c.InterBatchDelaySeconds != nil && *c.InterBatchDelaySeconds < 0 {
		return fmt.Errorf("inter-batch delay must be >= 0, got %d", *c.InterBatchDelaySeconds)
	}
	if c.InterFileDelayMs != nil && *c.InterFileDelayMs < 0 {
		return fmt.Errorf("inter-file delay must be >= 0, got %d", *c.InterFileDelayMs)
	}
	return nil
}

// InterBatchDelay returns the pause between batches; the default when
// unspecified.
func (c *Config) InterBatchDelay() time.Duration {
	if c.InterBatchDelaySeconds == nil {
		return DefaultInterBatchDelay
	}
	return time.Duration(*c.InterBatchDelaySeconds) * time.Second
}

// InterFileDelay returns the pause between files; the default when
// unspecified.
func (c *Config) InterFileDelay() time.Duration {
	if c.InterFileDelayMs == nil {
		return DefaultInterFileDelay
	}
	return time.Duration(*c.InterFileDelayMs) * time.Millisecond
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
