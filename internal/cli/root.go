// Package cli is the command-line front end: a cobra tree whose
// subcommands are thin adapters over the shared core.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/config"
	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/printlog"
)

// errFilesFailed signals a completed run in which at least one file
// failed; the process exits non-zero without an extra error message.
var errFilesFailed = errors.New("some files failed to print")

// env carries resolved configuration and the process logger into
// subcommands after the persistent pre-run.
type env struct {
	cfg config.Config
	log zerolog.Logger

	configPath string
	logLevel   string
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	root := buildRootCmd(&env{})
	if err := root.Execute(); err != nil {
		if errors.Is(err, errFilesFailed) {
			return 1
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func buildRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:           "batchprint",
		Short:         "Find PDFs under a directory and print them in paced batches",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&e.configPath, "config", "", "Config file (.yaml|.json|.toml)")
	root.PersistentFlags().StringVar(&e.logLevel, "log-level", "", "Log level: debug|info|warn|error (defaults BATCHPRINT_LOG_LEVEL or info)")
	root.PersistentFlags().StringVar(&e.cfg.LogFile, "log-file", "", "Append-only print log (default batch_pdf_printer.log)")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if e.configPath != "" {
			fileCfg, err := config.Load(e.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			merge(&e.cfg, fileCfg)
		}
		e.cfg.ApplyDefaults()
		if e.cfg.Verbose && e.logLevel == "" {
			e.logLevel = "debug"
		}
		e.log = printlog.Console(e.logLevel)
		return nil
	}

	root.AddCommand(buildPrintCmd(e))
	root.AddCommand(buildListCmd(e))
	root.AddCommand(buildMenuCmd(e))
	root.AddCommand(buildServeCmd(e))
	root.AddCommand(buildCompletionCmd(root))
	return root
}

// merge fills unset fields of dst from a loaded config file; flags set on
// dst win over file values.
func merge(dst *config.Config, src config.Config) {
	if dst.Directory == "" {
		dst.Directory = src.Directory
	}
	if dst.BatchSize == 0 {
		dst.BatchSize = src.BatchSize
	}
	if dst.InterBatchDelaySeconds == nil {
		dst.InterBatchDelaySeconds = src.InterBatchDelaySeconds
	}
	if dst.InterFileDelayMs == nil {
		dst.InterFileDelayMs = src.InterFileDelayMs
	}
	if dst.LogFile == "" {
		dst.LogFile = src.LogFile
	}
	if dst.Addr == "" {
		dst.Addr = src.Addr
	}
	if !dst.DryRun {
		dst.DryRun = src.DryRun
	}
	if !dst.Verbose {
		dst.Verbose = src.Verbose
	}
	if dst.CaseInsensitiveSort == nil {
		dst.CaseInsensitiveSort = src.CaseInsensitiveSort
	}
}

func buildCompletionCmd(root *cobra.Command) *cobra.Command {
	completion := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completion.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error {
		return root.GenBashCompletion(os.Stdout)
	}})
	completion.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error {
		return root.GenZshCompletion(os.Stdout)
	}})
	completion.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error {
		return root.GenFishCompletion(os.Stdout, true)
	}})
	return completion
}
