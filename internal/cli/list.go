package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/app"
	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/common/fsutil"
)

// buildListCmd is the list-only mode: discovery and ordering without ever
// constructing a print backend.
func buildListCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <directory>",
		Short: "List the PDFs that would be printed, in print order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(e, args[0])
		},
	}
	cmd.Flags().IntVar(&e.cfg.BatchSize, "batch-size", 0, "Files per batch (default 10)")
	return cmd
}

func runList(e *env, dir string) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	a := app.New(e.cfg, e.log)
	pv, err := a.Preview(dir, 0)
	if err != nil {
		return err
	}
	if len(pv.Files) == 0 {
		fmt.Println("No PDF files found.")
		return nil
	}

	fmt.Printf("Found %d PDF files (%s total) under %s\n",
		len(pv.Files), fsutil.FormatSize(pv.TotalSize), pv.Directory)
	printPlan(pv)
	fmt.Printf("\n%d batches of up to %d files\n", pv.Plan.NumBatches(), pv.Plan.BatchSize)
	return nil
}
