package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/menu"
)

func buildMenuCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Guided interactive mode with menus and previews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.cfg.Validate(); err != nil {
				return err
			}
			return menu.New(e.cfg, e.log, os.Stdin, os.Stdout).Run()
		},
	}
}
