package main

import (
	"os"

	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
