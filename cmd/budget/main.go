package main

import (
	"os"

	"github.com/idilsaglam/pocket/internal/cli"
)

func main() {
	cmd := cli.NewBudgetCommand()
	if err := cmd.Execute(); err != nil {
		cli.Report(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}
