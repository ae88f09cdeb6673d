// Package main provides the dbattr CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/dbattr/internal/cli"
)

func main() {
	root := cli.NewRootCommand()
	root.SilenceErrors = true

	if err := root.Execute(); err != nil {
		// Command failures are already reported by the output formatter.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
