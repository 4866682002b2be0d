// Package main is the turnstile command: play the blind-draw game, inspect
// journaled runs, and run scenario tests.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/turnstile/internal/cli"
	"github.com/roach88/turnstile/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCommandError)
	}

	err = cli.NewRootCommand(cfg).Execute()

	// Commands report ExitErrors themselves; anything else came from cobra
	// before a command ran.
	var exitErr *cli.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cli.GetExitCode(err))
}
