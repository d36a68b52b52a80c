// Package main provides the entry point for the lexidx CLI.
package main

import (
	"fmt"
	"os"

	"github.com/lexidx/lexidx/cmd/lexidx/cmd"
	"github.com/lexidx/lexidx/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, errors.FormatForCLI(err))
		os.Exit(1)
	}
}
