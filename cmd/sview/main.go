// Package main is the entry point for sview, a terminal viewer for
// time-series query results.
package main

import (
	"os"

	"github.com/fatih/color"

	"github.com/j-veylop/sview/internal/config"
)

func main() {
	if err := newRootCmd(config.Load).Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
