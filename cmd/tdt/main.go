// Package main is the entry point for the Trending Dashboard TUI.
// Without a subcommand it runs the Bubble Tea program; subcommands print
// reports and manage the upload-hour history.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
