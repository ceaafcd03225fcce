// ABOUTME: Entry point for the salesquest CLI.
// ABOUTME: Invokes the root Cobra command and always releases storage.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

func main() {
	err := rootCmd.Execute()
	// PersistentPostRunE is skipped when a command fails.
	if closeErr := closeStorage(); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("✗ %v", err))
		os.Exit(1)
	}
}
