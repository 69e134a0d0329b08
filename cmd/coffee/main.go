// Package main provides the entry point for the coffee CLI.
package main

import (
	"errors"
	"os"

	"github.com/coffee-platform/coffee-go/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		var exitErr *cmd.ExitError
		if errors.As(err, &exitErr) {
			// An empty message means the command already reported the failure
			if exitErr.Message != "" {
				os.Stderr.WriteString("Error: " + exitErr.Message + "\n")
			}
			os.Exit(exitErr.Code)
		}
		// Print error (SilenceErrors suppresses Cobra output)
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
