package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/SallySoul/escape/internal/runner"
)

func main() {
	err := rootCmd.Execute()
	if logger != nil {
		_ = logger.Sync()
	}
	if err != nil {
		os.Exit(reportError(err))
	}
}

// reportError prints err and returns the process exit status: the failing
// tool's own status when it had one, otherwise 1.
func reportError(err error) int {
	fmt.Fprintf(os.Stderr, "✗ %v\n", err)

	var toolErr *runner.ToolError
	if errors.As(err, &toolErr) {
		fmt.Fprintf(os.Stderr, "  failed command: %s\n", toolErr.Command)
		if toolErr.ExitCode > 0 {
			return toolErr.ExitCode
		}
	}
	return 1
}
