package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/SallySoul/escape/internal/observability"
	"go.uber.org/zap"
)

// ErrToolFailure matches every *ToolError.
var ErrToolFailure = errors.New("external tool failed")

// Command is one external program invocation: a step label plus the full
// argument vector, executable first.
type Command struct {
	Step string
	Argv []string
}

// String renders the command as a shell-quoted line for logs.
func (c Command) String() string {
	quoted := make([]string, len(c.Argv))
	for i, arg := range c.Argv {
		quoted[i] = quote(arg)
	}
	return strings.Join(quoted, " ")
}

func quote(arg string) string {
	if arg == "" {
		return "''"
	}
	if !strings.ContainsAny(arg, " \t\n'\"\\$`*?[]{}()<>|&;#~") {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}

// ToolError reports a non-zero or abnormal exit of an external tool.
// ExitCode is -1 when the process did not exit normally.
type ToolError struct {
	Command  Command
	ExitCode int
	Err      error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s failed with status %d: %s", e.Command.Step, e.ExitCode, e.Command)
}

// Unwrap exposes ErrToolFailure and the underlying exec error
func (e *ToolError) Unwrap() []error {
	return []error{ErrToolFailure, e.Err}
}

// Executor runs one command to completion
type Executor interface {
	Run(ctx context.Context, cmd Command) error
}

// Runner executes external commands one at a time, blocking on each.
type Runner struct {
	Stdout  io.Writer
	Stderr  io.Writer
	DryRun  bool
	Verbose bool
	Logger  *zap.Logger
	Metrics *observability.Metrics
}

// NewRunner creates a runner writing tool output to stdout and stderr
func NewRunner(stdout, stderr io.Writer, dryRun, verbose bool, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		Stdout:  stdout,
		Stderr:  stderr,
		DryRun:  dryRun,
		Verbose: verbose,
		Logger:  logger,
	}
}

// Run executes cmd and waits for it to exit
func (r *Runner) Run(ctx context.Context, cmd Command) error {
	if len(cmd.Argv) == 0 {
		return fmt.Errorf("step %s has an empty command", cmd.Step)
	}

	if r.Verbose || r.DryRun {
		r.Logger.Info("command", zap.String("step", cmd.Step), zap.Stringer("cmd", cmd), zap.Bool("dry_run", r.DryRun))
	} else {
		r.Logger.Debug("command", zap.String("step", cmd.Step), zap.Stringer("cmd", cmd))
	}
	if r.DryRun {
		return nil
	}

	c := exec.CommandContext(ctx, cmd.Argv[0], cmd.Argv[1:]...)
	c.Stdout = r.Stdout
	c.Stderr = r.Stderr

	start := time.Now()
	err := c.Run()
	r.Metrics.RecordTool(cmd.Step, time.Since(start), err != nil)
	if err != nil {
		toolErr := &ToolError{Command: cmd, ExitCode: -1, Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			toolErr.ExitCode = exitErr.ExitCode()
		}
		r.Logger.Error("command failed",
			zap.String("step", cmd.Step),
			zap.Stringer("cmd", cmd),
			zap.Int("status", toolErr.ExitCode),
			zap.Error(err),
		)
		return toolErr
	}
	return nil
}
