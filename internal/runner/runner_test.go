package runner

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/SallySoul/escape/internal/observability"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRunSuccess(t *testing.T) {
	var stdout bytes.Buffer
	r := NewRunner(&stdout, &bytes.Buffer{}, false, false, nil)

	err := r.Run(context.Background(), Command{Step: "echo", Argv: []string{"sh", "-c", "echo hello"}})
	require.NoError(t, err)
	require.Equal(t, "hello\n", stdout.String())
}

func TestRunPropagatesExitStatus(t *testing.T) {
	m := observability.NewMetrics()
	r := NewRunner(&bytes.Buffer{}, &bytes.Buffer{}, false, false, zap.NewNop())
	r.Metrics = m

	cmd := Command{Step: StepSample, Argv: []string{"sh", "-c", "exit 3"}}
	err := r.Run(context.Background(), cmd)
	require.ErrorIs(t, err, ErrToolFailure)

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	require.Equal(t, 3, toolErr.ExitCode)
	require.Equal(t, cmd.Argv, toolErr.Command.Argv)
	require.Contains(t, err.Error(), "sample failed with status 3")
}

func TestRunMissingExecutableIsAbnormal(t *testing.T) {
	r := NewRunner(&bytes.Buffer{}, &bytes.Buffer{}, false, false, nil)

	err := r.Run(context.Background(), Command{Step: StepDraw, Argv: []string{"/nonexistent/escape", "draw"}})
	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	require.Equal(t, -1, toolErr.ExitCode)
}

func TestDryRunLogsWithoutExecuting(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	var stdout bytes.Buffer
	r := NewRunner(&stdout, &bytes.Buffer{}, true, false, zap.New(core))

	err := r.Run(context.Background(), Command{Step: "fail", Argv: []string{"sh", "-c", "echo ran; exit 1"}})
	require.NoError(t, err)
	require.Empty(t, stdout.String())

	entries := logs.FilterMessage("command").All()
	require.Len(t, entries, 1)
	require.Equal(t, `sh -c 'echo ran; exit 1'`, entries[0].ContextMap()["cmd"])
}

func TestEmptyCommandRejected(t *testing.T) {
	r := NewRunner(&bytes.Buffer{}, &bytes.Buffer{}, false, false, nil)
	require.Error(t, r.Run(context.Background(), Command{Step: "none"}))
}

func TestCommandBuilders(t *testing.T) {
	sample := SampleCommand("escape", "/w/sample.json", "/w/histogram.json", SampleOptions{Workers: 7, Duration: 15, Verbosity: "off"})
	require.Equal(t, []string{"escape", "sample", "-c", "/w/sample.json", "-w", "7", "-d", "15", "-o", "/w/histogram.json", "-v", "off"}, sample.Argv)

	draw := DrawCommand("escape", "color.json", "h.json", "frame.png")
	require.Equal(t, []string{"escape", "draw", "-c", "color.json", "-h", "h.json", "-o", "frame.png"}, draw.Argv)

	gif := CompositeCommand("convert", 0, 12, []string{"a.png", "b.png"}, "out.gif")
	require.Equal(t, []string{"convert", "-loop", "0", "-delay", "12", "-dispose", "previous", "a.png", "b.png", "out.gif"}, gif.Argv)

	rotate := RotateCommand("convert", "in.gif", 90, "out.gif")
	require.Equal(t, []string{"convert", "in.gif", "-distort", "SRT", "90", "out.gif"}, rotate.Argv)

	resize := ResizeCommand("convert", "frame.png", "200x200", "preview.png")
	require.Equal(t, []string{"convert", "frame.png", "-resize", "200x200", "preview.png"}, resize.Argv)
}

func TestCommandString(t *testing.T) {
	cmd := Command{Argv: []string{"convert", "my frame.png", "it's", ""}}
	require.Equal(t, `convert 'my frame.png' 'it'\''s' ''`, cmd.String())
}
