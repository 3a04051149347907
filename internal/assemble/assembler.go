// Package assemble turns ordered frame images into an animation with the
// external compositing tool.
package assemble

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/SallySoul/escape/internal/model"
	"github.com/SallySoul/escape/internal/runner"
	"go.uber.org/zap"
)

// DefaultName is used when the animation spec names no output file.
const DefaultName = "animation.gif"

// FrameOrder returns the frames in compositing order. With reverse set the
// interior frames follow in reverse, so 0..4 plays as 0,1,2,3,4,3,2,1 and the
// loop point holds neither end twice.
func FrameOrder(paths []string, reverse bool) []string {
	order := make([]string, 0, 2*len(paths))
	order = append(order, paths...)
	if !reverse {
		return order
	}
	for i := len(paths) - 2; i >= 1; i-- {
		order = append(order, paths[i])
	}
	return order
}

// Assembler builds animations from frame images
type Assembler struct {
	Compositor string
	// Rebuild reissues every stage even when its output exists, for frames
	// that changed since the last assembly.
	Rebuild bool
	exec    runner.Executor
	dryRun  bool
	logger  *zap.Logger
}

// NewAssembler creates an assembler issuing commands through exec. In dry
// run mode every stage is issued; existing outputs are not consulted.
func NewAssembler(compositor string, exec runner.Executor, dryRun bool, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{Compositor: compositor, exec: exec, dryRun: dryRun, logger: logger}
}

// Stage is one compositor invocation and the file it produces
type Stage struct {
	Output  string
	Command runner.Command
}

// Stages returns the compositor invocations for an animation: the composite
// into dir/<spec.Name> and, when spec.Rotate is non-zero, a rotation of an
// intermediate composite into that file. The last stage's output is the
// final artifact.
func (a *Assembler) Stages(frames []string, spec model.GIFSpec, dir string) ([]Stage, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames to assemble")
	}
	if spec.Delay < 0 || spec.Loop < 0 {
		return nil, fmt.Errorf("delay and loop must not be negative, got %d and %d", spec.Delay, spec.Loop)
	}

	name := spec.Name
	if name == "" {
		name = DefaultName
	}
	final := filepath.Join(dir, name)

	composite := final
	if spec.Rotate != 0 {
		ext := filepath.Ext(name)
		composite = filepath.Join(dir, name[:len(name)-len(ext)]+".unrotated"+ext)
	}

	stages := []Stage{{
		Output:  composite,
		Command: runner.CompositeCommand(a.Compositor, spec.Loop, spec.Delay, FrameOrder(frames, spec.Reverse), composite),
	}}
	if spec.Rotate != 0 {
		stages = append(stages, Stage{
			Output:  final,
			Command: runner.RotateCommand(a.Compositor, composite, spec.Rotate, final),
		})
	}
	return stages, nil
}

// Assemble runs the stages in order, skipping any whose output already
// exists unless Rebuild is set, and returns the path of the final artifact.
func (a *Assembler) Assemble(ctx context.Context, frames []string, spec model.GIFSpec, dir string) (string, error) {
	stages, err := a.Stages(frames, spec, dir)
	if err != nil {
		return "", err
	}
	for _, s := range stages {
		if err := a.stage(ctx, s.Output, s.Command); err != nil {
			return "", err
		}
	}
	return stages[len(stages)-1].Output, nil
}

func (a *Assembler) stage(ctx context.Context, output string, cmd runner.Command) error {
	if !a.dryRun && !a.Rebuild {
		done, err := exists(output)
		if err != nil {
			return err
		}
		if done {
			a.logger.Info("artifact exists, skipping", zap.String("step", cmd.Step), zap.String("path", output))
			return nil
		}
	}
	return a.exec.Run(ctx, cmd)
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s: %w", path, err)
}
