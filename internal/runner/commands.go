package runner

import (
	"strconv"
)

// Step labels
const (
	StepSample    = "sample"
	StepDraw      = "draw"
	StepComposite = "composite"
	StepRotate    = "rotate"
	StepResize    = "resize"
)

// SampleOptions are the renderer's fixed sampling flags
type SampleOptions struct {
	Workers   int
	Duration  int // seconds
	Verbosity string
}

// SampleCommand: <renderer> sample -c <config> -w <workers> -d <seconds> -o <histogram> -v <verbosity>
func SampleCommand(renderer, config, histogram string, opts SampleOptions) Command {
	return Command{Step: StepSample, Argv: []string{
		renderer, "sample",
		"-c", config,
		"-w", strconv.Itoa(opts.Workers),
		"-d", strconv.Itoa(opts.Duration),
		"-o", histogram,
		"-v", opts.Verbosity,
	}}
}

// DrawCommand: <renderer> draw -c <color> -h <histogram> -o <image>
func DrawCommand(renderer, color, histogram, image string) Command {
	return Command{Step: StepDraw, Argv: []string{
		renderer, "draw",
		"-c", color,
		"-h", histogram,
		"-o", image,
	}}
}

// CompositeCommand: <tool> -loop <n> -delay <cs> -dispose previous <frames...> <output>
func CompositeCommand(tool string, loop, delay int, frames []string, output string) Command {
	argv := make([]string, 0, len(frames)+8)
	argv = append(argv, tool,
		"-loop", strconv.Itoa(loop),
		"-delay", strconv.Itoa(delay),
		"-dispose", "previous",
	)
	argv = append(argv, frames...)
	argv = append(argv, output)
	return Command{Step: StepComposite, Argv: argv}
}

// RotateCommand: <tool> <input> -distort SRT <degrees> <output>
func RotateCommand(tool, input string, degrees float64, output string) Command {
	return Command{Step: StepRotate, Argv: []string{
		tool, input,
		"-distort", "SRT", strconv.FormatFloat(degrees, 'g', -1, 64),
		output,
	}}
}

// ResizeCommand: <tool> <input> -resize <WxH> <output>
func ResizeCommand(tool, input, size, output string) Command {
	return Command{Step: StepResize, Argv: []string{tool, input, "-resize", size, output}}
}
