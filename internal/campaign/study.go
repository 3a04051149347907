package campaign

import (
	"fmt"

	"github.com/SallySoul/escape/internal/expand"
	"github.com/SallySoul/escape/internal/model"
	"github.com/SallySoul/escape/internal/runner"
	"github.com/SallySoul/escape/internal/workspace"
)

// Study axis names, outermost first
const (
	AxisSample = "sample"
	AxisCutoff = "cutoff"
	AxisView   = "view"
	AxisSwitch = "switch"
)

// Study samples every combination of sample count, cutoff, view preset and
// switch probability at a fixed image size.
type Study struct {
	template    model.SampleConfig
	views       []model.ViewConfig
	samples     []int
	cutoffs     []int
	switchProbs []float64
	width       int
	height      int
	tools       model.Tools
	space       expand.Space
}

// NewStudy builds a study campaign. An empty switch probability list drops
// that axis and keeps the template's value.
func NewStudy(spec model.StudySpec, template model.SampleConfig, views []model.ViewConfig, tools model.Tools) (*Study, error) {
	if len(views) == 0 {
		return nil, fmt.Errorf("study needs at least one view preset")
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("study needs a positive width and height, got %dx%d", spec.Width, spec.Height)
	}

	axes := []expand.Axis{
		{Name: AxisSample, Labels: expand.IntLabels(spec.Samples)},
		{Name: AxisCutoff, Labels: expand.IntLabels(spec.Cutoffs)},
		{Name: AxisView, Labels: expand.IndexLabels(len(views))},
	}
	if len(spec.SwitchProbs) > 0 {
		axes = append(axes, expand.Axis{Name: AxisSwitch, Labels: expand.FloatLabels(spec.SwitchProbs)})
	}
	space, err := expand.NewSpace("study", axes...)
	if err != nil {
		return nil, fmt.Errorf("invalid study axes: %w", err)
	}

	return &Study{
		template:    template.Clone(),
		views:       views,
		samples:     spec.Samples,
		cutoffs:     spec.Cutoffs,
		switchProbs: spec.SwitchProbs,
		width:       spec.Width,
		height:      spec.Height,
		tools:       tools.WithDefaults(),
		space:       space,
	}, nil
}

func (s *Study) Kind() string        { return model.KindStudy }
func (s *Study) Space() expand.Space { return s.space }

// Config merges the template with the job's axis values; later layers win:
// template < view preset < fixed size < axis values.
func (s *Study) Config(d expand.Descriptor) (string, any, error) {
	cfg := s.template.Clone()

	vi, ok := d.Index(AxisView)
	if !ok {
		return "", nil, fmt.Errorf("job %s has no view coordinate", d.ID())
	}
	cfg.View = s.views[vi]
	cfg.View.Width = s.width
	cfg.View.Height = s.height

	si, _ := d.Index(AxisSample)
	cfg.Samples = s.samples[si]

	ci, _ := d.Index(AxisCutoff)
	cfg.Cutoffs = []int{s.cutoffs[ci]}

	if pi, ok := d.Index(AxisSwitch); ok {
		cfg.RandomSampleProb = s.switchProbs[pi]
	}
	return workspace.SampleConfigFile, cfg, nil
}

func (s *Study) Commands(d expand.Descriptor, ws workspace.Workspace) []runner.Command {
	return []runner.Command{
		runner.SampleCommand(s.tools.Renderer,
			ws.File(workspace.SampleConfigFile),
			ws.File(workspace.HistogramFile),
			sampleOptions(s.tools),
		),
	}
}

func sampleOptions(t model.Tools) runner.SampleOptions {
	return runner.SampleOptions{Workers: t.Workers, Duration: t.Duration, Verbosity: t.Verbosity}
}
