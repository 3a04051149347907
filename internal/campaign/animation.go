package campaign

import (
	"fmt"

	"github.com/SallySoul/escape/internal/expand"
	"github.com/SallySoul/escape/internal/family"
	"github.com/SallySoul/escape/internal/model"
	"github.com/SallySoul/escape/internal/runner"
	"github.com/SallySoul/escape/internal/schedule"
	"github.com/SallySoul/escape/internal/workspace"
)

// Animation samples and draws one frame per workspace; a schedule sets the
// per-frame parameter.
type Animation struct {
	kind     string
	template model.SampleConfig
	color    string
	tools    model.Tools
	redraw   bool
	space    expand.Space
	apply    func(cfg *model.SampleConfig, frame int)
}

// NewZoomAnimation eases view.zoom between start and end in log space.
func NewZoomAnimation(spec model.ZoomSpec, template model.SampleConfig, tools model.Tools) (*Animation, error) {
	zoom, err := schedule.NewZoom(spec.Start, spec.End, spec.Frames)
	if err != nil {
		return nil, err
	}
	return newAnimation(model.KindZoom, spec.Frames, spec.Color, spec.Redraw, template, tools,
		func(cfg *model.SampleConfig, frame int) {
			cfg.View.Zoom = zoom.At(frame)
		})
}

// NewOrbitAnimation moves the family constant once around a circle.
func NewOrbitAnimation(spec model.OrbitSpec, template model.SampleConfig, tools model.Tools) (*Animation, error) {
	fam, err := family.Lookup(spec.Family)
	if err != nil {
		return nil, err
	}
	angle, err := schedule.NewAngle(spec.Frames)
	if err != nil {
		return nil, err
	}
	radius := spec.Radius
	if radius == 0 {
		radius = fam.DefaultRadius()
	}
	if radius < 0 {
		return nil, fmt.Errorf("orbit radius must not be negative, got %g", radius)
	}
	return newAnimation(model.KindOrbit, spec.Frames, spec.Color, spec.Redraw, template, tools,
		func(cfg *model.SampleConfig, frame int) {
			fam.Apply(cfg, angle.At(frame), radius)
		})
}

func newAnimation(kind string, frames int, color string, redraw bool, template model.SampleConfig, tools model.Tools, apply func(*model.SampleConfig, int)) (*Animation, error) {
	if color == "" {
		return nil, fmt.Errorf("%s animation needs a color config", kind)
	}
	space, err := expand.Frames(frames)
	if err != nil {
		return nil, err
	}
	return &Animation{
		kind:     kind,
		template: template.Clone(),
		color:    color,
		tools:    tools.WithDefaults(),
		redraw:   redraw,
		space:    space,
		apply:    apply,
	}, nil
}

func (a *Animation) Kind() string        { return a.kind }
func (a *Animation) Space() expand.Space { return a.space }

func (a *Animation) Config(d expand.Descriptor) (string, any, error) {
	frame, ok := d.Index("frame")
	if !ok {
		return "", nil, fmt.Errorf("job %s has no frame coordinate", d.ID())
	}
	cfg := a.template.Clone()
	a.apply(&cfg, frame)
	return workspace.SampleConfigFile, cfg, nil
}

func (a *Animation) Commands(d expand.Descriptor, ws workspace.Workspace) []runner.Command {
	return []runner.Command{
		runner.SampleCommand(a.tools.Renderer,
			ws.File(workspace.SampleConfigFile),
			ws.File(workspace.HistogramFile),
			sampleOptions(a.tools),
		),
		a.drawCommand(ws),
	}
}

// Resume redraws existing frames when redraw mode is on, so a new color
// config can be applied without sampling again.
func (a *Animation) Resume(d expand.Descriptor, ws workspace.Workspace) []runner.Command {
	if !a.redraw {
		return nil
	}
	return []runner.Command{a.drawCommand(ws)}
}

func (a *Animation) drawCommand(ws workspace.Workspace) runner.Command {
	return runner.DrawCommand(a.tools.Renderer, a.color, ws.File(workspace.HistogramFile), ws.File(workspace.FrameFile))
}

// FramePaths lists the frame image of every job in frame order.
func FramePaths(summary *Summary) []string {
	paths := make([]string, 0, len(summary.Results))
	for _, r := range summary.Results {
		paths = append(paths, r.Workspace.File(workspace.FrameFile))
	}
	return paths
}
