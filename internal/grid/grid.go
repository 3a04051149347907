// Package grid compares color exponents per cutoff bucket for one existing
// histogram: each cell redraws the histogram with a single bucket lit.
package grid

import (
	"fmt"
	"path/filepath"

	"github.com/SallySoul/escape/internal/expand"
	"github.com/SallySoul/escape/internal/model"
	"github.com/SallySoul/escape/internal/runner"
	"github.com/SallySoul/escape/internal/workspace"
)

// Grid axis names
const (
	AxisCutoff = "cutoff"
	AxisPower  = "power"
)

// DefaultPreviewSize is the thumbnail geometry when none is given.
const DefaultPreviewSize = "200x200"

// Grid is a campaign over cutoff buckets x color powers
type Grid struct {
	histogram   string
	cutoffs     []int
	powers      []float64
	previewSize string
	tools       model.Tools
	baseline    model.ColorConfig
	space       expand.Space
}

// New builds a grid for the buckets of sample, drawing from histogram.
func New(spec model.GridSpec, sample model.SampleConfig, tools model.Tools) (*Grid, error) {
	if spec.Histogram == "" {
		return nil, fmt.Errorf("grid needs a histogram")
	}
	if len(sample.Cutoffs) == 0 {
		return nil, fmt.Errorf("sample config %s defines no cutoff buckets", spec.SampleConfig)
	}

	size := spec.PreviewSize
	if size == "" {
		size = DefaultPreviewSize
	}
	var w, h int
	if n, err := fmt.Sscanf(size, "%dx%d", &w, &h); err != nil || n != 2 || w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid preview size %q, want WxH", size)
	}

	space, err := expand.NewSpace("",
		expand.Axis{Name: AxisCutoff, Labels: expand.IntLabels(sample.Cutoffs)},
		expand.Axis{Name: AxisPower, Labels: expand.FloatLabels(spec.Powers)},
	)
	if err != nil {
		return nil, fmt.Errorf("invalid grid axes: %w", err)
	}

	return &Grid{
		histogram:   spec.Histogram,
		cutoffs:     append([]int(nil), sample.Cutoffs...),
		powers:      append([]float64(nil), spec.Powers...),
		previewSize: size,
		tools:       tools.WithDefaults(),
		baseline:    model.Baseline(len(sample.Cutoffs)),
		space:       space,
	}, nil
}

func (g *Grid) Kind() string        { return model.KindGrid }
func (g *Grid) Space() expand.Space { return g.space }

// Config lights the cell's bucket in white at the cell's power; every other
// bucket keeps the baseline.
func (g *Grid) Config(d expand.Descriptor) (string, any, error) {
	bi, ok := d.Index(AxisCutoff)
	if !ok {
		return "", nil, fmt.Errorf("job %s has no cutoff coordinate", d.ID())
	}
	pi, ok := d.Index(AxisPower)
	if !ok {
		return "", nil, fmt.Errorf("job %s has no power coordinate", d.ID())
	}
	cfg, err := g.baseline.Isolate(bi, model.White, g.powers[pi])
	if err != nil {
		return "", nil, err
	}
	return workspace.ColorConfigFile, cfg, nil
}

func (g *Grid) Commands(d expand.Descriptor, ws workspace.Workspace) []runner.Command {
	return []runner.Command{
		runner.DrawCommand(g.tools.Renderer, ws.File(workspace.ColorConfigFile), g.histogram, ws.File(workspace.FrameFile)),
		runner.ResizeCommand(g.tools.Compositor, ws.File(workspace.FrameFile), g.previewSize, ws.File(workspace.PreviewFile)),
	}
}

// Report lays the cells out with one row per bucket and one column per
// power, both in input order. Paths are relative to dir.
func (g *Grid) Report(store workspace.Store, dir, title string) (Report, error) {
	report := Report{Title: title, Powers: g.space.Axes[1].Labels}
	for d := range g.space.Product() {
		bi, _ := d.Index(AxisCutoff)
		if bi == len(report.Rows) {
			report.Rows = append(report.Rows, Row{Cutoff: g.cutoffs[bi]})
		}
		row := &report.Rows[bi]

		ws := workspace.Handle(store, d)
		thumb, err := relative(dir, ws.File(workspace.PreviewFile))
		if err != nil {
			return Report{}, err
		}
		full, err := relative(dir, ws.File(workspace.FrameFile))
		if err != nil {
			return Report{}, err
		}
		row.Cells = append(row.Cells, Cell{Thumbnail: thumb, Image: full})
	}
	return report, nil
}

func relative(base, target string) (string, error) {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absBase, absTarget)
	if err != nil {
		return "", fmt.Errorf("failed to relate %s to %s: %w", target, base, err)
	}
	return filepath.ToSlash(rel), nil
}
