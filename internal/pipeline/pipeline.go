// Package pipeline runs a loaded campaign end to end: input checks, job
// execution, then animation assembly or the grid report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/SallySoul/escape/internal/assemble"
	"github.com/SallySoul/escape/internal/campaign"
	"github.com/SallySoul/escape/internal/grid"
	"github.com/SallySoul/escape/internal/loader"
	"github.com/SallySoul/escape/internal/model"
	"github.com/SallySoul/escape/internal/observability"
	"github.com/SallySoul/escape/internal/render"
	"github.com/SallySoul/escape/internal/runner"
	"github.com/SallySoul/escape/internal/workspace"
	"go.uber.org/zap"
)

// Deps are the collaborators of a pipeline run
type Deps struct {
	Loader  *loader.Loader
	Options campaign.Options
	// Ledger, when set, is the SQLite ledger backing the workspace store.
	Ledger string
	// Executor overrides the os/exec runner.
	Executor runner.Executor
	Logger   *zap.Logger
	Metrics  *observability.Metrics
}

// Result is the outcome of a completed run
type Result struct {
	Summary *campaign.Summary
	// Artifact is the animation or report path; empty for studies.
	Artifact string
}

// prepared is a campaign whose inputs have all been loaded and checked.
type prepared struct {
	campaign campaign.Campaign
	gif      *model.GIFSpec
	grid     *grid.Grid
	report   string
}

// Run executes c. Every input is loaded and checked before the first
// workspace is touched.
func Run(ctx context.Context, c *model.Campaign, deps Deps) (*Result, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	p, err := prepare(c, deps.Loader)
	if err != nil {
		return nil, err
	}

	store, closeStore, err := openStore(c.Output, deps.Ledger, deps.Options.DryRun)
	if err != nil {
		return nil, err
	}
	defer closeStore()

	exec := deps.Executor
	if exec == nil {
		r := runner.NewRunner(os.Stdout, os.Stderr, deps.Options.DryRun, deps.Options.Verbose, logger)
		r.Metrics = deps.Metrics
		exec = r
	}

	driver := campaign.NewDriver(store, deps.Options, logger,
		campaign.WithExecutor(exec),
		campaign.WithMetrics(deps.Metrics),
	)
	summary, err := driver.Execute(ctx, p.campaign)
	if err != nil {
		return &Result{Summary: summary}, err
	}

	result := &Result{Summary: summary}
	switch {
	case p.gif != nil:
		tools := c.Tools.WithDefaults()
		asm := assemble.NewAssembler(tools.Compositor, exec, deps.Options.DryRun, logger)
		// New or redrawn frames invalidate an existing animation.
		asm.Rebuild = summary.Ran > 0 || summary.Resumed > 0
		artifact, err := asm.Assemble(ctx, campaign.FramePaths(summary), *p.gif, c.Output)
		if err != nil {
			return result, fmt.Errorf("failed to assemble animation: %w", err)
		}
		result.Artifact = artifact
		logger.Info("animation assembled", zap.String("path", artifact))

	case p.grid != nil:
		path := filepath.Join(c.Output, p.report)
		result.Artifact = path
		if deps.Options.DryRun {
			logger.Info("dry run: would write report", zap.String("path", path))
			break
		}
		report, err := p.grid.Report(store, c.Output, c.Metadata.Name)
		if err != nil {
			return result, err
		}
		if err := grid.WriteReport(path, report); err != nil {
			return result, err
		}
		logger.Info("report written", zap.String("path", path))
	}
	return result, nil
}

// Plan enumerates c into a plan document without running anything.
func Plan(c *model.Campaign, deps Deps) (*model.Plan, error) {
	p, err := prepare(c, deps.Loader)
	if err != nil {
		return nil, err
	}

	// A plan never writes, so an absent ledger is not created.
	store, closeStore, err := openStore(c.Output, deps.Ledger, true)
	if err != nil {
		return nil, err
	}
	defer closeStore()

	plan, err := render.NewRenderer(store).RenderPlan(c.Metadata, c.Output, p.campaign)
	if err != nil {
		return nil, err
	}

	if p.gif != nil {
		frames := make([]string, 0, len(plan.Jobs))
		for _, job := range plan.Jobs {
			frames = append(frames, filepath.Join(job.Workspace, workspace.FrameFile))
		}
		asm := assemble.NewAssembler(c.Tools.WithDefaults().Compositor, nil, true, deps.Logger)
		stages, err := asm.Stages(frames, *p.gif, c.Output)
		if err != nil {
			return nil, err
		}
		for _, s := range stages {
			plan.Finalize = append(plan.Finalize, render.ConvertSteps([]runner.Command{s.Command})...)
		}
	}
	return plan, nil
}

// Validate loads and checks every input of c without touching the output root.
func Validate(c *model.Campaign, deps Deps) error {
	_, err := prepare(c, deps.Loader)
	return err
}

func prepare(c *model.Campaign, l *loader.Loader) (*prepared, error) {
	if l == nil {
		var err error
		if l, err = loader.NewLoader(); err != nil {
			return nil, err
		}
	}
	if c.Output == "" {
		c.Output = "."
	}
	tools := c.Tools

	switch c.Kind {
	case model.KindStudy:
		if c.Study == nil {
			return nil, fmt.Errorf("%w: study campaign has no study block", loader.ErrMissingInput)
		}
		if err := requireDuration(tools); err != nil {
			return nil, err
		}
		views, err := l.LoadViews(c.Study.Views)
		if err != nil {
			return nil, err
		}
		var template model.SampleConfig
		if c.Study.Template != "" {
			if template, err = l.LoadSampleConfig(c.Study.Template); err != nil {
				return nil, err
			}
		}
		s, err := campaign.NewStudy(*c.Study, template, views, tools)
		if err != nil {
			return nil, err
		}
		return &prepared{campaign: s}, nil

	case model.KindZoom:
		if c.Zoom == nil {
			return nil, fmt.Errorf("%w: zoom campaign has no zoom block", loader.ErrMissingInput)
		}
		template, err := loadAnimationInputs(l, tools, c.Zoom.Template, c.Zoom.Color)
		if err != nil {
			return nil, err
		}
		a, err := campaign.NewZoomAnimation(*c.Zoom, template, tools)
		if err != nil {
			return nil, err
		}
		return &prepared{campaign: a, gif: &c.Zoom.GIF}, nil

	case model.KindOrbit:
		if c.Orbit == nil {
			return nil, fmt.Errorf("%w: orbit campaign has no orbit block", loader.ErrMissingInput)
		}
		template, err := loadAnimationInputs(l, tools, c.Orbit.Template, c.Orbit.Color)
		if err != nil {
			return nil, err
		}
		a, err := campaign.NewOrbitAnimation(*c.Orbit, template, tools)
		if err != nil {
			return nil, err
		}
		return &prepared{campaign: a, gif: &c.Orbit.GIF}, nil

	case model.KindGrid:
		if c.Grid == nil {
			return nil, fmt.Errorf("%w: grid campaign has no grid block", loader.ErrMissingInput)
		}
		sample, err := l.LoadSampleConfig(c.Grid.SampleConfig)
		if err != nil {
			return nil, err
		}
		if err := loader.RequireFile("histogram", c.Grid.Histogram); err != nil {
			return nil, err
		}
		g, err := grid.New(*c.Grid, sample, tools)
		if err != nil {
			return nil, err
		}
		report := c.Grid.Report
		if report == "" {
			report = grid.DefaultReportName
		}
		return &prepared{campaign: g, grid: g, report: report}, nil

	default:
		return nil, fmt.Errorf("unknown campaign kind %q", c.Kind)
	}
}

func loadAnimationInputs(l *loader.Loader, tools model.Tools, template, color string) (model.SampleConfig, error) {
	if err := requireDuration(tools); err != nil {
		return model.SampleConfig{}, err
	}
	cfg, err := l.LoadSampleConfig(template)
	if err != nil {
		return model.SampleConfig{}, err
	}
	if _, err := l.LoadColorConfig(color); err != nil {
		return model.SampleConfig{}, err
	}
	return cfg, nil
}

func requireDuration(t model.Tools) error {
	if t.Duration <= 0 {
		return fmt.Errorf("sampling duration must be positive, got %d seconds", t.Duration)
	}
	return nil
}

// openStore returns the workspace store for root. With readOnly set, an
// absent ledger is not created: a plain directory store answers Exists the
// same way for it.
func openStore(root, ledger string, readOnly bool) (workspace.Store, func(), error) {
	dirs := workspace.NewDirStore(root)
	if ledger == "" {
		return dirs, func() {}, nil
	}
	if readOnly {
		if _, err := os.Stat(ledger); errors.Is(err, fs.ErrNotExist) {
			return dirs, func() {}, nil
		}
	}
	store, err := workspace.OpenLedger(ledger, dirs)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { store.Close() }, nil
}
