// Package campaign drives a campaign's jobs through the workspace store and
// the external renderer, one job at a time, skipping jobs that are already
// satisfied.
package campaign

import (
	"context"
	"fmt"
	"os"

	"github.com/SallySoul/escape/internal/expand"
	"github.com/SallySoul/escape/internal/observability"
	"github.com/SallySoul/escape/internal/runner"
	"github.com/SallySoul/escape/internal/workspace"
	"go.uber.org/zap"
)

// Options is fixed for the lifetime of a driver
type Options struct {
	// DryRun leaves the store untouched and logs commands instead of running them.
	DryRun bool
	// Verbose logs every command line.
	Verbose bool
}

// Campaign is one fixed campaign shape: its parameter space, and how each
// job's configuration and command lines are derived.
type Campaign interface {
	Kind() string
	Space() expand.Space
	// Config returns the configuration file name and record for a job.
	Config(d expand.Descriptor) (string, any, error)
	Commands(d expand.Descriptor, ws workspace.Workspace) []runner.Command
}

// Resumer is implemented by campaigns that still issue commands for a job
// whose workspace already exists.
type Resumer interface {
	Resume(d expand.Descriptor, ws workspace.Workspace) []runner.Command
}

// Result is the final state of one job
type Result struct {
	Descriptor expand.Descriptor
	Workspace  workspace.Workspace
	State      State
	// Skipped is set when the workspace already existed.
	Skipped bool
}

// Summary describes a finished (or aborted) campaign
type Summary struct {
	Kind    string
	Results []Result
	Ran     int
	Skipped int
	// Resumed counts skipped jobs that still issued commands.
	Resumed int
}

// Driver executes campaigns
type Driver struct {
	store   workspace.Store
	exec    runner.Executor
	opts    Options
	logger  *zap.Logger
	metrics *observability.Metrics
}

// DriverOption customises a Driver
type DriverOption func(*Driver)

// WithExecutor replaces the default os/exec runner
func WithExecutor(exec runner.Executor) DriverOption {
	return func(d *Driver) { d.exec = exec }
}

// WithMetrics records job outcomes
func WithMetrics(m *observability.Metrics) DriverOption {
	return func(d *Driver) { d.metrics = m }
}

// NewDriver creates a driver over store
func NewDriver(store workspace.Store, opts Options, logger *zap.Logger, options ...DriverOption) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Driver{store: store, opts: opts, logger: logger}
	for _, opt := range options {
		opt(d)
	}
	if d.exec == nil {
		r := runner.NewRunner(os.Stdout, os.Stderr, opts.DryRun, opts.Verbose, logger)
		r.Metrics = d.metrics
		d.exec = r
	}
	return d
}

// Executor is the executor the driver issues commands through
func (dr *Driver) Executor() runner.Executor {
	return dr.exec
}

// Execute runs every job of c in enumeration order and stops at the first
// failure; the summary then covers the jobs up to and including it.
func (dr *Driver) Execute(ctx context.Context, c Campaign) (*Summary, error) {
	space := c.Space()
	if err := space.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s campaign: %w", c.Kind(), err)
	}

	dr.logger.Info("campaign started",
		zap.String("kind", c.Kind()),
		zap.Int("jobs", space.Size()),
		zap.Bool("dry_run", dr.opts.DryRun),
	)

	summary := &Summary{Kind: c.Kind()}
	for d := range space.Product() {
		job := &jobState{id: d.ID(), state: Pending}
		ws, err := dr.executeJob(ctx, c, d, job)
		summary.Results = append(summary.Results, Result{Descriptor: d, Workspace: ws, State: job.state, Skipped: job.skipped})
		if err != nil {
			dr.metrics.RecordJob(c.Kind(), observability.OutcomeFailed)
			return summary, fmt.Errorf("job %s: %w", d.ID(), err)
		}

		if job.skipped {
			summary.Skipped++
			if job.resumed {
				summary.Resumed++
			}
		} else {
			summary.Ran++
		}
	}

	dr.logger.Info("campaign finished",
		zap.String("kind", c.Kind()),
		zap.Int("ran", summary.Ran),
		zap.Int("skipped", summary.Skipped),
		zap.Int("resumed", summary.Resumed),
	)
	return summary, nil
}

func (dr *Driver) executeJob(ctx context.Context, c Campaign, d expand.Descriptor, job *jobState) (workspace.Workspace, error) {
	exists, err := dr.store.Exists(d)
	if err != nil {
		return workspace.Workspace{}, err
	}

	if exists {
		ws := workspace.Handle(dr.store, d)
		if err := job.advance(Skipped); err != nil {
			return ws, err
		}
		job.skipped = true
		dr.logger.Info("workspace exists, skipping", zap.String("job", job.id), zap.String("dir", ws.Dir))
		dr.metrics.RecordJob(c.Kind(), observability.OutcomeSkipped)

		if resumer, ok := c.(Resumer); ok {
			if cmds := resumer.Resume(d, ws); len(cmds) > 0 {
				if err := job.advance(Running); err != nil {
					return ws, err
				}
				if err := dr.run(ctx, job, cmds); err != nil {
					return ws, err
				}
				job.resumed = true
			}
		}
		return ws, job.advance(Done)
	}

	if err := job.advance(Running); err != nil {
		return workspace.Workspace{}, err
	}

	name, cfg, err := c.Config(d)
	if err != nil {
		job.fail()
		return workspace.Workspace{}, fmt.Errorf("failed to derive config: %w", err)
	}

	var ws workspace.Workspace
	if dr.opts.DryRun {
		ws = workspace.Handle(dr.store, d)
		dr.logger.Info("dry run: would create workspace", zap.String("job", job.id), zap.String("dir", ws.Dir))
	} else {
		ws, err = dr.store.Create(d)
		if err != nil {
			job.fail()
			return ws, err
		}
		if _, err := dr.store.WriteConfig(ws, name, cfg); err != nil {
			job.fail()
			return ws, err
		}
	}

	completer, tracked := dr.store.(workspace.Completer)
	if err := dr.run(ctx, job, c.Commands(d, ws)); err != nil {
		switch {
		case dr.opts.DryRun:
		case tracked:
			dr.logger.Warn("job failed, it will be retried on the next run",
				zap.String("job", job.id), zap.String("dir", ws.Dir))
		default:
			dr.logger.Warn("job failed, workspace left in place; remove it to retry the job",
				zap.String("job", job.id), zap.String("dir", ws.Dir))
		}
		return ws, err
	}
	if tracked && !dr.opts.DryRun {
		if err := completer.Complete(ws); err != nil {
			job.fail()
			return ws, err
		}
	}

	outcome := observability.OutcomeRan
	if dr.opts.DryRun {
		outcome = observability.OutcomeDryRun
	}
	dr.metrics.RecordJob(c.Kind(), outcome)
	return ws, job.advance(Done)
}

func (dr *Driver) run(ctx context.Context, job *jobState, cmds []runner.Command) error {
	for _, cmd := range cmds {
		if err := dr.exec.Run(ctx, cmd); err != nil {
			job.fail()
			return err
		}
	}
	return nil
}
