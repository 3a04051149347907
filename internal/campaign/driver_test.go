package campaign

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/SallySoul/escape/internal/expand"
	"github.com/SallySoul/escape/internal/model"
	"github.com/SallySoul/escape/internal/runner"
	"github.com/SallySoul/escape/internal/workspace"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// fakeExecutor records commands, writes a deterministic file to each "-o"
// target, and fails the call numbered failOn (1-based) with status 7.
type fakeExecutor struct {
	calls  []runner.Command
	failOn int
}

func (f *fakeExecutor) Run(_ context.Context, cmd runner.Command) error {
	f.calls = append(f.calls, cmd)
	if f.failOn > 0 && len(f.calls) == f.failOn {
		return &runner.ToolError{Command: cmd, ExitCode: 7}
	}
	for i, arg := range cmd.Argv {
		if arg == "-o" && i+1 < len(cmd.Argv) {
			if err := os.WriteFile(cmd.Argv[i+1], []byte(cmd.Step+" output\n"), 0644); err != nil {
				return err
			}
		}
	}
	return nil
}

func testViews() []model.ViewConfig {
	return []model.ViewConfig{
		{Center: model.Complex{Re: -0.5}, Zoom: 0.3, Width: 10, Height: 10},
		{Center: model.Complex{Re: -1.2, Im: 0.3}, Zoom: 4, Width: 10, Height: 10},
	}
}

func newStudy(t *testing.T, samples []int) *Study {
	t.Helper()
	study, err := NewStudy(model.StudySpec{
		Samples: samples,
		Cutoffs: []int{100},
		Width:   500,
		Height:  400,
	}, model.SampleConfig{WarmUpSamples: 10}, testViews()[:1], model.Tools{Workers: 7, Duration: 15})
	require.NoError(t, err)
	return study
}

func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	files := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		files[rel] = string(data)
		return nil
	})
	require.NoError(t, err)
	return files
}

func TestExecuteIsIdempotent(t *testing.T) {
	root := t.TempDir()
	store := workspace.NewDirStore(root)
	campaign := newStudy(t, []int{100, 1000, 10000})

	first := &fakeExecutor{}
	summary, err := NewDriver(store, Options{}, nil, WithExecutor(first)).Execute(context.Background(), campaign)
	require.NoError(t, err)
	require.Equal(t, 3, summary.Ran)
	require.Len(t, first.calls, 3)
	before := snapshot(t, root)
	require.Len(t, before, 6)

	core, logs := observer.New(zapcore.InfoLevel)
	second := &fakeExecutor{}
	summary, err = NewDriver(store, Options{}, zap.New(core), WithExecutor(second)).Execute(context.Background(), campaign)
	require.NoError(t, err)
	require.Empty(t, second.calls)
	require.Equal(t, 0, summary.Ran)
	require.Equal(t, 3, summary.Skipped)
	require.Len(t, logs.FilterMessage("workspace exists, skipping").All(), 3)
	require.Equal(t, before, snapshot(t, root))

	for _, r := range summary.Results {
		require.Equal(t, Done, r.State)
		require.True(t, r.Skipped)
	}
}

func TestExecuteFailsFast(t *testing.T) {
	root := t.TempDir()
	store := workspace.NewDirStore(root)
	samples := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	campaign := newStudy(t, samples)

	exec := &fakeExecutor{failOn: 3}
	summary, err := NewDriver(store, Options{}, nil, WithExecutor(exec)).Execute(context.Background(), campaign)
	require.ErrorIs(t, err, runner.ErrToolFailure)
	require.Len(t, exec.calls, 3)
	require.Len(t, summary.Results, 3)
	require.Equal(t, Failed, summary.Results[2].State)

	i := 0
	for d := range campaign.Space().Product() {
		exists, err := store.Exists(d)
		require.NoError(t, err)
		require.Equal(t, i < 3, exists, "job %d (%s)", i+1, d.ID())
		i++
	}
}

func TestLedgerRetriesFailedJob(t *testing.T) {
	root := t.TempDir()
	ledger, err := workspace.OpenLedger(filepath.Join(root, "ledger.db"), workspace.NewDirStore(filepath.Join(root, "out")))
	require.NoError(t, err)
	t.Cleanup(func() { ledger.Close() })
	campaign := newStudy(t, []int{1, 2, 3, 4})

	core, logs := observer.New(zapcore.InfoLevel)
	failing := &fakeExecutor{failOn: 2}
	_, err = NewDriver(ledger, Options{}, zap.New(core), WithExecutor(failing)).Execute(context.Background(), campaign)
	require.ErrorIs(t, err, runner.ErrToolFailure)
	require.Len(t, logs.FilterMessage("job failed, it will be retried on the next run").All(), 1)

	retry := &fakeExecutor{}
	summary, err := NewDriver(ledger, Options{}, nil, WithExecutor(retry)).Execute(context.Background(), campaign)
	require.NoError(t, err)
	require.Len(t, retry.calls, 3)
	require.Equal(t, 3, summary.Ran)
	require.Equal(t, 1, summary.Skipped)
	require.Equal(t, "study_sample2_cutoff100_view0", summary.Results[1].Descriptor.ID())
	require.False(t, summary.Results[1].Skipped)

	entries, err := ledger.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 4)
	for _, e := range entries {
		require.False(t, e.CompletedAt.IsZero(), e.ID)
	}
}

func TestDryRunLeavesStoreUntouched(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")
	store := workspace.NewDirStore(root)

	r := runner.NewRunner(os.Stdout, os.Stderr, true, false, nil)
	summary, err := NewDriver(store, Options{DryRun: true}, nil, WithExecutor(r)).Execute(context.Background(), newStudy(t, []int{5, 6}))
	require.NoError(t, err)
	require.Equal(t, 2, summary.Ran)
	require.NoDirExists(t, root)
	require.Equal(t, filepath.Join(root, "study_sample5_cutoff100_view0"), summary.Results[0].Workspace.Dir)
}

func TestStudyConfigMergesLayers(t *testing.T) {
	study, err := NewStudy(model.StudySpec{
		Samples:     []int{100, 1000},
		Cutoffs:     []int{20, 50},
		SwitchProbs: []float64{0.01, 0.2},
		Width:       500,
		Height:      400,
	}, model.SampleConfig{WarmUpSamples: 10, RandomSampleProb: 0.5}, testViews(), model.Tools{})
	require.NoError(t, err)
	require.Equal(t, 16, study.Space().Size())

	d := expand.Descriptor{Prefix: "study", Coords: []expand.Coord{
		{Axis: AxisSample, Index: 1, Label: "1000"},
		{Axis: AxisCutoff, Index: 0, Label: "20"},
		{Axis: AxisView, Index: 1, Label: "1"},
		{Axis: AxisSwitch, Index: 0, Label: "0.01"},
	}}
	name, cfg, err := study.Config(d)
	require.NoError(t, err)
	require.Equal(t, workspace.SampleConfigFile, name)

	sample := cfg.(model.SampleConfig)
	require.Equal(t, 1000, sample.Samples)
	require.Equal(t, []int{20}, sample.Cutoffs)
	require.Equal(t, 0.01, sample.RandomSampleProb)
	require.Equal(t, 10, sample.WarmUpSamples)
	require.Equal(t, model.ViewConfig{Center: model.Complex{Re: -1.2, Im: 0.3}, Zoom: 4, Width: 500, Height: 400}, sample.View)

	cmds := study.Commands(d, workspace.Workspace{ID: d.ID(), Dir: "/out/" + d.ID()})
	require.Len(t, cmds, 1)
	require.Equal(t, []string{
		"escape", "sample",
		"-c", "/out/study_sample1000_cutoff20_view1_switch0.01/sample.json",
		"-w", "1", "-d", "0",
		"-o", "/out/study_sample1000_cutoff20_view1_switch0.01/histogram.json",
		"-v", "off",
	}, cmds[0].Argv)
}

func TestNewStudyRejectsBadInput(t *testing.T) {
	_, err := NewStudy(model.StudySpec{Samples: []int{1}, Cutoffs: []int{1}, Width: 1, Height: 1}, model.SampleConfig{}, nil, model.Tools{})
	require.Error(t, err)

	_, err = NewStudy(model.StudySpec{Samples: []int{1}, Cutoffs: []int{1}}, model.SampleConfig{}, testViews(), model.Tools{})
	require.Error(t, err)

	_, err = NewStudy(model.StudySpec{Samples: []int{1, 1}, Cutoffs: []int{1}, Width: 1, Height: 1}, model.SampleConfig{}, testViews(), model.Tools{})
	require.Error(t, err)
}

func TestZoomAnimationWritesScheduledZoom(t *testing.T) {
	root := t.TempDir()
	store := workspace.NewDirStore(root)
	anim, err := NewZoomAnimation(model.ZoomSpec{Color: "/c/color.json", Start: 1, End: 100, Frames: 2}, model.SampleConfig{Cutoffs: []int{20}}, model.Tools{})
	require.NoError(t, err)

	exec := &fakeExecutor{}
	summary, err := NewDriver(store, Options{}, nil, WithExecutor(exec)).Execute(context.Background(), anim)
	require.NoError(t, err)
	require.Len(t, exec.calls, 4)
	require.Equal(t, runner.StepSample, exec.calls[0].Step)
	require.Equal(t, runner.StepDraw, exec.calls[1].Step)
	require.Equal(t, "/c/color.json", exec.calls[1].Argv[3])

	var zooms []float64
	for _, r := range summary.Results {
		data, err := os.ReadFile(r.Workspace.File(workspace.SampleConfigFile))
		require.NoError(t, err)
		var cfg model.SampleConfig
		require.NoError(t, json.Unmarshal(data, &cfg))
		zooms = append(zooms, cfg.View.Zoom)
	}
	require.InDelta(t, 100, zooms[0], 1e-9)
	require.InDelta(t, 10, zooms[1], 1e-9)

	require.Equal(t, []string{
		filepath.Join(root, "frame0", "frame.png"),
		filepath.Join(root, "frame1", "frame.png"),
	}, FramePaths(summary))
}

func TestOrbitAnimationSetsFamilyConstant(t *testing.T) {
	anim, err := NewOrbitAnimation(model.OrbitSpec{Color: "c.json", Family: "julia", Frames: 4}, model.SampleConfig{}, model.Tools{})
	require.NoError(t, err)

	d := expand.Descriptor{Coords: []expand.Coord{{Axis: "frame", Index: 2, Label: "2"}}}
	_, cfg, err := anim.Config(d)
	require.NoError(t, err)

	sample := cfg.(model.SampleConfig)
	require.NotNil(t, sample.JuliaSetParam)
	require.Nil(t, sample.MandelbrotParam)
	require.InDelta(t, -0.7885, sample.JuliaSetParam.Re, 1e-9)
	require.InDelta(t, 0, sample.JuliaSetParam.Im, 1e-9)

	_, err = NewOrbitAnimation(model.OrbitSpec{Color: "c.json", Family: "newton", Frames: 4}, model.SampleConfig{}, model.Tools{})
	require.Error(t, err)
	_, err = NewOrbitAnimation(model.OrbitSpec{Family: "julia", Frames: 4}, model.SampleConfig{}, model.Tools{})
	require.Error(t, err)
}

func TestRedrawReissuesDrawForExistingFrames(t *testing.T) {
	root := t.TempDir()
	store := workspace.NewDirStore(root)
	spec := model.ZoomSpec{Color: "color.json", Start: 1, End: 10, Frames: 3}

	anim, err := NewZoomAnimation(spec, model.SampleConfig{}, model.Tools{})
	require.NoError(t, err)
	_, err = NewDriver(store, Options{}, nil, WithExecutor(&fakeExecutor{})).Execute(context.Background(), anim)
	require.NoError(t, err)

	spec.Redraw = true
	anim, err = NewZoomAnimation(spec, model.SampleConfig{}, model.Tools{})
	require.NoError(t, err)
	exec := &fakeExecutor{}
	summary, err := NewDriver(store, Options{}, nil, WithExecutor(exec)).Execute(context.Background(), anim)
	require.NoError(t, err)
	require.Equal(t, 3, summary.Skipped)
	require.Equal(t, 3, summary.Resumed)
	require.Len(t, exec.calls, 3)
	for _, c := range exec.calls {
		require.Equal(t, runner.StepDraw, c.Step)
	}
}

func TestStateTransitions(t *testing.T) {
	job := &jobState{id: "j", state: Pending}
	require.NoError(t, job.advance(Running))
	require.NoError(t, job.advance(Done))
	require.Error(t, job.advance(Running))

	job = &jobState{id: "j", state: Pending}
	require.Error(t, job.advance(Done))
	require.NoError(t, job.advance(Skipped))
	require.NoError(t, job.advance(Done))

	job = &jobState{id: "j", state: Skipped}
	job.fail()
	require.Equal(t, Skipped, job.state)
	require.Equal(t, "skipped", job.state.String())
}
