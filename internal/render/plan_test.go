package render

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/SallySoul/escape/internal/campaign"
	"github.com/SallySoul/escape/internal/model"
	"github.com/SallySoul/escape/internal/workspace"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testPlan(t *testing.T) (*Renderer, *model.Plan) {
	t.Helper()
	root := t.TempDir()
	store := workspace.NewDirStore(root)
	anim, err := campaign.NewZoomAnimation(model.ZoomSpec{Color: "color.json", Start: 1, End: 10, Frames: 3}, model.SampleConfig{}, model.Tools{})
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "frame1"), 0755))

	r := NewRenderer(store)
	plan, err := r.RenderPlan(model.Metadata{Name: "head"}, root, anim)
	require.NoError(t, err)
	return r, plan
}

func TestRenderPlan(t *testing.T) {
	_, plan := testPlan(t)

	require.Equal(t, APIVersion, plan.APIVersion)
	require.Equal(t, model.KindZoom, plan.Campaign)
	require.Len(t, plan.Jobs, 3)
	require.Equal(t, "frame0", plan.Jobs[0].ID)
	require.Equal(t, map[string]string{"frame": "0"}, plan.Jobs[0].Coords)
	require.False(t, plan.Jobs[0].Exists)
	require.True(t, plan.Jobs[1].Exists)
	require.Len(t, plan.Jobs[2].Steps, 2)
	require.Equal(t, "sample", plan.Jobs[2].Steps[0].Name)
	require.Equal(t, "draw", plan.Jobs[2].Steps[1].Name)
}

func TestWritePlanByExtension(t *testing.T) {
	r, plan := testPlan(t)
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "out", "plan.json")
	require.NoError(t, r.WritePlan(plan, jsonPath))
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var fromJSON model.Plan
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	require.Equal(t, plan.Jobs[1].Workspace, fromJSON.Jobs[1].Workspace)

	yamlPath := filepath.Join(dir, "plan.yaml")
	require.NoError(t, r.WritePlan(plan, yamlPath))
	data, err = os.ReadFile(yamlPath)
	require.NoError(t, err)
	var fromYAML model.Plan
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	require.Equal(t, plan.Jobs[2].Steps, fromYAML.Jobs[2].Steps)
}

func TestPlanViewer(t *testing.T) {
	_, plan := testPlan(t)
	plan.Finalize = []model.PlanStep{{Name: "composite", Argv: []string{"convert", "a.png", "out.gif"}}}

	view := NewPlanViewer(plan).View()
	require.Contains(t, view, "├─ frame1 (exists, skip)")
	require.Contains(t, view, "└─ finalize")
	require.Contains(t, view, "composite | convert a.png out.gif")
	require.Contains(t, view, "Summary: 3 jobs, 2 to run, 1 existing")

	require.Equal(t, "No jobs in plan", NewPlanViewer(&model.Plan{}).View())
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	require.Equal(t, "short", truncate("short", 100))

	path := strings.Repeat("é", 120)
	got := truncate(path, 100)
	require.True(t, utf8.ValidString(got))
	require.Equal(t, 100, utf8.RuneCountInString(got))
	require.True(t, strings.HasSuffix(got, "..."))
}
