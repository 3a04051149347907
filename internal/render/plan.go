// Package render materialises a campaign into a Plan document and renders
// plans for files and terminals.
package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/SallySoul/escape/internal/campaign"
	"github.com/SallySoul/escape/internal/model"
	"github.com/SallySoul/escape/internal/runner"
	"github.com/SallySoul/escape/internal/workspace"
	"gopkg.in/yaml.v3"
)

// APIVersion of rendered plans
const APIVersion = "escape/v1"

// Renderer materializes campaigns into a Plan
type Renderer struct {
	store workspace.Store
}

// NewRenderer creates a renderer resolving workspaces through store
func NewRenderer(store workspace.Store) *Renderer {
	return &Renderer{store: store}
}

// RenderPlan enumerates c without running it. Each job carries the commands
// it would run on a fresh workspace and whether its workspace already exists.
func (r *Renderer) RenderPlan(metadata model.Metadata, output string, c campaign.Campaign) (*model.Plan, error) {
	space := c.Space()
	if err := space.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s campaign: %w", c.Kind(), err)
	}

	plan := &model.Plan{
		APIVersion: APIVersion,
		Kind:       "Plan",
		Metadata:   metadata,
		Campaign:   c.Kind(),
		Output:     output,
		Jobs:       make([]model.PlanJob, 0, space.Size()),
	}

	for d := range space.Product() {
		exists, err := r.store.Exists(d)
		if err != nil {
			return nil, err
		}
		ws := workspace.Handle(r.store, d)
		plan.Jobs = append(plan.Jobs, model.PlanJob{
			ID:        d.ID(),
			Workspace: ws.Dir,
			Exists:    exists,
			Coords:    d.Labels(),
			Steps:     ConvertSteps(c.Commands(d, ws)),
		})
	}
	return plan, nil
}

// ConvertSteps converts commands to plan steps
func ConvertSteps(cmds []runner.Command) []model.PlanStep {
	steps := make([]model.PlanStep, len(cmds))
	for i, cmd := range cmds {
		steps[i] = model.PlanStep{Name: cmd.Step, Argv: cmd.Argv}
	}
	return steps
}

// RenderJSON renders plan as JSON
func (r *Renderer) RenderJSON(plan *model.Plan) ([]byte, error) {
	return json.MarshalIndent(plan, "", "  ")
}

// RenderYAML renders plan as YAML
func (r *Renderer) RenderYAML(plan *model.Plan) ([]byte, error) {
	return yaml.Marshal(plan)
}

// WritePlan writes plan to file (JSON or YAML based on extension)
func (r *Renderer) WritePlan(plan *model.Plan, path string) error {
	var data []byte
	var err error

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		data, err = r.RenderYAML(plan)
	default:
		data, err = r.RenderJSON(plan)
	}
	if err != nil {
		return fmt.Errorf("failed to render plan: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write plan to %s: %w", path, err)
	}
	return nil
}
