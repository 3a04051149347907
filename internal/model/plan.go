package model

// Plan is the dry enumeration of a campaign: every job it would run, in order
type Plan struct {
	APIVersion string    `json:"apiVersion" yaml:"apiVersion"`
	Kind       string    `json:"kind" yaml:"kind"`
	Metadata   Metadata  `json:"metadata" yaml:"metadata"`
	Campaign   string    `json:"campaign" yaml:"campaign"`
	Output     string    `json:"output" yaml:"output"`
	Jobs       []PlanJob `json:"jobs" yaml:"jobs"`
	// Finalize lists the assembly commands run once every job is done.
	Finalize []PlanStep `json:"finalize,omitempty" yaml:"finalize,omitempty"`
}

// PlanJob is one job of the plan
type PlanJob struct {
	ID        string            `json:"id" yaml:"id"`
	Workspace string            `json:"workspace" yaml:"workspace"`
	Exists    bool              `json:"exists" yaml:"exists"` // already satisfied, would be skipped
	Coords    map[string]string `json:"coords" yaml:"coords"`
	Steps     []PlanStep        `json:"steps" yaml:"steps"`
}

// PlanStep is a fully materialised external command
type PlanStep struct {
	Name string   `json:"name" yaml:"name"`
	Argv []string `json:"argv" yaml:"argv"`
}
