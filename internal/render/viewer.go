package render

import (
	"fmt"
	"strings"

	"github.com/SallySoul/escape/internal/model"
	"github.com/SallySoul/escape/internal/runner"
)

// PlanViewer provides a human-readable view of a plan
type PlanViewer struct {
	plan *model.Plan
}

// NewPlanViewer creates a new plan viewer
func NewPlanViewer(plan *model.Plan) *PlanViewer {
	return &PlanViewer{plan: plan}
}

// View returns one tree branch per job, in execution order, followed by the
// finalize commands and a summary line.
func (pv *PlanViewer) View() string {
	if len(pv.plan.Jobs) == 0 {
		return "No jobs in plan"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s [%s] -> %s\n", pv.plan.Metadata.Name, pv.plan.Campaign, pv.plan.Output))

	existing := 0
	for i, job := range pv.plan.Jobs {
		isLastJob := i == len(pv.plan.Jobs)-1 && len(pv.plan.Finalize) == 0

		jobPrefix := "├─ "
		connector := "│  "
		if isLastJob {
			jobPrefix = "└─ "
			connector = "   "
		}

		line := jobPrefix + job.ID
		if job.Exists {
			existing++
			line += " (exists, skip)"
		}
		sb.WriteString(line + "\n")
		writeSteps(&sb, connector, job.Steps)
	}

	if len(pv.plan.Finalize) > 0 {
		sb.WriteString("└─ finalize\n")
		writeSteps(&sb, "   ", pv.plan.Finalize)
	}

	sb.WriteString("═══════════════════════════════════════════════════════════\n")
	sb.WriteString(fmt.Sprintf("Summary: %d jobs, %d to run, %d existing\n",
		len(pv.plan.Jobs), len(pv.plan.Jobs)-existing, existing))
	return sb.String()
}

func writeSteps(sb *strings.Builder, connector string, steps []model.PlanStep) {
	for i, step := range steps {
		prefix := connector + "├─ "
		if i == len(steps)-1 {
			prefix = connector + "└─ "
		}
		cmd := truncate(runner.Command{Step: step.Name, Argv: step.Argv}.String(), 100)
		sb.WriteString(fmt.Sprintf("%s%s | %s\n", prefix, step.Name, cmd))
	}
}

// truncate shortens s to at most n runes, ending in "...".
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
