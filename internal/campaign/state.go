package campaign

import "fmt"

// State is the lifecycle position of one job
type State int

const (
	Pending State = iota
	Skipped
	Running
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Skipped:
		return "skipped"
	case Running:
		return "running"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Skipped may move to Running when a campaign re-issues commands for an
// existing workspace (redraw).
func isAllowedTransition(from, to State) bool {
	switch from {
	case Pending:
		return to == Skipped || to == Running
	case Skipped:
		return to == Done || to == Running
	case Running:
		return to == Done || to == Failed
	default:
		return false
	}
}

type jobState struct {
	id      string
	state   State
	skipped bool
	resumed bool
}

func (j *jobState) advance(to State) error {
	if !isAllowedTransition(j.state, to) {
		return fmt.Errorf("internal error: job %s cannot move from %s to %s", j.id, j.state, to)
	}
	j.state = to
	return nil
}

// fail marks a running job as failed; other states are left as they are.
func (j *jobState) fail() {
	if j.state == Running {
		j.state = Failed
	}
}
