// Package workspace manages the one-directory-per-job layout of a campaign.
// A workspace, once created, is never overwritten: its presence marks the job
// as satisfied.
package workspace

import (
	"errors"
	"path/filepath"

	"github.com/SallySoul/escape/internal/expand"
)

// Fixed artifact names inside a workspace
const (
	SampleConfigFile = "sample.json"
	ColorConfigFile  = "color.json"
	HistogramFile    = "histogram.json"
	FrameFile        = "frame.png"
	PreviewFile      = "preview.png"
)

var (
	// ErrAlreadyExists means Create was called for a job that should have
	// been skipped.
	ErrAlreadyExists = errors.New("workspace already exists")
	// ErrConfigWrite wraps any failure serialising a configuration file.
	ErrConfigWrite = errors.New("config write failed")
)

// Workspace is a handle to a created job directory
type Workspace struct {
	ID  string
	Dir string
}

// File returns the path of a named artifact inside the workspace.
func (w Workspace) File(name string) string {
	return filepath.Join(w.Dir, name)
}

// Store decides job completion and owns workspace creation
type Store interface {
	// Path is the deterministic directory for a job.
	Path(d expand.Descriptor) string
	Exists(d expand.Descriptor) (bool, error)
	// Create fails with ErrAlreadyExists if the workspace is present.
	Create(d expand.Descriptor) (Workspace, error)
	// WriteConfig serialises v to the named file and returns its path. It
	// never overwrites.
	WriteConfig(ws Workspace, name string, v any) (string, error)
}

// Completer is implemented by stores that record job completion apart from
// workspace creation. A workspace that was created but never completed does
// not satisfy its job.
type Completer interface {
	Complete(ws Workspace) error
}

// Handle returns the workspace handle for a job without touching the store.
func Handle(s Store, d expand.Descriptor) Workspace {
	return Workspace{ID: d.ID(), Dir: s.Path(d)}
}
