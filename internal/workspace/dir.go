package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/SallySoul/escape/internal/expand"
)

// DirStore keeps one directory per job under Root
type DirStore struct {
	Root string
}

// NewDirStore creates a directory store rooted at root
func NewDirStore(root string) *DirStore {
	return &DirStore{Root: root}
}

// Path returns the job directory under Root
func (s *DirStore) Path(d expand.Descriptor) string {
	return filepath.Join(s.Root, d.ID())
}

// Exists reports whether the job directory is present
func (s *DirStore) Exists(d expand.Descriptor) (bool, error) {
	_, err := os.Stat(s.Path(d))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat workspace %s: %w", d.ID(), err)
}

// Create makes the job directory, creating Root as needed
func (s *DirStore) Create(d expand.Descriptor) (Workspace, error) {
	if err := os.MkdirAll(s.Root, 0755); err != nil {
		return Workspace{}, fmt.Errorf("failed to create output root %s: %w", s.Root, err)
	}

	ws := Handle(s, d)
	if err := os.Mkdir(ws.Dir, 0755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return Workspace{}, fmt.Errorf("%w: %s", ErrAlreadyExists, ws.Dir)
		}
		return Workspace{}, fmt.Errorf("failed to create workspace %s: %w", ws.Dir, err)
	}
	return ws, nil
}

// WriteConfig writes v as indented JSON; it never overwrites
func (s *DirStore) WriteConfig(ws Workspace, name string, v any) (string, error) {
	return writeJSON(ws.File(name), v)
}

func writeJSON(path string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: encoding %s: %v", ErrConfigWrite, path, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConfigWrite, err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		f.Close()
		return "", fmt.Errorf("%w: writing %s: %v", ErrConfigWrite, path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: closing %s: %v", ErrConfigWrite, path, err)
	}
	return path, nil
}
