package workspace

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/SallySoul/escape/internal/expand"

	_ "modernc.org/sqlite"
)

const ledgerSchema = `
CREATE TABLE IF NOT EXISTS workspaces (
	id           TEXT PRIMARY KEY,
	dir          TEXT NOT NULL,
	created_at   TEXT NOT NULL,
	completed_at TEXT
);`

// Entry is one ledger record
type Entry struct {
	ID        string
	Dir       string
	CreatedAt time.Time
	// CompletedAt is zero while the job has not finished.
	CompletedAt time.Time
}

// LedgerStore records workspace creation and job completion in a SQLite
// ledger. Directories are still created through the wrapped DirStore, since
// the external tools write their artifacts there, and a job is only satisfied
// while its directory exists. A directory whose row was never completed is an
// interrupted attempt and is recreated; a directory with no row at all was
// made without the ledger and counts as satisfied.
type LedgerStore struct {
	dirs *DirStore
	db   *sql.DB
	now  func() time.Time
}

// OpenLedger opens (or creates) the ledger database at path.
func OpenLedger(path string, dirs *DirStore) (*LedgerStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger %s: %w", path, err)
	}
	// one writer, one campaign at a time
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(ledgerSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialise ledger %s: %w", path, err)
	}
	return &LedgerStore{dirs: dirs, db: db, now: time.Now}, nil
}

// Close releases the database handle
func (s *LedgerStore) Close() error {
	return s.db.Close()
}

// Path returns the job directory under the wrapped store's root.
func (s *LedgerStore) Path(d expand.Descriptor) string {
	return s.dirs.Path(d)
}

// Exists reports whether the job's directory exists and is not left over
// from an attempt that never completed.
func (s *LedgerStore) Exists(d expand.Descriptor) (bool, error) {
	present, err := s.dirs.Exists(d)
	if err != nil || !present {
		return false, err
	}
	st, err := s.status(d.ID())
	if err != nil {
		return false, err
	}
	return st != statusIncomplete, nil
}

// Create makes the job directory and records it as started. A stale row for
// a removed directory is replaced, and the directory of an incomplete
// attempt is removed first.
func (s *LedgerStore) Create(d expand.Descriptor) (Workspace, error) {
	st, err := s.status(d.ID())
	if err != nil {
		return Workspace{}, err
	}
	if st == statusIncomplete {
		if err := os.RemoveAll(s.dirs.Path(d)); err != nil {
			return Workspace{}, fmt.Errorf("failed to reset incomplete workspace %s: %w", d.ID(), err)
		}
	}

	ws, err := s.dirs.Create(d)
	if err != nil {
		return Workspace{}, err
	}

	_, err = s.db.Exec(
		`INSERT INTO workspaces (id, dir, created_at, completed_at) VALUES (?, ?, ?, NULL)
		 ON CONFLICT(id) DO UPDATE SET dir = excluded.dir, created_at = excluded.created_at, completed_at = NULL`,
		ws.ID, ws.Dir, s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		// An unrecorded directory would be taken as satisfied next run.
		os.RemoveAll(ws.Dir)
		return Workspace{}, fmt.Errorf("failed to record workspace %s: %w", ws.ID, err)
	}
	return ws, nil
}

// Complete marks the workspace's job as finished.
func (s *LedgerStore) Complete(ws Workspace) error {
	_, err := s.db.Exec(`UPDATE workspaces SET completed_at = ? WHERE id = ?`,
		s.now().UTC().Format(time.RFC3339Nano), ws.ID)
	if err != nil {
		return fmt.Errorf("failed to record completion of %s: %w", ws.ID, err)
	}
	return nil
}

// WriteConfig writes through to the wrapped directory store.
func (s *LedgerStore) WriteConfig(ws Workspace, name string, v any) (string, error) {
	return s.dirs.WriteConfig(ws, name, v)
}

// Entries lists every recorded workspace in creation order.
func (s *LedgerStore) Entries() ([]Entry, error) {
	rows, err := s.db.Query(`SELECT id, dir, created_at, completed_at FROM workspaces ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created string
		var completed sql.NullString
		if err := rows.Scan(&e.ID, &e.Dir, &created, &completed); err != nil {
			return nil, fmt.Errorf("failed to read ledger row: %w", err)
		}
		if e.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("ledger row %s has bad timestamp %q: %w", e.ID, created, err)
		}
		if completed.Valid {
			if e.CompletedAt, err = time.Parse(time.RFC3339Nano, completed.String); err != nil {
				return nil, fmt.Errorf("ledger row %s has bad timestamp %q: %w", e.ID, completed.String, err)
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type rowStatus int

const (
	statusUnrecorded rowStatus = iota
	statusIncomplete
	statusComplete
)

func (s *LedgerStore) status(id string) (rowStatus, error) {
	var completed sql.NullString
	err := s.db.QueryRow(`SELECT completed_at FROM workspaces WHERE id = ?`, id).Scan(&completed)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return statusUnrecorded, nil
	case err != nil:
		return statusUnrecorded, fmt.Errorf("failed to query ledger for %s: %w", id, err)
	case completed.Valid:
		return statusComplete, nil
	default:
		return statusIncomplete, nil
	}
}
