// Package atomicfile implements the atomic edit & transaction layer (C4):
// a per-path lock registry plus a write/delete/move protocol that backs up
// a file's prior content before mutating it, and restores that backup if
// the mutation fails partway through.
package atomicfile

import (
	"os"
	"path/filepath"

	"github.com/arkan-labs/vaultengine/internal/vaulterr"
	"github.com/google/uuid"
)

// OpKind identifies the kind of filesystem mutation a Manager performed.
type OpKind int

const (
	OpWrite OpKind = iota
	OpDelete
	OpMove
)

func (k OpKind) String() string {
	switch k {
	case OpWrite:
		return "write"
	case OpDelete:
		return "delete"
	case OpMove:
		return "move"
	default:
		return "unknown"
	}
}

// BackupRecord is the prior-content snapshot taken before a mutation, kept
// on disk under the Manager's backup directory until the caller discards it.
type BackupRecord struct {
	ID           string
	Op           OpKind
	OriginalPath string
	BackupPath   string
}

// Manager serializes filesystem mutations through a per-path lock registry
// and backs up existing content before every write, delete, or move.
type Manager struct {
	backupDir string
	locks     *lockRegistry
}

// NewManager creates the backup directory (if absent) and returns a Manager
// rooted there.
func NewManager(backupDir string) (*Manager, error) {
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return nil, vaulterr.IOErr(backupDir, err)
	}
	return &Manager{backupDir: backupDir, locks: newLockRegistry()}, nil
}

// Write atomically replaces path's content: lock, back up any existing
// content, write to a temp file in the same directory, then rename over
// path. On any failure after the backup is taken, the original content is
// restored.
func (m *Manager) Write(path string, content []byte) error {
	unlock := m.locks.acquire(path)
	defer unlock()

	backup, hadExisting, err := m.backup(OpWrite, path)
	if err != nil {
		return err
	}

	if err := writeTempThenRename(path, content); err != nil {
		if hadExisting {
			m.restore(backup)
		}
		return vaulterr.IOErr(path, err)
	}
	m.discard(backup)
	return nil
}

// Delete removes path after copying its content into the backup directory;
// if the removal fails the backup is restored, otherwise the backup file is
// left in place. Deleting an absent path is a no-op, not an error -- Delete
// is idempotent on absence.
func (m *Manager) Delete(path string) error {
	unlock := m.locks.acquire(path)
	defer unlock()

	backup, hadExisting, err := m.backup(OpDelete, path)
	if err != nil {
		return err
	}
	if !hadExisting {
		return nil
	}

	if err := os.Remove(path); err != nil {
		m.restore(backup)
		return vaulterr.IOErr(path, err)
	}
	return nil
}

// Move renames from to to, locking both paths in a fixed order (sorted
// lexicographically) to avoid deadlocking against a concurrent reverse move.
func (m *Manager) Move(from, to string) error {
	first, second := from, to
	if second < first {
		first, second = second, first
	}
	unlock1 := m.locks.acquire(first)
	defer unlock1()
	unlock2 := m.locks.acquire(second)
	defer unlock2()

	backup, hadExisting, err := m.backup(OpMove, from)
	if err != nil {
		return err
	}
	if !hadExisting {
		return vaulterr.NotFoundErr(from, "no such file")
	}

	if err := os.MkdirAll(filepath.Dir(to), 0o755); err != nil {
		m.restore(backup)
		return vaulterr.IOErr(to, err)
	}
	if err := os.Rename(from, to); err != nil {
		m.restore(backup)
		return vaulterr.IOErr(to, err)
	}
	return nil
}

// backup snapshots path's current content (if it exists) into the backup
// directory under a uuid-derived name. hadExisting is false when path did
// not exist, in which case backup.BackupPath is empty and restore/discard
// are no-ops.
func (m *Manager) backup(op OpKind, path string) (BackupRecord, bool, error) {
	rec := BackupRecord{ID: uuid.NewString(), Op: op, OriginalPath: path}

	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return rec, false, nil
	}
	if err != nil {
		return rec, false, vaulterr.IOErr(path, err)
	}

	rec.BackupPath = filepath.Join(m.backupDir, rec.ID+".bak")
	if err := os.WriteFile(rec.BackupPath, content, 0o644); err != nil {
		return rec, true, vaulterr.IOErr(rec.BackupPath, err)
	}
	return rec, true, nil
}

// restore copies a backup's content back over its original path, best
// effort -- a restore failure is not itself escalated since the caller is
// already unwinding from a prior error.
func (m *Manager) restore(rec BackupRecord) {
	if rec.BackupPath == "" {
		return
	}
	content, err := os.ReadFile(rec.BackupPath)
	if err != nil {
		return
	}
	_ = writeTempThenRename(rec.OriginalPath, content)
}

// discard removes a backup once its mutation has committed successfully.
func (m *Manager) discard(rec BackupRecord) {
	if rec.BackupPath == "" {
		return
	}
	_ = os.Remove(rec.BackupPath)
}

func writeTempThenRename(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".vaultengine-tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
