package atomicfile

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	root := t.TempDir()
	m, err := NewManager(filepath.Join(root, ".backups"))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m, root
}

func TestWrite_CreatesFile(t *testing.T) {
	m, root := newTestManager(t)
	path := filepath.Join(root, "note.md")

	if err := m.Write(path, []byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("content = %q, want hello", got)
	}
}

func TestWrite_OverwriteDiscardsBackup(t *testing.T) {
	m, root := newTestManager(t)
	path := filepath.Join(root, "note.md")

	if err := m.Write(path, []byte("v1")); err != nil {
		t.Fatalf("Write v1: %v", err)
	}
	if err := m.Write(path, []byte("v2")); err != nil {
		t.Fatalf("Write v2: %v", err)
	}

	got, _ := os.ReadFile(path)
	if string(got) != "v2" {
		t.Fatalf("content = %q, want v2", got)
	}

	entries, _ := os.ReadDir(filepath.Join(root, ".backups"))
	if len(entries) != 0 {
		t.Fatalf("expected backups discarded after success, found %d", len(entries))
	}
}

func TestDelete_RemovesFile(t *testing.T) {
	m, root := newTestManager(t)
	path := filepath.Join(root, "note.md")
	if err := m.Write(path, []byte("data")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if err := m.Delete(path); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected file to be gone, err = %v", err)
	}
}

func TestDelete_MissingFileIsIdempotent(t *testing.T) {
	m, root := newTestManager(t)
	path := filepath.Join(root, "missing.md")

	if err := m.Delete(path); err != nil {
		t.Fatalf("Delete of an absent path should succeed, got %v", err)
	}
}

func TestMove_RelocatesFile(t *testing.T) {
	m, root := newTestManager(t)
	from := filepath.Join(root, "a.md")
	to := filepath.Join(root, "sub", "b.md")
	if err := m.Write(from, []byte("content")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if err := m.Move(from, to); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if _, err := os.Stat(from); !os.IsNotExist(err) {
		t.Fatalf("expected source gone")
	}
	got, err := os.ReadFile(to)
	if err != nil || string(got) != "content" {
		t.Fatalf("ReadFile(to) = %q, %v", got, err)
	}
}

func TestTransaction_CommitsAllOnSuccess(t *testing.T) {
	m, root := newTestManager(t)
	a := filepath.Join(root, "a.md")
	b := filepath.Join(root, "b.md")
	if err := m.Write(a, []byte("old-a")); err != nil {
		t.Fatalf("seed a: %v", err)
	}

	tx := NewTransaction(m, []TxOp{
		{Kind: OpWrite, Path: a, Content: []byte("new-a")},
		{Kind: OpWrite, Path: b, Content: []byte("new-b")},
	})
	if idx, err := tx.Execute(); err != nil || idx != -1 {
		t.Fatalf("Execute: idx=%d err=%v", idx, err)
	}

	gotA, _ := os.ReadFile(a)
	gotB, _ := os.ReadFile(b)
	if string(gotA) != "new-a" || string(gotB) != "new-b" {
		t.Fatalf("content = %q, %q", gotA, gotB)
	}
}

func TestTransaction_RollsBackOnFailure(t *testing.T) {
	m, root := newTestManager(t)
	a := filepath.Join(root, "a.md")
	missing := filepath.Join(root, "missing.md")
	dest := filepath.Join(root, "dest.md")
	if err := m.Write(a, []byte("original")); err != nil {
		t.Fatalf("seed a: %v", err)
	}

	tx := NewTransaction(m, []TxOp{
		{Kind: OpWrite, Path: a, Content: []byte("mutated")},
		{Kind: OpMove, Path: missing, NewPath: dest}, // fails: missing does not exist
	})
	idx, err := tx.Execute()
	if err == nil {
		t.Fatalf("expected the move of a nonexistent file to fail")
	}
	if idx != 1 {
		t.Fatalf("FailedIndex = %d, want 1", idx)
	}

	got, readErr := os.ReadFile(a)
	if readErr != nil || string(got) != "original" {
		t.Fatalf("a.md = %q, %v, want rollback to %q", got, readErr, "original")
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Fatalf("dest.md should not exist after rollback")
	}
}

func TestLockRegistry_SerializesPerPath(t *testing.T) {
	r := newLockRegistry()
	release := r.acquire("x.md")
	done := make(chan struct{})
	go func() {
		release2 := r.acquire("x.md")
		release2()
		close(done)
	}()

	select {
	case <-done:
		t.Fatalf("second acquire should have blocked until release")
	default:
	}
	release()
	<-done
}
