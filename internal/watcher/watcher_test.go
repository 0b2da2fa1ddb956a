package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arkan-labs/vaultengine/internal/vaultconfig"
)

func testOpts() vaultconfig.WatcherOptions {
	return vaultconfig.NewWatcherOptions(
		vaultconfig.WithWatcherDebounce(40*time.Millisecond),
		vaultconfig.WithMarkdownOnly(true),
		vaultconfig.WithExcludeHidden(true),
	)
}

func waitForEvent(t *testing.T, events <-chan Event, timeout time.Duration) Event {
	t.Helper()
	select {
	case e := <-events:
		return e
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for an event")
		return Event{}
	}
}

func TestStart_TwiceIsError(t *testing.T) {
	root := t.TempDir()
	w := New(root, testOpts())
	ctx := context.Background()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := w.Start(ctx); err == nil {
		t.Fatalf("expected an error starting an already-running watcher")
	}
}

func TestStop_NotRunningIsError(t *testing.T) {
	w := New(t.TempDir(), testOpts())
	if err := w.Stop(); err == nil {
		t.Fatalf("expected an error stopping a watcher that was never started")
	}
}

func TestWatcher_DeliversCreateEvent(t *testing.T) {
	root := t.TempDir()
	w := New(root, testOpts())
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	path := filepath.Join(root, "note.md")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	e := waitForEvent(t, w.Events(), 2*time.Second)
	if e.Kind != Created || e.Path != path {
		t.Fatalf("event = %+v, want Created %s", e, path)
	}
}

func TestWatcher_FiltersNonMarkdown(t *testing.T) {
	root := t.TempDir()
	w := New(root, testOpts())
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(root, "note.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "note.md"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	e := waitForEvent(t, w.Events(), 2*time.Second)
	if filepath.Ext(e.Path) != ".md" {
		t.Fatalf("expected only the .md file to produce an event, got %+v", e)
	}
}

func TestWatcher_DebouncesRapidWrites(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "note.md")
	if err := os.WriteFile(path, []byte("initial"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	w := New(root, testOpts())
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("v"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	e := waitForEvent(t, w.Events(), 2*time.Second)
	if e.Kind != Modified || e.Path != path {
		t.Fatalf("event = %+v, want one Modified event for %s", e, path)
	}

	select {
	case extra := <-w.Events():
		t.Fatalf("expected the rapid writes to coalesce into one event, got extra %+v", extra)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcher_DeliversDeleteEvent(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "note.md")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	w := New(root, testOpts())
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	e := waitForEvent(t, w.Events(), 2*time.Second)
	if e.Kind != Deleted || e.Path != path {
		t.Fatalf("event = %+v, want Deleted %s", e, path)
	}
}
