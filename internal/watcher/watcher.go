package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/arkan-labs/vaultengine/internal/vaultconfig"
	"github.com/arkan-labs/vaultengine/internal/vaulterr"
	"github.com/fsnotify/fsnotify"
)

type pendingEvent struct {
	kind Kind
	at   time.Time
}

// Watcher streams debounced, filtered filesystem change events for a
// vault root. Starting an already-running Watcher is an error; Stop
// releases the underlying fsnotify resources.
type Watcher struct {
	root string
	opts vaultconfig.WatcherOptions

	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	running  bool
	debounce map[string]pendingEvent

	pendingRenameFrom string
	pendingRenameAt   time.Time

	queue  *eventQueue
	out    chan Event
	stopCh chan struct{}
	doneCh chan struct{}
}

// New returns a Watcher over root. It does not start watching until
// Start is called.
func New(root string, opts vaultconfig.WatcherOptions) *Watcher {
	return &Watcher{
		root:     root,
		opts:     opts,
		debounce: make(map[string]pendingEvent),
	}
}

// Events returns the channel events are delivered on. The channel is
// closed after Stop completes. Backpressure is not applied: a consumer
// that falls behind causes the watcher's internal queue to grow rather
// than blocking the fsnotify read loop.
func (w *Watcher) Events() <-chan Event {
	return w.out
}

// Start begins watching. It is an error to Start a Watcher that is
// already running.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return vaulterr.ValidationErr("watcher is already running")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return vaulterr.IOErr(w.root, err)
	}
	w.fsw = fsw
	w.running = true
	w.queue = newEventQueue()
	w.out = make(chan Event)
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	if err := w.addRecursive(w.root); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		fsw.Close()
		return err
	}

	go w.run(ctx)
	go w.pump()
	return nil
}

// Stop stops watching and releases native resources. It is an error to
// Stop a Watcher that is not running.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return vaulterr.ValidationErr("watcher is not running")
	}
	w.running = false
	stopCh := w.stopCh
	doneCh := w.doneCh
	fsw := w.fsw
	w.mu.Unlock()

	close(stopCh)
	<-doneCh
	fsw.Close()
	w.queue.close()
	return nil
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.excludedDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return vaulterr.IOErr(path, err)
		}
		return nil
	})
}

func (w *Watcher) excludedDir(name string) bool {
	if w.opts.ExcludedDirNames[name] {
		return true
	}
	if w.opts.ExcludeHidden && strings.HasPrefix(name, ".") {
		return true
	}
	return false
}

func (w *Watcher) eligible(path string) bool {
	if w.opts.MarkdownOnly && !strings.EqualFold(filepath.Ext(path), ".md") {
		return false
	}
	if w.opts.ExcludeHidden {
		for _, part := range strings.Split(filepath.ToSlash(path), "/") {
			if strings.HasPrefix(part, ".") && part != "." {
				return false
			}
		}
	}
	return true
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := time.NewTicker(w.flushInterval())
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleFsEvent(ev)
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			// Errors surface only as a dropped event; callers that need
			// them can watch fsw directly. Kept simple per the wire
			// surface's "no intrinsic timeouts, caller handles it" stance.
		case <-tick.C:
			w.flush()
		}
	}
}

func (w *Watcher) flushInterval() time.Duration {
	d := w.opts.Debounce / 3
	if d < 10*time.Millisecond {
		d = 10 * time.Millisecond
	}
	return d
}

func (w *Watcher) handleFsEvent(ev fsnotify.Event) {
	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Lstat(ev.Name); err == nil && info.IsDir() {
			w.addRecursive(ev.Name)
			return
		}
	}
	if !w.eligible(ev.Name) {
		return
	}

	switch {
	case ev.Op&fsnotify.Rename != 0:
		w.mu.Lock()
		w.pendingRenameFrom = ev.Name
		w.pendingRenameAt = time.Now()
		w.mu.Unlock()

	case ev.Op&fsnotify.Create != 0:
		w.mu.Lock()
		if w.pendingRenameFrom != "" && time.Since(w.pendingRenameAt) <= w.opts.Debounce {
			from := w.pendingRenameFrom
			w.pendingRenameFrom = ""
			w.mu.Unlock()
			w.queue.push(Event{Kind: Renamed, Path: ev.Name, OldPath: from})
			return
		}
		w.debounce[ev.Name] = pendingEvent{kind: Created, at: time.Now()}
		w.mu.Unlock()

	case ev.Op&fsnotify.Write != 0:
		w.mu.Lock()
		// A write that follows a still-pending Create is part of the create.
		kind := Modified
		if pe, ok := w.debounce[ev.Name]; ok && pe.kind == Created {
			kind = Created
		}
		w.debounce[ev.Name] = pendingEvent{kind: kind, at: time.Now()}
		w.mu.Unlock()

	case ev.Op&fsnotify.Remove != 0:
		w.mu.Lock()
		w.debounce[ev.Name] = pendingEvent{kind: Deleted, at: time.Now()}
		w.mu.Unlock()
	}
}

// flush emits events that have settled past the debounce window, and
// resolves any rename whose paired Create never arrived into a Deleted.
func (w *Watcher) flush() {
	w.mu.Lock()
	now := time.Now()
	var ready []Event
	for path, pe := range w.debounce {
		if now.Sub(pe.at) >= w.opts.Debounce {
			ready = append(ready, Event{Kind: pe.kind, Path: path})
			delete(w.debounce, path)
		}
	}
	if w.pendingRenameFrom != "" && now.Sub(w.pendingRenameAt) > w.opts.Debounce {
		ready = append(ready, Event{Kind: Deleted, Path: w.pendingRenameFrom})
		w.pendingRenameFrom = ""
	}
	w.mu.Unlock()

	for _, e := range ready {
		w.queue.push(e)
	}
}

// pump drains the internal unbounded queue into the public Events channel.
func (w *Watcher) pump() {
	defer close(w.out)
	for {
		e, ok := w.queue.pop()
		if !ok {
			return
		}
		w.out <- e
	}
}
