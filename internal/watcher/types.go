// Package watcher implements the filesystem watcher (C10): a debounced
// stream of typed change events over a vault root, backed by fsnotify.
package watcher

import "fmt"

// Kind classifies a filesystem change event.
type Kind int

const (
	Created Kind = iota
	Modified
	Deleted
	Renamed
)

func (k Kind) String() string {
	switch k {
	case Created:
		return "Created"
	case Modified:
		return "Modified"
	case Deleted:
		return "Deleted"
	case Renamed:
		return "Renamed"
	default:
		return "Unknown"
	}
}

// Event is one debounced, filtered change delivered to a watcher's
// consumer. OldPath is set only for Renamed events.
type Event struct {
	Kind    Kind
	Path    string
	OldPath string
}

func (e Event) String() string {
	if e.Kind == Renamed {
		return fmt.Sprintf("%s %s -> %s", e.Kind, e.OldPath, e.Path)
	}
	return fmt.Sprintf("%s %s", e.Kind, e.Path)
}
