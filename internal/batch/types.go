// Package batch implements the batch executor (C7): validates a list of
// vault operations for conflicting targets, then executes them in order
// against a vault.Manager, stopping at the first failure rather than
// rolling back prior steps (each individual op is already atomic via C4;
// a batch's atomicity is "all validated up front", not "all-or-nothing on
// execution").
package batch

// OpKind names one of the five operations a batch may contain.
type OpKind int

const (
	CreateNote OpKind = iota
	WriteNote
	DeleteNote
	MoveNote
	UpdateLinks
)

func (k OpKind) String() string {
	switch k {
	case CreateNote:
		return "CreateNote"
	case WriteNote:
		return "WriteNote"
	case DeleteNote:
		return "DeleteNote"
	case MoveNote:
		return "MoveNote"
	case UpdateLinks:
		return "UpdateLinks"
	default:
		return "Unknown"
	}
}

// Op is one operation within a batch.
type Op struct {
	Kind OpKind
	Path string

	// Content is the note body for CreateNote/WriteNote.
	Content string

	// NewPath is the destination for MoveNote.
	NewPath string

	// ExpectedHash optionally gates WriteNote with the same
	// optimistic-concurrency check editengine uses directly.
	ExpectedHash string

	// OldTarget/NewTarget are the link text substituted for UpdateLinks: every
	// occurrence of OldTarget in the file at Path is replaced with NewTarget.
	OldTarget string
	NewTarget string
}

// affectedPaths returns the set of vault paths an Op reads or writes, used
// for conflict validation.
func (op Op) affectedPaths() []string {
	switch op.Kind {
	case MoveNote:
		return []string{op.Path, op.NewPath}
	default:
		return []string{op.Path}
	}
}

// OpResult records whether one Op in a batch applied successfully.
type OpResult struct {
	Op      Op
	Applied bool
	Error   error
}

// Result is the outcome of executing an entire batch.
type Result struct {
	TransactionID string
	Results       []OpResult
	// FailedIndex is the index of the first Op that failed, or -1 if every
	// Op applied.
	FailedIndex int
}
