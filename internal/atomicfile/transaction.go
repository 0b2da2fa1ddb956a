package atomicfile

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/arkan-labs/vaultengine/internal/vaulterr"
)

// TxOp is one step of a multi-file Transaction: a write, delete, or move
// against a single path (Path/NewPath for move, Path/Content for write,
// Path alone for delete).
type TxOp struct {
	Kind    OpKind
	Path    string
	NewPath string
	Content []byte
}

// Transaction applies a list of TxOps against a Manager as a single unit:
// every path the transaction touches is locked up front, in a fixed sorted
// order, so two overlapping transactions can never deadlock against each
// other. If any op fails partway through, every op already applied is
// undone in reverse order before Execute returns -- a failed transaction
// leaves the filesystem exactly as it found it.
type Transaction struct {
	mgr *Manager
	ops []TxOp
}

// NewTransaction builds a Transaction over ops, to be run with Execute.
func NewTransaction(mgr *Manager, ops []TxOp) *Transaction {
	return &Transaction{mgr: mgr, ops: ops}
}

type appliedOp struct {
	op          TxOp
	backup      BackupRecord
	hadExisting bool
}

// Execute runs every op in order against the Manager. It returns the index
// of the first op that failed (or -1 if every op applied), alongside the
// error that caused the failure.
func (tx *Transaction) Execute() (failedIndex int, err error) {
	paths := tx.touchedPaths()
	unlocks := make([]func(), 0, len(paths))
	for _, p := range paths {
		unlocks = append(unlocks, tx.mgr.locks.acquire(p))
	}
	defer func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}()

	var done []appliedOp
	rollback := func() {
		for i := len(done) - 1; i >= 0; i-- {
			tx.undo(done[i])
		}
	}

	for i, op := range tx.ops {
		a, applyErr := tx.applyOne(op)
		if applyErr != nil {
			rollback()
			return i, applyErr
		}
		done = append(done, a)
	}

	for _, a := range done {
		tx.mgr.discard(a.backup)
	}
	return -1, nil
}

func (tx *Transaction) applyOne(op TxOp) (appliedOp, error) {
	switch op.Kind {
	case OpWrite:
		backup, hadExisting, err := tx.mgr.backup(OpWrite, op.Path)
		if err != nil {
			return appliedOp{}, err
		}
		if err := writeTempThenRename(op.Path, op.Content); err != nil {
			if hadExisting {
				tx.mgr.restore(backup)
			}
			return appliedOp{}, vaulterr.IOErr(op.Path, err)
		}
		return appliedOp{op, backup, hadExisting}, nil

	case OpDelete:
		backup, hadExisting, err := tx.mgr.backup(OpDelete, op.Path)
		if err != nil {
			return appliedOp{}, err
		}
		if hadExisting {
			if err := os.Remove(op.Path); err != nil {
				tx.mgr.restore(backup)
				return appliedOp{}, vaulterr.IOErr(op.Path, err)
			}
		}
		return appliedOp{op, backup, hadExisting}, nil

	case OpMove:
		backup, hadExisting, err := tx.mgr.backup(OpMove, op.Path)
		if err != nil {
			return appliedOp{}, err
		}
		if !hadExisting {
			return appliedOp{}, vaulterr.NotFoundErr(op.Path, "no such file")
		}
		if err := os.MkdirAll(filepath.Dir(op.NewPath), 0o755); err != nil {
			tx.mgr.restore(backup)
			return appliedOp{}, vaulterr.IOErr(op.NewPath, err)
		}
		if err := os.Rename(op.Path, op.NewPath); err != nil {
			tx.mgr.restore(backup)
			return appliedOp{}, vaulterr.IOErr(op.NewPath, err)
		}
		return appliedOp{op, backup, hadExisting}, nil

	default:
		return appliedOp{}, vaulterr.ValidationErr("unknown transaction op kind %v", op.Kind)
	}
}

// undo reverses one already-applied op, best effort, as part of a rollback.
func (tx *Transaction) undo(a appliedOp) {
	switch a.op.Kind {
	case OpWrite:
		if a.hadExisting {
			tx.mgr.restore(a.backup)
		} else {
			_ = os.Remove(a.op.Path)
		}
	case OpDelete:
		if a.hadExisting {
			tx.mgr.restore(a.backup)
		}
	case OpMove:
		_ = os.Rename(a.op.NewPath, a.op.Path)
		if a.hadExisting {
			tx.mgr.restore(a.backup)
		}
	}
}

// touchedPaths returns every distinct path the transaction reads or
// writes, sorted for deterministic lock-acquisition order.
func (tx *Transaction) touchedPaths() []string {
	set := make(map[string]bool)
	for _, op := range tx.ops {
		set[op.Path] = true
		if op.Kind == OpMove {
			set[op.NewPath] = true
		}
	}
	paths := make([]string, 0, len(set))
	for p := range set {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
