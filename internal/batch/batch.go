package batch

import (
	"strings"

	"github.com/arkan-labs/vaultengine/internal/editengine"
	"github.com/arkan-labs/vaultengine/internal/vault"
	"github.com/arkan-labs/vaultengine/internal/vaulterr"
	"github.com/google/uuid"
)

// Validate checks a batch for internal conflicts before any operation
// runs: the batch must be non-empty, and two non-UpdateLinks ops must not
// touch the same path, since their combined intent would be ambiguous
// (e.g. WriteNote and DeleteNote on the same path in one batch).
// UpdateLinks ops are exempt from the conflict check -- they complement
// other ops on the same file (e.g. MoveNote followed by UpdateLinks to fix
// up references) rather than competing with them.
func Validate(ops []Op) error {
	if len(ops) == 0 {
		return vaulterr.ValidationErr("batch must contain at least one op")
	}

	touched := make(map[string]int) // path -> index of the first non-UpdateLinks op touching it
	for i, op := range ops {
		if op.Kind == MoveNote && op.Path == op.NewPath {
			return vaulterr.ValidationErr("batch op %d: MoveNote from and to are the same path (%q)", i, op.Path)
		}
		if op.Kind == UpdateLinks {
			continue
		}
		for _, p := range op.affectedPaths() {
			if prev, ok := touched[p]; ok {
				return vaulterr.ValidationErr(
					"batch op %d conflicts with op %d: both touch %q", i, prev, p)
			}
			touched[p] = i
		}
	}
	return nil
}

// Execute validates ops, then applies them in order against mgr, stopping
// at the first failure. Results up to and including the failure are
// returned alongside the error; later ops in the batch are not attempted.
func Execute(mgr *vault.Manager, ops []Op) (Result, error) {
	if err := Validate(ops); err != nil {
		return Result{}, err
	}

	result := Result{TransactionID: uuid.NewString(), FailedIndex: -1}
	for i, op := range ops {
		err := applyOp(mgr, op)
		result.Results = append(result.Results, OpResult{Op: op, Applied: err == nil, Error: err})
		if err != nil {
			result.FailedIndex = i
			return result, err
		}
	}
	return result, nil
}

func applyOp(mgr *vault.Manager, op Op) error {
	switch op.Kind {
	case CreateNote:
		return mgr.WriteFile(op.Path, op.Content)
	case WriteNote:
		if op.ExpectedHash != "" {
			current, err := mgr.ReadFile(op.Path)
			if err != nil {
				return err
			}
			hash := editengine.ContentHash(current)
			if hash != op.ExpectedHash {
				return vaulterr.ConcurrencyErr(op.Path)
			}
		}
		return mgr.WriteFile(op.Path, op.Content)
	case DeleteNote:
		return mgr.DeleteFile(op.Path)
	case MoveNote:
		return mgr.MoveFile(op.Path, op.NewPath)
	case UpdateLinks:
		content, err := mgr.ReadFile(op.Path)
		if err != nil {
			return err
		}
		updated := strings.ReplaceAll(content, op.OldTarget, op.NewTarget)
		if updated == content {
			return nil
		}
		return mgr.WriteFile(op.Path, updated)
	default:
		return vaulterr.ValidationErr("unknown batch op kind %v", op.Kind)
	}
}
