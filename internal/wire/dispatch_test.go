package wire

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/arkan-labs/vaultengine/internal/batch"
	"github.com/arkan-labs/vaultengine/internal/session"
)

func newTestDispatcher(t *testing.T) (*Dispatcher, string) {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.md"), []byte("# A\n[[b]]"), 0o644); err != nil {
		t.Fatalf("seed a.md: %v", err)
	}
	sess := session.New(nil)
	if err := sess.AddVault("work", root); err != nil {
		t.Fatalf("AddVault: %v", err)
	}
	return NewDispatcher(sess), root
}

func mustParams(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	return data
}

func TestDispatch_VaultRead(t *testing.T) {
	d, _ := newTestDispatcher(t)
	env := d.Dispatch(context.Background(), "vault.read", mustParams(t, ReadParams{Vault: "work", Path: "a.md"}))
	if !env.Success {
		t.Fatalf("expected success, got error %+v", env.Error)
	}
	if env.Data != "# A\n[[b]]" {
		t.Fatalf("Data = %v", env.Data)
	}
}

func TestDispatch_UnknownMethod(t *testing.T) {
	d, _ := newTestDispatcher(t)
	env := d.Dispatch(context.Background(), "vault.bogus", nil)
	if env.Success {
		t.Fatalf("expected failure for an unknown method")
	}
	if env.Error.Code != "NotFound" {
		t.Fatalf("Error.Code = %q, want NotFound", env.Error.Code)
	}
}

func TestDispatch_ReadMissingFileCarriesHints(t *testing.T) {
	d, _ := newTestDispatcher(t)
	env := d.Dispatch(context.Background(), "vault.read", mustParams(t, ReadParams{Vault: "work", Path: "missing.md"}))
	if env.Success {
		t.Fatalf("expected failure reading a missing file")
	}
	if len(env.Error.Hints) == 0 {
		t.Fatalf("expected recovery hints on a NotFound error")
	}
}

func TestDispatch_BatchExecute_PerOpFailureStillSucceeds(t *testing.T) {
	d, _ := newTestDispatcher(t)
	ops := []batch.Op{
		{Kind: batch.CreateNote, Path: "new.md", Content: "hello"},
		{Kind: batch.MoveNote, Path: "does-not-exist.md", NewPath: "moved.md"},
	}
	env := d.Dispatch(context.Background(), "batch.execute", mustParams(t, BatchParams{Vault: "work", Ops: ops}))
	if !env.Success {
		t.Fatalf("expected the call itself to succeed, got %+v", env.Error)
	}
	result, ok := env.Data.(batch.Result)
	if !ok {
		t.Fatalf("Data is %T, want batch.Result", env.Data)
	}
	if result.FailedIndex != 1 {
		t.Fatalf("FailedIndex = %d, want 1", result.FailedIndex)
	}
	if len(env.Warnings) == 0 {
		t.Fatalf("expected a warning describing the failed op")
	}
}

func TestDispatch_BatchExecute_ValidationRejectionFails(t *testing.T) {
	d, _ := newTestDispatcher(t)
	ops := []batch.Op{{Kind: batch.MoveNote, Path: "a.md", NewPath: "a.md"}}
	env := d.Dispatch(context.Background(), "batch.execute", mustParams(t, BatchParams{Vault: "work", Ops: ops}))
	if env.Success {
		t.Fatalf("expected a Validate-stage rejection to fail the call")
	}
	if env.Error.Code != "Validation" {
		t.Fatalf("Error.Code = %q, want Validation", env.Error.Code)
	}
}

func TestDispatch_SessionAddAndListVaults(t *testing.T) {
	d, _ := newTestDispatcher(t)
	other := t.TempDir()
	env := d.Dispatch(context.Background(), "session.addVault", mustParams(t, AddVaultParams{Name: "personal", Root: other}))
	if !env.Success {
		t.Fatalf("addVault failed: %+v", env.Error)
	}

	listEnv := d.Dispatch(context.Background(), "session.listVaults", nil)
	names, ok := listEnv.Data.([]string)
	if !ok || len(names) != 2 {
		t.Fatalf("listVaults Data = %+v", listEnv.Data)
	}
	if listEnv.Count == nil || *listEnv.Count != 2 {
		t.Fatalf("Count = %v, want 2", listEnv.Count)
	}
}
