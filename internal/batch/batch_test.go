package batch

import (
	"context"
	"testing"

	"github.com/arkan-labs/vaultengine/internal/vault"
)

func newTestManager(t *testing.T) *vault.Manager {
	t.Helper()
	root := t.TempDir()
	m, err := vault.New(root, nil)
	if err != nil {
		t.Fatalf("vault.New: %v", err)
	}
	if err := m.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return m
}

func TestValidate_RejectsOverlap(t *testing.T) {
	ops := []Op{
		{Kind: WriteNote, Path: "a.md", Content: "one"},
		{Kind: DeleteNote, Path: "a.md"},
	}
	if err := Validate(ops); err == nil {
		t.Fatalf("expected a conflict error for overlapping paths")
	}
}

func TestValidate_AllowsUpdateLinksOverlap(t *testing.T) {
	ops := []Op{
		{Kind: WriteNote, Path: "a.md", Content: "one"},
		{Kind: UpdateLinks, Path: "a.md"},
	}
	if err := Validate(ops); err != nil {
		t.Fatalf("expected UpdateLinks to be exempt from conflict checks, got %v", err)
	}
}

func TestValidate_RejectsMoveToSelf(t *testing.T) {
	ops := []Op{{Kind: MoveNote, Path: "a.md", NewPath: "a.md"}}
	if err := Validate(ops); err == nil {
		t.Fatalf("expected an error for a move-to-self op")
	}
}

func TestExecute_CreatesNotesInOrder(t *testing.T) {
	mgr := newTestManager(t)
	ops := []Op{
		{Kind: CreateNote, Path: "a.md", Content: "first"},
		{Kind: CreateNote, Path: "b.md", Content: "second"},
	}

	result, err := Execute(mgr, ops)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.FailedIndex != -1 || len(result.Results) != 2 {
		t.Fatalf("result = %+v", result)
	}

	content, err := mgr.ReadFile("b.md")
	if err != nil || content != "second" {
		t.Fatalf("ReadFile(b.md) = %q, %v", content, err)
	}
}

func TestExecute_FailFastStopsAtFirstError(t *testing.T) {
	mgr := newTestManager(t)
	ops := []Op{
		{Kind: CreateNote, Path: "a.md", Content: "first"},
		{Kind: MoveNote, Path: "missing.md", NewPath: "moved.md"},
		{Kind: CreateNote, Path: "never-reached.md", Content: "nope"},
	}

	result, err := Execute(mgr, ops)
	if err == nil {
		t.Fatalf("expected an error from moving a missing file")
	}
	if result.FailedIndex != 1 {
		t.Fatalf("FailedIndex = %d, want 1", result.FailedIndex)
	}
	if _, statErr := mgr.ReadFile("never-reached.md"); statErr == nil {
		t.Fatalf("expected the op after the failure to not have run")
	}
}

func TestExecute_UpdateLinksReplacesSubstring(t *testing.T) {
	mgr := newTestManager(t)
	ops := []Op{
		{Kind: CreateNote, Path: "a.md", Content: "see [[old-target]] for more"},
		{Kind: UpdateLinks, Path: "a.md", OldTarget: "old-target", NewTarget: "new-target"},
	}

	result, err := Execute(mgr, ops)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.FailedIndex != -1 {
		t.Fatalf("result = %+v", result)
	}

	content, err := mgr.ReadFile("a.md")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if content != "see [[new-target]] for more" {
		t.Fatalf("content = %q, want substituted target", content)
	}
}

func TestExecute_UpdateLinksNoopWhenUnchanged(t *testing.T) {
	mgr := newTestManager(t)
	ops := []Op{
		{Kind: CreateNote, Path: "a.md", Content: "no links here"},
		{Kind: UpdateLinks, Path: "a.md", OldTarget: "absent", NewTarget: "whatever"},
	}

	result, err := Execute(mgr, ops)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.FailedIndex != -1 || !result.Results[1].Applied {
		t.Fatalf("result = %+v", result)
	}

	content, err := mgr.ReadFile("a.md")
	if err != nil || content != "no links here" {
		t.Fatalf("ReadFile = %q, %v, want unchanged", content, err)
	}
}

func TestValidate_RejectsEmptyBatch(t *testing.T) {
	if err := Validate(nil); err == nil {
		t.Fatalf("expected an error for an empty batch")
	}
}
