package session

import (
	"context"
	"testing"

	"github.com/arkan-labs/vaultengine/internal/projectcache"
)

func TestAddVault_FirstBecomesActive(t *testing.T) {
	s := New(nil)
	if err := s.AddVault("work", t.TempDir()); err != nil {
		t.Fatalf("AddVault: %v", err)
	}
	active, err := s.ActiveVaultName()
	if err != nil || active != "work" {
		t.Fatalf("ActiveVaultName = %q, %v", active, err)
	}
}

func TestAddVault_DuplicateNameRejected(t *testing.T) {
	s := New(nil)
	root := t.TempDir()
	if err := s.AddVault("work", root); err != nil {
		t.Fatalf("AddVault: %v", err)
	}
	if err := s.AddVault("work", root); err == nil {
		t.Fatalf("expected an error re-registering the same name")
	}
}

func TestSetActive_RequiresRegistration(t *testing.T) {
	s := New(nil)
	if err := s.SetActive("nope"); err == nil {
		t.Fatalf("expected an error activating an unregistered vault")
	}
}

func TestRemoveVault_ClearsActive(t *testing.T) {
	s := New(nil)
	if err := s.AddVault("work", t.TempDir()); err != nil {
		t.Fatalf("AddVault: %v", err)
	}
	if err := s.RemoveVault("work"); err != nil {
		t.Fatalf("RemoveVault: %v", err)
	}
	if _, err := s.ActiveVaultName(); err == nil {
		t.Fatalf("expected no active vault after removal")
	}
}

func TestManager_MaterializesLazily(t *testing.T) {
	s := New(nil)
	root := t.TempDir()
	if err := s.AddVault("work", root); err != nil {
		t.Fatalf("AddVault: %v", err)
	}

	m1, err := s.ActiveManager(context.Background())
	if err != nil {
		t.Fatalf("ActiveManager: %v", err)
	}
	m2, err := s.Manager(context.Background(), "work")
	if err != nil {
		t.Fatalf("Manager: %v", err)
	}
	if m1 != m2 {
		t.Fatalf("expected the same cached *vault.Manager instance")
	}
}

func TestAttachCache_PersistsAndRestoresAcrossSessions(t *testing.T) {
	cacheRoot := t.TempDir()
	t.Setenv("VAULTENGINE_CACHE_DIR", cacheRoot)
	projectRoot := t.TempDir()
	vaultRoot := t.TempDir()

	store1, err := projectcache.NewStore(projectRoot)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	s1 := New(nil)
	if err := s1.AttachCache(store1); err != nil {
		t.Fatalf("AttachCache: %v", err)
	}
	if err := s1.AddVault("work", vaultRoot); err != nil {
		t.Fatalf("AddVault: %v", err)
	}

	store2, err := projectcache.NewStore(projectRoot)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	s2 := New(nil)
	if err := s2.AttachCache(store2); err != nil {
		t.Fatalf("AttachCache (restore): %v", err)
	}

	active, err := s2.ActiveVaultName()
	if err != nil || active != "work" {
		t.Fatalf("restored ActiveVaultName = %q, %v, want work", active, err)
	}
	names := s2.ListVaults()
	if len(names) != 1 || names[0] != "work" {
		t.Fatalf("restored ListVaults = %v, want [work]", names)
	}
}

func TestListVaults_Sorted(t *testing.T) {
	s := New(nil)
	_ = s.AddVault("zeta", t.TempDir())
	_ = s.AddVault("alpha", t.TempDir())

	names := s.ListVaults()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
		t.Fatalf("ListVaults = %v, want [alpha zeta]", names)
	}
}
