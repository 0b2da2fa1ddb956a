package projectcache

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindProjectRoot_WalksUpward(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "go.mod"), []byte("module x\n"), 0o644); err != nil {
		t.Fatalf("seed go.mod: %v", err)
	}
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	found, ok := FindProjectRoot(nested, DefaultMarkers)
	if !ok {
		t.Fatalf("expected to find a project root")
	}
	wantRoot, _ := filepath.EvalSymlinks(root)
	gotRoot, _ := filepath.EvalSymlinks(found)
	if gotRoot != wantRoot {
		t.Fatalf("found = %q, want %q", gotRoot, wantRoot)
	}
}

func TestFindProjectRoot_NoMarkerFound(t *testing.T) {
	dir := t.TempDir()
	if _, ok := FindProjectRoot(dir, []string{"some-marker-that-will-never-exist"}); ok {
		t.Fatalf("expected no project root to be found")
	}
}

func TestProjectID_StableAndDistinct(t *testing.T) {
	id1 := ProjectID("/some/project")
	id2 := ProjectID("/some/project")
	id3 := ProjectID("/some/other-project")

	if id1 != id2 {
		t.Fatalf("ProjectID is not stable across calls: %q != %q", id1, id2)
	}
	if id1 == id3 {
		t.Fatalf("ProjectID collided for distinct roots")
	}
	if len(id1) != 16 {
		t.Fatalf("ProjectID length = %d, want 16", len(id1))
	}
}

func TestStore_SaveLoadVaults(t *testing.T) {
	cacheRoot := t.TempDir()
	t.Setenv("VAULTENGINE_CACHE_DIR", cacheRoot)

	projectRoot := t.TempDir()
	store, err := NewStore(projectRoot)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	want := []VaultConfig{
		{Name: "work", Path: "/vaults/work", IsDefault: true},
		{Name: "personal", Path: "/vaults/personal"},
	}
	if err := store.SaveVaults(want, "work"); err != nil {
		t.Fatalf("SaveVaults: %v", err)
	}

	got, err := store.LoadVaults()
	if err != nil {
		t.Fatalf("LoadVaults: %v", err)
	}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("LoadVaults = %+v, want %+v", got, want)
	}

	meta, err := store.LoadMetadata()
	if err != nil {
		t.Fatalf("LoadMetadata: %v", err)
	}
	if meta.ActiveVault != "work" || meta.Version != 1 {
		t.Fatalf("LoadMetadata = %+v, want active vault %q, version 1", meta, "work")
	}
}

func TestStore_LoadVaults_MissingFileReturnsEmpty(t *testing.T) {
	cacheRoot := t.TempDir()
	t.Setenv("VAULTENGINE_CACHE_DIR", cacheRoot)

	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	vaults, err := store.LoadVaults()
	if err != nil {
		t.Fatalf("LoadVaults: %v", err)
	}
	if len(vaults) != 0 {
		t.Fatalf("expected an empty slice, got %+v", vaults)
	}
}

func TestStore_SaveLoadMetadata(t *testing.T) {
	cacheRoot := t.TempDir()
	t.Setenv("VAULTENGINE_CACHE_DIR", cacheRoot)

	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	meta := Metadata{ActiveVault: "work", LastUpdated: 1700000000, Version: 1, ProjectID: "abc123", WorkingDir: "/proj"}
	if err := store.SaveMetadata(meta); err != nil {
		t.Fatalf("SaveMetadata: %v", err)
	}

	got, err := store.LoadMetadata()
	if err != nil {
		t.Fatalf("LoadMetadata: %v", err)
	}
	if got != meta {
		t.Fatalf("LoadMetadata = %+v, want %+v", got, meta)
	}
}

func TestStore_Clear(t *testing.T) {
	cacheRoot := t.TempDir()
	t.Setenv("VAULTENGINE_CACHE_DIR", cacheRoot)

	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.SaveVaults([]VaultConfig{{Name: "work", Path: "/x"}}, "work"); err != nil {
		t.Fatalf("SaveVaults: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := os.Stat(store.dir); !os.IsNotExist(err) {
		t.Fatalf("expected cache dir to be removed, stat err = %v", err)
	}
}

func TestStore_SaveLoadVaults_WithOverrides(t *testing.T) {
	cacheRoot := t.TempDir()
	t.Setenv("VAULTENGINE_CACHE_DIR", cacheRoot)

	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	threshold := 0.9
	configs := []VaultConfig{
		{Name: "work", Path: "/vaults/work", IsDefault: true, Overrides: &Overrides{FuzzyThreshold: &threshold}},
		{Name: "personal", Path: "/vaults/personal"},
	}
	if err := store.SaveVaults(configs, "work"); err != nil {
		t.Fatalf("SaveVaults: %v", err)
	}

	got, err := store.LoadVaults()
	if err != nil {
		t.Fatalf("LoadVaults: %v", err)
	}
	if got[0].Overrides == nil || *got[0].Overrides.FuzzyThreshold != threshold {
		t.Fatalf("got[0].Overrides = %+v, want FuzzyThreshold %v", got[0].Overrides, threshold)
	}
	if got[1].Overrides != nil {
		t.Fatalf("got[1].Overrides = %+v, want nil", got[1].Overrides)
	}
}

func TestCacheRoot_HonorsOverrideEnvVar(t *testing.T) {
	want := filepath.Join(t.TempDir(), "custom-cache")
	t.Setenv("VAULTENGINE_CACHE_DIR", want)

	got, err := CacheRoot()
	if err != nil {
		t.Fatalf("CacheRoot: %v", err)
	}
	if got != want {
		t.Fatalf("CacheRoot = %q, want %q", got, want)
	}
}
