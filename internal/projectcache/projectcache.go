// Package projectcache implements the project cache (C9): identifies the
// project a vault session is running in by walking upward for a marker
// file, derives a stable project ID from its root path, and persists the
// session's vault registry and metadata under a platform cache directory.
package projectcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/arkan-labs/vaultengine/internal/vaulterr"
	"gopkg.in/yaml.v3"
)

// DefaultMarkers are the marker files/directories FindProjectRoot looks for,
// tried in order at each directory level walking upward from startDir.
var DefaultMarkers = []string{".git", ".vaultengine", "go.mod", "package.json"}

// FindProjectRoot walks upward from startDir looking for any of markers at
// each level, stopping at the filesystem root. Returns the first directory
// containing a marker, or ok=false if none is found.
func FindProjectRoot(startDir string, markers []string) (dir string, ok bool) {
	cur, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}
	for {
		for _, marker := range markers {
			if _, err := os.Stat(filepath.Join(cur, marker)); err == nil {
				return cur, true
			}
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", false
		}
		cur = parent
	}
}

// ProjectID derives a stable 16-hex-character identifier from a project
// root's absolute path.
func ProjectID(root string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(root)))
	return hex.EncodeToString(sum[:])[:16]
}

// CacheRoot resolves the platform cache directory for the application,
// honoring a VAULTENGINE_CACHE_DIR override, then os.UserCacheDir (which
// itself honors XDG_CACHE_HOME on Linux, Library/Caches on macOS, and
// LocalAppData on Windows), and finally falling back to ~/.vaultengine/cache.
func CacheRoot() (string, error) {
	if dir := os.Getenv("VAULTENGINE_CACHE_DIR"); dir != "" {
		return dir, nil
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "vaultengine"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", vaulterr.ConfigErr("cannot determine a cache directory: %v", err)
	}
	return filepath.Join(home, ".vaultengine", "cache"), nil
}

// Overrides holds the subset of vaultconfig.VaultManagerOptions values a
// single vault entry may override from the session defaults. Every field
// is a pointer so an absent override round-trips as YAML null rather than
// a misleading zero value.
type Overrides struct {
	CacheTTLSeconds *int64   `yaml:"cache_ttl_seconds"`
	MaxFileSize     *int64   `yaml:"max_file_size"`
	FuzzyThreshold  *float64 `yaml:"fuzzy_threshold"`
}

// VaultConfig is one entry in the persisted vault registry (vaults.yaml is
// a YAML sequence of these).
type VaultConfig struct {
	Name      string     `yaml:"name"`
	Path      string     `yaml:"path"`
	IsDefault bool       `yaml:"is_default"`
	Overrides *Overrides `yaml:"overrides"`
}

// Metadata is the persisted metadata.json object: the active vault, when
// it was last written, the cache schema version, and the project this
// cache directory belongs to.
type Metadata struct {
	ActiveVault string `json:"active_vault"`
	LastUpdated int64  `json:"last_updated"`
	Version     int    `json:"version"`
	ProjectID   string `json:"project_id"`
	WorkingDir  string `json:"working_dir"`
}

// Store persists one project's vault registry (vaults.yaml) and metadata
// (metadata.json) under CacheRoot()/projects/<project-id>/.
type Store struct {
	dir        string
	projectID  string
	workingDir string
}

// NewStore resolves the cache directory for projectRoot and ensures it
// exists.
func NewStore(projectRoot string) (*Store, error) {
	root, err := CacheRoot()
	if err != nil {
		return nil, err
	}
	id := ProjectID(projectRoot)
	dir := filepath.Join(root, "projects", id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, vaulterr.IOErr(dir, err)
	}

	wd, err := os.Getwd()
	if err != nil {
		wd = projectRoot
	}
	return &Store{dir: dir, projectID: id, workingDir: wd}, nil
}

func (s *Store) vaultsPath() string   { return filepath.Join(s.dir, "vaults.yaml") }
func (s *Store) metadataPath() string { return filepath.Join(s.dir, "metadata.json") }

// SaveVaults writes vaults.yaml (the full vault registry as a YAML
// sequence of VaultConfig) and metadata.json (active vault, version,
// project ID, working directory, and the current timestamp) together, as
// the spec's save_vaults(configs, active_name) contract requires.
func (s *Store) SaveVaults(configs []VaultConfig, activeName string) error {
	data, err := yaml.Marshal(configs)
	if err != nil {
		return vaulterr.ParseErr(s.vaultsPath(), err)
	}
	if err := os.WriteFile(s.vaultsPath(), data, 0o644); err != nil {
		return vaulterr.IOErr(s.vaultsPath(), err)
	}

	return s.SaveMetadata(Metadata{
		ActiveVault: activeName,
		LastUpdated: time.Now().Unix(),
		Version:     1,
		ProjectID:   s.projectID,
		WorkingDir:  s.workingDir,
	})
}

// LoadVaults reads the persisted vault registry. A missing file returns an
// empty slice, not an error -- a project that has never saved vaults yet is
// a normal starting state.
func (s *Store) LoadVaults() ([]VaultConfig, error) {
	data, err := os.ReadFile(s.vaultsPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, vaulterr.IOErr(s.vaultsPath(), err)
	}
	var configs []VaultConfig
	if err := yaml.Unmarshal(data, &configs); err != nil {
		return nil, vaulterr.ParseErr(s.vaultsPath(), err)
	}
	return configs, nil
}

// SaveMetadata persists meta as JSON directly. SaveVaults is the usual
// entry point; this is exposed for callers that need to update metadata
// without rewriting the vault registry.
func (s *Store) SaveMetadata(meta Metadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return vaulterr.ParseErr(s.metadataPath(), err)
	}
	if err := os.WriteFile(s.metadataPath(), data, 0o644); err != nil {
		return vaulterr.IOErr(s.metadataPath(), err)
	}
	return nil
}

// LoadMetadata reads persisted metadata. A missing file is not an error;
// the zero Metadata is returned.
func (s *Store) LoadMetadata() (Metadata, error) {
	data, err := os.ReadFile(s.metadataPath())
	if os.IsNotExist(err) {
		return Metadata{}, nil
	}
	if err != nil {
		return Metadata{}, vaulterr.IOErr(s.metadataPath(), err)
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return Metadata{}, vaulterr.ParseErr(s.metadataPath(), err)
	}
	return meta, nil
}

// Clear removes the entire cache directory for this project.
func (s *Store) Clear() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return vaulterr.IOErr(s.dir, err)
	}
	return nil
}
