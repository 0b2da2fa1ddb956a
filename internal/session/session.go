// Package session implements the multi-vault session layer (C8): a
// registry of named vaults plus one active vault, materializing
// vault.Manager instances lazily and caching them across calls.
package session

import (
	"context"
	"sort"
	"sync"

	"github.com/arkan-labs/vaultengine/internal/projectcache"
	"github.com/arkan-labs/vaultengine/internal/vault"
	"github.com/arkan-labs/vaultengine/internal/vaultconfig"
	"github.com/arkan-labs/vaultengine/internal/vaulterr"
	"go.uber.org/zap"
)

// Session holds a registry of named vaults and tracks which one is active.
type Session struct {
	mu sync.RWMutex

	roots    map[string]string // vault name -> root path
	managers map[string]*vault.Manager
	active   string

	log     *zap.SugaredLogger
	cfgOpts []vaultconfig.Option

	cache *projectcache.Store
}

// New returns an empty Session.
func New(log *zap.SugaredLogger, opts ...vaultconfig.Option) *Session {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Session{
		roots:    make(map[string]string),
		managers: make(map[string]*vault.Manager),
		log:      log,
		cfgOpts:  opts,
	}
}

// AddVault registers a named vault root. The first vault added becomes the
// active vault automatically. If a project cache is attached, the registry
// mutation is persisted immediately.
func (s *Session) AddVault(name, root string) error {
	if err := s.addVaultLocked(name, root); err != nil {
		return err
	}
	s.persist()
	return nil
}

func (s *Session) addVaultLocked(name, root string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.roots[name]; exists {
		return vaulterr.ValidationErr("vault %q is already registered", name)
	}
	s.roots[name] = root
	if s.active == "" {
		s.active = name
	}
	return nil
}

// RemoveVault drops a vault from the registry (and its materialized
// manager, if any). If it was the active vault, the active vault becomes
// unset. Persists the mutation if a project cache is attached.
func (s *Session) RemoveVault(name string) error {
	s.mu.Lock()
	if _, exists := s.roots[name]; !exists {
		s.mu.Unlock()
		return vaulterr.NotFoundErr(name, "vault %q is not registered", name)
	}
	delete(s.roots, name)
	delete(s.managers, name)
	if s.active == name {
		s.active = ""
	}
	s.mu.Unlock()

	s.persist()
	return nil
}

// SetActive switches the active vault. The vault must already be
// registered. Persists the change if a project cache is attached.
func (s *Session) SetActive(name string) error {
	if err := s.setActiveLocked(name); err != nil {
		return err
	}
	s.persist()
	return nil
}

func (s *Session) setActiveLocked(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.roots[name]; !exists {
		return vaulterr.NotFoundErr(name, "vault %q is not registered", name)
	}
	s.active = name
	return nil
}

// ActiveVaultName returns the currently active vault's name, or an error
// if no vault is active.
func (s *Session) ActiveVaultName() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == "" {
		return "", vaulterr.ValidationErr("no active vault")
	}
	return s.active, nil
}

// ListVaults returns every registered vault name, sorted.
func (s *Session) ListVaults() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.roots))
	for n := range s.roots {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Manager materializes (or returns the cached) vault.Manager for name,
// initializing it on first access.
func (s *Session) Manager(ctx context.Context, name string) (*vault.Manager, error) {
	s.mu.Lock()
	if m, ok := s.managers[name]; ok {
		s.mu.Unlock()
		return m, nil
	}
	root, ok := s.roots[name]
	if !ok {
		s.mu.Unlock()
		return nil, vaulterr.NotFoundErr(name, "vault %q is not registered", name)
	}
	s.mu.Unlock()

	m, err := vault.New(root, s.log, s.cfgOpts...)
	if err != nil {
		return nil, err
	}
	if err := m.Initialize(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.managers[name] = m
	s.mu.Unlock()
	return m, nil
}

// ActiveManager materializes the currently active vault's Manager.
func (s *Session) ActiveManager(ctx context.Context) (*vault.Manager, error) {
	name, err := s.ActiveVaultName()
	if err != nil {
		return nil, err
	}
	return s.Manager(ctx, name)
}

// AttachCache wires a project cache into the session: vaults.yaml and
// metadata.json are loaded first and added to the registry (with
// active_vault restored), and every subsequent AddVault/RemoveVault/
// SetActive call persists the registry back to store.
func (s *Session) AttachCache(store *projectcache.Store) error {
	s.mu.Lock()
	s.cache = store
	s.mu.Unlock()
	return s.restore(store)
}

// restore loads vaults.yaml/metadata.json and registers what it finds,
// bypassing the per-mutation persist so it doesn't rewrite the files it is
// in the middle of reading from.
func (s *Session) restore(store *projectcache.Store) error {
	configs, err := store.LoadVaults()
	if err != nil {
		return err
	}
	meta, err := store.LoadMetadata()
	if err != nil {
		return err
	}

	for _, cfg := range configs {
		if err := s.addVaultLocked(cfg.Name, cfg.Path); err != nil {
			return err
		}
	}
	if meta.ActiveVault != "" {
		if err := s.setActiveLocked(meta.ActiveVault); err != nil {
			return err
		}
	}
	return nil
}

// persist writes the current registry to the attached cache, if any. A
// save failure is logged rather than propagated -- an unwritable cache
// degrades to a session that doesn't survive a restart, not a failed
// registry mutation.
func (s *Session) persist() {
	s.mu.RLock()
	cache := s.cache
	if cache == nil {
		s.mu.RUnlock()
		return
	}
	names := make([]string, 0, len(s.roots))
	for n := range s.roots {
		names = append(names, n)
	}
	sort.Strings(names)

	configs := make([]projectcache.VaultConfig, 0, len(names))
	for _, n := range names {
		configs = append(configs, projectcache.VaultConfig{
			Name:      n,
			Path:      s.roots[n],
			IsDefault: n == s.active,
		})
	}
	active := s.active
	s.mu.RUnlock()

	if err := cache.SaveVaults(configs, active); err != nil {
		s.log.Warnw("failed to persist vault registry", "error", err)
	}
}
