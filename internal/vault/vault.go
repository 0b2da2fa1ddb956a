package vault

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/arkan-labs/vaultengine/internal/atomicfile"
	"github.com/arkan-labs/vaultengine/internal/editengine"
	"github.com/arkan-labs/vaultengine/internal/markdown"
	"github.com/arkan-labs/vaultengine/internal/vaultconfig"
	"github.com/arkan-labs/vaultengine/internal/vaulterr"
	"github.com/arkan-labs/vaultengine/internal/vgraph"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Manager owns one vault's parser, link graph, and cache. It is the only
// component that touches a vault's files directly; C7 and C8 go through it.
type Manager struct {
	root string
	cfg  vaultconfig.VaultManagerOptions
	log  *zap.SugaredLogger

	graph *vgraph.Graph
	atoms *atomicfile.Manager

	mu    sync.RWMutex
	cache map[string]*cacheEntry

	metrics metricsCounters
}

// New validates root as an existing directory and returns a Manager over
// it. The vault is not scanned until Initialize is called.
func New(root string, log *zap.SugaredLogger, opts ...vaultconfig.Option) (*Manager, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, vaulterr.InvalidPathErr(root, "cannot resolve absolute path: %v", err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, vaulterr.NotFoundErr(abs, "vault root does not exist or is not a directory")
	}

	if log == nil {
		log = zap.NewNop().Sugar()
	}

	atoms, err := atomicfile.NewManager(filepath.Join(abs, ".vaultengine", "backups"))
	if err != nil {
		return nil, err
	}

	return &Manager{
		root:  abs,
		cfg:   vaultconfig.New(opts...),
		log:   log,
		graph: vgraph.New(),
		atoms: atoms,
		cache: make(map[string]*cacheEntry),
	}, nil
}

// Root returns the vault's absolute root path.
func (m *Manager) Root() string { return m.root }

// Graph exposes the vault's link graph for C3/C8 queries.
func (m *Manager) Graph() *vgraph.Graph { return m.graph }

// Metrics returns a point-in-time snapshot of operation counters.
func (m *Manager) Metrics() Metrics { return m.metrics.snapshot() }

// Config returns the options this Manager was constructed with, for
// callers (the health analyzer, the wire surface) that need the same
// tunables the manager itself uses.
func (m *Manager) Config() vaultconfig.VaultManagerOptions { return m.cfg }

// resolvePath turns a vault-relative (or absolute-within-vault) path into
// an absolute filesystem path, rejecting anything that escapes the vault
// root -- the path containment check required by spec §4.6.1.
func (m *Manager) resolvePath(p string) (string, error) {
	var abs string
	if filepath.IsAbs(p) {
		abs = filepath.Clean(p)
	} else {
		abs = filepath.Clean(filepath.Join(m.root, p))
	}

	rel, err := filepath.Rel(m.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", vaulterr.PathTraversalErr(p)
	}
	return abs, nil
}

// relPath turns an absolute path (known to be inside the vault) back into
// the vault-relative path used as a graph/cache key.
func (m *Manager) relPath(abs string) string {
	rel, err := filepath.Rel(m.root, abs)
	if err != nil {
		return abs
	}
	return filepath.ToSlash(rel)
}

// Initialize scans the vault and parses every eligible file, building the
// initial cache and link graph. Scanning runs up to cfg.ScanConcurrency
// files in parallel.
func (m *Manager) Initialize(ctx context.Context) error {
	return m.ScanVault(ctx)
}

// ScanVault walks the vault root, parsing every eligible file concurrently
// and (re)populating the cache and graph. Directories named in
// cfg.ExcludedDirNames are skipped entirely.
func (m *Manager) ScanVault(ctx context.Context) error {
	var paths []string
	err := filepath.WalkDir(m.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if m.cfg.ExcludedDirNames[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !m.cfg.AllowedExtensions[strings.ToLower(filepath.Ext(p))] {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() > m.cfg.MaxFileSize {
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return vaulterr.IOErr(m.root, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.ScanConcurrency)
	for _, p := range paths {
		p := p
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			_, err := m.ParseFile(p)
			if err != nil {
				m.log.Warnw("skipping unparseable file", "path", p, "error", err)
			}
			return nil
		})
	}
	return g.Wait()
}

// ReadFile returns a file's raw content (not parsed).
func (m *Manager) ReadFile(p string) (string, error) {
	abs, err := m.resolvePath(p)
	if err != nil {
		return "", err
	}
	content, err := os.ReadFile(abs)
	if os.IsNotExist(err) {
		return "", vaulterr.NotFoundErr(abs, "no such file")
	}
	if err != nil {
		return "", vaulterr.IOErr(abs, err)
	}
	return string(content), nil
}

// ParseFile parses a file, serving from cache when the entry is still
// within cfg.CacheTTL.
func (m *Manager) ParseFile(p string) (*markdown.Document, error) {
	abs, err := m.resolvePath(p)
	if err != nil {
		return nil, err
	}
	relKey := m.relPath(abs)

	m.mu.RLock()
	entry, ok := m.cache[relKey]
	m.mu.RUnlock()
	if ok && time.Now().Before(entry.expiresAt) {
		m.metrics.cacheHits.Add(1)
		return entry.doc, nil
	}
	m.metrics.cacheMisses.Add(1)

	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, vaulterr.IOErr(abs, err)
	}

	doc := markdown.Parse(relKey, string(content))
	m.metrics.filesParsed.Add(1)

	m.mu.Lock()
	m.cache[relKey] = &cacheEntry{
		content:   string(content),
		doc:       doc,
		hash:      editengine.ContentHash(string(content)),
		expiresAt: time.Now().Add(m.cfg.CacheTTL),
	}
	m.mu.Unlock()

	m.graph.AddFile(relKey, doc)
	m.metrics.graphUpdates.Add(1)
	return doc, nil
}

// WriteFile atomically replaces a file's content, reparses it, and updates
// the graph and cache.
func (m *Manager) WriteFile(p, content string) error {
	abs, err := m.resolvePath(p)
	if err != nil {
		return err
	}
	if err := m.atoms.Write(abs, []byte(content)); err != nil {
		return err
	}
	m.metrics.writes.Add(1)

	relKey := m.relPath(abs)
	doc := markdown.Parse(relKey, content)
	m.metrics.filesParsed.Add(1)

	m.mu.Lock()
	m.cache[relKey] = &cacheEntry{
		content:   content,
		doc:       doc,
		hash:      editengine.ContentHash(content),
		expiresAt: time.Now().Add(m.cfg.CacheTTL),
	}
	m.mu.Unlock()

	m.graph.UpdateLinks(relKey, doc)
	m.metrics.graphUpdates.Add(1)
	return nil
}

// DeleteFile removes a file from disk, the cache, and the graph.
func (m *Manager) DeleteFile(p string) error {
	abs, err := m.resolvePath(p)
	if err != nil {
		return err
	}
	if err := m.atoms.Delete(abs); err != nil {
		return err
	}

	relKey := m.relPath(abs)
	m.mu.Lock()
	delete(m.cache, relKey)
	m.mu.Unlock()
	m.graph.RemoveFile(relKey)
	return nil
}

// MoveFile relocates a file on disk and re-keys its cache and graph entries.
func (m *Manager) MoveFile(from, to string) error {
	absFrom, err := m.resolvePath(from)
	if err != nil {
		return err
	}
	absTo, err := m.resolvePath(to)
	if err != nil {
		return err
	}
	if err := m.atoms.Move(absFrom, absTo); err != nil {
		return err
	}

	relFrom := m.relPath(absFrom)
	relTo := m.relPath(absTo)

	m.mu.Lock()
	entry := m.cache[relFrom]
	delete(m.cache, relFrom)
	if entry != nil {
		entry.doc = markdown.Parse(relTo, entry.content)
		m.cache[relTo] = entry
	}
	m.mu.Unlock()

	m.graph.RemoveFile(relFrom)
	if entry != nil {
		m.graph.AddFile(relTo, entry.doc)
	}
	return nil
}

// EditFile applies a SEARCH/REPLACE edit instruction to a file, optionally
// gated by expectedHash for optimistic concurrency, and persists the
// result unless dryRun is set (in which case a unified diff is returned
// instead and nothing is written).
func (m *Manager) EditFile(p, instruction, expectedHash string, dryRun bool) (string, error) {
	abs, err := m.resolvePath(p)
	if err != nil {
		return "", err
	}
	relKey := m.relPath(abs)

	content, err := m.ReadFile(relKey)
	if err != nil {
		return "", err
	}

	if dryRun {
		return editengine.DryRun(relKey, content, instruction, m.cfg.FuzzyThreshold)
	}

	_, final, err := editengine.ApplyInstruction(relKey, content, instruction, expectedHash, m.cfg.FuzzyThreshold)
	if err != nil {
		return "", err
	}
	if err := m.WriteFile(relKey, final); err != nil {
		return "", err
	}
	return final, nil
}
