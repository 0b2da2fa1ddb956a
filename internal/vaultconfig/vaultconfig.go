// Package vaultconfig holds tunable options for the vault engine's
// components. It is deliberately not a "configuration-profile presets"
// system (that is an excluded feature) -- just the options struct and
// functional-option constructors, in the spirit of the teacher's
// flag-driven main.go.
package vaultconfig

import "time"

// VaultManagerOptions configures a single VaultManager (C6).
type VaultManagerOptions struct {
	// CacheTTL bounds how long a parsed VaultFile is served from cache.
	CacheTTL time.Duration

	// MaxFileSize is the largest file (in bytes) eligible for scanning.
	MaxFileSize int64

	// AllowedExtensions is the set of file extensions (lowercase, with
	// leading dot) eligible for scanning.
	AllowedExtensions map[string]bool

	// ExcludedDirNames are directory basenames skipped anywhere in the tree.
	ExcludedDirNames map[string]bool

	// IsolatedClusterMin/Max bound the "isolated cluster" size window used
	// by the health analyzer ([2,5) by default per spec -- a policy choice
	// the spec itself flags as should-be-configurable).
	IsolatedClusterMin int
	IsolatedClusterMax int

	// HealthyThreshold is the minimum health score considered "healthy".
	HealthyThreshold int

	// MaxSuggestions bounds broken-link suggestion lists.
	MaxSuggestions int

	// FuzzyThreshold is the Levenshtein cascading-match acceptance ratio.
	FuzzyThreshold float64

	// ScanConcurrency bounds how many files initialize() parses in parallel.
	ScanConcurrency int
}

// Option mutates a VaultManagerOptions.
type Option func(*VaultManagerOptions)

// Default returns the spec's documented defaults (§6, §4.3, §4.5).
func Default() VaultManagerOptions {
	return VaultManagerOptions{
		CacheTTL:    5 * time.Minute,
		MaxFileSize: 10 * 1024 * 1024, // 10 MiB
		AllowedExtensions: map[string]bool{
			".md": true, ".txt": true, ".canvas": true,
		},
		ExcludedDirNames: map[string]bool{
			".obsidian": true, ".git": true, ".DS_Store": true, "node_modules": true,
		},
		IsolatedClusterMin: 2,
		IsolatedClusterMax: 5,
		HealthyThreshold:   80,
		MaxSuggestions:     5,
		FuzzyThreshold:     0.85,
		ScanConcurrency:    8,
	}
}

// New applies opts atop Default().
func New(opts ...Option) VaultManagerOptions {
	cfg := Default()
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

func WithCacheTTL(d time.Duration) Option {
	return func(c *VaultManagerOptions) { c.CacheTTL = d }
}

func WithMaxFileSize(n int64) Option {
	return func(c *VaultManagerOptions) { c.MaxFileSize = n }
}

func WithAllowedExtensions(exts ...string) Option {
	return func(c *VaultManagerOptions) {
		m := make(map[string]bool, len(exts))
		for _, e := range exts {
			m[e] = true
		}
		c.AllowedExtensions = m
	}
}

func WithExcludedDirNames(names ...string) Option {
	return func(c *VaultManagerOptions) {
		m := make(map[string]bool, len(names))
		for _, n := range names {
			m[n] = true
		}
		c.ExcludedDirNames = m
	}
}

func WithIsolatedClusterWindow(min, max int) Option {
	return func(c *VaultManagerOptions) {
		c.IsolatedClusterMin = min
		c.IsolatedClusterMax = max
	}
}

func WithHealthyThreshold(n int) Option {
	return func(c *VaultManagerOptions) { c.HealthyThreshold = n }
}

func WithFuzzyThreshold(t float64) Option {
	return func(c *VaultManagerOptions) { c.FuzzyThreshold = t }
}

func WithScanConcurrency(n int) Option {
	return func(c *VaultManagerOptions) { c.ScanConcurrency = n }
}

// WatcherOptions configures the filesystem watcher (C10).
type WatcherOptions struct {
	// MarkdownOnly restricts delivered events to Markdown files.
	MarkdownOnly bool

	// ExcludeHidden drops events for dotfiles and dot-directories.
	ExcludeHidden bool

	// ExcludedDirNames are directory basenames never watched, anywhere in
	// the tree. Shares the same defaults as VaultManagerOptions.
	ExcludedDirNames map[string]bool

	// Debounce is the interval events for the same path are coalesced
	// over before being delivered.
	Debounce time.Duration
}

// WatcherOption mutates a WatcherOptions.
type WatcherOption func(*WatcherOptions)

// DefaultWatcher returns the spec's documented watcher defaults (§4.10).
func DefaultWatcher() WatcherOptions {
	return WatcherOptions{
		MarkdownOnly:  true,
		ExcludeHidden: true,
		ExcludedDirNames: map[string]bool{
			".obsidian": true, ".git": true, ".DS_Store": true, "node_modules": true,
		},
		Debounce: 300 * time.Millisecond,
	}
}

// NewWatcherOptions applies opts atop DefaultWatcher().
func NewWatcherOptions(opts ...WatcherOption) WatcherOptions {
	cfg := DefaultWatcher()
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

func WithMarkdownOnly(v bool) WatcherOption {
	return func(c *WatcherOptions) { c.MarkdownOnly = v }
}

func WithExcludeHidden(v bool) WatcherOption {
	return func(c *WatcherOptions) { c.ExcludeHidden = v }
}

func WithWatcherDebounce(d time.Duration) WatcherOption {
	return func(c *WatcherOptions) { c.Debounce = d }
}

func WithWatcherExcludedDirNames(names ...string) WatcherOption {
	return func(c *WatcherOptions) {
		m := make(map[string]bool, len(names))
		for _, n := range names {
			m[n] = true
		}
		c.ExcludedDirNames = m
	}
}
