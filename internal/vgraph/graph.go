package vgraph

import (
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/arkan-labs/vaultengine/internal/markdown"
)

// Graph is a directed multigraph over vault file paths. All operations are
// safe for concurrent use (a single RWMutex guards the whole structure --
// the teacher's vault.go serializes all mutation through a single command
// dispatch loop, so coarse locking here matches the same concurrency
// posture without needing the CLI's single-threaded assumption).
type Graph struct {
	mu sync.RWMutex

	nodes map[string]*Node
	out   map[string][]markdown.Link // path -> outgoing links, resolution already annotated
	in    map[string][]markdown.Link // path -> incoming links (backlinks)

	stemIndex  map[string][]string // lowercase stem -> paths
	aliasIndex map[string][]string // lowercase alias -> paths
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		nodes:      make(map[string]*Node),
		out:        make(map[string][]markdown.Link),
		in:         make(map[string][]markdown.Link),
		stemIndex:  make(map[string][]string),
		aliasIndex: make(map[string][]string),
	}
}

func stemOf(p string) string {
	base := path.Base(p)
	ext := path.Ext(base)
	return strings.ToLower(strings.TrimSuffix(base, ext))
}

// AddFile registers a node for path and indexes it, then computes its
// outgoing edges from doc. Calling AddFile again for an existing path is
// equivalent to UpdateLinks (it replaces the node and its edges).
func (g *Graph) AddFile(p string, doc *markdown.Document) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addFileLocked(p, doc)
}

func (g *Graph) addFileLocked(p string, doc *markdown.Document) {
	g.removeFileLocked(p)

	node := &Node{Path: p, Stem: stemOf(p)}
	if doc.Frontmatter != nil {
		for _, a := range doc.Frontmatter.Aliases {
			node.Aliases = append(node.Aliases, strings.ToLower(a))
		}
	}
	g.nodes[p] = node

	g.stemIndex[node.Stem] = append(g.stemIndex[node.Stem], p)
	for _, a := range node.Aliases {
		g.aliasIndex[a] = append(g.aliasIndex[a], p)
	}

	g.recomputeEdgesLocked(p, doc)

	// Links recorded before p existed may resolve to it now.
	for src, edges := range g.out {
		for i := range edges {
			l := &edges[i]
			if l.IsValid || l.Type == markdown.ExternalLink {
				continue
			}
			if target, ok := g.resolveLinkLocked(src, l.RawTarget); ok && target == p {
				l.ResolvedTarget, l.IsValid = target, true
				g.in[p] = append(g.in[p], *l)
			}
		}
	}
}

// UpdateLinks re-derives p's outgoing edges from doc without touching its
// node identity (stem/alias indices). Use this after an edit that changes
// only a file's link content, not its path or frontmatter aliases.
func (g *Graph) UpdateLinks(p string, doc *markdown.Document) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.nodes[p]; !ok {
		g.addFileLocked(p, doc)
		return
	}
	g.recomputeEdgesLocked(p, doc)
}

func (g *Graph) recomputeEdgesLocked(p string, doc *markdown.Document) {
	g.clearOutgoingLocked(p)

	edges := make([]markdown.Link, 0, len(doc.Links))
	for _, l := range doc.Links {
		l.SourcePath = p
		if l.Type != markdown.ExternalLink {
			if target, ok := g.resolveLinkLocked(p, l.RawTarget); ok {
				l.ResolvedTarget = target
				l.IsValid = true
				g.in[target] = append(g.in[target], l)
			}
		}
		edges = append(edges, l)
	}
	g.out[p] = edges
}

func (g *Graph) clearOutgoingLocked(p string) {
	for _, l := range g.out[p] {
		if !l.IsValid {
			continue
		}
		g.in[l.ResolvedTarget] = removeLink(g.in[l.ResolvedTarget], p)
	}
	delete(g.out, p)
}

func removeLink(links []markdown.Link, sourcePath string) []markdown.Link {
	out := links[:0]
	for _, l := range links {
		if l.SourcePath != sourcePath {
			out = append(out, l)
		}
	}
	return out
}

// RemoveFile deletes a node, its edges, and its index entries.
func (g *Graph) RemoveFile(p string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.removeFileLocked(p)
}

func (g *Graph) removeFileLocked(p string) {
	node, ok := g.nodes[p]
	if !ok {
		return
	}
	g.clearOutgoingLocked(p)

	// Links that targeted p become unresolved, but stay in the source's
	// edge list so broken-link health checks can still see them.
	for _, l := range g.in[p] {
		edges := g.out[l.SourcePath]
		for i := range edges {
			if edges[i].ResolvedTarget == p && edges[i].RawTarget == l.RawTarget {
				edges[i].IsValid = false
				edges[i].ResolvedTarget = ""
			}
		}
	}
	delete(g.in, p)

	g.stemIndex[node.Stem] = removeString(g.stemIndex[node.Stem], p)
	for _, a := range node.Aliases {
		g.aliasIndex[a] = removeString(g.aliasIndex[a], p)
	}
	delete(g.nodes, p)
}

func removeString(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}

// ResolveLink resolves rawTarget (as written inside sourcePath) to an
// existing node path, trying an exact path match, then a filename-stem
// match, then a frontmatter-alias match -- Obsidian's own resolution order.
func (g *Graph) ResolveLink(sourcePath, rawTarget string) (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.resolveLinkLocked(sourcePath, rawTarget)
}

func (g *Graph) resolveLinkLocked(sourcePath, rawTarget string) (string, bool) {
	base := rawTarget
	if i := strings.IndexByte(base, '#'); i >= 0 {
		base = base[:i]
	}
	base = strings.TrimSpace(base)
	if base == "" {
		return "", false
	}

	if strings.Contains(base, "/") {
		if target, ok := resolveByPathSuffix(g.nodes, sourcePath, base); ok {
			return target, true
		}
	}

	stem := strings.ToLower(strings.TrimSuffix(base, path.Ext(base)))
	if candidates := g.stemIndex[stem]; len(candidates) > 0 {
		return pickCandidate(candidates), true
	}

	lowerBase := strings.ToLower(base)
	if candidates := g.aliasIndex[lowerBase]; len(candidates) > 0 {
		return pickCandidate(candidates), true
	}

	return "", false
}

// resolveByPathSuffix matches rawTarget against node paths ending with it
// (with or without a .md extension), searching the whole vault; sourcePath's
// directory is not consulted.
//
// Open Question resolved: when more than one node path ends with the same
// suffix, the shortest matching path wins; ties break lexicographically.
// This is a deterministic, documented policy rather than "first found"
// (which would depend on scan order).
func resolveByPathSuffix(nodes map[string]*Node, sourcePath, target string) (string, bool) {
	target = strings.TrimSuffix(target, ".md")
	var candidates []string
	for p := range nodes {
		stripped := strings.TrimSuffix(p, ".md")
		if strings.EqualFold(stripped, target) || strings.HasSuffix(strings.ToLower(stripped), "/"+strings.ToLower(target)) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	return pickCandidate(candidates), true
}

// pickCandidate applies the deterministic tie-break: shortest path first,
// then lexicographic.
func pickCandidate(candidates []string) string {
	sort.Slice(candidates, func(i, j int) bool {
		if len(candidates[i]) != len(candidates[j]) {
			return len(candidates[i]) < len(candidates[j])
		}
		return candidates[i] < candidates[j]
	})
	return candidates[0]
}
