package vgraph

import (
	"sort"

	"github.com/arkan-labs/vaultengine/internal/markdown"
)

// ForwardLinks returns every outgoing link recorded for p, resolved or not.
func (g *Graph) ForwardLinks(p string) []markdown.Link {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]markdown.Link(nil), g.out[p]...)
}

// OutgoingLinks returns only the resolved (valid) outgoing links for p.
func (g *Graph) OutgoingLinks(p string) []markdown.Link {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []markdown.Link
	for _, l := range g.out[p] {
		if l.IsValid {
			out = append(out, l)
		}
	}
	return out
}

// Backlinks returns every link that resolves to p.
func (g *Graph) Backlinks(p string) []markdown.Link {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]markdown.Link(nil), g.in[p]...)
}

// IncomingLinks is an alias for Backlinks, named to match the spec's query
// vocabulary for symmetry with OutgoingLinks.
func (g *Graph) IncomingLinks(p string) []markdown.Link {
	return g.Backlinks(p)
}

// OrphanedNotes returns nodes with neither outgoing resolved links nor
// incoming links, sorted for deterministic output.
func (g *Graph) OrphanedNotes() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []string
	for p := range g.nodes {
		if len(g.in[p]) > 0 {
			continue
		}
		hasOut := false
		for _, l := range g.out[p] {
			if l.IsValid {
				hasOut = true
				break
			}
		}
		if !hasOut {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// AllLinks returns every link in the graph, ordered by source path and then
// in each source's recorded order (wikilinks before markdown links), for
// deterministic iteration.
func (g *Graph) AllLinks() []markdown.Link {
	g.mu.RLock()
	defer g.mu.RUnlock()

	paths := make([]string, 0, len(g.out))
	for p := range g.out {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var all []markdown.Link
	for _, p := range paths {
		all = append(all, g.out[p]...)
	}
	return all
}

// RelatedNotes performs a breadth-first search outward from p (following
// resolved outgoing and incoming edges) up to depth hops, returning paths
// in BFS-discovery order, excluding p itself.
func (g *Graph) RelatedNotes(p string, depth int) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	visited := map[string]bool{p: true}
	frontier := []string{p}
	var result []string

	for d := 0; d < depth && len(frontier) > 0; d++ {
		neighbors := make(map[string]bool)
		for _, cur := range frontier {
			for _, l := range g.out[cur] {
				if l.IsValid {
					neighbors[l.ResolvedTarget] = true
				}
			}
			for _, l := range g.in[cur] {
				neighbors[l.SourcePath] = true
			}
		}
		var next []string
		for n := range neighbors {
			if !visited[n] {
				visited[n] = true
				next = append(next, n)
			}
		}
		sort.Strings(next)
		result = append(result, next...)
		frontier = next
	}
	return result
}

// AllPaths returns every registered node path, sorted.
func (g *Graph) AllPaths() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	paths := make([]string, 0, len(g.nodes))
	for p := range g.nodes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Stems returns every stem key currently indexed, sorted. Intended for
// feeding the health analyzer's broken-link suggestion ranking.
func (g *Graph) Stems() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	stems := make([]string, 0, len(g.stemIndex))
	for s := range g.stemIndex {
		stems = append(stems, s)
	}
	sort.Strings(stems)
	return stems
}

// Stats summarizes node/edge/broken/orphan counts.
func (g *Graph) Stats() Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()

	s := Stats{NodeCount: len(g.nodes)}
	for _, edges := range g.out {
		for _, l := range edges {
			if l.Type == markdown.ExternalLink {
				continue
			}
			s.EdgeCount++
			if !l.IsValid {
				s.BrokenCount++
			}
		}
	}
	// Counted inline: calling OrphanedNotes here would take the read lock
	// a second time.
	for p := range g.nodes {
		orphan := len(g.in[p]) == 0
		for _, l := range g.out[p] {
			if l.IsValid {
				orphan = false
			}
		}
		if orphan {
			s.OrphanCount++
		}
	}
	return s
}

// Centrality returns a node's normalized degree centrality: (in-degree +
// out-degree) / (node_count - 1). Supplements the spec with a metric named
// in original_source/turbovault but dropped from the distillation; the
// health analyzer's Hubs query reports it for each hub it returns.
func (g *Graph) Centrality(p string) float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.centralityLocked(p)
}

func (g *Graph) centralityLocked(p string) float64 {
	n := len(g.nodes)
	if n <= 1 {
		return 0
	}
	degree := 0
	for _, l := range g.out[p] {
		if l.IsValid {
			degree++
		}
	}
	degree += len(g.in[p])
	return float64(degree) / float64(n-1)
}

// ConnectedComponents groups nodes into weakly-connected components
// (treating edges as undirected), each sorted, and the list of components
// sorted by their first path for determinism.
func (g *Graph) ConnectedComponents() [][]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	adjacency := make(map[string]map[string]bool)
	add := func(a, b string) {
		if adjacency[a] == nil {
			adjacency[a] = make(map[string]bool)
		}
		adjacency[a][b] = true
	}
	for p := range g.nodes {
		if adjacency[p] == nil {
			adjacency[p] = make(map[string]bool)
		}
		for _, l := range g.out[p] {
			if l.IsValid {
				add(p, l.ResolvedTarget)
				add(l.ResolvedTarget, p)
			}
		}
	}

	seen := make(map[string]bool)
	var components [][]string
	for p := range g.nodes {
		if seen[p] {
			continue
		}
		var comp []string
		stack := []string{p}
		seen[p] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, cur)
			for n := range adjacency[cur] {
				if !seen[n] {
					seen[n] = true
					stack = append(stack, n)
				}
			}
		}
		sort.Strings(comp)
		components = append(components, comp)
	}
	sort.Slice(components, func(i, j int) bool { return components[i][0] < components[j][0] })
	return components
}

// Cycles returns every strongly-connected component of size > 1 (Tarjan's
// algorithm), each a set of paths mutually reachable through resolved
// directed links -- i.e. a genuine link cycle, not just an undirected
// cluster.
func (g *Graph) Cycles() [][]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	t := &tarjan{
		index:   make(map[string]int),
		lowlink: make(map[string]int),
		onStack: make(map[string]bool),
		graph:   g,
	}
	for p := range g.nodes {
		if _, ok := t.index[p]; !ok {
			t.strongConnect(p)
		}
	}

	var cycles [][]string
	for _, comp := range t.components {
		if len(comp) > 1 {
			sort.Strings(comp)
			cycles = append(cycles, comp)
		}
	}
	sort.Slice(cycles, func(i, j int) bool { return cycles[i][0] < cycles[j][0] })
	return cycles
}

type tarjan struct {
	graph      *Graph
	index      map[string]int
	lowlink    map[string]int
	onStack    map[string]bool
	stack      []string
	counter    int
	components [][]string
}

func (t *tarjan) strongConnect(v string) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, l := range t.graph.out[v] {
		if !l.IsValid {
			continue
		}
		w := l.ResolvedTarget
		if _, ok := t.index[w]; !ok {
			t.strongConnect(w)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] {
			if t.index[w] < t.lowlink[v] {
				t.lowlink[v] = t.index[w]
			}
		}
	}

	if t.lowlink[v] == t.index[v] {
		var comp []string
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			comp = append(comp, w)
			if w == v {
				break
			}
		}
		t.components = append(t.components, comp)
	}
}
