// Package health implements the vault health analyzer (C3): pure functions
// over an internal/vgraph.Graph surfacing broken links, orphaned notes,
// dead ends, hub notes, isolated clusters, and an overall health score.
package health

import (
	"sort"

	"github.com/arkan-labs/vaultengine/internal/markdown"
	"github.com/arkan-labs/vaultengine/internal/vaultconfig"
	"github.com/arkan-labs/vaultengine/internal/vgraph"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// BrokenLink is an unresolved outgoing link, with nearby-stem suggestions
// ranked by Levenshtein distance.
type BrokenLink struct {
	SourcePath  string
	RawTarget   string
	Position    markdown.Link
	Suggestions []string
}

// HubEntry ranks a note by its link degree.
type HubEntry struct {
	Path       string
	Degree     int
	Centrality float64
}

// BrokenLinks scans every edge in g and, for each unresolved one, ranks the
// known note stems by fuzzy distance to the raw target, keeping the top
// cfg.MaxSuggestions.
func BrokenLinks(g *vgraph.Graph, stems []string, cfg vaultconfig.VaultManagerOptions) []BrokenLink {
	var out []BrokenLink
	for _, l := range g.AllLinks() {
		if l.IsValid || l.Type == markdown.ExternalLink {
			continue
		}
		out = append(out, BrokenLink{
			SourcePath:  l.SourcePath,
			RawTarget:   l.RawTarget,
			Position:    l,
			Suggestions: suggest(l.RawTarget, stems, cfg.MaxSuggestions),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SourcePath != out[j].SourcePath {
			return out[i].SourcePath < out[j].SourcePath
		}
		return out[i].RawTarget < out[j].RawTarget
	})
	return out
}

func suggest(target string, stems []string, limit int) []string {
	ranks := fuzzy.RankFindNormalizedFold(target, stems)
	sort.Sort(ranks)
	if len(ranks) > limit {
		ranks = ranks[:limit]
	}
	out := make([]string, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, r.Target)
	}
	return out
}

// OrphanedNotes delegates to the graph: notes with neither resolved
// outgoing nor incoming links.
func OrphanedNotes(g *vgraph.Graph) []string {
	return g.OrphanedNotes()
}

// DeadEnds returns notes that are referenced by at least one other note but
// have no resolved outgoing links of their own -- a reader can navigate in
// but not onward.
func DeadEnds(g *vgraph.Graph, allPaths []string) []string {
	var out []string
	for _, p := range allPaths {
		if len(g.Backlinks(p)) == 0 {
			continue
		}
		if len(g.OutgoingLinks(p)) == 0 {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// Hubs returns the topN notes by link degree (incoming + outgoing,
// resolved only), ties broken by path for determinism.
func Hubs(g *vgraph.Graph, allPaths []string, topN int) []HubEntry {
	entries := make([]HubEntry, 0, len(allPaths))
	for _, p := range allPaths {
		degree := len(g.OutgoingLinks(p)) + len(g.Backlinks(p))
		entries = append(entries, HubEntry{
			Path:       p,
			Degree:     degree,
			Centrality: g.Centrality(p),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Degree != entries[j].Degree {
			return entries[i].Degree > entries[j].Degree
		}
		return entries[i].Path < entries[j].Path
	})
	if len(entries) > topN {
		entries = entries[:topN]
	}
	return entries
}

// IsolatedClusters returns connected components whose size falls in
// [cfg.IsolatedClusterMin, cfg.IsolatedClusterMax) -- small, self-contained
// clusters a reader might miss by not being single orphans but also never
// connecting to the rest of the vault.
func IsolatedClusters(g *vgraph.Graph, cfg vaultconfig.VaultManagerOptions) [][]string {
	var out [][]string
	for _, comp := range g.ConnectedComponents() {
		if len(comp) >= cfg.IsolatedClusterMin && len(comp) < cfg.IsolatedClusterMax {
			out = append(out, comp)
		}
	}
	return out
}

// Score computes an overall 0-100 health score: 100, minus four
// independently-truncated penalty terms --
// 30·(broken/max(links,1)) + 20·(orphans/notes) + 15·(isolated/notes) +
// 10·(dead_ends/notes) -- each ratio truncated toward zero before
// subtracting, saturating at 0. An empty vault (no notes) scores 0.
func Score(g *vgraph.Graph, allPaths []string, cfg vaultconfig.VaultManagerOptions) int {
	notes := len(allPaths)
	if notes == 0 {
		return 0
	}

	stats := g.Stats()
	links := stats.EdgeCount
	if links == 0 {
		links = 1
	}

	score := 100
	score -= int(30.0 * float64(stats.BrokenCount) / float64(links))
	score -= int(20.0 * float64(stats.OrphanCount) / float64(notes))
	score -= int(15.0 * float64(len(IsolatedClusters(g, cfg))) / float64(notes))
	score -= int(10.0 * float64(len(DeadEnds(g, allPaths))) / float64(notes))

	if score < 0 {
		score = 0
	}
	return score
}
