// Package vgraph implements the link graph core (C2): a directed multigraph
// over vault file paths, built from the Link edges every internal/markdown
// Document carries, with secondary indices for Obsidian's loose link
// resolution (by exact path, filename stem, or frontmatter alias).
package vgraph

import "github.com/arkan-labs/vaultengine/internal/markdown"

// Node is one vault file as it appears in the graph.
type Node struct {
	Path    string
	Stem    string   // filename without extension, lowercase
	Aliases []string // frontmatter aliases, lowercase
}

// Stats summarizes the graph's shape.
type Stats struct {
	NodeCount   int
	EdgeCount   int
	BrokenCount int
	OrphanCount int
}
