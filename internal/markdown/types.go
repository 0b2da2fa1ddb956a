// Package markdown implements the Obsidian Flavored Markdown parser (C1):
// a code-block-aware tokenizer that extracts frontmatter, headings,
// wikilinks, embeds, markdown links, tags, tasks, callouts, and block IDs,
// each carrying a precise source position.
package markdown

import "github.com/arkan-labs/vaultengine/internal/sourcepos"

// LinkType classifies a Link by how it was written in the source.
type LinkType int

const (
	WikiLink LinkType = iota
	Embed
	BlockRef
	HeadingRef
	MarkdownLink
	ExternalLink
)

func (t LinkType) String() string {
	switch t {
	case WikiLink:
		return "WikiLink"
	case Embed:
		return "Embed"
	case BlockRef:
		return "BlockRef"
	case HeadingRef:
		return "HeadingRef"
	case MarkdownLink:
		return "MarkdownLink"
	case ExternalLink:
		return "ExternalLink"
	default:
		return "Unknown"
	}
}

// Link is an edge payload: a reference from one note to another construct.
// ResolvedTarget and IsValid are populated during graph assembly (C2), not
// by the parser -- is_valid implies resolved_target is set.
type Link struct {
	Type           LinkType            `json:"type"`
	SourcePath     string              `json:"sourcePath"`
	RawTarget      string              `json:"rawTarget"`
	DisplayText    string              `json:"displayText,omitempty"`
	Position       sourcepos.Position  `json:"position"`
	ResolvedTarget string              `json:"resolvedTarget,omitempty"`
	IsValid        bool                `json:"isValid"`
}

// Heading is an ATX heading (level 1-6).
type Heading struct {
	Level    int                `json:"level"`
	Text     string             `json:"text"`
	Anchor   string             `json:"anchor,omitempty"`
	Position sourcepos.Position `json:"position"`
}

// Tag is an inline #tag or frontmatter tag.
type Tag struct {
	Name     string             `json:"name"`
	Nested   bool               `json:"nested"`
	Position sourcepos.Position `json:"position"`
}

// TaskMeta holds optional Dataview/Tasks-emoji metadata found on a task line.
// Only Due is named by the spec's data model; the rest is supplemented detail
// grounded in the teacher's tasks.go.
type TaskMeta struct {
	Due        string `json:"due,omitempty"`
	Scheduled  string `json:"scheduled,omitempty"`
	Priority   string `json:"priority,omitempty"`
	Completion string `json:"completion,omitempty"`
}

// TaskItem is a parsed checkbox list item.
type TaskItem struct {
	Text     string             `json:"text"`
	Done     bool               `json:"done"`
	Due      *string            `json:"due,omitempty"`
	Meta     TaskMeta           `json:"meta"`
	Position sourcepos.Position `json:"position"`
}

// CalloutType is the canonical Obsidian callout taxonomy.
type CalloutType int

const (
	CalloutNote CalloutType = iota
	CalloutAbstract
	CalloutInfo
	CalloutTodo
	CalloutTip
	CalloutSuccess
	CalloutQuestion
	CalloutWarning
	CalloutFailure
	CalloutDanger
	CalloutBug
	CalloutExample
	CalloutQuote
)

func (c CalloutType) String() string {
	names := [...]string{
		"Note", "Abstract", "Info", "Todo", "Tip", "Success", "Question",
		"Warning", "Failure", "Danger", "Bug", "Example", "Quote",
	}
	if int(c) < 0 || int(c) >= len(names) {
		return "Note"
	}
	return names[c]
}

// Callout is a parsed `> [!TYPE]` blockquote.
type Callout struct {
	Type     CalloutType        `json:"type"`
	Title    string             `json:"title,omitempty"`
	Content  string             `json:"content,omitempty"`
	Folded   bool               `json:"folded"`
	Position sourcepos.Position `json:"position"`
}

// Block is a block-ID-bearing element: `^id` trailing a paragraph or list
// item, associating that identifier with the enclosing block.
type Block struct {
	ID       string             `json:"id"`
	Position sourcepos.Position `json:"position"`
}

// Frontmatter is the semantic, JSON-shaped mapping parsed from the leading
// YAML block, plus the tags/aliases sequences normalized from either a
// single string or a list (per spec §3).
type Frontmatter struct {
	Values   map[string]any     `json:"values"`
	Tags     []string           `json:"tags,omitempty"`
	Aliases  []string           `json:"aliases,omitempty"`
	Position sourcepos.Position `json:"position"`
}

// Document is the parse result for one note's content.
type Document struct {
	Frontmatter *Frontmatter
	Headings    []Heading
	Links       []Link
	Tags        []Tag
	Tasks       []TaskItem
	Callouts    []Callout
	Blocks      []Block
	// ParseError records a non-fatal frontmatter parse failure; other
	// elements are still extracted from the body when this is set.
	ParseError string
}
