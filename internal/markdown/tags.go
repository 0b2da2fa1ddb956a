package markdown

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/arkan-labs/vaultengine/internal/sourcepos"
)

// tagPattern matches inline #tags: a '#' preceded by start-of-line,
// whitespace, or an opening paren, followed by letters/digits/underscore/
// hyphen/slash (slash forms nested tags like #project/active). Adapted from
// the teacher's tags.go.
var tagPattern = regexp.MustCompile(`(?:^|[\s(])#([\p{L}\p{N}_/-]+)`)

// hasLetter rejects pure-numeric "tags" like #2024, which Obsidian treats
// as plain text rather than a tag.
func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// parseInlineTags finds #tags in masked text, skipping pure-numeric matches.
func parseInlineTags(masked string, idx *sourcepos.Index, offset int) []Tag {
	var out []Tag
	for _, loc := range tagPattern.FindAllStringSubmatchIndex(masked, -1) {
		name := masked[loc[2]:loc[3]]
		if !hasLetter(name) {
			continue
		}
		out = append(out, Tag{
			Name:     strings.ToLower(name),
			Nested:   strings.Contains(name, "/"),
			Position: idx.Position(offset+loc[2], loc[3]-loc[2]),
		})
	}
	return out
}

// frontmatterTags turns a Frontmatter's normalized Tags list into Tag
// records anchored at the frontmatter block's position (Obsidian treats
// frontmatter tags as equivalent to inline #tags for graph/health purposes).
func frontmatterTags(fm *Frontmatter) []Tag {
	if fm == nil {
		return nil
	}
	out := make([]Tag, 0, len(fm.Tags))
	for _, t := range fm.Tags {
		t = strings.TrimPrefix(t, "#")
		if t == "" || !hasLetter(t) {
			continue
		}
		out = append(out, Tag{
			Name:     strings.ToLower(t),
			Nested:   strings.Contains(t, "/"),
			Position: fm.Position,
		})
	}
	return out
}
