package markdown

import (
	"regexp"
	"strings"

	"github.com/arkan-labs/vaultengine/internal/sourcepos"
)

// atxHeadingPattern matches ATX headings: 1-6 leading '#' characters, a
// space, then the heading text to end of line.
var atxHeadingPattern = regexp.MustCompile(`(?m)^(#{1,6})[ \t]+(.+?)[ \t]*#*[ \t]*$`)

var anchorStripPattern = regexp.MustCompile(`[^\p{L}\p{N}\- ]`)

// headingAnchor derives Obsidian's heading-link anchor: lowercase, spaces to
// hyphens, punctuation dropped.
func headingAnchor(text string) string {
	s := anchorStripPattern.ReplaceAllString(text, "")
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, " ", "-")
}

// parseHeadings finds ATX headings in masked (code/comment/math-blanked)
// text, using idx+offset to translate match positions back to the original
// document.
func parseHeadings(masked string, idx *sourcepos.Index, offset int) []Heading {
	var out []Heading
	for _, loc := range atxHeadingPattern.FindAllStringSubmatchIndex(masked, -1) {
		level := len(masked[loc[2]:loc[3]])
		text := strings.TrimSpace(masked[loc[4]:loc[5]])
		if text == "" {
			continue
		}
		out = append(out, Heading{
			Level:    level,
			Text:     text,
			Anchor:   headingAnchor(text),
			Position: idx.Position(offset+loc[0], loc[1]-loc[0]),
		})
	}
	return out
}
