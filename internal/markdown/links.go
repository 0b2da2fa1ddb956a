package markdown

import (
	"regexp"
	"strings"

	"github.com/arkan-labs/vaultengine/internal/sourcepos"
)

// wikiLinkPattern matches wikilinks and embeds: [[Title]], ![[Title]],
// [[Title#Heading]], [[Title#^block-id]], [[Title|Display]],
// [[Title#Heading|Display]], [[Title#^block-id|Display]]. Adapted from the
// teacher's wikilinks.go, generalized to feed Link records instead of a
// CLI-only wikilink struct.
var wikiLinkPattern = regexp.MustCompile(`(!?)\[\[([^\]#|]+?)(?:#(\^?[^\]|]*))?(?:\|([^\]]*))?\]\]`)

// parseWikilinks finds wikilinks and embeds in masked text and emits Link
// records. The fragment (#heading or #^block-id) is preserved in RawTarget
// as written; resolution strips it later in the graph.
func parseWikilinks(masked string, sourcePath string, idx *sourcepos.Index, offset int) []Link {
	var out []Link
	for _, loc := range wikiLinkPattern.FindAllStringSubmatchIndex(masked, -1) {
		typ := WikiLink
		if loc[2] >= 0 && loc[3] > loc[2] {
			typ = Embed
		}
		title := strings.TrimSpace(masked[loc[4]:loc[5]])
		raw := title
		if loc[6] >= 0 {
			raw += "#" + masked[loc[6]:loc[7]]
		}
		display := ""
		if loc[8] >= 0 {
			display = masked[loc[8]:loc[9]]
		}
		out = append(out, Link{
			Type:        typ,
			SourcePath:  sourcePath,
			RawTarget:   raw,
			DisplayText: display,
			Position:    idx.Position(offset+loc[0], loc[1]-loc[0]),
		})
	}
	return out
}

// mdLinkPattern matches standard markdown links: [text](target) or
// [text](target "title"). Target may be wrapped in angle brackets.
var mdLinkPattern = regexp.MustCompile(`\[([^\]]*)\]\((?:<([^>]*)>|([^)\s]+))(?:\s+"[^"]*")?\)`)

var schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)

// parseMarkdownLinks finds `[text](target)` links and classifies each as
// ExternalLink (has a URL scheme), HeadingRef (contains a #fragment), or
// MarkdownLink (plain relative path).
func parseMarkdownLinks(masked string, sourcePath string, idx *sourcepos.Index, offset int) []Link {
	var out []Link
	for _, loc := range mdLinkPattern.FindAllStringSubmatchIndex(masked, -1) {
		display := masked[loc[2]:loc[3]]
		target := ""
		switch {
		case loc[4] >= 0:
			target = masked[loc[4]:loc[5]]
		case loc[6] >= 0:
			target = masked[loc[6]:loc[7]]
		}
		target = strings.TrimSpace(target)
		if target == "" {
			continue
		}

		typ := MarkdownLink
		switch {
		case schemePattern.MatchString(target):
			typ = ExternalLink
		case strings.Contains(target, "#"):
			typ = HeadingRef
		}

		out = append(out, Link{
			Type:        typ,
			SourcePath:  sourcePath,
			RawTarget:   target,
			DisplayText: display,
			Position:    idx.Position(offset+loc[0], loc[1]-loc[0]),
		})
	}
	return out
}
