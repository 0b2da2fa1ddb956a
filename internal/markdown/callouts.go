package markdown

import (
	"regexp"
	"strings"

	"github.com/arkan-labs/vaultengine/internal/sourcepos"
)

// calloutHeaderPattern matches the first line of a callout blockquote:
// "> [!TYPE]", "> [!TYPE]+" (expanded), "> [!TYPE]-" (folded), optionally
// followed by a title.
var calloutHeaderPattern = regexp.MustCompile(`(?m)^>[ \t]*\[!(\w+)\](-|\+)?[ \t]*(.*)$`)

// calloutContinuationPattern matches a blockquote continuation line.
var calloutContinuationPattern = regexp.MustCompile(`^>[ \t]?(.*)$`)

var calloutAliases = map[string]CalloutType{
	"note": CalloutNote, "abstract": CalloutAbstract, "summary": CalloutAbstract,
	"tldr": CalloutAbstract, "info": CalloutInfo, "todo": CalloutTodo,
	"tip": CalloutTip, "hint": CalloutTip, "important": CalloutTip,
	"success": CalloutSuccess, "check": CalloutSuccess, "done": CalloutSuccess,
	"question": CalloutQuestion, "help": CalloutQuestion, "faq": CalloutQuestion,
	"warning": CalloutWarning, "caution": CalloutWarning, "attention": CalloutWarning,
	"failure": CalloutFailure, "fail": CalloutFailure, "missing": CalloutFailure,
	"danger": CalloutDanger, "error": CalloutDanger,
	"bug":     CalloutBug,
	"example": CalloutExample,
	"quote":   CalloutQuote, "cite": CalloutQuote,
}

// calloutType resolves a callout type keyword to its canonical type,
// falling back to Note for anything unrecognized.
func calloutType(keyword string) CalloutType {
	if t, ok := calloutAliases[strings.ToLower(keyword)]; ok {
		return t
	}
	return CalloutNote
}

// parseCallouts finds `> [!TYPE]` blockquotes in masked text, consuming
// contiguous `>`-prefixed continuation lines as the callout's content.
func parseCallouts(masked string, idx *sourcepos.Index, offset int) []Callout {
	lines := strings.Split(masked, "\n")
	lineOffsets := make([]int, len(lines))
	pos := 0
	for i, l := range lines {
		lineOffsets[i] = pos
		pos += len(l) + 1
	}

	var out []Callout
	for i := 0; i < len(lines); i++ {
		m := calloutHeaderPattern.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		start := i
		var content []string
		j := i + 1
		for j < len(lines) {
			cm := calloutContinuationPattern.FindStringSubmatch(lines[j])
			if cm == nil {
				break
			}
			content = append(content, cm[1])
			j++
		}

		end := j - 1
		startOffset := offset + lineOffsets[start]
		endOffset := offset + lineOffsets[end] + len(lines[end])

		out = append(out, Callout{
			Type:     calloutType(m[1]),
			Title:    strings.TrimSpace(m[3]),
			Content:  strings.TrimSpace(strings.Join(content, "\n")),
			Folded:   m[2] == "-",
			Position: idx.Position(startOffset, endOffset-startOffset),
		})
		i = j - 1
	}
	return out
}
