package markdown

import (
	"regexp"

	"github.com/arkan-labs/vaultengine/internal/sourcepos"
)

// blockIDPattern matches a trailing block identifier: whitespace then ^id
// at the end of a line, associating that id with the enclosing paragraph or
// list item (the line it trails).
var blockIDPattern = regexp.MustCompile(`(?m)[ \t]\^([a-zA-Z0-9_-]+)[ \t]*$`)

// parseBlocks finds trailing `^block-id` markers in masked text.
func parseBlocks(masked string, idx *sourcepos.Index, offset int) []Block {
	var out []Block
	for _, loc := range blockIDPattern.FindAllStringSubmatchIndex(masked, -1) {
		out = append(out, Block{
			ID:       masked[loc[2]:loc[3]],
			Position: idx.Position(offset+loc[0], loc[1]-loc[0]),
		})
	}
	return out
}
