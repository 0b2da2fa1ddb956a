package editengine

import (
	"regexp"
	"strings"

	"github.com/arkan-labs/vaultengine/internal/vaulterr"
)

// blockPattern matches one SEARCH/REPLACE unit:
//
//	<<<<<<< SEARCH
//	...search text...
//	=======
//	...replace text...
//	>>>>>>> REPLACE
var blockPattern = regexp.MustCompile(
	`(?s)<<<<<<< SEARCH\r?\n(.*?)\r?\n?=======\r?\n(.*?)\r?\n?>>>>>>> REPLACE\r?\n?`,
)

// ParseBlocks parses every SEARCH/REPLACE block out of an edit instruction.
// A malformed instruction (no blocks found at all) is a Validation error.
func ParseBlocks(instruction string) ([]Block, error) {
	matches := blockPattern.FindAllStringSubmatch(instruction, -1)
	if len(matches) == 0 {
		return nil, vaulterr.ValidationErr("no SEARCH/REPLACE blocks found in edit instruction")
	}

	blocks := make([]Block, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, Block{Search: m[1], Replace: m[2]})
	}
	return blocks, nil
}

// splitLines splits s into lines without trailing newlines, matching how
// the match cascade compares line-by-line regardless of the file's
// original line-ending style.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
