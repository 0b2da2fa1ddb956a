package editengine

import "github.com/arkan-labs/vaultengine/internal/vaulterr"

// ApplyInstruction parses instruction into SEARCH/REPLACE blocks and applies
// them to content in order, each against the result of the previous block.
// If expectedHash is non-empty, content must match it before any block is
// applied (optimistic concurrency per spec §4.5).
func ApplyInstruction(path, content, instruction, expectedHash string, fuzzyThreshold float64) ([]Result, string, error) {
	if expectedHash != "" && !VerifyHash(content, expectedHash) {
		return nil, content, vaulterr.ConcurrencyErr(path)
	}

	blocks, err := ParseBlocks(instruction)
	if err != nil {
		return nil, content, err
	}

	results := make([]Result, 0, len(blocks))
	current := content
	for _, b := range blocks {
		res, err := Apply(current, b, fuzzyThreshold)
		if err != nil {
			return results, current, err
		}
		results = append(results, res)
		current = res.Content
	}
	return results, current, nil
}

// DryRun applies instruction the same way ApplyInstruction does but returns
// a unified diff instead of committing to a final content string, for
// previewing an edit without writing it.
func DryRun(path, content, instruction string, fuzzyThreshold float64) (string, error) {
	_, final, err := ApplyInstruction(path, content, instruction, "", fuzzyThreshold)
	if err != nil {
		return "", err
	}
	return UnifiedDiff(path, content, final)
}
