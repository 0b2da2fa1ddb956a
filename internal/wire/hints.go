package wire

import "github.com/arkan-labs/vaultengine/internal/vaulterr"

// DefaultHints returns the recovery hints named in §7 for a vaulterr.Kind
// that was raised without hints of its own.
func DefaultHints(kind vaulterr.Kind) []string {
	switch kind {
	case vaulterr.NotFound:
		return []string{"search", "list_files"}
	case vaulterr.PathTraversal:
		return []string{"re-read the vault root", "use a path relative to the vault root"}
	case vaulterr.Concurrency:
		return []string{"re-read the file and retry with the new hash"}
	case vaulterr.Validation:
		return []string{"re-check the request for conflicting or malformed fields"}
	case vaulterr.Parse:
		return []string{"re-check the edit instruction or frontmatter syntax"}
	case vaulterr.Config:
		return []string{"re-check the supplied options"}
	case vaulterr.InvalidPath:
		return []string{"use a UTF-8, vault-relative path"}
	case vaulterr.IO:
		return []string{"retry the operation"}
	default:
		return nil
	}
}
