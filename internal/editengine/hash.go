package editengine

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/text/unicode/norm"
)

// ContentHash returns the SHA-256 hex digest of content after Unicode NFC
// normalization, so two byte-for-byte-different-but-canonically-equal
// strings (e.g. combining vs. precomposed accents) hash identically -- the
// basis for the edit engine's optimistic-concurrency hash check.
func ContentHash(content string) string {
	normalized := norm.NFC.String(content)
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// VerifyHash reports whether content's current hash matches expected.
func VerifyHash(content, expected string) bool {
	return ContentHash(content) == expected
}
