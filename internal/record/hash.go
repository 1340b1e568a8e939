package record

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// NewHash builds a deterministic SHA-256 fingerprint from the given parts.
// Callers are expected to pass already-canonicalized values where formatting
// noise must not affect the result.
func NewHash(parts ...string) string {
	joined := strings.Join(parts, "|")
	sum := sha256.Sum256([]byte(joined))
	return hex.EncodeToString(sum[:])
}

// ContentHash fingerprints a work by its canonicalized author, title, and
// body. Two copies of the same poem differing only in whitespace or quote
// style hash identically.
func ContentHash(author, title, body string) string {
	return NewHash(Canonicalize(author), Canonicalize(title), Canonicalize(body))
}

// LinkHash fingerprints a body-less record by its source URL and title.
func LinkHash(url, title string) string {
	return NewHash(url, title)
}
