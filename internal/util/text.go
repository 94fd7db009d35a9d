package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// StripCodeFences removes a markdown code fence some models wrap around JSON.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// HashString returns the hex sha256 of s, short enough for a cache key segment.
func HashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
