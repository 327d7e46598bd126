package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// HashKey creates a SHA256 hash of an arbitrary string.
// This is useful for creating consistent, safe keys for Redis set members
// and for full-row identity in the snapshot differ.
func HashKey(raw string) string {
	h := sha256.New()
	h.Write([]byte(raw))
	return hex.EncodeToString(h.Sum(nil))
}

// NormalizeURL trims surrounding whitespace and percent-decodes a URL for
// join purposes. It is case-preserving; a URL that fails to decode is
// returned trimmed but otherwise untouched.
func NormalizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	decoded, err := url.PathUnescape(trimmed)
	if err != nil {
		return trimmed
	}
	return decoded
}
