package server

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// ETag returns a strong entity tag for body: the first 16 bytes of its
// BLAKE2b-256 hash, hex encoded and quoted.
func ETag(body []byte) string {
	sum := blake2b.Sum256(body)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

// etagMatches reports whether an If-None-Match header value matches etag.
// Weak comparison is used, as RFC 9110 requires for If-None-Match.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}
		if strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
