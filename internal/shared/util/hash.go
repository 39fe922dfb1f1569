package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ShortHash returns the first n hex characters of the SHA-256 of s.
func ShortHash(s string, n int) string {
	sum := sha256.Sum256([]byte(s))
	out := hex.EncodeToString(sum[:])
	if n > 0 && n < len(out) {
		return out[:n]
	}
	return out
}

// ClientFolder names the artifact folder for a company and session: "<company-slug>-<hash>".
func ClientFolder(company, sessionToken string) string {
	slug := Slug(company, 48)
	if slug == "" {
		slug = "client"
	}
	return slug + "-" + ShortHash(strings.TrimSpace(sessionToken), 8)
}
