// Package textutil provides content fingerprinting and word counting for
// practice materials.
package textutil

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Normalize collapses runs of whitespace to single spaces and trims the ends.
// Two texts that differ only in whitespace normalize to the same string.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// ContentHash returns the deterministic fingerprint of a text: SHA-256 of the
// normalized content, as a lowercase hex string. It is stable across processes
// and runs, unlike runtime map hashing, so it is safe to persist and compare
// against snapshots produced elsewhere.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(Normalize(text)))
	return hex.EncodeToString(sum[:])
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
