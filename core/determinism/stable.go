// Package determinism provides primitives for guaranteeing deterministic execution.
// Configuration fingerprints are built with these helpers so equal inputs always hash equal.
package determinism

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
)

// ContentHash is a SHA-256 hash for content integrity
type ContentHash [32]byte

// Hex returns the hash as a hex string
func (h ContentHash) Hex() string {
	return hex.EncodeToString(h[:])
}

// String implements Stringer
func (h ContentHash) String() string {
	return h.Hex()[:16] + "..."
}

// IsZero reports whether the hash was never computed
func (h ContentHash) IsZero() bool {
	return h == ContentHash{}
}

// Hasher builds a ContentHash from an ordered list of fields.
// Each field is NUL-terminated so ("ab", "c") and ("a", "bc") differ.
type Hasher struct {
	h hash.Hash
}

// NewHasher creates a hasher scoped to a namespace
func NewHasher(namespace string) *Hasher {
	h := &Hasher{h: sha256.New()}
	h.Write(namespace)
	return h
}

// Write appends fields to the hash
func (h *Hasher) Write(parts ...string) {
	for _, part := range parts {
		h.h.Write([]byte(part))
		h.h.Write([]byte{0}) // Separator
	}
}

// Sum returns the hash of everything written so far
func (h *Hasher) Sum() ContentHash {
	var out ContentHash
	copy(out[:], h.h.Sum(nil))
	return out
}
