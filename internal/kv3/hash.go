package kv3

import (
	"github.com/cespare/xxhash"
)

// Fingerprint hashes the canonical text of a tree. Trees that serialize
// identically share a fingerprint regardless of their source formatting,
// comments or header.
func Fingerprint(root *Object) uint64 {
	h := xxhash.New()
	newTextWriter(h, (*WriteOptions)(nil).normalize()).writeRoot(root)

	return h.Sum64()
}

// SameText reports whether two byte slices are identical, comparing hashes first.
func SameText(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}

	return xxhash.Sum64(a) == xxhash.Sum64(b) && string(a) == string(b)
}
