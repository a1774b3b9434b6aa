package hash

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/chazu/clc/ir"
)

// Key is a compile cache key: the SHA-256 of a contract's canonicalized
// content.
type Key [sha256.Size]byte

func (k Key) String() string { return hex.EncodeToString(k[:]) }

// Contract canonicalizes and hashes c. Two contracts that differ only in
// what their authors named their globals, entry parameters, or let/match
// bindings hash identically; anything that changes the shape of the typed
// tree or a literal embedded in it changes the hash.
func Contract(c *ir.Contract) Key {
	tree := NormalizeContract(c)
	return sha256.Sum256(Serialize(tree))
}
