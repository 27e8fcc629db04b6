package tiger

import "hash"

// Domain separation prefixes of the tree nodes.
const (
	LeafPrefix     = 0x00
	InternalPrefix = 0x01
)

// Hasher computes TTH leaf and internal node hashes.
//
// It reuses a single Tiger state between calls and is not safe for concurrent use.
// Each goroutine should own its Hasher.
type Hasher struct {
	h   hash.Hash
	pre [1]byte
}

// NewHasher creates a new Hasher with a fresh Tiger state.
func NewHasher() *Hasher {
	return &Hasher{h: New()}
}

func (h *Hasher) sum(prefix byte, parts ...[]byte) (out Hash) {
	h.h.Reset()
	h.pre[0] = prefix
	h.h.Write(h.pre[:])
	for _, p := range parts {
		h.h.Write(p)
	}
	h.h.Sum(out[:0])
	return
}

// Leaf returns the hash of a single leaf block. The block may be empty.
func (h *Hasher) Leaf(data []byte) Hash {
	return h.sum(LeafPrefix, data)
}

// Node returns the hash of an internal node with the given children.
func (h *Hasher) Node(left, right Hash) Hash {
	return h.sum(InternalPrefix, left[:], right[:])
}

// LeafHash returns the hash of a single leaf block: tiger(0x00 || data).
func LeafHash(data []byte) Hash {
	return NewHasher().Leaf(data)
}

// InternalHash returns the hash of an internal node: tiger(0x01 || left || right).
func InternalHash(left, right Hash) Hash {
	return NewHasher().Node(left, right)
}
