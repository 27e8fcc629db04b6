package tiger

import (
	"errors"
	"fmt"
)

var (
	ErrIndexRange    = errors.New("tiger: leaf index out of range")
	ErrProofLength   = errors.New("tiger: wrong proof length")
	ErrProofMismatch = errors.New("tiger: proof does not match the root")
)

// Tree is a full Tiger Hash Tree. Level 0 holds the leaf hashes and the last level holds the root.
type Tree struct {
	levels [][]Hash
}

// NewTree builds all levels of the tree from the leaf hashes.
// The tree takes ownership of the leaves slice.
func NewTree(leaves []Hash) *Tree {
	if len(leaves) == 0 {
		leaves = []Hash{LeafHash(nil)}
	}
	h := NewHasher()
	levels := [][]Hash{leaves}
	for lvl := leaves; len(lvl) > 1; {
		lvl = compress(h, make([]Hash, (len(lvl)+1)/2), lvl)
		levels = append(levels, lvl)
	}
	return &Tree{levels: levels}
}

// Root returns the root hash of the tree (TTH).
func (t *Tree) Root() Hash {
	return t.levels[len(t.levels)-1][0]
}

// Depth returns the number of levels in the tree, including leaves and the root.
func (t *Tree) Depth() int {
	return len(t.levels)
}

// Level returns hashes of the i-th level. Level 0 is the leaves level.
func (t *Tree) Level(i int) []Hash {
	return t.levels[i]
}

// Levels returns all levels of the tree.
func (t *Tree) Levels() [][]Hash {
	return t.levels
}

// Leaves returns hashes of the leaves level.
func (t *Tree) Leaves() []Hash {
	return t.levels[0]
}

// LeafCount returns the number of leaves in the tree.
func (t *Tree) LeafCount() int {
	return len(t.levels[0])
}

// Proof returns an inclusion proof for the leaf with a given index.
//
// The proof lists sibling hashes from the leaves level up to the root.
// Levels where the node has no sibling (it's carried to the next level as-is) are skipped.
func (t *Tree) Proof(index int) ([]Hash, error) {
	if index < 0 || index >= t.LeafCount() {
		return nil, ErrIndexRange
	}
	var proof []Hash
	for _, lvl := range t.levels[:len(t.levels)-1] {
		if sib := index ^ 1; sib < len(lvl) {
			proof = append(proof, lvl[sib])
		}
		index /= 2
	}
	return proof, nil
}

// VerifyProof checks that the leaf with a given index belongs to the tree with a specified root.
// The leafCount is the number of leaves in the tree and defines its shape.
func VerifyProof(root, leaf Hash, index, leafCount int, proof []Hash) error {
	if index < 0 || index >= leafCount {
		return ErrIndexRange
	}
	h := NewHasher()
	cur := leaf
	for n := leafCount; n > 1; n = (n + 1) / 2 {
		switch {
		case index%2 == 1:
			if len(proof) == 0 {
				return ErrProofLength
			}
			cur = h.Node(proof[0], cur)
			proof = proof[1:]
		case index+1 < n:
			if len(proof) == 0 {
				return ErrProofLength
			}
			cur = h.Node(cur, proof[0])
			proof = proof[1:]
		}
		index /= 2
	}
	if len(proof) != 0 {
		return ErrProofLength
	}
	if cur != root {
		return ErrProofMismatch
	}
	return nil
}

// ParseLeaves splits a concatenated list of hashes (as in DC "TTHL" transfers) into separate hashes.
func ParseLeaves(b []byte) ([]Hash, error) {
	if len(b)%Size != 0 {
		return nil, fmt.Errorf("tiger: hash list size is not a multiple of %d: %d", Size, len(b))
	}
	out := make([]Hash, len(b)/Size)
	for i := range out {
		copy(out[i][:], b[i*Size:])
	}
	return out, nil
}

// AppendLeaves appends the hashes of the leaves level to b, in the format accepted by ParseLeaves.
func (t *Tree) AppendLeaves(b []byte) []byte {
	for _, h := range t.Leaves() {
		b = append(b, h[:]...)
	}
	return b
}
