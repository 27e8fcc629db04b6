package tiger

// LeafCount returns the number of leaves in a tree of a file with a given size.
// Empty file still has a single (empty) leaf.
func LeafCount(size int64) int64 {
	if size <= 0 {
		return 1
	}
	n := size / LeafSize
	if size%LeafSize != 0 {
		n++
	}
	return n
}

// LevelSizes returns the number of nodes on each level of a tree of a file with a given size.
// The first element is the leaf count, the last one is always 1.
func LevelSizes(size int64) []int64 {
	n := LeafCount(size)
	sizes := []int64{n}
	for n > 1 {
		n = (n + 1) / 2
		sizes = append(sizes, n)
	}
	return sizes
}

// compress combines each pair of nodes from src and writes the results to dst.
// The unpaired trailing node is copied as-is. It returns dst resliced to the new level size.
//
// The dst may share the backing array with src, since a node i is only written
// after nodes 2*i and 2*i+1 were read.
func compress(h *Hasher, dst, src []Hash) []Hash {
	n := (len(src) + 1) / 2
	dst = dst[:n]
	for i := 0; i+1 < len(src); i += 2 {
		dst[i/2] = h.Node(src[i], src[i+1])
	}
	if len(src)%2 != 0 {
		dst[n-1] = src[len(src)-1]
	}
	return dst
}

// NextLevel returns the next level of the tree for a given level.
// A level with a single node is returned unchanged.
func NextLevel(lvl []Hash) []Hash {
	if len(lvl) <= 1 {
		return lvl
	}
	return compress(NewHasher(), make([]Hash, (len(lvl)+1)/2), lvl)
}

// Reduce compresses the level until a single root node remains.
//
// It overwrites the level in place, so the caller must not use lvl after the call.
// It panics if the level is empty.
func Reduce(lvl []Hash) Hash {
	if len(lvl) == 0 {
		panic("tiger: reduce of an empty level")
	}
	h := NewHasher()
	for len(lvl) > 1 {
		lvl = compress(h, lvl, lvl)
	}
	return lvl[0]
}
