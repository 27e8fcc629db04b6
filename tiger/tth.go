package tiger

import "io"

// ReadLevel reads the data from r until EOF and returns the lowest level of the tree.
//
// If paired is false, the returned level contains a hash for each leaf block (level 0).
// If paired is true, each pair of leaves is combined right away and level 1 is returned instead,
// with the unpaired trailing leaf hash copied as-is. Empty reader results in a single empty leaf hash
// in both cases.
//
// The sizeHint is an expected number of nodes on the level and is used to preallocate the slice.
func ReadLevel(r io.Reader, sizeHint int, paired bool) ([]Hash, error) {
	per := LeafSize
	if paired {
		per *= 2
	}
	if sizeHint < 1 {
		sizeHint = 1
	}
	var (
		h   = NewHasher()
		buf = make([]byte, per)
		lvl = make([]Hash, 0, sizeHint)
	)
	for {
		n, err := io.ReadFull(r, buf)
		if err == io.EOF {
			break
		} else if err != nil && err != io.ErrUnexpectedEOF {
			return nil, err
		}
		if n <= LeafSize {
			lvl = append(lvl, h.Leaf(buf[:n]))
		} else {
			lvl = append(lvl, h.Node(h.Leaf(buf[:LeafSize]), h.Leaf(buf[LeafSize:n])))
		}
		if err == io.ErrUnexpectedEOF {
			break
		}
	}
	if len(lvl) == 0 {
		lvl = append(lvl, h.Leaf(nil))
	}
	return lvl, nil
}

// TreeHash calculates a Tiger Tree Hash of a reader.
func TreeHash(r io.Reader) (root Hash, err error) {
	lvl, err := ReadLevel(r, 0, true)
	if err != nil {
		return root, err
	}
	return Reduce(lvl), nil
}

// ReadTree reads the data from r until EOF and calculates a full Tiger Hash Tree.
func ReadTree(r io.Reader) (*Tree, error) {
	leaves, err := ReadLevel(r, 0, false)
	if err != nil {
		return nil, err
	}
	return NewTree(leaves), nil
}
