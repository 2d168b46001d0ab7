package trie

import "math"

// Flatten serializes the trie into an index-addressed array: record i holds
// the child indices of node i, two entries per node, breadth-first from the
// root with the 0-child discovered before the 1-child. The root takes index
// 0 and is never a child target, so 0 doubles as the absent-child sentinel
// in every child slot. A node is a match node exactly when both of its
// entries are 0; whether the lone root record of a childless trie means
// "match everything" or "empty" is reported by IsEmpty, not by the array.
func (trie *IpCidrTrie) Flatten() ([]uint32, error) {
	order := trie.reachable()
	if uint64(len(order)) > math.MaxUint32 {
		return nil, ErrTooManyNodes
	}

	index := make(map[nodeRef]uint32, len(order))
	for i, ref := range order {
		index[ref] = uint32(i)
	}

	out := make([]uint32, 0, len(order)*2)
	for _, ref := range order {
		n := trie.nodes[ref]
		for _, bit := range [2]byte{0, 1} {
			if n.hasChild(bit) {
				out = append(out, index[n.child[bit]])
			} else {
				out = append(out, 0)
			}
		}
	}
	return out, nil
}
