package trie

// nodeRef addresses a node in the trie's arena. The zero ref is the root, so
// an absent child gets its own sentinel instead of overloading 0; collapsing
// the sentinel onto 0 happens only in the flattened output, where the root can
// never be a child target.
type nodeRef uint32

const nilRef = ^nodeRef(0)

// node is one trie node. A node with match set has no children: everything
// below a match node is covered regardless of remaining bits.
type node struct {
	child [2]nodeRef
	match bool
}

func newNode() node {
	return node{child: [2]nodeRef{nilRef, nilRef}}
}

func (n *node) hasChild(bit byte) bool {
	return n.child[bit] != nilRef
}

func (n *node) dropChildren() {
	n.child[0] = nilRef
	n.child[1] = nilRef
}
