package trie

import (
	"errors"
	"net/netip"

	"github.com/ipcheck/ipcheck/component/ipaddr"
)

var (
	ErrInvalidPrefix  = errors.New("invalid prefix")
	ErrFamilyMismatch = errors.New("prefix family does not match trie family")
	ErrTooManyNodes   = errors.New("node count exceeds 32-bit index space")
)

const (
	IPv4Bits = 32
	IPv6Bits = 128
)

// IpCidrTrie is a bitwise binary trie over one address family, built once
// from a set of CIDR prefixes and then flattened into an index-addressed
// array. Nodes live in an append-only arena, so a child's arena slot is
// always higher than its parent's.
type IpCidrTrie struct {
	bits  int
	nodes []node
}

// NewIpCidrTrie returns an empty trie for addresses of the given bit width
// (IPv4Bits or IPv6Bits). An empty trie matches nothing.
func NewIpCidrTrie(bits int) *IpCidrTrie {
	return &IpCidrTrie{
		bits:  bits,
		nodes: []node{newNode()},
	}
}

// Insert adds one CIDR prefix. Duplicate and subsumed prefixes are no-ops:
// descending through an existing match node means a broader prefix already
// covers this one, and marking a node as a match discards anything more
// specific beneath it.
func (trie *IpCidrTrie) Insert(prefix netip.Prefix) error {
	if !prefix.IsValid() {
		return ErrInvalidPrefix
	}
	if v4 := prefix.Addr().Is4(); v4 != (trie.bits == IPv4Bits) {
		return ErrFamilyMismatch
	}

	b := ipaddr.Bytes(prefix.Masked().Addr())
	cur := nodeRef(0)
	for i := 0; i < prefix.Bits(); i++ {
		if trie.nodes[cur].match {
			return nil
		}
		bit := ipaddr.Bit(b, i)
		if !trie.nodes[cur].hasChild(bit) {
			trie.nodes = append(trie.nodes, newNode())
			trie.nodes[cur].child[bit] = nodeRef(len(trie.nodes) - 1)
		}
		cur = trie.nodes[cur].child[bit]
	}

	trie.nodes[cur].match = true
	trie.nodes[cur].dropChildren()
	return nil
}

// Aggregate collapses every node whose two children are both match leaves
// into a match node, turning adjacent buddy prefixes into the shorter
// covering prefix. Children sit after their parent in the arena, so one
// reverse scan carries merges all the way to the root.
func (trie *IpCidrTrie) Aggregate() {
	for i := len(trie.nodes) - 1; i >= 0; i-- {
		n := &trie.nodes[i]
		if n.match || !n.hasChild(0) || !n.hasChild(1) {
			continue
		}
		if trie.nodes[n.child[0]].match && trie.nodes[n.child[1]].match {
			n.match = true
			n.dropChildren()
		}
	}
}

// IsContain reports whether ip is covered by an inserted prefix. Queries on
// the unflattened trie are used to cross-check the compiled array.
func (trie *IpCidrTrie) IsContain(addr netip.Addr) bool {
	b := ipaddr.Bytes(addr)
	cur := nodeRef(0)
	for i := 0; i < trie.bits; i++ {
		if trie.nodes[cur].match {
			return true
		}
		bit := ipaddr.Bit(b, i)
		if !trie.nodes[cur].hasChild(bit) {
			return false
		}
		cur = trie.nodes[cur].child[bit]
	}
	return trie.nodes[cur].match
}

// Bits returns the trie's address bit width, 32 or 128.
func (trie *IpCidrTrie) Bits() int {
	return trie.bits
}

// IsEmpty reports whether the trie holds no prefixes at all. The empty trie
// flattens to the same lone root record as a match-everything trie, so the
// distinction must travel alongside the flattened array.
func (trie *IpCidrTrie) IsEmpty() bool {
	root := &trie.nodes[0]
	return !root.match && !root.hasChild(0) && !root.hasChild(1)
}

// NodeCount returns the number of nodes reachable from the root. Insert can
// strand discarded subtrees in the arena, so this is a traversal, not the
// arena length.
func (trie *IpCidrTrie) NodeCount() int {
	return len(trie.reachable())
}

func (trie *IpCidrTrie) reachable() []nodeRef {
	order := []nodeRef{0}
	for qi := 0; qi < len(order); qi++ {
		n := trie.nodes[order[qi]]
		for _, bit := range [2]byte{0, 1} {
			if n.hasChild(bit) {
				order = append(order, n.child[bit])
			}
		}
	}
	return order
}
