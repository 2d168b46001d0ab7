package filter

import (
	"net/netip"

	"github.com/ipcheck/ipcheck/component/ipaddr"
	"github.com/ipcheck/ipcheck/component/trie"
)

// Filter is the compiled, read-only form of a CIDR range set: one flattened
// trie per address family. It is immutable after New returns and therefore
// safe for concurrent readers without synchronization.
type Filter struct {
	v4 table
	v6 table
}

// table is one family's compiled array. empty distinguishes the reject-
// everything state from a match-everything root, which flatten to the same
// lone [0,0] record.
type table struct {
	nodes nodeArray
	bits  int
	empty bool
}

// New compiles a set of prefixes into a Filter. Prefixes may repeat or
// overlap; buddy prefixes are aggregated. A nil or empty set compiles to a
// filter that matches nothing.
func New(prefixes []netip.Prefix, enc Encoding) (*Filter, error) {
	v4 := trie.NewIpCidrTrie(trie.IPv4Bits)
	v6 := trie.NewIpCidrTrie(trie.IPv6Bits)
	for _, p := range prefixes {
		t := v6
		if p.Addr().Is4() {
			t = v4
		}
		if err := t.Insert(p); err != nil {
			return nil, err
		}
	}
	v4.Aggregate()
	v6.Aggregate()

	f := &Filter{}
	for _, c := range []struct {
		t   *trie.IpCidrTrie
		dst *table
	}{{v4, &f.v4}, {v6, &f.v6}} {
		raw, err := c.t.Flatten()
		if err != nil {
			return nil, err
		}
		nodes, err := encode(raw, enc)
		if err != nil {
			return nil, err
		}
		*c.dst = table{nodes: nodes, bits: c.t.Bits(), empty: c.t.IsEmpty()}
	}
	return f, nil
}

// Matches reports whether the textual address is covered by the range set.
// Malformed input never matches.
func (f *Filter) Matches(ip string) bool {
	_, ok, err := f.Lookup(ip)
	return err == nil && ok
}

// Lookup walks the compiled array for the textual address and, on a match,
// reconstructs the aggregated covering prefix in CIDR notation.
func (f *Filter) Lookup(ip string) (netip.Prefix, bool, error) {
	addr, err := ipaddr.Parse(ip)
	if err != nil {
		return netip.Prefix{}, false, err
	}
	t := &f.v6
	if addr.Is4() {
		t = &f.v4
	}
	prefix, ok := t.lookup(addr)
	return prefix, ok, nil
}

func (t *table) lookup(addr netip.Addr) (netip.Prefix, bool) {
	if t.empty {
		return netip.Prefix{}, false
	}

	b := ipaddr.Bytes(addr)
	var path [16]byte
	cur := uint32(0)
	for i := 0; i < t.bits; i++ {
		// reaching a match node means everything below it is covered; the
		// bits walked so far are exactly the aggregated prefix
		if t.isMatch(cur) {
			return ipaddr.PrefixFrom(path[:], i, t.bits == trie.IPv4Bits), true
		}
		bit := ipaddr.Bit(b, i)
		next := t.nodes.child(cur, bit)
		if next == 0 {
			return netip.Prefix{}, false
		}
		if bit == 1 {
			ipaddr.SetBit(path[:], i)
		}
		cur = next
	}
	if t.isMatch(cur) {
		return ipaddr.PrefixFrom(path[:], t.bits, t.bits == trie.IPv4Bits), true
	}
	return netip.Prefix{}, false
}

func (t *table) isMatch(node uint32) bool {
	return t.nodes.child(node, 0) == 0 && t.nodes.child(node, 1) == 0
}

// NodeCount returns the number of records in one family's compiled array.
func (f *Filter) NodeCount(v4 bool) int {
	if v4 {
		return f.v4.nodes.nodeCount()
	}
	return f.v6.nodes.nodeCount()
}

// Empty reports whether one family's array is the distinguished
// reject-everything state.
func (f *Filter) Empty(v4 bool) bool {
	if v4 {
		return f.v4.empty
	}
	return f.v6.empty
}

// Records returns one family's child-index entries in traversal order,
// formatted as decimal strings, two per node, for the rendering layer. An
// empty family yields no records so its artifact rejects everything.
func (f *Filter) Records(v4 bool) []string {
	t := &f.v6
	if v4 {
		t = &f.v4
	}
	if t.empty {
		return nil
	}
	out := make([]string, 0, t.nodes.nodeCount()*2)
	for i := 0; i < t.nodes.nodeCount(); i++ {
		rec := t.nodes.record(i)
		out = append(out, rec[0], rec[1])
	}
	return out
}
