package filter

import (
	"errors"
	"fmt"
	"math"
	"math/big"
)

var (
	ErrNodeOverflow = errors.New("node count exceeds the encoding's addressable range")
)

// Encoding selects the storage width of the compiled array. Both encodings
// carry the same index semantics and must produce identical match results;
// only the width of a stored index differs.
type Encoding int

const (
	// Fixed32 stores each child index as a 32-bit unsigned integer.
	Fixed32 Encoding = iota
	// WidePair stores each child index as an arbitrary-precision integer,
	// for targets whose native integers cannot safely hold large unsigned
	// values.
	WidePair
)

func (e Encoding) String() string {
	switch e {
	case Fixed32:
		return "fixed"
	case WidePair:
		return "wide"
	default:
		return "unknown"
	}
}

func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "fixed", "":
		return Fixed32, nil
	case "wide":
		return WidePair, nil
	default:
		return Fixed32, fmt.Errorf("unsupported encoding: %s", s)
	}
}

// nodeArray is the read side of a compiled array: two child-index entries per
// node, record 0 being the root, 0 in a child slot meaning absent.
type nodeArray interface {
	child(node uint32, bit byte) uint32
	nodeCount() int
	record(node int) [2]string
}

type fixed32Array []uint32

func (a fixed32Array) child(node uint32, bit byte) uint32 {
	return a[2*node+uint32(bit)]
}

func (a fixed32Array) nodeCount() int {
	return len(a) / 2
}

func (a fixed32Array) record(node int) [2]string {
	return [2]string{
		fmt.Sprintf("%d", a[2*node]),
		fmt.Sprintf("%d", a[2*node+1]),
	}
}

type widePairArray []*big.Int

func (a widePairArray) child(node uint32, bit byte) uint32 {
	return uint32(a[2*node+uint32(bit)].Uint64())
}

func (a widePairArray) nodeCount() int {
	return len(a) / 2
}

func (a widePairArray) record(node int) [2]string {
	return [2]string{a[2*node].String(), a[2*node+1].String()}
}

// encode wraps the flattened index records in the chosen storage width. The
// node count is validated against the encoding's addressable range before
// anything is emitted.
func encode(raw []uint32, enc Encoding) (nodeArray, error) {
	switch enc {
	case Fixed32:
		if uint64(len(raw)/2) > math.MaxUint32 {
			return nil, ErrNodeOverflow
		}
		return fixed32Array(raw), nil
	case WidePair:
		wide := make(widePairArray, len(raw))
		for i, v := range raw {
			wide[i] = new(big.Int).SetUint64(uint64(v))
		}
		return wide, nil
	default:
		return nil, fmt.Errorf("unsupported encoding: %d", enc)
	}
}
