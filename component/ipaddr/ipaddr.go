package ipaddr

import (
	"errors"
	"net/netip"
	"strings"
)

var (
	ErrInvalidIpFormat = errors.New("invalid ip format")
)

// Parse converts a textual IPv4/IPv6 address into a netip.Addr. An optional
// %zone suffix is stripped before parsing. The address family follows the
// textual shape: dotted-decimal is IPv4, anything with colons is IPv6, so a
// v4-mapped form like ::ffff:10.0.0.1 stays in the IPv6 family.
func Parse(s string) (netip.Addr, error) {
	if i := strings.IndexByte(s, '%'); i != -1 {
		s = s[:i]
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, ErrInvalidIpFormat
	}
	return addr.WithZone(""), nil
}

// Bytes returns the fixed-width byte form of addr: 4 bytes for IPv4,
// 16 bytes for IPv6.
func Bytes(addr netip.Addr) []byte {
	if addr.Is4() {
		b := addr.As4()
		return b[:]
	}
	b := addr.As16()
	return b[:]
}

// Bit returns bit i of b, counting from the most significant bit of b[0].
func Bit(b []byte, i int) byte {
	return (b[i/8] >> (7 - i%8)) & 1
}

// SetBit sets bit i of b, counting from the most significant bit of b[0].
func SetBit(b []byte, i int) {
	b[i/8] |= 1 << (7 - i%8)
}

// PrefixFrom reconstructs the CIDR prefix described by the first n bits of b.
// The remaining bits of b must already be zero; b is the full byte width of
// the family (4 bytes when v4 is true, 16 otherwise).
func PrefixFrom(b []byte, n int, v4 bool) netip.Prefix {
	if v4 {
		return netip.PrefixFrom(netip.AddrFrom4([4]byte(b[:4])), n)
	}
	return netip.PrefixFrom(netip.AddrFrom16([16]byte(b[:16])), n)
}
