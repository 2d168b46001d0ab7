package ipaddr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	addr, err := Parse("10.0.0.5")
	assert.Nil(t, err)
	assert.True(t, addr.Is4())

	addr, err = Parse("2001:db8::1")
	assert.Nil(t, err)
	assert.False(t, addr.Is4())

	// textual shape decides the family, no v4-in-v6 unmapping
	addr, err = Parse("::ffff:10.0.0.5")
	assert.Nil(t, err)
	assert.False(t, addr.Is4())
}

func TestParseZone(t *testing.T) {
	addr, err := Parse("fe80::1%eth0")
	assert.Nil(t, err)
	assert.Equal(t, "", addr.Zone())
	assert.Equal(t, "fe80::1", addr.String())
}

func TestParseFail(t *testing.T) {
	for _, s := range []string{"", "1.2.3", "1.2.3.4.5", "256.1.1.1", "a.b.c.d", "1::2::3", "%eth0"} {
		_, err := Parse(s)
		assert.Equal(t, ErrInvalidIpFormat, err, s)
	}
}

func TestBit(t *testing.T) {
	b := []byte{0b10000001, 0b01000000}

	assert.Equal(t, byte(1), Bit(b, 0))
	assert.Equal(t, byte(0), Bit(b, 1))
	assert.Equal(t, byte(1), Bit(b, 7))
	assert.Equal(t, byte(0), Bit(b, 8))
	assert.Equal(t, byte(1), Bit(b, 9))
}

func TestSetBit(t *testing.T) {
	b := make([]byte, 2)
	SetBit(b, 0)
	SetBit(b, 9)
	assert.Equal(t, []byte{0b10000000, 0b01000000}, b)
}

func TestPrefixFrom(t *testing.T) {
	b := []byte{10, 0, 0, 0}
	assert.Equal(t, "10.0.0.0/24", PrefixFrom(b, 24, true).String())
	assert.Equal(t, "10.0.0.0/8", PrefixFrom(b, 8, true).String())

	b16 := make([]byte, 16)
	b16[15] = 1
	assert.Equal(t, "::1/128", PrefixFrom(b16, 128, false).String())
}

func TestBytes(t *testing.T) {
	addr, err := Parse("1.2.3.4")
	assert.Nil(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, Bytes(addr))

	addr, err = Parse("::1")
	assert.Nil(t, err)
	assert.Equal(t, 16, len(Bytes(addr)))
}
