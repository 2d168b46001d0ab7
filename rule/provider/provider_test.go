package provider

import (
	"net/netip"
	"os"
	"path/filepath"
	"testing"

	"github.com/ipcheck/ipcheck/component/filter"

	"github.com/stretchr/testify/assert"
)

func writeTempPayload(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	assert.Nil(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestYAMLProvider(t *testing.T) {
	path := writeTempPayload(t, "cidr.yaml", `payload:
  - "10.0.0.0/25"
  - "10.0.0.128/25"
  - "2001:db8::/32"
`)

	rp := NewRuleSetProvider("test", YAML, filter.Fixed32, 0, NewFileVehicle(path))
	assert.Nil(t, rp.Initial())

	assert.Equal(t, 3, rp.RuleCount())
	assert.True(t, rp.Search("10.0.0.200"))
	assert.True(t, rp.Search("2001:db8::1"))
	assert.False(t, rp.Search("192.168.1.1"))

	prefix, ok, err := rp.Filter().Lookup("10.0.0.200")
	assert.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, "10.0.0.0/24", prefix.String())
}

func TestCSVProvider(t *testing.T) {
	path := writeTempPayload(t, "cidr.csv", `network,last_changed
10.0.0.0/24,2023-01-01
192.168.0.0/16,2023-01-01
::1/128,2023-01-01
`)

	rp := NewRuleSetProvider("test", CSV, filter.Fixed32, 0, NewFileVehicle(path))
	assert.Nil(t, rp.Initial())

	assert.Equal(t, 3, rp.RuleCount())
	assert.True(t, rp.Search("10.0.0.5"))
	assert.True(t, rp.Search("192.168.44.3"))
	assert.True(t, rp.Search("::1"))
	assert.False(t, rp.Search("8.8.8.8"))
}

func TestProviderBadPayload(t *testing.T) {
	path := writeTempPayload(t, "cidr.yaml", `payload:
  - "not a cidr"
`)

	rp := NewRuleSetProvider("test", YAML, filter.Fixed32, 0, NewFileVehicle(path))
	err := rp.Initial()
	assert.ErrorIs(t, err, ErrInvalidIpCidrFormat)
	assert.Nil(t, rp.Filter())
}

func TestProviderUpdate(t *testing.T) {
	path := writeTempPayload(t, "cidr.yaml", `payload: ["10.0.0.0/8"]`)

	rp := NewRuleSetProvider("test", YAML, filter.Fixed32, 0, NewFileVehicle(path))
	assert.Nil(t, rp.Initial())
	assert.True(t, rp.Search("10.1.2.3"))

	// unchanged payload keeps the published filter
	assert.Nil(t, rp.Update())
	assert.True(t, rp.Search("10.1.2.3"))

	assert.Nil(t, os.WriteFile(path, []byte(`payload: ["172.16.0.0/12"]`), 0o644))
	assert.Nil(t, rp.Update())
	assert.False(t, rp.Search("10.1.2.3"))
	assert.True(t, rp.Search("172.20.0.1"))
}

func TestProviderEmptyPayload(t *testing.T) {
	path := writeTempPayload(t, "cidr.yaml", `payload: []`)

	rp := NewRuleSetProvider("test", YAML, filter.Fixed32, 0, NewFileVehicle(path))
	assert.Nil(t, rp.Initial())
	assert.Equal(t, 0, rp.RuleCount())
	assert.False(t, rp.Search("8.8.8.8"))
}

func TestParseRuleProvider(t *testing.T) {
	path := writeTempPayload(t, "cidr.csv", "network\n10.0.0.0/24\n")

	rp, err := ParseRuleProvider("blocklist", map[string]interface{}{
		"type":     "file",
		"format":   "csv",
		"path":     path,
		"interval": 0,
	}, filter.Fixed32)
	assert.Nil(t, err)
	assert.Equal(t, "blocklist", rp.Name())
	assert.Equal(t, CSV, rp.Format())
	assert.Equal(t, File, rp.VehicleType())
	assert.Nil(t, rp.Initial())
	assert.True(t, rp.Search("10.0.0.1"))

	_, err = ParseRuleProvider("bad", map[string]interface{}{"type": "carrier-pigeon"}, filter.Fixed32)
	assert.NotNil(t, err)
}

func TestFetcherHashSkip(t *testing.T) {
	path := writeTempPayload(t, "cidr.yaml", `payload: ["10.0.0.0/8"]`)

	f := newFetcher("test", 0, NewFileVehicle(path), func(buf []byte) ([]netip.Prefix, error) {
		return ParsePayload(buf, YAML)
	}, func([]netip.Prefix) error { return nil })

	_, err := f.Initial()
	assert.Nil(t, err)

	_, same, err := f.Update()
	assert.Nil(t, err)
	assert.True(t, same)

	assert.Nil(t, os.WriteFile(path, []byte(`payload: ["11.0.0.0/8"]`), 0o644))
	prefixes, same, err := f.Update()
	assert.Nil(t, err)
	assert.False(t, same)
	assert.Equal(t, 1, len(prefixes))
}
