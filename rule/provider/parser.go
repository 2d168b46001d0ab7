package provider

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"net/netip"
	"time"

	"github.com/ipcheck/ipcheck/component/filter"

	"gopkg.in/yaml.v2"
)

var (
	ErrInvalidIpCidrFormat = errors.New("invalid ip cidr format")
)

type Format int

const (
	YAML Format = iota
	CSV
)

func (f Format) String() string {
	switch f {
	case YAML:
		return "YAML"
	case CSV:
		return "CSV"
	default:
		return "Unknown"
	}
}

type ruleProviderSchema struct {
	Type     string `yaml:"type"`
	Format   string `yaml:"format"`
	Path     string `yaml:"path"`
	URL      string `yaml:"url"`
	Interval int    `yaml:"interval"`
}

type RulePayload struct {
	/**
	list of CIDR entries, mixed IPv4/IPv6
	*/
	Rules []string `yaml:"payload"`
}

func ParseRuleProvider(name string, mapping map[string]interface{}, encoding filter.Encoding) (RuleProvider, error) {
	buf, err := yaml.Marshal(mapping)
	if err != nil {
		return nil, err
	}
	schema := &ruleProviderSchema{}
	if err := yaml.Unmarshal(buf, schema); err != nil {
		return nil, err
	}

	var format Format
	switch schema.Format {
	case "yaml", "":
		format = YAML
	case "csv":
		format = CSV
	default:
		return nil, fmt.Errorf("unsupported format type: %s", schema.Format)
	}

	var vehicle Vehicle
	switch schema.Type {
	case "file":
		vehicle = NewFileVehicle(schema.Path)
	case "http":
		vehicle = NewHTTPVehicle(schema.URL)
	default:
		return nil, fmt.Errorf("unsupported vehicle type: %s", schema.Type)
	}

	return NewRuleSetProvider(name, format, encoding, time.Duration(uint(schema.Interval))*time.Second, vehicle), nil
}

// ParsePayload parses a raw payload in the given format into CIDR prefixes.
func ParsePayload(buf []byte, format Format) ([]netip.Prefix, error) {
	switch format {
	case YAML:
		return parseYAMLPayload(buf)
	case CSV:
		return parseCSVPayload(buf)
	default:
		return nil, errors.New("unknown payload format")
	}
}

func parseYAMLPayload(buf []byte) ([]netip.Prefix, error) {
	rulePayload := RulePayload{}
	if err := yaml.Unmarshal(buf, &rulePayload); err != nil {
		return nil, err
	}
	return parseCidrs(rulePayload.Rules)
}

// parseCSVPayload reads the compiler's CSV input: one CIDR in the first
// column, first row treated as a header.
func parseCSVPayload(buf []byte) ([]netip.Prefix, error) {
	reader := csv.NewReader(bytes.NewReader(buf))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) > 0 {
		records = records[1:]
	}

	rules := make([]string, 0, len(records))
	for _, record := range records {
		if len(record) == 0 || record[0] == "" {
			continue
		}
		rules = append(rules, record[0])
	}
	return parseCidrs(rules)
}

func parseCidrs(rules []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(rules))
	for _, rule := range rules {
		prefix, err := netip.ParsePrefix(rule)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidIpCidrFormat, rule)
		}
		prefixes = append(prefixes, prefix)
	}
	return prefixes, nil
}
