package config

import (
	"fmt"

	"github.com/ipcheck/ipcheck/component/filter"
	"github.com/ipcheck/ipcheck/log"
	"github.com/ipcheck/ipcheck/rule/provider"

	"gopkg.in/yaml.v2"
)

// RawConfig is the YAML shape of the daemon config file.
type RawConfig struct {
	ExternalController string       `yaml:"external-controller"`
	Encoding           string       `yaml:"encoding"`
	LogLevel           log.LogLevel `yaml:"log-level"`

	RuleProviders map[string]map[string]interface{} `yaml:"rule-providers"`
}

// Config holds the parsed daemon configuration with providers constructed
// but not yet initialized.
type Config struct {
	ExternalController string
	Encoding           filter.Encoding
	LogLevel           log.LogLevel
	Providers          map[string]provider.RuleProvider
}

// Parse constructs a Config from raw YAML.
func Parse(buf []byte) (*Config, error) {
	rawCfg := &RawConfig{
		Encoding: "fixed",
		LogLevel: log.INFO,
	}
	if err := yaml.Unmarshal(buf, rawCfg); err != nil {
		return nil, err
	}

	if rawCfg.ExternalController == "" {
		return nil, fmt.Errorf("external-controller is required")
	}

	encoding, err := filter.ParseEncoding(rawCfg.Encoding)
	if err != nil {
		return nil, err
	}

	providers := map[string]provider.RuleProvider{}
	for name, mapping := range rawCfg.RuleProviders {
		rp, err := provider.ParseRuleProvider(name, mapping, encoding)
		if err != nil {
			return nil, fmt.Errorf("parse rule provider %s error: %w", name, err)
		}
		providers[name] = rp
	}

	return &Config{
		ExternalController: rawCfg.ExternalController,
		Encoding:           encoding,
		LogLevel:           rawCfg.LogLevel,
		Providers:          providers,
	}, nil
}
