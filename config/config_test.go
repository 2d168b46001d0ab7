package config

import (
	"testing"

	"github.com/ipcheck/ipcheck/component/filter"
	"github.com/ipcheck/ipcheck/log"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
external-controller: 127.0.0.1:9090
encoding: wide
log-level: warning
rule-providers:
  blocklist:
    type: file
    format: csv
    path: ./blocklist.csv
  allowlist:
    type: http
    url: https://example.com/allowlist.yaml
    interval: 600
`))
	assert.Nil(t, err)
	assert.Equal(t, "127.0.0.1:9090", cfg.ExternalController)
	assert.Equal(t, filter.WidePair, cfg.Encoding)
	assert.Equal(t, log.WARNING, cfg.LogLevel)
	assert.Equal(t, 2, len(cfg.Providers))
	assert.NotNil(t, cfg.Providers["blocklist"])
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`external-controller: ":9090"`))
	assert.Nil(t, err)
	assert.Equal(t, filter.Fixed32, cfg.Encoding)
	assert.Equal(t, log.INFO, cfg.LogLevel)
	assert.Equal(t, 0, len(cfg.Providers))
}

func TestParseFail(t *testing.T) {
	_, err := Parse([]byte(`log-level: info`))
	assert.NotNil(t, err)

	_, err = Parse([]byte("external-controller: ':9090'\nencoding: utf8"))
	assert.NotNil(t, err)

	_, err = Parse([]byte("external-controller: ':9090'\nlog-level: noisy"))
	assert.NotNil(t, err)

	_, err = Parse([]byte("external-controller: ':9090'\nrule-providers:\n  x:\n    type: pigeon"))
	assert.NotNil(t, err)
}
