package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const defaultConfig = `
user_mappings:
- old:	rjc
  new:	robert
symbol_mappings:
`

func TestValidConfig(t *testing.T) {
	cfg := loadOrFail(t, defaultConfig)
	assert.Equal(t, 1, len(cfg.UserMappings))
	assert.Equal(t, "rjc", cfg.UserMappings[0].Old)
	assert.Equal(t, "robert", cfg.UserMappings[0].New)
	assert.Empty(t, cfg.SymbolMappings)
	assert.Nil(t, cfg.SetStrict)
}

func TestEmptyConfig(t *testing.T) {
	cfg := loadOrFail(t, "")
	assert.Empty(t, cfg.UserMappings)
	assert.Empty(t, cfg.SymbolMappings)
	assert.Nil(t, cfg.SetStrict)
}

func TestSymbolMap(t *testing.T) {
	const config = `
symbol_mappings:
- name: 	'rel_.*'
  prefix:	old-
`
	cfg := loadOrFail(t, config)
	assert.Equal(t, 1, len(cfg.ReSymbolMaps))
	assert.Equal(t, "old-", cfg.ReSymbolMaps[0].Prefix)
	assert.True(t, cfg.ReSymbolMaps[0].ReName.MatchString("rel_1_0"))
	assert.False(t, cfg.ReSymbolMaps[0].ReName.MatchString("stable"))
}

func TestStrictFlag(t *testing.T) {
	cfg := loadOrFail(t, "strict: false\n")
	if assert.NotNil(t, cfg.SetStrict) {
		assert.False(t, *cfg.SetStrict)
	}
	cfg = loadOrFail(t, "strict: true\n")
	if assert.NotNil(t, cfg.SetStrict) {
		assert.True(t, *cfg.SetStrict)
	}
}

func TestRegex(t *testing.T) {
	const config = `
symbol_mappings:
- name: 	'rel_.*['
  prefix:	old-
`
	_, err := Unmarshal([]byte(config))
	if err == nil {
		t.Fatalf("Expected regex error not seen")
	}
}

func TestIncompleteUserMapping(t *testing.T) {
	ensureFail(t, "user_mappings:\n- old: rjc\n", "missing new user")
}

func ensureFail(t *testing.T, cfgString string, desc string) {
	_, err := Unmarshal([]byte(cfgString))
	if err == nil {
		t.Fatalf("Expected config err not found: %s", desc)
	}
	t.Logf("Config err: %v", err.Error())
}

func loadOrFail(t *testing.T, cfgString string) *Config {
	cfg, err := Unmarshal([]byte(cfgString))
	if err != nil {
		t.Fatalf("Failed to read config: %v", err.Error())
	}
	return cfg
}
