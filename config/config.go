package config

import (
	"fmt"
	"os"
	"regexp"

	yaml "gopkg.in/yaml.v2"
)

type UserMapping struct {
	Old string `yaml:"old"` // Author to rewrite
	New string `yaml:"new"` // Replacement author
}

type SymbolMapping struct {
	Name   string `yaml:"name"`   // Regex for symbol names
	Prefix string `yaml:"prefix"` // Prefix to prepend to matching symbols
}

// ReSymbolMap - parsed into regexp
type ReSymbolMap struct {
	Prefix string         // Prefix to prepend
	ReName *regexp.Regexp // Compiled regexp
}

// Config for editrcs batch edits
type Config struct {
	UserMappings   []UserMapping   `yaml:"user_mappings"`
	SymbolMappings []SymbolMapping `yaml:"symbol_mappings"`
	SetStrict      *bool           `yaml:"strict"`
	ReSymbolMaps   []ReSymbolMap
}

// Unmarshal the config
func Unmarshal(config []byte) (*Config, error) {
	cfg := &Config{
		ReSymbolMaps: make([]ReSymbolMap, 0),
	}
	err := yaml.Unmarshal(config, cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %v. make sure to use 'single quotes' around strings with special characters (like match patterns)", err.Error())
	}
	err = cfg.validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigFile - loads config file
func LoadConfigFile(filename string) (*Config, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load %v: %v", filename, err.Error())
	}
	cfg, err := LoadConfigString(content)
	if err != nil {
		return nil, fmt.Errorf("failed to load %v: %v", filename, err.Error())
	}
	return cfg, nil
}

// LoadConfigString - loads a string
func LoadConfigString(content []byte) (*Config, error) {
	cfg, err := Unmarshal([]byte(content))
	return cfg, err
}

func (c *Config) validate() error {
	for _, m := range c.UserMappings {
		if m.Old == "" || m.New == "" {
			return fmt.Errorf("user mapping needs both old and new values: '%s' -> '%s'", m.Old, m.New)
		}
	}
	for _, m := range c.SymbolMappings {
		reName, err := regexp.Compile(m.Name)
		if err != nil {
			return fmt.Errorf("failed to parse '%s' as a regex", m.Name)
		}
		c.ReSymbolMaps = append(c.ReSymbolMaps, ReSymbolMap{Prefix: m.Prefix, ReName: reName})
	}
	return nil
}
