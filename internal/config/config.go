// Package config loads jlisp's optional project config file (jlisp.yaml):
// module search paths and a few interning/reader tunables that would
// otherwise only be reachable by editing Go source. Grounded on the
// teacher's internal/manifest package's load/validate/default shape, a
// YAML document instead of manifest.go's generated JSON.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the conventional project config file name, searched for in
// the current working directory by interp.New.
const FileName = "jlisp.yaml"

// Config holds everything a jlisp.yaml can set. Every field has a sane
// zero value, so a Config built by New() (or an empty/missing file) behaves
// exactly like NewBare's hardcoded defaults.
type Config struct {
	// ModuleSearchPaths are extra directories searched for a bare (non-
	// relative) import path, after ".".
	ModuleSearchPaths []string `yaml:"module_search_paths"`

	// ReaderMacroReentrancyCap is loaded and validated but not consulted:
	// internal/reader has no reentrancy limit, since a MacroIterator emits
	// a transform's output without matching rules against it again.
	ReaderMacroReentrancyCap int `yaml:"reader_macro_reentrancy_cap"`

	// IntInternCeiling and StringInternCeiling are loaded and validated but
	// not consulted: the interning tables always use the package constants
	// in internal/value/intern.go.
	IntInternCeiling    int `yaml:"int_intern_ceiling"`
	StringInternCeiling int `yaml:"string_intern_ceiling"`
}

// New returns an empty Config equivalent to having no jlisp.yaml at all.
func New() *Config {
	return &Config{}
}

// Load reads and parses path as a jlisp.yaml document.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &c, nil
}

// LoadDefault looks for FileName in dir and loads it if present. A missing
// file is not an error: it returns (nil, nil) so callers can treat "no
// config" the same as "empty config".
func LoadDefault(dir string) (*Config, error) {
	path := dir + string(os.PathSeparator) + FileName
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}
	return Load(path)
}

// Save writes c to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects settings that could never be honored, the same
// fail-fast role manifest.Validate plays for the teacher's example
// manifest.
func (c *Config) Validate() error {
	if c.ReaderMacroReentrancyCap < 0 {
		return fmt.Errorf("reader_macro_reentrancy_cap must be >= 0, got %d", c.ReaderMacroReentrancyCap)
	}
	if c.IntInternCeiling < 0 {
		return fmt.Errorf("int_intern_ceiling must be >= 0, got %d", c.IntInternCeiling)
	}
	if c.StringInternCeiling < 0 {
		return fmt.Errorf("string_intern_ceiling must be >= 0, got %d", c.StringInternCeiling)
	}
	for _, p := range c.ModuleSearchPaths {
		if p == "" {
			return fmt.Errorf("module_search_paths entries must not be empty")
		}
	}
	return nil
}
