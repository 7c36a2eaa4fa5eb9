// Package config loads the service configuration from a JSON or YAML file
// with optional environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kmartel07/gridride/core/metrics"
)

// GridConfig bounds the simulation grid.
type GridConfig struct {
	// Size is the side length of the square grid; coordinates are [0, Size).
	Size int `json:"size"`
}

// SetDefaults applies sane defaults.
func (c *GridConfig) SetDefaults() {
	if c.Size == 0 {
		c.Size = 100
	}
}

// Validate checks mandatory fields.
func (c GridConfig) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("grid size must be positive, got %d", c.Size)
	}
	return nil
}

// ServerConfig parameterizes the HTTP API.
type ServerConfig struct {
	Addr string `json:"addr"`
}

// SetDefaults applies sane defaults.
func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// JournalConfig controls the ride event journal.
type JournalConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *JournalConfig) SetDefaults() {
	if c.Path == "" {
		c.Path = "rides.jsonl"
	}
}

// Config is the root configuration document.
type Config struct {
	Grid    GridConfig     `json:"grid"`
	Server  ServerConfig   `json:"server"`
	Metrics metrics.Config `json:"metrics"`
	Journal JournalConfig  `json:"journal"`
}

// Default returns a configuration with all defaults applied, used when no
// config file is given.
func Default() *Config {
	var cfg Config
	cfg.Grid.SetDefaults()
	cfg.Server.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Journal.SetDefaults()
	return &cfg
}

// Load reads the configuration file at path. The format is selected by
// extension (.json, .yaml, .yml). Environment variables prefixed with GR_
// override file values, with __ separating nesting levels
// (GR_GRID__SIZE=50 sets grid.size).
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("GR_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "gr_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Grid.SetDefaults()
	cfg.Server.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Journal.SetDefaults()
	if err := cfg.Grid.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
