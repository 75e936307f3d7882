// Package config loads optional VM tuning overrides from a YAML file,
// grounded on the teacher's internal/ext.LoadConfig/ParseConfig
// read-then-unmarshal-then-validate shape, scaled down to the handful
// of knobs SOFIA's VM actually exposes.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config overrides the VM's default tuning constants and default CLI
// behavior. Every field is optional; a zero value means "use the
// built-in default."
type Config struct {
	InitialStackSize int    `yaml:"initial_stack_size,omitempty"`
	MaxStackSize     int    `yaml:"max_stack_size,omitempty"`
	MaxFrameCount    int    `yaml:"max_frame_count,omitempty"`
	Trace            bool   `yaml:"trace,omitempty"`
	TraceDB          string `yaml:"trace_db,omitempty"`
}

// Load reads and parses a YAML config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses YAML config content from bytes. path is used only for
// error messages.
func Parse(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate(path string) error {
	if c.InitialStackSize < 0 {
		return fmt.Errorf("%s: initial_stack_size must not be negative", path)
	}
	if c.MaxStackSize < 0 {
		return fmt.Errorf("%s: max_stack_size must not be negative", path)
	}
	if c.MaxStackSize > 0 && c.InitialStackSize > c.MaxStackSize {
		return fmt.Errorf("%s: initial_stack_size (%d) exceeds max_stack_size (%d)", path, c.InitialStackSize, c.MaxStackSize)
	}
	if c.MaxFrameCount < 0 {
		return fmt.Errorf("%s: max_frame_count must not be negative", path)
	}
	return nil
}
