// Package config loads recorder settings from YAML. Unknown keys are
// rejected so typos surface as load errors instead of silent defaults.
package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"ebb/internal/store"
)

// Duration wraps time.Duration with YAML decoding from strings like
// "2s" or "500ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// IdentityConfig carries the robot identity attributes written into the
// Meta record. Empty fields fall back to store defaults.
type IdentityConfig struct {
	RobotName    string `yaml:"robot_name"`
	Version      string `yaml:"version"`
	Serial       string `yaml:"serial"`
	Manufacturer string `yaml:"manufacturer"`
	Operator     string `yaml:"operator"`
	Responsible  string `yaml:"responsible"`
}

// Identity converts to the store identity value.
func (c IdentityConfig) Identity() store.Identity {
	return store.Identity{
		Name:         c.RobotName,
		Version:      c.Version,
		Serial:       c.Serial,
		Manufacturer: c.Manufacturer,
		Operator:     c.Operator,
		Responsible:  c.Responsible,
	}
}

// Config is the full recorder configuration.
type Config struct {
	// Capacity bounds the circular event buffer.
	Capacity int `yaml:"capacity"`
	// Interval is the sampling period for live recording.
	Interval Duration `yaml:"interval"`
	// Output is the session file written on export and shutdown.
	Output string `yaml:"output"`
	// Archive is an optional sqlite database path; empty disables
	// archiving.
	Archive string `yaml:"archive"`

	Identity IdentityConfig `yaml:"identity"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Capacity: store.DefaultCapacity,
		Interval: Duration(2 * time.Second),
		Output:   "ebb-session.ebb",
	}
}

// Load reads and validates a YAML config file. A missing path returns
// the defaults untouched.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := parse(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func parse(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(cfg)
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive, got %d", c.Capacity)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", c.Interval.Std())
	}
	if c.Output == "" {
		return fmt.Errorf("output path must not be empty")
	}
	return nil
}
