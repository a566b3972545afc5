// Package config loads splitzip's optional YAML configuration file, which
// supplies defaults layered beneath CLI flags (flags win over file, file
// wins over built-in defaults).
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	zerrors "github.com/archivekit/splitzip/pkg/errors"
)

// Config is the on-disk shape of a .splitzip.yaml file.
type Config struct {
	SplitSize string `yaml:"split_size"`
	Level     int    `yaml:"level"`
	Store     bool   `yaml:"store"`
	Verbose   bool   `yaml:"verbose"`
	Output    string `yaml:"output"`
}

// Default returns the built-in defaults used when no config file and no
// flag supplies a value.
func Default() Config {
	return Config{SplitSize: "700MiB", Level: 6}
}

// Load reads and parses a YAML config file at path, starting from Default()
// so unset fields keep their built-in values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, zerrors.Wrap(zerrors.KindConfig, "failed to read config file "+path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, zerrors.Wrap(zerrors.KindConfig, "failed to parse config file "+path, err)
	}
	return cfg, nil
}

// Merge layers override on top of base, keeping base's value for any field
// override leaves at its zero value. Used to apply CLI flags (override) on
// top of a loaded file (base).
func Merge(base, override Config) Config {
	out := base
	if override.SplitSize != "" {
		out.SplitSize = override.SplitSize
	}
	if override.Level != 0 {
		out.Level = override.Level
	}
	if override.Store {
		out.Store = true
	}
	if override.Verbose {
		out.Verbose = true
	}
	if override.Output != "" {
		out.Output = override.Output
	}
	return out
}
