// Package project reads formal.toml project configuration.
package project

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// FileName is the name of the configuration file searched for.
const FileName = "formal.toml"

// Config represents a formal.toml project configuration file.
type Config struct {
	// Include lists glob patterns of definition files, relative to the
	// directory containing formal.toml.
	Include []string `toml:"include"`

	// Fuel bounds each reduction to this many rewrite steps. Zero means
	// unbounded.
	Fuel int `toml:"fuel,omitempty"`

	// Jobs is the number of definitions checked in parallel. Zero means one
	// per CPU.
	Jobs int `toml:"jobs,omitempty"`

	// Debug enables debug logging.
	Debug bool `toml:"debug,omitempty"`

	// Erase prints normal forms with computationally irrelevant parts
	// removed.
	Erase bool `toml:"erase,omitempty"`
}

// Load reads a formal.toml file from the given path.
func Load(path string) (*Config, error) {
	var config Config
	md, err := toml.DecodeFile(path, &config)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if config.Fuel < 0 {
		return nil, errors.Errorf("%s: fuel must not be negative", path)
	}
	if config.Jobs < 0 {
		return nil, errors.Errorf("%s: jobs must not be negative", path)
	}
	return &config, nil
}

// Find searches for formal.toml starting from dir and walking up to parent
// directories, stopping at a .git boundary. Returns the path and the parsed
// config, or ("", nil, nil) if not found.
func Find(dir string) (string, *Config, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, err
	}
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			config, err := Load(path)
			if err != nil {
				return "", nil, err
			}
			return path, config, nil
		}

		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return "", nil, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil, nil
		}
		dir = parent
	}
}
