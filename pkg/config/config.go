// Package config loads slimc.toml, the configuration file of the slimc
// command.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
)

// FileName is the name of the configuration file looked up by Find
const FileName = "slimc.toml"

// Printer output formats
const (
	FormatFlat = "flat"
	FormatTree = "tree"
)

// tomlConfig is the configuration file as it is encoded in TOML
type tomlConfig struct {
	Strict  bool              `toml:"strict"`
	Printer *tomlPrinter      `toml:"printer"`
	Aliases map[string]string `toml:"aliases,omitempty"`
}

// tomlPrinter is the [printer] table
type tomlPrinter struct {
	Format string `toml:"format"`
	Indent int    `toml:"indent"`
}

// Config is the validated configuration
type Config struct {
	// Path is the file the configuration was loaded from, empty for the
	// defaults.
	Path string

	// Strict rejects trees with free parameters
	Strict bool

	Format string
	Indent int

	// Aliases maps short type names usable in tree documents to the
	// qualified names (path.Name) of registered types.
	Aliases map[string]string
}

// Default returns the configuration used when no file is found
func Default() *Config {
	return &Config{Format: FormatFlat, Indent: 2, Aliases: map[string]string{}}
}

// Load reads and validates the configuration file at path
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buff, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(buff)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes and validates a configuration. Missing settings keep their
// defaults.
func Parse(buff []byte) (*Config, error) {
	tc := &tomlConfig{}
	if err := toml.Unmarshal(buff, tc); err != nil {
		return nil, err
	}

	cfg := Default()
	cfg.Strict = tc.Strict
	if tc.Printer != nil {
		if tc.Printer.Format != "" {
			cfg.Format = tc.Printer.Format
		}
		if tc.Printer.Indent != 0 {
			cfg.Indent = tc.Printer.Indent
		}
	}
	for k, v := range tc.Aliases {
		cfg.Aliases[k] = v
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.Format {
	case FormatFlat, FormatTree:
	default:
		return fmt.Errorf("unknown printer format %q (want %s or %s)", cfg.Format, FormatFlat, FormatTree)
	}
	if cfg.Indent < 0 {
		return fmt.Errorf("printer indent must not be negative, got %d", cfg.Indent)
	}
	for name, target := range cfg.Aliases {
		if name == "" || strings.ContainsAny(name, "[]*. ") {
			return fmt.Errorf("invalid alias name %q", name)
		}
		if target == "" {
			return fmt.Errorf("alias %q has no target type", name)
		}
	}
	return nil
}

// Find looks for FileName in dir and its parents and returns its path
func Find(dir string) (string, bool) {
	abspath, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		candidate := filepath.Join(abspath, FileName)
		if finfo, err := os.Stat(candidate); err == nil && !finfo.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(abspath)
		if parent == abspath {
			return "", false
		}
		abspath = parent
	}
}
