// Package config handles mterp.toml generator configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/genmterp/catalog"
	"github.com/ezrec/genmterp/translate"
)

var f = translate.From

// FILENAME is the name of the configuration file.
const FILENAME = "mterp.toml"

var (
	ErrOpcodeCount   = errors.New(f("opcodes must be positive"))
	ErrNoArch        = errors.New(f("no architectures configured"))
	ErrNoCatalog     = errors.New(f("no opcode catalog configured"))
	ErrArchUnknown   = errors.New(f("architecture not configured"))
	ErrArchDuplicate = errors.New(f("architecture duplicated"))
)

// DefaultArchitectures are generated when none are configured.
var DefaultArchitectures = []string{"arm", "arm64", "mips", "mips64", "x86", "x86_64"}

// Config is a generator configuration.
type Config struct {
	Catalog       string   `toml:"catalog"`       // Instruction list header.
	Prelude       string   `toml:"prelude"`       // Setup code shared by all architectures.
	Templates     string   `toml:"templates"`     // Directory holding one template directory per architecture.
	Output        string   `toml:"output"`        // Output directory.
	Architectures []string `toml:"architectures"` // Architectures to generate, in order.
	Opcodes       int      `toml:"opcodes"`       // Number of opcodes in the catalog.
	Prefix        string   `toml:"prefix"`        // Prefix of the opcode symbols.
	Dump          string   `toml:"dump"`          // Directory for lowered scripts, if set.

	// Dir is the directory containing the configuration (set at load time).
	Dir string `toml:"-"`
}

func (cfg *Config) defaults() {
	if len(cfg.Templates) == 0 {
		cfg.Templates = "."
	}
	if len(cfg.Output) == 0 {
		cfg.Output = "out"
	}
	if cfg.Architectures == nil {
		cfg.Architectures = slices.Clone(DefaultArchitectures)
	}
	if cfg.Opcodes == 0 {
		cfg.Opcodes = catalog.PACKED_OPCODES
	}
	if len(cfg.Prefix) == 0 {
		cfg.Prefix = catalog.OPCODE_PREFIX
	}
}

// Parse decodes a configuration, and applies the defaults.
func Parse(data string) (cfg *Config, err error) {
	var c Config
	_, err = toml.Decode(data, &c)
	if err != nil {
		return
	}

	c.defaults()

	err = c.Validate()
	if err != nil {
		return
	}

	cfg = &c
	return
}

// Load parses the mterp.toml file of the given directory.
func Load(dir string) (cfg *Config, err error) {
	path := filepath.Join(dir, FILENAME)
	data, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("cannot read %s: %w", path, err)
		return
	}

	cfg, err = Parse(string(data))
	if err != nil {
		err = fmt.Errorf("%s: %w", path, err)
		return
	}

	cfg.Dir, err = filepath.Abs(dir)
	if err != nil {
		err = fmt.Errorf("cannot resolve path %s: %w", dir, err)
		cfg = nil
		return
	}

	return
}

// Validate checks the configuration for consistency.
func (cfg *Config) Validate() (err error) {
	if len(cfg.Catalog) == 0 {
		return ErrNoCatalog
	}
	if cfg.Opcodes < 1 {
		return ErrOpcodeCount
	}
	if len(cfg.Architectures) == 0 {
		return ErrNoArch
	}
	for n, arch := range cfg.Architectures {
		if slices.Contains(cfg.Architectures[:n], arch) {
			return fmt.Errorf("%w: %v", ErrArchDuplicate, arch)
		}
	}
	return
}

// Select restricts the configuration to a subset of its architectures,
// keeping the requested order.
func (cfg *Config) Select(archs []string) (err error) {
	for n, arch := range archs {
		if !slices.Contains(cfg.Architectures, arch) {
			return fmt.Errorf("%w: %v", ErrArchUnknown, arch)
		}
		if slices.Contains(archs[:n], arch) {
			return fmt.Errorf("%w: %v", ErrArchDuplicate, arch)
		}
	}
	cfg.Architectures = slices.Clone(archs)
	return
}

// Path resolves a configured path against the configuration directory.
func (cfg *Config) Path(name string) string {
	if len(name) == 0 || filepath.IsAbs(name) || len(cfg.Dir) == 0 {
		return name
	}
	return filepath.Join(cfg.Dir, name)
}
