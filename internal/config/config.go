// Package config loads the optional compiler.toml project file (SPEC_FULL.md
// §4.14): which optimization passes run and in what multiplicity, dump
// format and color, and logging verbosity. Absence of the file is not an
// error — built-in defaults apply, and CLI flags override whatever the file
// sets.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// DefaultFileName is the project config file looked up in the working
// directory when --config is not given.
const DefaultFileName = "compiler.toml"

// OptimizerConfig controls the optimization pipeline. Passes names which
// passes run and in what order; repeating a name in the list runs it that
// many times within one pipeline pass (see optimizer.NewFromNames).
// MaxIterations then repeats the whole named pipeline that many times, for
// passes whose opportunities only appear after an earlier pass in the same
// list has already run once.
type OptimizerConfig struct {
	Passes        []string `toml:"passes"`
	MaxIterations int      `toml:"max_iterations"`
}

// DumpConfig controls how the before/after IR dumps are rendered.
type DumpConfig struct {
	Format string `toml:"format"` // "text" or "dot"
	Color  bool   `toml:"color"`
}

// LogConfig controls logging verbosity.
type LogConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", "error"
}

// Config is the root of compiler.toml.
type Config struct {
	Optimizer OptimizerConfig `toml:"optimizer"`
	Dump      DumpConfig      `toml:"dump"`
	Log       LogConfig       `toml:"log"`
}

// Default returns the built-in configuration used when no project file is
// present and no flag overrides a field.
func Default() *Config {
	return &Config{
		Optimizer: OptimizerConfig{
			Passes:        []string{"constant_folding", "simplify_cfg", "dead_code_elimination", "remove_noops"},
			MaxIterations: 1,
		},
		Dump: DumpConfig{
			Format: "text",
			Color:  false,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path and merges it over Default(). A missing file at path is
// not an error: Default() is returned unchanged. A present-but-malformed
// file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "reading config %s", path)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, nil
}
