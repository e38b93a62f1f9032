package minijoe

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"

	"github.com/cloudcmds/minijoe/parser"
)

// Config holds the settings of a compilation. It can be loaded from a TOML
// file:
//
//	fast_locals = true
//	line_numbers = false
//	max_depth = 200
//	comment = "build 42"
type Config struct {
	FastLocals    bool   `toml:"fast_locals"`
	LineNumbers   bool   `toml:"line_numbers"`
	DumpSource    bool   `toml:"debug_dump_source"`
	DumpTree      bool   `toml:"debug_dump_tree"`
	DumpBytecode  bool   `toml:"debug_dump_bytecode"`
	StrictNumbers bool   `toml:"strict_numbers"`
	MaxDepth      int    `toml:"max_depth"`
	Filename      string `toml:"filename"`
	Comment       string `toml:"comment"`
}

// DefaultConfig returns the settings used when no options are given.
func DefaultConfig() Config {
	return Config{
		FastLocals:  true,
		LineNumbers: true,
		MaxDepth:    parser.DefaultMaxDepth,
	}
}

// LoadConfig reads a TOML configuration file. Settings missing from the
// file keep their defaults. Unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return ParseConfig(string(data), path)
}

// ParseConfig parses TOML configuration text. The name is used in error
// messages.
func ParseConfig(text, name string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.Decode(text, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parse error in %s: %w", name, err)
	}
	var result *multierror.Error
	for _, key := range md.Undecoded() {
		result = multierror.Append(result, fmt.Errorf("%s: unknown setting %q", name, key.String()))
	}
	if cfg.MaxDepth <= 0 {
		result = multierror.Append(result, fmt.Errorf("%s: max_depth must be positive, got %d", name, cfg.MaxDepth))
	}
	if err := result.ErrorOrNil(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
