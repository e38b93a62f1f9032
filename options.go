package minijoe

import (
	"github.com/rs/zerolog"

	"github.com/cloudcmds/minijoe/compiler"
	"github.com/cloudcmds/minijoe/parser"
)

// Option configures parsing and compilation.
type Option func(*options)

type options struct {
	cfg    Config
	logger zerolog.Logger
}

func collectOptions(opts ...Option) *options {
	o := &options{cfg: DefaultConfig(), logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) parserOpts() []parser.Option {
	opts := []parser.Option{
		parser.WithMaxDepth(o.cfg.MaxDepth),
		parser.WithStrictNumbers(o.cfg.StrictNumbers),
		parser.WithLogger(o.logger),
	}
	if o.cfg.Filename != "" {
		opts = append(opts, parser.WithFilename(o.cfg.Filename))
	}
	return opts
}

func (o *options) compilerConfig(source string) *compiler.Config {
	return &compiler.Config{
		FastLocals:  o.cfg.FastLocals,
		LineNumbers: o.cfg.LineNumbers,
		Filename:    o.cfg.Filename,
		Source:      source,
		Comment:     o.cfg.Comment,
		Logger:      &o.logger,
	}
}

// WithFastLocals enables or disables slot-addressed local variables in
// functions that allow them. Enabled by default.
func WithFastLocals(enabled bool) Option {
	return func(o *options) {
		o.cfg.FastLocals = enabled
	}
}

// WithLineNumbers enables or disables the line number tables. Enabled by
// default.
func WithLineNumbers(enabled bool) Option {
	return func(o *options) {
		o.cfg.LineNumbers = enabled
	}
}

// WithDebugDumpSource logs the source text at debug level before parsing.
func WithDebugDumpSource(enabled bool) Option {
	return func(o *options) {
		o.cfg.DumpSource = enabled
	}
}

// WithDebugDumpTree logs the parsed tree at debug level.
func WithDebugDumpTree(enabled bool) Option {
	return func(o *options) {
		o.cfg.DumpTree = enabled
	}
}

// WithDebugDumpBytecode logs the disassembled module at debug level.
func WithDebugDumpBytecode(enabled bool) Option {
	return func(o *options) {
		o.cfg.DumpBytecode = enabled
	}
}

// WithLogger sets the logger that receives debug dumps and warnings. By
// default nothing is logged.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithFilename sets the filename for the source code being compiled.
// This is used in error messages.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.cfg.Filename = filename
	}
}

// WithStrictNumbers makes numeric literals that cannot be converted a parse
// error instead of NaN.
func WithStrictNumbers(enabled bool) Option {
	return func(o *options) {
		o.cfg.StrictNumbers = enabled
	}
}

// WithMaxDepth sets the maximum nesting depth accepted by the parser.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.cfg.MaxDepth = depth
	}
}

// WithComment sets the comment section of the top-level module.
func WithComment(comment string) Option {
	return func(o *options) {
		o.cfg.Comment = comment
	}
}

// WithConfig replaces all settings with the given configuration. Options
// that follow it override individual settings.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}
