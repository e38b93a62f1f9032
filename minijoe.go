// Package minijoe compiles programs written in MiniJoe, a small subset of
// JavaScript, into compact bytecode modules for a separate virtual machine.
//
// The pipeline is lexer, parser, hoisting pass and code generator:
//
//	data, err := minijoe.Compile(`function sq(x) { return x * x; }`)
//
// The returned bytes are a self-contained module in the binary module
// format understood by the bytecode package.
package minijoe

import (
	"bytes"

	"github.com/cloudcmds/minijoe/ast"
	"github.com/cloudcmds/minijoe/bytecode"
	"github.com/cloudcmds/minijoe/compiler"
	"github.com/cloudcmds/minijoe/dis"
	"github.com/cloudcmds/minijoe/parser"
)

// Parse parses source code into a program tree without compiling it.
func Parse(source string, opts ...Option) (*ast.Program, error) {
	o := collectOptions(opts...)
	return o.parse(source)
}

// Compile parses and compiles source code and returns the serialized
// module. Compiling the same source with the same options always yields
// the same bytes.
func Compile(source string, opts ...Option) ([]byte, error) {
	m, err := CompileModule(source, opts...)
	if err != nil {
		return nil, err
	}
	return bytecode.Encode(m)
}

// CompileModule parses and compiles source code and returns the module
// before serialization.
func CompileModule(source string, opts ...Option) (*bytecode.Module, error) {
	o := collectOptions(opts...)
	program, err := o.parse(source)
	if err != nil {
		return nil, err
	}
	return o.compile(program, source)
}

// CompileAST compiles an already parsed program and returns the serialized
// module.
func CompileAST(program *ast.Program, opts ...Option) ([]byte, error) {
	o := collectOptions(opts...)
	m, err := o.compile(program, "")
	if err != nil {
		return nil, err
	}
	return bytecode.Encode(m)
}

// Disassemble decodes a serialized module and renders its tables and code
// as text.
func Disassemble(data []byte) (string, error) {
	return dis.Text(data)
}

func (o *options) parse(source string) (*ast.Program, error) {
	if o.cfg.DumpSource {
		o.logger.Debug().Str("filename", o.cfg.Filename).Str("source", source).Msg("source")
	}
	program, err := parser.Parse(source, o.parserOpts()...)
	if err != nil {
		return nil, err
	}
	if o.cfg.DumpTree {
		o.logger.Debug().Str("filename", o.cfg.Filename).Str("tree", program.String()).Msg("tree")
	}
	return program, nil
}

func (o *options) compile(program *ast.Program, source string) (*bytecode.Module, error) {
	m, err := compiler.Compile(program, o.compilerConfig(source))
	if err != nil {
		return nil, err
	}
	if o.cfg.DumpBytecode {
		var buf bytes.Buffer
		if err := dis.PrintModule(m, &buf); err != nil {
			return nil, err
		}
		o.logger.Debug().Str("filename", o.cfg.Filename).Str("bytecode", buf.String()).Msg("bytecode")
	}
	return m, nil
}
