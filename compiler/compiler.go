// Package compiler compiles a MiniJoe abstract syntax tree (AST) into a
// bytecode module.
//
// # Hoisting
//
// Before a function or program body is compiled, Hoist collects every var
// and function declaration in it, without entering nested function
// literals. This lets a body use a variable or call a function before the
// statement that declares it:
//
//	function isEven(n) { return n == 0 || isOdd(n - 1) }
//	function isOdd(n) { return n != 0 && isEven(n - 1) }
//
// The declared functions are compiled first and bound to their names by a
// short prologue, so both are defined before either is called.
//
// # Variable Addressing
//
// Variables are addressed in one of two ways:
//
//   - By name: GET_VAR/SET_VAR carry the string table index of the name and
//     the VM looks it up along the scope chain.
//   - By slot: GET_LOCAL/SET_LOCAL carry the index of a local slot.
//
// Program level code always uses names. A function uses slots when fast
// locals are enabled and its body contains no nested function and no with
// statement, since either may observe the variables through the scope
// chain. The module of every function lists its local names, parameters
// first, so the VM can build an activation for name-addressed access.
//
// # Control Flow
//
// Jumps are emitted with a placeholder offset and backpatched once their
// label is marked. Exits from try statements inline the finally code and
// split the protected ranges around it.
package compiler

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cloudcmds/minijoe/ast"
	"github.com/cloudcmds/minijoe/bytecode"
	"github.com/cloudcmds/minijoe/errors"
	"github.com/cloudcmds/minijoe/internal/token"
	"github.com/cloudcmds/minijoe/op"
)

// Compiler is used to compile an AST into its corresponding bytecode. A
// Compiler compiles a single program and must not be shared between
// goroutines.
type Compiler struct {
	// The program body. This remains fixed throughout compilation.
	main *code

	// The code we are compiling into. This changes as we enter and leave
	// functions.
	current *code

	// Set on a compilation error
	failure error

	// Global string table shared by all functions
	strings   []string
	stringIdx map[string]int

	fastLocals  bool
	lineNumbers bool
	filename    string
	source      string
	comment     string
	logger      zerolog.Logger

	// Position of the node being compiled, for error reporting
	pos token.Position

	used bool
}

// Config holds compiler configuration options.
type Config struct {
	// FastLocals enables slot-addressed local variables.
	FastLocals bool

	// LineNumbers enables the line number tables.
	LineNumbers bool

	// Filename is the source filename, used for error messages.
	Filename string

	// Source is the original source code, used for better error messages.
	Source string

	// Comment is written into the comment section of the root module.
	Comment string

	// Logger receives debug events. Defaults to a disabled logger.
	Logger *zerolog.Logger
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() *Config {
	return &Config{FastLocals: true, LineNumbers: true}
}

// Compile compiles the program and returns its module. Pass nil for cfg to
// use default settings.
func Compile(program *ast.Program, cfg *Config) (*bytecode.Module, error) {
	return New(cfg).CompileAST(program)
}

// New creates and returns a new Compiler. Pass nil for cfg to use defaults.
func New(cfg *Config) *Compiler {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := &Compiler{
		stringIdx:   map[string]int{},
		fastLocals:  cfg.FastLocals,
		lineNumbers: cfg.LineNumbers,
		filename:    cfg.Filename,
		source:      cfg.Source,
		comment:     cfg.Comment,
		logger:      zerolog.Nop(),
	}
	if cfg.Logger != nil {
		c.logger = *cfg.Logger
	}
	return c
}

// CompileAST compiles the program into a module.
func (c *Compiler) CompileAST(program *ast.Program) (*bytecode.Module, error) {
	if c.used {
		return nil, fmt.Errorf("compiler: CompileAST called twice")
	}
	c.used = true
	if program == nil {
		return nil, fmt.Errorf("compiler: nil program")
	}
	c.main = newCode(nil, "")
	c.current = c.main

	decls := Hoist(program.Stmts)
	if err := c.bindFunctions(decls); err != nil {
		return nil, err
	}
	if err := c.compileStmts(program.Stmts); err != nil {
		return nil, err
	}
	m := c.toModule(c.comment, true)
	if c.failure != nil {
		return nil, c.failure
	}
	c.logger.Debug().
		Int("strings", len(c.strings)).
		Int("code_bytes", m.CodeLen()).
		Int("functions", len(m.Flatten())-1).
		Msg("compiled program")
	return m, nil
}

// bindFunctions compiles the hoisted function declarations and binds each
// to its name.
func (c *Compiler) bindFunctions(decls *Declarations) error {
	for _, fn := range decls.Funcs() {
		c.pos = fn.FuncPos
		idx, err := c.compileFunction(fn, true)
		if err != nil {
			return err
		}
		c.emitX(op.PushFn, idx)
		c.storeName(fn.Name.Name)
		c.emit(op.Drop)
	}
	return c.failure
}

// compileFunction compiles a function literal into a nested module of the
// current code and returns its index in the function table.
func (c *Compiler) compileFunction(fn *ast.FuncLit, isDecl bool) (int, error) {
	var name string
	if fn.Name != nil {
		name = fn.Name.Name
	}
	decls := Hoist(fn.Body.Stmts)
	parent := c.current
	code := newCode(parent, name)
	code.symbols = NewSymbolTable()
	code.fast = c.fastLocals && !decls.HasNestedFunctions() && !decls.HasWith()
	code.numParams = len(fn.Params)
	if code.numParams > bytecode.MaxU16 {
		return 0, c.formatErrorWithCode(errors.E2007, "too many parameters", fn.FuncPos, nil)
	}

	c.current = code
	defer func() { c.current = parent }()

	for _, p := range fn.Params {
		if _, err := code.symbols.Insert(p.Name); err != nil {
			return 0, c.formatErrorWithCode(errors.E2007, err.Error(), p.NamePos, nil)
		}
	}
	for _, n := range decls.Names() {
		if _, err := code.symbols.Declare(n); err != nil {
			return 0, c.formatErrorWithCode(errors.E2007, err.Error(), fn.FuncPos, nil)
		}
	}

	c.recordLine(ast.Line(fn))
	if !isDecl && name != "" && !code.symbols.IsDefined(name) {
		if _, err := code.symbols.Declare(name); err != nil {
			return 0, c.formatErrorWithCode(errors.E2007, err.Error(), fn.FuncPos, nil)
		}
		c.emit(op.PushFunction)
		c.storeName(name)
		c.emit(op.Drop)
	}
	if err := c.bindFunctions(decls); err != nil {
		return 0, err
	}
	if err := c.compileStmts(fn.Body.Stmts); err != nil {
		return 0, err
	}
	m := c.toModule(name, false)
	if c.failure != nil {
		return 0, c.failure
	}
	c.logger.Debug().
		Str("function", name).
		Int("code_bytes", m.CodeLen()).
		Int("locals", m.NumLocals()).
		Bool("fast_locals", code.fast).
		Msg("compiled function")

	c.current = parent
	return c.addFunction(m), c.failure
}

// resolveLocal returns the slot of a name when the current function uses
// slot-addressed locals.
func (c *Compiler) resolveLocal(name string) (*Symbol, bool) {
	code := c.current
	if !code.fast {
		return nil, false
	}
	return code.symbols.Resolve(name)
}

func (c *Compiler) loadName(name string) {
	if s, ok := c.resolveLocal(name); ok {
		c.emitX(op.GetLocal, s.Index())
		return
	}
	c.emitX(op.GetVar, c.stringLit(name))
}

// storeName assigns the value on top of the stack to a variable, leaving
// the value on the stack.
func (c *Compiler) storeName(name string) {
	if s, ok := c.resolveLocal(name); ok {
		c.emitX(op.SetLocal, s.Index())
		return
	}
	c.emitX(op.SetVar, c.stringLit(name))
}

// fail records the first compilation error.
func (c *Compiler) fail(code errors.ErrorCode, pos token.Position, suggestions []errors.Suggestion, format string, args ...any) {
	if c.failure != nil {
		return
	}
	c.failure = c.formatErrorWithCode(code, fmt.Sprintf(format, args...), pos, suggestions)
}

// formatErrorWithCode creates a CompileError with an error code and optional
// suggestions.
func (c *Compiler) formatErrorWithCode(code errors.ErrorCode, msg string, pos token.Position, suggestions []errors.Suggestion) error {
	filename := c.filename
	if filename == "" {
		filename = pos.File
	}
	return &errors.CompileError{
		Code:        code,
		Message:     msg,
		Filename:    filename,
		Line:        pos.LineNumber(),
		Column:      pos.ColumnNumber(),
		SourceLine:  c.getSourceLine(pos.Line),
		Suggestions: suggestions,
	}
}

// getSourceLine retrieves a specific line from the source code.
// lineNum is 0-indexed.
func (c *Compiler) getSourceLine(lineNum int) string {
	if c.source == "" {
		return ""
	}
	lines := strings.Split(c.source, "\n")
	if lineNum < 0 || lineNum >= len(lines) {
		return ""
	}
	return strings.TrimRight(lines[lineNum], "\r")
}
