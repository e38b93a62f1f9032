package compiler

import (
	"fmt"
	"math"

	"github.com/cloudcmds/minijoe/ast"
	"github.com/cloudcmds/minijoe/bytecode"
	"github.com/cloudcmds/minijoe/errors"
	"github.com/cloudcmds/minijoe/internal/token"
	"github.com/cloudcmds/minijoe/op"
)

// Placeholder is written into jump operands until the target is known.
const Placeholder = uint16(math.MaxUint16)

// label is a jump destination. Jumps emitted before the label is marked
// are recorded and backpatched when it is.
type label struct {
	pos  int
	refs []jumpRef
}

type jumpRef struct {
	at  int
	pos token.Position
}

type targetKind int

const (
	loopTarget targetKind = iota
	switchTarget
	blockTarget
)

// target is a statement that break or continue may leave.
type target struct {
	kind       targetKind
	labels     []string
	breakTo    *label
	continueTo *label
	stackDepth int
	scopeDepth int
	frameDepth int
}

func (t *target) hasLabel(name string) bool {
	for _, l := range t.labels {
		if l == name {
			return true
		}
	}
	return false
}

// frame is a protected region that becomes one or more exception table
// entries. A frame with a finally block runs it on every exit.
type frame struct {
	finally    *ast.Block
	start      int
	ranges     [][2]int
	stackDepth int
	scopeDepth int
}

func (f *frame) close(pc int) {
	if f.start >= 0 && pc > f.start {
		f.ranges = append(f.ranges, [2]int{f.start, pc})
	}
	f.start = -1
}

func (f *frame) open(pc int) {
	f.start = pc
}

// code is the state of the function or program body being compiled.
type code struct {
	parent    *code
	name      string
	symbols   *SymbolTable
	fast      bool
	numParams int

	buf          []byte
	numbers      []float64
	numberIdx    map[uint64]int
	stringLits   []int
	stringLitIdx map[int]int
	functions    []*bytecode.Module
	handlers     []bytecode.ExceptionHandler
	lines        []bytecode.LineEntry

	labels     []*label
	targets    []*target
	frames     []*frame
	stackDepth int
	scopeDepth int
}

func newCode(parent *code, name string) *code {
	return &code{
		parent:       parent,
		name:         name,
		numberIdx:    map[uint64]int{},
		stringLitIdx: map[int]int{},
	}
}

func (c *Compiler) pc() int {
	return len(c.current.buf)
}

func (c *Compiler) emit(ops ...op.Code) {
	for _, o := range ops {
		c.current.buf = append(c.current.buf, byte(o))
	}
}

// emitX emits an extended opcode, using a one byte immediate when the
// operand fits.
func (c *Compiler) emitX(x op.XCode, operand int) {
	signed := op.GetXInfo(x).Operand.Signed()
	var narrow bool
	if signed {
		if operand < math.MinInt16 || operand > math.MaxInt16 {
			panic(fmt.Sprintf("compiler: %s operand %d out of range", x, operand))
		}
		narrow = operand >= math.MinInt8 && operand <= math.MaxInt8
	} else {
		if operand < 0 || operand > bytecode.MaxU16 {
			panic(fmt.Sprintf("compiler: %s operand %d out of range", x, operand))
		}
		narrow = operand <= math.MaxUint8
	}
	code := c.current
	if narrow {
		code.buf = append(code.buf, op.ExtendedByte(x, false), byte(operand))
		return
	}
	code.buf = append(code.buf, op.ExtendedByte(x, true), byte(uint16(operand)>>8), byte(operand))
}

func (c *Compiler) newLabel() *label {
	l := &label{pos: -1}
	c.current.labels = append(c.current.labels, l)
	return l
}

// emitJump emits a wide jump to l. Backward jumps are resolved at once.
func (c *Compiler) emitJump(x op.XCode, l *label) {
	code := c.current
	at := len(code.buf)
	code.buf = append(code.buf, op.ExtendedByte(x, true), byte(Placeholder>>8), byte(Placeholder&0xff))
	ref := jumpRef{at: at, pos: c.pos}
	if l.pos >= 0 {
		c.patch(ref, l.pos)
		return
	}
	l.refs = append(l.refs, ref)
}

// mark binds l to the current pc and backpatches pending jumps.
func (c *Compiler) mark(l *label) {
	if l.pos >= 0 {
		panic("compiler: label marked twice")
	}
	l.pos = c.pc()
	for _, ref := range l.refs {
		c.patch(ref, l.pos)
	}
	l.refs = nil
}

func (c *Compiler) patch(ref jumpRef, dest int) {
	delta := dest - (ref.at + 3)
	if delta < math.MinInt16 || delta > math.MaxInt16 {
		c.fail(errors.E2011, ref.pos, nil, "jump of %d bytes exceeds the 16-bit offset range", delta)
		return
	}
	buf := c.current.buf
	buf[ref.at+1] = byte(uint16(delta) >> 8)
	buf[ref.at+2] = byte(uint16(delta))
}

// recordLine adds a line table entry for a statement starting at the
// current pc. An entry at the same pc is replaced and a repeated line is
// skipped, which keeps pcs strictly increasing. Lines past the 16-bit
// range of the line table get no entry.
func (c *Compiler) recordLine(line int) {
	if !c.lineNumbers || line <= 0 || line > bytecode.MaxU16 {
		return
	}
	code := c.current
	pc := len(code.buf)
	n := len(code.lines)
	if n > 0 && code.lines[n-1].PC == pc {
		code.lines = code.lines[:n-1]
		n--
	}
	if n > 0 && code.lines[n-1].Line == line {
		return
	}
	code.lines = append(code.lines, bytecode.LineEntry{PC: pc, Line: line})
}

// stringIndex returns the index of s in the global string table.
func (c *Compiler) stringIndex(s string) int {
	if idx, ok := c.stringIdx[s]; ok {
		return idx
	}
	if n := bytecode.EncodedLen(s); n > bytecode.MaxU16 {
		c.fail(errors.E2012, c.pos, nil, "string constant of %d bytes exceeds the limit of %d", n, bytecode.MaxU16)
		return 0
	}
	if len(c.strings) >= bytecode.MaxU16 {
		c.fail(errors.E2008, c.pos, nil, "too many strings (limit %d)", bytecode.MaxU16)
		return 0
	}
	idx := len(c.strings)
	c.strings = append(c.strings, s)
	c.stringIdx[s] = idx
	return idx
}

// stringLit returns the index of s in the string literal table of the
// current function.
func (c *Compiler) stringLit(s string) int {
	global := c.stringIndex(s)
	code := c.current
	if idx, ok := code.stringLitIdx[global]; ok {
		return idx
	}
	if len(code.stringLits) >= bytecode.MaxU16 {
		c.fail(errors.E2008, c.pos, nil, "too many string literals (limit %d)", bytecode.MaxU16)
		return 0
	}
	idx := len(code.stringLits)
	code.stringLits = append(code.stringLits, global)
	code.stringLitIdx[global] = idx
	return idx
}

// number returns the index of v in the number table of the current
// function. Values are compared by bit pattern, so 0 and -0 differ.
func (c *Compiler) number(v float64) int {
	code := c.current
	bits := math.Float64bits(v)
	if idx, ok := code.numberIdx[bits]; ok {
		return idx
	}
	if len(code.numbers) >= bytecode.MaxU16 {
		c.fail(errors.E2008, c.pos, nil, "too many number constants (limit %d)", bytecode.MaxU16)
		return 0
	}
	idx := len(code.numbers)
	code.numbers = append(code.numbers, v)
	code.numberIdx[bits] = idx
	return idx
}

func (c *Compiler) addFunction(m *bytecode.Module) int {
	code := c.current
	if len(code.functions) >= bytecode.MaxU16 {
		c.fail(errors.E2008, c.pos, nil, "too many function literals (limit %d)", bytecode.MaxU16)
		return 0
	}
	code.functions = append(code.functions, m)
	return len(code.functions) - 1
}

// toModule finishes the current code block and converts it to a module.
// The root module also carries the global string table.
func (c *Compiler) toModule(comment string, root bool) *bytecode.Module {
	code := c.current
	c.emit(op.PushUndef, op.Ret)
	for _, l := range code.labels {
		if l.pos < 0 && len(l.refs) > 0 {
			panic("compiler: unresolved label")
		}
	}
	if len(code.buf) > bytecode.MaxU16 {
		c.fail(errors.E2011, c.pos, nil, "code block of %d bytes exceeds the limit of %d", len(code.buf), bytecode.MaxU16)
	}
	var (
		localNames []int
		numLocals  int
		flags      bytecode.Flags
	)
	if code.symbols != nil {
		for _, name := range code.symbols.Names() {
			localNames = append(localNames, c.stringIndex(name))
		}
		numLocals = len(localNames)
	}
	if code.fast {
		flags |= bytecode.FastLocals
	}
	if len(code.handlers) > bytecode.MaxU16 {
		c.fail(errors.E2008, c.pos, nil, "too many exception handlers (limit %d)", bytecode.MaxU16)
	}
	var strs []string
	if root {
		strs = c.strings
	}
	return bytecode.NewModule(bytecode.ModuleParams{
		Comment:    comment,
		Strings:    strs,
		Numbers:    code.numbers,
		StringLits: code.stringLits,
		Functions:  code.functions,
		LocalNames: localNames,
		Handlers:   code.handlers,
		NumLocals:  numLocals,
		NumParams:  code.numParams,
		Flags:      flags,
		Code:       code.buf,
		Lines:      code.lines,
	})
}
