package bytecode

import "sort"

// Flags are the code block flags of a module.
type Flags uint8

// FastLocals marks a module whose locals are addressed by slot with
// GET_LOCAL and SET_LOCAL rather than by name.
const FastLocals Flags = 1 << 0

// Module represents a compiled program or function body. It is immutable
// after creation and safe for concurrent use.
type Module struct {
	comment string
	parent  *Module // nil for the outermost module

	strings    []string // global string table, outermost module only
	numbers    []float64
	stringLits []int
	regexLits  []int
	functions  []*Module
	localNames []int
	handlers   []ExceptionHandler

	numLocals int
	numParams int
	flags     Flags
	code      []byte
	lines     []LineEntry
}

// ModuleParams contains parameters for creating a new Module.
type ModuleParams struct {
	Comment string

	// Strings is the global string table. Only the outermost module has
	// one; nested modules resolve their indices against it.
	Strings []string

	Numbers    []float64
	StringLits []int // indices into the global string table
	RegexLits  []int // indices into the global string table
	Functions  []*Module
	LocalNames []int // indices into the global string table
	Handlers   []ExceptionHandler

	NumLocals int
	NumParams int
	Flags     Flags
	Code      []byte
	Lines     []LineEntry
}

// NewModule creates a new immutable Module from the given parameters.
// Input slices are copied. Function modules passed in become children of
// the new module and must not already have a parent.
func NewModule(params ModuleParams) *Module {
	m := &Module{
		comment:    params.Comment,
		strings:    copySlice(params.Strings),
		numbers:    copySlice(params.Numbers),
		stringLits: copySlice(params.StringLits),
		regexLits:  copySlice(params.RegexLits),
		functions:  copySlice(params.Functions),
		localNames: copySlice(params.LocalNames),
		handlers:   copySlice(params.Handlers),
		numLocals:  params.NumLocals,
		numParams:  params.NumParams,
		flags:      params.Flags,
		code:       copySlice(params.Code),
		lines:      copySlice(params.Lines),
	}
	for _, child := range m.functions {
		child.parent = m
	}
	return m
}

// Comment returns the informational comment of this module.
func (m *Module) Comment() string {
	return m.comment
}

// Parent returns the enclosing module, or nil for the outermost module.
func (m *Module) Parent() *Module {
	return m.parent
}

func (m *Module) root() *Module {
	r := m
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// StringCount returns the size of the global string table.
func (m *Module) StringCount() int {
	return len(m.root().strings)
}

// StringAt returns the global string at the given index, or an empty string
// if the index is out of range.
func (m *Module) StringAt(index int) string {
	strs := m.root().strings
	if index < 0 || index >= len(strs) {
		return ""
	}
	return strs[index]
}

// NumberCount returns the number of number table entries.
func (m *Module) NumberCount() int {
	return len(m.numbers)
}

// NumberAt returns the number at the given index.
func (m *Module) NumberAt(index int) float64 {
	return m.numbers[index]
}

// StringLitCount returns the number of string literal table entries.
func (m *Module) StringLitCount() int {
	return len(m.stringLits)
}

// StringLitIndex returns the global string index of the given string
// literal.
func (m *Module) StringLitIndex(index int) int {
	return m.stringLits[index]
}

// StringLit returns the text of the given string literal.
func (m *Module) StringLit(index int) string {
	return m.StringAt(m.stringLits[index])
}

// RegexLitCount returns the number of regex literal table entries.
func (m *Module) RegexLitCount() int {
	return len(m.regexLits)
}

// RegexLitIndex returns the global string index of the given regex literal.
func (m *Module) RegexLitIndex(index int) int {
	return m.regexLits[index]
}

// RegexLit returns the source text of the given regex literal.
func (m *Module) RegexLit(index int) string {
	return m.StringAt(m.regexLits[index])
}

// FunctionCount returns the number of nested function modules.
func (m *Module) FunctionCount() int {
	return len(m.functions)
}

// FunctionAt returns the nested function module at the given index.
func (m *Module) FunctionAt(index int) *Module {
	return m.functions[index]
}

// LocalNameCount returns the number of local name table entries.
func (m *Module) LocalNameCount() int {
	return len(m.localNames)
}

// LocalNameIndex returns the global string index of the given local name.
func (m *Module) LocalNameIndex(index int) int {
	return m.localNames[index]
}

// LocalName returns the name of the local in the given slot, or an empty
// string if the slot has no name.
func (m *Module) LocalName(slot int) string {
	if slot < 0 || slot >= len(m.localNames) {
		return ""
	}
	return m.StringAt(m.localNames[slot])
}

// HandlerCount returns the number of exception table entries.
func (m *Module) HandlerCount() int {
	return len(m.handlers)
}

// HandlerAt returns the exception table entry at the given index.
func (m *Module) HandlerAt(index int) ExceptionHandler {
	return m.handlers[index]
}

// HandlerFor returns the innermost handler protecting pc.
func (m *Module) HandlerFor(pc int) (ExceptionHandler, bool) {
	for _, h := range m.handlers {
		if h.Contains(pc) {
			return h, true
		}
	}
	return ExceptionHandler{}, false
}

// NumLocals returns the number of local variables, parameters included.
func (m *Module) NumLocals() int {
	return m.numLocals
}

// NumParams returns the number of declared parameters.
func (m *Module) NumParams() int {
	return m.numParams
}

// Flags returns the code block flags.
func (m *Module) Flags() Flags {
	return m.flags
}

// FastLocals reports whether locals are addressed by slot.
func (m *Module) FastLocals() bool {
	return m.flags&FastLocals != 0
}

// CodeLen returns the length of the opcode stream in bytes.
func (m *Module) CodeLen() int {
	return len(m.code)
}

// ByteAt returns the opcode stream byte at the given pc.
func (m *Module) ByteAt(pc int) byte {
	return m.code[pc]
}

// Code returns a copy of the opcode stream.
func (m *Module) Code() []byte {
	return copySlice(m.code)
}

// LineCount returns the number of line table entries.
func (m *Module) LineCount() int {
	return len(m.lines)
}

// LineAt returns the line table entry at the given index.
func (m *Module) LineAt(index int) LineEntry {
	return m.lines[index]
}

// LineForPC returns the source line of the instruction at pc, or 0 if the
// module has no line information for it.
func (m *Module) LineForPC(pc int) int {
	i := sort.Search(len(m.lines), func(i int) bool { return m.lines[i].PC > pc })
	if i == 0 {
		return 0
	}
	return m.lines[i-1].Line
}

// Flatten returns this module and all nested function modules, depth
// first, in a newly allocated slice.
func (m *Module) Flatten() []*Module {
	modules := []*Module{m}
	for _, child := range m.functions {
		modules = append(modules, child.Flatten()...)
	}
	return modules
}

// Stats returns statistics about this module and its nested modules.
func (m *Module) Stats() Stats {
	stats := Stats{StringCount: m.StringCount()}
	for _, mod := range m.Flatten() {
		stats.CodeBytes += len(mod.code)
		stats.NumberCount += len(mod.numbers)
		stats.FunctionCount += len(mod.functions)
		stats.HandlerCount += len(mod.handlers)
		iter := NewInstructionIter(mod)
		for {
			if _, ok := iter.Next(); !ok {
				break
			}
			stats.InstructionCount++
		}
	}
	return stats
}
