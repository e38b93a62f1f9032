package bytecode

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/cloudcmds/minijoe/op"
)

// Validate checks the module and its nested function modules for table,
// operand, jump, handler and line table violations. All violations are
// reported together.
func Validate(m *Module) error {
	var result *multierror.Error
	validate(m, "main", &result)
	return result.ErrorOrNil()
}

func validate(m *Module, path string, result **multierror.Error) {
	fail := func(format string, args ...any) {
		*result = multierror.Append(*result, fmt.Errorf("%s: "+format, append([]any{path}, args...)...))
	}

	strCount := m.StringCount()
	for i, idx := range m.stringLits {
		if idx < 0 || idx >= strCount {
			fail("string literal %d: string index %d out of range (%d strings)", i, idx, strCount)
		}
	}
	for i, idx := range m.regexLits {
		if idx < 0 || idx >= strCount {
			fail("regex literal %d: string index %d out of range (%d strings)", i, idx, strCount)
		}
	}
	for i, idx := range m.localNames {
		if idx < 0 || idx >= strCount {
			fail("local name %d: string index %d out of range (%d strings)", i, idx, strCount)
		}
	}
	if m.numParams > m.numLocals {
		fail("%d parameters exceed %d locals", m.numParams, m.numLocals)
	}
	if len(m.localNames) != m.numLocals {
		fail("%d local names for %d locals", len(m.localNames), m.numLocals)
	}

	boundaries := map[int]bool{len(m.code): true}
	var jumps []Instruction
	iter := NewInstructionIter(m)
	for {
		instr, ok := iter.Next()
		if !ok {
			break
		}
		boundaries[instr.PC] = true
		info := instr.Info()
		if info.Name == "" {
			fail("pc %d: undefined opcode 0x%02X", instr.PC, instr.Opcode)
			continue
		}
		if !instr.Extended {
			continue
		}
		checkIndex := func(limit int, table string) {
			if instr.Operand < 0 || instr.Operand >= limit {
				fail("pc %d: %s index %d out of range (%d %s)", instr.PC, info.Name, instr.Operand, limit, table)
			}
		}
		switch info.Operand {
		case op.NumberIndex:
			checkIndex(len(m.numbers), "numbers")
		case op.StringIndex:
			checkIndex(len(m.stringLits), "string literals")
		case op.FunctionIndex:
			checkIndex(len(m.functions), "functions")
		case op.LocalIndex:
			if !m.FastLocals() {
				fail("pc %d: %s without slot-addressed locals", instr.PC, info.Name)
			}
			checkIndex(m.numLocals, "locals")
		case op.JumpOffset:
			jumps = append(jumps, instr)
		}
	}
	if err := iter.Err(); err != nil {
		fail("%v", err)
	}
	for _, j := range jumps {
		if target := j.Target(); !boundaries[target] {
			fail("pc %d: %s target %d is not an instruction boundary", j.PC, j.Name(), target)
		}
	}

	for i, h := range m.handlers {
		if h.Start > h.End || !boundaries[h.Start] || !boundaries[h.End] {
			fail("handler %d: invalid range [%d, %d)", i, h.Start, h.End)
		}
		if h.Handler >= len(m.code) || !boundaries[h.Handler] {
			fail("handler %d: handler pc %d is not an instruction boundary", i, h.Handler)
		}
	}

	for i, l := range m.lines {
		if l.Line <= 0 {
			fail("line entry %d: invalid line %d", i, l.Line)
		}
		if l.PC < 0 || l.PC >= len(m.code) {
			fail("line entry %d: pc %d out of range", i, l.PC)
		}
		if i > 0 && l.PC <= m.lines[i-1].PC {
			fail("line entry %d: pc %d not increasing", i, l.PC)
		}
	}

	for i, fn := range m.functions {
		validate(fn, fmt.Sprintf("%s.fn[%d]", path, i), result)
	}
}
