// Package dis supports analysis of MiniJoe modules by disassembling them.
// This works with the opcodes defined in the `op` package and uses the
// InstructionIter type from the `bytecode` package.
package dis

import (
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/cloudcmds/minijoe/bytecode"
	"github.com/cloudcmds/minijoe/internal/table"
	"github.com/cloudcmds/minijoe/op"
)

// Instruction represents a single bytecode instruction and its operand.
type Instruction struct {
	Offset     int
	Name       string
	HasOperand bool
	Operand    int
	Annotation string
	// Constant is the float64, string or *bytecode.Module the operand
	// refers to, if any.
	Constant any
}

// Disassemble returns a parsed representation of the code of the given
// module. Nested function modules are not included.
func Disassemble(m *bytecode.Module) ([]Instruction, error) {
	var instructions []Instruction
	iter := bytecode.NewInstructionIter(m)
	for {
		instr, ok := iter.Next()
		if !ok {
			break
		}
		out := Instruction{
			Offset:     instr.PC,
			Name:       instr.Name(),
			HasOperand: instr.Extended,
			Operand:    instr.Operand,
		}
		if instr.Extended {
			if err := annotate(m, instr, &out); err != nil {
				return nil, err
			}
		}
		instructions = append(instructions, out)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return instructions, nil
}

func annotate(m *bytecode.Module, instr bytecode.Instruction, out *Instruction) error {
	n := instr.Operand
	switch instr.Info().Operand {
	case op.NumberIndex:
		if n >= m.NumberCount() {
			return fmt.Errorf("number index out of range: %d", n)
		}
		out.Constant = m.NumberAt(n)
		out.Annotation = FormatNumber(m.NumberAt(n))
	case op.StringIndex:
		if n >= m.StringLitCount() {
			return fmt.Errorf("string literal index out of range: %d", n)
		}
		if instr.XCode == op.PushStr {
			out.Constant = m.StringLit(n)
		}
		out.Annotation = m.StringLit(n)
	case op.FunctionIndex:
		if n >= m.FunctionCount() {
			return fmt.Errorf("function index out of range: %d", n)
		}
		out.Constant = m.FunctionAt(n)
	case op.LocalIndex:
		if n >= m.NumLocals() {
			return fmt.Errorf("local variable index out of range: %d", n)
		}
		if name := m.LocalName(n); name != "" {
			out.Annotation = name
		} else {
			out.Annotation = fmt.Sprintf("local_%d", n)
		}
	case op.JumpOffset:
		out.Annotation = fmt.Sprintf("-> %d", instr.Target())
	}
	return nil
}

// FormatNumber renders a number table entry the way it is written in
// source, where possible.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// paint colors s unless color output is disabled globally.
func paint(c color.Attribute, s string) string {
	if color.NoColor || s == "" {
		return s
	}
	p := color.New(c)
	p.EnableColor()
	return p.Sprint(s)
}

func functionName(m *bytecode.Module) string {
	if name := m.Comment(); name != "" {
		return name
	}
	return paint(color.Italic, "<anonymous>")
}

// truncate shortens s to at most n runes, ending in "..." when cut.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// Print a string representation of the given instructions to the given writer.
func Print(instructions []Instruction, writer io.Writer) error {
	var lines [][]string
	for _, instr := range instructions {
		values := []string{
			strconv.Itoa(instr.Offset),
			paint(color.Bold, instr.Name),
			"",
		}
		if instr.HasOperand {
			values[2] = strconv.Itoa(instr.Operand)
		}
		switch c := instr.Constant.(type) {
		case float64:
			values = append(values, paint(color.FgYellow, FormatNumber(c)))
		case string:
			c = truncate(c, 80)
			values = append(values, paint(color.FgGreen, strconv.Quote(c)))
		case *bytecode.Module:
			values = append(values, paint(color.FgMagenta, "func:"+functionName(c)))
		default:
			values = append(values, paint(color.FgHiCyan, instr.Annotation))
		}
		lines = append(lines, values)
	}

	return table.NewTable(writer).
		WithHeader([]string{"OFFSET", "OPCODE", "OPERANDS", "INFO"}).
		WithColumnAlignment([]table.Alignment{
			table.AlignRight,
			table.AlignLeft,
			table.AlignRight,
			table.AlignLeft,
		}).
		WithHeaderAlignment([]table.Alignment{
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
		}).
		WithRows(lines).
		Render()
}
