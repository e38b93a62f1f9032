package dis

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"

	"github.com/cloudcmds/minijoe/bytecode"
	"github.com/cloudcmds/minijoe/internal/table"
)

// PrintModule writes the tables and code of a module and, recursively, of
// its nested function modules. The global string table is printed once, for
// the top-level module.
func PrintModule(m *bytecode.Module, w io.Writer) error {
	p := &modulePrinter{w: w}
	p.module(m, "main", true)
	return p.err
}

// Text decodes a serialized module and returns its disassembly.
func Text(data []byte) (string, error) {
	m, err := bytecode.Decode(data)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := PrintModule(m, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type modulePrinter struct {
	w   io.Writer
	err error
}

func (p *modulePrinter) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *modulePrinter) table(title string, header []string, rows [][]string) {
	if p.err != nil || len(rows) == 0 {
		return
	}
	p.printf("%s:\n", title)
	if p.err != nil {
		return
	}
	align := make([]table.Alignment, len(header))
	align[len(align)-1] = table.AlignLeft
	for i := 0; i < len(align)-1; i++ {
		align[i] = table.AlignRight
	}
	p.err = table.NewTable(p.w).
		WithHeader(header).
		WithColumnAlignment(align).
		WithRows(rows).
		Render()
}

func (p *modulePrinter) module(m *bytecode.Module, path string, top bool) {
	name := m.Comment()
	if name == "" && !top {
		name = "<anonymous>"
	}
	p.printf("%s %s", paint(color.Bold, path), name)
	p.printf(" (params=%d locals=%d fast_locals=%t code=%d bytes)\n",
		m.NumParams(), m.NumLocals(), m.FastLocals(), m.CodeLen())

	if top {
		var rows [][]string
		for i := 0; i < m.StringCount(); i++ {
			rows = append(rows, []string{strconv.Itoa(i), strconv.Quote(m.StringAt(i))})
		}
		p.table("strings", []string{"INDEX", "VALUE"}, rows)
	}

	var rows [][]string
	for i := 0; i < m.StringLitCount(); i++ {
		rows = append(rows, []string{strconv.Itoa(i), strconv.Itoa(m.StringLitIndex(i)), strconv.Quote(m.StringLit(i))})
	}
	p.table("string literals", []string{"INDEX", "STRING", "VALUE"}, rows)

	rows = nil
	for i := 0; i < m.RegexLitCount(); i++ {
		rows = append(rows, []string{strconv.Itoa(i), strconv.Itoa(m.RegexLitIndex(i)), strconv.Quote(m.RegexLit(i))})
	}
	p.table("regex literals", []string{"INDEX", "STRING", "VALUE"}, rows)

	rows = nil
	for i := 0; i < m.NumberCount(); i++ {
		rows = append(rows, []string{strconv.Itoa(i), FormatNumber(m.NumberAt(i))})
	}
	p.table("numbers", []string{"INDEX", "VALUE"}, rows)

	rows = nil
	for i := 0; i < m.LocalNameCount(); i++ {
		rows = append(rows, []string{strconv.Itoa(i), m.LocalName(i)})
	}
	p.table("locals", []string{"SLOT", "NAME"}, rows)

	rows = nil
	for i := 0; i < m.HandlerCount(); i++ {
		h := m.HandlerAt(i)
		rows = append(rows, []string{
			strconv.Itoa(h.Start),
			strconv.Itoa(h.End),
			strconv.Itoa(h.Handler),
			strconv.Itoa(h.StackDepth),
			strconv.Itoa(h.ScopeDepth),
		})
	}
	p.table("handlers", []string{"START", "END", "HANDLER", "STACK", "SCOPE"}, rows)

	rows = nil
	for i := 0; i < m.LineCount(); i++ {
		e := m.LineAt(i)
		rows = append(rows, []string{strconv.Itoa(e.PC), strconv.Itoa(e.Line)})
	}
	p.table("lines", []string{"PC", "LINE"}, rows)

	if p.err != nil {
		return
	}
	instructions, err := Disassemble(m)
	if err != nil {
		p.err = fmt.Errorf("%s: %w", path, err)
		return
	}
	p.printf("code:\n")
	if p.err == nil {
		p.err = Print(instructions, p.w)
	}
	for i := 0; i < m.FunctionCount(); i++ {
		p.printf("\n")
		p.module(m.FunctionAt(i), fmt.Sprintf("%s.%d", path, i), false)
	}
}
