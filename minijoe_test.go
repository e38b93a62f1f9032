package minijoe

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/cloudcmds/minijoe/bytecode"
	"github.com/cloudcmds/minijoe/errors"
	"github.com/cloudcmds/minijoe/op"
	"github.com/cloudcmds/minijoe/parser"
)

var programs = []string{
	`x = 1;`,
	`function fib(n) { return n < 2 ? n : fib(n - 1) + fib(n - 2); } fib(10);`,
	`var o = {a: "x", "b c": [1, 2.5, , "y"], 3: null};
for (var k in o) { if (typeof o[k] == "string") continue; delete o[k]; }`,
	`outer: for (var i = 0; i < 10; i++) {
  for (var j = 0; j < i; j++) { if (j == 3) continue outer; if (i * j > 20) break outer; }
}`,
	`function f(a) {
  try { if (a) throw new Error("x"); return 1; }
  catch (e) { return e.message; }
  finally { a = void 0; }
}`,
	`switch (x) { case "a": y = 1; break; case "b": default: y = 2; }`,
	`with (Math) { r = max(1, 2) >>> 0; }`,
	`var s = "caf\u00e9 \ud83d\ude00"; s.length; s += 'x'; s = s + -1e300 * 1e300;`,
	`do { n--; } while (n > 0 && !(n % 7 === 0) || n instanceof Object)`,
	`var g = function h(n) { return n ? h(n - 1) : this; }; new g(3);`,
}

func TestCompileRoundTrip(t *testing.T) {
	for _, src := range programs {
		data, err := Compile(src)
		require.NoError(t, err, src)

		m, err := bytecode.Decode(data)
		require.NoError(t, err)
		require.NoError(t, bytecode.Validate(m))

		for _, mod := range m.Flatten() {
			instrs, err := bytecode.NewInstructionIter(mod).All()
			require.NoError(t, err)
			for _, instr := range instrs {
				_, ok := op.Lookup(instr.Name())
				require.True(t, ok, "unknown mnemonic %s", instr.Name())
				if !instr.Extended {
					continue
				}
				switch instr.XCode {
				case op.PushStr:
					require.Less(t, instr.Operand, mod.StringLitCount())
				case op.PushNum:
					require.Less(t, instr.Operand, mod.NumberCount())
				}
			}
		}

		again, err := bytecode.Encode(m)
		require.NoError(t, err)
		require.Equal(t, data, again)
	}
}

func TestCompileDeterministic(t *testing.T) {
	for _, src := range programs {
		first, err := Compile(src, WithComment("build"))
		require.NoError(t, err)
		second, err := Compile(src, WithComment("build"))
		require.NoError(t, err)
		require.Equal(t, first, second)
	}
}

func TestCompileAST(t *testing.T) {
	program, err := Parse("var a = [1, 2]; a[0] = a.length;")
	require.NoError(t, err)
	fromAST, err := CompileAST(program)
	require.NoError(t, err)
	fromSource, err := Compile("var a = [1, 2]; a[0] = a.length;")
	require.NoError(t, err)
	require.Equal(t, fromSource, fromAST)
}

func TestOptions(t *testing.T) {
	src := "function f(a) { var b = a; return b; }"
	m, err := CompileModule(src)
	require.NoError(t, err)
	require.True(t, m.FunctionAt(0).FastLocals())
	require.Equal(t, 1, m.FunctionAt(0).LineCount())

	m, err = CompileModule(src, WithFastLocals(false), WithLineNumbers(false), WithComment("c"))
	require.NoError(t, err)
	require.False(t, m.FunctionAt(0).FastLocals())
	require.Equal(t, 0, m.FunctionAt(0).LineCount())
	require.Equal(t, "c", m.Comment())

	cfg := DefaultConfig()
	cfg.LineNumbers = false
	m, err = CompileModule(src, WithConfig(cfg))
	require.NoError(t, err)
	require.Equal(t, 0, m.FunctionAt(0).LineCount())
	m, err = CompileModule(src, WithConfig(cfg), WithLineNumbers(true))
	require.NoError(t, err)
	require.Equal(t, 1, m.FunctionAt(0).LineCount())
}

func TestMaxDepth(t *testing.T) {
	src := strings.Repeat("(", 50) + "1" + strings.Repeat(")", 50) + ";"
	_, err := Compile(src)
	require.NoError(t, err)
	_, err = Compile(src, WithMaxDepth(10))
	require.Error(t, err)
	var parseErr *parser.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, errors.E1009, parseErr.Code())
}

func TestCompileLongSource(t *testing.T) {
	src := strings.Repeat("\n", 70000) + "x = 1;"
	data, err := Compile(src)
	require.NoError(t, err)
	m, err := bytecode.Decode(data)
	require.NoError(t, err)
	require.Equal(t, 0, m.LineCount())
	require.Equal(t, "x", m.StringLit(0))
}

func TestErrorsCarryFilename(t *testing.T) {
	_, err := Compile("x = 1;\nbreak;", WithFilename("app.js"))
	require.Error(t, err)
	var compileErr *errors.CompileError
	require.ErrorAs(t, err, &compileErr)
	require.Equal(t, "app.js", compileErr.Filename)
	require.Equal(t, 2, compileErr.Line)
	require.Equal(t, "break;", compileErr.SourceLine)
	require.Equal(t, 2, compileErr.LineNumber())

	_, err = Compile("x = ;", WithFilename("app.js"))
	require.Error(t, err)
	var parseErr *parser.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Contains(t, parseErr.Error(), "app.js:1")
}

func TestDebugDumps(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	_, err := Compile("x = 1;",
		WithLogger(logger),
		WithDebugDumpSource(true),
		WithDebugDumpTree(true),
		WithDebugDumpBytecode(true))
	require.NoError(t, err)
	out := buf.String()
	require.Contains(t, out, `"message":"source"`)
	require.Contains(t, out, `"source":"x = 1;"`)
	require.Contains(t, out, `"message":"tree"`)
	require.Contains(t, out, `"message":"bytecode"`)
	require.Contains(t, out, "SET_VAR")
	require.Contains(t, out, `"message":"compiled program"`)

	buf.Reset()
	_, err = Compile("x = 1;", WithLogger(logger))
	require.NoError(t, err)
	require.NotContains(t, buf.String(), `"message":"source"`)
}

func TestDisassemble(t *testing.T) {
	color.NoColor = true
	data, err := Compile("function sq(x) { return x * x; }")
	require.NoError(t, err)
	text, err := Disassemble(data)
	require.NoError(t, err)
	require.Contains(t, text, "main.0 sq")
	require.Contains(t, text, "MUL")

	_, err = Disassemble([]byte("not a module"))
	require.ErrorIs(t, err, bytecode.ErrInvalidMagic)
}
