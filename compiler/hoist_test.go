package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudcmds/minijoe/ast"
	"github.com/cloudcmds/minijoe/parser"
)

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	program, err := parser.Parse(input)
	require.NoError(t, err)
	return program
}

func TestHoist(t *testing.T) {
	program := parse(t, `
var a = 1;
function f() { var inner; }
if (x) { var b; for (var i in o) {} function h() {} }
try {} catch (e) { var c; } finally { var d; }
var a;
var f;
g = function () { var hidden; };
`)
	d := Hoist(program.Stmts)
	require.Equal(t, []string{"a", "f", "b", "i", "h", "c", "d"}, d.Names())
	require.Equal(t, 7, d.Len())

	kind, ok := d.Kind("f")
	require.True(t, ok)
	require.Equal(t, FuncDecl, kind)
	kind, ok = d.Kind("a")
	require.True(t, ok)
	require.Equal(t, VarDecl, kind)
	for _, name := range []string{"inner", "hidden", "e", "g", "x"} {
		_, ok := d.Kind(name)
		require.False(t, ok, name)
	}

	funcs := d.Funcs()
	require.Len(t, funcs, 2)
	require.Equal(t, "f", funcs[0].Name.Name)
	require.Equal(t, "h", funcs[1].Name.Name)
	require.True(t, d.HasNestedFunctions())
	require.False(t, d.HasWith())
}

func TestHoistFlags(t *testing.T) {
	d := Hoist(parse(t, "var a; with (o) { a = 1; }").Stmts)
	require.False(t, d.HasNestedFunctions())
	require.True(t, d.HasWith())

	d = Hoist(parse(t, "x = [function () {}];").Stmts)
	require.True(t, d.HasNestedFunctions())
	require.Equal(t, 0, d.Len())
	require.Empty(t, d.Funcs())
}

func TestDeclKindString(t *testing.T) {
	require.Equal(t, "var", VarDecl.String())
	require.Equal(t, "function", FuncDecl.String())
	require.Equal(t, "unknown", DeclKind(0).String())
}

func TestSymbolTable(t *testing.T) {
	table := NewSymbolTable()
	a, err := table.Insert("a")
	require.NoError(t, err)
	require.Equal(t, 0, a.Index())
	require.Equal(t, "a", a.Name())

	b, err := table.Declare("b")
	require.NoError(t, err)
	require.Equal(t, 1, b.Index())
	again, err := table.Declare("b")
	require.NoError(t, err)
	require.Same(t, b, again)

	// A repeated parameter name gets a new slot and the later one wins.
	a2, err := table.Insert("a")
	require.NoError(t, err)
	require.Equal(t, 2, a2.Index())
	s, ok := table.Resolve("a")
	require.True(t, ok)
	require.Equal(t, 2, s.Index())

	block := table.NewBlock()
	require.Same(t, table, block.Parent())
	require.Same(t, table, block.LocalTable())
	e, err := block.Insert("b")
	require.NoError(t, err)
	require.Equal(t, 3, e.Index())
	s, ok = block.Resolve("b")
	require.True(t, ok)
	require.Equal(t, 3, s.Index())
	s, ok = table.Resolve("b")
	require.True(t, ok)
	require.Equal(t, 1, s.Index())
	require.False(t, block.IsDefined("a"))
	_, ok = block.Resolve("missing")
	require.False(t, ok)

	require.Equal(t, 4, block.Count())
	require.Equal(t, []string{"a", "b", "a", "b"}, table.Names())
}
