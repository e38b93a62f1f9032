package ast

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudcmds/minijoe/internal/token"
)

func ident(name string) *Ident {
	return &Ident{Name: name}
}

func num(lit string, v float64) *Number {
	return &Number{Literal: lit, Kind: token.DECIMAL, Value: v}
}

func TestString(t *testing.T) {
	program := &Program{
		Stmts: []Stmt{
			&Var{Decls: []*VarDecl{
				{Name: ident("a"), Value: num("1", 1)},
				{Name: ident("b")},
			}},
			&ExprStmt{X: &Infix{
				X:  ident("foo"),
				Op: "+",
				Y:  &Infix{X: ident("bar"), Op: "*", Y: num("2", 2)},
			}},
			&ExprStmt{X: &Call{
				Fun:  &Property{X: ident("o"), Key: &String{Value: "m"}},
				Args: []Expr{&Null{}, &Bool{Value: true}},
			}},
			&ExprStmt{X: &New{Ctor: ident("Object")}},
			&If{
				Cond: &Prefix{Op: "!", X: ident("x")},
				Then: &Block{Stmts: []Stmt{&Return{}}},
				Else: &Empty{},
			},
		},
	}
	require.Equal(t, `var a = 1, b;
(foo + (bar * 2));
o["m"](null, true);
new Object();
if ((!x)) { return; } else ;`, program.String())
}

func TestStatementStrings(t *testing.T) {
	tests := []struct {
		node Node
		want string
	}{
		{&Break{Label: ident("outer")}, "break outer;"},
		{&Continue{}, "continue;"},
		{&Throw{Value: &String{Value: "boom"}}, `throw "boom";`},
		{&DoWhile{Body: &Block{}, Cond: &Bool{}}, "do {} while (false);"},
		{&While{Cond: &This{}, Body: &Empty{}}, "while (this) ;"},
		{&For{InitVar: &Var{Decls: []*VarDecl{{Name: ident("i"), Value: num("0", 0)}}},
			Cond: &Infix{X: ident("i"), Op: "<", Y: num("3", 3)},
			Post: &Increment{Op: "++", X: ident("i")},
			Body: &Block{}}, "for (var i = 0; (i < 3); (i++)) {}"},
		{&For{Body: &Empty{}}, "for (; ; ) ;"},
		{&ForIn{Decl: &VarDecl{Name: ident("k")}, Object: ident("o"), Body: &Block{}}, "for (var k in o) {}"},
		{&ForIn{Target: ident("k"), Object: ident("o"), Body: &Empty{}}, "for (k in o) ;"},
		{&Try{Body: &Block{}, CatchIdent: ident("e"), CatchBlock: &Block{}, FinallyBlock: &Block{}},
			"try {} catch (e) {} finally {}"},
		{&Switch{Value: ident("x"), Cases: []*Case{
			{Expr: num("1", 1), Body: []Stmt{&Break{}}},
			{Default: true},
		}}, "switch (x) { case 1: break; default: }"},
		{&With{Object: ident("o"), Body: &Empty{}}, "with (o) ;"},
		{&Labelled{Label: ident("l"), Stmt: &Empty{}}, "l: ;"},
		{&FuncDecl{Func: &FuncLit{Name: ident("f"), Params: []*Ident{ident("a"), ident("b")}, Body: &Block{}}},
			"function f(a, b) {}"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.node.String())
	}
}

func TestExpressionStrings(t *testing.T) {
	tests := []struct {
		node Expr
		want string
	}{
		{&Assign{Target: ident("x"), Value: num("1", 1)}, "(x = 1)"},
		{&CompoundAssign{Target: ident("x"), Op: ">>>", Value: num("1", 1)}, "(x >>>= 1)"},
		{&Prefix{Op: "typeof", X: ident("x")}, "(typeof x)"},
		{&Increment{Op: "--", Prefix: true, X: ident("x")}, "(--x)"},
		{&Logical{X: ident("a"), Op: "||", Y: ident("b")}, "(a || b)"},
		{&Conditional{Cond: ident("a"), Then: ident("b"), Else: ident("c")}, "(a ? b : c)"},
		{&Infix{X: ident("a"), Op: ",", Y: ident("b")}, "(a, b)"},
		{&ArrayLit{Items: []Expr{num("1", 1), nil, num("2", 2)}}, "[1, , 2]"},
		{&ObjectLit{Props: []*Prop{{Key: "a", Value: num("1", 1)}}}, `{"a": 1}`},
		{&FuncLit{Body: &Block{Stmts: []Stmt{&Return{Value: ident("x")}}}}, "function() { return x; }"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.node.String())
	}
}

func TestPositions(t *testing.T) {
	pos := token.Position{Line: 4, Column: 2}
	x := &Ident{NamePos: pos, Name: "x"}
	require.Equal(t, pos, (&ExprStmt{X: x}).Pos())
	require.Equal(t, pos, (&Increment{Op: "++", X: x}).Pos())
	require.Equal(t, pos, (&Labelled{Label: x, Stmt: &Empty{}}).Pos())
	require.Equal(t, 5, Line(x))
	require.Equal(t, token.NoPos, (&Program{}).Pos())
}

func TestWalk(t *testing.T) {
	program := &Program{
		Stmts: []Stmt{
			&Var{Decls: []*VarDecl{{
				Name:  ident("x"),
				Value: &Infix{X: num("1", 1), Op: "+", Y: num("2", 2)},
			}}},
			&FuncDecl{Func: &FuncLit{
				Name: ident("f"),
				Body: &Block{Stmts: []Stmt{&ExprStmt{X: ident("y")}}},
			}},
		},
	}

	var visited []string
	Inspect(program, func(n Node) bool {
		switch node := n.(type) {
		case *Program:
			visited = append(visited, "Program")
		case *Var:
			visited = append(visited, "Var")
		case *Infix:
			visited = append(visited, "Infix:"+node.Op)
		case *Number:
			visited = append(visited, "Number")
		case *Ident:
			visited = append(visited, "Ident:"+node.Name)
		case *FuncLit:
			visited = append(visited, "FuncLit")
		}
		return true
	})
	require.Equal(t, []string{
		"Program", "Var", "Ident:x", "Infix:+", "Number", "Number",
		"FuncLit", "Ident:f", "Ident:y",
	}, visited)
}

func TestInspectPrunes(t *testing.T) {
	program := &Program{
		Stmts: []Stmt{
			&ExprStmt{X: &FuncLit{Body: &Block{Stmts: []Stmt{&ExprStmt{X: ident("inner")}}}}},
			&ExprStmt{X: ident("outer")},
		},
	}
	var names []string
	Inspect(program, func(n Node) bool {
		if id, ok := n.(*Ident); ok {
			names = append(names, id.Name)
		}
		_, isFunc := n.(*FuncLit)
		return !isFunc
	})
	require.Equal(t, []string{"outer"}, names)
}
