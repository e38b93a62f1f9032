package compiler

import "github.com/cloudcmds/minijoe/ast"

// DeclKind distinguishes the two kinds of hoisted declaration.
type DeclKind int

const (
	VarDecl DeclKind = iota + 1
	FuncDecl
)

func (k DeclKind) String() string {
	switch k {
	case VarDecl:
		return "var"
	case FuncDecl:
		return "function"
	default:
		return "unknown"
	}
}

// Declarations is the declaration table of one function or program body.
type Declarations struct {
	names   []string
	kinds   map[string]DeclKind
	funcs   []*ast.FuncLit
	nested  bool
	hasWith bool
}

// Hoist scans a function or program body for var declarations and function
// declarations. Blocks and other compound statements are entered; nested
// function literals are not, since they get a table of their own. Names
// are kept in the order they are first seen. A function declaration takes
// precedence over a var declaration of the same name.
func Hoist(stmts []ast.Stmt) *Declarations {
	d := &Declarations{kinds: map[string]DeclKind{}}
	for _, stmt := range stmts {
		ast.Inspect(stmt, d.visit)
	}
	return d
}

func (d *Declarations) visit(node ast.Node) bool {
	switch n := node.(type) {
	case *ast.Var:
		for _, decl := range n.Decls {
			d.declare(decl.Name.Name, VarDecl)
		}
	case *ast.ForIn:
		if n.Decl != nil {
			d.declare(n.Decl.Name.Name, VarDecl)
		}
	case *ast.FuncDecl:
		d.nested = true
		d.declare(n.Func.Name.Name, FuncDecl)
		d.funcs = append(d.funcs, n.Func)
		return false
	case *ast.FuncLit:
		d.nested = true
		return false
	case *ast.With:
		d.hasWith = true
	}
	return true
}

func (d *Declarations) declare(name string, kind DeclKind) {
	existing, ok := d.kinds[name]
	if !ok {
		d.names = append(d.names, name)
	}
	if !ok || existing == VarDecl {
		d.kinds[name] = kind
	}
}

// Names returns the declared names in first-seen order.
func (d *Declarations) Names() []string {
	return copySlice(d.names)
}

// Len returns the number of declared names.
func (d *Declarations) Len() int {
	return len(d.names)
}

// Kind returns the kind of the named declaration.
func (d *Declarations) Kind(name string) (DeclKind, bool) {
	kind, ok := d.kinds[name]
	return kind, ok
}

// Funcs returns the function declarations in source order. A name declared
// twice appears twice; the later declaration wins when the body starts.
func (d *Declarations) Funcs() []*ast.FuncLit {
	return copySlice(d.funcs)
}

// HasNestedFunctions reports whether the body contains a function literal
// or function declaration.
func (d *Declarations) HasNestedFunctions() bool {
	return d.nested
}

// HasWith reports whether the body contains a with statement.
func (d *Declarations) HasWith() bool {
	return d.hasWith
}

func copySlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
