package ast

// Visitor defines the interface for AST traversal. If Visit returns nil,
// children of the node are not visited. Otherwise, the returned Visitor
// is used to visit children.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order. It starts by calling
// v.Visit(node); if the returned visitor w is not nil, Walk is invoked
// recursively with visitor w for each of the non-nil children of node.
// Var declarations are visited through their name and value.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	case *Program:
		walkStmts(v, n.Stmts)

	// Statements
	case *Block:
		walkStmts(v, n.Stmts)
	case *If:
		Walk(v, n.Cond)
		Walk(v, n.Then)
		if n.Else != nil {
			Walk(v, n.Else)
		}
	case *While:
		Walk(v, n.Cond)
		Walk(v, n.Body)
	case *DoWhile:
		Walk(v, n.Body)
		Walk(v, n.Cond)
	case *For:
		if n.InitVar != nil {
			Walk(v, n.InitVar)
		}
		walkOptional(v, n.Init, n.Cond, n.Post)
		Walk(v, n.Body)
	case *ForIn:
		if n.Decl != nil {
			walkDecl(v, n.Decl)
		}
		walkOptional(v, n.Target)
		Walk(v, n.Object)
		Walk(v, n.Body)
	case *Var:
		for _, d := range n.Decls {
			walkDecl(v, d)
		}
	case *Return:
		walkOptional(v, n.Value)
	case *Break:
		if n.Label != nil {
			Walk(v, n.Label)
		}
	case *Continue:
		if n.Label != nil {
			Walk(v, n.Label)
		}
	case *Throw:
		Walk(v, n.Value)
	case *Try:
		Walk(v, n.Body)
		if n.CatchIdent != nil {
			Walk(v, n.CatchIdent)
		}
		if n.CatchBlock != nil {
			Walk(v, n.CatchBlock)
		}
		if n.FinallyBlock != nil {
			Walk(v, n.FinallyBlock)
		}
	case *Switch:
		Walk(v, n.Value)
		for _, c := range n.Cases {
			Walk(v, c)
		}
	case *Case:
		walkOptional(v, n.Expr)
		walkStmts(v, n.Body)
	case *With:
		Walk(v, n.Object)
		Walk(v, n.Body)
	case *Labelled:
		Walk(v, n.Label)
		Walk(v, n.Stmt)
	case *ExprStmt:
		Walk(v, n.X)
	case *FuncDecl:
		Walk(v, n.Func)

	// Expressions
	case *Assign:
		Walk(v, n.Target)
		Walk(v, n.Value)
	case *CompoundAssign:
		Walk(v, n.Target)
		Walk(v, n.Value)
	case *Prefix:
		Walk(v, n.X)
	case *Infix:
		Walk(v, n.X)
		Walk(v, n.Y)
	case *Logical:
		Walk(v, n.X)
		Walk(v, n.Y)
	case *Increment:
		Walk(v, n.X)
	case *Conditional:
		Walk(v, n.Cond)
		Walk(v, n.Then)
		Walk(v, n.Else)
	case *Property:
		Walk(v, n.X)
		Walk(v, n.Key)
	case *Call:
		Walk(v, n.Fun)
		walkOptional(v, n.Args...)
	case *New:
		Walk(v, n.Ctor)
		walkOptional(v, n.Args...)
	case *ArrayLit:
		walkOptional(v, n.Items...)
	case *ObjectLit:
		for _, p := range n.Props {
			Walk(v, p.Value)
		}
	case *FuncLit:
		if n.Name != nil {
			Walk(v, n.Name)
		}
		for _, p := range n.Params {
			Walk(v, p)
		}
		Walk(v, n.Body)

	case *Ident, *Number, *String, *Bool, *Null, *This, *Empty:
		// No children
	}
}

func walkStmts(v Visitor, stmts []Stmt) {
	for _, stmt := range stmts {
		Walk(v, stmt)
	}
}

// walkOptional walks each expression that is not nil.
func walkOptional(v Visitor, exprs ...Expr) {
	for _, e := range exprs {
		if e != nil {
			Walk(v, e)
		}
	}
}

func walkDecl(v Visitor, d *VarDecl) {
	Walk(v, d.Name)
	walkOptional(v, d.Value)
}

// Inspect traverses an AST in depth-first order. It calls f(node) for each
// node; if f returns true, Inspect invokes f recursively for each of the
// non-nil children of node.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}
