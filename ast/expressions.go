package ast

import (
	"strings"

	"github.com/cloudcmds/minijoe/internal/token"
)

// Ident is an expression node that refers to a variable by name.
type Ident struct {
	NamePos token.Position // position of identifier
	Name    string         // identifier name
}

func (x *Ident) exprNode() {}

func (x *Ident) Pos() token.Position { return x.NamePos }

func (x *Ident) String() string { return x.Name }

// Assign stores Value into Target, which is an Ident or a Property.
type Assign struct {
	Target Expr
	EqPos  token.Position
	Value  Expr
}

func (x *Assign) exprNode() {}

func (x *Assign) Pos() token.Position { return x.Target.Pos() }

func (x *Assign) String() string {
	return "(" + x.Target.String() + " = " + x.Value.String() + ")"
}

// CompoundAssign is an assignment such as "x += 1". Op holds the binary
// operator without the trailing "=".
type CompoundAssign struct {
	Target Expr
	OpPos  token.Position
	Op     string
	Value  Expr
}

func (x *CompoundAssign) exprNode() {}

func (x *CompoundAssign) Pos() token.Position { return x.Target.Pos() }

func (x *CompoundAssign) String() string {
	return "(" + x.Target.String() + " " + x.Op + "= " + x.Value.String() + ")"
}

// Prefix is an operator expression where the operator precedes the operand.
// Op is one of "-", "+", "!", "~", "typeof", "void" or "delete".
type Prefix struct {
	OpPos token.Position // position of operator
	Op    string
	X     Expr // operand
}

func (x *Prefix) exprNode() {}

func (x *Prefix) Pos() token.Position { return x.OpPos }

func (x *Prefix) String() string {
	switch x.Op {
	case "typeof", "void", "delete":
		return "(" + x.Op + " " + x.X.String() + ")"
	}
	return "(" + x.Op + x.X.String() + ")"
}

// Infix is a binary operator expression. The comma operator is represented
// as an Infix with Op ",".
type Infix struct {
	X     Expr           // left operand
	OpPos token.Position // position of operator
	Op    string
	Y     Expr // right operand
}

func (x *Infix) exprNode() {}

func (x *Infix) Pos() token.Position { return x.X.Pos() }

func (x *Infix) String() string {
	if x.Op == "," {
		return "(" + x.X.String() + ", " + x.Y.String() + ")"
	}
	return "(" + x.X.String() + " " + x.Op + " " + x.Y.String() + ")"
}

// Logical is a short-circuit "&&" or "||" expression.
type Logical struct {
	X     Expr
	OpPos token.Position
	Op    string
	Y     Expr
}

func (x *Logical) exprNode() {}

func (x *Logical) Pos() token.Position { return x.X.Pos() }

func (x *Logical) String() string {
	return "(" + x.X.String() + " " + x.Op + " " + x.Y.String() + ")"
}

// Increment is a "++" or "--" applied before or after its operand.
type Increment struct {
	OpPos  token.Position
	Op     string
	Prefix bool
	X      Expr
}

func (x *Increment) exprNode() {}

func (x *Increment) Pos() token.Position {
	if x.Prefix {
		return x.OpPos
	}
	return x.X.Pos()
}

func (x *Increment) String() string {
	if x.Prefix {
		return "(" + x.Op + x.X.String() + ")"
	}
	return "(" + x.X.String() + x.Op + ")"
}

// Conditional is the ternary "cond ? then : else" expression.
type Conditional struct {
	Cond     Expr
	Question token.Position
	Then     Expr
	Else     Expr
}

func (x *Conditional) exprNode() {}

func (x *Conditional) Pos() token.Position { return x.Cond.Pos() }

func (x *Conditional) String() string {
	return "(" + x.Cond.String() + " ? " + x.Then.String() + " : " + x.Else.String() + ")"
}

// Property accesses a property of X. Dotted access "x.name" is represented
// with a String key.
type Property struct {
	X      Expr
	Lbrack token.Position
	Key    Expr
}

func (x *Property) exprNode() {}

func (x *Property) Pos() token.Position { return x.X.Pos() }

func (x *Property) String() string {
	return x.X.String() + "[" + x.Key.String() + "]"
}

// Call invokes Fun with Args.
type Call struct {
	Fun    Expr
	Lparen token.Position
	Args   []Expr
}

func (x *Call) exprNode() {}

func (x *Call) Pos() token.Position { return x.Fun.Pos() }

func (x *Call) String() string {
	return x.Fun.String() + "(" + joinExprs(x.Args) + ")"
}

// New constructs an object. Args is nil when no argument list was given.
type New struct {
	NewPos token.Position
	Ctor   Expr
	Args   []Expr
}

func (x *New) exprNode() {}

func (x *New) Pos() token.Position { return x.NewPos }

func (x *New) String() string {
	return "new " + x.Ctor.String() + "(" + joinExprs(x.Args) + ")"
}

// FuncLit is a function literal. Name is set for function declarations and
// named function expressions.
type FuncLit struct {
	FuncPos token.Position
	Name    *Ident
	Params  []*Ident
	Body    *Block
}

func (x *FuncLit) exprNode() {}

func (x *FuncLit) Pos() token.Position { return x.FuncPos }

func (x *FuncLit) String() string {
	var b strings.Builder
	b.WriteString("function")
	if x.Name != nil {
		b.WriteString(" ")
		b.WriteString(x.Name.Name)
	}
	params := make([]string, len(x.Params))
	for i, p := range x.Params {
		params[i] = p.Name
	}
	b.WriteString("(")
	b.WriteString(strings.Join(params, ", "))
	b.WriteString(") ")
	b.WriteString(x.Body.String())
	return b.String()
}
