package ast

import (
	"strconv"
	"strings"

	"github.com/cloudcmds/minijoe/internal/token"
)

// Number is a numeric literal. Literal keeps the source text and Kind the
// lexical form it was written in.
type Number struct {
	ValuePos token.Position
	Literal  string
	Kind     token.Type
	Value    float64
}

func (x *Number) exprNode() {}

func (x *Number) Pos() token.Position { return x.ValuePos }

func (x *Number) String() string { return x.Literal }

// String is a string literal holding the decoded value.
type String struct {
	ValuePos token.Position
	Value    string
}

func (x *String) exprNode() {}

func (x *String) Pos() token.Position { return x.ValuePos }

func (x *String) String() string { return strconv.Quote(x.Value) }

// Bool is a true or false literal.
type Bool struct {
	ValuePos token.Position
	Value    bool
}

func (x *Bool) exprNode() {}

func (x *Bool) Pos() token.Position { return x.ValuePos }

func (x *Bool) String() string { return strconv.FormatBool(x.Value) }

// Null is the null literal.
type Null struct {
	NullPos token.Position
}

func (x *Null) exprNode() {}

func (x *Null) Pos() token.Position { return x.NullPos }

func (x *Null) String() string { return "null" }

// This is the this keyword.
type This struct {
	ThisPos token.Position
}

func (x *This) exprNode() {}

func (x *This) Pos() token.Position { return x.ThisPos }

func (x *This) String() string { return "this" }

// ArrayLit is an array literal. Holes are represented by nil items.
type ArrayLit struct {
	Lbrack token.Position
	Items  []Expr
}

func (x *ArrayLit) exprNode() {}

func (x *ArrayLit) Pos() token.Position { return x.Lbrack }

func (x *ArrayLit) String() string {
	return "[" + joinExprs(x.Items) + "]"
}

// Prop is one "key: value" entry of an object literal. Identifier, string
// and number keys are all normalized to the property name string.
type Prop struct {
	KeyPos token.Position
	Key    string
	Value  Expr
}

// ObjectLit is an object literal.
type ObjectLit struct {
	Lbrace token.Position
	Props  []*Prop
}

func (x *ObjectLit) exprNode() {}

func (x *ObjectLit) Pos() token.Position { return x.Lbrace }

func (x *ObjectLit) String() string {
	parts := make([]string, len(x.Props))
	for i, p := range x.Props {
		parts[i] = strconv.Quote(p.Key) + ": " + p.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
