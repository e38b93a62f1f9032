package ast

import (
	"strings"

	"github.com/cloudcmds/minijoe/internal/token"
)

// Block is a brace-delimited statement list.
type Block struct {
	Lbrace token.Position
	Stmts  []Stmt
}

func (s *Block) stmtNode() {}

func (s *Block) Pos() token.Position { return s.Lbrace }

func (s *Block) String() string {
	if len(s.Stmts) == 0 {
		return "{}"
	}
	parts := make([]string, len(s.Stmts))
	for i, stmt := range s.Stmts {
		parts[i] = stmt.String()
	}
	return "{ " + strings.Join(parts, " ") + " }"
}

// If is an if statement with an optional else branch.
type If struct {
	IfPos token.Position
	Cond  Expr
	Then  Stmt
	Else  Stmt // may be nil
}

func (s *If) stmtNode() {}

func (s *If) Pos() token.Position { return s.IfPos }

func (s *If) String() string {
	out := "if (" + s.Cond.String() + ") " + s.Then.String()
	if s.Else != nil {
		out += " else " + s.Else.String()
	}
	return out
}

// While is a pre-tested loop.
type While struct {
	WhilePos token.Position
	Cond     Expr
	Body     Stmt
}

func (s *While) stmtNode() {}

func (s *While) Pos() token.Position { return s.WhilePos }

func (s *While) String() string {
	return "while (" + s.Cond.String() + ") " + s.Body.String()
}

// DoWhile is a post-tested loop.
type DoWhile struct {
	DoPos token.Position
	Body  Stmt
	Cond  Expr
}

func (s *DoWhile) stmtNode() {}

func (s *DoWhile) Pos() token.Position { return s.DoPos }

func (s *DoWhile) String() string {
	return "do " + s.Body.String() + " while (" + s.Cond.String() + ");"
}

// For is a C-style for loop. At most one of Init and InitVar is set; any of
// Cond and Post may be nil.
type For struct {
	ForPos  token.Position
	Init    Expr
	InitVar *Var
	Cond    Expr
	Post    Expr
	Body    Stmt
}

func (s *For) stmtNode() {}

func (s *For) Pos() token.Position { return s.ForPos }

func (s *For) String() string {
	var b strings.Builder
	b.WriteString("for (")
	switch {
	case s.InitVar != nil:
		b.WriteString(strings.TrimSuffix(s.InitVar.String(), ";"))
	case s.Init != nil:
		b.WriteString(s.Init.String())
	}
	b.WriteString("; ")
	if s.Cond != nil {
		b.WriteString(s.Cond.String())
	}
	b.WriteString("; ")
	if s.Post != nil {
		b.WriteString(s.Post.String())
	}
	b.WriteString(") ")
	b.WriteString(s.Body.String())
	return b.String()
}

// ForIn enumerates the property names of Object. The loop variable is
// either declared (Decl) or an assignable expression (Target).
type ForIn struct {
	ForPos token.Position
	Decl   *VarDecl
	Target Expr
	Object Expr
	Body   Stmt
}

func (s *ForIn) stmtNode() {}

func (s *ForIn) Pos() token.Position { return s.ForPos }

func (s *ForIn) String() string {
	var target string
	if s.Decl != nil {
		target = "var " + s.Decl.String()
	} else {
		target = s.Target.String()
	}
	return "for (" + target + " in " + s.Object.String() + ") " + s.Body.String()
}

// VarDecl is one name declared by a var statement.
type VarDecl struct {
	Name  *Ident
	Value Expr // may be nil
}

func (d *VarDecl) String() string {
	if d.Value == nil {
		return d.Name.Name
	}
	return d.Name.Name + " = " + d.Value.String()
}

// Var declares one or more variables.
type Var struct {
	VarPos token.Position
	Decls  []*VarDecl
}

func (s *Var) stmtNode() {}

func (s *Var) Pos() token.Position { return s.VarPos }

func (s *Var) String() string {
	parts := make([]string, len(s.Decls))
	for i, d := range s.Decls {
		parts[i] = d.String()
	}
	return "var " + strings.Join(parts, ", ") + ";"
}

// Return exits the current function.
type Return struct {
	ReturnPos token.Position
	Value     Expr // may be nil
}

func (s *Return) stmtNode() {}

func (s *Return) Pos() token.Position { return s.ReturnPos }

func (s *Return) String() string {
	if s.Value == nil {
		return "return;"
	}
	return "return " + s.Value.String() + ";"
}

// Break exits the innermost loop or switch, or the labelled statement.
type Break struct {
	BreakPos token.Position
	Label    *Ident // may be nil
}

func (s *Break) stmtNode() {}

func (s *Break) Pos() token.Position { return s.BreakPos }

func (s *Break) String() string {
	if s.Label == nil {
		return "break;"
	}
	return "break " + s.Label.Name + ";"
}

// Continue starts the next iteration of the innermost or labelled loop.
type Continue struct {
	ContinuePos token.Position
	Label       *Ident // may be nil
}

func (s *Continue) stmtNode() {}

func (s *Continue) Pos() token.Position { return s.ContinuePos }

func (s *Continue) String() string {
	if s.Label == nil {
		return "continue;"
	}
	return "continue " + s.Label.Name + ";"
}

// Throw raises an exception.
type Throw struct {
	ThrowPos token.Position
	Value    Expr
}

func (s *Throw) stmtNode() {}

func (s *Throw) Pos() token.Position { return s.ThrowPos }

func (s *Throw) String() string {
	return "throw " + s.Value.String() + ";"
}

// Try is a try statement. At least one of CatchBlock and FinallyBlock is set.
type Try struct {
	TryPos       token.Position
	Body         *Block
	CatchIdent   *Ident
	CatchBlock   *Block
	FinallyBlock *Block
}

func (s *Try) stmtNode() {}

func (s *Try) Pos() token.Position { return s.TryPos }

func (s *Try) String() string {
	out := "try " + s.Body.String()
	if s.CatchBlock != nil {
		out += " catch (" + s.CatchIdent.Name + ") " + s.CatchBlock.String()
	}
	if s.FinallyBlock != nil {
		out += " finally " + s.FinallyBlock.String()
	}
	return out
}

// Case is one clause of a switch statement. Expr is nil for the default
// clause.
type Case struct {
	CasePos token.Position
	Default bool
	Expr    Expr
	Body    []Stmt
}

func (c *Case) Pos() token.Position { return c.CasePos }

func (c *Case) String() string {
	var b strings.Builder
	if c.Default {
		b.WriteString("default:")
	} else {
		b.WriteString("case ")
		b.WriteString(c.Expr.String())
		b.WriteString(":")
	}
	for _, stmt := range c.Body {
		b.WriteString(" ")
		b.WriteString(stmt.String())
	}
	return b.String()
}

// Switch is a switch statement.
type Switch struct {
	SwitchPos token.Position
	Value     Expr
	Cases     []*Case
}

func (s *Switch) stmtNode() {}

func (s *Switch) Pos() token.Position { return s.SwitchPos }

func (s *Switch) String() string {
	var b strings.Builder
	b.WriteString("switch (")
	b.WriteString(s.Value.String())
	b.WriteString(") {")
	for _, c := range s.Cases {
		b.WriteString(" ")
		b.WriteString(c.String())
	}
	b.WriteString(" }")
	return b.String()
}

// With evaluates Body with Object pushed onto the scope chain.
type With struct {
	WithPos token.Position
	Object  Expr
	Body    Stmt
}

func (s *With) stmtNode() {}

func (s *With) Pos() token.Position { return s.WithPos }

func (s *With) String() string {
	return "with (" + s.Object.String() + ") " + s.Body.String()
}

// Labelled attaches a label to a statement.
type Labelled struct {
	Label *Ident
	Stmt  Stmt
}

func (s *Labelled) stmtNode() {}

func (s *Labelled) Pos() token.Position { return s.Label.NamePos }

func (s *Labelled) String() string {
	return s.Label.Name + ": " + s.Stmt.String()
}

// ExprStmt is an expression evaluated for its side effects.
type ExprStmt struct {
	X Expr
}

func (s *ExprStmt) stmtNode() {}

func (s *ExprStmt) Pos() token.Position { return s.X.Pos() }

func (s *ExprStmt) String() string { return s.X.String() + ";" }

// Empty is a lone semicolon.
type Empty struct {
	Semicolon token.Position
}

func (s *Empty) stmtNode() {}

func (s *Empty) Pos() token.Position { return s.Semicolon }

func (s *Empty) String() string { return ";" }

// FuncDecl is a function declaration statement. The function is bound to
// its name before the enclosing body runs.
type FuncDecl struct {
	Func *FuncLit
}

func (s *FuncDecl) stmtNode() {}

func (s *FuncDecl) Pos() token.Position { return s.Func.FuncPos }

func (s *FuncDecl) String() string { return s.Func.String() }
