package compiler

import (
	"fmt"

	"github.com/cloudcmds/minijoe/ast"
	"github.com/cloudcmds/minijoe/errors"
	"github.com/cloudcmds/minijoe/op"
)

func (c *Compiler) compileStmts(stmts []ast.Stmt) error {
	for _, stmt := range stmts {
		if err := c.compileStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) compileStmt(stmt ast.Stmt) error {
	c.pos = stmt.Pos()
	switch stmt.(type) {
	case *ast.Block, *ast.Empty, *ast.FuncDecl, *ast.Labelled:
	default:
		c.recordLine(ast.Line(stmt))
	}

	var err error
	switch s := stmt.(type) {
	case *ast.Block:
		err = c.compileStmts(s.Stmts)
	case *ast.Empty, *ast.FuncDecl:
		// Function declarations are bound by the prologue.
	case *ast.ExprStmt:
		if err = c.compileExpr(s.X); err == nil {
			c.emit(op.Drop)
		}
	case *ast.Var:
		err = c.compileVar(s)
	case *ast.If:
		err = c.compileIf(s)
	case *ast.While:
		err = c.compileWhile(s, nil)
	case *ast.DoWhile:
		err = c.compileDoWhile(s, nil)
	case *ast.For:
		err = c.compileFor(s, nil)
	case *ast.ForIn:
		err = c.compileForIn(s, nil)
	case *ast.Switch:
		err = c.compileSwitch(s, nil)
	case *ast.Labelled:
		err = c.compileLabelled(s)
	case *ast.Return:
		err = c.compileReturn(s)
	case *ast.Break:
		err = c.compileBreak(s)
	case *ast.Continue:
		err = c.compileContinue(s)
	case *ast.Throw:
		if err = c.compileExpr(s.Value); err == nil {
			c.emit(op.Throw)
		}
	case *ast.Try:
		err = c.compileTry(s)
	case *ast.With:
		err = c.compileWith(s)
	default:
		panic(fmt.Sprintf("compiler: unknown statement type %T", stmt))
	}
	if err != nil {
		return err
	}
	return c.failure
}

func (c *Compiler) compileVar(s *ast.Var) error {
	for _, d := range s.Decls {
		if d.Value == nil {
			continue
		}
		if err := c.compileExpr(d.Value); err != nil {
			return err
		}
		c.pos = d.Name.NamePos
		c.storeName(d.Name.Name)
		c.emit(op.Drop)
	}
	return nil
}

func (c *Compiler) compileIf(s *ast.If) error {
	if err := c.compileExpr(s.Cond); err != nil {
		return err
	}
	elseLabel := c.newLabel()
	c.emitJump(op.IfFalse, elseLabel)
	if err := c.compileStmt(s.Then); err != nil {
		return err
	}
	if s.Else == nil {
		c.mark(elseLabel)
		return nil
	}
	end := c.newLabel()
	c.emitJump(op.Jump, end)
	c.mark(elseLabel)
	if err := c.compileStmt(s.Else); err != nil {
		return err
	}
	c.mark(end)
	return nil
}

func (c *Compiler) compileWhile(s *ast.While, labels []string) error {
	t := c.pushTarget(loopTarget, labels)
	defer c.popTarget()
	c.mark(t.continueTo)
	if err := c.compileExpr(s.Cond); err != nil {
		return err
	}
	c.emitJump(op.IfFalse, t.breakTo)
	if err := c.compileStmt(s.Body); err != nil {
		return err
	}
	c.emitJump(op.Jump, t.continueTo)
	c.mark(t.breakTo)
	return nil
}

func (c *Compiler) compileDoWhile(s *ast.DoWhile, labels []string) error {
	t := c.pushTarget(loopTarget, labels)
	defer c.popTarget()
	top := c.newLabel()
	c.mark(top)
	if err := c.compileStmt(s.Body); err != nil {
		return err
	}
	c.mark(t.continueTo)
	c.pos = s.Cond.Pos()
	c.recordLine(ast.Line(s.Cond))
	if err := c.compileExpr(s.Cond); err != nil {
		return err
	}
	c.emitJump(op.IfTrue, top)
	c.mark(t.breakTo)
	return nil
}

func (c *Compiler) compileFor(s *ast.For, labels []string) error {
	switch {
	case s.InitVar != nil:
		if err := c.compileVar(s.InitVar); err != nil {
			return err
		}
	case s.Init != nil:
		if err := c.compileExpr(s.Init); err != nil {
			return err
		}
		c.emit(op.Drop)
	}
	t := c.pushTarget(loopTarget, labels)
	defer c.popTarget()
	top := c.newLabel()
	c.mark(top)
	if s.Cond != nil {
		if err := c.compileExpr(s.Cond); err != nil {
			return err
		}
		c.emitJump(op.IfFalse, t.breakTo)
	}
	if err := c.compileStmt(s.Body); err != nil {
		return err
	}
	c.mark(t.continueTo)
	if s.Post != nil {
		if err := c.compileExpr(s.Post); err != nil {
			return err
		}
		c.emit(op.Drop)
	}
	c.emitJump(op.Jump, top)
	c.mark(t.breakTo)
	return nil
}

// compileForIn keeps the enumerator on the stack for the duration of the
// loop. NEXT pushes the next key or jumps to the exit, where the
// enumerator is dropped.
func (c *Compiler) compileForIn(s *ast.ForIn, labels []string) error {
	if s.Decl != nil && s.Decl.Value != nil {
		if err := c.compileExpr(s.Decl.Value); err != nil {
			return err
		}
		c.storeName(s.Decl.Name.Name)
		c.emit(op.Drop)
	}
	if err := c.compileExpr(s.Object); err != nil {
		return err
	}
	c.emit(op.Enum)
	code := c.current
	code.stackDepth++
	defer func() { code.stackDepth-- }()

	t := c.pushTarget(loopTarget, labels)
	defer c.popTarget()
	c.mark(t.continueTo)
	c.emitJump(op.Next, t.breakTo)

	var targetExpr ast.Expr = s.Target
	if s.Decl != nil {
		targetExpr = s.Decl.Name
	}
	switch target := targetExpr.(type) {
	case *ast.Ident:
		c.storeName(target.Name)
		c.emit(op.Drop)
	case *ast.Property:
		if err := c.compileExpr(target.X); err != nil {
			return err
		}
		if err := c.compileExpr(target.Key); err != nil {
			return err
		}
		c.emit(op.Rot, op.Set, op.Drop)
	default:
		panic(fmt.Sprintf("compiler: invalid for-in target %T", targetExpr))
	}

	if err := c.compileStmt(s.Body); err != nil {
		return err
	}
	c.emitJump(op.Jump, t.continueTo)
	c.mark(t.breakTo)
	c.emit(op.Drop)
	return nil
}

// compileSwitch compares the value against each case expression in source
// order. The value stays on the stack while the clause bodies run and is
// dropped at the exit.
func (c *Compiler) compileSwitch(s *ast.Switch, labels []string) error {
	if err := c.compileExpr(s.Value); err != nil {
		return err
	}
	code := c.current
	code.stackDepth++
	defer func() { code.stackDepth-- }()

	t := c.pushTarget(switchTarget, labels)
	defer c.popTarget()

	clauses := make([]*label, len(s.Cases))
	defaultIdx := -1
	for i, cs := range s.Cases {
		clauses[i] = c.newLabel()
		if cs.Default {
			defaultIdx = i
			continue
		}
		c.emit(op.Dup)
		if err := c.compileExpr(cs.Expr); err != nil {
			return err
		}
		c.emit(op.Seq)
		c.emitJump(op.IfTrue, clauses[i])
	}
	if defaultIdx >= 0 {
		c.emitJump(op.Jump, clauses[defaultIdx])
	} else {
		c.emitJump(op.Jump, t.breakTo)
	}
	for i, cs := range s.Cases {
		c.mark(clauses[i])
		if err := c.compileStmts(cs.Body); err != nil {
			return err
		}
	}
	c.mark(t.breakTo)
	c.emit(op.Drop)
	return nil
}

func (c *Compiler) compileLabelled(s *ast.Labelled) error {
	var labels []string
	var stmt ast.Stmt = s
	for {
		l, ok := stmt.(*ast.Labelled)
		if !ok {
			break
		}
		labels = append(labels, l.Label.Name)
		stmt = l.Stmt
	}
	c.pos = stmt.Pos()
	switch inner := stmt.(type) {
	case *ast.While:
		c.recordLine(ast.Line(inner))
		return c.compileWhile(inner, labels)
	case *ast.DoWhile:
		c.recordLine(ast.Line(inner))
		return c.compileDoWhile(inner, labels)
	case *ast.For:
		c.recordLine(ast.Line(inner))
		return c.compileFor(inner, labels)
	case *ast.ForIn:
		c.recordLine(ast.Line(inner))
		return c.compileForIn(inner, labels)
	case *ast.Switch:
		c.recordLine(ast.Line(inner))
		return c.compileSwitch(inner, labels)
	}
	t := c.pushTarget(blockTarget, labels)
	defer c.popTarget()
	if err := c.compileStmt(stmt); err != nil {
		return err
	}
	c.mark(t.breakTo)
	return nil
}

func (c *Compiler) compileWith(s *ast.With) error {
	if err := c.compileExpr(s.Object); err != nil {
		return err
	}
	c.emit(op.WithStart)
	code := c.current
	code.scopeDepth++
	err := c.compileStmt(s.Body)
	code.scopeDepth--
	if err != nil {
		return err
	}
	c.emit(op.WithEnd)
	return nil
}

func (c *Compiler) compileReturn(s *ast.Return) error {
	if s.Value != nil {
		if err := c.compileExpr(s.Value); err != nil {
			return err
		}
	} else {
		c.emit(op.PushUndef)
	}
	restore, err := c.unwind(0, 0, 0, true)
	if err != nil {
		return err
	}
	c.emit(op.Ret)
	restore()
	return nil
}

func (c *Compiler) compileBreak(s *ast.Break) error {
	t, err := c.breakTarget(s)
	if err != nil {
		return err
	}
	restore, err := c.unwind(t.stackDepth, t.scopeDepth, t.frameDepth, false)
	if err != nil {
		return err
	}
	c.pos = s.BreakPos
	c.emitJump(op.Jump, t.breakTo)
	restore()
	return nil
}

func (c *Compiler) compileContinue(s *ast.Continue) error {
	t, err := c.continueTarget(s)
	if err != nil {
		return err
	}
	restore, err := c.unwind(t.stackDepth, t.scopeDepth, t.frameDepth, false)
	if err != nil {
		return err
	}
	c.pos = s.ContinuePos
	c.emitJump(op.Jump, t.continueTo)
	restore()
	return nil
}

func (c *Compiler) breakTarget(s *ast.Break) (*target, error) {
	targets := c.current.targets
	for i := len(targets) - 1; i >= 0; i-- {
		t := targets[i]
		if s.Label == nil {
			if t.kind != blockTarget {
				return t, nil
			}
		} else if t.hasLabel(s.Label.Name) {
			return t, nil
		}
	}
	if s.Label == nil {
		return nil, c.formatErrorWithCode(errors.E2003, "break statement outside of loop or switch", s.BreakPos, nil)
	}
	return nil, c.undefinedLabel(errors.E2003, s.Label)
}

func (c *Compiler) continueTarget(s *ast.Continue) (*target, error) {
	targets := c.current.targets
	for i := len(targets) - 1; i >= 0; i-- {
		t := targets[i]
		if s.Label == nil {
			if t.kind == loopTarget {
				return t, nil
			}
			continue
		}
		if !t.hasLabel(s.Label.Name) {
			continue
		}
		if t.kind != loopTarget {
			return nil, c.formatErrorWithCode(errors.E2004,
				fmt.Sprintf("label %q does not refer to a loop", s.Label.Name), s.Label.NamePos, nil)
		}
		return t, nil
	}
	if s.Label == nil {
		return nil, c.formatErrorWithCode(errors.E2004, "continue statement outside of loop", s.ContinuePos, nil)
	}
	return nil, c.undefinedLabel(errors.E2004, s.Label)
}

func (c *Compiler) undefinedLabel(code errors.ErrorCode, ident *ast.Ident) error {
	var names []string
	for _, t := range c.current.targets {
		names = append(names, t.labels...)
	}
	return c.formatErrorWithCode(code,
		fmt.Sprintf("undefined label %q", ident.Name),
		ident.NamePos,
		errors.SuggestSimilar(ident.Name, names))
}
