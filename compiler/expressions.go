package compiler

import (
	"fmt"
	"math"

	"github.com/cloudcmds/minijoe/ast"
	"github.com/cloudcmds/minijoe/bytecode"
	"github.com/cloudcmds/minijoe/errors"
	"github.com/cloudcmds/minijoe/op"
)

var binaryOps = map[string]op.Code{
	"+":          op.Add,
	"-":          op.Sub,
	"*":          op.Mul,
	"/":          op.Div,
	"%":          op.Mod,
	"&":          op.And,
	"|":          op.Or,
	"^":          op.Xor,
	"<<":         op.Shl,
	">>":         op.Shr,
	">>>":        op.Shru,
	"==":         op.Eq,
	"!=":         op.Ne,
	"===":        op.Seq,
	"!==":        op.Sne,
	"<":          op.Lt,
	"<=":         op.Le,
	">":          op.Gt,
	">=":         op.Ge,
	"in":         op.In,
	"instanceof": op.Instanceof,
}

var unaryOps = map[string]op.Code{
	"-": op.Neg,
	"+": op.Plus,
	"!": op.Not,
	"~": op.Inv,
}

func binaryOp(name string) op.Code {
	code, ok := binaryOps[name]
	if !ok {
		panic(fmt.Sprintf("compiler: unknown binary operator %q", name))
	}
	return code
}

func (c *Compiler) compileExprs(exprs []ast.Expr) error {
	for _, e := range exprs {
		if err := c.compileExpr(e); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) compileExpr(expr ast.Expr) error {
	c.pos = expr.Pos()
	switch x := expr.(type) {
	case *ast.Number:
		c.compileNumber(x.Value)
	case *ast.String:
		c.emitX(op.PushStr, c.stringLit(x.Value))
	case *ast.Bool:
		if x.Value {
			c.emit(op.PushTrue)
		} else {
			c.emit(op.PushFalse)
		}
	case *ast.Null:
		c.emit(op.PushNull)
	case *ast.This:
		c.emit(op.PushThis)
	case *ast.Ident:
		c.loadName(x.Name)
	case *ast.Assign:
		return c.compileAssign(x)
	case *ast.CompoundAssign:
		return c.compileCompoundAssign(x)
	case *ast.Prefix:
		return c.compilePrefix(x)
	case *ast.Infix:
		return c.compileInfix(x)
	case *ast.Logical:
		return c.compileLogical(x)
	case *ast.Increment:
		return c.compileIncrement(x)
	case *ast.Conditional:
		return c.compileConditional(x)
	case *ast.Property:
		if err := c.compileExprs([]ast.Expr{x.X, x.Key}); err != nil {
			return err
		}
		c.emit(op.Get)
	case *ast.Call:
		return c.compileCall(x)
	case *ast.New:
		return c.compileNew(x)
	case *ast.ArrayLit:
		return c.compileArray(x)
	case *ast.ObjectLit:
		return c.compileObject(x)
	case *ast.FuncLit:
		idx, err := c.compileFunction(x, false)
		if err != nil {
			return err
		}
		c.emitX(op.PushFn, idx)
	default:
		panic(fmt.Sprintf("compiler: unknown expression type %T", expr))
	}
	return nil
}

// compileNumber pushes small integers as immediates and everything else
// through the number table.
func (c *Compiler) compileNumber(v float64) {
	if v == math.Trunc(v) && v >= math.MinInt16 && v <= math.MaxInt16 && !(v == 0 && math.Signbit(v)) {
		c.emitX(op.PushInt, int(v))
		return
	}
	c.emitX(op.PushNum, c.number(v))
}

func (c *Compiler) compileAssign(x *ast.Assign) error {
	switch target := x.Target.(type) {
	case *ast.Ident:
		if err := c.compileExpr(x.Value); err != nil {
			return err
		}
		c.storeName(target.Name)
	case *ast.Property:
		if err := c.compileExprs([]ast.Expr{target.X, target.Key, x.Value}); err != nil {
			return err
		}
		c.emit(op.Set)
	default:
		panic(fmt.Sprintf("compiler: invalid assignment target %T", x.Target))
	}
	return nil
}

func (c *Compiler) compileCompoundAssign(x *ast.CompoundAssign) error {
	opcode := binaryOp(x.Op)
	switch target := x.Target.(type) {
	case *ast.Ident:
		c.loadName(target.Name)
		if err := c.compileExpr(x.Value); err != nil {
			return err
		}
		c.emit(opcode)
		c.storeName(target.Name)
	case *ast.Property:
		if err := c.compileExprs([]ast.Expr{target.X, target.Key}); err != nil {
			return err
		}
		c.emit(op.Dup2, op.Get)
		if err := c.compileExpr(x.Value); err != nil {
			return err
		}
		c.emit(opcode, op.Set)
	default:
		panic(fmt.Sprintf("compiler: invalid assignment target %T", x.Target))
	}
	return nil
}

func (c *Compiler) compilePrefix(x *ast.Prefix) error {
	switch x.Op {
	case "typeof":
		if ident, ok := x.X.(*ast.Ident); ok {
			if s, ok := c.resolveLocal(ident.Name); ok {
				c.emitX(op.GetLocal, s.Index())
				c.emit(op.Typeof)
			} else {
				c.emitX(op.TypeofVar, c.stringLit(ident.Name))
			}
			return nil
		}
		if err := c.compileExpr(x.X); err != nil {
			return err
		}
		c.emit(op.Typeof)
	case "delete":
		switch target := x.X.(type) {
		case *ast.Ident:
			if _, ok := c.resolveLocal(target.Name); ok {
				// Declared variables cannot be deleted.
				c.emit(op.PushFalse)
			} else {
				c.emitX(op.DeleteVar, c.stringLit(target.Name))
			}
		case *ast.Property:
			if err := c.compileExprs([]ast.Expr{target.X, target.Key}); err != nil {
				return err
			}
			c.emit(op.Delete)
		default:
			if err := c.compileExpr(x.X); err != nil {
				return err
			}
			c.emit(op.Drop, op.PushTrue)
		}
	case "void":
		if err := c.compileExpr(x.X); err != nil {
			return err
		}
		c.emit(op.Drop, op.PushUndef)
	default:
		opcode, ok := unaryOps[x.Op]
		if !ok {
			panic(fmt.Sprintf("compiler: unknown unary operator %q", x.Op))
		}
		if err := c.compileExpr(x.X); err != nil {
			return err
		}
		c.emit(opcode)
	}
	return nil
}

func (c *Compiler) compileInfix(x *ast.Infix) error {
	if err := c.compileExpr(x.X); err != nil {
		return err
	}
	if x.Op == "," {
		c.emit(op.Drop)
		return c.compileExpr(x.Y)
	}
	if err := c.compileExpr(x.Y); err != nil {
		return err
	}
	c.emit(binaryOp(x.Op))
	return nil
}

// compileLogical keeps the left operand as the result when it decides the
// outcome.
func (c *Compiler) compileLogical(x *ast.Logical) error {
	if err := c.compileExpr(x.X); err != nil {
		return err
	}
	end := c.newLabel()
	c.emit(op.Dup)
	if x.Op == "&&" {
		c.emitJump(op.IfFalse, end)
	} else {
		c.emitJump(op.IfTrue, end)
	}
	c.emit(op.Drop)
	if err := c.compileExpr(x.Y); err != nil {
		return err
	}
	c.mark(end)
	return nil
}

// compileIncrement converts the old value to a number before adding, so
// the postfix forms yield the numeric old value.
func (c *Compiler) compileIncrement(x *ast.Increment) error {
	opcode := op.Add
	if x.Op == "--" {
		opcode = op.Sub
	}
	switch target := x.X.(type) {
	case *ast.Ident:
		c.loadName(target.Name)
		c.emit(op.Plus)
		if !x.Prefix {
			c.emit(op.Dup)
		}
		c.emitX(op.PushInt, 1)
		c.emit(opcode)
		c.storeName(target.Name)
		if !x.Prefix {
			c.emit(op.Drop)
		}
	case *ast.Property:
		if err := c.compileExprs([]ast.Expr{target.X, target.Key}); err != nil {
			return err
		}
		c.emit(op.Dup2, op.Get, op.Plus)
		if !x.Prefix {
			c.emit(op.DupX2)
		}
		c.emitX(op.PushInt, 1)
		c.emit(opcode, op.Set)
		if !x.Prefix {
			c.emit(op.Drop)
		}
	default:
		panic(fmt.Sprintf("compiler: invalid increment operand %T", x.X))
	}
	return nil
}

func (c *Compiler) compileConditional(x *ast.Conditional) error {
	if err := c.compileExpr(x.Cond); err != nil {
		return err
	}
	elseLabel := c.newLabel()
	end := c.newLabel()
	c.emitJump(op.IfFalse, elseLabel)
	if err := c.compileExpr(x.Then); err != nil {
		return err
	}
	c.emitJump(op.Jump, end)
	c.mark(elseLabel)
	if err := c.compileExpr(x.Else); err != nil {
		return err
	}
	c.mark(end)
	return nil
}

func (c *Compiler) checkArgs(n int) bool {
	if n > bytecode.MaxU16 {
		c.fail(errors.E2009, c.pos, nil, "%d arguments exceed the limit of %d", n, bytecode.MaxU16)
		return false
	}
	return true
}

// compileCall pushes the receiver, the function and the arguments. A
// property call passes the object as the receiver; any other call passes
// the global object.
func (c *Compiler) compileCall(x *ast.Call) error {
	if !c.checkArgs(len(x.Args)) {
		return c.failure
	}
	if prop, ok := x.Fun.(*ast.Property); ok {
		if err := c.compileExpr(prop.X); err != nil {
			return err
		}
		c.emit(op.Dup)
		if err := c.compileExpr(prop.Key); err != nil {
			return err
		}
		c.emit(op.Get)
	} else {
		c.emit(op.PushGlobal)
		if err := c.compileExpr(x.Fun); err != nil {
			return err
		}
	}
	if err := c.compileExprs(x.Args); err != nil {
		return err
	}
	c.emitX(op.Call, len(x.Args))
	return nil
}

func (c *Compiler) compileNew(x *ast.New) error {
	if !c.checkArgs(len(x.Args)) {
		return c.failure
	}
	if err := c.compileExpr(x.Ctor); err != nil {
		return err
	}
	if err := c.compileExprs(x.Args); err != nil {
		return err
	}
	c.emitX(op.New, len(x.Args))
	return nil
}

// compileArray appends each item to a new array. Holes append undefined.
func (c *Compiler) compileArray(x *ast.ArrayLit) error {
	c.emit(op.NewArray)
	for _, item := range x.Items {
		if item == nil {
			c.emit(op.PushUndef)
		} else if err := c.compileExpr(item); err != nil {
			return err
		}
		c.emit(op.Append)
	}
	return nil
}

func (c *Compiler) compileObject(x *ast.ObjectLit) error {
	c.emit(op.NewObject)
	for _, p := range x.Props {
		c.pos = p.KeyPos
		c.emit(op.Dup)
		c.emitX(op.PushStr, c.stringLit(p.Key))
		if err := c.compileExpr(p.Value); err != nil {
			return err
		}
		c.emit(op.Set, op.Drop)
	}
	return nil
}
