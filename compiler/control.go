package compiler

import (
	"github.com/cloudcmds/minijoe/ast"
	"github.com/cloudcmds/minijoe/bytecode"
	"github.com/cloudcmds/minijoe/errors"
	"github.com/cloudcmds/minijoe/op"
)

func (c *Compiler) pushTarget(kind targetKind, labels []string) *target {
	code := c.current
	t := &target{
		kind:       kind,
		labels:     labels,
		breakTo:    c.newLabel(),
		stackDepth: code.stackDepth,
		scopeDepth: code.scopeDepth,
		frameDepth: len(code.frames),
	}
	if kind == loopTarget {
		t.continueTo = c.newLabel()
	}
	code.targets = append(code.targets, t)
	return t
}

func (c *Compiler) popTarget() {
	code := c.current
	code.targets = code.targets[:len(code.targets)-1]
}

// popTo drops stack items and with scopes down to the given depths. With
// keepTop set, the value on top of the stack is kept above the items.
func (c *Compiler) popTo(stackDepth, scopeDepth int, keepTop bool) {
	code := c.current
	for ; code.scopeDepth > scopeDepth; code.scopeDepth-- {
		c.emit(op.WithEnd)
	}
	for ; code.stackDepth > stackDepth; code.stackDepth-- {
		if keepTop {
			c.emit(op.Swap)
		}
		c.emit(op.Drop)
	}
}

// unwind emits the code that leaves the current context for an enclosing
// one at the given depths. The finally blocks of the try statements being
// left are inlined, innermost first, outside the protected ranges of those
// statements. The returned function restores the context for the code that
// follows the exit.
func (c *Compiler) unwind(stackDepth, scopeDepth, frameDepth int, keepTop bool) (func(), error) {
	code := c.current
	savedStack, savedScope := code.stackDepth, code.scopeDepth
	savedFrames, savedTargets := code.frames, code.targets
	restore := func() {
		code.frames, code.targets = savedFrames, savedTargets
		code.stackDepth, code.scopeDepth = savedStack, savedScope
		pc := c.pc()
		for i := frameDepth; i < len(savedFrames); i++ {
			savedFrames[i].open(pc)
		}
	}

	for i := len(savedFrames) - 1; i >= frameDepth; i-- {
		f := savedFrames[i]
		f.close(c.pc())
		if f.finally == nil {
			continue
		}
		c.popTo(f.stackDepth, f.scopeDepth, keepTop)
		code.frames = savedFrames[:i:i]
		code.targets = visibleTargets(savedTargets, i)
		if keepTop {
			code.stackDepth++
		}
		err := c.compileStmt(f.finally)
		if keepTop {
			code.stackDepth--
		}
		if err != nil {
			return nil, err
		}
	}
	c.popTo(stackDepth, scopeDepth, keepTop)
	code.frames, code.targets = savedFrames, savedTargets
	return restore, nil
}

// visibleTargets returns the targets that enclose the try statement of the
// frame at the given depth.
func visibleTargets(targets []*target, frameDepth int) []*target {
	n := 0
	for n < len(targets) && targets[n].frameDepth <= frameDepth {
		n++
	}
	return targets[:n:n]
}

// compileTry lays out a try statement as follows:
//
//	body                  protected by the catch and finally entries
//	JUMP normal
//	catch:  store the exception, catch body   protected by the finally entry
//	normal: finally body
//	JUMP end
//	rethrow: finally body, THROW
//	end:
func (c *Compiler) compileTry(s *ast.Try) error {
	code := c.current
	newFrame := func(finally *ast.Block) *frame {
		f := &frame{
			finally:    finally,
			start:      c.pc(),
			stackDepth: code.stackDepth,
			scopeDepth: code.scopeDepth,
		}
		code.frames = append(code.frames, f)
		return f
	}
	var fin, catch *frame
	if s.FinallyBlock != nil {
		fin = newFrame(s.FinallyBlock)
	}
	if s.CatchBlock != nil {
		catch = newFrame(nil)
	}
	if err := c.compileStmt(s.Body); err != nil {
		return err
	}

	normal := c.newLabel()
	if catch != nil {
		catch.close(c.pc())
		code.frames = code.frames[:len(code.frames)-1]
		c.emitJump(op.Jump, normal)
		c.addHandlers(catch, c.pc())
		if err := c.compileCatch(s); err != nil {
			return err
		}
	}
	if fin == nil {
		c.mark(normal)
		return nil
	}
	fin.close(c.pc())
	code.frames = code.frames[:len(code.frames)-1]
	c.mark(normal)
	if err := c.compileStmt(s.FinallyBlock); err != nil {
		return err
	}
	end := c.newLabel()
	c.emitJump(op.Jump, end)
	c.addHandlers(fin, c.pc())
	code.stackDepth++
	err := c.compileStmt(s.FinallyBlock)
	code.stackDepth--
	if err != nil {
		return err
	}
	c.emit(op.Throw)
	c.mark(end)
	return nil
}

// compileCatch binds the exception pushed by the VM to the catch variable
// and compiles the catch block. With slot-addressed locals the variable
// gets a slot of its own, visible only inside the block.
func (c *Compiler) compileCatch(s *ast.Try) error {
	code := c.current
	name := s.CatchIdent.Name
	c.pos = s.CatchIdent.NamePos
	c.recordLine(ast.Line(s.CatchIdent))
	saved := code.symbols
	switch {
	case code.fast:
		code.symbols = saved.NewBlock()
		if _, err := code.symbols.Insert(name); err != nil {
			return c.formatErrorWithCode(errors.E2007, err.Error(), c.pos, nil)
		}
	case code.symbols != nil:
		if _, err := code.symbols.Declare(name); err != nil {
			return c.formatErrorWithCode(errors.E2007, err.Error(), c.pos, nil)
		}
	}
	c.storeName(name)
	c.emit(op.Drop)
	err := c.compileStmt(s.CatchBlock)
	code.symbols = saved
	return err
}

func (c *Compiler) addHandlers(f *frame, handler int) {
	code := c.current
	for _, r := range f.ranges {
		code.handlers = append(code.handlers, bytecode.ExceptionHandler{
			Start:      r[0],
			End:        r[1],
			Handler:    handler,
			StackDepth: f.stackDepth,
			ScopeDepth: f.scopeDepth,
		})
	}
}
