package parser

import (
	"github.com/cloudcmds/minijoe/ast"
	"github.com/cloudcmds/minijoe/errors"
	"github.com/cloudcmds/minijoe/internal/token"
)

func (p *Parser) parseStatement() (ast.Stmt, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	switch p.tok.Type {
	case token.LBRACE:
		return p.parseBlock()
	case token.SEMICOLON:
		stmt := &ast.Empty{Semicolon: p.tok.StartPosition}
		return stmt, p.next()
	case token.VAR:
		stmt, err := p.parseVar()
		if err != nil {
			return nil, err
		}
		return stmt, p.consumeSemicolon()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.DO:
		return p.parseDoWhile()
	case token.FOR:
		return p.parseFor()
	case token.CONTINUE:
		return p.parseContinue()
	case token.BREAK:
		return p.parseBreak()
	case token.RETURN:
		return p.parseReturn()
	case token.THROW:
		return p.parseThrow()
	case token.TRY:
		return p.parseTry()
	case token.SWITCH:
		return p.parseSwitch()
	case token.WITH:
		return p.parseWith()
	case token.FUNCTION:
		fn, err := p.parseFunc(true)
		if err != nil {
			return nil, err
		}
		return &ast.FuncDecl{Func: fn}, nil
	}
	return p.parseExpressionStatement()
}

// parseExpressionStatement parses an expression statement, or a labelled
// statement when the expression is a lone identifier followed by a colon.
func (p *Parser) parseExpressionStatement() (ast.Stmt, error) {
	x, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if label, ok := x.(*ast.Ident); ok && p.is(token.COLON) {
		if err := p.next(); err != nil {
			return nil, err
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		return &ast.Labelled{Label: label, Stmt: stmt}, nil
	}
	return &ast.ExprStmt{X: x}, p.consumeSemicolon()
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	lbrace, err := p.expect("block", token.LBRACE)
	if err != nil {
		return nil, err
	}
	block := &ast.Block{Lbrace: lbrace.StartPosition}
	for !p.is(token.RBRACE) {
		if p.is(token.EOF) {
			return nil, p.tokenError(lbrace, errors.E1007, "unterminated block (missing \"}\")")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	return block, p.next()
}

// parseVar parses a var keyword and its declaration list, without the
// terminating semicolon.
func (p *Parser) parseVar() (*ast.Var, error) {
	stmt := &ast.Var{VarPos: p.tok.StartPosition}
	if err := p.next(); err != nil {
		return nil, err
	}
	for {
		decl, err := p.parseVarDecl()
		if err != nil {
			return nil, err
		}
		stmt.Decls = append(stmt.Decls, decl)
		if ok, err := p.accept(token.COMMA); err != nil {
			return nil, err
		} else if !ok {
			return stmt, nil
		}
	}
}

func (p *Parser) parseVarDecl() (*ast.VarDecl, error) {
	name, err := p.parseIdent("var statement")
	if err != nil {
		return nil, err
	}
	decl := &ast.VarDecl{Name: name}
	if ok, err := p.accept(token.ASSIGN); err != nil {
		return nil, err
	} else if ok {
		if decl.Value, err = p.parseAssignment(); err != nil {
			return nil, err
		}
	}
	return decl, nil
}

// parseCondition parses a parenthesized expression such as the condition of
// an if or while statement.
func (p *Parser) parseCondition(context string) (ast.Expr, error) {
	if _, err := p.expect(context, token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(context, token.RPAREN); err != nil {
		return nil, err
	}
	return cond, nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	stmt := &ast.If{IfPos: p.tok.StartPosition}
	if err := p.next(); err != nil {
		return nil, err
	}
	var err error
	if stmt.Cond, err = p.parseCondition("if statement"); err != nil {
		return nil, err
	}
	if stmt.Then, err = p.parseStatement(); err != nil {
		return nil, err
	}
	if ok, err := p.accept(token.ELSE); err != nil {
		return nil, err
	} else if ok {
		if stmt.Else, err = p.parseStatement(); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	stmt := &ast.While{WhilePos: p.tok.StartPosition}
	if err := p.next(); err != nil {
		return nil, err
	}
	var err error
	if stmt.Cond, err = p.parseCondition("while statement"); err != nil {
		return nil, err
	}
	if stmt.Body, err = p.parseStatement(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseDoWhile() (ast.Stmt, error) {
	stmt := &ast.DoWhile{DoPos: p.tok.StartPosition}
	if err := p.next(); err != nil {
		return nil, err
	}
	var err error
	if stmt.Body, err = p.parseStatement(); err != nil {
		return nil, err
	}
	if _, err := p.expect("do statement", token.WHILE); err != nil {
		return nil, err
	}
	if stmt.Cond, err = p.parseCondition("do statement"); err != nil {
		return nil, err
	}
	// The semicolon after "do ... while (x)" is optional.
	if _, err := p.accept(token.SEMICOLON); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseFor distinguishes the four for statement forms: C-style with an
// expression or var initializer, and for-in with an expression or var
// target. "in" is not an operator while the first clause is parsed.
func (p *Parser) parseFor() (ast.Stmt, error) {
	forTok := p.tok
	if err := p.next(); err != nil {
		return nil, err
	}
	if _, err := p.expect("for statement", token.LPAREN); err != nil {
		return nil, err
	}

	var (
		init    ast.Expr
		initVar *ast.Var
		err     error
	)
	saved := p.noIn
	p.noIn = true
	switch {
	case p.is(token.VAR):
		initVar, err = p.parseVar()
	case !p.is(token.SEMICOLON):
		init, err = p.parseExpression()
	}
	p.noIn = saved
	if err != nil {
		return nil, err
	}

	if p.is(token.IN) {
		stmt := &ast.ForIn{ForPos: forTok.StartPosition}
		switch {
		case initVar != nil && len(initVar.Decls) == 1:
			stmt.Decl = initVar.Decls[0]
		case initVar != nil:
			return nil, p.tokenError(p.tok, errors.E1013, "for-in statement declares more than one variable")
		case isAssignable(init):
			stmt.Target = init
		default:
			return nil, p.tokenError(p.tok, errors.E1005, "invalid left-hand side in for-in statement")
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		if stmt.Object, err = p.parseExpression(); err != nil {
			return nil, err
		}
		if _, err := p.expect("for statement", token.RPAREN); err != nil {
			return nil, err
		}
		if stmt.Body, err = p.parseStatement(); err != nil {
			return nil, err
		}
		return stmt, nil
	}

	stmt := &ast.For{ForPos: forTok.StartPosition, Init: init, InitVar: initVar}
	if !p.is(token.SEMICOLON) {
		return nil, p.tokenError(p.tok, errors.E1013, "unexpected %s in for statement (expected \";\" or \"in\")",
			tokenDescription(p.tok))
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	if !p.is(token.SEMICOLON) {
		if stmt.Cond, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect("for statement", token.SEMICOLON); err != nil {
		return nil, err
	}
	if !p.is(token.RPAREN) {
		if stmt.Post, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect("for statement", token.RPAREN); err != nil {
		return nil, err
	}
	if stmt.Body, err = p.parseStatement(); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseLabel parses the optional label of a break or continue statement,
// which must be on the same line as the keyword.
func (p *Parser) parseLabel() (*ast.Ident, error) {
	if p.seenNewline || !p.is(token.IDENT) {
		return nil, nil
	}
	return p.parseIdent("label")
}

func (p *Parser) parseContinue() (ast.Stmt, error) {
	stmt := &ast.Continue{ContinuePos: p.tok.StartPosition}
	if err := p.next(); err != nil {
		return nil, err
	}
	var err error
	if stmt.Label, err = p.parseLabel(); err != nil {
		return nil, err
	}
	return stmt, p.consumeSemicolon()
}

func (p *Parser) parseBreak() (ast.Stmt, error) {
	stmt := &ast.Break{BreakPos: p.tok.StartPosition}
	if err := p.next(); err != nil {
		return nil, err
	}
	var err error
	if stmt.Label, err = p.parseLabel(); err != nil {
		return nil, err
	}
	return stmt, p.consumeSemicolon()
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	stmt := &ast.Return{ReturnPos: p.tok.StartPosition}
	if err := p.next(); err != nil {
		return nil, err
	}
	if !p.seenNewline && !p.is(token.SEMICOLON) && !p.is(token.RBRACE) {
		var err error
		if stmt.Value, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	return stmt, p.consumeSemicolon()
}

func (p *Parser) parseThrow() (ast.Stmt, error) {
	stmt := &ast.Throw{ThrowPos: p.tok.StartPosition}
	if err := p.next(); err != nil {
		return nil, err
	}
	if p.seenNewline {
		return nil, p.tokenError(p.prev, errors.E1004, "line break after throw")
	}
	var err error
	if stmt.Value, err = p.parseExpression(); err != nil {
		return nil, err
	}
	return stmt, p.consumeSemicolon()
}

func (p *Parser) parseTry() (ast.Stmt, error) {
	tryTok := p.tok
	stmt := &ast.Try{TryPos: tryTok.StartPosition}
	if err := p.next(); err != nil {
		return nil, err
	}
	var err error
	if stmt.Body, err = p.parseBlock(); err != nil {
		return nil, err
	}
	if ok, err := p.accept(token.CATCH); err != nil {
		return nil, err
	} else if ok {
		if _, err := p.expect("catch clause", token.LPAREN); err != nil {
			return nil, err
		}
		if stmt.CatchIdent, err = p.parseIdent("catch clause"); err != nil {
			return nil, err
		}
		if _, err := p.expect("catch clause", token.RPAREN); err != nil {
			return nil, err
		}
		if stmt.CatchBlock, err = p.parseBlock(); err != nil {
			return nil, err
		}
	}
	if ok, err := p.accept(token.FINALLY); err != nil {
		return nil, err
	} else if ok {
		if stmt.FinallyBlock, err = p.parseBlock(); err != nil {
			return nil, err
		}
	}
	if stmt.CatchBlock == nil && stmt.FinallyBlock == nil {
		return nil, p.tokenError(tryTok, errors.E1003, "try statement requires a catch or finally clause")
	}
	return stmt, nil
}

func (p *Parser) parseSwitch() (ast.Stmt, error) {
	stmt := &ast.Switch{SwitchPos: p.tok.StartPosition}
	if err := p.next(); err != nil {
		return nil, err
	}
	var err error
	if stmt.Value, err = p.parseCondition("switch statement"); err != nil {
		return nil, err
	}
	lbrace, err := p.expect("switch statement", token.LBRACE)
	if err != nil {
		return nil, err
	}
	hasDefault := false
	for !p.is(token.RBRACE) {
		c := &ast.Case{CasePos: p.tok.StartPosition}
		switch p.tok.Type {
		case token.CASE:
			if err := p.next(); err != nil {
				return nil, err
			}
			if c.Expr, err = p.parseExpression(); err != nil {
				return nil, err
			}
		case token.DEFAULT:
			if hasDefault {
				return nil, p.tokenError(p.tok, errors.E1012, "duplicate default clause in switch statement")
			}
			hasDefault = true
			c.Default = true
			if err := p.next(); err != nil {
				return nil, err
			}
		case token.EOF:
			return nil, p.tokenError(lbrace, errors.E1007, "unterminated switch statement (missing \"}\")")
		default:
			return nil, p.unexpected("switch statement")
		}
		if _, err := p.expect("switch statement", token.COLON); err != nil {
			return nil, err
		}
		for !p.is(token.CASE) && !p.is(token.DEFAULT) && !p.is(token.RBRACE) && !p.is(token.EOF) {
			body, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			c.Body = append(c.Body, body)
		}
		stmt.Cases = append(stmt.Cases, c)
	}
	return stmt, p.next()
}

func (p *Parser) parseWith() (ast.Stmt, error) {
	stmt := &ast.With{WithPos: p.tok.StartPosition}
	if err := p.next(); err != nil {
		return nil, err
	}
	var err error
	if stmt.Object, err = p.parseCondition("with statement"); err != nil {
		return nil, err
	}
	if stmt.Body, err = p.parseStatement(); err != nil {
		return nil, err
	}
	return stmt, nil
}
