package parser

import (
	"github.com/cloudcmds/minijoe/ast"
	"github.com/cloudcmds/minijoe/errors"
	"github.com/cloudcmds/minijoe/internal/token"
)

// isAssignable reports whether x may appear on the left of an assignment.
func isAssignable(x ast.Expr) bool {
	switch x.(type) {
	case *ast.Ident, *ast.Property:
		return true
	}
	return false
}

// parseExpression parses a comma-separated expression list.
func (p *Parser) parseExpression() (ast.Expr, error) {
	x, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	for p.is(token.COMMA) {
		opPos := p.tok.StartPosition
		if err := p.next(); err != nil {
			return nil, err
		}
		y, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		x = &ast.Infix{X: x, OpPos: opPos, Op: ",", Y: y}
	}
	return x, nil
}

// parseNested parses a full expression with "in" enabled, as inside
// parentheses and brackets.
func (p *Parser) parseNested() (ast.Expr, error) {
	saved := p.noIn
	p.noIn = false
	defer func() { p.noIn = saved }()
	return p.parseExpression()
}

// parseAssignment parses the right-associative assignment level.
func (p *Parser) parseAssignment() (ast.Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	target, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	opTok := p.tok
	op, compound := compoundAssignOps[opTok.Type]
	if opTok.Type != token.ASSIGN && !compound {
		return target, nil
	}
	if !isAssignable(target) {
		return nil, p.tokenError(opTok, errors.E1005, "invalid assignment target %s", target.String())
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	value, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	if compound {
		return &ast.CompoundAssign{Target: target, OpPos: opTok.StartPosition, Op: op, Value: value}, nil
	}
	return &ast.Assign{Target: target, EqPos: opTok.StartPosition, Value: value}, nil
}

func (p *Parser) parseConditional() (ast.Expr, error) {
	cond, err := p.parseLogicalOr()
	if err != nil || !p.is(token.QUESTION) {
		return cond, err
	}
	x := &ast.Conditional{Cond: cond, Question: p.tok.StartPosition}
	if err := p.next(); err != nil {
		return nil, err
	}
	saved := p.noIn
	p.noIn = false
	x.Then, err = p.parseAssignment()
	p.noIn = saved
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("conditional expression", token.COLON); err != nil {
		return nil, err
	}
	if x.Else, err = p.parseAssignment(); err != nil {
		return nil, err
	}
	return x, nil
}

func (p *Parser) parseLogicalOr() (ast.Expr, error) {
	return p.parseLogical(token.OR, p.parseLogicalAnd)
}

func (p *Parser) parseLogicalAnd() (ast.Expr, error) {
	return p.parseLogical(token.AND, p.parseBitwiseOr)
}

func (p *Parser) parseLogical(op token.Type, operand func() (ast.Expr, error)) (ast.Expr, error) {
	x, err := operand()
	if err != nil {
		return nil, err
	}
	for p.is(op) {
		opPos := p.tok.StartPosition
		if err := p.next(); err != nil {
			return nil, err
		}
		y, err := operand()
		if err != nil {
			return nil, err
		}
		x = &ast.Logical{X: x, OpPos: opPos, Op: string(op), Y: y}
	}
	return x, nil
}

func (p *Parser) parseBitwiseOr() (ast.Expr, error) {
	return p.parseBinary(func(t token.Type) bool { return t == token.PIPE }, p.parseBitwiseXor)
}

func (p *Parser) parseBitwiseXor() (ast.Expr, error) {
	return p.parseBinary(func(t token.Type) bool { return t == token.CARET }, p.parseBitwiseAnd)
}

func (p *Parser) parseBitwiseAnd() (ast.Expr, error) {
	return p.parseBinary(func(t token.Type) bool { return t == token.AMPERSAND }, p.parseEquality)
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	return p.parseBinary(func(t token.Type) bool { return equalityOps[t] }, p.parseRelational)
}

func (p *Parser) parseRelational() (ast.Expr, error) {
	return p.parseBinary(func(t token.Type) bool {
		return relationalOps[t] && !(t == token.IN && p.noIn)
	}, p.parseShift)
}

func (p *Parser) parseShift() (ast.Expr, error) {
	return p.parseBinary(func(t token.Type) bool { return shiftOps[t] }, p.parseAdditive)
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	return p.parseBinary(func(t token.Type) bool { return additiveOps[t] }, p.parseMultiplicative)
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	return p.parseBinary(func(t token.Type) bool { return multiplicativeOps[t] }, p.parseUnary)
}

// parseBinary builds a left-associative chain of the operators accepted by
// match, with operands parsed by the next tighter level.
func (p *Parser) parseBinary(match func(token.Type) bool, operand func() (ast.Expr, error)) (ast.Expr, error) {
	x, err := operand()
	if err != nil {
		return nil, err
	}
	for match(p.tok.Type) {
		opTok := p.tok
		if err := p.next(); err != nil {
			return nil, err
		}
		y, err := operand()
		if err != nil {
			return nil, err
		}
		x = &ast.Infix{X: x, OpPos: opTok.StartPosition, Op: string(opTok.Type), Y: y}
	}
	return x, nil
}

// parseUnary parses the right-associative prefix operators.
func (p *Parser) parseUnary() (ast.Expr, error) {
	opTok := p.tok
	if unaryOps[opTok.Type] {
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()
		if err := p.next(); err != nil {
			return nil, err
		}
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Prefix{OpPos: opTok.StartPosition, Op: string(opTok.Type), X: x}, nil
	}
	if opTok.Type == token.PLUS_PLUS || opTok.Type == token.MINUS_MINUS {
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()
		if err := p.next(); err != nil {
			return nil, err
		}
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if !isAssignable(x) {
			return nil, p.tokenError(opTok, errors.E1005, "invalid operand for %s", opTok.Literal)
		}
		return &ast.Increment{OpPos: opTok.StartPosition, Op: string(opTok.Type), Prefix: true, X: x}, nil
	}
	return p.parsePostfix()
}

// parsePostfix applies at most one postfix "++" or "--", which must be on
// the same line as its operand.
func (p *Parser) parsePostfix() (ast.Expr, error) {
	x, err := p.parseMember(false)
	if err != nil {
		return nil, err
	}
	opTok := p.tok
	if (opTok.Type != token.PLUS_PLUS && opTok.Type != token.MINUS_MINUS) || p.seenNewline {
		return x, nil
	}
	if !isAssignable(x) {
		return nil, p.tokenError(opTok, errors.E1005, "invalid operand for %s", opTok.Literal)
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	return &ast.Increment{OpPos: opTok.StartPosition, Op: string(opTok.Type), X: x}, nil
}

// parseMember parses a member/call chain. With newFlag set, the chain stops
// before an argument list so the enclosing new expression can claim it:
// "new A()" passes the arguments to A, while in "new A" followed later by
// "(...)" on the same chain the parentheses form a separate call.
func (p *Parser) parseMember(newFlag bool) (ast.Expr, error) {
	var x ast.Expr
	if p.is(token.NEW) {
		if err := p.enter(); err != nil {
			return nil, err
		}
		newTok := p.tok
		if err := p.next(); err != nil {
			p.leave()
			return nil, err
		}
		ctor, err := p.parseMember(true)
		p.leave()
		if err != nil {
			return nil, err
		}
		n := &ast.New{NewPos: newTok.StartPosition, Ctor: ctor}
		if p.is(token.LPAREN) {
			if _, n.Args, err = p.parseArguments(); err != nil {
				return nil, err
			}
		}
		x = n
	} else {
		var err error
		if x, err = p.parsePrimary(); err != nil {
			return nil, err
		}
	}

	for {
		switch p.tok.Type {
		case token.PERIOD:
			if err := p.next(); err != nil {
				return nil, err
			}
			key, err := p.parsePropertyName()
			if err != nil {
				return nil, err
			}
			x = &ast.Property{X: x, Lbrack: key.ValuePos, Key: key}
		case token.LBRACKET:
			lbrack := p.tok.StartPosition
			if err := p.next(); err != nil {
				return nil, err
			}
			key, err := p.parseNested()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect("property access", token.RBRACKET); err != nil {
				return nil, err
			}
			x = &ast.Property{X: x, Lbrack: lbrack, Key: key}
		case token.LPAREN:
			if newFlag {
				return x, nil
			}
			lparen, args, err := p.parseArguments()
			if err != nil {
				return nil, err
			}
			x = &ast.Call{Fun: x, Lparen: lparen, Args: args}
		default:
			return x, nil
		}
	}
}

// parsePropertyName parses the name after "." as a string key. Keywords
// are allowed as property names.
func (p *Parser) parsePropertyName() (*ast.String, error) {
	if !p.is(token.IDENT) && !p.tok.Type.IsKeyword() {
		return nil, p.tokenError(p.tok, errors.E1006, "expected property name after \".\", got %s",
			tokenDescription(p.tok))
	}
	key := &ast.String{ValuePos: p.tok.StartPosition, Value: p.tok.Literal}
	return key, p.next()
}

// parseArguments parses a parenthesized argument list. The result is never
// nil so that an empty list can be told apart from a missing one.
func (p *Parser) parseArguments() (token.Position, []ast.Expr, error) {
	lparen, err := p.expect("argument list", token.LPAREN)
	if err != nil {
		return lparen.StartPosition, nil, err
	}
	saved := p.noIn
	p.noIn = false
	defer func() { p.noIn = saved }()

	args := []ast.Expr{}
	for !p.is(token.RPAREN) {
		arg, err := p.parseAssignment()
		if err != nil {
			return lparen.StartPosition, nil, err
		}
		args = append(args, arg)
		if !p.is(token.COMMA) {
			break
		}
		if err := p.next(); err != nil {
			return lparen.StartPosition, nil, err
		}
	}
	if _, err := p.expect("argument list", token.RPAREN); err != nil {
		return lparen.StartPosition, nil, err
	}
	return lparen.StartPosition, args, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.tok
	switch tok.Type {
	case token.IDENT:
		return newIdent(tok), p.next()
	case token.STRING:
		return &ast.String{ValuePos: tok.StartPosition, Value: tok.Literal}, p.next()
	case token.DECIMAL, token.OCTAL, token.HEXADECIMAL, token.FLOAT:
		return p.parseNumber()
	case token.TRUE, token.FALSE:
		return &ast.Bool{ValuePos: tok.StartPosition, Value: tok.Type == token.TRUE}, p.next()
	case token.NULL:
		return &ast.Null{NullPos: tok.StartPosition}, p.next()
	case token.THIS:
		return &ast.This{ThisPos: tok.StartPosition}, p.next()
	case token.LPAREN:
		if err := p.next(); err != nil {
			return nil, err
		}
		x, err := p.parseNested()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect("parenthesized expression", token.RPAREN); err != nil {
			return nil, err
		}
		return x, nil
	case token.LBRACKET:
		return p.parseArray()
	case token.LBRACE:
		return p.parseObject()
	case token.FUNCTION:
		return p.parseFunc(false)
	case token.UNKNOWN:
		return nil, p.tokenError(tok, errors.E1003, "illegal character %q", tok.Literal)
	}
	if tok.Type.IsReserved() {
		return nil, p.tokenError(tok, errors.E1003, "%q is a reserved word", tok.Literal)
	}
	return nil, p.unexpected("expression")
}
