package parser

import (
	stderrors "errors"
	"math"
	"strconv"

	"github.com/cloudcmds/minijoe/ast"
	"github.com/cloudcmds/minijoe/errors"
	"github.com/cloudcmds/minijoe/internal/token"
)

// numberValue converts numeric literal text of the given kind to its value.
// Literals too large for a float64 convert to +Inf without error.
func numberValue(kind token.Type, literal string) (float64, error) {
	switch kind {
	case token.HEXADECIMAL:
		return radixValue(literal[2:], 16)
	case token.OCTAL:
		return radixValue(literal[1:], 8)
	}
	v, err := strconv.ParseFloat(literal, 64)
	var numErr *strconv.NumError
	if stderrors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
		return v, nil
	}
	return v, err
}

func radixValue(digits string, base int) (float64, error) {
	if digits == "" {
		return 0, strconv.ErrSyntax
	}
	if v, err := strconv.ParseUint(digits, base, 64); err == nil {
		return float64(v), nil
	}
	var v float64
	for _, c := range digits {
		d, err := strconv.ParseUint(string(c), base, 8)
		if err != nil {
			return 0, err
		}
		v = v*float64(base) + float64(d)
	}
	return v, nil
}

// parseNumber converts the current numeric literal. A literal that cannot
// be converted evaluates to NaN unless strict numbers are enabled.
func (p *Parser) parseNumber() (ast.Expr, error) {
	tok := p.tok
	v, err := numberValue(tok.Type, tok.Literal)
	if err != nil {
		if p.strictNumbers {
			return nil, p.tokenError(tok, errors.E1008, "invalid number literal %s", tok.Literal)
		}
		p.logger.Warn().
			Str("literal", tok.Literal).
			Int("line", tok.StartPosition.LineNumber()).
			Err(err).
			Msg("numeric literal converted to NaN")
		v = math.NaN()
	}
	return &ast.Number{
		ValuePos: tok.StartPosition,
		Literal:  tok.Literal,
		Kind:     tok.Type,
		Value:    v,
	}, p.next()
}

// parseArray parses an array literal. An element omitted between commas is
// a hole; a single trailing comma adds no element.
func (p *Parser) parseArray() (ast.Expr, error) {
	lbrack := p.tok
	if err := p.next(); err != nil {
		return nil, err
	}
	saved := p.noIn
	p.noIn = false
	defer func() { p.noIn = saved }()

	arr := &ast.ArrayLit{Lbrack: lbrack.StartPosition}
	for !p.is(token.RBRACKET) {
		if p.is(token.COMMA) {
			arr.Items = append(arr.Items, nil)
			if err := p.next(); err != nil {
				return nil, err
			}
			continue
		}
		if p.is(token.EOF) {
			return nil, p.tokenError(lbrack, errors.E1007, "unterminated array literal (missing \"]\")")
		}
		item, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		arr.Items = append(arr.Items, item)
		if !p.is(token.COMMA) {
			break
		}
		if err := p.next(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect("array literal", token.RBRACKET); err != nil {
		return nil, err
	}
	return arr, nil
}

// propertyKey returns the property name for an object literal key token.
func propertyKey(tok token.Token) (string, bool) {
	switch {
	case tok.Type == token.IDENT || tok.Type == token.STRING || tok.Type.IsKeyword():
		return tok.Literal, true
	case tok.Type.IsNumber():
		v, err := numberValue(tok.Type, tok.Literal)
		if err != nil {
			return tok.Literal, true
		}
		return formatNumber(v), true
	}
	return "", false
}

// formatNumber renders a number the way it converts to a property name.
func formatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case v == math.Trunc(v) && math.Abs(v) < 1e21:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (p *Parser) parseObject() (ast.Expr, error) {
	lbrace := p.tok
	if err := p.next(); err != nil {
		return nil, err
	}
	saved := p.noIn
	p.noIn = false
	defer func() { p.noIn = saved }()

	obj := &ast.ObjectLit{Lbrace: lbrace.StartPosition}
	for !p.is(token.RBRACE) {
		if p.is(token.EOF) {
			return nil, p.tokenError(lbrace, errors.E1007, "unterminated object literal (missing \"}\")")
		}
		keyTok := p.tok
		key, ok := propertyKey(keyTok)
		if !ok {
			return nil, p.tokenError(keyTok, errors.E1006, "invalid property name %s", tokenDescription(keyTok))
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		if _, err := p.expect("object literal", token.COLON); err != nil {
			return nil, err
		}
		value, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		obj.Props = append(obj.Props, &ast.Prop{KeyPos: keyTok.StartPosition, Key: key, Value: value})
		if !p.is(token.COMMA) {
			break
		}
		if err := p.next(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect("object literal", token.RBRACE); err != nil {
		return nil, err
	}
	return obj, nil
}

// parseFunc parses a function literal. Declarations require a name;
// function expressions may omit it.
func (p *Parser) parseFunc(declaration bool) (*ast.FuncLit, error) {
	fn := &ast.FuncLit{FuncPos: p.tok.StartPosition}
	if err := p.next(); err != nil {
		return nil, err
	}
	var err error
	if declaration || p.is(token.IDENT) {
		if fn.Name, err = p.parseIdent("function declaration"); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect("function parameters", token.LPAREN); err != nil {
		return nil, err
	}
	for !p.is(token.RPAREN) {
		param, err := p.parseIdent("function parameters")
		if err != nil {
			return nil, err
		}
		fn.Params = append(fn.Params, param)
		if ok, err := p.accept(token.COMMA); err != nil {
			return nil, err
		} else if !ok {
			break
		}
	}
	if _, err := p.expect("function parameters", token.RPAREN); err != nil {
		return nil, err
	}

	saved := p.noIn
	p.noIn = false
	fn.Body, err = p.parseBlock()
	p.noIn = saved
	if err != nil {
		return nil, err
	}
	return fn, nil
}
