// Package parser is used to generate the abstract syntax tree (AST) for a program.
//
// A parser is created by calling New() with a lexer as input. The parser should
// then be used only once, by calling parser.Parse() to produce the AST. The
// first error aborts parsing; no partial tree is returned.
package parser

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cloudcmds/minijoe/ast"
	"github.com/cloudcmds/minijoe/errors"
	"github.com/cloudcmds/minijoe/internal/lexer"
	"github.com/cloudcmds/minijoe/internal/token"
)

// Parse the provided input as source code and return the AST. This is
// shorthand way to create a Lexer and Parser and then call Parse on that.
func Parse(input string, options ...Option) (*ast.Program, error) {
	p := &Parser{}
	for _, opt := range options {
		opt(p)
	}
	l := lexer.New(input, lexer.WithFile(p.filename))
	return New(l, options...).Parse()
}

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name used in error messages.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// WithMaxDepth sets the maximum nesting depth for the parser.
// This prevents stack overflow on deeply nested input.
// The default is 500.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// WithStrictNumbers makes a numeric literal that cannot be converted to a
// value a parse error. By default such a literal evaluates to NaN.
func WithStrictNumbers(strict bool) Option {
	return func(p *Parser) {
		p.strictNumbers = strict
	}
}

// WithLogger sets the logger used for parser warnings.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// DefaultMaxDepth is the default maximum nesting depth for parsing.
const DefaultMaxDepth = 500

// Parser object
type Parser struct {
	// l is our lexer
	l *lexer.Lexer

	// tok is the current significant token; prev is the one before it.
	tok  token.Token
	prev token.Token

	// seenNewline records whether a line terminator, or the end of input,
	// was skipped between prev and tok. It drives semicolon insertion and
	// the restricted productions.
	seenNewline bool

	// noIn disables "in" as a relational operator while parsing the first
	// clause of a for statement.
	noIn bool

	// err holds a lexer error raised while priming the first token.
	err error

	filename      string
	strictNumbers bool
	logger        zerolog.Logger

	// Current and maximum recursion depth
	depth    int
	maxDepth int
}

// New returns a Parser for the program provided by the given Lexer.
func New(l *lexer.Lexer, options ...Option) *Parser {
	p := &Parser{
		l:        l,
		maxDepth: DefaultMaxDepth,
		logger:   zerolog.Nop(),
	}
	for _, opt := range options {
		opt(p)
	}
	if p.filename == "" {
		p.filename = l.Filename()
	}
	p.err = p.next()
	return p
}

// Parse the program that is provided via the lexer.
func (p *Parser) Parse() (*ast.Program, error) {
	if p.err != nil {
		return nil, p.err
	}
	program := &ast.Program{}
	for p.tok.Type != token.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		program.Stmts = append(program.Stmts, stmt)
	}
	return program, nil
}

// next advances to the next significant token, skipping whitespace,
// comments and line terminators.
func (p *Parser) next() error {
	p.prev = p.tok
	p.seenNewline = false
	for {
		tok, err := p.l.Next()
		if err != nil {
			// Lexer errors carry their own position; the parse error only
			// wraps them.
			return NewParseError(ErrorOpts{Cause: err, File: p.filename})
		}
		switch tok.Type {
		case token.NEWLINE:
			p.seenNewline = true
			continue
		case token.WHITESPACE, token.COMMENT:
			continue
		case token.EOF:
			p.seenNewline = true
		}
		p.tok = tok
		return nil
	}
}

// is returns true if the current token has the given type.
func (p *Parser) is(t token.Type) bool {
	return p.tok.Type == t
}

// accept advances past the current token if it has the given type.
func (p *Parser) accept(t token.Type) (bool, error) {
	if !p.is(t) {
		return false, nil
	}
	return true, p.next()
}

// expect validates that the current token is of the given type and advances
// past it, returning the consumed token.
func (p *Parser) expect(context string, t token.Type) (token.Token, error) {
	tok := p.tok
	if tok.Type != t {
		code := errors.E1001
		if tok.Type == token.EOF && (t == token.RBRACE || t == token.RPAREN || t == token.RBRACKET) {
			code = errors.E1007
		}
		return tok, p.tokenError(tok, code, "unexpected %s while parsing %s (expected %s)",
			tokenDescription(tok), context, tokenTypeDescription(t))
	}
	return tok, p.next()
}

// consumeSemicolon ends a statement. A missing semicolon is accepted before
// a closing brace, at the end of input, or after a line terminator.
func (p *Parser) consumeSemicolon() error {
	if p.is(token.SEMICOLON) {
		return p.next()
	}
	if p.is(token.RBRACE) || p.is(token.EOF) || p.seenNewline {
		return nil
	}
	return p.tokenError(p.tok, errors.E1011, "missing semicolon before %s", tokenDescription(p.tok))
}

// enter increments the recursion depth, failing once the limit is reached.
// Each successful call must be paired with a call to leave.
func (p *Parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		p.depth--
		return p.tokenError(p.tok, errors.E1009, "maximum nesting depth exceeded")
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

func (p *Parser) tokenError(t token.Token, code errors.ErrorCode, msg string, args ...any) *ParseError {
	return NewParseError(ErrorOpts{
		Code:          code,
		Message:       fmt.Sprintf(msg, args...),
		File:          p.filename,
		StartPosition: t.StartPosition,
		EndPosition:   t.EndPosition,
		SourceCode:    p.l.GetLineText(t),
		Positioned:    true,
	})
}

func (p *Parser) unexpected(context string) *ParseError {
	code := errors.E1001
	if p.is(token.EOF) {
		code = errors.E1004
	}
	return p.tokenError(p.tok, code, "unexpected %s while parsing %s", tokenDescription(p.tok), context)
}

// newIdent creates a new Ident node from a token.
func newIdent(tok token.Token) *ast.Ident {
	return &ast.Ident{NamePos: tok.StartPosition, Name: tok.Literal}
}

// parseIdent consumes an identifier token. Keywords and reserved words are
// rejected.
func (p *Parser) parseIdent(context string) (*ast.Ident, error) {
	if !p.is(token.IDENT) {
		if p.tok.Type.IsReserved() {
			return nil, p.tokenError(p.tok, errors.E1006, "%q is a reserved word", p.tok.Literal)
		}
		return nil, p.tokenError(p.tok, errors.E1006, "expected identifier while parsing %s, got %s",
			context, tokenDescription(p.tok))
	}
	ident := newIdent(p.tok)
	return ident, p.next()
}
