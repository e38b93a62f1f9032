// Package lexer converts source text into a stream of tokens.
package lexer

import (
	"strings"
	"unicode"

	"github.com/cloudcmds/minijoe/errors"
	"github.com/cloudcmds/minijoe/internal/token"
)

const eof rune = -1

// Lexer scans an input string one rune at a time. Whitespace, comments and
// line terminators are returned as tokens of their own so that the parser
// can apply automatic semicolon insertion.
type Lexer struct {
	input     []rune
	pos       int // index of the next rune to read
	line      int
	lineStart int
	file      string
}

// Option is a configuration function for a Lexer.
type Option func(*Lexer)

// WithFile sets the file name recorded in token positions.
func WithFile(file string) Option {
	return func(l *Lexer) {
		l.file = file
	}
}

// New returns a Lexer for the given input.
func New(input string, options ...Option) *Lexer {
	l := &Lexer{input: []rune(input)}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// Filename returns the file name recorded in token positions.
func (l *Lexer) Filename() string {
	return l.file
}

// SetFilename sets the file name recorded in token positions.
func (l *Lexer) SetFilename(file string) {
	l.file = file
}

// Position returns the position of the next rune to be read.
func (l *Lexer) Position() token.Position {
	return token.Position{
		Char:      l.pos,
		LineStart: l.lineStart,
		Line:      l.line,
		Column:    l.pos - l.lineStart,
		File:      l.file,
	}
}

func isLineTerminator(c rune) bool {
	return c == '\n' || c == '\r' || c == '\u2028' || c == '\u2029'
}

func (l *Lexer) peek() rune {
	return l.peekAt(0)
}

func (l *Lexer) peekAt(n int) rune {
	if l.pos+n >= len(l.input) {
		return eof
	}
	return l.input[l.pos+n]
}

func (l *Lexer) read() rune {
	if l.pos >= len(l.input) {
		return eof
	}
	c := l.input[l.pos]
	l.pos++
	// A CR immediately followed by LF ends the line on the LF.
	if isLineTerminator(c) && !(c == '\r' && l.peek() == '\n') {
		l.line++
		l.lineStart = l.pos
	}
	return c
}

// unread steps the cursor back one rune. Line bookkeeping is not reversible,
// so stepping back over a line terminator is an internal error.
func (l *Lexer) unread() error {
	if l.pos == 0 {
		return &LexError{Message: "unread at start of input", Position: l.Position(), Internal: true}
	}
	if isLineTerminator(l.input[l.pos-1]) {
		return &LexError{Message: "unread across a line terminator", Position: l.Position(), Internal: true}
	}
	l.pos--
	return nil
}

// Next returns the next token in the input. Once the input is exhausted it
// returns EOF on every call.
func (l *Lexer) Next() (token.Token, error) {
	start := l.Position()
	c := l.read()
	switch {
	case c == eof:
		return l.token(token.EOF, "", start), nil
	case isLineTerminator(c):
		if c == '\r' && l.peek() == '\n' {
			l.read()
		}
		return l.token(token.NEWLINE, l.text(start), start), nil
	case isSpace(c):
		for isSpace(l.peek()) {
			l.read()
		}
		return l.token(token.WHITESPACE, l.text(start), start), nil
	case c == '/' && l.peek() == '/':
		for p := l.peek(); p != eof && !isLineTerminator(p); p = l.peek() {
			l.read()
		}
		return l.token(token.COMMENT, l.text(start), start), nil
	case c == '/' && l.peek() == '*':
		return l.readBlockComment(start)
	case c == '"' || c == '\'':
		return l.readString(c, start)
	case isDigit(c):
		return l.readNumber(c, start)
	case c == '.' && isDigit(l.peek()):
		return l.readNumber(c, start)
	case isIdentStart(c) || c == '\\':
		return l.readIdentifier(c, start)
	}
	return l.readOperator(c, start), nil
}

func (l *Lexer) token(typ token.Type, literal string, start token.Position) token.Token {
	return token.Token{
		Type:          typ,
		Literal:       literal,
		StartPosition: start,
		EndPosition:   l.Position(),
	}
}

// text returns the source text from start to the cursor.
func (l *Lexer) text(start token.Position) string {
	return string(l.input[start.Char:l.pos])
}

func isSpace(c rune) bool {
	switch c {
	case ' ', '\t', '\v', '\f', '\u00a0', '\ufeff':
		return true
	}
	return c > 0x7f && !isLineTerminator(c) && unicode.IsSpace(c)
}

func (l *Lexer) readBlockComment(start token.Position) (token.Token, error) {
	l.read() // '*'
	multiline := false
	for {
		c := l.read()
		switch {
		case c == eof:
			return token.Token{}, l.errorf(start, errors.E1007, "unterminated comment")
		case c == '*' && l.peek() == '/':
			l.read()
			if multiline {
				return l.token(token.NEWLINE, l.text(start), start), nil
			}
			return l.token(token.COMMENT, l.text(start), start), nil
		case isLineTerminator(c):
			multiline = true
		}
	}
}

func (l *Lexer) readString(quote rune, start token.Position) (token.Token, error) {
	var b strings.Builder
	for {
		c := l.read()
		switch {
		case c == eof || isLineTerminator(c):
			return token.Token{}, l.errorf(start, errors.E1002, "unterminated string literal")
		case c == quote:
			return l.token(token.STRING, b.String(), start), nil
		case c == '\\':
			if err := l.readEscape(&b); err != nil {
				return token.Token{}, err
			}
		default:
			b.WriteRune(c)
		}
	}
}

// readEscape decodes the escape sequence following a backslash inside a
// string literal and appends the result to b.
func (l *Lexer) readEscape(b *strings.Builder) error {
	pos := l.Position()
	c := l.read()
	switch c {
	case eof:
		return l.errorf(pos, errors.E1002, "unterminated string literal")
	case 'b':
		b.WriteByte('\b')
	case 't':
		b.WriteByte('\t')
	case 'n':
		b.WriteByte('\n')
	case 'v':
		b.WriteByte('\v')
	case 'f':
		b.WriteByte('\f')
	case 'r':
		b.WriteByte('\r')
	case 'x':
		v, ok := l.readHex(2)
		if !ok {
			return l.errorf(pos, errors.E1010, "invalid hexadecimal escape sequence")
		}
		b.WriteRune(v)
	case 'u':
		v, err := l.readUnicodeEscape(pos)
		if err != nil {
			return err
		}
		b.WriteRune(v)
	case '\r', '\n', '\u2028', '\u2029':
		// Line continuation.
		if c == '\r' && l.peek() == '\n' {
			l.read()
		}
	default:
		if c >= '0' && c <= '7' {
			b.WriteRune(l.readOctalEscape(c))
			return nil
		}
		b.WriteRune(c)
	}
	return nil
}

// readOctalEscape reads at most three octal digits with a value of at most
// 255, the first of which has already been consumed.
func (l *Lexer) readOctalEscape(first rune) rune {
	v := first - '0'
	for i := 1; i < 3; i++ {
		d := l.peek()
		if d < '0' || d > '7' || v*8+(d-'0') > 0xff {
			break
		}
		l.read()
		v = v*8 + (d - '0')
	}
	return v
}

// readUnicodeEscape reads the four hex digits after "\u". A high surrogate
// followed by an escaped low surrogate is combined into one code point.
func (l *Lexer) readUnicodeEscape(pos token.Position) (rune, error) {
	v, ok := l.readHex(4)
	if !ok {
		return 0, l.errorf(pos, errors.E1010, "invalid unicode escape sequence")
	}
	if v >= 0xd800 && v < 0xdc00 && l.peek() == '\\' && l.peekAt(1) == 'u' {
		save := l.pos
		l.pos += 2
		lo, ok := l.readHex(4)
		if ok && lo >= 0xdc00 && lo < 0xe000 {
			return (v-0xd800)<<10 + (lo - 0xdc00) + 0x10000, nil
		}
		l.pos = save
	}
	return v, nil
}

func (l *Lexer) readHex(n int) (rune, bool) {
	var v rune
	for i := 0; i < n; i++ {
		d := hexValue(l.peekAt(i))
		if d < 0 {
			return 0, false
		}
		v = v<<4 | d
	}
	l.pos += n
	return v, true
}

func hexValue(c rune) rune {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return -1
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c rune) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '$' || c == '_' ||
		c > 0x7f && unicode.IsLetter(c)
}

func isIdentPart(c rune) bool {
	return isIdentStart(c) || isDigit(c) || c > 0x7f && unicode.IsDigit(c)
}

func (l *Lexer) readIdentifier(first rune, start token.Position) (token.Token, error) {
	var b strings.Builder
	c := first
	for {
		if c == '\\' {
			pos := l.Position()
			if l.read() != 'u' {
				return token.Token{}, l.errorf(start, errors.E1010, "invalid escape sequence in identifier")
			}
			v, ok := l.readHex(4)
			valid := isIdentPart(v)
			if b.Len() == 0 {
				valid = isIdentStart(v)
			}
			if !ok || !valid {
				return token.Token{}, l.errorf(pos, errors.E1010, "invalid escape sequence in identifier")
			}
			c = v
		}
		b.WriteRune(c)
		if p := l.peek(); !isIdentPart(p) && p != '\\' {
			break
		}
		c = l.read()
	}
	text := b.String()
	return l.token(token.LookupIdentifier(text), text, start), nil
}

func (l *Lexer) readDigits(valid func(rune) bool) int {
	n := 0
	for valid(l.peek()) {
		l.read()
		n++
	}
	return n
}

func isHexDigit(c rune) bool {
	return hexValue(c) >= 0
}

// readNumber scans a numeric literal. The literal text is kept verbatim; the
// token type records which sub-grammar matched.
func (l *Lexer) readNumber(first rune, start token.Position) (token.Token, error) {
	kind := token.DECIMAL
	switch {
	case first == '.':
		l.readDigits(isDigit)
		kind = token.FLOAT
		if err := l.readExponent(start, &kind); err != nil {
			return token.Token{}, err
		}
	case first == '0' && (l.peek() == 'x' || l.peek() == 'X'):
		l.read()
		if l.readDigits(isHexDigit) == 0 {
			return token.Token{}, l.errorf(start, errors.E1008, "invalid hexadecimal literal: %s", l.text(start))
		}
		kind = token.HEXADECIMAL
	case first == '0' && isDigit(l.peek()):
		// Leading zero means octal, unless an 8 or 9 shows up, in which
		// case the literal is read as decimal.
		kind = token.OCTAL
		for isDigit(l.peek()) {
			if l.read() >= '8' {
				kind = token.DECIMAL
			}
		}
		if kind == token.DECIMAL {
			if err := l.readFraction(start, &kind); err != nil {
				return token.Token{}, err
			}
		}
	default:
		l.readDigits(isDigit)
		if err := l.readFraction(start, &kind); err != nil {
			return token.Token{}, err
		}
	}
	if p := l.peek(); isIdentStart(p) || isDigit(p) || p == '\\' {
		return token.Token{}, l.errorf(start, errors.E1008, "invalid numeric literal: %s%c", l.text(start), p)
	}
	return l.token(kind, l.text(start), start), nil
}

// readFraction handles an optional decimal point and exponent following the
// integer digits of a decimal literal.
func (l *Lexer) readFraction(start token.Position, kind *token.Type) error {
	if l.peek() == '.' {
		l.read()
		switch p := l.peek(); {
		case isDigit(p):
			l.readDigits(isDigit)
			*kind = token.FLOAT
		case p == 'e' || p == 'E':
			// "1.e5" is a float but in "1.e" the period is member access.
			if !l.exponentFollows() {
				return l.unreadN(1)
			}
			*kind = token.FLOAT
		case isIdentStart(p) || p == '\\':
			return l.unread()
		default:
			*kind = token.FLOAT
		}
	}
	return l.readExponent(start, kind)
}

// exponentFollows reports whether the cursor is at an exponent marker that
// is followed by digits, optionally signed.
func (l *Lexer) exponentFollows() bool {
	p := l.peekAt(1)
	if p == '+' || p == '-' {
		p = l.peekAt(2)
	}
	return isDigit(p)
}

func (l *Lexer) unreadN(n int) error {
	for i := 0; i < n; i++ {
		if err := l.unread(); err != nil {
			return err
		}
	}
	return nil
}

func (l *Lexer) readExponent(start token.Position, kind *token.Type) error {
	if p := l.peek(); p != 'e' && p != 'E' {
		return nil
	}
	if !l.exponentFollows() {
		l.read()
		return l.errorf(start, errors.E1008, "invalid exponent in numeric literal: %s", l.text(start))
	}
	l.read()
	if p := l.peek(); p == '+' || p == '-' {
		l.read()
	}
	l.readDigits(isDigit)
	*kind = token.FLOAT
	return nil
}

// operators maps every punctuation sequence to its token type.
var operators = map[string]token.Type{}

func init() {
	for _, typ := range []token.Type{
		token.LBRACE, token.RBRACE, token.LPAREN, token.RPAREN, token.LBRACKET,
		token.RBRACKET, token.PERIOD, token.SEMICOLON, token.COMMA,
		token.QUESTION, token.COLON, token.LT, token.GT, token.LT_EQUALS,
		token.GT_EQUALS, token.EQ, token.NOT_EQ, token.EQ_STRICT,
		token.NE_STRICT, token.PLUS, token.MINUS, token.ASTERISK, token.SLASH,
		token.MOD, token.PLUS_PLUS, token.MINUS_MINUS, token.LT_LT,
		token.GT_GT, token.GT_GT_GT, token.AMPERSAND, token.PIPE, token.CARET,
		token.BANG, token.TILDE, token.AND, token.OR, token.ASSIGN,
		token.PLUS_EQUALS, token.MINUS_EQUALS, token.ASTERISK_EQUALS,
		token.SLASH_EQUALS, token.MOD_EQUALS, token.LT_LT_EQUALS,
		token.GT_GT_EQUALS, token.GT_GT_GT_EQUALS, token.AMPERSAND_EQUALS,
		token.PIPE_EQUALS, token.CARET_EQUALS,
	} {
		operators[string(typ)] = typ
	}
}

const maxOperatorLen = 4

// readOperator matches the longest operator starting with c. Characters that
// begin no operator produce an UNKNOWN token.
func (l *Lexer) readOperator(c rune, start token.Position) token.Token {
	for n := maxOperatorLen; n > 1; n-- {
		if l.pos-1+n > len(l.input) {
			continue
		}
		candidate := string(l.input[l.pos-1 : l.pos-1+n])
		if typ, ok := operators[candidate]; ok {
			l.pos += n - 1
			return l.token(typ, candidate, start)
		}
	}
	if typ, ok := operators[string(c)]; ok {
		return l.token(typ, string(c), start)
	}
	return l.token(token.UNKNOWN, string(c), start)
}

// lineText returns the text of the line containing pos.
func (l *Lexer) lineText(pos token.Position) string {
	end := pos.LineStart
	for end < len(l.input) && !isLineTerminator(l.input[end]) {
		end++
	}
	if pos.LineStart > len(l.input) {
		return ""
	}
	return string(l.input[pos.LineStart:end])
}

// GetLineText returns the text of the line on which tok starts.
func (l *Lexer) GetLineText(tok token.Token) string {
	return l.lineText(tok.StartPosition)
}
