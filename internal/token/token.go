// Package token defines language keywords and tokens used when lexing source code.
package token

// Type describes the type of a token as a string.
type Type string

// Position points to a particular location in an input string.
type Position struct {
	Char      int    // rune offset within the input
	LineStart int    // rune offset of the start of the current line
	Line      int    // 0-indexed line number
	Column    int    // 0-indexed column number
	File      string // filename
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// NoPos is the zero value Position, representing an invalid/unset position.
var NoPos = Position{}

// Token represents one token lexed from the input source code. For literal
// kinds Literal holds the value (decoded, for strings); for every other kind
// it holds the source text of the token.
type Token struct {
	Type          Type
	Literal       string
	StartPosition Position
	EndPosition   Position
}

// HasValue reports whether the token kind carries a literal value.
func (t Token) HasValue() bool {
	return t.Type.IsLiteral()
}

// Whitespace-family and structural kinds
const (
	EOF        Type = "EOF"
	UNKNOWN    Type = "UNKNOWN"
	NEWLINE    Type = "EOL"
	WHITESPACE Type = "WHITESPACE"
	COMMENT    Type = "COMMENT"
)

// Literal kinds
const (
	IDENT       Type = "IDENT"
	STRING      Type = "STRING"
	DECIMAL     Type = "DECIMAL"
	OCTAL       Type = "OCTAL"
	HEXADECIMAL Type = "HEXADECIMAL"
	FLOAT       Type = "FLOAT"
)

// Keywords
const (
	BREAK      Type = "break"
	CASE       Type = "case"
	CATCH      Type = "catch"
	CONTINUE   Type = "continue"
	DEFAULT    Type = "default"
	DELETE     Type = "delete"
	DO         Type = "do"
	ELSE       Type = "else"
	FALSE      Type = "false"
	FINALLY    Type = "finally"
	FOR        Type = "for"
	FUNCTION   Type = "function"
	IF         Type = "if"
	IN         Type = "in"
	INSTANCEOF Type = "instanceof"
	NEW        Type = "new"
	NULL       Type = "null"
	RETURN     Type = "return"
	SWITCH     Type = "switch"
	THIS       Type = "this"
	THROW      Type = "throw"
	TRUE       Type = "true"
	TRY        Type = "try"
	TYPEOF     Type = "typeof"
	VAR        Type = "var"
	VOID       Type = "void"
	WHILE      Type = "while"
	WITH       Type = "with"

	// Reserved for future use; never valid as identifiers.
	CLASS    Type = "class"
	CONST    Type = "const"
	DEBUGGER Type = "debugger"
	ENUM     Type = "enum"
	EXPORT   Type = "export"
	EXTENDS  Type = "extends"
	IMPORT   Type = "import"
	SUPER    Type = "super"
)

// Operators and punctuation
const (
	LBRACE    Type = "{"
	RBRACE    Type = "}"
	LPAREN    Type = "("
	RPAREN    Type = ")"
	LBRACKET  Type = "["
	RBRACKET  Type = "]"
	PERIOD    Type = "."
	SEMICOLON Type = ";"
	COMMA     Type = ","
	QUESTION  Type = "?"
	COLON     Type = ":"

	LT        Type = "<"
	GT        Type = ">"
	LT_EQUALS Type = "<="
	GT_EQUALS Type = ">="
	EQ        Type = "=="
	NOT_EQ    Type = "!="
	EQ_STRICT Type = "==="
	NE_STRICT Type = "!=="

	PLUS        Type = "+"
	MINUS       Type = "-"
	ASTERISK    Type = "*"
	SLASH       Type = "/"
	MOD         Type = "%"
	PLUS_PLUS   Type = "++"
	MINUS_MINUS Type = "--"
	LT_LT       Type = "<<"
	GT_GT       Type = ">>"
	GT_GT_GT    Type = ">>>"
	AMPERSAND   Type = "&"
	PIPE        Type = "|"
	CARET       Type = "^"
	BANG        Type = "!"
	TILDE       Type = "~"
	AND         Type = "&&"
	OR          Type = "||"

	ASSIGN           Type = "="
	PLUS_EQUALS      Type = "+="
	MINUS_EQUALS     Type = "-="
	ASTERISK_EQUALS  Type = "*="
	SLASH_EQUALS     Type = "/="
	MOD_EQUALS       Type = "%="
	LT_LT_EQUALS     Type = "<<="
	GT_GT_EQUALS     Type = ">>="
	GT_GT_GT_EQUALS  Type = ">>>="
	AMPERSAND_EQUALS Type = "&="
	PIPE_EQUALS      Type = "|="
	CARET_EQUALS     Type = "^="
)

// Reserved keywords. The map is populated at package initialization and is
// only read afterwards, so it is safe for concurrent lexers.
var keywords = map[string]Type{
	"break":      BREAK,
	"case":       CASE,
	"catch":      CATCH,
	"continue":   CONTINUE,
	"default":    DEFAULT,
	"delete":     DELETE,
	"do":         DO,
	"else":       ELSE,
	"false":      FALSE,
	"finally":    FINALLY,
	"for":        FOR,
	"function":   FUNCTION,
	"if":         IF,
	"in":         IN,
	"instanceof": INSTANCEOF,
	"new":        NEW,
	"null":       NULL,
	"return":     RETURN,
	"switch":     SWITCH,
	"this":       THIS,
	"throw":      THROW,
	"true":       TRUE,
	"try":        TRY,
	"typeof":     TYPEOF,
	"var":        VAR,
	"void":       VOID,
	"while":      WHILE,
	"with":       WITH,

	"class":    CLASS,
	"const":    CONST,
	"debugger": DEBUGGER,
	"enum":     ENUM,
	"export":   EXPORT,
	"extends":  EXTENDS,
	"import":   IMPORT,
	"super":    SUPER,
}

var reserved = map[Type]bool{
	CLASS:    true,
	CONST:    true,
	DEBUGGER: true,
	ENUM:     true,
	EXPORT:   true,
	EXTENDS:  true,
	IMPORT:   true,
	SUPER:    true,
}

// LookupIdentifier returns the keyword type for the given identifier text,
// or IDENT if the text is not a keyword.
func LookupIdentifier(identifier string) Type {
	if tok, ok := keywords[identifier]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword reports whether t is a keyword, including reserved words.
func (t Type) IsKeyword() bool {
	_, ok := keywords[string(t)]
	return ok
}

// IsReserved reports whether t is a word reserved for future use.
func (t Type) IsReserved() bool {
	return reserved[t]
}

// IsLiteral reports whether tokens of this type carry a value.
func (t Type) IsLiteral() bool {
	switch t {
	case IDENT, STRING, DECIMAL, OCTAL, HEXADECIMAL, FLOAT:
		return true
	}
	return false
}

// IsNumber reports whether t is one of the numeric literal kinds.
func (t Type) IsNumber() bool {
	switch t {
	case DECIMAL, OCTAL, HEXADECIMAL, FLOAT:
		return true
	}
	return false
}

// IsWhitespace reports whether t belongs to the whitespace family, which the
// parser skips (noting line terminators for semicolon insertion).
func (t Type) IsWhitespace() bool {
	switch t {
	case NEWLINE, WHITESPACE, COMMENT:
		return true
	}
	return false
}
