package lexer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudcmds/minijoe/errors"
	"github.com/cloudcmds/minijoe/internal/token"
)

type expected struct {
	typ     token.Type
	literal string
}

func lexAll(t *testing.T, input string, skipSpace bool) []token.Token {
	t.Helper()
	l := New(input)
	var tokens []token.Token
	for {
		tok, err := l.Next()
		require.NoError(t, err, input)
		if skipSpace && tok.Type.IsWhitespace() {
			continue
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens
		}
	}
}

func checkTokens(t *testing.T, input string, skipSpace bool, tests []expected) {
	t.Helper()
	tokens := lexAll(t, input, skipSpace)
	require.Len(t, tokens, len(tests), input)
	for i, tt := range tests {
		require.Equal(t, tt.typ, tokens[i].Type, "tests[%d] type", i)
		require.Equal(t, tt.literal, tokens[i].Literal, "tests[%d] literal", i)
	}
}

func TestOperatorsLongestMatch(t *testing.T) {
	checkTokens(t, ">>>= >>= >> > >= >>> === == = !== != ! <<= << <= <", true, []expected{
		{token.GT_GT_GT_EQUALS, ">>>="},
		{token.GT_GT_EQUALS, ">>="},
		{token.GT_GT, ">>"},
		{token.GT, ">"},
		{token.GT_EQUALS, ">="},
		{token.GT_GT_GT, ">>>"},
		{token.EQ_STRICT, "==="},
		{token.EQ, "=="},
		{token.ASSIGN, "="},
		{token.NE_STRICT, "!=="},
		{token.NOT_EQ, "!="},
		{token.BANG, "!"},
		{token.LT_LT_EQUALS, "<<="},
		{token.LT_LT, "<<"},
		{token.LT_EQUALS, "<="},
		{token.LT, "<"},
		{token.EOF, ""},
	})
}

func TestNextToken(t *testing.T) {
	checkTokens(t, "%=+(){},;?||&&++--*=.&|^~:[]/-=/=", false, []expected{
		{token.MOD_EQUALS, "%="},
		{token.PLUS, "+"},
		{token.LPAREN, "("},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.RBRACE, "}"},
		{token.COMMA, ","},
		{token.SEMICOLON, ";"},
		{token.QUESTION, "?"},
		{token.OR, "||"},
		{token.AND, "&&"},
		{token.PLUS_PLUS, "++"},
		{token.MINUS_MINUS, "--"},
		{token.ASTERISK_EQUALS, "*="},
		{token.PERIOD, "."},
		{token.AMPERSAND, "&"},
		{token.PIPE, "|"},
		{token.CARET, "^"},
		{token.TILDE, "~"},
		{token.COLON, ":"},
		{token.LBRACKET, "["},
		{token.RBRACKET, "]"},
		{token.SLASH, "/"},
		{token.MINUS_EQUALS, "-="},
		{token.SLASH_EQUALS, "/="},
		{token.EOF, ""},
	})
}

func TestStatements(t *testing.T) {
	input := `var five = 5;
function add(x, y) {
  return x + y; // sum
}
`
	checkTokens(t, input, false, []expected{
		{token.VAR, "var"},
		{token.WHITESPACE, " "},
		{token.IDENT, "five"},
		{token.WHITESPACE, " "},
		{token.ASSIGN, "="},
		{token.WHITESPACE, " "},
		{token.DECIMAL, "5"},
		{token.SEMICOLON, ";"},
		{token.NEWLINE, "\n"},
		{token.FUNCTION, "function"},
		{token.WHITESPACE, " "},
		{token.IDENT, "add"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.COMMA, ","},
		{token.WHITESPACE, " "},
		{token.IDENT, "y"},
		{token.RPAREN, ")"},
		{token.WHITESPACE, " "},
		{token.LBRACE, "{"},
		{token.NEWLINE, "\n"},
		{token.WHITESPACE, "  "},
		{token.RETURN, "return"},
		{token.WHITESPACE, " "},
		{token.IDENT, "x"},
		{token.WHITESPACE, " "},
		{token.PLUS, "+"},
		{token.WHITESPACE, " "},
		{token.IDENT, "y"},
		{token.SEMICOLON, ";"},
		{token.WHITESPACE, " "},
		{token.COMMENT, "// sum"},
		{token.NEWLINE, "\n"},
		{token.RBRACE, "}"},
		{token.NEWLINE, "\n"},
		{token.EOF, ""},
	})
}

func TestSeparatedTokenSequences(t *testing.T) {
	singles := []expected{
		{token.IDENT, "foo"},
		{token.WHILE, "while"},
		{token.STRING, "bar"},
		{token.DECIMAL, "42"},
		{token.FLOAT, "1.5"},
		{token.HEXADECIMAL, "0xff"},
		{token.OCTAL, "017"},
		{token.GT_GT_GT, ">>>"},
		{token.INSTANCEOF, "instanceof"},
		{token.SEMICOLON, ";"},
	}
	sources := []string{"foo", "while", `"bar"`, "42", "1.5", "0xff", "017", ">>>", "instanceof", ";"}
	separators := []string{" ", "\n", "\t", "/* c */", "// c\n", "\r\n", "\u2028"}
	for _, sep := range separators {
		input := ""
		for i, src := range sources {
			if i > 0 {
				input += sep
			}
			input += src
		}
		tests := append(append([]expected{}, singles...), expected{token.EOF, ""})
		checkTokens(t, input, true, tests)
	}
}

func TestNumberKinds(t *testing.T) {
	tests := []struct {
		input string
		typ   token.Type
	}{
		{"0", token.DECIMAL},
		{"07", token.OCTAL},
		{"08", token.DECIMAL},
		{"019", token.DECIMAL},
		{"0x1F", token.HEXADECIMAL},
		{"0X1f", token.HEXADECIMAL},
		{"3.14e-2", token.FLOAT},
		{"1e10", token.FLOAT},
		{"2E+3", token.FLOAT},
		{".5", token.FLOAT},
		{"1.", token.FLOAT},
		{"0.5", token.FLOAT},
		{"1.e5", token.FLOAT},
		{"123", token.DECIMAL},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New(tt.input)
			tok, err := l.Next()
			require.NoError(t, err)
			require.Equal(t, tt.typ, tok.Type)
			require.Equal(t, tt.input, tok.Literal)
			tok, err = l.Next()
			require.NoError(t, err)
			require.Equal(t, token.EOF, tok.Type)
		})
	}
}

func TestNumberFollowedByMember(t *testing.T) {
	checkTokens(t, "1.foo", false, []expected{
		{token.DECIMAL, "1"},
		{token.PERIOD, "."},
		{token.IDENT, "foo"},
		{token.EOF, ""},
	})
	// In "1.e" the exponent marker has no digits, so the period is member
	// access and "e" is a property name.
	checkTokens(t, "1.e", false, []expected{
		{token.DECIMAL, "1"},
		{token.PERIOD, "."},
		{token.IDENT, "e"},
		{token.EOF, ""},
	})
	checkTokens(t, "1..x", false, []expected{
		{token.FLOAT, "1."},
		{token.PERIOD, "."},
		{token.IDENT, "x"},
		{token.EOF, ""},
	})
}

func TestInvalidNumbers(t *testing.T) {
	for _, input := range []string{"0x", "0xg", "1e", "1.5e+", "3in", "0x1g", "12abc"} {
		t.Run(input, func(t *testing.T) {
			_, err := New(input).Next()
			require.Error(t, err)
			var lexErr *LexError
			require.ErrorAs(t, err, &lexErr)
			require.Equal(t, errors.E1008, lexErr.Code)
			require.Equal(t, 1, lexErr.Line())
		})
	}
}

func TestStringEscapes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"\n"`, "\n"},
		{`"\251"`, "\u00a9"},
		{`"\xa9"`, "\u00a9"},
		{`"\u00a9"`, "\u00a9"},
		{`"\b\t\v\f\r"`, "\b\t\v\f\r"},
		{`'\q\'\"'`, `q'"`},
		{`"\0"`, "\x00"},
		{`"\400"`, " 0"},
		{`"\1234"`, "S4"},
		{`"\ud83d\ude00"`, "\U0001F600"},
		{"\"a\\\nb\"", "ab"},
		{"\"a\\\r\nb\"", "ab"},
		{`'say "hi"'`, `say "hi"`},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			tok, err := New(tt.input).Next()
			require.NoError(t, err)
			require.Equal(t, token.STRING, tok.Type)
			require.Equal(t, tt.want, tok.Literal)
		})
	}
}

func TestInvalidStrings(t *testing.T) {
	tests := []struct {
		input string
		code  errors.ErrorCode
	}{
		{`"foo`, errors.E1002},
		{`'foo`, errors.E1002},
		{"\"foo\nbar\"", errors.E1002},
		{`"\x4"`, errors.E1010},
		{`"\u12"`, errors.E1010},
		{`"foo\`, errors.E1002},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := New(tt.input).Next()
			var lexErr *LexError
			require.ErrorAs(t, err, &lexErr)
			require.Equal(t, tt.code, lexErr.Code)
			require.False(t, lexErr.Internal)
		})
	}
}

func TestIdentifiers(t *testing.T) {
	checkTokens(t, `$a _b c1 \u0061bc a\u0062 \u0061bcd`, true, []expected{
		{token.IDENT, "$a"},
		{token.IDENT, "_b"},
		{token.IDENT, "c1"},
		{token.IDENT, "abc"},
		{token.IDENT, "ab"},
		{token.IDENT, "abcd"},
		{token.EOF, ""},
	})
	// An escaped keyword is still the keyword.
	checkTokens(t, `\u0076ar`, true, []expected{
		{token.VAR, "var"},
		{token.EOF, ""},
	})
}

func TestInvalidIdentifierEscapes(t *testing.T) {
	for _, input := range []string{`\u0031abc`, `a\u002d`, `a\x41`, `\u00`} {
		t.Run(input, func(t *testing.T) {
			_, err := New(input).Next()
			var lexErr *LexError
			require.ErrorAs(t, err, &lexErr)
			require.Equal(t, errors.E1010, lexErr.Code)
		})
	}
}

func TestComments(t *testing.T) {
	checkTokens(t, "a /* one */ b /* two\nlines */ c // end", false, []expected{
		{token.IDENT, "a"},
		{token.WHITESPACE, " "},
		{token.COMMENT, "/* one */"},
		{token.WHITESPACE, " "},
		{token.IDENT, "b"},
		{token.WHITESPACE, " "},
		{token.NEWLINE, "/* two\nlines */"},
		{token.WHITESPACE, " "},
		{token.IDENT, "c"},
		{token.WHITESPACE, " "},
		{token.COMMENT, "// end"},
		{token.EOF, ""},
	})

	_, err := New("/* open").Next()
	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
	require.Equal(t, errors.E1007, lexErr.Code)
}

func TestSlashIsDivision(t *testing.T) {
	checkTokens(t, "a / b /c/ d", true, []expected{
		{token.IDENT, "a"},
		{token.SLASH, "/"},
		{token.IDENT, "b"},
		{token.SLASH, "/"},
		{token.IDENT, "c"},
		{token.SLASH, "/"},
		{token.IDENT, "d"},
		{token.EOF, ""},
	})
}

func TestUnknownCharacter(t *testing.T) {
	checkTokens(t, "a # b @", true, []expected{
		{token.IDENT, "a"},
		{token.UNKNOWN, "#"},
		{token.IDENT, "b"},
		{token.UNKNOWN, "@"},
		{token.EOF, ""},
	})
}

func TestReservedWords(t *testing.T) {
	checkTokens(t, "class super enum", true, []expected{
		{token.CLASS, "class"},
		{token.SUPER, "super"},
		{token.ENUM, "enum"},
		{token.EOF, ""},
	})
}

func TestLineNumbers(t *testing.T) {
	l := New("a\nb\r\nc\rd\u2028e")
	var lines []int
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		if tok.Type == token.EOF {
			break
		}
		if tok.Type == token.IDENT {
			lines = append(lines, tok.StartPosition.LineNumber())
		}
	}
	require.Equal(t, []int{1, 2, 3, 4, 5}, lines)
}

func TestErrorLine(t *testing.T) {
	l := New("var a = 1;\nvar b = 'oops\n", WithFile("main.js"))
	var err error
	for err == nil {
		var tok token.Token
		tok, err = l.Next()
		if tok.Type == token.EOF {
			break
		}
	}
	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
	require.Equal(t, 2, lexErr.Line())
	require.Equal(t, 2, errors.LineOf(err))
	require.Equal(t, "var b = 'oops", lexErr.SourceLine)
	msg := lexErr.FriendlyErrorMessage()
	require.Contains(t, msg, "syntax error[E1002]: unterminated string literal")
	require.Contains(t, msg, "--> main.js:2:9")
}

func TestUnreadAcrossLineTerminator(t *testing.T) {
	l := New("a\nb")
	l.read()
	l.read()
	err := l.unread()
	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
	require.True(t, lexErr.Internal)
	require.Contains(t, err.Error(), "internal lexer error")

	l = New("ab")
	l.read()
	require.NoError(t, l.unread())
	require.Equal(t, 'a', l.read())
}

func TestMultipleEOFReads(t *testing.T) {
	l := New("x")
	_, err := l.Next()
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		tok, err := l.Next()
		require.NoError(t, err)
		require.Equal(t, token.EOF, tok.Type)
	}
}

func TestGetLineText(t *testing.T) {
	l := New(" var x = 32; foo = bar\nbar = baz\n")
	tok, err := l.Next()
	require.NoError(t, err)
	require.Equal(t, " var x = 32; foo = bar", l.GetLineText(tok))

	tokens := lexAll(t, "first\nsecond", true)
	require.Equal(t, "second", tokens[1].Literal)
	l = New("first\nsecond")
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		if tok.Literal == "second" {
			require.Equal(t, "second", l.GetLineText(tok))
			break
		}
	}
}

func TestFilenameOption(t *testing.T) {
	l := New("x", WithFile("test.js"))
	require.Equal(t, "test.js", l.Filename())
	tok, err := l.Next()
	require.NoError(t, err)
	require.Equal(t, "test.js", tok.StartPosition.File)
	require.Equal(t, "test.js", tok.EndPosition.File)

	l = New("x")
	l.SetFilename("updated.js")
	require.Equal(t, "updated.js", l.Position().File)
}

func TestTokenPositions(t *testing.T) {
	tokens := lexAll(t, "ab  cd\n  ef", true)
	require.Equal(t, 0, tokens[0].StartPosition.Column)
	require.Equal(t, 2, tokens[0].EndPosition.Column)
	require.Equal(t, 4, tokens[1].StartPosition.Column)
	require.Equal(t, 1, tokens[2].StartPosition.Line)
	require.Equal(t, 2, tokens[2].StartPosition.Column)
}
