package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Test looking up values succeeds, then fails
func TestLookup(t *testing.T) {
	for key, val := range keywords {
		require.Equal(t, val, LookupIdentifier(key), "lookup of %s", key)

		// Keywords are case sensitive, so uppercase versions are identifiers.
		require.Equal(t, IDENT, LookupIdentifier(strings.ToUpper(key)), "lookup of %s", key)
	}
}

func TestKeywordTypesMatchText(t *testing.T) {
	for key, val := range keywords {
		require.Equal(t, key, string(val))
		require.True(t, val.IsKeyword())
	}
	require.False(t, IDENT.IsKeyword())
	require.False(t, PLUS.IsKeyword())
}

func TestReserved(t *testing.T) {
	require.True(t, CLASS.IsReserved())
	require.True(t, SUPER.IsReserved())
	require.False(t, VAR.IsReserved())
	require.False(t, IDENT.IsReserved())
}

func TestLiteralKinds(t *testing.T) {
	for _, typ := range []Type{IDENT, STRING, DECIMAL, OCTAL, HEXADECIMAL, FLOAT} {
		require.True(t, typ.IsLiteral(), typ)
		require.True(t, Token{Type: typ}.HasValue())
	}
	for _, typ := range []Type{EOF, NEWLINE, VAR, PLUS, GT_GT_GT_EQUALS} {
		require.False(t, typ.IsLiteral(), typ)
	}
	require.True(t, OCTAL.IsNumber())
	require.False(t, STRING.IsNumber())
}

func TestWhitespaceFamily(t *testing.T) {
	require.True(t, NEWLINE.IsWhitespace())
	require.True(t, COMMENT.IsWhitespace())
	require.True(t, WHITESPACE.IsWhitespace())
	require.False(t, EOF.IsWhitespace())
	require.False(t, SEMICOLON.IsWhitespace())
}

func TestPosition(t *testing.T) {
	tok := Token{
		Type:    IDENT,
		Literal: "foo",
		StartPosition: Position{
			Line:   2,
			Column: 0,
		},
	}
	// Switches to 1-indexed
	require.Equal(t, 3, tok.StartPosition.LineNumber())
	require.Equal(t, 1, tok.StartPosition.ColumnNumber())
}
