package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type lineErr struct {
	line  int
	cause error
}

func (e *lineErr) Error() string { return "line error" }
func (e *lineErr) Line() int     { return e.line }
func (e *lineErr) Unwrap() error { return e.cause }

func TestLineOf(t *testing.T) {
	require.Equal(t, 0, LineOf(nil))
	require.Equal(t, 0, LineOf(stderrors.New("plain")))
	require.Equal(t, 7, LineOf(&lineErr{line: 7}))

	wrapped := fmt.Errorf("outer: %w", &lineErr{line: 3})
	require.Equal(t, 3, LineOf(wrapped))

	// A zero line defers to the cause.
	nested := &lineErr{line: 0, cause: &lineErr{line: 12}}
	require.Equal(t, 12, LineOf(nested))
}

func TestCodeCategories(t *testing.T) {
	require.Equal(t, "parse", E1001.Category())
	require.Equal(t, "compile", E2011.Category())
	require.Equal(t, "unknown", ErrorCode("X").Category())
	require.Equal(t, "duplicate default clause", E1012.Description())
	require.Equal(t, "unknown error", ErrorCode("E9999").Description())
	require.Equal(t, "E2003", E2003.String())
}

func TestCompileErrorMessage(t *testing.T) {
	err := &CompileError{
		Code:     E2003,
		Message:  "break outside of loop or switch",
		Filename: "main.js",
		Line:     4,
	}
	require.Equal(t, "compile error: break outside of loop or switch (main.js:line 4)", err.Error())
	require.Equal(t, 4, err.LineNumber())

	bare := &CompileError{Message: "too many constants"}
	require.Equal(t, "compile error: too many constants", bare.Error())
}

func TestFriendlyCompileError(t *testing.T) {
	err := &CompileError{
		Code:        E2003,
		Message:     "undefined label 'outr'",
		Filename:    "main.js",
		Line:        2,
		Column:      9,
		SourceLine:  "  break outr;",
		Suggestions: []Suggestion{{Value: "outer", Distance: 1}},
	}
	msg := Friendly(err)
	require.True(t, strings.HasPrefix(msg, "compile error[E2003]: undefined label 'outr'\n"), msg)
	require.Contains(t, msg, "--> main.js:2:9")
	require.Contains(t, msg, " 2 |   break outr;")
	require.Contains(t, msg, "hint: did you mean 'outer'?")
	require.Equal(t, "plain", Friendly(stderrors.New("plain")))
}

func TestFormatterCaretSpan(t *testing.T) {
	f := NewFormatter(false)
	out := f.Format(&FormattedError{
		Kind:        "syntax error",
		Message:     "unexpected token",
		Line:        1,
		Column:      5,
		EndColumn:   7,
		SourceLines: []SourceLineEntry{{Number: 1, Text: "var 123", IsMain: true}},
	})
	lines := strings.Split(out, "\n")
	require.Equal(t, "syntax error: unexpected token", lines[0])
	require.Equal(t, "  --> 1:5", lines[1])
	require.Equal(t, "   |     ^^^", lines[4])
}

func TestFormatterColor(t *testing.T) {
	plain := NewFormatter(false).Format(&FormattedError{Message: "boom"})
	colored := NewFormatter(true).Format(&FormattedError{Message: "boom"})
	require.Equal(t, "error: boom\n", plain)
	require.NotEqual(t, plain, colored)
	require.Contains(t, colored, "\x1b[")
}

func TestSuggestSimilar(t *testing.T) {
	got := SuggestSimilar("lop", []string{"loop", "outer", "lop", "top", "loop"})
	require.Len(t, got, 2)
	require.Equal(t, "loop", got[0].Value)
	require.Equal(t, "top", got[1].Value)

	require.Nil(t, SuggestSimilar("", []string{"a"}))
	require.Empty(t, SuggestSimilar("outer", []string{"zzzzzzzz"}))
	// Case matters for identifiers.
	require.Equal(t, 1, SuggestSimilar("Outer", []string{"outer"})[0].Distance)
}

func TestFormatSuggestions(t *testing.T) {
	require.Equal(t, "", FormatSuggestions(nil))
	require.Equal(t, "did you mean one of: 'a', 'b'?",
		FormatSuggestions([]Suggestion{{Value: "a"}, {Value: "b"}}))
}

func TestLevenshtein(t *testing.T) {
	require.Equal(t, 3, levenshteinDistance("", "abc"))
	require.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
	require.Equal(t, 0, levenshteinDistance("same", "same"))
}
