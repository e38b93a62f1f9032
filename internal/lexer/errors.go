package lexer

import (
	"fmt"

	"github.com/cloudcmds/minijoe/errors"
	"github.com/cloudcmds/minijoe/internal/token"
)

// LexError describes malformed input found while scanning. Internal errors
// indicate misuse of the cursor by the lexer itself rather than bad input.
type LexError struct {
	Code       errors.ErrorCode
	Message    string
	Position   token.Position
	SourceLine string
	Cause      error
	Internal   bool
}

func (e *LexError) Error() string {
	if e.Internal {
		return fmt.Sprintf("internal lexer error: %s", e.Message)
	}
	return e.Message
}

// Line returns the 1-based line on which the error occurred.
func (e *LexError) Line() int {
	return e.Position.LineNumber()
}

func (e *LexError) Unwrap() error {
	return e.Cause
}

func (e *LexError) FriendlyErrorMessage() string {
	return errors.NewFormatter(false).Format(e.ToFormatted())
}

// ToFormatted converts the error for display with errors.Formatter.
func (e *LexError) ToFormatted() *errors.FormattedError {
	fe := &errors.FormattedError{
		Code:     e.Code,
		Kind:     "syntax error",
		Message:  e.Message,
		Filename: e.Position.File,
		Line:     e.Position.LineNumber(),
		Column:   e.Position.ColumnNumber(),
	}
	if e.SourceLine != "" {
		fe.SourceLines = []errors.SourceLineEntry{
			{Number: e.Position.LineNumber(), Text: e.SourceLine, IsMain: true},
		}
	}
	return fe
}

func (l *Lexer) errorf(pos token.Position, code errors.ErrorCode, format string, args ...any) *LexError {
	return &LexError{
		Code:       code,
		Message:    fmt.Sprintf(format, args...),
		Position:   pos,
		SourceLine: l.lineText(pos),
	}
}
