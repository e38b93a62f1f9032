package parser

import (
	stderrors "errors"
	"fmt"

	"github.com/cloudcmds/minijoe/errors"
	"github.com/cloudcmds/minijoe/internal/lexer"
	"github.com/cloudcmds/minijoe/internal/token"
)

// ErrorOpts is a struct that holds a variety of error data.
// All fields are optional, although one of `Cause` or `Message`
// are recommended. If `Cause` is set and `Message` is empty, the
// message of the cause is used.
type ErrorOpts struct {
	ErrType       string
	Code          errors.ErrorCode
	Message       string
	Cause         error
	File          string
	StartPosition token.Position
	EndPosition   token.Position
	SourceCode    string
	// Positioned is false when the error only wraps a cause that carries
	// its own location.
	Positioned bool
}

// ParseError is returned for any input the parser rejects. The first error
// aborts parsing.
type ParseError struct {
	errType       string
	code          errors.ErrorCode
	message       string
	cause         error
	file          string
	startPosition token.Position
	endPosition   token.Position
	sourceCode    string
	positioned    bool
}

// NewParseError returns a new ParseError populated with the given error data.
func NewParseError(opts ErrorOpts) *ParseError {
	if opts.ErrType == "" {
		opts.ErrType = "syntax error"
	}
	return &ParseError{
		errType:       opts.ErrType,
		code:          opts.Code,
		message:       opts.Message,
		cause:         opts.Cause,
		file:          opts.File,
		startPosition: opts.StartPosition,
		endPosition:   opts.EndPosition,
		sourceCode:    opts.SourceCode,
		positioned:    opts.Positioned,
	}
}

func (e *ParseError) Error() string {
	msg := e.Message()
	if line := e.Line(); line > 0 {
		loc := fmt.Sprintf("line %d", line)
		if e.file != "" {
			loc = fmt.Sprintf("%s:%d", e.file, line)
		}
		return fmt.Sprintf("%s at %s: %s", e.errType, loc, msg)
	}
	return fmt.Sprintf("%s: %s", e.errType, msg)
}

// Line returns the 1-based line of the error. An error that only wraps a
// cause reports the line of the innermost cause that has one.
func (e *ParseError) Line() int {
	if e.positioned {
		return e.startPosition.LineNumber()
	}
	return errors.LineOf(e.cause)
}

func (e *ParseError) FriendlyErrorMessage() string {
	return errors.NewFormatter(false).Format(e.ToFormatted())
}

// ToFormatted converts the parser error to a FormattedError for display.
func (e *ParseError) ToFormatted() *errors.FormattedError {
	var lexErr *lexer.LexError
	if !e.positioned && stderrors.As(e.cause, &lexErr) {
		fe := lexErr.ToFormatted()
		fe.Kind = e.errType
		return fe
	}
	start := e.startPosition
	end := e.endPosition
	fe := &errors.FormattedError{
		Code:     e.code,
		Kind:     e.errType,
		Message:  e.Message(),
		Filename: e.file,
		Line:     e.Line(),
	}
	if e.positioned {
		fe.Column = start.ColumnNumber()
		if end.Line == start.Line && end.Column > start.Column {
			fe.EndColumn = end.Column
		}
		fe.SourceLines = []errors.SourceLineEntry{
			{Number: start.LineNumber(), Text: e.sourceCode, IsMain: true},
		}
	}
	return fe
}

// Code returns the error code, falling back to the code of a wrapped lexer
// error.
func (e *ParseError) Code() errors.ErrorCode {
	var lexErr *lexer.LexError
	if e.code == "" && stderrors.As(e.cause, &lexErr) {
		return lexErr.Code
	}
	return e.code
}

func (e *ParseError) Message() string {
	if e.message == "" && e.cause != nil {
		return e.cause.Error()
	}
	return e.message
}

func (e *ParseError) Type() string {
	return e.errType
}

func (e *ParseError) Cause() error {
	return e.cause
}

func (e *ParseError) Unwrap() error {
	return e.cause
}

func (e *ParseError) File() string {
	return e.file
}

func (e *ParseError) StartPosition() token.Position {
	return e.startPosition
}

func (e *ParseError) EndPosition() token.Position {
	return e.endPosition
}

func (e *ParseError) SourceCode() string {
	return e.sourceCode
}

func tokenDescription(t token.Token) string {
	switch t.Type {
	case token.EOF:
		return "end of input"
	case token.STRING:
		return fmt.Sprintf("string %q", t.Literal)
	case token.IDENT:
		return fmt.Sprintf("identifier %q", t.Literal)
	}
	if t.Type.IsNumber() {
		return "number " + t.Literal
	}
	return fmt.Sprintf("%q", t.Literal)
}

func tokenTypeDescription(t token.Type) string {
	switch t {
	case token.EOF:
		return "end of input"
	case token.IDENT:
		return "identifier"
	}
	return fmt.Sprintf("%q", string(t))
}
