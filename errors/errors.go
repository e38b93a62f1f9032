// Package errors defines the error codes, compile errors, and the friendly
// error formatter shared by the lexer, parser, and code generator.
package errors

import (
	stderrors "errors"
	"fmt"
)

// SourceLocation represents a position in source code.
type SourceLocation struct {
	Filename string
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Source   string // The line of source code
}

// String returns a formatted string representation of the source location.
func (s SourceLocation) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsZero returns true if the location has not been set.
func (s SourceLocation) IsZero() bool {
	return s.Line == 0 && s.Column == 0
}

// FriendlyError is an interface for errors that have a human friendly message
// in addition to a the lower level default error message.
type FriendlyError interface {
	Error() string
	FriendlyErrorMessage() string
}

// FormattableError is an interface for errors that can be formatted with
// the enhanced error formatter (with colors, source context, etc).
type FormattableError interface {
	Error() string
	ToFormatted() *FormattedError
}

// LineError is implemented by errors that know the 1-based source line on
// which they occurred. A zero line means the error has no line of its own.
type LineError interface {
	error
	Line() int
}

// LineOf returns the first non-zero line number found while walking the
// error chain, or 0 if no error in the chain carries one.
func LineOf(err error) int {
	for err != nil {
		var le LineError
		if !stderrors.As(err, &le) {
			return 0
		}
		if line := le.Line(); line > 0 {
			return line
		}
		err = stderrors.Unwrap(le)
	}
	return 0
}

// Friendly returns the friendly message for err when it has one, and its
// plain message otherwise.
func Friendly(err error) string {
	var fe FriendlyError
	if stderrors.As(err, &fe) {
		return fe.FriendlyErrorMessage()
	}
	return err.Error()
}
