package snappage

import (
	"errors"
	"fmt"
)

// Common errors used throughout the snappage packages
var (
	// ErrAmbiguousQuote is returned when strict attribute unquoting finds a bare quote character.
	// Attribute errors
	ErrAmbiguousQuote = errors.New("attribute value contains an unescaped quote character")

	// ErrInvalidQuoting indicates a quoted EL literal used an unsupported escape sequence.
	// Expression language errors
	ErrInvalidQuoting = errors.New("invalid escape inside quoted string literal")
	// ErrUnterminatedQuote indicates a quoted EL literal was never closed.
	ErrUnterminatedQuote = errors.New("unterminated quoted string literal")
	// ErrTruncatedExpression indicates an expression was opened but never closed.
	ErrTruncatedExpression = errors.New("unterminated expression")
	// ErrInvalidLiteralQuoting indicates quoted text starts and ends with different quote characters.
	ErrInvalidLiteralQuoting = errors.New("mismatched quotes for string literal")
	// ErrMapNameAlreadySet indicates a second function map name was assigned to the same expression.
	ErrMapNameAlreadySet = errors.New("function map name already assigned")
	// ErrUnknownFunctionPrefix indicates a function prefix is not bound to any function library.
	ErrUnknownFunctionPrefix = errors.New("unknown function prefix")
	// ErrUnknownFunction indicates a function library has no function with the requested name.
	ErrUnknownFunction = errors.New("unknown function")

	// ErrUnknownSourceFile indicates line data referenced a file missing from the stratum file table.
	// Source map errors
	ErrUnknownSourceFile = errors.New("source file is not registered in stratum")
	// ErrNoOutputFileName indicates an SMAP generator was rendered without an output file name.
	ErrNoOutputFileName = errors.New("smap output file name is not set")
)

// SourceError is a fatal analysis error bound to a position in the template source.
// It unwraps to one of the sentinel errors above.
type SourceError struct {
	Err     error
	File    string
	Line    int
	Column  int
	Message string
}

// NewSourceError creates a SourceError for the given sentinel and position.
func NewSourceError(err error, file string, line, column int, message string) *SourceError {
	return &SourceError{
		Err:     err,
		File:    file,
		Line:    line,
		Column:  column,
		Message: message,
	}
}

// Error implements the error interface
func (e *SourceError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Err.Error()
	}

	switch {
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, msg)
	case e.Line > 0:
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, msg)
	default:
		return msg
	}
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
