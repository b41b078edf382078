package query

import (
	"errors"
	"fmt"
)

// Pre-defined errors for conditions that carry no per-query detail.

var (
	// General errors
	errUnsupportedNode      = errors.New("unsupported query node type")
	errUnsupportedOperand   = errors.New("unsupported numeric operand type")
	errRegistryRequired     = errors.New("field registry is required")
	errUnknownDialect       = errors.New("unknown SQL dialect")
	errInvalidSQLIdentifier = errors.New("invalid SQL identifier in column binding")

	// Order-by errors
	errOrderByEmpty            = errors.New("empty order expression")
	errOrderByInvalidDirection = errors.New("invalid direction for sort key, expected 'asc' or 'desc'")
)

// SyntaxError reports malformed query text. Position points at the
// offending byte in the original query string.
type SyntaxError struct {
	// Position is the byte offset into the query string.
	Position int

	// Message describes what was expected and what was found.
	Message string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at position %d: %s", e.Position, e.Message)
}

// syntaxErrorf builds a SyntaxError at the given position.
func syntaxErrorf(pos int, format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{Position: pos, Message: fmt.Sprintf(format, args...)}
}

// UnknownFieldError reports a field prefix that the registry does not
// resolve.
type UnknownFieldError struct {
	// Alias is the unresolved field prefix as typed.
	Alias string

	// Position is the byte offset of the alias in the query string.
	Position int
}

// Error implements the error interface.
func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q at position %d", e.Alias, e.Position)
}

// TypeError reports an operator or value applied to a field whose type
// does not support it. The query parsed; it just does not type-check.
type TypeError struct {
	// Field is the canonical name of the offending field.
	Field string

	// Operator is the operator as typed, empty when the value itself
	// is at fault.
	Operator string

	// Reason describes the mismatch.
	Reason string

	// Position is the byte offset of the predicate in the query string.
	Position int
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	if e.Operator != "" {
		return fmt.Sprintf("type error at position %d: field %q does not support %q: %s", e.Position, e.Field, e.Operator, e.Reason)
	}
	return fmt.Sprintf("type error at position %d: field %q: %s", e.Position, e.Field, e.Reason)
}

// AsSyntaxError unwraps err into a SyntaxError if one is present.
func AsSyntaxError(err error) (*SyntaxError, bool) {
	var syntaxErr *SyntaxError
	ok := errors.As(err, &syntaxErr)
	return syntaxErr, ok
}

// AsUnknownFieldError unwraps err into an UnknownFieldError if one is
// present.
func AsUnknownFieldError(err error) (*UnknownFieldError, bool) {
	var fieldErr *UnknownFieldError
	ok := errors.As(err, &fieldErr)
	return fieldErr, ok
}

// AsTypeError unwraps err into a TypeError if one is present.
func AsTypeError(err error) (*TypeError, bool) {
	var typeErr *TypeError
	ok := errors.As(err, &typeErr)
	return typeErr, ok
}
