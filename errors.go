package tutor

import (
	"github.com/wubrg/tutor/internal/query"
)

// The three error kinds compilation can produce. Each carries the
// byte offset into the original query where the problem starts, so
// callers can point a caret at it.
type (
	// SyntaxError reports malformed query text.
	SyntaxError = query.SyntaxError
	// UnknownFieldError reports a field prefix the registry does not
	// know.
	UnknownFieldError = query.UnknownFieldError
	// TypeError reports an operator or value that does not fit the
	// field's type.
	TypeError = query.TypeError
)

// AsSyntaxError unwraps err as a SyntaxError.
func AsSyntaxError(err error) (*SyntaxError, bool) {
	return query.AsSyntaxError(err)
}

// AsUnknownFieldError unwraps err as an UnknownFieldError.
func AsUnknownFieldError(err error) (*UnknownFieldError, bool) {
	return query.AsUnknownFieldError(err)
}

// AsTypeError unwraps err as a TypeError.
func AsTypeError(err error) (*TypeError, bool) {
	return query.AsTypeError(err)
}
