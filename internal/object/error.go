package object

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	BRACKET_MISMATCH    = "BRACKET_MISMATCH"
	INVALID_EXPRESSION  = "INVALID_EXPRESSION"
	INVALID_INTEGER     = "INVALID_INTEGER"
	VARIABLE_NOT_FOUND  = "VARIABLE_NOT_FOUND"
	OPERATION_OVERFLOW  = "OPERATION_OVERFLOW"
	OPERATION_UNDERFLOW = "OPERATION_UNDERFLOW"
	DIVIDE_BY_ZERO      = "DIVIDE_BY_ZERO"
	VOID_OPERATION      = "VOID_OPERATION"
	INVALID_DEREFERENCE = "INVALID_DEREFERENCE"
	UNINITIALIZED       = "UNINITIALIZED"
	NO_INPUT            = "NO_INPUT"
	UNHANDLED           = "UNHANDLED"
)

// Error is the single failure type of the evaluation core. Detail carries the
// bracket, variable name or message for the kinds that have one.
type Error struct {
	Kind   ErrorKind
	Detail string

	// Position is the byte offset of the offending token in the fed source.
	// It is meaningful only when Located is set.
	Position int
	Located  bool
}

// At returns a copy of e located at pos. An error that already has a
// location is returned unchanged.
func (e *Error) At(pos int) *Error {
	if e.Located {
		return e
	}
	located := *e
	located.Position = pos
	located.Located = true
	return &located
}

// Sentinels for errors.Is; matching compares kinds only.
var (
	ErrBracketMismatch    = &Error{Kind: BRACKET_MISMATCH}
	ErrInvalidExpression  = &Error{Kind: INVALID_EXPRESSION}
	ErrInvalidInteger     = &Error{Kind: INVALID_INTEGER}
	ErrVariableNotFound   = &Error{Kind: VARIABLE_NOT_FOUND}
	ErrOperationOverflow  = &Error{Kind: OPERATION_OVERFLOW}
	ErrOperationUnderflow = &Error{Kind: OPERATION_UNDERFLOW}
	ErrDivideByZero       = &Error{Kind: DIVIDE_BY_ZERO}
	ErrVoidOperation      = &Error{Kind: VOID_OPERATION}
	ErrInvalidDereference = &Error{Kind: INVALID_DEREFERENCE}
	ErrUninitialized      = &Error{Kind: UNINITIALIZED}
	ErrNoInput            = &Error{Kind: NO_INPUT}
	ErrUnhandled          = &Error{Kind: UNHANDLED}
)

func NewError(kind ErrorKind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

func BracketError(bracket string) *Error {
	return &Error{Kind: BRACKET_MISMATCH, Detail: bracket}
}

func InvalidExpression(format string, a ...interface{}) *Error {
	return &Error{Kind: INVALID_EXPRESSION, Detail: fmt.Sprintf(format, a...)}
}

func VariableNotFound(name string) *Error {
	return &Error{Kind: VARIABLE_NOT_FOUND, Detail: name}
}

func (e *Error) Error() string {
	switch e.Kind {
	case BRACKET_MISMATCH:
		return fmt.Sprintf("There are no corresponding brackets to %q.", e.Detail)
	case INVALID_EXPRESSION:
		return "Invalid expression: " + e.Detail
	case INVALID_INTEGER:
		if e.Detail != "" {
			return fmt.Sprintf("Invalid integer %q.", e.Detail)
		}
		return "Invalid integer."
	case VARIABLE_NOT_FOUND:
		return fmt.Sprintf("Variable %q was not found.", e.Detail)
	case OPERATION_OVERFLOW:
		return "Overflow occurred."
	case OPERATION_UNDERFLOW:
		return "Underflow occurred."
	case DIVIDE_BY_ZERO:
		return "Divide by zero."
	case VOID_OPERATION:
		return "Cannot operate with void."
	case INVALID_DEREFERENCE:
		return "Invalid dereference."
	case UNINITIALIZED:
		if e.Detail != "" {
			return fmt.Sprintf("Variable %q was uninitialized.", e.Detail)
		}
		return "Variable was uninitialized."
	case NO_INPUT:
		return "No input."
	default:
		if e.Detail != "" {
			return "Unhandled error: " + e.Detail
		}
		return "Unhandled error."
	}
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or "" when there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
