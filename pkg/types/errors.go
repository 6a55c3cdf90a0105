package types

import "fmt"

// ErrorCode classifies a formula error.
type ErrorCode string

// Error codes surfaced by the engine.
const (
	// Parse-time errors
	ErrParse ErrorCode = "PARSE_ERROR"

	// Evaluation-time errors
	ErrUnknownFunction   ErrorCode = "UNKNOWN_FUNCTION"
	ErrInvalidArguments  ErrorCode = "INVALID_ARGUMENTS"
	ErrUnknownReference  ErrorCode = "UNKNOWN_REFERENCE"
	ErrDivisionByZero    ErrorCode = "DIVISION_BY_ZERO"
	ErrType              ErrorCode = "TYPE_ERROR"
	ErrCircularReference ErrorCode = "CIRCULAR_REFERENCE"
	ErrAsync             ErrorCode = "ASYNC_ERROR"
	ErrTimeout           ErrorCode = "TIMEOUT"
)

// Error represents a structured formula error with an optional source position.
type Error struct {
	Code     ErrorCode
	Message  string
	Position int // Offset into the source string, or -1 when unknown
	Token    string
	Err      error
}

// NewError creates a new formula error.
func NewError(code ErrorCode, message string, position int) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Position: position,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s at position %d: %s", e.Code, e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithToken adds token information to the error.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}
