package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies domain errors so transport layers can map them
// to protocol-specific status codes.
type ErrorCode string

const (
	CodeValidation        ErrorCode = "VALIDATION"
	CodeNotFound          ErrorCode = "NOT_FOUND"
	CodeTerminalState     ErrorCode = "TERMINAL_STATE"
	CodeIllegalTransition ErrorCode = "ILLEGAL_TRANSITION"
	CodeConflict          ErrorCode = "CONFLICT"
	CodeForbidden         ErrorCode = "FORBIDDEN"
	CodeUnauthorized      ErrorCode = "UNAUTHORIZED"
)

// Error is a domain error carrying a machine-readable code and a
// human-readable message.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewValidationError reports invalid caller-supplied input.
func NewValidationError(message string) *Error {
	return &Error{Code: CodeValidation, Message: message}
}

// NewNotFoundError reports that an entity does not exist.
func NewNotFoundError(entity, id string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

// NewTerminalStateError reports an attempted mutation of an entity that has
// reached a state with no outbound transitions.
func NewTerminalStateError(status string) *Error {
	return &Error{Code: CodeTerminalState, Message: fmt.Sprintf("status %s is terminal and cannot be changed", status)}
}

// NewIllegalTransitionError reports a transition that is not in the allowed graph.
func NewIllegalTransitionError(from, to string) *Error {
	return &Error{Code: CodeIllegalTransition, Message: fmt.Sprintf("transition from %s to %s is not allowed", from, to)}
}

// NewConflictError reports a concurrent-modification conflict.
func NewConflictError(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

// NewForbiddenError reports an authorization failure.
func NewForbiddenError(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

// NewUnauthorizedError reports a missing or invalid identity.
func NewUnauthorizedError(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

// IsCode reports whether err is a domain error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf returns the domain error code of err, or empty string if err is not
// a domain error.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
