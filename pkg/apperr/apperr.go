package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of application error. Codes are stable across
// releases; handlers map them to HTTP statuses and clients may branch on
// them.
type Code int

const (
	CodeValidation Code = iota + 1000
	CodeConflict
	CodeNotFound
	CodeInvalidRange
	CodeOutsideWorkingHours
	CodeSlotTaken
	CodeInvalidTransition
	CodeStorage
)

// Error is the application error type. Message is safe to show to API
// clients; Err carries the internal cause for logs.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode maps the error class to an HTTP status. Domain rejections are
// 422 rather than 409 so clients get one status for "request understood but
// not bookable".
func (e *Error) StatusCode() int {
	switch e.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeStorage:
		return http.StatusInternalServerError
	default:
		return http.StatusUnprocessableEntity
	}
}

func Validation(message string, err error) *Error {
	return &Error{Code: CodeValidation, Message: message, Err: err}
}

func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

func NotFound(resource string, err error) *Error {
	return &Error{Code: CodeNotFound, Message: resource + " not found", Err: err}
}

func InvalidRange(message string) *Error {
	return &Error{Code: CodeInvalidRange, Message: message}
}

func OutsideWorkingHours(message string) *Error {
	return &Error{Code: CodeOutsideWorkingHours, Message: message}
}

func SlotTaken(message string) *Error {
	return &Error{Code: CodeSlotTaken, Message: message}
}

func InvalidTransition(message string) *Error {
	return &Error{Code: CodeInvalidTransition, Message: message}
}

func Storage(err error) *Error {
	return &Error{Code: CodeStorage, Message: "storage operation failed", Err: err}
}

// CodeOf returns the application code of err, or 0 when err is not an
// application error anywhere in its chain.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return 0
}

// Is reports whether err carries the given application code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}
