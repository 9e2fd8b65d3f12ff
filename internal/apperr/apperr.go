package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	CodeInternal        = "INTERNAL"
	CodeNotFound        = "NOT_FOUND"
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeConflict        = "CONFLICT"
	CodeUnavailable     = "UNAVAILABLE"
)

// Kind sentinels. errors.Is(err, ErrNotFound) matches every error carrying
// the NOT_FOUND code regardless of its message.
var (
	ErrNotFound = &Error{code: CodeNotFound}
	ErrConflict = &Error{code: CodeConflict}
	ErrInvalid  = &Error{code: CodeInvalidArgument}
)

// Error is an application error with a stable code.
type Error struct {
	code    string
	message string
	err     error
}

func New(code, message string) *Error {
	return &Error{code: code, message: message}
}

func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

func NotFoundf(format string, args ...any) *Error {
	return New(CodeNotFound, fmt.Sprintf(format, args...))
}

func Conflict(message string) *Error {
	return New(CodeConflict, message)
}

func Invalid(message string) *Error {
	return New(CodeInvalidArgument, message)
}

func Invalidf(format string, args ...any) *Error {
	return New(CodeInvalidArgument, fmt.Sprintf(format, args...))
}

// Wrap keeps the code of an existing *Error and defaults to INTERNAL otherwise.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return &Error{code: appErr.code, message: message, err: err}
	}

	return &Error{code: CodeInternal, message: message, err: err}
}

func (e *Error) Error() string {
	msg := e.message
	if msg == "" {
		msg = strings.ReplaceAll(strings.ToLower(e.code), "_", " ")
	}
	if e.err != nil {
		return fmt.Sprintf("%s: %s", msg, e.err.Error())
	}
	return msg
}

func (e *Error) Code() string {
	return e.code
}

func (e *Error) Unwrap() error {
	return e.err
}

// Is reports whether target is the kind sentinel for this error's code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.message == "" && t.err == nil && t.code == e.code
}

// InUseError is the conflict returned when a referenced row cannot be
// deleted because other rows still point at it.
type InUseError struct {
	Resource   string
	Dependents string
	Count      int
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("cannot delete %s that is used by %d %s", e.Resource, e.Count, e.Dependents)
}

func (e *InUseError) Code() string {
	return CodeConflict
}

func (e *InUseError) Is(target error) bool {
	return target == ErrConflict
}

// Code returns the code of the first coded error in err's chain, or INTERNAL.
func Code(err error) string {
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return CodeInternal
}

// HTTPStatus maps an error to the response status handlers should use.
func HTTPStatus(err error) int {
	switch Code(err) {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
