package apperror

import "errors"

// Kinds understood by the HTTP layer. Match them with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
)

type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Is(target error) bool {
	return target == e.kind
}

// Kind returns the sentinel this error belongs to.
func (e *Error) Kind() error {
	return e.kind
}

func NotFound(msg string) *Error {
	return &Error{kind: ErrNotFound, msg: msg}
}

func Validation(msg string) *Error {
	return &Error{kind: ErrValidation, msg: msg}
}

func Conflict(msg string) *Error {
	return &Error{kind: ErrConflict, msg: msg}
}

// Forbidden is for callers that are authenticated but may not touch the resource.
func Forbidden(msg string) *Error {
	return &Error{kind: ErrForbidden, msg: msg}
}
