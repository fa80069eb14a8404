package common

import (
	"errors"
	"fmt"
)

// Error categories. Callers branch with errors.Is; the user-facing message is
// whatever the constructor was given.
var (
	ErrValidation    = errors.New("validation error")
	ErrConflict      = errors.New("conflict")
	ErrNotFound      = errors.New("not found")
	ErrConfiguration = errors.New("configuration error")
	ErrRemote        = errors.New("remote error")
	ErrProtocol      = errors.New("protocol error")
)

type taggedError struct {
	kind error
	msg  string
}

func (e *taggedError) Error() string { return e.msg }

func (e *taggedError) Unwrap() error { return e.kind }

func Validationf(format string, args ...any) error {
	return &taggedError{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) error {
	return &taggedError{kind: ErrConflict, msg: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) error {
	return &taggedError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

func Configurationf(format string, args ...any) error {
	return &taggedError{kind: ErrConfiguration, msg: fmt.Sprintf(format, args...)}
}

func Remotef(format string, args ...any) error {
	return &taggedError{kind: ErrRemote, msg: fmt.Sprintf(format, args...)}
}

func Protocolf(format string, args ...any) error {
	return &taggedError{kind: ErrProtocol, msg: fmt.Sprintf(format, args...)}
}
