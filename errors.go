package loom

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorCode uint16

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeTokenNotFound
	ErrCodeSelfDependency
	ErrCodeMissingDependencies
	ErrCodeCircularDependency
	ErrCodeTypeMismatch
	ErrCodeDisposeFailed
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:             "UNKNOWN",
	ErrCodeTokenNotFound:       "TOKEN_NOT_FOUND",
	ErrCodeSelfDependency:      "SELF_DEPENDENCY",
	ErrCodeMissingDependencies: "MISSING_DEPENDENCIES",
	ErrCodeCircularDependency:  "CIRCULAR_DEPENDENCY",
	ErrCodeTypeMismatch:        "TYPE_MISMATCH",
	ErrCodeDisposeFailed:       "DISPOSE_FAILED",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", c)
}

// Error is the error type for every failure the engine raises itself.
// Failures coming out of user build functions are never converted: they
// propagate to the caller untouched.
type Error struct {
	Code    ErrorCode
	Message string
	Token   string
	Tokens  []string
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]", e.Code))

	if e.Token != "" {
		b.WriteString(fmt.Sprintf(" token=%q:", e.Token))
	}

	b.WriteString(" ")
	b.WriteString(e.Message)

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

func (e *Error) WithTokens(tokens []string) *Error {
	e.Tokens = tokens
	return e
}

func newError(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func errTokenNotFound(token string) *Error {
	return newError(
		ErrCodeTokenNotFound,
		fmt.Sprintf("no factory registered for token %s", token),
		nil,
	).WithToken(token)
}

func errSelfDependency(token string) *Error {
	return newError(
		ErrCodeSelfDependency,
		fmt.Sprintf("factory for %s depends on its own token", token),
		nil,
	).WithToken(token)
}

func errMissingDependencies(tokens []string) *Error {
	return newError(
		ErrCodeMissingDependencies,
		fmt.Sprintf("no factory registered for dependency tokens: %s", strings.Join(tokens, ", ")),
		nil,
	).WithTokens(tokens)
}

func errCircularDependency(chain []string) *Error {
	return newError(
		ErrCodeCircularDependency,
		fmt.Sprintf("circular dependency detected: %s", strings.Join(chain, " -> ")),
		nil,
	).WithTokens(chain)
}

func errTypeMismatch(token string) *Error {
	return newError(
		ErrCodeTypeMismatch,
		fmt.Sprintf("resolved value for %s has an unexpected type", token),
		nil,
	).WithToken(token)
}

func errDisposeFailed(cause error) *Error {
	return newError(ErrCodeDisposeFailed, "dispose hooks failed", cause)
}

func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeTokenNotFound
}

func IsSelfDependency(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeSelfDependency
}

func IsMissingDependencies(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeMissingDependencies
}

func IsCircularDependency(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeCircularDependency
}

// IsGraphDefinition reports whether err is any of the construction-time
// validation failures raised by New.
func IsGraphDefinition(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Code {
	case ErrCodeSelfDependency, ErrCodeMissingDependencies, ErrCodeCircularDependency:
		return true
	default:
		return false
	}
}

func IsTypeMismatch(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeTypeMismatch
}

func IsDisposeFailed(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeDisposeFailed
}
