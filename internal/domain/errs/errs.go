package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can decide whether to surface,
// retry, or degrade.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindSequence    Kind = "sequence"
	KindNotFound    Kind = "not_found"
	KindPersistence Kind = "persistence"
)

// Error is the common error shape for the core engines.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports invalid caller input. Never retried.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// Sequence reports a step prerequisite violation. Never retried.
func Sequence(format string, args ...any) *Error {
	return &Error{Kind: KindSequence, Msg: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing batch, material or ledger entry.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Persistence wraps a store failure.
func Persistence(msg string, err error) *Error {
	return &Error{Kind: KindPersistence, Msg: msg, Err: err}
}

// IsKind reports whether err (or anything it wraps) carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func IsValidation(err error) bool  { return IsKind(err, KindValidation) }
func IsSequence(err error) bool    { return IsKind(err, KindSequence) }
func IsNotFound(err error) bool    { return IsKind(err, KindNotFound) }
func IsPersistence(err error) bool { return IsKind(err, KindPersistence) }
