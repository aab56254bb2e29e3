// Package apperr classifies errors into the kinds the service surfaces to callers.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the caller-facing category of an error.
type Kind string

const (
	// KindValidation is bad caller input: unsupported files, short text, missing fields.
	KindValidation Kind = "validation"
	// KindNotFound is a lookup for something that does not exist.
	KindNotFound Kind = "not_found"
	// KindData is a missing or malformed reference dataset.
	KindData Kind = "data"
	// KindCapability is an optional parser or tool that is not installed.
	KindCapability Kind = "capability"
	// KindCollaborator is a failing external collaborator such as the LLM.
	KindCollaborator Kind = "collaborator"
	// KindUnexpected is anything else.
	KindUnexpected Kind = "unexpected"
)

// Error carries a Kind alongside a message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, cause error, msg string) error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

// Validation returns a validation error with the given message.
func Validation(format string, args ...any) error {
	return newError(KindValidation, nil, fmt.Sprintf(format, args...))
}

// NotFound returns a not-found error with the given message.
func NotFound(format string, args ...any) error {
	return newError(KindNotFound, nil, fmt.Sprintf(format, args...))
}

// Data wraps cause as a data integrity error.
func Data(cause error, msg string) error {
	return newError(KindData, cause, msg)
}

// Dataf returns a data integrity error without a cause.
func Dataf(format string, args ...any) error {
	return newError(KindData, nil, fmt.Sprintf(format, args...))
}

// Capability returns a missing-capability error.
func Capability(format string, args ...any) error {
	return newError(KindCapability, nil, fmt.Sprintf(format, args...))
}

// Collaborator wraps cause as a collaborator failure.
func Collaborator(cause error, msg string) error {
	return newError(KindCollaborator, cause, msg)
}

// KindOf returns the Kind of the first classified error in err's chain,
// or KindUnexpected if none is found.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnexpected
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
