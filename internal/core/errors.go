package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the failures the task store surfaces to callers.
type ErrorKind string

const (
	// KindValidation marks input rejected before any network call.
	KindValidation ErrorKind = "validation"
	// KindNotFound marks operations on an id the service does not know.
	KindNotFound ErrorKind = "not_found"
	// KindUnavailable marks transport failures reaching the service.
	KindUnavailable ErrorKind = "service_unavailable"
	// KindServer marks non-2xx responses not otherwise classified.
	KindServer ErrorKind = "server_error"
)

// ErrSuperseded is returned by Load when a newer load was issued before
// the response arrived; the stale result was discarded and the stored
// collection is unchanged.
var ErrSuperseded = errors.New("load superseded by a newer load")

// Error is the typed error returned across the store boundary. The UI
// layers switch on Kind for display; Message is safe to show as-is.
type Error struct {
	Kind    ErrorKind
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

// Errorf builds a typed error with a formatted message.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError builds a typed error that preserves the underlying cause.
func WrapError(kind ErrorKind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of a typed error, or an empty kind for plain
// errors.
func KindOf(err error) ErrorKind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool { return IsKind(err, KindValidation) }

// IsNotFound reports whether the service rejected an unknown id.
func IsNotFound(err error) bool { return IsKind(err, KindNotFound) }
