package types

import (
	"errors"
	"fmt"
)

// Kind classifies a rejected request.
type Kind int

const (
	// KindNotFound means the activity does not exist.
	KindNotFound Kind = iota + 1
	// KindConflict means the email is already on the roster.
	KindConflict
	// KindBadRequest means the request cannot apply to the current roster.
	KindBadRequest
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindBadRequest:
		return "bad_request"
	default:
		return "unknown"
	}
}

// Error is a rejected operation carrying the client-facing message.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

// NewError builds an Error wrapping cause.
func NewError(kind Kind, op, message string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: cause}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
