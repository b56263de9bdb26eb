package service

import (
	"errors"
	"fmt"
)

// Kind classifies why a service operation failed.
type Kind int

const (
	KindInvalidEntity Kind = iota + 1
	KindNotFound
	KindNotSaved
	KindNotValid
	KindNotRemoved
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindInvalidEntity:
		return "invalid entity"
	case KindNotFound:
		return "not found"
	case KindNotSaved:
		return "not saved"
	case KindNotValid:
		return "not valid"
	case KindNotRemoved:
		return "not removed"
	case KindStorage:
		return "storage error"
	}
	return "unknown"
}

// Error is the single error type returned by FunkoService operations.
type Error struct {
	Kind Kind
	Op   string // e.g. "save", "update"
	ID   string // funko id or name the operation was about, if any
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.ID != "" {
		msg += fmt.Sprintf(" (%s)", e.ID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrInvalidEntity = &Error{Kind: KindInvalidEntity}
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrNotSaved      = &Error{Kind: KindNotSaved}
	ErrNotValid      = &Error{Kind: KindNotValid}
	ErrNotRemoved    = &Error{Kind: KindNotRemoved}
	ErrStorage       = &Error{Kind: KindStorage}
)

// KindOf returns the Kind of err, or 0 when err is not a service error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}

// NotFound builds the error callers return when a lookup they require came back empty.
func NotFound(op, id string) error {
	return &Error{Kind: KindNotFound, Op: op, ID: id}
}

func newError(kind Kind, op, id string, err error) *Error {
	return &Error{Kind: kind, Op: op, ID: id, Err: err}
}
