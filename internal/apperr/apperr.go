// Package apperr defines the error taxonomy shared by every component.
// Handlers translate a Kind into an HTTP status; the message travels verbatim.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind categorizes an error by the component that raised it.
type Kind string

const (
	KindIO         Kind = "io"
	KindContent    Kind = "content"
	KindConversion Kind = "conversion"
	KindStorage    Kind = "storage"
	KindPayment    Kind = "payment"
	KindConfig     Kind = "config"
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindInternal   Kind = "internal"
)

// Error is a categorized application error.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, msg)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Detail is the caller-facing text: the message plus the cause, without the op prefix.
func (e *Error) Detail() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

// New creates an error without a cause.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap attaches a kind and operation to err. A nil err yields nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Wrapf is Wrap with a message prefix.
func Wrapf(kind Kind, op string, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// StatusCode maps an error to its HTTP status.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindValidation, KindPayment:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindContent:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Code is the machine-readable code used in error payloads.
func Code(err error) string {
	switch KindOf(err) {
	case KindIO:
		return "IO_ERROR"
	case KindContent:
		return "CONTENT_ERROR"
	case KindConversion:
		return "CONVERSION_ERROR"
	case KindStorage:
		return "STORAGE_ERROR"
	case KindPayment:
		return "PAYMENT_PROVIDER_ERROR"
	case KindConfig:
		return "CONFIGURATION_ERROR"
	case KindValidation:
		return "BAD_REQUEST"
	case KindNotFound:
		return "NOT_FOUND"
	default:
		return "INTERNAL_ERROR"
	}
}

// Message returns the caller-facing text for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Detail()
	}
	return err.Error()
}
