// Package apperr defines the error kinds shared by the demo's commands and
// HTTP handlers, so that a single boundary can turn them into exit codes or
// HTTP responses.
package apperr

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

type Kind string

const (
	KindInternal      Kind = "internal"
	KindConfiguration Kind = "configuration"
	KindNotFound      Kind = "not-found"
	KindConnection    Kind = "connection"
	KindQuery         Kind = "query"
	KindValidation    Kind = "validation"
)

// Error attaches a Kind and the failing operation to an underlying cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err.Error())
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Format prints the cause with its stack trace for %+v.
func (e *Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') && e.Err != nil {
			_, _ = fmt.Fprintf(s, "%s [%s]: %+v", e.Op, e.Kind, e.Err)
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

func newError(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: errors.WithStack(err)}
}

func Configuration(op string, format string, args ...any) error {
	return &Error{Kind: KindConfiguration, Op: op, Err: errors.Errorf(format, args...)}
}

func NotFound(op string, format string, args ...any) error {
	return &Error{Kind: KindNotFound, Op: op, Err: errors.Errorf(format, args...)}
}

func Validation(op string, format string, args ...any) error {
	return &Error{Kind: KindValidation, Op: op, Err: errors.Errorf(format, args...)}
}

func Connection(op string, err error) error {
	return newError(KindConnection, op, err)
}

func Query(op string, err error) error {
	return newError(KindQuery, op, err)
}

func Internal(op string, err error) error {
	return newError(KindInternal, op, err)
}

// KindOf reports the kind of the outermost *Error in err's chain, or
// KindInternal if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps an error to the status code the web boundary responds with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the cause of err without the operation prefix, for showing
// to users.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Err != nil {
		return e.Err.Error()
	}
	return err.Error()
}
