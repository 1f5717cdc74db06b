package fetch

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the single failure type surfaced by the fetch layer. Transport
// failures, non-success statuses, missing resources and parse failures all
// collapse into it.
type Error struct {
	Path    string
	Status  int
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "fetch: <nil>"
	}
	return fmt.Sprintf("fetch %s: %s", e.Path, e.Detail())
}

// Detail returns the short, user-facing description of the failure.
func (e *Error) Detail() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Status != 0:
		return fmt.Sprintf("HTTP %d", e.Status)
	case e.Err != nil:
		return e.Err.Error()
	default:
		return "unknown error"
	}
}

// Unwrap exposes the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a fetch error for a missing resource.
func IsNotFound(err error) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Status == http.StatusNotFound
}

// Detail extracts the user-facing message from err, which need not be a fetch error.
func Detail(err error) string {
	if err == nil {
		return ""
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Detail()
	}
	return err.Error()
}

func statusError(path string, status int, body string) *Error {
	e := &Error{Path: path, Status: status, Message: fmt.Sprintf("HTTP %d", status)}
	if body != "" {
		e.Err = errors.New(body)
	}
	return e
}

func notFound(path string) *Error {
	return &Error{Path: path, Status: http.StatusNotFound, Message: fmt.Sprintf("HTTP %d", http.StatusNotFound)}
}

func wrap(path string, err error) error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		if fe.Path == "" {
			fe.Path = path
		}
		return fe
	}
	return &Error{Path: path, Message: err.Error(), Err: err}
}
