package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is the sentinel for 404 responses. Callers decide whether a
// missing object means "skip" or "notify"; the client never converts it to
// a generic failure.
var ErrNotFound = errors.New("object not found")

// Error is the structured error returned by all client operations.
// Code distinguishes the failure class, Title/Message are user-presentable.
type Error struct {
	Err     error  `json:"-"`
	Code    string `json:"code"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

const (
	// CodeRequest covers transport failures and non-2xx responses without
	// a structured body.
	CodeRequest = "REQUEST_ERROR"

	// CodeValidation covers structured 400 responses; Message carries the
	// backend's detail string verbatim.
	CodeValidation = "VALIDATION_ERROR"

	// CodeNotFound covers 404 responses. Errors with this code unwrap to
	// ErrNotFound.
	CodeNotFound = "NOT_FOUND"
)

func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.Err }

// IsValidation reports whether err carries a structured validation detail.
func IsValidation(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Code == CodeValidation
}

func requestError(err error) *Error {
	return &Error{
		Err:     err,
		Code:    CodeRequest,
		Title:   "Request failed",
		Message: err.Error(),
	}
}

func statusError(method, path string, status int) *Error {
	err := &Error{
		Code:    CodeRequest,
		Title:   "Request failed",
		Message: fmt.Sprintf("%s %s: %s", method, path, http.StatusText(status)),
	}
	if status == http.StatusNotFound {
		err.Err = ErrNotFound
		err.Code = CodeNotFound
		err.Title = "Not found"
	}
	return err
}

func validationError(detail string) *Error {
	return &Error{
		Code:    CodeValidation,
		Title:   "Validation failed",
		Message: detail,
	}
}
