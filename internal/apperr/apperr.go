package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes exposed to clients.
const (
	CodeInternal           = "INTERNAL_ERROR"
	CodeCatalogUnavailable = "CATALOG_UNAVAILABLE"
	CodeRateLimited        = "RATE_LIMITED"
	CodeBanned             = "CLIENT_BANNED"
)

// Error is the single failure shape every route reports.
type Error struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code, message string, status int, cause error) *Error {
	return &Error{Code: code, Message: message, Status: status, Err: cause}
}

// CatalogUnavailable wraps a repository failure.
func CatalogUnavailable(cause error) *Error {
	return New(CodeCatalogUnavailable, "Internal Server Error", http.StatusInternalServerError, cause)
}

func Internal(cause error) *Error {
	return New(CodeInternal, "Internal Server Error", http.StatusInternalServerError, cause)
}

// From returns err as an *Error, classifying unknown errors as internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
