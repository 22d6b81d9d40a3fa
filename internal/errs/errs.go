// Package errs defines the error taxonomy shared by the repository and the HTTP layer
// and the JSON envelope errors are rendered into.
package errs

import (
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrValidation marks malformed or incomplete input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a reference to an employee that does not exist.
	ErrNotFound = errors.New("employee not found")
	// ErrPersistence marks a failed store operation.
	ErrPersistence = errors.New("persistence failure")
)

// FieldError describes a single invalid field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationError carries the per-field details of a validation failure.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

// NewValidationError returns a ValidationError with optional field details.
func NewValidationError(message string, fields ...FieldError) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return ErrValidation.Error()
	}
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// HTTPError is the body written for every failed request.
type HTTPError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Status  int          `json:"status"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError builds an HTTPError whose code is derived from the status text,
// e.g. 404 -> "NOT_FOUND".
func NewHTTPError(status int, message string) *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(status)),
		Message: message,
		Status:  status,
	}
}

// FromError classifies err into an HTTPError. Unknown errors become a generic 500
// so driver messages never reach the client.
func FromError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		resp := NewHTTPError(http.StatusBadRequest, validationErr.Error())
		resp.Errors = validationErr.Fields
		return resp
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	default:
		return NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

// MakeUpperCaseWithUnderscores converts "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
