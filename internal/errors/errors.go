package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeConflict   = "CONFLICT"
)

// AppError is an error that knows the HTTP status and code it maps to.
type AppError struct {
	Code    string
	Message string
	Status  int
	// Field names the offending input for validation errors.
	Field string
	Err   error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return e.Code + ": " + e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newAppError(status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, Status: status}
}

// NewNotFoundError reports a missing deck, game, run or tag.
func NewNotFoundError(resource string, id any) *AppError {
	return newAppError(http.StatusNotFound, ErrCodeNotFound, fmt.Sprintf("%s not found: %v", resource, id))
}

// NewValidationError reports input that parsed but is not acceptable.
func NewValidationError(field string, reason string) *AppError {
	e := newAppError(http.StatusBadRequest, ErrCodeValidation, fmt.Sprintf("validation failed for %s: %s", field, reason))
	e.Field = field
	return e
}

// NewInternalError hides err from the client; it is still logged.
func NewInternalError(err error) *AppError {
	e := newAppError(http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	e.Err = err
	return e
}

// NewBadRequestError reports a request that could not be parsed.
func NewBadRequestError(message string) *AppError {
	return newAppError(http.StatusBadRequest, ErrCodeBadRequest, message)
}

// NewConflictError reports a clash with existing state, e.g. a duplicate tag name.
func NewConflictError(resource, reason string) *AppError {
	return newAppError(http.StatusConflict, ErrCodeConflict, fmt.Sprintf("%s conflict: %s", resource, reason))
}

// AsAppError unwraps err into an AppError, wrapping unknown errors as internal.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(err)
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}
