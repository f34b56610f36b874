package common

import (
	"errors"
	"net/http"
)

// AppError carries an HTTP status alongside a user-facing message and the
// underlying cause.
type AppError struct {
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewBadRequestError returns a 400 error
func NewBadRequestError(message string, err error) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: message, Err: err}
}

// NewNotFoundError returns a 404 error
func NewNotFoundError(message string, err error) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: message, Err: err}
}

// NewConflictError returns a 409 error
func NewConflictError(message string, err error) *AppError {
	return &AppError{Status: http.StatusConflict, Message: message, Err: err}
}

// NewUnprocessableError returns a 422 error
func NewUnprocessableError(message string, err error) *AppError {
	return &AppError{Status: http.StatusUnprocessableEntity, Message: message, Err: err}
}

// NewInternalError returns a 500 error
func NewInternalError(message string, err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Message: message, Err: err}
}

// StatusFromError maps an error to an HTTP status, defaulting to 500
func StatusFromError(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}
