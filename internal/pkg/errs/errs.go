package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"pixelminds/internal/pkg/logx"
)

// CustomError is the error type used throughout the application.
// It carries a business code, a user-facing message and the HTTP status the companion
// server answers with; errors that originate from the remote API also record the
// upstream status and the underlying cause.
type CustomError struct {
	// Code is the business error code (see constants definition).
	Code int

	// Message is the user-friendly error description.
	Message string

	// Status is the HTTP status used when this error is written to a response.
	Status int

	// RemoteStatus is the HTTP status returned by the remote API, zero if none.
	RemoteStatus int

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *CustomError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("error code %d: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("error code %d: %s", e.Code, e.Message)
}

// Unwrap exposes Cause to errors.Is and errors.As.
func (e *CustomError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a *CustomError with the same code.
func (e *CustomError) Is(target error) bool {
	var t *CustomError
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// NewError builds a *CustomError from the template registered for code.
// When the template message contains formatting verbs, details are applied to it.
// Unknown codes degrade to ErrUnknown.
func NewError(code int, details ...any) *CustomError {
	template, ok := errorMap[code]
	if !ok {
		logx.Error(
			fmt.Errorf("unknown error code %d", code),
			"Unknown error code requested",
			"requested_code", code,
		)
		template = errorMap[ErrUnknown]
	}

	customErr := template

	if customErr.Status == 0 {
		customErr.Status = http.StatusOK
	}

	if len(details) > 0 {
		if strings.Contains(customErr.Message, "%") {
			customErr.Message = fmt.Sprintf(customErr.Message, details...)
		} else {
			logx.Warn("error details ignored, message template has no placeholders", "code", code)
		}
	}

	return &customErr
}

// Wrap is NewError with an underlying cause attached.
func Wrap(code int, cause error, details ...any) *CustomError {
	customErr := NewError(code, details...)
	customErr.Cause = cause
	return customErr
}

// FromRemoteStatus translates an HTTP error status from the remote API into its category.
// serverMessage is the message the API put in its body, if any.
func FromRemoteStatus(status int, serverMessage string) *CustomError {
	var customErr *CustomError

	switch status {
	case http.StatusBadRequest:
		customErr = NewError(ErrBadRequest)
	case http.StatusForbidden:
		customErr = NewError(ErrForbidden)
	case http.StatusInternalServerError:
		customErr = NewError(ErrServerError)
	default:
		if strings.TrimSpace(serverMessage) == "" {
			serverMessage = "An error occurred."
		}
		customErr = NewError(ErrUnknownStatus, status, serverMessage)
		if status == http.StatusUnauthorized {
			customErr.Status = http.StatusUnauthorized
		}
	}

	customErr.RemoteStatus = status
	return customErr
}

// HasCode reports whether err is, or wraps, a *CustomError with the given code.
func HasCode(err error, code int) bool {
	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr.Code == code
	}
	return false
}

// From converts any error into a *CustomError, keeping existing ones and wrapping the
// rest as ErrUnknown.
func From(err error) *CustomError {
	if err == nil {
		return nil
	}
	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr
	}
	return Wrap(ErrUnknown, err)
}
