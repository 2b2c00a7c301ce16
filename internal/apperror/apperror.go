package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrUpstream   = errors.New("upstream error")
	ErrTransport  = errors.New("transport failure")

	// ErrEmptyInput and ErrInvalidFormat are the two ways an identifier can fail
	// validation. Both match ErrValidation with errors.Is.
	ErrEmptyInput    = fmt.Errorf("%w: empty input", ErrValidation)
	ErrInvalidFormat = fmt.Errorf("%w: invalid format", ErrValidation)
)

type AppError struct {
	Err     error  // sentinel the error matches with errors.Is
	Message string // user-facing message
	Field   string // Optional: field causing the error
	Cause   error  // Optional: underlying fault, never shown to users
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes both the sentinel and the cause so errors.Is/As can reach either.
func (e *AppError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

func EmptyInput(field string) *AppError {
	return &AppError{
		Err:     ErrEmptyInput,
		Message: fmt.Sprintf("missing %s", field),
		Field:   field,
	}
}

func InvalidFormat(field string) *AppError {
	return &AppError{
		Err:     ErrInvalidFormat,
		Message: fmt.Sprintf("invalid %s", field),
		Field:   field,
	}
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// Upstream reports a structured failure returned by a collaborator. The
// message is meant to be shown to the user as is.
func Upstream(message string) *AppError {
	return &AppError{
		Err:     ErrUpstream,
		Message: message,
	}
}

// Transport wraps a network or decoding fault.
func Transport(cause error) *AppError {
	return &AppError{
		Err:     ErrTransport,
		Message: "request failed",
		Cause:   cause,
	}
}

// Message returns the user-facing message of err if it carries one.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ""
}
