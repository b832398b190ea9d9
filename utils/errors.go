package utils

import "fmt"

// Typed errors returned by the domain packages. Controllers translate them
// into the JSON response envelope; nothing below the handler layer touches
// HTTP status codes directly.

type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

type AuthError struct{ Msg string }

func (e *AuthError) Error() string { return e.Msg }

func NewAuthError(format string, args ...interface{}) error {
	return &AuthError{Msg: fmt.Sprintf(format, args...)}
}

// PermissionError covers role mismatches and the video gate being closed at
// submit time.
type PermissionError struct{ Msg string }

func (e *PermissionError) Error() string { return e.Msg }

func NewPermissionError(format string, args ...interface{}) error {
	return &PermissionError{Msg: fmt.Sprintf(format, args...)}
}

type NotFoundError struct{ Msg string }

func (e *NotFoundError) Error() string { return e.Msg }

func NewNotFoundError(format string, args ...interface{}) error {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

// UpstreamError marks a failure of an external provider (chatbot model,
// email). Callers degrade to a local fallback instead of failing the
// request.
type UpstreamError struct {
	Msg string
	Err error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func NewUpstreamError(msg string, err error) error {
	return &UpstreamError{Msg: msg, Err: err}
}
