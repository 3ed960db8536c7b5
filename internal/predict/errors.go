package predict

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind represents the kind of failure behind a prediction attempt
type ErrorKind string

const (
	// KindValidation indicates the attempt was rejected before any request was made
	KindValidation ErrorKind = "validation"

	// KindService indicates the prediction service answered with a non-success status
	KindService ErrorKind = "service"

	// KindTransport indicates the request could not be completed or its body could not be read
	KindTransport ErrorKind = "transport"
)

// Messages shown to the user when nothing more specific is available
const (
	MsgNoFile         = "Please select a file"
	MsgSomethingWrong = "Something went wrong"
)

// Error is the single error type surfaced to the user for a prediction attempt.
// Error() returns Message unchanged so it can be displayed directly.
type Error struct {
	// Kind categorizes the error
	Kind ErrorKind `json:"kind"`

	// Message is the human-readable text displayed to the user
	Message string `json:"message"`

	// StatusCode is set for service errors
	StatusCode int `json:"status_code,omitempty"`

	// Cause is the underlying error for transport failures
	Cause error `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind
func (e *Error) Is(target error) bool {
	if pe, ok := target.(*Error); ok {
		return e.Kind == pe.Kind
	}
	return false
}

// Detail renders the error with its kind, status and cause for logs
func (e *Error) Detail() string {
	parts := []string{fmt.Sprintf("kind=%s", e.Kind)}
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}
	parts = append(parts, e.Message)
	if e.Cause != nil && e.Cause.Error() != e.Message {
		parts = append(parts, fmt.Sprintf("cause=%s", e.Cause.Error()))
	}
	return strings.Join(parts, ": ")
}

// NewValidationError creates a validation error
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewServiceError creates a service error. An empty message falls back to MsgSomethingWrong.
func NewServiceError(statusCode int, message string) *Error {
	if message == "" {
		message = MsgSomethingWrong
	}
	return &Error{Kind: KindService, Message: message, StatusCode: statusCode}
}

// NewTransportError creates a transport error carrying the text of its cause
func NewTransportError(cause error) *Error {
	msg := MsgSomethingWrong
	if cause != nil && cause.Error() != "" {
		msg = cause.Error()
	}
	return &Error{Kind: KindTransport, Message: msg, Cause: cause}
}

// AsError converts any error into an *Error, treating unknown errors as transport failures
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	return NewTransportError(err)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return hasKind(err, KindValidation)
}

// IsServiceError checks if an error is a service error
func IsServiceError(err error) bool {
	return hasKind(err, KindService)
}

// IsTransportError checks if an error is a transport error
func IsTransportError(err error) bool {
	return hasKind(err, KindTransport)
}

func hasKind(err error, kind ErrorKind) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}
