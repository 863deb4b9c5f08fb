package internal

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/frame/pkg/validator"
)

// Routing and invocation errors.
var (
	ErrInvalidPattern         = errors.New("frame: invalid route pattern")
	ErrDuplicateParameter     = errors.New("frame: duplicate route parameter")
	ErrUnnamedRoute           = errors.New("frame: no route with that name")
	ErrUnresolvableAction     = errors.New("frame: unresolvable action")
	ErrUnresolvableParameter  = errors.New("frame: unresolvable parameter")
	ErrUnresolvableDependency = errors.New("frame: unresolvable dependency")
	ErrInvalidParameter       = errors.New("frame: invalid parameter")
	ErrViewsNotConfigured     = errors.New("frame: views not configured")
)

// HTTPError is an error with a status code and a user-facing message.
type HTTPError struct {
	// Err is the underlying error, logged but never shown to users.
	Err error

	Message   string
	Detail    string
	RequestID string
	Code      int
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) StatusCode() int {
	return e.Code
}

func (e *HTTPError) StatusText() string {
	return http.StatusText(e.Code)
}

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

// NewHTTPError creates an HTTPError with the given status code and message.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	e := &HTTPError{Code: code, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func WithDetail(detail string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Detail = detail
	}
}

func WithRequestID(id string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.RequestID = id
	}
}

func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Err = err
	}
}

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, opts...)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusForbidden, message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message, opts...)
}

func ErrUnprocessable(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusUnprocessableEntity, message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message, opts...)
}

// AsHTTPError extracts an HTTPError from err's chain.
// Returns nil if there is none.
func AsHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return nil
}

// PanicError is a panic recovered during dispatch.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// AsPanicError extracts a PanicError from err's chain.
func AsPanicError(err error) (*PanicError, bool) {
	var pe *PanicError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// StatusCode maps an error returned by an action to an HTTP status.
func StatusCode(err error) int {
	if httpErr := AsHTTPError(err); httpErr != nil {
		return httpErr.Code
	}
	if errors.Is(err, ErrInvalidParameter) {
		return http.StatusBadRequest
	}
	if validator.IsValidationError(err) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// DefaultErrorHandler logs err and writes a plain text response with the
// mapped status. HTTPError messages are shown; anything else is hidden
// behind the status text.
func DefaultErrorHandler(c Context, err error) error {
	code := StatusCode(err)

	attrs := []any{"error", err, "status", code}
	if pe, ok := AsPanicError(err); ok && len(pe.Stack) > 0 {
		attrs = append(attrs, "stack", string(pe.Stack))
	}
	if code >= http.StatusInternalServerError {
		c.LogError("request failed", attrs...)
	} else {
		c.LogDebug("request rejected", attrs...)
	}

	msg := http.StatusText(code)
	if httpErr := AsHTTPError(err); httpErr != nil && httpErr.Message != "" {
		msg = httpErr.Message
	} else if code == http.StatusBadRequest || code == http.StatusUnprocessableEntity {
		msg = err.Error()
	}
	return c.String(code, msg)
}
