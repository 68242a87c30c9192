// Package errors provides the structured error type used across imgcache
// layers. Every AppContextError wraps one of the sentinel errors so callers
// can branch with errors.Is while logs keep layer and operation context.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes carried by AppContextError.
const (
	CodeInvalidPreset     = "INVALID_PRESET"
	CodeSourceNotFound    = "SOURCE_NOT_FOUND"
	CodeDecodeFailure     = "DECODE_FAILURE"
	CodeEncodeFailure     = "ENCODE_FAILURE"
	CodeCacheWriteFailure = "CACHE_WRITE_FAILURE"
	CodeStoreUnavailable  = "STORE_UNAVAILABLE"
	CodeUnknown           = "UNKNOWN_ERROR"
)

// AppContextError represents an error with rich context information
type AppContextError struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Layer     string                 `json:"layer,omitempty"`     // rest, usecase, gateway, driver
	Component string                 `json:"component,omitempty"` // Specific component name
	Operation string                 `json:"operation,omitempty"` // Specific method name
	Cause     error                  `json:"-"`
	Context   map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *AppContextError) Error() string {
	var prefix string
	if e.Layer != "" && e.Component != "" && e.Operation != "" {
		prefix = fmt.Sprintf("[%s:%s:%s] ", e.Layer, e.Component, e.Operation)
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s%s: %s (caused by: %v)", prefix, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s%s: %s", prefix, e.Code, e.Message)
}

// Unwrap returns the underlying error for error chain unwrapping
func (e *AppContextError) Unwrap() error {
	return e.Cause
}

// HTTPStatusCode maps error codes to HTTP status codes. Only an unknown
// preset or a missing source is the client's fault; everything else is 500.
func (e *AppContextError) HTTPStatusCode() int {
	switch e.Code {
	case CodeInvalidPreset, CodeSourceNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// HTTPContextResponse is the JSON body sent for failed requests.
type HTTPContextResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ToHTTPResponse converts an AppContextError to a client-safe response.
// Layer, component and cause stay in the logs.
func (e *AppContextError) ToHTTPResponse() HTTPContextResponse {
	return HTTPContextResponse{
		Error:   "error",
		Code:    e.Code,
		Message: e.Message,
	}
}

// NewAppContextError creates a new AppContextError with full context
func NewAppContextError(
	code, message, layer, component, operation string,
	cause error,
	context map[string]interface{},
) *AppContextError {
	if context == nil {
		context = make(map[string]interface{})
	}

	return &AppContextError{
		Code:      code,
		Message:   message,
		Layer:     layer,
		Component: component,
		Operation: operation,
		Cause:     cause,
		Context:   context,
	}
}

// NewUnknownContextError creates an unknown error with context
func NewUnknownContextError(message, layer, component, operation string, cause error, context map[string]interface{}) *AppContextError {
	return NewAppContextError(CodeUnknown, message, layer, component, operation, cause, context)
}

// AsAppContextError extracts an AppContextError from err, wrapping anything
// else as an unknown error so handlers always have a status code.
func AsAppContextError(err error) *AppContextError {
	var appErr *AppContextError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewUnknownContextError("internal error", "", "", "", err, nil)
}
