package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across layers. Check them with errors.Is.
var (
	ErrInvalidPreset     = errors.New("invalid preset")
	ErrSourceNotFound    = errors.New("source not found")
	ErrDecodeFailure     = errors.New("decode failure")
	ErrEncodeFailure     = errors.New("encode failure")
	ErrCacheWriteFailure = errors.New("cache write failure")
	ErrStoreUnavailable  = errors.New("blob store unavailable")
)

// IsInvalidPreset checks if an error represents an unknown preset name
func IsInvalidPreset(err error) bool {
	return errors.Is(err, ErrInvalidPreset)
}

// IsSourceNotFound checks if an error represents a missing or unsafe source
func IsSourceNotFound(err error) bool {
	return errors.Is(err, ErrSourceNotFound)
}

// IsDecodeFailure checks if an error represents unreadable source bytes
func IsDecodeFailure(err error) bool {
	return errors.Is(err, ErrDecodeFailure)
}

// IsEncodeFailure checks if an error represents a failed re-encode
func IsEncodeFailure(err error) bool {
	return errors.Is(err, ErrEncodeFailure)
}

// IsCacheWriteFailure checks if an error represents a failed artifact write
func IsCacheWriteFailure(err error) bool {
	return errors.Is(err, ErrCacheWriteFailure)
}

// IsStoreUnavailable checks if an error represents a blob store failure
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// IsClientError reports whether the error should surface as a 404.
func IsClientError(err error) bool {
	return IsInvalidPreset(err) || IsSourceNotFound(err)
}

func wrapSentinel(sentinel, cause error) error {
	if cause != nil {
		return fmt.Errorf("%w: %w", sentinel, cause)
	}
	return fmt.Errorf("%w", sentinel)
}

// NewInvalidPresetError creates an AppContextError that wraps ErrInvalidPreset
func NewInvalidPresetError(layer, component, operation string, context map[string]interface{}) *AppContextError {
	return NewAppContextError(
		CodeInvalidPreset,
		"unknown preset",
		layer,
		component,
		operation,
		wrapSentinel(ErrInvalidPreset, nil),
		context,
	)
}

// NewSourceNotFoundError creates an AppContextError that wraps ErrSourceNotFound
func NewSourceNotFoundError(layer, component, operation string, cause error, context map[string]interface{}) *AppContextError {
	return NewAppContextError(
		CodeSourceNotFound,
		"source image not found",
		layer,
		component,
		operation,
		wrapSentinel(ErrSourceNotFound, cause),
		context,
	)
}

// NewDecodeFailureError creates an AppContextError that wraps ErrDecodeFailure
func NewDecodeFailureError(layer, component, operation string, cause error, context map[string]interface{}) *AppContextError {
	return NewAppContextError(
		CodeDecodeFailure,
		"source image could not be decoded",
		layer,
		component,
		operation,
		wrapSentinel(ErrDecodeFailure, cause),
		context,
	)
}

// NewEncodeFailureError creates an AppContextError that wraps ErrEncodeFailure
func NewEncodeFailureError(layer, component, operation string, cause error, context map[string]interface{}) *AppContextError {
	return NewAppContextError(
		CodeEncodeFailure,
		"variant could not be encoded",
		layer,
		component,
		operation,
		wrapSentinel(ErrEncodeFailure, cause),
		context,
	)
}

// NewCacheWriteFailureError creates an AppContextError that wraps ErrCacheWriteFailure
func NewCacheWriteFailureError(layer, component, operation string, cause error, context map[string]interface{}) *AppContextError {
	return NewAppContextError(
		CodeCacheWriteFailure,
		"variant could not be cached",
		layer,
		component,
		operation,
		wrapSentinel(ErrCacheWriteFailure, cause),
		context,
	)
}

// NewStoreUnavailableError creates an AppContextError that wraps ErrStoreUnavailable
func NewStoreUnavailableError(layer, component, operation string, cause error, context map[string]interface{}) *AppContextError {
	return NewAppContextError(
		CodeStoreUnavailable,
		"blob store unavailable",
		layer,
		component,
		operation,
		wrapSentinel(ErrStoreUnavailable, cause),
		context,
	)
}
