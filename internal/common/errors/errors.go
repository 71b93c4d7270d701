// internal/common/errors/errors.go
// Package errors provides the typed error taxonomy shared by the credit
// engine and its BPMN worker surface.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ==========================
// 1. Error Codes
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Bad numeric or shape input. Never retried; the caller must fix
	// the request and resubmit.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// Role guard failed. Surfaced verbatim, never retried automatically.
	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"

	// Optimistic-concurrency version mismatch. The caller may retry
	// after re-reading current state; the engine itself never does.
	ErrCodeConflict ErrorCode = "CONFLICT"

	// Requested state change is not reachable from the current state.
	// Indicates a caller or workflow bug.
	ErrCodeIllegalTransition ErrorCode = "ILLEGAL_TRANSITION"

	// Lookup failures at the storage boundary.
	ErrCodeApplicationNotFound ErrorCode = "APPLICATION_NOT_FOUND"
	ErrCodeArtifactNotFound    ErrorCode = "ARTIFACT_NOT_FOUND"

	// Technical storage failures (the only retryable class).
	ErrCodeStorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE"
)

// DomainError represents a structured engine error.
type DomainError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ==========================
// 2. Constructors
// ==========================

// NewInvalidInputError creates a non-retryable input validation error.
func NewInvalidInputError(field, details string) *DomainError {
	return &DomainError{
		Code:      ErrCodeInvalidInput,
		Message:   fmt.Sprintf("invalid value for %s", field),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPermissionDeniedError creates a non-retryable role guard error.
func NewPermissionDeniedError(role, action string) *DomainError {
	return &DomainError{
		Code:      ErrCodePermissionDenied,
		Message:   fmt.Sprintf("role %q may not %s", role, action),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewConflictError creates a version-mismatch error. Retryable only at
// the caller level, after re-reading current state.
func NewConflictError(entity string, expected, actual int64) *DomainError {
	return &DomainError{
		Code:      ErrCodeConflict,
		Message:   fmt.Sprintf("%s was modified concurrently", entity),
		Details:   fmt.Sprintf("expected version %d, found %d", expected, actual),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewIllegalTransitionError creates a non-retryable state machine error.
func NewIllegalTransitionError(from, to string) *DomainError {
	return &DomainError{
		Code:      ErrCodeIllegalTransition,
		Message:   fmt.Sprintf("cannot transition from %s to %s", from, to),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewApplicationNotFoundError creates a non-retryable lookup error.
func NewApplicationNotFoundError(id string) *DomainError {
	return &DomainError{
		Code:      ErrCodeApplicationNotFound,
		Message:   "application not found",
		Details:   fmt.Sprintf("applicationId: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewArtifactNotFoundError creates a non-retryable lookup error.
func NewArtifactNotFoundError(id string) *DomainError {
	return &DomainError{
		Code:      ErrCodeArtifactNotFound,
		Message:   "artifact not found",
		Details:   fmt.Sprintf("artifactId: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageUnavailableError creates a retryable storage error.
func NewStorageUnavailableError(err error) *DomainError {
	return &DomainError{
		Code:      ErrCodeStorageUnavailable,
		Message:   "storage operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Matchers
// ==========================

// CodeOf extracts the error code, or "" for foreign errors.
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Code
	}
	return ""
}

func IsInvalidInput(err error) bool      { return CodeOf(err) == ErrCodeInvalidInput }
func IsPermissionDenied(err error) bool  { return CodeOf(err) == ErrCodePermissionDenied }
func IsConflict(err error) bool          { return CodeOf(err) == ErrCodeConflict }
func IsIllegalTransition(err error) bool { return CodeOf(err) == ErrCodeIllegalTransition }

func IsNotFound(err error) bool {
	c := CodeOf(err)
	return c == ErrCodeApplicationNotFound || c == ErrCodeArtifactNotFound
}

// ==========================
// 4. BPMN Error Integration
// ==========================

// BPMNError carries an error to the workflow engine as a throwable
// business error with a retry budget.
type BPMNError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Retries int32  `json:"retries"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// GetRetryCount returns the retry budget per error class. Every
// taxonomy error is terminal for a single call; only technical storage
// failures get automatic retries.
func GetRetryCount(code ErrorCode) int32 {
	if code == ErrCodeStorageUnavailable {
		return 3
	}
	return 0
}

// ToBPMNError converts any error into a throwable BPMN error. Foreign
// errors map to a generic non-retryable code.
func ToBPMNError(err error) *BPMNError {
	var de *DomainError
	if !stderrors.As(err, &de) {
		return &BPMNError{
			Code:    "UNKNOWN_ERROR",
			Message: err.Error(),
			Retries: 0,
		}
	}
	return &BPMNError{
		Code:    string(de.Code),
		Message: de.Message,
		Details: de.Details,
		Retries: GetRetryCount(de.Code),
	}
}
