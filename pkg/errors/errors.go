// Package errors provides structured error handling for the application.
// The codes mirror the failure taxonomy of the recipe pipeline: input
// validation, AI transform failures, persistence failures, and the
// supplementary pairing fetch which is never surfaced to users.
package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode represents an error code
type ErrorCode string

const (
	// Client errors (4xx)
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Server errors (5xx)
	CodeInternal           ErrorCode = "INTERNAL_ERROR"
	CodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	CodeTransformFailed    ErrorCode = "TRANSFORM_FAILED"
	CodePersistenceFailed  ErrorCode = "PERSISTENCE_FAILED"

	// Business logic errors
	CodeSessionNotFound    ErrorCode = "SESSION_NOT_FOUND"
	CodeNoPhotoAttached    ErrorCode = "NO_PHOTO_ATTACHED"
	CodeGenerationInFlight ErrorCode = "GENERATION_IN_FLIGHT"
	CodeNotFood            ErrorCode = "NOT_FOOD"
)

// AppError represents an application error with structured information
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the appropriate HTTP status code
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidationFailed, CodeNoPhotoAttached, CodeNotFood:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound, CodeSessionNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeGenerationInFlight:
		return http.StatusConflict
	case CodeTransformFailed, CodePersistenceFailed:
		return http.StatusBadGateway
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{Code: code, Message: message, Details: details}
}

// NewValidationError creates a validation error
func NewValidationError(details string) *AppError {
	return NewAppError(CodeValidationFailed, "Validation failed", details)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = "Authentication required"
	}
	return NewAppError(CodeUnauthorized, message, "")
}

// NewSessionNotFoundError creates a session not found error
func NewSessionNotFoundError(sessionID string) *AppError {
	return NewAppError(
		CodeSessionNotFound,
		"Session not found",
		fmt.Sprintf("Session %s does not exist or has expired", sessionID),
	)
}

// NewTransformError wraps a failed AI transform operation
func NewTransformError(operation string, cause error) *AppError {
	return NewAppError(
		CodeTransformFailed,
		"AI transform failed",
		fmt.Sprintf("Operation %s did not produce a valid result", operation),
	).WithCause(cause)
}

// NewPersistenceError wraps a failed storage or database operation
func NewPersistenceError(step string, cause error) *AppError {
	return NewAppError(
		CodePersistenceFailed,
		"Failed to save recipe",
		fmt.Sprintf("Persistence failed at step: %s", step),
	).WithCause(cause)
}

// NewServiceUnavailableError reports a feature whose backing credentials
// are not configured. The app degrades instead of crashing.
func NewServiceUnavailableError(feature string) *AppError {
	return NewAppError(
		CodeServiceUnavailable,
		"Feature not configured",
		fmt.Sprintf("%s requires configuration that is not present", feature),
	)
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return NewAppError(CodeInternal, message, "")
}

// Wrap wraps an error as an internal error if it's not already an AppError
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return NewInternalError(message).WithCause(err)
}

// Is checks if an error is of a specific error code
func Is(err error, code ErrorCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return CodeInternal
}
