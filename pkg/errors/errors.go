package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeInternal indicates an internal error
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeWriteFailure indicates the event log medium is unwritable
	ErrorTypeWriteFailure ErrorType = "WRITE_FAILURE"

	// ErrorTypeInsufficientData indicates a metric has no labeled evidence behind it
	ErrorTypeInsufficientData ErrorType = "INSUFFICIENT_DATA"

	// ErrorTypePredictionCall indicates a downstream predict call errored or timed out
	ErrorTypePredictionCall ErrorType = "PREDICTION_CALL"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// IsType reports whether err is an AppError of the given type
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// NewWriteFailureError creates an error for an unwritable event log medium
func NewWriteFailureError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeWriteFailure,
		Message: message,
		Err:     err,
	}
}

// NewInsufficientDataError creates an error for metrics with no labeled evidence
func NewInsufficientDataError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeInsufficientData,
		Message: message,
	}
}

// NewPredictionCallError creates an error for a failed downstream predict call
func NewPredictionCallError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypePredictionCall,
		Message: message,
		Err:     err,
	}
}
