package errors

import (
	"errors"
	"fmt"
)

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Code:    "VALIDATION_FAILED",
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, identifier string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
		Code:    "NOT_FOUND",
		Context: map[string]interface{}{
			"resource":   resource,
			"identifier": identifier,
		},
	}
}

// NewStorageError creates a new storage error
func NewStorageError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeStorage,
		Message: fmt.Sprintf("storage operation failed: %s", operation),
		Code:    "STORAGE_ERROR",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewInvalidInputError creates a new invalid input error
func NewInvalidInputError(field string, value interface{}, reason string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidInput,
		Message: fmt.Sprintf("invalid input for %s: %s", field, reason),
		Code:    "INVALID_INPUT",
		Context: map[string]interface{}{
			"field":  field,
			"value":  value,
			"reason": reason,
		},
	}
}

// NewInvalidWindowError creates an error for a detection window whose start
// is not strictly before its end
func NewInvalidWindowError(start, end interface{}) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidWindow,
		Message: "window start must be before window end",
		Code:    "INVALID_WINDOW",
		Context: map[string]interface{}{
			"start": start,
			"end":   end,
		},
	}
}

// NewMalformedRecordError creates an error describing a storage record that
// could not be normalized into an activity interval
func NewMalformedRecordError(source string, id int64, reason string) *AppError {
	return &AppError{
		Type:    ErrorTypeMalformedRecord,
		Message: fmt.Sprintf("malformed %s record %d: %s", source, id, reason),
		Code:    "MALFORMED_RECORD",
		Context: map[string]interface{}{
			"source": source,
			"id":     id,
			"reason": reason,
		},
	}
}

// NewStaleConflictError creates an error for a mutation plan that references
// a record no longer present at commit time
func NewStaleConflictError(source string, id int64) *AppError {
	return &AppError{
		Type:    ErrorTypeStaleConflict,
		Message: fmt.Sprintf("record %s:%d vanished since detection; re-run detection and retry", source, id),
		Code:    "STALE_CONFLICT",
		Context: map[string]interface{}{
			"source": source,
			"id":     id,
		},
	}
}

// WrapError wraps an existing error with additional context
func WrapError(err error, errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Code:    errorType.String(),
		Cause:   err,
		Context: make(map[string]interface{}),
	}
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType checks if the error is of the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.IsType(errorType)
	}
	return false
}

// GetUserMessage returns a user-friendly error message
func GetUserMessage(err error) string {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeInvalidInput,
			ErrorTypeInvalidWindow, ErrorTypeMalformedRecord:
			return appErr.Message
		case ErrorTypeStaleConflict:
			return "The records changed since they were detected. Re-run detection and try again."
		case ErrorTypeStorage:
			return "A storage error occurred. Please try again."
		default:
			return "An unexpected error occurred. Please try again."
		}
	}
	return err.Error()
}

// GetErrorCode returns the error code for the error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError determines if an error should be logged based on its type
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeInvalidInput, ErrorTypeInvalidWindow:
			return false // These are user errors, not system errors
		case ErrorTypeStorage, ErrorTypeStaleConflict, ErrorTypeMalformedRecord:
			return true
		default:
			return true
		}
	}
	return true // Unknown errors should be logged
}
