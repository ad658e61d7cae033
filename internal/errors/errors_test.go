package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewValidationError(t *testing.T) {
	cause := errors.New("field is required")
	err := NewValidationError("validation failed", cause)

	if err.Type != ErrorTypeValidation {
		t.Errorf("NewValidationError type = %v, want %v", err.Type, ErrorTypeValidation)
	}
	if err.Message != "validation failed" {
		t.Errorf("NewValidationError message = %v, want %v", err.Message, "validation failed")
	}
	if err.Code != "VALIDATION_FAILED" {
		t.Errorf("NewValidationError code = %v, want %v", err.Code, "VALIDATION_FAILED")
	}
	if err.Cause != cause {
		t.Errorf("NewValidationError cause = %v, want %v", err.Cause, cause)
	}
}

func TestNewStorageError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError("delete time entry", cause)

	if err.Type != ErrorTypeStorage {
		t.Errorf("NewStorageError type = %v, want %v", err.Type, ErrorTypeStorage)
	}
	if err.Message != "storage operation failed: delete time entry" {
		t.Errorf("NewStorageError message = %v", err.Message)
	}
	if err.Code != "STORAGE_ERROR" {
		t.Errorf("NewStorageError code = %v, want STORAGE_ERROR", err.Code)
	}

	operation, ok := err.GetContext("operation")
	if !ok || operation != "delete time entry" {
		t.Errorf("NewStorageError should set operation context")
	}
}

func TestNewInvalidWindowError(t *testing.T) {
	err := NewInvalidWindowError("2024-01-02", "2024-01-01")

	if err.Type != ErrorTypeInvalidWindow {
		t.Errorf("NewInvalidWindowError type = %v, want %v", err.Type, ErrorTypeInvalidWindow)
	}
	if err.Code != "INVALID_WINDOW" {
		t.Errorf("NewInvalidWindowError code = %v, want INVALID_WINDOW", err.Code)
	}

	start, ok := err.GetContext("start")
	if !ok || start != "2024-01-02" {
		t.Errorf("NewInvalidWindowError should set start context")
	}
}

func TestNewMalformedRecordError(t *testing.T) {
	err := NewMalformedRecordError("pomodoro", 42, "missing start time")

	if err.Type != ErrorTypeMalformedRecord {
		t.Errorf("NewMalformedRecordError type = %v, want %v", err.Type, ErrorTypeMalformedRecord)
	}
	if err.Message != "malformed pomodoro record 42: missing start time" {
		t.Errorf("NewMalformedRecordError message = %v", err.Message)
	}

	source, ok := err.GetContext("source")
	if !ok || source != "pomodoro" {
		t.Errorf("NewMalformedRecordError should set source context")
	}
	id, ok := err.GetContext("id")
	if !ok || id != int64(42) {
		t.Errorf("NewMalformedRecordError should set id context")
	}
}

func TestNewStaleConflictError(t *testing.T) {
	err := NewStaleConflictError("manual", 7)

	if err.Type != ErrorTypeStaleConflict {
		t.Errorf("NewStaleConflictError type = %v, want %v", err.Type, ErrorTypeStaleConflict)
	}
	if err.Code != "STALE_CONFLICT" {
		t.Errorf("NewStaleConflictError code = %v, want STALE_CONFLICT", err.Code)
	}
	if !IsErrorType(err, ErrorTypeStaleConflict) {
		t.Errorf("IsErrorType should recognize stale conflict errors")
	}
}

func TestIsAppError(t *testing.T) {
	appErr := NewNotFoundError("time entry", "9")
	if !IsAppError(appErr) {
		t.Error("IsAppError should return true for AppError")
	}

	wrapped := fmt.Errorf("outer: %w", appErr)
	if !IsAppError(wrapped) {
		t.Error("IsAppError should unwrap wrapped AppErrors")
	}

	if IsAppError(errors.New("plain")) {
		t.Error("IsAppError should return false for plain errors")
	}
}

func TestGetUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "stale conflict gets remediation hint",
			err:      NewStaleConflictError("automatic", 3),
			expected: "The records changed since they were detected. Re-run detection and try again.",
		},
		{
			name:     "storage errors are not leaked verbatim",
			err:      NewStorageError("apply merge plan", errors.New("locked")),
			expected: "A storage error occurred. Please try again.",
		},
		{
			name:     "invalid window passes through",
			err:      NewInvalidWindowError(1, 0),
			expected: "window start must be before window end",
		},
		{
			name:     "plain errors pass through",
			err:      errors.New("boom"),
			expected: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetUserMessage(tt.err); got != tt.expected {
				t.Errorf("GetUserMessage() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestShouldLogError(t *testing.T) {
	if ShouldLogError(NewInvalidWindowError(2, 1)) {
		t.Error("invalid window is a user error and should not be logged")
	}
	if !ShouldLogError(NewStaleConflictError("manual", 1)) {
		t.Error("stale conflicts should be logged")
	}
	if !ShouldLogError(errors.New("unknown")) {
		t.Error("unknown errors should be logged")
	}
}
