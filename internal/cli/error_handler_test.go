package cli

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"time-reconciler/internal/errors"
	"time-reconciler/internal/validation"
)

func TestErrorHandler_Handle(t *testing.T) {
	handler := NewErrorHandler()

	t.Run("formats validation errors with field details", func(t *testing.T) {
		validationErr := validation.NewValidationError()
		validationErr.AddRequiredError("task_name")

		err := handler.Handle("fill gap", validationErr)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to fill gap")
		assert.Contains(t, err.Error(), "task_name")
	})

	t.Run("uses the user message for structured errors", func(t *testing.T) {
		staleErr := errors.NewStaleConflictError("manual", 3)

		err := handler.Handle("merge records", staleErr)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to merge records")
		assert.Contains(t, err.Error(), "Re-run detection")
	})

	t.Run("wraps unknown errors", func(t *testing.T) {
		err := handler.Handle("detect gaps", fmt.Errorf("boom"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to detect gaps: boom")
	})
}

func TestErrorHandler_Checks(t *testing.T) {
	handler := NewErrorHandler()

	assert.True(t, handler.IsStaleConflictError(errors.NewStaleConflictError("manual", 1)))
	assert.False(t, handler.IsStaleConflictError(fmt.Errorf("boom")))

	assert.True(t, handler.IsNotFoundError(errors.NewNotFoundError("task", "1")))
	assert.False(t, handler.IsNotFoundError(errors.NewStaleConflictError("manual", 1)))

	assert.Equal(t, "STALE_CONFLICT", handler.GetErrorCode(errors.NewStaleConflictError("manual", 1)))
}
