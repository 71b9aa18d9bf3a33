package apperrors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/commercio/posting_engine/internal/apperrors"
)

func TestAppError_UnwrapsToSentinel(t *testing.T) {
	err := apperrors.NewNotFoundError("document not found: abc")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Contains(t, err.Error(), "document not found")

	wrapped := apperrors.NewAppError(409, "stale version", apperrors.ErrConflict)
	assert.ErrorIs(t, wrapped, apperrors.ErrConflict)
}

func TestIsRetryable(t *testing.T) {
	transient := apperrors.NewTransientError("deadlock", errors.New("SQLSTATE 40P01"))
	assert.True(t, apperrors.IsRetryable(transient))
	assert.ErrorIs(t, transient, apperrors.ErrTransient)

	assert.False(t, apperrors.IsRetryable(apperrors.ErrConflict))
	assert.False(t, apperrors.IsRetryable(nil))
}
