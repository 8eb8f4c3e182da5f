package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go-leave/internal/shared/apperror"

	"github.com/stretchr/testify/assert"
)

func TestToHTTP(t *testing.T) {
	t.Run("app error keeps status and code", func(t *testing.T) {
		got := apperror.ToHTTP(apperror.ErrForbidden)
		assert.Equal(t, http.StatusForbidden, got.Status)
		assert.Equal(t, apperror.CodeForbidden, got.Code)
		assert.Nil(t, got.Details)
	})

	t.Run("wrapped validation error exposes reason", func(t *testing.T) {
		err := fmt.Errorf("create: %w", apperror.Validation("INVALID_INTERVAL", "end must be after start"))
		got := apperror.ToHTTP(err)
		assert.Equal(t, http.StatusBadRequest, got.Status)
		assert.Equal(t, apperror.CodeValidationFailed, got.Code)
		assert.Equal(t, map[string]string{"reason": "INVALID_INTERVAL"}, got.Details)
	})

	t.Run("unknown error is internal", func(t *testing.T) {
		got := apperror.ToHTTP(errors.New("boom"))
		assert.Equal(t, http.StatusInternalServerError, got.Status)
		assert.Equal(t, apperror.CodeInternalError, got.Code)
	})
}

func TestWithCause(t *testing.T) {
	sentinel := apperror.New(apperror.CodeStorageInconsistency, "storage out of sync", http.StatusInternalServerError)
	cause := errors.New("s3 timeout")

	err := sentinel.WithCause(cause)

	assert.ErrorIs(t, err, sentinel)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusInternalServerError, apperror.ToHTTP(err).Status)
}
