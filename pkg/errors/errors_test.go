package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/zatekoja/hbnb/backend/pkg/errors"
)

func TestAppError_Error(t *testing.T) {
	err := apperrors.NewNotFoundError("place not found")
	assert.Equal(t, "NOT_FOUND: place not found", err.Error())

	wrapped := apperrors.NewStorageError("failed to get place", stderrors.New("connection refused"))
	assert.Equal(t, "STORAGE_UNAVAILABLE: failed to get place: connection refused", wrapped.Error())
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperrors.ErrorType
	}{
		{"not found", apperrors.NewNotFoundError("x"), apperrors.ErrorTypeNotFound},
		{"forbidden", apperrors.NewForbiddenError("x"), apperrors.ErrorTypeForbidden},
		{"conflict", apperrors.NewConflictError("x"), apperrors.ErrorTypeConflict},
		{"field error", apperrors.NewFieldError("rating", apperrors.ReasonRange, "x"), apperrors.ErrorTypeValidation},
		{"wrapped", fmt.Errorf("context: %w", apperrors.NewConflictError("x")), apperrors.ErrorTypeConflict},
		{"foreign", stderrors.New("boom"), apperrors.ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperrors.TypeOf(tt.err))
		})
	}
}

func TestAs_FieldError(t *testing.T) {
	err := fmt.Errorf("wrap: %w", apperrors.NewFieldError("latitude", apperrors.ReasonRange, "latitude must be between -90 and 90"))

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "latitude", appErr.Field)
	assert.Equal(t, apperrors.ReasonRange, appErr.Reason)
}

func TestIs(t *testing.T) {
	assert.False(t, apperrors.Is(nil, apperrors.ErrorTypeNotFound))
	assert.True(t, apperrors.IsNotFound(apperrors.NewNotFoundError("x")))
	assert.False(t, apperrors.IsNotFound(apperrors.NewConflictError("x")))
}
