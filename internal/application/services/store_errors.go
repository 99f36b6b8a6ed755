package services

import (
	"context"

	"github.com/zatekoja/hbnb/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/hbnb/backend/pkg/errors"
)

// storeError passes typed business failures through and re-types anything
// else coming out of the store as STORAGE_UNAVAILABLE.
func storeError(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeNotFound,
		apperrors.ErrorTypeConflict,
		apperrors.ErrorTypeValidation,
		apperrors.ErrorTypeForbidden,
		apperrors.ErrorTypeUnauthorized:
		return err
	}
	observability.LoggerFromContext(ctx).Error().Err(err).Str("op", op).Msg("entity store failure")
	if apperrors.Is(err, apperrors.ErrorTypeStorageUnavailable) {
		return err
	}
	return apperrors.NewStorageError("entity store unavailable", err)
}

// denied logs a rejected operation at debug level and returns err
func denied(ctx context.Context, op string, err error) error {
	observability.LoggerFromContext(ctx).Debug().Err(err).Str("op", op).Msg("operation rejected")
	return err
}
