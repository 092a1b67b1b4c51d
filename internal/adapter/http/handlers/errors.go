package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/adapter/http/validation"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/core/domain"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/pkg/apierrors"
)

// toAPIError is the only place where domain errors become HTTP statuses.
func toAPIError(err error, lang string) apierrors.JsonErr {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return apierrors.CreateError(http.StatusBadRequest, apierrors.MsgValidationFailed, lang).
			WithDetails(validationErr.Fields, lang)
	case errors.Is(err, validation.ErrInvalidTaskPayload):
		return apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang)
	case errors.Is(err, validation.ErrInvalidTaskID):
		return apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidTaskID, lang)
	case errors.Is(err, domain.ErrTaskNotFound):
		return apierrors.CreateError(http.StatusNotFound, apierrors.MsgTaskNotFound, lang)
	case errors.Is(err, domain.ErrInvalidState):
		return apierrors.CreateError(http.StatusConflict, apierrors.MsgTaskInvalidState, lang)
	case errors.Is(err, domain.ErrForbidden):
		return apierrors.CreateError(http.StatusForbidden, apierrors.MsgForbidden, lang)
	case errors.Is(err, domain.ErrTokenExpired):
		return apierrors.CreateError(http.StatusUnauthorized, apierrors.MsgTokenExpired, lang)
	case errors.Is(err, domain.ErrTokenInvalid), errors.Is(err, domain.ErrMissingToken):
		return apierrors.CreateError(http.StatusUnauthorized, apierrors.MsgUnauthorized, lang)
	}
	return apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgInternalError, lang)
}

// toListAPIError reports filter problems against the query string rather
// than against a body.
func toListAPIError(err error, lang string) apierrors.JsonErr {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidQuery, lang).
			WithDetails(validationErr.Fields, lang)
	}
	return toAPIError(err, lang)
}

// withStorageRetry calls fn a second time, after wait, when storage was
// unreachable. Any other error is returned at once.
func withStorageRetry[T any](ctx context.Context, wait time.Duration, fn func(context.Context) (T, error)) (T, error) {
	return backoff.Retry(ctx, func() (T, error) {
		result, err := fn(ctx)
		if err != nil && !errors.Is(err, domain.ErrStorageUnavailable) {
			return result, backoff.Permanent(err)
		}
		return result, err
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(wait)),
		backoff.WithMaxTries(2),
	)
}
