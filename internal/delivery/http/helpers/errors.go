package helpers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventplanner/internal/domain"
)

// WriteServiceError translates a service error into a status code and error envelope.
// Storage and unexpected errors are logged with their cause; the caller only sees a generic message.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var (
		validationErr *domain.ValidationError
		inputErr      *domain.InvalidInputError
		authzErr      *domain.AuthorizationError
		notFoundErr   *domain.NotFoundError
		conflictErr   *domain.ConflictError
		storageErr    *domain.StorageError
	)
	switch {
	case errors.As(err, &validationErr):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, validationErr.Message)
	case errors.As(err, &inputErr):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeInvalidInput, inputErr.Message)
	case errors.As(err, &authzErr):
		WriteJSONError(w, http.StatusForbidden, ErrCodeForbidden, authzErr.Message)
	case errors.As(err, &notFoundErr):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, notFoundErr.Message)
	case errors.As(err, &conflictErr):
		WriteJSONError(w, http.StatusConflict, ErrCodeConflict, conflictErr.Message)
	case errors.As(err, &storageErr):
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", storageErr.Cause())
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, storageErr.Error())
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}
