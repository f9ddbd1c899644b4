package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/tendant/simple-cms/pkg/simplecms"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusFor maps service errors onto HTTP status codes and stable error codes.
func statusFor(err error) (int, string) {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, simplecms.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, simplecms.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, simplecms.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, simplecms.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, simplecms.ErrFileTooLarge), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge, "file_too_large"
	case errors.Is(err, simplecms.ErrInvalidTransition):
		return http.StatusBadRequest, "invalid_transition"
	case errors.Is(err, simplecms.ErrUnsupportedLanguage):
		return http.StatusBadRequest, "unsupported_language"
	case errors.Is(err, simplecms.ErrInvalidFileType):
		return http.StatusBadRequest, "invalid_file_type"
	case errors.Is(err, simplecms.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, code := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		message = "internal server error"
	}
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: message, Code: code})
}

func badRequest(field, reason string) error {
	return &simplecms.ValidationError{Field: field, Reason: reason}
}
