package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Mohana-teja/loan-default-dashboard/internal/domain/model"
)

type errorResponse struct {
	Error   string   `json:"error"`
	Field   string   `json:"field,omitempty"`
	Min     string   `json:"min,omitempty"`
	Max     string   `json:"max,omitempty"`
	Allowed []string `json:"allowed,omitempty"`
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var (
		rangeErr  *model.InputRangeError
		malformed *model.MalformedInputError
		mismatch  *model.SchemaMismatchError
	)
	switch {
	case errors.As(err, &rangeErr), errors.As(err, &malformed):
		return http.StatusBadRequest
	case errors.As(err, &mismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrModelNotFound), errors.Is(err, model.ErrArtifactLoad):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := statusFor(err)
	body := errorResponse{Error: err.Error()}

	var rangeErr *model.InputRangeError
	var malformed *model.MalformedInputError
	switch {
	case errors.As(err, &rangeErr):
		body.Field, body.Min, body.Max, body.Allowed = rangeErr.Field, rangeErr.Min, rangeErr.Max, rangeErr.Allowed
	case errors.As(err, &malformed):
		body.Field = malformed.Column
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
		if status == http.StatusInternalServerError {
			body.Error = "internal error"
		}
	}
	writeJSON(w, status, body)
}
