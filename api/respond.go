package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/garnizeh/seekaclimb/internal/apperr"
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", slog.Any("err", err))
	}
}

// statusFor is the fixed error kind to status code table.
var statusFor = map[apperr.Kind]int{
	apperr.KindValidation:   http.StatusBadRequest,
	apperr.KindConflict:     http.StatusBadRequest,
	apperr.KindUnauthorized: http.StatusUnauthorized,
	apperr.KindNotFound:     http.StatusNotFound,
	apperr.KindInternal:     http.StatusInternalServerError,
}

// writeError answers with the status of err's kind. Internal errors are
// logged with their cause and answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status, ok := statusFor[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("err", err),
		)
	} else {
		logger.Debug("request rejected",
			slog.String("path", r.URL.Path),
			slog.String("kind", kind.String()),
			slog.Any("err", err),
		)
	}

	writeJSON(w, errorResponse{Error: apperr.MessageOf(err, "internal server error")}, status)
}

// readBody reads the whole request body. It answers the request itself and
// returns false when the body is too large or unreadable.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	if r.Body == nil {
		return nil, true
	}

	b, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, errorResponse{Error: "request body too large"}, http.StatusRequestEntityTooLarge)
			return nil, false
		}
		writeJSON(w, errorResponse{Error: "invalid request"}, http.StatusBadRequest)
		return nil, false
	}

	return b, true
}
