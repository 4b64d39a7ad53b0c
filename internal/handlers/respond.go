// Package handlers implements the HTTP API over the application services.
package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/yalin/transinvert/backend/internal/errors"
	"github.com/yalin/transinvert/backend/internal/logging"
)

// apiResponse is the uniform envelope for every JSON endpoint.
type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// writeData sends a success envelope.
func writeData(w http.ResponseWriter, status int, data interface{}, message string) {
	writeJSON(w, status, apiResponse{Success: true, Data: data, Message: message})
}

// writeError sends a failure envelope, mapping application error codes onto
// HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if appErr, ok := err.(*apperrors.AppError); ok {
		status = statusForCode(appErr.Code)
	}
	if status >= http.StatusInternalServerError {
		logging.Error("request failed", err)
	}
	writeJSON(w, status, apiResponse{Success: false, Error: err.Error()})
}

func statusForCode(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrTextNotFound, apperrors.ErrFolderNotFound,
		apperrors.ErrRecordNotFound, apperrors.ErrNotFound:
		return http.StatusNotFound
	case apperrors.ErrInvalid, apperrors.ErrTextInvalid, apperrors.ErrValidation,
		apperrors.ErrFolderCycle, apperrors.ErrBadSnapshot, apperrors.ErrBadSnapshotVer:
		return http.StatusBadRequest
	case apperrors.ErrAINotConfigured:
		return http.StatusServiceUnavailable
	case apperrors.ErrAIFailed, apperrors.ErrAIBadResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("failed to encode response", err)
	}
}

// decodeJSON reads a JSON request body into dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.Wrap(apperrors.ErrInvalid, "invalid JSON body", err)
	}
	return nil
}
