package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/godilite/fieldops-server/internal/service"
)

type successResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type errorPayload struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type errorResponse struct {
	Status string       `json:"status"`
	Error  errorPayload `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, successResponse{Status: "success", Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, code, message, requestID string) {
	writeJSON(w, status, errorResponse{Status: "error", Error: errorPayload{Code: code, Message: message, RequestID: requestID}})
}

// mapDomainError returns the status, code and client-facing message for err.
// Server-side failures get a fixed message; their detail stays in the log.
func mapDomainError(err error) (int, string, string) {
	switch {
	case err == nil:
		return http.StatusOK, "", ""
	case errors.Is(err, service.ErrNoEvaluations):
		return http.StatusNotFound, "no_evaluations", err.Error()
	case errors.Is(err, service.ErrTeamNotFound):
		return http.StatusNotFound, "team_not_found", err.Error()
	case errors.Is(err, service.ErrInvalidRange):
		return http.StatusBadRequest, "invalid_range", err.Error()
	case errors.Is(err, service.ErrStorageFailure):
		return http.StatusInternalServerError, "storage_failure", "database error"
	default:
		return http.StatusInternalServerError, "internal_error", "internal server error"
	}
}
