// Package response writes the JSON envelope shared by every handler and maps
// service errors onto HTTP status codes. Raw data-layer errors never reach a
// response body.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/F0u4d8/whelhost-PMS-sub002/internal/domain"
	"github.com/F0u4d8/whelhost-PMS-sub002/pkg/logger"
)

// ErrorResponse is the structured JSON error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// Common error codes
const (
	CodeInvalidInput  = "INVALID_INPUT"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeRateLimit     = "RATE_LIMIT_EXCEEDED"
	CodeUpstream      = "UPSTREAM_ERROR"
	CodeInternalError = "INTERNAL_ERROR"
)

func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func WriteError(w http.ResponseWriter, statusCode int, message, code string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message, Code: code})
}

func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message, CodeInvalidInput)
}

func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message, CodeUnauthorized)
}

func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message, CodeNotFound)
}

func Conflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, message, CodeConflict)
}

func RateLimit(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusTooManyRequests, message, CodeRateLimit)
}

func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message, CodeInternalError)
}

// FromError maps a service error to its HTTP representation. Unrecognized
// errors become an opaque 500; the cause stays in the logs.
func FromError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case domain.IsValidation(err):
		BadRequest(w, err.Error())
	case domain.IsConflict(err):
		Conflict(w, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		Unauthorized(w, "unauthorized")
	case errors.Is(err, domain.ErrNotFound):
		NotFound(w, "resource not found")
	case domain.IsUpstream(err):
		WriteError(w, http.StatusBadGateway, err.Error(), CodeUpstream)
	default:
		logger.ErrorContext(r.Context(), "request failed", "error", err, "path", r.URL.Path)
		InternalError(w, "internal error")
	}
}
