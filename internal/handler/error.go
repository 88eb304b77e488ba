package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hanifn/tagihin/internal/domain"
	"github.com/hanifn/tagihin/internal/telemetry"
)

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.EFORBIDDEN:
		return http.StatusForbidden
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.ERATELIMIT:
		return http.StatusTooManyRequests
	case domain.EINTERNAL:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// ErrorResponse writes a domain error to the response, negotiating between
// JSON and plain text based on the Accept header. Internal error details are
// never exposed to the client.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	message := domain.ErrorMessage(err)
	status := ErrorCodeToHTTPStatus(code)

	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"op", domain.ErrorOp(err),
			"error", err,
			"path", r.URL.Path,
			"request_id", domain.RequestIDFromContext(r.Context()),
		)
		telemetry.CaptureErrorFromContext(r.Context(), err, map[string]interface{}{
			"op":         domain.ErrorOp(err),
			"request_id": domain.RequestIDFromContext(r.Context()),
		})
	}

	if acceptsJSON(r) {
		writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
		return
	}

	http.Error(w, message, status)
}

// NotFoundResponse writes a generic 404 response.
func NotFoundResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.NotFound("http.route", "resource", r.URL.Path))
}

// UnauthorizedResponse writes a generic 401 response.
func UnauthorizedResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.Unauthorized("http.auth", "Authentication required"))
}

// ForbiddenResponse writes a generic 403 response.
func ForbiddenResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.Forbidden("http.auth", "You do not have permission to access this resource"))
}

// InternalErrorResponse writes a generic 500 response, wrapping err if present.
func InternalErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	ErrorResponse(w, r, domain.Internal(err, "http.internal", "unexpected error"))
}

// ValidationErrorResponse writes a validation error with per-field messages.
// Non-validation errors fall back to ErrorResponse.
func ValidationErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if !domain.IsValidationError(err) {
		ErrorResponse(w, r, err)
		return
	}

	body := errorBody{
		Code:    domain.EINVALID,
		Message: domain.ErrorMessage(err),
		Fields:  domain.GetValidationFields(err),
	}

	if acceptsJSON(r) {
		writeJSON(w, http.StatusBadRequest, errorEnvelope{Error: body})
		return
	}

	http.Error(w, body.Message, http.StatusBadRequest)
}

// acceptsJSON reports whether the client should receive a JSON response.
// Requests under /api/ are always JSON regardless of headers.
func acceptsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/api/")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
