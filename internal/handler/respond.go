package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/hanifn/tagihin/internal/domain"
)

const maxRequestBody = 1 << 20 // 1 MB

// RespondJSON writes v as a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, v interface{}) {
	writeJSON(w, status, v)
}

// PublicErrorResponse writes a flat {"error": "<message>"} envelope. It is
// used on client-facing endpoints where the response surface is a single
// human-readable message rather than a structured error object.
func PublicErrorResponse(w http.ResponseWriter, err error) {
	status := ErrorCodeToHTTPStatus(domain.ErrorCode(err))
	if status >= http.StatusInternalServerError {
		slog.Error("public request failed", "op", domain.ErrorOp(err), "error", err)
	}
	writeJSON(w, status, map[string]string{"error": domain.ErrorMessage(err)})
}

// DecodeJSON decodes the request body into dst, rejecting unknown fields
// and oversized payloads.
func DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Invalid("request.decode", "Request body is required")
		}
		return domain.Invalid("request.decode", "Invalid request body")
	}
	return nil
}
