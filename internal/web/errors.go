package web

// errors.go provides unified error response handling for the web layer.
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err)
//  3. statusFor picks the status from the error's kind
//  4. The technical error is logged with the request id for correlation
//  5. core.MapError supplies the user-facing message, action and code
//  6. The response is JSON, or an HTML alert for HTMX requests
//
// Client errors carry the technical error text in "error" since it names
// the exact problem (for example the missing columns). Server errors carry
// a generic "error" and the technical text in "message".

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/JonMunkholm/schoolcal/internal/core"
	"github.com/JonMunkholm/schoolcal/internal/logging"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Request decoding errors.
var (
	errNoFile      = errors.New("no file provided")
	errInvalidBody = errors.New("invalid request body")
	errMissingID   = errors.New("missing batch id")
)

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case core.IsInputError(err),
		errors.Is(err, errNoFile),
		errors.Is(err, errInvalidBody),
		errors.Is(err, errMissingID):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrBatchNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrTooManyImports):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes the matching error response.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	userMsg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", attrs...)
	} else {
		logger.Warn("request rejected", attrs...)
	}

	if status == http.StatusTooManyRequests {
		w.Header().Set("Retry-After", "30")
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		if err := ErrorAlert(userMsg).Render(r.Context(), w); err != nil {
			logger.Error("render error alert", "error", err)
		}
		return
	}

	resp := ErrorResponse{
		Error:   err.Error(),
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	}
	if status >= http.StatusInternalServerError {
		resp.Error = "Internal server error"
		resp.Message = err.Error()
	}
	writeJSON(w, r, status, resp)
}

// writeJSON encodes v as JSON with the given status.
// Encoding errors are only logged since headers are already sent.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
