package web

// errors.go provides unified error response handling for the API.
//
// Every error is logged with its technical details and request id, and the
// client receives the coded message from product.MapError:
//
//	{"error": "...", "message": "...", "action": "...", "code": "IMP005"}

import (
	"context"
	"encoding/csv"
	"errors"
	"net/http"

	"github.com/JonMunkholm/catalog-import/internal/importer"
	"github.com/JonMunkholm/catalog-import/internal/logging"
	"github.com/JonMunkholm/catalog-import/internal/product"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string           `json:"error"`
	Message string           `json:"message"`
	Action  string           `json:"action,omitempty"`
	Code    string           `json:"code"`
	Result  *importer.Result `json:"result,omitempty"`
}

// respondError logs err and writes its user-facing form.
func respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	respondImportError(w, r, err, status, nil)
}

// respondImportError is respondError carrying the partial result of an
// aborted run.
func respondImportError(w http.ResponseWriter, r *http.Request, err error, status int, result *importer.Result) {
	msg := product.MapError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	)

	writeJSON(w, status, ErrorResponse{
		Error:   err.Error(),
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
		Result:  result,
	})
}

// statusFor picks the HTTP status for an aborted import.
func statusFor(err error) int {
	var (
		parseErr *csv.ParseError
		maxErr   *http.MaxBytesError
	)
	switch {
	case errors.Is(err, importer.ErrTooManyImports):
		return http.StatusTooManyRequests
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, importer.ErrEmptyFile),
		errors.Is(err, importer.ErrNoSKUColumn),
		errors.As(err, &parseErr):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
