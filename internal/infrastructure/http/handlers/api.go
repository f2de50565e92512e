// Package handlers provides HTTP handlers for the REST API.
package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/photodish/v1/pkg/errors"
	"go.uber.org/zap"
)

// APIResponse represents a standard API response.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// writeError maps an application error to its HTTP status and writes the
// standard error envelope. Unknown errors become 500s with a generic
// message so internals never leak to clients.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	appErr := apperrors.Wrap(err, "An unexpected error occurred")

	status := appErr.StatusCode()
	fields := []zap.Field{
		zap.String("code", string(appErr.Code)),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= 500 {
		logger.Error("Request failed", fields...)
	} else {
		logger.Warn("Request rejected", fields...)
	}

	message := appErr.Message
	if appErr.Details != "" {
		message = appErr.Message + ": " + appErr.Details
	}
	writeJSON(w, logger, status, APIResponse{
		Success: false,
		Error:   message,
		Code:    string(appErr.Code),
	})
}
