package handlers

import (
	"net/http"
	"time"

	"github.com/photodish/v1/internal/infrastructure/config"
	"go.uber.org/zap"
)

// SystemAPIHandlers handles health and feature-readiness endpoints.
type SystemAPIHandlers struct {
	config *config.Config
	logger *zap.Logger
}

// NewSystemAPIHandlers creates a new system API handlers instance.
func NewSystemAPIHandlers(cfg *config.Config, logger *zap.Logger) *SystemAPIHandlers {
	return &SystemAPIHandlers{
		config: cfg,
		logger: logger,
	}
}

// HealthCheck handles GET /health.
func (h *SystemAPIHandlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   h.config.App.Version,
		},
		Message: "Service is healthy",
	})
}

// Features handles GET /api/v1/features. It reports which optional
// integrations are configured so clients can disable the matching UI
// instead of hitting 503s.
func (h *SystemAPIHandlers) Features(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"transforms": h.config.AIConfigured(),
			"saving":     h.config.StorageConfigured(),
			"signIn":     h.config.AuthConfigured(),
		},
	})
}

// ComingSoon answers the navigation stubs for features that are planned
// but not yet built.
func (h *SystemAPIHandlers) ComingSoon(feature string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, h.logger, http.StatusOK, APIResponse{
			Success: true,
			Data: map[string]interface{}{
				"feature":   feature,
				"available": false,
			},
			Message: "This feature is coming soon",
		})
	}
}
