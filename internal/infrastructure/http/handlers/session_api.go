package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/photodish/v1/internal/application/session"
	"go.uber.org/zap"
)

// SessionAPIHandlers handles the upload/generate session endpoints.
type SessionAPIHandlers struct {
	sessions *session.Service
	logger   *zap.Logger
}

// NewSessionAPIHandlers creates a new session API handlers instance.
func NewSessionAPIHandlers(sessions *session.Service, logger *zap.Logger) *SessionAPIHandlers {
	return &SessionAPIHandlers{
		sessions: sessions,
		logger:   logger,
	}
}

// AttachPhotoRequest represents a photo selection request.
type AttachPhotoRequest struct {
	PhotoDataURI string `json:"photoDataUri" validate:"required"`
}

// RemixRequest represents a remix request.
type RemixRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

// CreateSession handles POST /api/v1/sessions.
func (h *SessionAPIHandlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessions.Create(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("session created", zap.String("session_id", state.ID))

	writeJSON(w, h.logger, http.StatusCreated, APIResponse{
		Success: true,
		Data:    state,
		Message: "Session created successfully",
	})
}

// GetSession handles GET /api/v1/sessions/{id}.
func (h *SessionAPIHandlers) GetSession(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{
		Success: true,
		Data:    state,
	})
}

// AttachPhoto handles PUT /api/v1/sessions/{id}/photo.
func (h *SessionAPIHandlers) AttachPhoto(w http.ResponseWriter, r *http.Request) {
	var req AttachPhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, h.logger, http.StatusBadRequest, APIResponse{
			Success: false,
			Error:   "Invalid JSON payload",
		})
		return
	}

	state, err := h.sessions.AttachPhoto(r.Context(), chi.URLParam(r, "id"), req.PhotoDataURI)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{
		Success: true,
		Data:    state,
		Message: "Photo attached",
	})
}

// Generate handles POST /api/v1/sessions/{id}/generate.
func (h *SessionAPIHandlers) Generate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	h.logger.Info("recipe generation request", zap.String("session_id", id))

	state, err := h.sessions.Generate(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{
		Success: true,
		Data:    state,
		Message: "Recipe generated successfully",
	})
}

// Simplify handles POST /api/v1/sessions/{id}/simplify.
func (h *SessionAPIHandlers) Simplify(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessions.Simplify(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{
		Success: true,
		Data:    state,
		Message: "Simple instructions ready",
	})
}

// Remix handles POST /api/v1/sessions/{id}/remix.
func (h *SessionAPIHandlers) Remix(w http.ResponseWriter, r *http.Request) {
	var req RemixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, h.logger, http.StatusBadRequest, APIResponse{
			Success: false,
			Error:   "Invalid JSON payload",
		})
		return
	}

	id := chi.URLParam(r, "id")

	h.logger.Info("recipe remix request",
		zap.String("session_id", id),
		zap.String("prompt", req.Prompt),
	)

	state, err := h.sessions.Remix(r.Context(), id, req.Prompt)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{
		Success: true,
		Data:    state,
		Message: "Recipe remixed successfully",
	})
}

// SaveRecipe handles POST /api/v1/sessions/{id}/save.
func (h *SessionAPIHandlers) SaveRecipe(w http.ResponseWriter, r *http.Request) {
	saved, err := h.sessions.Save(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, APIResponse{
		Success: true,
		Data:    saved,
		Message: "Recipe saved successfully",
	})
}

// ClipboardText handles GET /api/v1/sessions/{id}/clipboard. The response
// is plain text, ready to paste.
func (h *SessionAPIHandlers) ClipboardText(w http.ResponseWriter, r *http.Request) {
	text, err := h.sessions.ClipboardText(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(text)); err != nil {
		h.logger.Error("Failed to write clipboard response", zap.Error(err))
	}
}
