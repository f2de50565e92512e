package handlers

import (
	"net/http"

	"github.com/photodish/v1/internal/application/persist"
	"github.com/photodish/v1/internal/infrastructure/auth"
	apperrors "github.com/photodish/v1/pkg/errors"
	"go.uber.org/zap"
)

// RecipeAPIHandlers handles the saved-recipe endpoints.
type RecipeAPIHandlers struct {
	persister *persist.Gateway
	logger    *zap.Logger
}

// NewRecipeAPIHandlers creates a new recipe API handlers instance.
func NewRecipeAPIHandlers(persister *persist.Gateway, logger *zap.Logger) *RecipeAPIHandlers {
	return &RecipeAPIHandlers{
		persister: persister,
		logger:    logger,
	}
}

// ListRecipes handles GET /api/v1/recipes. It returns the signed-in
// identity's saved recipes, newest first.
func (h *RecipeAPIHandlers) ListRecipes(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, apperrors.NewUnauthorizedError(""))
		return
	}

	records, err := h.persister.List(r.Context(), identity)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"recipes": records,
			"count":   len(records),
		},
		Message: "Recipes retrieved successfully",
	})
}
