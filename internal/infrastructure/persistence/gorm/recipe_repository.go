package gorm

import (
	"context"

	"github.com/photodish/v1/internal/domain/recipe"
	"github.com/photodish/v1/internal/ports/outbound"
	"gorm.io/gorm"
)

// RecipeRepository implements the recipe repository interface using GORM
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) outbound.RecipeRepository {
	return &RecipeRepository{db: db}
}

// Create appends a new saved recipe record.
func (r *RecipeRepository) Create(ctx context.Context, rec *recipe.Saved) error {
	model := SavedToModel(rec)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return result.Error
	}

	rec.CreatedAt = model.CreatedAt
	return nil
}

// FindByUserID returns the user's records, newest first.
func (r *RecipeRepository) FindByUserID(ctx context.Context, userID string) ([]*recipe.Saved, error) {
	var models []SavedRecipeModel

	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	records := make([]*recipe.Saved, len(models))
	for i := range models {
		records[i] = ModelToSaved(&models[i])
	}
	return records, nil
}
