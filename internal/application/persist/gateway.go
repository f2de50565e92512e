// Package persist implements the persistence gateway: it validates a
// finished recipe, uploads its photo to durable object storage, and only
// then appends the document record. The ordering is a correctness
// invariant: no record may ever reference a photo that was never stored.
package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/photodish/v1/internal/domain/recipe"
	"github.com/photodish/v1/internal/infrastructure/auth"
	"github.com/photodish/v1/internal/ports/outbound"
	"github.com/photodish/v1/pkg/datauri"
	apperrors "github.com/photodish/v1/pkg/errors"
	"go.uber.org/zap"
)

// Candidate is a fully-formed recipe awaiting persistence: the persisted
// record minus its server-assigned identity fields.
type Candidate struct {
	Name               string   `validate:"required"`
	Ingredients        []string `validate:"required,min=1,dive,required"`
	Instructions       []string `validate:"required,min=1,dive,required"`
	SimpleInstructions []string `validate:"omitempty,dive,required"`
	PhotoDataURI       string   `validate:"required,startswith=data:image/"`
}

// Gateway persists candidate records.
type Gateway struct {
	repo     outbound.RecipeRepository
	storage  outbound.StorageService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewGateway creates a persistence gateway.
func NewGateway(repo outbound.RecipeRepository, storage outbound.StorageService, logger *zap.Logger) *Gateway {
	return &Gateway{
		repo:     repo,
		storage:  storage,
		validate: validator.New(),
		logger:   logger,
	}
}

// Save persists a candidate for the given identity. Every save creates a
// new record; there is no update path.
func (g *Gateway) Save(ctx context.Context, id *auth.Identity, c Candidate) (*recipe.Saved, error) {
	if id == nil || id.UID == "" {
		return nil, apperrors.NewUnauthorizedError("You must be signed in to save a recipe")
	}

	if err := g.validate.Struct(c); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	photo, err := datauri.ParseImage(c.PhotoDataURI)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid photo data URI: %s", err))
	}

	// The storage key is scoped to the identity with a unique suffix so
	// concurrent saves never collide.
	key := fmt.Sprintf("recipes/%s/%d", id.UID, time.Now().UnixNano())

	photoURL, err := g.storage.Upload(ctx, key, photo.Data, photo.MediaType)
	if err != nil {
		// No record is written when the upload fails.
		if apperrors.Is(err, apperrors.CodeServiceUnavailable) {
			return nil, err
		}
		return nil, apperrors.NewPersistenceError("photo upload", err)
	}

	rec := &recipe.Saved{
		ID:     uuid.New(),
		UserID: id.UID,
		Recipe: recipe.Recipe{
			Name:               c.Name,
			Ingredients:        c.Ingredients,
			Instructions:       c.Instructions,
			SimpleInstructions: c.SimpleInstructions,
		},
		PhotoURL: photoURL,
	}

	if err := g.repo.Create(ctx, rec); err != nil {
		return nil, apperrors.NewPersistenceError("database write", err)
	}

	g.logger.Info("recipe saved",
		zap.String("user_id", id.UID),
		zap.String("recipe_id", rec.ID.String()),
		zap.String("name", rec.Name),
	)
	return rec, nil
}

// List returns the identity's saved records, newest first.
func (g *Gateway) List(ctx context.Context, id *auth.Identity) ([]*recipe.Saved, error) {
	if id == nil || id.UID == "" {
		return nil, apperrors.NewUnauthorizedError("")
	}
	records, err := g.repo.FindByUserID(ctx, id.UID)
	if err != nil {
		return nil, apperrors.NewPersistenceError("database query", err)
	}
	return records, nil
}
