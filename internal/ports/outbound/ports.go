// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/photodish/v1/internal/domain/recipe"
)

// SummarizeMode selects the register of a recipe summary.
type SummarizeMode string

const (
	ModeSimple SummarizeMode = "Simple"
	ModeExpert SummarizeMode = "Expert"
)

// GenerateFromPhotoInput carries one dish photo as a data URI with an
// explicit media type and base64 payload.
type GenerateFromPhotoInput struct {
	PhotoDataURI string
}

// GenerateFromPhotoOutput is the generate transform result. When the photo
// does not show food, IsFood is false and Recipe is nil; that is a clean
// outcome, not an error.
type GenerateFromPhotoOutput struct {
	IsFood bool
	Recipe *recipe.Recipe
}

// SummarizeInput carries the recipe rendered as plain text plus the mode.
type SummarizeInput struct {
	Recipe string
	Mode   SummarizeMode
}

// SummarizeOutput is the summarize transform result.
type SummarizeOutput struct {
	Summary string
}

// RemixInput carries the recipe core (no cached simplification) and the
// user's free-text modification request.
type RemixInput struct {
	Recipe recipe.Recipe
	Prompt string
}

// RemixOutput is a full replacement recipe, never a diff.
type RemixOutput struct {
	Recipe recipe.Recipe
}

// SuggestDrinkPairingInput identifies the dish the pairing is for.
type SuggestDrinkPairingInput struct {
	RecipeName        string
	RecipeIngredients []string
}

// TransformGateway wraps the hosted generative model behind four stateless
// request/response operations. Each operation validates its input, issues
// exactly one model call with a fixed instruction template, and validates
// the structured output against its schema. A response that fails schema
// validation fails the whole operation; no partial result is ever returned.
type TransformGateway interface {
	GenerateFromPhoto(ctx context.Context, in GenerateFromPhotoInput) (*GenerateFromPhotoOutput, error)
	Summarize(ctx context.Context, in SummarizeInput) (*SummarizeOutput, error)
	Remix(ctx context.Context, in RemixInput) (*RemixOutput, error)
	SuggestDrinkPairing(ctx context.Context, in SuggestDrinkPairingInput) (*recipe.PairingSet, error)
}

// RecipeRepository persists saved recipe records. The write surface is
// append-only; no update or delete path exists in this core.
type RecipeRepository interface {
	Create(ctx context.Context, rec *recipe.Saved) error
	// FindByUserID returns the user's records ordered by creation time
	// descending.
	FindByUserID(ctx context.Context, userID string) ([]*recipe.Saved, error)
}

// StorageService writes photo bytes to durable object storage and returns
// a long-lived, publicly-resolvable retrieval URL.
type StorageService interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// ErrSessionNotFound is returned by SessionStore.Get for unknown or
// expired sessions.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore holds serialized upload-session state keyed by session ID.
// Each browser session owns its state exclusively, so the store needs no
// cross-key transactions.
type SessionStore interface {
	Get(ctx context.Context, id string) ([]byte, error)
	Set(ctx context.Context, id string, state []byte, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}
