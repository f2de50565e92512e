package ai

import (
	"context"

	"github.com/photodish/v1/internal/domain/recipe"
	"github.com/photodish/v1/internal/ports/outbound"
	apperrors "github.com/photodish/v1/pkg/errors"
)

// UnavailableGateway is wired when the generative-model boundary has no
// credentials. Every operation reports the feature as unconfigured; the
// app keeps serving everything else.
type UnavailableGateway struct{}

// NewUnavailableGateway creates the degraded-mode gateway.
func NewUnavailableGateway() *UnavailableGateway {
	return &UnavailableGateway{}
}

func (g *UnavailableGateway) err() error {
	return apperrors.NewServiceUnavailableError("AI recipe transforms")
}

func (g *UnavailableGateway) GenerateFromPhoto(ctx context.Context, in outbound.GenerateFromPhotoInput) (*outbound.GenerateFromPhotoOutput, error) {
	return nil, g.err()
}

func (g *UnavailableGateway) Summarize(ctx context.Context, in outbound.SummarizeInput) (*outbound.SummarizeOutput, error) {
	return nil, g.err()
}

func (g *UnavailableGateway) Remix(ctx context.Context, in outbound.RemixInput) (*outbound.RemixOutput, error) {
	return nil, g.err()
}

func (g *UnavailableGateway) SuggestDrinkPairing(ctx context.Context, in outbound.SuggestDrinkPairingInput) (*recipe.PairingSet, error) {
	return nil, g.err()
}
