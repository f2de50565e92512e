// Package mock provides a deterministic transform gateway for development
// and tests. Unlike a real provider it performs no network calls.
package mock

import (
	"context"
	"fmt"
	"strings"

	"github.com/photodish/v1/internal/domain/recipe"
	"github.com/photodish/v1/internal/ports/outbound"
	"github.com/photodish/v1/pkg/datauri"
)

// Gateway implements outbound.TransformGateway with canned responses.
type Gateway struct{}

// NewGateway creates a mock transform gateway.
func NewGateway() *Gateway {
	return &Gateway{}
}

func (g *Gateway) GenerateFromPhoto(ctx context.Context, in outbound.GenerateFromPhotoInput) (*outbound.GenerateFromPhotoOutput, error) {
	if _, err := datauri.ParseImage(in.PhotoDataURI); err != nil {
		return nil, fmt.Errorf("invalid photo input: %w", err)
	}
	return &outbound.GenerateFromPhotoOutput{
		IsFood: true,
		Recipe: &recipe.Recipe{
			Name:        "Spaghetti Carbonara",
			Ingredients: []string{"spaghetti", "eggs", "pancetta", "parmesan"},
			Instructions: []string{
				"Boil pasta",
				"Fry pancetta",
				"Combine with eggs and cheese",
			},
		},
	}, nil
}

func (g *Gateway) Summarize(ctx context.Context, in outbound.SummarizeInput) (*outbound.SummarizeOutput, error) {
	if strings.TrimSpace(in.Recipe) == "" {
		return nil, fmt.Errorf("invalid summarize input: recipe text is empty")
	}
	if in.Mode != outbound.ModeSimple && in.Mode != outbound.ModeExpert {
		return nil, fmt.Errorf("invalid summarize input: unknown mode %q", in.Mode)
	}
	return &outbound.SummarizeOutput{
		Summary: "Instructions:\n1. Cook the pasta in salted water\n2. Crisp the meat in a pan\n3. Stir everything together off the heat",
	}, nil
}

func (g *Gateway) Remix(ctx context.Context, in outbound.RemixInput) (*outbound.RemixOutput, error) {
	core := in.Recipe.Core()
	if err := core.Validate(); err != nil {
		return nil, fmt.Errorf("invalid remix input: %w", err)
	}
	if strings.TrimSpace(in.Prompt) == "" {
		return nil, fmt.Errorf("invalid remix input: prompt is empty")
	}
	remixed := recipe.Recipe{
		Name:         "Remixed " + core.Name,
		Ingredients:  append([]string(nil), core.Ingredients...),
		Instructions: append([]string(nil), core.Instructions...),
	}
	return &outbound.RemixOutput{Recipe: remixed}, nil
}

func (g *Gateway) SuggestDrinkPairing(ctx context.Context, in outbound.SuggestDrinkPairingInput) (*recipe.PairingSet, error) {
	if strings.TrimSpace(in.RecipeName) == "" {
		return nil, fmt.Errorf("invalid pairing input: recipe name is empty")
	}
	if len(in.RecipeIngredients) == 0 {
		return nil, fmt.Errorf("invalid pairing input: no ingredients")
	}
	return &recipe.PairingSet{
		Wine: &recipe.Pairing{
			Name:      "Pinot Grigio",
			Reason:    "Its crisp acidity cuts through the richness of the dish.",
			ImageHint: "white wine",
		},
		NonAlcoholic: &recipe.Pairing{
			Name:      "Sparkling Water with Lemon",
			Reason:    "A clean palate cleanser between bites.",
			ImageHint: "sparkling water",
		},
	}, nil
}
