// Package testutils provides test data factories and fakes for the
// transform and persistence boundaries.
package testutils

import (
	"encoding/base64"
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/photodish/v1/internal/domain/recipe"
)

// RecipeFactory provides methods to create test recipes.
type RecipeFactory struct {
	faker *gofakeit.Faker
}

// NewRecipeFactory creates a new recipe factory with seeded faker.
func NewRecipeFactory(seed int64) *RecipeFactory {
	return &RecipeFactory{
		faker: gofakeit.New(seed),
	}
}

// Recipe creates a fully populated recipe.
func (f *RecipeFactory) Recipe() *recipe.Recipe {
	r := &recipe.Recipe{
		Name: f.faker.Dinner(),
	}
	for i := 0; i < 4; i++ {
		r.Ingredients = append(r.Ingredients,
			fmt.Sprintf("%d cups %s", f.faker.Number(1, 3), f.faker.Vegetable()))
	}
	for i := 0; i < 3; i++ {
		r.Instructions = append(r.Instructions, f.faker.Sentence(8))
	}
	return r
}

// SimplifiedRecipe creates a recipe that already carries simple
// instructions.
func (f *RecipeFactory) SimplifiedRecipe() *recipe.Recipe {
	r := f.Recipe()
	for i := 0; i < 3; i++ {
		r.SimpleInstructions = append(r.SimpleInstructions, f.faker.Sentence(5))
	}
	return r
}

// PairingSet creates a full drink pairing set.
func (f *RecipeFactory) PairingSet() *recipe.PairingSet {
	p := func() *recipe.Pairing {
		return &recipe.Pairing{
			Name:      f.faker.BeerName(),
			Reason:    f.faker.Sentence(6),
			ImageHint: f.faker.Word(),
		}
	}
	return &recipe.PairingSet{Wine: p(), Beer: p(), NonAlcoholic: p()}
}

// PhotoDataURI returns a small but structurally valid image data URI.
func PhotoDataURI() string {
	payload := base64.StdEncoding.EncodeToString([]byte("not-a-real-jpeg"))
	return "data:image/jpeg;base64," + payload
}
