// Package recipe contains the core domain model: the Recipe produced by the
// AI pipeline, the immutable Saved record, and drink pairing value objects.
package recipe

import (
	"time"

	"github.com/google/uuid"
)

// Recipe is a dish recipe as produced by the generate or remix transform.
// SimpleInstructions is a cached plain-language paraphrase of Instructions;
// it is cleared whenever the recipe is replaced by a remix.
type Recipe struct {
	Name               string   `json:"name"`
	Ingredients        []string `json:"ingredients"`
	Instructions       []string `json:"instructions"`
	SimpleInstructions []string `json:"simpleInstructions,omitempty"`
}

// Validate checks the invariants a recipe must satisfy before it can be
// displayed or persisted. A half-populated recipe (ingredients without
// instructions, or the reverse) is a contract violation from the model,
// never a valid partial result.
func (r *Recipe) Validate() error {
	if r.Name == "" {
		return ErrEmptyName
	}
	if len(r.Ingredients) == 0 && len(r.Instructions) == 0 {
		return ErrNoIngredients
	}
	if len(r.Ingredients) == 0 || len(r.Instructions) == 0 {
		return ErrHalfPopulated
	}
	return nil
}

// Core returns the recipe without the cached simplification. The remix
// transform operates on this shape only.
func (r *Recipe) Core() Recipe {
	return Recipe{
		Name:         r.Name,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
	}
}

// Clone returns a deep copy so session state snapshots cannot alias the
// caller's slices.
func (r *Recipe) Clone() *Recipe {
	if r == nil {
		return nil
	}
	c := Recipe{Name: r.Name}
	c.Ingredients = append([]string(nil), r.Ingredients...)
	c.Instructions = append([]string(nil), r.Instructions...)
	if r.SimpleInstructions != nil {
		c.SimpleInstructions = append([]string(nil), r.SimpleInstructions...)
	}
	return &c
}

// Saved is a persisted recipe record. Records are append-only: every save
// creates a new one and nothing in this core updates or deletes them.
type Saved struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"userId"`
	Recipe
	// PhotoURL is a durable object-storage URL, never the transient
	// data URI used during upload.
	PhotoURL  string    `json:"photoUrl"`
	CreatedAt time.Time `json:"createdAt"`
}
