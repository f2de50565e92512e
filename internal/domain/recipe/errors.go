package recipe

import "errors"

// Domain validation errors
var (
	ErrEmptyName     = errors.New("recipe name is required")
	ErrNoIngredients = errors.New("recipe must have at least one ingredient")
	ErrHalfPopulated = errors.New("recipe has ingredients without instructions or vice versa")
)
