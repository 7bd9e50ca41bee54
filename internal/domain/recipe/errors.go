package recipe

import "errors"

// Domain validation errors
var (
	ErrEmptyName           = errors.New("recipe name must not be empty")
	ErrNoIngredients       = errors.New("recipe must have at least one ingredient")
	ErrNoTags              = errors.New("recipe must have at least one tag")
	ErrNegativeCookingTime = errors.New("cooking time must not be negative")
	ErrNegativeAmount      = errors.New("ingredient amount must not be negative")
	ErrInvalidDifficulty   = errors.New("difficulty must be easy, medium or hard")
	ErrInvalidIngredient   = errors.New("ingredient requires a name and a measurement unit")
	ErrInvalidTag          = errors.New("tag requires a name and a slug")
)
