package gorm

import (
	"encoding/json"

	"github.com/foodgram/platform/internal/domain/recipe"
	"github.com/foodgram/platform/internal/domain/user"
	"github.com/foodgram/platform/internal/ports/outbound"
)

// RecipeToModel converts a domain recipe to its GORM model
func RecipeToModel(r *recipe.Recipe) *RecipeModel {
	m := &RecipeModel{
		ID:          r.ID,
		AuthorID:    r.AuthorID,
		Name:        r.Name,
		Text:        r.Text,
		Steps:       StringSlice(r.Steps),
		CookingTime: r.CookingTime,
		Difficulty:  string(r.Difficulty),
		ImageURL:    r.ImageURL,
		ImagePrompt: r.ImagePrompt,
		Views:       r.ViewsCount,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	for _, ri := range r.Ingredients {
		m.Ingredients = append(m.Ingredients, RecipeIngredientModel{
			RecipeID:     r.ID,
			IngredientID: ri.Ingredient.ID,
			Amount:       ri.Amount,
		})
	}
	for _, t := range r.Tags {
		m.Tags = append(m.Tags, TagModel{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug})
	}
	return m
}

// ModelToRecipe converts a GORM model to a domain recipe. Favorites are
// counted separately and left zero here.
func ModelToRecipe(m *RecipeModel) *recipe.Recipe {
	r := &recipe.Recipe{
		ID:          m.ID,
		AuthorID:    m.AuthorID,
		AuthorName:  m.Author.Username,
		Name:        m.Name,
		Text:        m.Text,
		Steps:       []string(m.Steps),
		CookingTime: m.CookingTime,
		Difficulty:  recipe.Difficulty(m.Difficulty),
		ImageURL:    m.ImageURL,
		ImagePrompt: m.ImagePrompt,
		ViewsCount:  m.Views,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	for _, ri := range m.Ingredients {
		r.Ingredients = append(r.Ingredients, recipe.RecipeIngredient{
			Ingredient: recipe.Ingredient{
				ID:              ri.Ingredient.ID,
				Name:            ri.Ingredient.Name,
				MeasurementUnit: ri.Ingredient.MeasurementUnit,
			},
			Amount: ri.Amount,
		})
	}
	for _, t := range m.Tags {
		r.Tags = append(r.Tags, recipe.Tag{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug})
	}
	return r
}

// UserToModel converts a domain user to its GORM model
func UserToModel(u *user.User) *UserModel {
	return &UserModel{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
	}
}

// ModelToUser converts a GORM model to a domain user
func ModelToUser(m *UserModel) *user.User {
	return &user.User{
		ID:           m.ID,
		Email:        m.Email,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
	}
}

// IngredientToModel converts a catalog ingredient to its GORM model
func IngredientToModel(i *recipe.Ingredient) *IngredientModel {
	return &IngredientModel{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

// ModelToIngredient converts a GORM model to a catalog ingredient
func ModelToIngredient(m *IngredientModel) *recipe.Ingredient {
	return &recipe.Ingredient{ID: m.ID, Name: m.Name, MeasurementUnit: m.MeasurementUnit}
}

// TagToModel converts a tag to its GORM model
func TagToModel(t *recipe.Tag) *TagModel {
	return &TagModel{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

// ModelToTag converts a GORM model to a tag
func ModelToTag(m *TagModel) *recipe.Tag {
	return &recipe.Tag{ID: m.ID, Name: m.Name, Color: m.Color, Slug: m.Slug}
}

// CommentToModel converts a comment to its GORM model
func CommentToModel(c *recipe.Comment) *CommentModel {
	return &CommentModel{
		ID:        c.ID,
		RecipeID:  c.RecipeID,
		AuthorID:  c.AuthorID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}

// ModelToComment converts a GORM model to a comment
func ModelToComment(m *CommentModel) *recipe.Comment {
	return &recipe.Comment{
		ID:         m.ID,
		RecipeID:   m.RecipeID,
		AuthorID:   m.AuthorID,
		AuthorName: m.Author.Username,
		Text:       m.Text,
		CreatedAt:  m.CreatedAt,
	}
}

// GeneratedToModel converts a stored generated recipe to its GORM model
func GeneratedToModel(rec *outbound.GeneratedRecipe) (*GeneratedRecipeModel, error) {
	payload, err := json.Marshal(rec.Payload)
	if err != nil {
		return nil, err
	}
	return &GeneratedRecipeModel{
		ID:          rec.ID,
		Fingerprint: rec.Fingerprint,
		Payload:     JSONField(payload),
		Prompt:      rec.Prompt,
		ImageURL:    rec.ImageURL,
		LastShownAt: rec.LastShownAt,
		CreatedAt:   rec.CreatedAt,
	}, nil
}

// ModelToGenerated converts a GORM model to a stored generated recipe
func ModelToGenerated(m *GeneratedRecipeModel) (*outbound.GeneratedRecipe, error) {
	rec := &outbound.GeneratedRecipe{
		ID:          m.ID,
		Fingerprint: m.Fingerprint,
		Prompt:      m.Prompt,
		ImageURL:    m.ImageURL,
		LastShownAt: m.LastShownAt,
		CreatedAt:   m.CreatedAt,
	}
	if err := json.Unmarshal([]byte(m.Payload), &rec.Payload); err != nil {
		return nil, err
	}
	return rec, nil
}
