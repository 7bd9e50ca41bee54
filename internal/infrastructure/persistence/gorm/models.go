// Package gorm provides GORM model definitions and repository
// implementations for the platform's persistence layer.
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel represents the GORM model for users
type UserModel struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Username     string    `gorm:"type:varchar(150);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	IsActive     bool      `gorm:"default:true"`
	CreatedAt    time.Time

	Recipes []RecipeModel `gorm:"foreignKey:AuthorID"`
}

func (UserModel) TableName() string { return "users" }

// IngredientModel represents the GORM model for the ingredient catalog.
// An ingredient is unique by its (name, measurement_unit) pair.
type IngredientModel struct {
	ID              uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name            string    `gorm:"type:varchar(255);not null;index;uniqueIndex:idx_ingredient_name_unit"`
	MeasurementUnit string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_ingredient_name_unit"`
}

func (IngredientModel) TableName() string { return "ingredients" }

// TagModel represents the GORM model for recipe tags
type TagModel struct {
	ID    uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name  string    `gorm:"type:varchar(200);not null"`
	Color string    `gorm:"type:varchar(7)"`
	Slug  string    `gorm:"type:varchar(200);uniqueIndex;not null"`
}

func (TagModel) TableName() string { return "tags" }

// RecipeModel represents the GORM model for recipes
type RecipeModel struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"`
	AuthorID    uuid.UUID `gorm:"type:char(36);not null;index"`
	Name        string    `gorm:"type:varchar(255);not null;index"`
	Text        string    `gorm:"type:text"`
	Steps       StringSlice `gorm:"type:json"`
	CookingTime int         `gorm:"column:cooking_time;default:0"`
	Difficulty  string      `gorm:"type:varchar(20);index"`
	ImageURL    string      `gorm:"type:text"`
	ImagePrompt string      `gorm:"type:text"`
	Views       int         `gorm:"column:views_count;default:0"`
	CreatedAt   time.Time   `gorm:"index"`
	UpdatedAt   time.Time

	Author      UserModel               `gorm:"foreignKey:AuthorID"`
	Ingredients []RecipeIngredientModel `gorm:"foreignKey:RecipeID"`
	Tags        []TagModel              `gorm:"many2many:recipe_tags"`
}

func (RecipeModel) TableName() string { return "recipes" }

// RecipeIngredientModel links a recipe to a catalog ingredient with an
// amount. A recipe lists each ingredient at most once.
type RecipeIngredientModel struct {
	RecipeID     uuid.UUID `gorm:"type:char(36);primaryKey"`
	IngredientID uuid.UUID `gorm:"type:char(36);primaryKey"`
	Amount       float64   `gorm:"not null"`

	Ingredient IngredientModel `gorm:"foreignKey:IngredientID"`
}

func (RecipeIngredientModel) TableName() string { return "recipe_ingredients" }

// FavoriteModel marks a recipe as favorited by a user
type FavoriteModel struct {
	UserID    uuid.UUID `gorm:"type:char(36);primaryKey"`
	RecipeID  uuid.UUID `gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time `gorm:"index"`
}

func (FavoriteModel) TableName() string { return "favorites" }

// CartItemModel marks a recipe as added to a user's shopping cart
type CartItemModel struct {
	UserID    uuid.UUID `gorm:"type:char(36);primaryKey"`
	RecipeID  uuid.UUID `gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time `gorm:"index"`
}

func (CartItemModel) TableName() string { return "cart_items" }

// CommentModel represents the GORM model for recipe comments
type CommentModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	RecipeID  uuid.UUID `gorm:"type:char(36);not null;index"`
	AuthorID  uuid.UUID `gorm:"type:char(36);not null;index"`
	Text      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index"`

	Author UserModel `gorm:"foreignKey:AuthorID"`
}

func (CommentModel) TableName() string { return "comments" }

// FollowModel represents a follower/author subscription pair
type FollowModel struct {
	FollowerID uuid.UUID `gorm:"type:char(36);primaryKey"`
	AuthorID   uuid.UUID `gorm:"type:char(36);primaryKey"`
	CreatedAt  time.Time `gorm:"index"`
}

func (FollowModel) TableName() string { return "follows" }

// GeneratedRecipeModel stores model-produced recipes keyed by fingerprint
type GeneratedRecipeModel struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"`
	Fingerprint string    `gorm:"type:char(64);uniqueIndex;not null"`
	Payload     JSONField `gorm:"type:json;not null"`
	Prompt      string    `gorm:"type:text"`
	ImageURL    string    `gorm:"type:text"`
	LastShownAt *time.Time `gorm:"index"`
	CreatedAt   time.Time  `gorm:"index"`
}

func (GeneratedRecipeModel) TableName() string { return "generated_recipes" }

// BeforeCreate assigns IDs when the caller did not
func (m *UserModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *RecipeModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *IngredientModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *TagModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *CommentModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *GeneratedRecipeModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// StringSlice custom type for handling string slices in JSON columns
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// JSONField custom type for arbitrary JSON documents
type JSONField json.RawMessage

// Scan implements the sql.Scanner interface
func (j *JSONField) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = append((*j)[0:0], v...)
		return nil
	case string:
		*j = JSONField(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into JSONField", value)
	}
}

// Value implements the driver.Valuer interface
func (j JSONField) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}
