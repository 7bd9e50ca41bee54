package aigen

import "fmt"

// RecipeHistory is the history/facts/cultural-note response schema
type RecipeHistory struct {
	History              string   `json:"history"`
	InterestingFacts     []string `json:"interesting_facts"`
	CulturalSignificance string   `json:"cultural_significance,omitempty"`
}

func (h *RecipeHistory) Validate() error {
	if h.History == "" {
		return fmt.Errorf("%w: history", ErrMissingField)
	}
	if len(h.InterestingFacts) == 0 {
		return fmt.Errorf("%w: interesting_facts", ErrMissingField)
	}
	return nil
}

// DrinkPairing is one recommended drink
type DrinkPairing struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	Description   string `json:"description"`
	PairingReason string `json:"pairing_reason"`
}

// DrinkPairings is the drink recommendation response schema
type DrinkPairings struct {
	Pairings      []DrinkPairing `json:"pairings"`
	GeneralAdvice string         `json:"general_advice"`
}

func (d *DrinkPairings) Validate() error {
	if len(d.Pairings) == 0 {
		return fmt.Errorf("%w: pairings", ErrMissingField)
	}
	for i, p := range d.Pairings {
		if p.Name == "" {
			return fmt.Errorf("%w: pairings[%d].name", ErrMissingField, i)
		}
	}
	return nil
}

// ChefAdvice is the professional-tips response schema
type ChefAdvice struct {
	Tips               []string `json:"tips"`
	Variations         []string `json:"variations"`
	CommonMistakes     []string `json:"common_mistakes"`
	ServingSuggestions []string `json:"serving_suggestions"`
}

func (c *ChefAdvice) Validate() error {
	if len(c.Tips) == 0 {
		return fmt.Errorf("%w: tips", ErrMissingField)
	}
	return nil
}

// SEODescription is the SEO content response schema
type SEODescription struct {
	Title           string   `json:"title"`
	MetaDescription string   `json:"meta_description"`
	Keywords        []string `json:"keywords"`
	FullDescription string   `json:"full_description"`
}

func (s *SEODescription) Validate() error {
	if s.Title == "" {
		return fmt.Errorf("%w: title", ErrMissingField)
	}
	if s.MetaDescription == "" {
		return fmt.Errorf("%w: meta_description", ErrMissingField)
	}
	return nil
}

// TelegramPost is one generated channel post
type TelegramPost struct {
	Title            string   `json:"title"`
	Content          string   `json:"content"`
	Hashtags         []string `json:"hashtags"`
	Category         string   `json:"category"`
	RecipeID         *int     `json:"recipe_id,omitempty"`
	CommentID        *int     `json:"comment_id,omitempty"`
	RecipeVariations []string `json:"recipe_variations,omitempty"`
	RelatedRecipes   []int    `json:"related_recipes,omitempty"`
	DietaryType      string   `json:"dietary_type,omitempty"`
	AllergenFree     []string `json:"allergen_free,omitempty"`
}

// TelegramPostBatch wraps a batch of generated posts
type TelegramPostBatch struct {
	Posts []TelegramPost `json:"posts"`
}

func (t *TelegramPostBatch) Validate() error {
	if len(t.Posts) == 0 {
		return fmt.Errorf("%w: posts", ErrMissingField)
	}
	for i, p := range t.Posts {
		if p.Title == "" || p.Content == "" {
			return fmt.Errorf("%w: posts[%d]", ErrMissingField, i)
		}
	}
	return nil
}

// CleanedQuestion is the question-normalization response schema
type CleanedQuestion struct {
	OriginalQuestion string `json:"original_question"`
	CleanedQuestion  string `json:"cleaned_question"`
	Intent           string `json:"intent"`
}

func (c *CleanedQuestion) Validate() error {
	if c.CleanedQuestion == "" {
		return fmt.Errorf("%w: cleaned_question", ErrMissingField)
	}
	return nil
}

// Keywords is the keyword-extraction response schema
type Keywords struct {
	Keywords   []string `json:"keywords"`
	Categories []string `json:"categories"`
	SearchType string   `json:"search_type"`
}

func (k *Keywords) Validate() error {
	if len(k.Keywords) == 0 && len(k.Categories) == 0 {
		return fmt.Errorf("%w: keywords", ErrMissingField)
	}
	return nil
}
