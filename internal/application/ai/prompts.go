package ai

import (
	"fmt"
	"strings"

	"github.com/foodgram/platform/internal/domain/aigen"
)

// Prompt templates for the generation operations. Every recipe prompt
// carries the numeric-consistency rules: exact amounts with units,
// lower-cased ingredient names, and a photo prompt for the dish. Every
// structured prompt ends with the exact JSON format the decoder expects;
// responses with different keys fail schema validation.

const jsonOnlyHeader = `
CRITICAL: Respond with ONLY a valid JSON object in the exact format shown below. Do not include any explanatory text or markdown outside the JSON.

Required JSON format:
`

const recipeFormat = `{
  "name": "Dish name",
  "description": "Description of the dish",
  "ingredients": [
    {
      "name": "ingredient name",
      "amount": 1.5,
      "unit": "g"
    }
  ],
  "steps": [
    "Step 1: detailed instruction",
    "Step 2: next step"
  ],
  "cooking_time": 45,
  "difficulty": "easy|medium|hard",
  "image_generation_prompt": "Detailed photo prompt for the dish"
}`

const recipeBatchFormat = `{
  "recipes": [
    {
      "name": "Dish name",
      "description": "Description of the dish",
      "ingredients": [
        {
          "name": "ingredient name",
          "amount": 1.5,
          "unit": "g"
        }
      ],
      "steps": [
        "Step 1: detailed instruction",
        "Step 2: next step"
      ],
      "cooking_time": 45,
      "difficulty": "easy|medium|hard",
      "image_generation_prompt": "Detailed photo prompt for the dish"
    }
  ]
}`

const historyFormat = `{
  "history": "The origin story of the dish",
  "interesting_facts": ["fact 1", "fact 2", "fact 3"],
  "cultural_significance": "The cultural role of the dish"
}`

const pairingsFormat = `{
  "pairings": [
    {
      "name": "drink name",
      "type": "wine|beer|non-alcoholic",
      "description": "drink description",
      "pairing_reason": "why it pairs well with the dish"
    }
  ],
  "general_advice": "General advice on choosing drinks"
}`

const adviceFormat = `{
  "tips": ["cooking tip 1", "cooking tip 2"],
  "variations": ["recipe variation 1"],
  "common_mistakes": ["common mistake 1"],
  "serving_suggestions": ["serving suggestion 1"]
}`

const seoFormat = `{
  "title": "SEO-optimized title",
  "meta_description": "Meta description",
  "keywords": ["keyword 1", "keyword 2"],
  "full_description": "Full SEO description"
}`

const telegramFormat = `{
  "posts": [
    {
      "title": "Catchy post title",
      "content": "Post text with emoji between blocks",
      "hashtags": ["#tag1", "#tag2", "#tag3"],
      "category": "Recipe of the day",
      "recipe_id": 1,
      "comment_id": null,
      "recipe_variations": ["variation"],
      "related_recipes": [2, 3],
      "dietary_type": "vegan",
      "allergen_free": ["nuts"]
    }
  ]
}`

func recipePrompt(request string, cookingTime *int, difficulty string, recentNames []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a chef. Generate a recipe for the request: %q\n", request)
	if cookingTime != nil {
		fmt.Fprintf(&b, "The cooking time must be %d minutes.\n", *cookingTime)
	}
	if difficulty != "" {
		fmt.Fprintf(&b, "The difficulty must be %s.\n", difficulty)
	}
	b.WriteString(`
The recipe must contain:
1. The dish name
2. A description of the dish
3. The ingredient list with exact amounts and measurement units
4. Step-by-step cooking instructions (at least 5 steps)
5. The cooking time in minutes
6. The difficulty: easy, medium or hard
7. A prompt for generating a photo of the dish

Important:
- all ingredient names must be lower case

Also generate a detailed prompt for a photo of this dish. The prompt
must describe the look, plating, lighting and photography style.
`)
	if len(recentNames) > 0 {
		b.WriteString("\nHere are the most recently generated recipes, avoid repeating them:\n")
		for _, name := range recentNames {
			fmt.Fprintf(&b, "- %s\n", name)
		}
	}
	b.WriteString(jsonOnlyHeader)
	b.WriteString(recipeFormat)
	return b.String()
}

func byIngredientsPrompt(count int, ingredients string, cookingTime *int, difficulty string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a chef. Generate %d recipes using the following ingredients: %s\n", count, ingredients)
	if cookingTime != nil {
		fmt.Fprintf(&b, "The cooking time must be %d minutes.\n", *cookingTime)
	}
	if difficulty != "" {
		fmt.Fprintf(&b, "The difficulty must be %s.\n", difficulty)
	}
	b.WriteString(`
Important:
1. for every ingredient give an exact amount and measurement unit (grams, milliliters, pieces and so on)
2. all ingredient names must be lower case

For every recipe also generate a detailed prompt for a photo of the
dish, describing the look, plating, lighting and photography style.
`)
	b.WriteString(jsonOnlyHeader)
	b.WriteString(recipeBatchFormat)
	return b.String()
}

const dailyRecipePrompt = `Generate an interesting recipe of the day. It should be something special and inspiring.

Important: for every ingredient give an exact amount and measurement unit (grams, milliliters, pieces and so on).

Also generate a detailed prompt for a photo of this dish, describing the look, plating, lighting and photography style.
`

func describeRecipe(r *aigen.RecipePayload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", r.Name)
	fmt.Fprintf(&b, "Description: %s\n", r.Description)
	b.WriteString("Ingredients:\n")
	for _, ing := range r.Ingredients {
		fmt.Fprintf(&b, "- %s %v %s\n", ing.Name, ing.Amount, ing.Unit)
	}
	if len(r.Steps) > 0 {
		b.WriteString("Steps:\n")
		for i, step := range r.Steps {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
	}
	return b.String()
}

func adaptPrompt(r *aigen.RecipePayload, restrictions []string, extra string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Adapt the recipe to the following dietary restrictions: %s\n", strings.Join(restrictions, ", "))
	if extra != "" {
		fmt.Fprintf(&b, "Additional requirements: %s\n", extra)
	}
	b.WriteString("\nOriginal recipe:\n")
	b.WriteString(describeRecipe(r))
	b.WriteString(`
Adaptation rules:
1. Replace unsuitable ingredients with dietary alternatives
2. Preserve the proportions and the flavor profile
3. Adapt the cooking process where needed
4. Give exact amounts and measurement units
5. Ingredient names must be lower case

Also generate a detailed prompt for a photo of the adapted dish.
`)
	b.WriteString(jsonOnlyHeader)
	b.WriteString(recipeFormat)
	return b.String()
}

// Replacement names one ingredient swap in a replace-ingredients request
type Replacement struct {
	Original   string   `json:"original"`
	Substitute string   `json:"replacement"`
	Amount     *float64 `json:"amount,omitempty"`
	Unit       string   `json:"unit,omitempty"`
}

func replacePrompt(r *aigen.RecipePayload, replacements []Replacement, notes string) string {
	var b strings.Builder
	b.WriteString("Replace ingredients in the recipe according to the substitution list:\n\n")
	b.WriteString("Original recipe:\n")
	b.WriteString(describeRecipe(r))
	b.WriteString("\nSubstitutions:\n")
	for _, rep := range replacements {
		fmt.Fprintf(&b, "- %s -> %s", rep.Original, rep.Substitute)
		if rep.Amount != nil {
			fmt.Fprintf(&b, " %v %s", *rep.Amount, rep.Unit)
		}
		b.WriteString("\n")
	}
	if notes != "" {
		fmt.Fprintf(&b, "\nAdditional notes: %s\n", notes)
	}
	b.WriteString(`
Substitution rules:
1. Preserve the proportions and the flavor profile
2. Adapt the cooking process where needed
3. Give exact amounts and measurement units
4. Ingredient names must be lower case

Also generate a detailed prompt for a photo of the dish with the new ingredients.
`)
	b.WriteString(jsonOnlyHeader)
	b.WriteString(recipeFormat)
	return b.String()
}

func portionsPrompt(r *aigen.RecipePayload, targetPortions int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Adjust the recipe for %d portions.\n\n", targetPortions)
	b.WriteString("Original recipe:\n")
	b.WriteString(describeRecipe(r))
	fmt.Fprintf(&b, "Cooking time: %d minutes\n", r.CookingTime)
	fmt.Fprintf(&b, "Difficulty: %s\n", r.Difficulty)
	b.WriteString(`
Adjustment rules:
1. Scale every ingredient amount proportionally
2. Keep the proportions between ingredients
3. Adapt the cooking time where needed
4. Give exact amounts and measurement units
5. Ingredient names must be lower case

Also generate a detailed prompt for a photo of the dish.
`)
	b.WriteString(jsonOnlyHeader)
	b.WriteString(recipeFormat)
	return b.String()
}

func historyPrompt(r *aigen.RecipePayload, extra string) string {
	var b strings.Builder
	b.WriteString("Tell the history and interesting facts about the dish based on its recipe:\n\n")
	b.WriteString(describeRecipe(r))
	if extra != "" {
		fmt.Fprintf(&b, "Additional context: %s\n", extra)
	}
	b.WriteString(`
Include:
1. The origin story of the dish
2. 3-5 interesting facts
3. The cultural significance of the dish
`)
	b.WriteString(jsonOnlyHeader)
	b.WriteString(historyFormat)
	return b.String()
}

func drinkPairingsPrompt(r *aigen.RecipePayload, extra string) string {
	var b strings.Builder
	b.WriteString("Suggest drinks that pair well with the dish:\n\n")
	b.WriteString(describeRecipe(r))
	if extra != "" {
		fmt.Fprintf(&b, "Additional context: %s\n", extra)
	}
	b.WriteString(`
Include:
1. 3-5 recommended drinks with descriptions
2. The reasons why they pair well with the dish
3. General advice on choosing drinks
`)
	b.WriteString(jsonOnlyHeader)
	b.WriteString(pairingsFormat)
	return b.String()
}

func chefAdvicePrompt(r *aigen.RecipePayload, extra string) string {
	var b strings.Builder
	b.WriteString("Give professional advice on cooking the dish:\n\n")
	b.WriteString(describeRecipe(r))
	if extra != "" {
		fmt.Fprintf(&b, "Additional context: %s\n", extra)
	}
	b.WriteString(`
Include:
1. Cooking tips
2. Recipe variations
3. Common mistakes
4. Serving suggestions
`)
	b.WriteString(jsonOnlyHeader)
	b.WriteString(adviceFormat)
	return b.String()
}

func seoPrompt(r *aigen.RecipePayload, extra string) string {
	var b strings.Builder
	b.WriteString("Create an SEO-optimized description for the dish:\n\n")
	b.WriteString(describeRecipe(r))
	if extra != "" {
		fmt.Fprintf(&b, "Additional context: %s\n", extra)
	}
	b.WriteString(`
Include:
1. An SEO-optimized title
2. A meta description
3. Keywords
4. A full SEO description
`)
	b.WriteString(jsonOnlyHeader)
	b.WriteString(seoFormat)
	return b.String()
}

const dishNamePrompt = "Invent an original dish name in the format: 'Dish name'"

func telegramPrompt(count, maxLength int, recipes, comments string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d posts for a culinary Telegram channel.\n", count)
	b.WriteString(`
Post categories:
- Recipe of the day
- Chef's tips
- Wine pairing
- Dietary version
- From ingredients
- Dish history
- Allergen free
- Vegan cooking
- Vegetarian cooking
- Gluten-free cooking
- Low-calorie version
- Kids' cooking

Rules:
1. The title must be catchy
2. The content must be detailed and informative:
   - for recipes: description, ingredients, step-by-step instructions, tips
   - for chef's tips: professional recommendations, secrets, techniques
   - for wine pairings: drink descriptions, pairing reasons, serving
   - for dietary versions: ingredient substitutions, calories, benefits
   - for dish history: origins, traditions, interesting facts
3. Add 3-5 hashtags
`)
	fmt.Fprintf(&b, "4. At most %d characters\n", maxLength)
	b.WriteString(`5. Use emoji to separate blocks of text
6. Reference the recipe/comment id when available

For every recipe post include:
- the main recipe id
- related recipe ids
- recipe variations
- the diet type
- excluded allergens
- ingredient substitutions
`)
	if recipes != "" {
		fmt.Fprintf(&b, "\nRecipes for inspiration:\n%s\n", recipes)
	}
	if comments != "" {
		fmt.Fprintf(&b, "\nComments:\n%s\n", comments)
	}
	b.WriteString(jsonOnlyHeader)
	b.WriteString(telegramFormat)
	return b.String()
}
