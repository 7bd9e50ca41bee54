// Package qa answers free-form cooking questions grounded in the recipe
// vector index. Answers never invent recipes: when nothing relevant is
// found a fixed fallback is returned.
package qa

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/foodgram/platform/internal/domain/aigen"
	"github.com/foodgram/platform/internal/infrastructure/config"
	"github.com/foodgram/platform/internal/ports/outbound"
)

// Verbatim-match boosts applied on top of the vector score
const (
	ingredientBoost  = 1.5
	nameBoost        = 1.3
	descriptionBoost = 1.2
)

// FallbackAnswer is returned when no relevant recipe is found
const FallbackAnswer = "Unfortunately, I could not find suitable recipes to answer your question."

const contextSize = 3

// Response format blocks appended to the structured prompts. The decoder
// rejects responses whose keys differ from these schemas.
const jsonOnlyHeader = `
CRITICAL: Respond with ONLY a valid JSON object in the exact format shown below. Do not include any explanatory text or markdown outside the JSON.

Required JSON format:
`

const cleanedQuestionFormat = `{
  "original_question": "the question as asked",
  "cleaned_question": "the normalized question",
  "intent": "ingredient|recipe|technique"
}`

const keywordsFormat = `{
  "keywords": ["keyword 1", "keyword 2"],
  "categories": ["category 1"],
  "search_type": "ingredient|recipe|technique"
}`

// ScoredRecipe is one ranked result of a question
type ScoredRecipe struct {
	outbound.RecipeDoc
	RelevanceScore float64 `json:"relevance_score"`
}

// Answer is the response to a question: the grounded answer text and the
// recipes it drew from.
type Answer struct {
	Text    string         `json:"answer"`
	Recipes []ScoredRecipe `json:"relevant_recipes"`
}

// Service implements the question-answering pipeline
type Service struct {
	client outbound.AIClient
	index  outbound.VectorIndex
	cfg    *config.Config
	logger *zap.Logger
}

// NewService creates a new QA service
func NewService(client outbound.AIClient, index outbound.VectorIndex, cfg *config.Config, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		index:  index,
		cfg:    cfg,
		logger: logger.Named("qa-service"),
	}
}

// Ask runs the full pipeline: clean the question, extract search terms,
// search the index per term with verbatim boosts, merge by recipe id
// keeping the best score, and answer grounded in the top results.
func (s *Service) Ask(ctx context.Context, question string) (*Answer, error) {
	cleaned := s.cleanQuestion(ctx, question)
	keywords := s.extractKeywords(ctx, cleaned.CleanedQuestion)

	terms := append(append([]string{}, keywords.Keywords...), keywords.Categories...)
	s.logger.Debug("search terms", zap.Strings("terms", terms))

	merged := s.searchTerms(ctx, terms)
	if len(merged) == 0 {
		return &Answer{Text: FallbackAnswer, Recipes: []ScoredRecipe{}}, nil
	}

	top := merged
	if len(top) > contextSize {
		top = top[:contextSize]
	}

	answer, err := s.client.GenerateText(ctx, s.cfg.AI.TextModel,
		answerPrompt(cleaned, keywords, top))
	if err != nil {
		return nil, err
	}
	return &Answer{Text: answer, Recipes: top}, nil
}

// cleanQuestion normalizes the question. On a model failure the raw
// question is used as-is.
func (s *Service) cleanQuestion(ctx context.Context, question string) *aigen.CleanedQuestion {
	prompt := fmt.Sprintf(`Clean the user's question and determine the intent.
Question: %s

Return a structured answer with:
1. The original question
2. The cleaned question
3. The user's intent (ingredient/recipe/technique search)
`, question) + jsonOnlyHeader + cleanedQuestionFormat

	var out aigen.CleanedQuestion
	if err := s.client.GenerateJSON(ctx, s.cfg.AI.RecipeModel, prompt, &out); err != nil {
		s.logger.Warn("question cleanup failed", zap.Error(err))
		return &aigen.CleanedQuestion{OriginalQuestion: question, CleanedQuestion: question, Intent: "unknown"}
	}
	return &out
}

// extractKeywords pulls search terms from the question. On a model
// failure the whole question becomes the only term.
func (s *Service) extractKeywords(ctx context.Context, question string) *aigen.Keywords {
	prompt := fmt.Sprintf(`Extract keywords and categories from the question for recipe search.
Question: %s

Return a structured answer with:
1. The list of keywords
2. The search categories (ingredients, techniques, dish types)
3. The search type (ingredient/recipe/technique)
`, question) + jsonOnlyHeader + keywordsFormat

	var out aigen.Keywords
	if err := s.client.GenerateJSON(ctx, s.cfg.AI.RecipeModel, prompt, &out); err != nil {
		s.logger.Warn("keyword extraction failed", zap.Error(err))
		return &aigen.Keywords{Keywords: []string{question}, SearchType: "unknown"}
	}
	return &out
}

// searchTerms queries the index per term and merges hits by recipe id,
// keeping the highest score. A failing term is logged and skipped.
func (s *Service) searchTerms(ctx context.Context, terms []string) []ScoredRecipe {
	best := make(map[string]ScoredRecipe)
	order := make([]string, 0)

	for _, term := range terms {
		hits, err := s.index.Search(ctx, term, s.cfg.Vector.SearchLimit, s.cfg.Vector.ScoreThreshold)
		if err != nil {
			s.logger.Warn("term search failed", zap.String("term", term), zap.Error(err))
			continue
		}
		for _, hit := range hits {
			score := Boost(hit.Score, term, hit.Doc)
			existing, ok := best[hit.Doc.ID]
			if !ok {
				best[hit.Doc.ID] = ScoredRecipe{RecipeDoc: hit.Doc, RelevanceScore: score}
				order = append(order, hit.Doc.ID)
				continue
			}
			if score > existing.RelevanceScore {
				existing.RelevanceScore = score
				best[hit.Doc.ID] = existing
			}
		}
	}

	merged := make([]ScoredRecipe, 0, len(best))
	for _, id := range order {
		merged = append(merged, best[id])
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].RelevanceScore > merged[j].RelevanceScore
	})
	return merged
}

// Boost amplifies a vector score when the term appears verbatim in the
// recipe's ingredients, name or description.
func Boost(score float64, term string, doc outbound.RecipeDoc) float64 {
	t := strings.ToLower(term)
	for _, ing := range doc.Ingredients {
		if strings.ToLower(ing) == t {
			score *= ingredientBoost
			break
		}
	}
	if strings.Contains(strings.ToLower(doc.Name), t) {
		score *= nameBoost
	}
	if strings.Contains(strings.ToLower(doc.Text), t) {
		score *= descriptionBoost
	}
	return score
}

func answerPrompt(cleaned *aigen.CleanedQuestion, keywords *aigen.Keywords, recipes []ScoredRecipe) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User question: %s\n", cleaned.CleanedQuestion)
	fmt.Fprintf(&b, "Intent: %s\n", cleaned.Intent)
	fmt.Fprintf(&b, "Search type: %s\n\n", keywords.SearchType)
	b.WriteString("Information from recipes:\n")
	for i, r := range recipes {
		fmt.Fprintf(&b, "\nRecipe %d:\nName: %s\nDescription: %s\nIngredients:\n", i+1, r.Name, r.Text)
		for j, ing := range r.Ingredients {
			amount, unit := "", ""
			if j < len(r.Amounts) {
				amount = r.Amounts[j]
			}
			if j < len(r.Units) {
				unit = r.Units[j]
			}
			fmt.Fprintf(&b, "- %s: %s %s\n", ing, amount, unit)
		}
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(r.Tags, ", "))
	}
	b.WriteString(`
IMPORTANT:
1. Do NOT generate new recipes
2. When portions need adapting, use the proportions of the existing recipe
3. When computing nutrition use the standard values:
   - protein: 4 kcal/g
   - fat: 9 kcal/g
   - carbohydrates: 4 kcal/g
4. When adapting a recipe keep the ingredient proportions

Answer the user's question using the information from the recipes.
`)
	return b.String()
}
