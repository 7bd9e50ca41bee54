// Package shopping builds shopping lists from a user's cart. Amounts for
// the same (name, unit) pair are summed; the same name under different
// units stays separate.
package shopping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/foodgram/platform/internal/domain/recipe"
	"github.com/foodgram/platform/internal/ports/outbound"
)

// Item is one aggregated shopping list line
type Item struct {
	Name            string  `json:"name"`
	MeasurementUnit string  `json:"measurement_unit"`
	Amount          float64 `json:"amount"`
}

// Service aggregates cart contents into shopping lists
type Service struct {
	social   outbound.SocialRepository
	cache    outbound.CacheRepository
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewService creates a new shopping list service
func NewService(social outbound.SocialRepository, cache outbound.CacheRepository, cacheTTL time.Duration, logger *zap.Logger) *Service {
	return &Service{
		social:   social,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// List returns the user's aggregated shopping list. Results are cached
// per user and served until the TTL expires, so a cart change may not be
// visible immediately.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Item, error) {
	key := cacheKey(userID)
	if data, err := s.cache.Get(ctx, key); err == nil {
		var items []Item
		if err := json.Unmarshal(data, &items); err == nil {
			return items, nil
		}
	}

	recipes, err := s.social.CartRecipes(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := Aggregate(recipes)

	if data, err := json.Marshal(items); err == nil {
		if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache shopping list", zap.Error(err))
		}
	}
	return items, nil
}

// Aggregate merges the ingredient lines of the given recipes. Lines keep
// the order in which their (name, unit) pair first appears.
func Aggregate(recipes []*recipe.Recipe) []Item {
	type pair struct {
		name string
		unit string
	}
	index := make(map[pair]int)
	items := make([]Item, 0)
	for _, r := range recipes {
		for _, ri := range r.Ingredients {
			k := pair{name: ri.Ingredient.Name, unit: ri.Ingredient.MeasurementUnit}
			if i, ok := index[k]; ok {
				items[i].Amount += ri.Amount
				continue
			}
			index[k] = len(items)
			items = append(items, Item{
				Name:            ri.Ingredient.Name,
				MeasurementUnit: ri.Ingredient.MeasurementUnit,
				Amount:          ri.Amount,
			})
		}
	}
	return items
}

// RenderPDF renders the shopping list as a downloadable PDF document
func (s *Service) RenderPDF(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	items, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Shopping list")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 12)
	if len(items) == 0 {
		pdf.Cell(0, 8, "Your shopping cart is empty.")
	}
	for i, item := range items {
		line := fmt.Sprintf("%d. %s (%s) - %s", i+1, item.Name, item.MeasurementUnit, formatAmount(item.Amount))
		pdf.Cell(0, 8, line)
		pdf.Ln(8)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render shopping list: %w", err)
	}
	return buf.Bytes(), nil
}

func formatAmount(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

func cacheKey(userID uuid.UUID) string {
	return "shopping:" + userID.String()
}
