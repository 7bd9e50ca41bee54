// Package main refreshes the semantic search index from live recipes
package main

import (
	"context"
	"flag"
	"log"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/foodgram/platform/internal/domain/recipe"
	"github.com/foodgram/platform/internal/infrastructure/backend"
	"github.com/foodgram/platform/internal/infrastructure/config"
	"github.com/foodgram/platform/internal/infrastructure/vector"
	"github.com/foodgram/platform/internal/ports/outbound"
	"github.com/foodgram/platform/pkg/logger"
)

func main() {
	limit := flag.Int("limit", 1000, "maximum number of recipes to index")
	configPath := flag.String("config", "", "config file path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	zl, err := logger.New(logger.Config{Level: cfg.App.LogLevel, Format: cfg.App.LogFormat, Development: cfg.App.Debug})
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	client := backend.NewClient(&cfg.Backend, zl)
	recipes, err := client.ListRecipes(ctx, *limit)
	if err != nil {
		zl.Fatal("fetch recipes", zap.Error(err))
	}

	docs := make([]outbound.RecipeDoc, 0, len(recipes))
	for i := range recipes {
		docs = append(docs, toDoc(&recipes[i]))
	}

	index := vector.NewIndex(&cfg.Vector, zl)
	if err := index.Upsert(ctx, docs); err != nil {
		zl.Fatal("index recipes", zap.Error(err))
	}
	zl.Info("index refreshed", zap.Int("recipes", len(docs)))
}

func toDoc(rec *recipe.Recipe) outbound.RecipeDoc {
	doc := outbound.RecipeDoc{
		ID:   rec.ID.String(),
		Name: rec.Name,
		Text: rec.Text,
	}
	for _, ri := range rec.Ingredients {
		doc.Ingredients = append(doc.Ingredients, ri.Ingredient.Name)
		doc.Amounts = append(doc.Amounts, strconv.FormatFloat(ri.Amount, 'f', -1, 64))
		doc.Units = append(doc.Units, ri.Ingredient.MeasurementUnit)
	}
	for _, tag := range rec.Tags {
		doc.Tags = append(doc.Tags, tag.Name)
	}
	return doc
}
