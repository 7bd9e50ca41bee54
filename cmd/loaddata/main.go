// Package main loads the ingredient and tag catalogs from CSV files
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/foodgram/platform/internal/domain/recipe"
	"github.com/foodgram/platform/internal/infrastructure/config"
	gormrepo "github.com/foodgram/platform/internal/infrastructure/persistence/gorm"
	"github.com/foodgram/platform/internal/ports/outbound"
	apperrors "github.com/foodgram/platform/pkg/errors"
	"github.com/foodgram/platform/pkg/logger"
)

func main() {
	ingredientsPath := flag.String("ingredients", "", "CSV file with name,measurement_unit rows")
	tagsPath := flag.String("tags", "", "CSV file with name,color,slug rows")
	configPath := flag.String("config", "", "config file path")
	flag.Parse()

	if *ingredientsPath == "" && *tagsPath == "" {
		log.Fatal("nothing to load: pass -ingredients and/or -tags")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	zl, err := logger.New(logger.Config{Level: cfg.App.LogLevel, Format: cfg.App.LogFormat, Development: cfg.App.Debug})
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := gormrepo.Open(cfg, zl)
	if err != nil {
		zl.Fatal("open database", zap.Error(err))
	}

	ctx := context.Background()
	if *ingredientsPath != "" {
		n, err := loadIngredients(ctx, gormrepo.NewIngredientRepository(db), *ingredientsPath)
		if err != nil {
			zl.Fatal("load ingredients", zap.Error(err))
		}
		zl.Info("ingredients loaded", zap.Int("count", n))
	}
	if *tagsPath != "" {
		n, err := loadTags(ctx, gormrepo.NewTagRepository(db), *tagsPath)
		if err != nil {
			zl.Fatal("load tags", zap.Error(err))
		}
		zl.Info("tags loaded", zap.Int("count", n))
	}
}

func readCSV(path string, fields int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = fields
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}

func loadIngredients(ctx context.Context, repo outbound.IngredientRepository, path string) (int, error) {
	records, err := readCSV(path, 2)
	if err != nil {
		return 0, err
	}
	loaded := 0
	for _, rec := range records {
		ing := &recipe.Ingredient{
			Name:            strings.ToLower(strings.TrimSpace(rec[0])),
			MeasurementUnit: strings.TrimSpace(rec[1]),
		}
		if err := repo.Create(ctx, ing); err != nil {
			// existing rows are left alone on re-runs
			if apperrors.IsCode(err, apperrors.CodeConflict) {
				continue
			}
			return loaded, err
		}
		loaded++
	}
	return loaded, nil
}

func loadTags(ctx context.Context, repo outbound.TagRepository, path string) (int, error) {
	records, err := readCSV(path, 3)
	if err != nil {
		return 0, err
	}
	loaded := 0
	for _, rec := range records {
		tag := &recipe.Tag{
			Name:  strings.TrimSpace(rec[0]),
			Color: strings.TrimSpace(rec[1]),
			Slug:  strings.ToLower(strings.TrimSpace(rec[2])),
		}
		if err := repo.Create(ctx, tag); err != nil {
			if apperrors.IsCode(err, apperrors.CodeConflict) {
				continue
			}
			return loaded, err
		}
		loaded++
	}
	return loaded, nil
}
