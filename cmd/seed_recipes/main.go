// Command seed_recipes populates a fresh database with local recipes
// pulled from the free seed source, so a development instance has
// content before any user contributes.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/forkful/backend/config"
	"github.com/forkful/backend/internal/database"
	"github.com/forkful/backend/internal/generate"
	"github.com/forkful/backend/internal/logging"
	"github.com/forkful/backend/internal/models"
	"github.com/forkful/backend/internal/seed"
	"github.com/forkful/backend/internal/store"
)

const fetchDelay = 200 * time.Millisecond

var searchTerms = []string{
	"chicken",
	"beef",
	"pasta",
	"salmon",
	"curry",
	"salad",
	"soup",
	"rice",
}

func main() {
	perTerm := flag.Int("per-term", 3, "recipes to import per search term")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.RunMigrations(db.Gorm); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	recipeStore := store.New(db.Gorm)
	seedClient := seed.New(cfg.SeedAPIURL)
	ctx := context.Background()

	imported := 0
	for _, term := range searchTerms {
		records, err := seedClient.SearchByName(ctx, term)
		if err != nil {
			logger.Warn("seed search failed", zap.String("term", term), zap.Error(err))
			continue
		}
		if len(records) > *perTerm {
			records = records[:*perTerm]
		}

		for i := range records {
			recipe := recordToLocal(&records[i])
			if err := recipeStore.Insert(ctx, recipe); err != nil {
				logger.Warn("failed to insert recipe",
					zap.String("title", recipe.Title), zap.Error(err))
				continue
			}
			imported++
			time.Sleep(fetchDelay)
		}
	}

	logger.Info("seeding complete", zap.Int("imported", imported))
}

// recordToLocal converts a seed record into a plain local recipe. No
// generation is involved; the raw record is content enough for a
// development database.
func recordToLocal(record *seed.Record) *models.Recipe {
	return &models.Recipe{
		Title:        record.Title,
		Description:  "Imported from the community recipe archive.",
		ImageURL:     record.ImageURL,
		Ingredients:  models.JSONBStringArray(record.Ingredients),
		Instructions: models.JSONBStringArray(generate.SplitInstructions(record.Instructions)),
		CuisineType:  record.Area,
		Provenance:   models.ProvenanceLocal,
		OwnerRef:     "system:seeder",
	}
}
