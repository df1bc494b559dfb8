package main

import (
	"context"
	"os"
	"time"

	"github.com/foodkart-next/internal/config"
	"github.com/foodkart-next/internal/docstore"
	"github.com/foodkart-next/internal/logger"
	"github.com/foodkart-next/internal/models"
	"github.com/foodkart-next/internal/repository"
	"github.com/foodkart-next/internal/seed"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var promos repository.PromoRepository = repository.NewPromoRepository(models.DB)
	if cfg.Storage.UseFirestore() {
		client, err := docstore.NewClient(ctx, cfg.Storage.Firestore.ProjectID)
		if err != nil {
			stdLog.Fatalf("Failed to connect firestore: %v", err)
		}
		defer client.Close()
		promos = docstore.NewPromoRepository(client, docstore.NewCollections(cfg.Storage.Firestore.CollectionPrefix))
	}

	result, err := seed.Run(ctx, models.DB, promos)
	if err != nil {
		stdLog.Printf("Seed failed: %v", err)
		os.Exit(1)
	}
	stdLog.Printf("Seed finished: %d restaurants, %d menu items, %d promos created",
		result.RestaurantsCreated, result.MenuItemsCreated, result.PromosCreated)
}
