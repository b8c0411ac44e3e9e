package main

import (
	"os"

	"github.com/mealwise/backend/config"
	"github.com/mealwise/backend/internal/database"
	"github.com/mealwise/backend/internal/pkg/logger"
)

func main() {
	log, err := logger.New(os.Getenv("ENV"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("failed to load configuration", "error", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatal("failed to connect to database", "error", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("migration failed", "error", err)
	}
	log.Info("migration complete")
}
