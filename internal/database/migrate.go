package database

import (
	"gorm.io/gorm"

	"github.com/mealwise/backend/internal/models"
)

// AutoMigrate creates or updates the schema for every persisted entity.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.WeightObservation{},
		&models.MealLogEntry{},
		&models.FoodItem{},
		&models.FoodPreference{},
		&models.ActivityLevelEstimate{},
		&models.WeightTrendFactor{},
	)
}
