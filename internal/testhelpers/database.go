package testhelpers

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mealwise/backend/internal/database"
	"github.com/mealwise/backend/internal/models"
)

// OpenTestDB opens an in-memory SQLite database with the full schema.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	return db
}

// SeedFoods loads a small catalog covering every category.
func SeedFoods(t *testing.T, db *gorm.DB) {
	t.Helper()
	foods := []models.FoodItem{
		{Name: "brown_rice", Category: models.CategoryGrains, Calories: 123, Protein: 2.7, Carbs: 25.6, Fats: 1.0},
		{Name: "oats", Category: models.CategoryGrains, Calories: 389, Protein: 16.9, Carbs: 66.3, Fats: 6.9},
		{Name: "chicken_breast", Category: models.CategoryProtein, Calories: 165, Protein: 31, Carbs: 0, Fats: 3.6},
		{Name: "tofu", Category: models.CategoryProtein, Calories: 76, Protein: 8, Carbs: 1.9, Fats: 4.8},
		{Name: "broccoli", Category: models.CategoryVegetable, Calories: 34, Protein: 2.8, Carbs: 6.6, Fats: 0.4},
		{Name: "spinach", Category: models.CategoryVegetable, Calories: 23, Protein: 2.9, Carbs: 3.6, Fats: 0.4},
		{Name: "apple", Category: models.CategoryFruit, Calories: 52, Protein: 0.3, Carbs: 13.8, Fats: 0.2},
		{Name: "banana", Category: models.CategoryFruit, Calories: 89, Protein: 1.1, Carbs: 22.8, Fats: 0.3},
		{Name: "olive_oil", Category: models.CategoryOil, Calories: 884, Protein: 0, Carbs: 0, Fats: 100},
		{Name: "greek_yogurt", Category: models.CategoryDairy, Calories: 59, Protein: 10, Carbs: 3.6, Fats: 0.4},
		{Name: "milk", Category: models.CategoryDairy, Calories: 61, Protein: 3.2, Carbs: 4.8, Fats: 3.3},
	}
	for i := range foods {
		if err := db.Create(&foods[i]).Error; err != nil {
			t.Fatalf("failed to seed food %s: %v", foods[i].Name, err)
		}
	}
}
