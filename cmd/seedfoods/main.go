package main

import (
	"os"

	"github.com/mealwise/backend/config"
	"github.com/mealwise/backend/internal/database"
	"github.com/mealwise/backend/internal/models"
	"github.com/mealwise/backend/internal/pkg/logger"
)

// seedFoods is a starter nutrient catalog, per 100 grams.
var seedFoods = []models.FoodItem{
	{Name: "white_rice", Category: models.CategoryGrains, Calories: 130, Protein: 2.4, Carbs: 28, Fats: 0.3},
	{Name: "brown_rice", Category: models.CategoryGrains, Calories: 123, Protein: 2.7, Carbs: 25.6, Fats: 1.0},
	{Name: "oats", Category: models.CategoryGrains, Calories: 389, Protein: 16.9, Carbs: 66.3, Fats: 6.9},
	{Name: "whole_wheat_bread", Category: models.CategoryGrains, Calories: 247, Protein: 13, Carbs: 41, Fats: 3.4},
	{Name: "quinoa", Category: models.CategoryGrains, Calories: 120, Protein: 4.4, Carbs: 21.3, Fats: 1.9},

	{Name: "chicken_breast", Category: models.CategoryProtein, Calories: 165, Protein: 31, Carbs: 0, Fats: 3.6},
	{Name: "salmon", Category: models.CategoryProtein, Calories: 208, Protein: 20, Carbs: 0, Fats: 13},
	{Name: "eggs", Category: models.CategoryProtein, Calories: 155, Protein: 13, Carbs: 1.1, Fats: 11},
	{Name: "tofu", Category: models.CategoryProtein, Calories: 76, Protein: 8, Carbs: 1.9, Fats: 4.8},
	{Name: "lentils", Category: models.CategoryProtein, Calories: 116, Protein: 9, Carbs: 20, Fats: 0.4},

	{Name: "broccoli", Category: models.CategoryVegetable, Calories: 34, Protein: 2.8, Carbs: 6.6, Fats: 0.4},
	{Name: "spinach", Category: models.CategoryVegetable, Calories: 23, Protein: 2.9, Carbs: 3.6, Fats: 0.4},
	{Name: "carrot", Category: models.CategoryVegetable, Calories: 41, Protein: 0.9, Carbs: 9.6, Fats: 0.2},
	{Name: "bell_pepper", Category: models.CategoryVegetable, Calories: 31, Protein: 1, Carbs: 6, Fats: 0.3},
	{Name: "cucumber", Category: models.CategoryVegetable, Calories: 15, Protein: 0.7, Carbs: 3.6, Fats: 0.1},

	{Name: "apple", Category: models.CategoryFruit, Calories: 52, Protein: 0.3, Carbs: 13.8, Fats: 0.2},
	{Name: "banana", Category: models.CategoryFruit, Calories: 89, Protein: 1.1, Carbs: 22.8, Fats: 0.3},
	{Name: "orange", Category: models.CategoryFruit, Calories: 47, Protein: 0.9, Carbs: 11.8, Fats: 0.1},
	{Name: "blueberries", Category: models.CategoryFruit, Calories: 57, Protein: 0.7, Carbs: 14.5, Fats: 0.3},

	{Name: "olive_oil", Category: models.CategoryOil, Calories: 884, Protein: 0, Carbs: 0, Fats: 100},
	{Name: "butter", Category: models.CategoryOil, Calories: 717, Protein: 0.9, Carbs: 0.1, Fats: 81},

	{Name: "greek_yogurt", Category: models.CategoryDairy, Calories: 59, Protein: 10, Carbs: 3.6, Fats: 0.4},
	{Name: "milk", Category: models.CategoryDairy, Calories: 61, Protein: 3.2, Carbs: 4.8, Fats: 3.3},
	{Name: "cheddar", Category: models.CategoryDairy, Calories: 403, Protein: 25, Carbs: 1.3, Fats: 33},
}

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
		log.Fatal("failed to migrate database", "error", err)
	}

	seeded := 0
	for i := range seedFoods {
		var count int64
		if err := db.Model(&models.FoodItem{}).Where("name = ?", seedFoods[i].Name).Count(&count).Error; err != nil {
			log.Fatal("failed to check existing food", "food", seedFoods[i].Name, "error", err)
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&seedFoods[i]).Error; err != nil {
			log.Fatal("failed to seed food", "food", seedFoods[i].Name, "error", err)
		}
		seeded++
	}
	log.Info("catalog seeded", "new_foods", seeded, "total", len(seedFoods))
}
