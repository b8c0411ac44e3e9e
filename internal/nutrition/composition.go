package nutrition

import (
	"github.com/mealwise/backend/internal/models"
)

// healthyComposition holds the reference "ideal composition" per food
// category, per 100 grams. Candidate foods are scored against these.
var healthyComposition = map[string]Vector{
	models.CategoryGrains:    {Calories: 82, Protein: 10, Carbs: 70, Fats: 2},
	models.CategoryProtein:   {Calories: 25, Protein: 20, Carbs: 0, Fats: 5},
	models.CategoryVegetable: {Calories: 5, Protein: 2, Carbs: 5, Fats: 0.5},
	models.CategoryFruit:     {Calories: 15, Protein: 1, Carbs: 15, Fats: 0.2},
	models.CategoryOil:       {Calories: 90, Protein: 20, Carbs: 20, Fats: 50},
	models.CategoryDairy:     {Calories: 10, Protein: 3.5, Carbs: 5, Fats: 2},
}

// HealthyComposition returns the ideal per-100g composition for a
// category. The zero Vector is returned for unknown categories.
func HealthyComposition(category string) Vector {
	return healthyComposition[category]
}

// BaseCategoryRatios are the calorie shares each category starts from
// before the composer's per-category adjustment. Oil carries a materially
// smaller share, reflecting its energy density.
var BaseCategoryRatios = map[string]float64{
	models.CategoryGrains:    0.30,
	models.CategoryProtein:   0.15,
	models.CategoryVegetable: 0.25,
	models.CategoryFruit:     0.15,
	models.CategoryOil:       0.005,
	models.CategoryDairy:     0.10,
}
