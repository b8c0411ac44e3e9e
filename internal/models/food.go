package models

import (
	"time"
)

// Food categories used for ratio allocation and candidate filtering.
const (
	CategoryGrains    = "grains"
	CategoryProtein   = "protein"
	CategoryVegetable = "vegetable"
	CategoryFruit     = "fruit"
	CategoryOil       = "oil"
	CategoryDairy     = "dairy"
)

// Categories lists every food category in composition order.
var Categories = []string{
	CategoryGrains,
	CategoryProtein,
	CategoryVegetable,
	CategoryFruit,
	CategoryOil,
	CategoryDairy,
}

// FoodItem is one row of the nutrient catalog. Nutrient columns are
// normalized to a 100 gram serving. The catalog is read-only to the
// engine; cmd/seedfoods populates it.
type FoodItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Category  string    `gorm:"size:20;not null;index" json:"category"`
	Calories  float64   `gorm:"not null" json:"calories"`
	Protein   float64   `gorm:"not null" json:"protein"`
	Carbs     float64   `gorm:"not null" json:"carbs"`
	Fats      float64   `gorm:"not null" json:"fats"`
}
