package models

import (
	"time"

	"github.com/google/uuid"
)

// Meal log kinds. A "meal" is the set of entries sharing
// (user, meal time, kind).
const (
	MealKindActual      = "actual"
	MealKindRecommended = "recommended"
)

// MealLogEntry is one food within a logged meal. Append-only.
type MealLogEntry struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;index:idx_meallog_user_kind_time" json:"user_id"`
	FoodName  string    `gorm:"size:100;not null;index" json:"food_name"`
	QuantityG float64   `gorm:"not null" json:"quantity_g"`
	MealTime  time.Time `gorm:"not null;index:idx_meallog_user_kind_time" json:"meal_time"`
	Kind      string    `gorm:"size:12;not null;index:idx_meallog_user_kind_time" json:"kind"`
}

// Meal is the in-memory composition result: food name to quantity in
// grams, plus the meal timestamp. Not persisted until explicitly logged.
type Meal struct {
	Items map[string]float64 `json:"items"`
	Time  time.Time          `json:"time"`
}
