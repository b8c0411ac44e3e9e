package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity levels, ordered sedentary to super active. The ordering is the
// activity classifier's label vocabulary and must stay stable.
const (
	ActivitySedentary        = "sedentary"
	ActivityLightlyActive    = "lightly_active"
	ActivityModeratelyActive = "moderately_active"
	ActivityVeryActive       = "very_active"
	ActivitySuperActive      = "super_active"
)

// ActivityLevels lists every recognized activity level in vocabulary order.
var ActivityLevels = []string{
	ActivitySedentary,
	ActivityLightlyActive,
	ActivityModeratelyActive,
	ActivityVeryActive,
	ActivitySuperActive,
}

// Documented default policy for absent prediction rows.
const (
	DefaultActivityLevel   = ActivityModeratelyActive
	DefaultPreferenceScore = 0.5
	DefaultGainFactor      = 1.1
	DefaultLossFactor      = 0.9
)

// FoodPreference is the persisted output of the preference classifier:
// the probability the user consumes the food. One row per (user, food).
type FoodPreference struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_pref_user_food" json:"user_id"`
	FoodName  string    `gorm:"size:100;not null;uniqueIndex:idx_pref_user_food" json:"food_name"`
	Category  string    `gorm:"size:20;not null" json:"category"`
	Score     float64   `gorm:"not null" json:"score"`
}

// ActivityLevelEstimate is the persisted output of the activity
// classifier. One row per user.
type ActivityLevelEstimate struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	Level     string    `gorm:"size:20;not null" json:"level"`
}

// WeightTrendFactor is the multiplicative caloric correction steering the
// user toward their target weight. LossFactor = 1/GainFactor by
// construction. One row per user.
type WeightTrendFactor struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	UpdatedAt  time.Time `json:"updated_at"`
	UserID     uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	GainFactor float64   `gorm:"not null" json:"gain_factor"`
	LossFactor float64   `gorm:"not null" json:"loss_factor"`
}
