package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User holds the biometrics and goal trajectory the engine computes
// nutrient targets from. WeightKG is the latest observation, denormalized
// for cheap reads; the full series lives in WeightObservation.
type User struct {
	ID             uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	Name           string         `gorm:"not null" json:"name"`
	Sex            string         `gorm:"type:varchar(1);not null" json:"sex"`
	Age            int            `gorm:"not null" json:"age"`
	HeightCM       float64        `gorm:"not null" json:"height_cm"`
	WeightKG       float64        `gorm:"not null" json:"weight_kg"`
	TargetWeightKG float64        `gorm:"not null" json:"target_weight_kg"`
	EstimatedDays  int            `gorm:"not null" json:"estimated_days"`
}

// WeightObservation is one point in a user's append-only weight series.
// ObservedAt strictly increases per user; the append path enforces it.
type WeightObservation struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	UserID     uuid.UUID `gorm:"type:varchar(36);not null;index:idx_weight_user_time" json:"user_id"`
	WeightKG   float64   `gorm:"not null" json:"weight_kg"`
	ObservedAt time.Time `gorm:"not null;index:idx_weight_user_time" json:"observed_at"`
}
