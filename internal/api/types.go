package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mealwise/backend/internal/nutrition"
	"github.com/mealwise/backend/internal/service"
)

// CreateUserRequest carries the biometrics and goal needed to register a
// user with the engine.
type CreateUserRequest struct {
	Name           string  `json:"name" binding:"required"`
	Sex            string  `json:"sex" binding:"required,oneof=M F"`
	Age            int     `json:"age" binding:"required,gt=0"`
	HeightCM       float64 `json:"height_cm" binding:"required,gt=0"`
	WeightKG       float64 `json:"weight_kg" binding:"required,gt=0"`
	TargetWeightKG float64 `json:"target_weight_kg" binding:"required,gt=0"`
	EstimatedDays  int     `json:"estimated_days" binding:"required,gt=0"`
}

// UpdateUserRequest carries optional profile/goal updates.
type UpdateUserRequest struct {
	Name           *string  `json:"name"`
	Sex            *string  `json:"sex"`
	Age            *int     `json:"age"`
	HeightCM       *float64 `json:"height_cm"`
	TargetWeightKG *float64 `json:"target_weight_kg"`
	EstimatedDays  *int     `json:"estimated_days"`
}

// AppendWeightRequest records a new weight observation.
type AppendWeightRequest struct {
	WeightKG   float64   `json:"weight_kg" binding:"required,gt=0"`
	ObservedAt time.Time `json:"observed_at" binding:"required"`
}

// SetActivityLevelRequest stores the supervision label for the activity
// classifier.
type SetActivityLevelRequest struct {
	Level string `json:"level" binding:"required"`
}

// LogMealRequest appends a meal to the actual-meal log.
type LogMealRequest struct {
	Items    map[string]float64 `json:"items" binding:"required"`
	MealTime time.Time          `json:"meal_time" binding:"required"`
}

// ComposeMealRequest asks the engine for a meal at the given time.
type ComposeMealRequest struct {
	Timestamp time.Time `json:"timestamp" binding:"required"`
}

// PredictPreferenceRequest scores one (user, food) pair.
type PredictPreferenceRequest struct {
	FoodName       string  `json:"food_name" binding:"required"`
	WasRecommended bool    `json:"was_recommended"`
	QuantityG      float64 `json:"quantity_g" binding:"required,gt=0"`
}

// respondError maps engine errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var invalid nutrition.ErrInvalidBiometrics
	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrFoodNotFound),
		errors.Is(err, service.ErrModelNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInconsistentState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
