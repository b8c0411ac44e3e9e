package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mealwise/backend/internal/models"
	"github.com/mealwise/backend/internal/service"
)

// MealHandler exposes meal composition and meal logging.
type MealHandler struct {
	composer *service.ComposerService
	meals    *service.MealLogService
}

// NewMealHandler creates a new MealHandler instance
func NewMealHandler(composer *service.ComposerService, meals *service.MealLogService) *MealHandler {
	return &MealHandler{composer: composer, meals: meals}
}

func (h *MealHandler) RegisterRoutes(router *gin.RouterGroup) {
	meals := router.Group("/users/:id/meals")
	{
		meals.POST("/compose", h.ComposeMeal)
		meals.POST("", h.LogMeal)
		meals.GET("", h.ListMeals)
	}
}

// ComposeMeal runs the engine and returns the recommended meal; the meal
// is also appended to the recommended-meal log.
func (h *MealHandler) ComposeMeal(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}
	var req ComposeMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	meal, err := h.composer.Compose(c.Request.Context(), id, req.Timestamp)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

// LogMeal appends an actual meal the user ate.
func (h *MealHandler) LogMeal(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}
	var req LogMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.meals.LogMeal(c.Request.Context(), id, models.MealKindActual, req.Items, req.MealTime); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// ListMeals returns log entries of one kind (default actual) in an
// optional time range.
func (h *MealHandler) ListMeals(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}
	kind := c.DefaultQuery("kind", models.MealKindActual)

	var from, to time.Time
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from timestamp"})
			return
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to timestamp"})
			return
		}
		to = t
	}

	entries, err := h.meals.Entries(c.Request.Context(), id, kind, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
