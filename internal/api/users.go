package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mealwise/backend/internal/models"
	"github.com/mealwise/backend/internal/nutrition"
	"github.com/mealwise/backend/internal/service"
)

// UserHandler exposes user accounts, weight logging and needs previews.
type UserHandler struct {
	users    *service.UserService
	activity *service.ActivityService
	trend    *service.TrendService
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(users *service.UserService, activity *service.ActivityService, trend *service.TrendService) *UserHandler {
	return &UserHandler{users: users, activity: activity, trend: trend}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.POST("", h.CreateUser)
		users.GET("/:id", h.GetUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
		users.POST("/:id/weight", h.AppendWeight)
		users.PUT("/:id/activity-level", h.SetActivityLevel)
		users.GET("/:id/needs", h.GetNeeds)
	}
}

func parseUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := &models.User{
		Name:           req.Name,
		Sex:            req.Sex,
		Age:            req.Age,
		HeightCM:       req.HeightCM,
		WeightKG:       req.WeightKG,
		TargetWeightKG: req.TargetWeightKG,
		EstimatedDays:  req.EstimatedDays,
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}
	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Update(c.Request.Context(), id, &service.UserUpdate{
		Name:           req.Name,
		Sex:            req.Sex,
		Age:            req.Age,
		HeightCM:       req.HeightCM,
		TargetWeightKG: req.TargetWeightKG,
		EstimatedDays:  req.EstimatedDays,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) AppendWeight(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}
	var req AppendWeightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.users.AppendWeight(c.Request.Context(), id, req.WeightKG, req.ObservedAt); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) SetActivityLevel(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}
	var req SetActivityLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.activity.SetLevel(c.Request.Context(), id, req.Level); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetNeeds previews the user's current daily target: activity estimate
// and trend factor applied, floors enforced.
func (h *UserHandler) GetNeeds(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	user, err := h.users.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	level, err := h.activity.CurrentLevel(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	gain, loss, err := h.trend.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	needs, err := nutrition.ComputeNeeds(user, level, gain, loss)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"needs": needs, "activity_level": level})
}
