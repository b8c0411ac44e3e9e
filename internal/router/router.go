package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mealwise/backend/internal/api"
	"github.com/mealwise/backend/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(
	userHandler *api.UserHandler,
	mealHandler *api.MealHandler,
	modelHandler *api.ModelHandler,
	jwtSecret string,
) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(jwtSecret))
	{
		userHandler.RegisterRoutes(v1)
		mealHandler.RegisterRoutes(v1)
		modelHandler.RegisterRoutes(v1)
	}

	return router
}
