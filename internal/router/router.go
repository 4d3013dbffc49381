package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dashunya17/CookingBenefits/internal/api"
	"github.com/dashunya17/CookingBenefits/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(
	logger *zap.Logger,
	healthHandler *api.HealthHandler,
	authHandler *api.AuthHandler,
	productHandler *api.ProductHandler,
	recipeHandler *api.RecipeHandler,
) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(logger), gin.Recovery())
	router.Use(middleware.CORS())

	healthHandler.RegisterRoutes(router)

	v1 := router.Group("/api/v1")
	authHandler.RegisterRoutes(v1)
	productHandler.RegisterRoutes(v1)
	recipeHandler.RegisterRoutes(v1)

	return router
}
