package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dashunya17/CookingBenefits/internal/middleware"
	"github.com/dashunya17/CookingBenefits/internal/models"
	"github.com/dashunya17/CookingBenefits/internal/recommend"
	"github.com/dashunya17/CookingBenefits/internal/service"
)

// maxImageSize caps recipe photo uploads at 5 MiB.
const maxImageSize = 5 << 20

type RecipeHandler struct {
	recipeService *service.RecipeService
	authService   *service.AuthService
	imageService  *service.ImageService
	rateLimiter   *middleware.RateLimiter
}

func NewRecipeHandler(recipeService *service.RecipeService, authService *service.AuthService, imageService *service.ImageService, rateLimiter *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		authService:   authService,
		imageService:  imageService,
		rateLimiter:   rateLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("/search", h.SearchRecipes)
		recipes.GET("/:id", h.GetRecipe)

		authed := recipes.Group("")
		authed.Use(middleware.AuthMiddleware(h.authService))
		{
			authed.GET("/recommended", h.GetRecommendations)
			authed.GET("/favorites", h.GetFavorites)
			authed.POST("/:id/favorite", h.AddFavorite)
			authed.DELETE("/:id/favorite", h.RemoveFavorite)
		}

		admin := recipes.Group("")
		admin.Use(middleware.AuthMiddleware(h.authService), middleware.AdminRequired())
		if h.rateLimiter != nil {
			admin.Use(h.rateLimiter.RateLimitMiddleware())
		}
		{
			admin.POST("", h.CreateRecipe)
			admin.PUT("/:id", h.UpdateRecipe)
			admin.DELETE("/:id", h.DeleteRecipe)
			admin.GET("/admin/all", h.GetAllRecipes)
			admin.POST("/:id/image", h.UploadRecipeImage)
		}
	}
}

// GetRecommendations is the core path: rank the approved catalog against the
// caller's pantry and exclusions.
func (h *RecipeHandler) GetRecommendations(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	limit := recommend.DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = parsed
	}

	recommendations, err := h.recipeService.GetRecommendations(c.Request.Context(), userID, limit)
	if err != nil {
		if errors.Is(err, recommend.ErrInvalidLimit) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute recommendations"})
		return
	}

	resp := make([]RecommendedRecipeResponse, 0, len(recommendations))
	for _, rec := range recommendations {
		resp = append(resp, toRecommendedRecipeResponse(rec))
	}
	c.JSON(http.StatusOK, gin.H{"recipes": resp})
}

// SearchRecipes is not implemented; it mirrors the catalog endpoint contract
// and always returns an empty list.
func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"recipes": []RecipeResponse{}})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recipe"})
		return
	}
	c.JSON(http.StatusOK, toRecipeResponse(recipe))
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := h.recipeService.AddFavorite(c.Request.Context(), userID, recipeID); err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add favorite"})
		return
	}
	c.Status(http.StatusOK)
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := h.recipeService.RemoveFavorite(c.Request.Context(), userID, recipeID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove favorite"})
		return
	}
	c.Status(http.StatusOK)
}

func (h *RecipeHandler) GetFavorites(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipes, err := h.recipeService.GetFavorites(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch favorites"})
		return
	}

	resp := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		resp = append(resp, toRecipeResponse(&recipes[i]))
	}
	c.JSON(http.StatusOK, gin.H{"recipes": resp})
}

type IngredientRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  float64   `json:"quantity" binding:"required,gt=0"`
	Unit      string    `json:"unit" binding:"required"`
}

type RecipeRequest struct {
	Title              string              `json:"title" binding:"required"`
	Description        string              `json:"description"`
	CookingSteps       string              `json:"cooking_steps" binding:"required"`
	CookingTimeMinutes int                 `json:"cooking_time_minutes"`
	Difficulty         string              `json:"difficulty"`
	Servings           int                 `json:"servings"`
	Category           string              `json:"category"`
	ImageURL           string              `json:"image_url"`
	IsApproved         *bool               `json:"is_approved"`
	Ingredients        []IngredientRequest `json:"ingredients"`
}

func (r *RecipeRequest) toModel() (*models.Recipe, []service.IngredientInput) {
	recipe := &models.Recipe{
		Title:              r.Title,
		Description:        r.Description,
		CookingSteps:       r.CookingSteps,
		CookingTimeMinutes: r.CookingTimeMinutes,
		Difficulty:         r.Difficulty,
		Servings:           r.Servings,
		Category:           r.Category,
		ImageURL:           r.ImageURL,
		IsApproved:         r.IsApproved == nil || *r.IsApproved,
	}
	if recipe.Difficulty == "" {
		recipe.Difficulty = "medium"
	}
	if recipe.Servings == 0 {
		recipe.Servings = 2
	}

	var ingredients []service.IngredientInput
	for _, in := range r.Ingredients {
		ingredients = append(ingredients, service.IngredientInput{
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			Unit:      in.Unit,
		})
	}
	return recipe, ingredients
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, ingredients := req.toModel()
	created, err := h.recipeService.CreateRecipe(c.Request.Context(), recipe, ingredients)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ingredient references unknown product"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create recipe"})
		return
	}
	c.JSON(http.StatusCreated, toRecipeResponse(created))
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, ingredients := req.toModel()
	updated, err := h.recipeService.UpdateRecipe(c.Request.Context(), id, recipe, ingredients)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecipeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "ingredient references unknown product"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update recipe"})
		}
		return
	}
	c.JSON(http.StatusOK, toRecipeResponse(updated))
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete recipe"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) GetAllRecipes(c *gin.Context) {
	recipes, err := h.recipeService.GetAllRecipes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recipes"})
		return
	}

	resp := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		resp = append(resp, toRecipeResponse(&recipes[i]))
	}
	c.JSON(http.StatusOK, gin.H{"recipes": resp})
}

func (h *RecipeHandler) UploadRecipeImage(c *gin.Context) {
	if h.imageService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage is not configured"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImageSize+1))
	if err != nil || len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image body is required"})
		return
	}
	if len(data) > maxImageSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds the size limit"})
		return
	}

	url, err := h.imageService.UploadRecipeImage(c.Request.Context(), id, data, c.ContentType())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload image"})
		return
	}

	if err := h.recipeService.SetImageURL(c.Request.Context(), id, url); err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store image url"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"image_url": url})
}
