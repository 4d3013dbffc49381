package api

import (
	"github.com/google/uuid"

	"github.com/dashunya17/CookingBenefits/internal/models"
	"github.com/dashunya17/CookingBenefits/internal/service"
)

// IngredientResponse is one required product in a recipe payload
type IngredientResponse struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    float64   `json:"quantity"`
	Unit        string    `json:"unit"`
}

// RecipeResponse is the recipe payload shared by catalog and admin endpoints
type RecipeResponse struct {
	ID                 uuid.UUID            `json:"id"`
	Title              string               `json:"title"`
	Description        string               `json:"description"`
	CookingSteps       string               `json:"cooking_steps"`
	CookingTimeMinutes int                  `json:"cooking_time_minutes"`
	Difficulty         string               `json:"difficulty"`
	Servings           int                  `json:"servings"`
	Category           string               `json:"category"`
	ImageURL           string               `json:"image_url"`
	IsApproved         bool                 `json:"is_approved"`
	Ingredients        []IngredientResponse `json:"ingredients"`
}

// RecommendedRecipeResponse decorates a recipe with its match figures
type RecommendedRecipeResponse struct {
	RecipeResponse
	MatchPercentage    float64  `json:"match_percentage"`
	MissingIngredients []string `json:"missing_ingredients"`
	IsFavorite         bool     `json:"is_favorite"`
}

// ProductResponse is the product payload for catalog and pantry endpoints
type ProductResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	IsCommon bool      `json:"is_common"`
}

func toRecipeResponse(recipe *models.Recipe) RecipeResponse {
	resp := RecipeResponse{
		ID:                 recipe.ID,
		Title:              recipe.Title,
		Description:        recipe.Description,
		CookingSteps:       recipe.CookingSteps,
		CookingTimeMinutes: recipe.CookingTimeMinutes,
		Difficulty:         recipe.Difficulty,
		Servings:           recipe.Servings,
		Category:           recipe.Category,
		ImageURL:           recipe.ImageURL,
		IsApproved:         recipe.IsApproved,
		Ingredients:        []IngredientResponse{},
	}
	for _, ing := range recipe.Ingredients {
		resp.Ingredients = append(resp.Ingredients, IngredientResponse{
			ProductID:   ing.ProductID,
			ProductName: ing.Product.Name,
			Quantity:    ing.Quantity,
			Unit:        ing.Unit,
		})
	}
	return resp
}

func toRecommendedRecipeResponse(rec service.Recommendation) RecommendedRecipeResponse {
	return RecommendedRecipeResponse{
		RecipeResponse:     toRecipeResponse(&rec.Recipe),
		MatchPercentage:    rec.MatchPercentage,
		MissingIngredients: rec.MissingIngredients,
		IsFavorite:         rec.IsFavorite,
	}
}

func toProductResponse(product *models.Product) ProductResponse {
	return ProductResponse{
		ID:       product.ID,
		Name:     product.Name,
		Category: product.Category,
		IsCommon: product.IsCommon,
	}
}
