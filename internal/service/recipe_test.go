package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dashunya17/CookingBenefits/internal/models"
	"github.com/dashunya17/CookingBenefits/internal/recommend"
	"github.com/dashunya17/CookingBenefits/internal/service"
	"github.com/dashunya17/CookingBenefits/internal/testhelpers"
)

func setupRecipeTest(t *testing.T) (*gorm.DB, *service.ProductService, *service.RecipeService) {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	products := service.NewProductService(db, nil, nil)
	recipes := service.NewRecipeService(db, products, nil, nil)
	return db, products, recipes
}

func createRecipe(t *testing.T, svc *service.RecipeService, title, difficulty string, productIDs ...uuid.UUID) *models.Recipe {
	t.Helper()
	ingredients := make([]service.IngredientInput, 0, len(productIDs))
	for _, id := range productIDs {
		ingredients = append(ingredients, service.IngredientInput{
			ProductID: id,
			Quantity:  1,
			Unit:      "pcs",
		})
	}
	recipe, err := svc.CreateRecipe(context.Background(), &models.Recipe{
		Title:        title,
		CookingSteps: "Cook it.",
		Difficulty:   difficulty,
		Servings:     2,
	}, ingredients)
	require.NoError(t, err)
	return recipe
}

func TestGetRecommendationsRanksByMatch(t *testing.T) {
	db, products, recipes := setupRecipeTest(t)
	ctx := context.Background()
	userID := uuid.New()

	eggs := createProduct(t, db, "Eggs", "dairy")
	milk := createProduct(t, db, "Milk", "dairy")
	flour := createProduct(t, db, "Flour", "baking")
	beef := createProduct(t, db, "Beef", "meat")

	omelette := createRecipe(t, recipes, "Omelette", "medium", eggs.ID, milk.ID)
	pancakes := createRecipe(t, recipes, "Pancakes", "medium", eggs.ID, milk.ID, flour.ID)
	createRecipe(t, recipes, "Beef stew", "hard", beef.ID)

	require.NoError(t, products.AddUserProduct(ctx, userID, eggs.ID))
	require.NoError(t, products.AddUserProduct(ctx, userID, milk.ID))

	result, err := recipes.GetRecommendations(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, omelette.ID, result[0].Recipe.ID)
	assert.InDelta(t, 100.0, result[0].MatchPercentage, 0.01)
	assert.Empty(t, result[0].MissingIngredients)

	assert.Equal(t, pancakes.ID, result[1].Recipe.ID)
	assert.InDelta(t, 66.7, result[1].MatchPercentage, 0.01)
	assert.Equal(t, []string{"Flour"}, result[1].MissingIngredients)
}

func TestGetRecommendationsHonorsExclusions(t *testing.T) {
	db, products, recipes := setupRecipeTest(t)
	ctx := context.Background()
	userID := uuid.New()

	eggs := createProduct(t, db, "Eggs", "dairy")
	peanuts := createProduct(t, db, "Peanuts", "nuts")

	createRecipe(t, recipes, "Peanut omelette", "easy", eggs.ID, peanuts.ID)

	require.NoError(t, products.AddUserProduct(ctx, userID, eggs.ID))
	require.NoError(t, products.AddExclusion(ctx, userID, peanuts.ID, "allergy"))

	result, err := recipes.GetRecommendations(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.InDelta(t, 25.0, result[0].MatchPercentage, 0.01)
}

func TestGetRecommendationsInvalidLimit(t *testing.T) {
	_, _, recipes := setupRecipeTest(t)

	_, err := recipes.GetRecommendations(context.Background(), uuid.New(), 0)
	assert.ErrorIs(t, err, recommend.ErrInvalidLimit)

	_, err = recipes.GetRecommendations(context.Background(), uuid.New(), -5)
	assert.ErrorIs(t, err, recommend.ErrInvalidLimit)
}

func TestGetRecommendationsSkipsUnapproved(t *testing.T) {
	db, products, recipes := setupRecipeTest(t)
	ctx := context.Background()
	userID := uuid.New()

	eggs := createProduct(t, db, "Eggs", "dairy")
	recipe := createRecipe(t, recipes, "Omelette", "easy", eggs.ID)
	require.NoError(t, db.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Update("is_approved", false).Error)

	require.NoError(t, products.AddUserProduct(ctx, userID, eggs.ID))

	result, err := recipes.GetRecommendations(ctx, userID, 10)
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestGetRecommendationsMarksFavorites(t *testing.T) {
	db, products, recipes := setupRecipeTest(t)
	ctx := context.Background()
	userID := uuid.New()

	eggs := createProduct(t, db, "Eggs", "dairy")
	milk := createProduct(t, db, "Milk", "dairy")

	omelette := createRecipe(t, recipes, "Omelette", "easy", eggs.ID)
	createRecipe(t, recipes, "Milk soup", "easy", milk.ID)

	require.NoError(t, products.AddUserProduct(ctx, userID, eggs.ID))
	require.NoError(t, products.AddUserProduct(ctx, userID, milk.ID))
	require.NoError(t, recipes.AddFavorite(ctx, userID, omelette.ID))

	result, err := recipes.GetRecommendations(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, result, 2)
	for _, rec := range result {
		assert.Equal(t, rec.Recipe.ID == omelette.ID, rec.IsFavorite)
	}
}

func TestFavoritesLifecycle(t *testing.T) {
	db, _, recipes := setupRecipeTest(t)
	ctx := context.Background()
	userID := uuid.New()

	eggs := createProduct(t, db, "Eggs", "dairy")
	omelette := createRecipe(t, recipes, "Omelette", "easy", eggs.ID)

	require.NoError(t, recipes.AddFavorite(ctx, userID, omelette.ID))
	require.NoError(t, recipes.AddFavorite(ctx, userID, omelette.ID))

	favorites, err := recipes.GetFavorites(ctx, userID)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, "Omelette", favorites[0].Title)

	require.NoError(t, recipes.RemoveFavorite(ctx, userID, omelette.ID))
	favorites, err = recipes.GetFavorites(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, favorites)

	err = recipes.AddFavorite(ctx, userID, uuid.New())
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)
}

func TestCreateRecipeLoadsIngredients(t *testing.T) {
	db, _, recipes := setupRecipeTest(t)

	eggs := createProduct(t, db, "Eggs", "dairy")
	milk := createProduct(t, db, "Milk", "dairy")

	recipe := createRecipe(t, recipes, "Omelette", "easy", eggs.ID, milk.ID)
	require.Len(t, recipe.Ingredients, 2)
	assert.True(t, recipe.IsApproved)

	names := []string{recipe.Ingredients[0].Product.Name, recipe.Ingredients[1].Product.Name}
	assert.ElementsMatch(t, []string{"Eggs", "Milk"}, names)
}

func TestCreateRecipeUnknownIngredient(t *testing.T) {
	_, _, recipes := setupRecipeTest(t)

	_, err := recipes.CreateRecipe(context.Background(), &models.Recipe{
		Title:        "Mystery dish",
		CookingSteps: "???",
	}, []service.IngredientInput{{ProductID: uuid.New(), Quantity: 1, Unit: "pcs"}})
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}

func TestUpdateRecipeReplacesIngredients(t *testing.T) {
	db, _, recipes := setupRecipeTest(t)
	ctx := context.Background()

	eggs := createProduct(t, db, "Eggs", "dairy")
	milk := createProduct(t, db, "Milk", "dairy")
	flour := createProduct(t, db, "Flour", "baking")

	recipe := createRecipe(t, recipes, "Omelette", "easy", eggs.ID, milk.ID)

	updated, err := recipes.UpdateRecipe(ctx, recipe.ID, &models.Recipe{
		Title:        "Pancakes",
		CookingSteps: "Mix and fry.",
		Difficulty:   "medium",
		Servings:     4,
		IsApproved:   true,
	}, []service.IngredientInput{
		{ProductID: flour.ID, Quantity: 200, Unit: "g"},
		{ProductID: milk.ID, Quantity: 300, Unit: "ml"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", updated.Title)
	assert.Equal(t, 4, updated.Servings)
	require.Len(t, updated.Ingredients, 2)

	_, err = recipes.UpdateRecipe(ctx, uuid.New(), &models.Recipe{Title: "X"}, nil)
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)
}

func TestDeleteRecipeRemovesIngredients(t *testing.T) {
	db, _, recipes := setupRecipeTest(t)
	ctx := context.Background()

	eggs := createProduct(t, db, "Eggs", "dairy")
	recipe := createRecipe(t, recipes, "Omelette", "easy", eggs.ID)

	require.NoError(t, recipes.DeleteRecipe(ctx, recipe.ID))

	_, err := recipes.GetRecipe(ctx, recipe.ID)
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)

	var count int64
	require.NoError(t, db.Model(&models.RecipeIngredient{}).Where("recipe_id = ?", recipe.ID).Count(&count).Error)
	assert.Zero(t, count)

	assert.ErrorIs(t, recipes.DeleteRecipe(ctx, recipe.ID), service.ErrRecipeNotFound)
}

func TestSetImageURL(t *testing.T) {
	db, _, recipes := setupRecipeTest(t)
	ctx := context.Background()

	eggs := createProduct(t, db, "Eggs", "dairy")
	recipe := createRecipe(t, recipes, "Omelette", "easy", eggs.ID)

	require.NoError(t, recipes.SetImageURL(ctx, recipe.ID, "https://example.com/omelette.jpg"))

	got, err := recipes.GetRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/omelette.jpg", got.ImageURL)

	assert.ErrorIs(t, recipes.SetImageURL(ctx, uuid.New(), "x"), service.ErrRecipeNotFound)
}
