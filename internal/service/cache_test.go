package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashunya17/CookingBenefits/internal/models"
	"github.com/dashunya17/CookingBenefits/internal/service"
	"github.com/dashunya17/CookingBenefits/internal/testhelpers"
)

func TestRecommendationCacheKeepsFavoriteFlagFresh(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	rdb := testhelpers.SetupTestRedis(t)
	products := service.NewProductService(db, rdb, nil)
	recipes := service.NewRecipeService(db, products, rdb, nil)
	ctx := context.Background()
	userID := uuid.New()

	eggs := createProduct(t, db, "Eggs", "dairy")
	omelette := createRecipe(t, recipes, "Omelette", "easy", eggs.ID)
	require.NoError(t, products.AddUserProduct(ctx, userID, eggs.ID))

	first, err := recipes.GetRecommendations(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.False(t, first[0].IsFavorite)

	// Rename behind the cache's back so a later cache hit is observable.
	require.NoError(t, db.Model(&models.Recipe{}).Where("id = ?", omelette.ID).Update("title", "Renamed").Error)

	require.NoError(t, recipes.AddFavorite(ctx, userID, omelette.ID))

	second, err := recipes.GetRecommendations(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "Omelette", second[0].Recipe.Title, "expected the cached payload")
	assert.True(t, second[0].IsFavorite, "favorite mark must not lag behind the cache")

	require.NoError(t, recipes.RemoveFavorite(ctx, userID, omelette.ID))

	third, err := recipes.GetRecommendations(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, third, 1)
	assert.False(t, third[0].IsFavorite)
}

func TestPantryMutationInvalidatesRecommendationCache(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	rdb := testhelpers.SetupTestRedis(t)
	products := service.NewProductService(db, rdb, nil)
	recipes := service.NewRecipeService(db, products, rdb, nil)
	ctx := context.Background()
	userID := uuid.New()

	eggs := createProduct(t, db, "Eggs", "dairy")
	milk := createProduct(t, db, "Milk", "dairy")
	omelette := createRecipe(t, recipes, "Omelette", "easy", eggs.ID)
	require.NoError(t, products.AddUserProduct(ctx, userID, eggs.ID))

	first, err := recipes.GetRecommendations(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, first, 1)

	require.NoError(t, db.Model(&models.Recipe{}).Where("id = ?", omelette.ID).Update("title", "Plain omelette").Error)

	cached, err := recipes.GetRecommendations(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "Omelette", cached[0].Recipe.Title)

	require.NoError(t, products.AddUserProduct(ctx, userID, milk.ID))

	fresh, err := recipes.GetRecommendations(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, "Plain omelette", fresh[0].Recipe.Title)
}
