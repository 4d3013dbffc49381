package recommend

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashunya17/CookingBenefits/internal/models"
)

func TestRankInvalidLimit(t *testing.T) {
	ranker := NewRanker(nil)

	for _, limit := range []int{0, -1, -10} {
		result, err := ranker.Rank([]models.Recipe{makeRecipe("easy")}, nil, nil, limit)
		assert.ErrorIs(t, err, ErrInvalidLimit)
		assert.Nil(t, result)
	}
}

func TestRankEmptyCatalog(t *testing.T) {
	ranker := NewRanker(nil)

	result, err := ranker.Rank(nil, NewIDSet(uuid.New()), nil, DefaultLimit)

	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestRankFiltersZeroScores(t *testing.T) {
	owned := makeProduct("Tomato")
	notOwned := makeProduct("Caviar")
	catalog := []models.Recipe{
		makeRecipe("medium", notOwned), // zero overlap, filtered out
		makeRecipe("medium", owned),
	}

	result, err := NewRanker(nil).Rank(catalog, NewIDSet(owned.ID), nil, DefaultLimit)

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, catalog[1].ID, result[0].Recipe.ID)
}

func TestRankSkipsUnapprovedRecipes(t *testing.T) {
	p := makeProduct("Cheese")
	pending := makeRecipe("easy", p)
	pending.IsApproved = false
	approved := makeRecipe("easy", p)

	result, err := NewRanker(nil).Rank([]models.Recipe{pending, approved}, NewIDSet(p.ID), nil, DefaultLimit)

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, approved.ID, result[0].Recipe.ID)
}

func TestRankSortsDescendingAndTruncates(t *testing.T) {
	// 15 eligible recipes at distinct scores, limit 5 -> the 5 best.
	owned := NewIDSet()
	var catalog []models.Recipe
	for i := 1; i <= 15; i++ {
		var products []models.Product
		for j := 0; j < 15; j++ {
			products = append(products, makeProduct(fmt.Sprintf("p-%d-%d", i, j)))
		}
		// Recipe i owns i of its 15 ingredients.
		for j := 0; j < i; j++ {
			owned[products[j].ID] = struct{}{}
		}
		catalog = append(catalog, makeRecipe("medium", products...))
	}

	result, err := NewRanker(nil).Rank(catalog, owned, nil, 5)

	require.NoError(t, err)
	require.Len(t, result, 5)
	for i := 1; i < len(result); i++ {
		assert.GreaterOrEqual(t, result[i-1].Score.RankingScore, result[i].Score.RankingScore)
	}
	// The best recipe is the fully matched one (recipe 15).
	assert.Equal(t, catalog[14].ID, result[0].Recipe.ID)
	assert.Equal(t, 100.0, result[0].Score.MatchPercentage)
}

func TestRankTiesKeepCatalogOrder(t *testing.T) {
	p := makeProduct("Onion")
	catalog := []models.Recipe{
		makeRecipe("medium", p),
		makeRecipe("medium", p),
		makeRecipe("medium", p),
	}

	result, err := NewRanker(nil).Rank(catalog, NewIDSet(p.ID), nil, DefaultLimit)

	require.NoError(t, err)
	require.Len(t, result, 3)
	for i, rr := range result {
		assert.Equal(t, catalog[i].ID, rr.Recipe.ID)
	}
}

func TestRankSurvivesScoringPanic(t *testing.T) {
	p := makeProduct("Lentils")
	catalog := []models.Recipe{
		makeRecipe("medium", p),
		makeRecipe("medium", p),
		makeRecipe("medium", p),
	}
	poisoned := catalog[1].ID

	ranker := NewRanker(nil)
	ranker.score = func(recipe *models.Recipe, owned, excluded IDSet) RecipeScore {
		if recipe.ID == poisoned {
			panic("bad recipe data")
		}
		return Score(recipe, owned, excluded)
	}

	result, err := ranker.Rank(catalog, NewIDSet(p.ID), nil, DefaultLimit)

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, catalog[0].ID, result[0].Recipe.ID)
	assert.Equal(t, catalog[2].ID, result[1].Recipe.ID)
}

func TestRankIsIdempotent(t *testing.T) {
	products := []models.Product{makeProduct("A"), makeProduct("B"), makeProduct("C")}
	catalog := []models.Recipe{
		makeRecipe("easy", products[0], products[1]),
		makeRecipe("medium", products...),
		makeRecipe("hard", products[2]),
	}
	owned := NewIDSet(products[0].ID, products[2].ID)
	excluded := NewIDSet(products[1].ID)
	ranker := NewRanker(nil)

	first, err := ranker.Rank(catalog, owned, excluded, DefaultLimit)
	require.NoError(t, err)
	second, err := ranker.Rank(catalog, owned, excluded, DefaultLimit)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Recipe.ID, second[i].Recipe.ID)
		assert.Equal(t, first[i].Score, second[i].Score)
	}
}

func TestRankOrdersBonusesAboveRawMatch(t *testing.T) {
	full := makeProduct("Pasta")
	partA := makeProduct("Basil")
	partB := makeProduct("Garlic")

	complete := makeRecipe("medium", full)                  // 100 + 30
	completeEasy := makeRecipe("easy", full)                // 100 + 30 + 5
	partial := makeRecipe("medium", full, partA, partB)     // 33.3
	catalog := []models.Recipe{partial, complete, completeEasy}

	result, err := NewRanker(nil).Rank(catalog, NewIDSet(full.ID), nil, DefaultLimit)

	require.NoError(t, err)
	require.Len(t, result, 3)
	assert.Equal(t, completeEasy.ID, result[0].Recipe.ID)
	assert.Equal(t, complete.ID, result[1].Recipe.ID)
	assert.Equal(t, partial.ID, result[2].Recipe.ID)
}
