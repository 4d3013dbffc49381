package recommend

import (
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/dashunya17/CookingBenefits/internal/models"
)

// Score bonuses. The completeness bonus pushes fully makeable recipes above
// every partial match; the difficulty bonus nudges simple recipes up between
// otherwise equal matches.
const (
	completenessBonus = 30.0
	difficultyBonus   = 5.0
)

// exclusionPenalty halves the match once if any ingredient is excluded,
// regardless of how many are. Excluded recipes stay visible but demoted.
const exclusionPenalty = 0.5

// easyLabels are the difficulty values that earn the difficulty bonus,
// compared case-insensitively.
var easyLabels = []string{"easy", "легко"}

// IDSet is a product ID membership set. A nil IDSet is empty.
type IDSet map[uuid.UUID]struct{}

// NewIDSet builds an IDSet from a list of product IDs.
func NewIDSet(ids ...uuid.UUID) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Contains(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

// RecipeScore is the per-recipe output of the scorer.
type RecipeScore struct {
	// RankingScore orders results and is never shown to the user.
	RankingScore float64 `json:"-"`
	// MatchPercentage is the user-facing 0-100 figure, rounded to one decimal.
	MatchPercentage float64 `json:"match_percentage"`
	// MissingIngredients lists product names the user neither owns nor
	// excludes, in ingredient order.
	MissingIngredients []string `json:"missing_ingredients"`
}

// Score computes how well a recipe matches a user's pantry.
//
// Each ingredient lands in exactly one bucket: excluded takes precedence over
// available, which takes precedence over missing. A recipe with no
// ingredients scores zero. The function is pure and never fails.
func Score(recipe *models.Recipe, owned, excluded IDSet) RecipeScore {
	total := len(recipe.Ingredients)
	score := RecipeScore{MissingIngredients: []string{}}
	if total == 0 {
		return score
	}

	available := 0
	excludedCount := 0
	for i := range recipe.Ingredients {
		ing := &recipe.Ingredients[i]
		switch {
		case excluded.Contains(ing.ProductID):
			excludedCount++
		case owned.Contains(ing.ProductID):
			available++
		default:
			score.MissingIngredients = append(score.MissingIngredients, ing.Product.Name)
		}
	}

	pct := float64(available) / float64(total) * 100
	if excludedCount > 0 {
		pct *= exclusionPenalty
	}
	// Round half away from zero to one decimal, as the match is displayed.
	score.MatchPercentage = math.Round(pct*10) / 10

	score.RankingScore = score.MatchPercentage
	if len(score.MissingIngredients) == 0 && excludedCount == 0 {
		score.RankingScore += completenessBonus
	}
	if isEasy(recipe.Difficulty) {
		score.RankingScore += difficultyBonus
	}
	return score
}

func isEasy(difficulty string) bool {
	for _, label := range easyLabels {
		if strings.EqualFold(difficulty, label) {
			return true
		}
	}
	return false
}
