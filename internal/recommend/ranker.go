package recommend

import (
	"errors"
	"runtime"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/dashunya17/CookingBenefits/internal/models"
)

// DefaultLimit is used by callers when the client does not ask for a size.
const DefaultLimit = 10

// ErrInvalidLimit is returned when the requested result size is not positive.
var ErrInvalidLimit = errors.New("limit must be a positive integer")

// RankedRecipe pairs a recipe with its score so the caller can attach the
// match percentage and missing ingredients to its own representation.
type RankedRecipe struct {
	Recipe models.Recipe
	Score  RecipeScore
}

// Ranker scores a recipe catalog against one user's pantry and returns the
// best matches. It holds no state between calls.
type Ranker struct {
	logger  *zap.Logger
	workers int

	// score is Score unless a test substitutes it.
	score func(*models.Recipe, IDSet, IDSet) RecipeScore
}

func NewRanker(logger *zap.Logger) *Ranker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ranker{logger: logger, workers: runtime.GOMAXPROCS(0), score: Score}
}

// Rank scores every approved recipe in the catalog, drops zero-score
// recipes, sorts by ranking score descending (ties keep catalog order) and
// truncates to limit.
//
// Scoring is a pure computation per recipe, so recipes are scored
// concurrently and collected back into catalog order before sorting. A panic
// while scoring one recipe is logged and that recipe skipped; Rank itself
// only fails on an invalid limit.
func (r *Ranker) Rank(recipes []models.Recipe, owned, excluded IDSet, limit int) ([]RankedRecipe, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if len(recipes) == 0 {
		return []RankedRecipe{}, nil
	}

	scores := make([]*RecipeScore, len(recipes))
	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := r.workers
	if workers > len(recipes) {
		workers = len(recipes)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				scores[i] = r.scoreOne(&recipes[i], owned, excluded)
			}
		}()
	}
	for i := range recipes {
		if recipes[i].IsApproved {
			jobs <- i
		}
	}
	close(jobs)
	wg.Wait()

	ranked := make([]RankedRecipe, 0, len(recipes))
	for i := range recipes {
		s := scores[i]
		if s == nil || s.RankingScore <= 0 {
			continue
		}
		ranked = append(ranked, RankedRecipe{Recipe: recipes[i], Score: *s})
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Score.RankingScore > ranked[b].Score.RankingScore
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// scoreOne isolates a single recipe: a panic here must not abort the pass.
func (r *Ranker) scoreOne(recipe *models.Recipe, owned, excluded IDSet) (score *RecipeScore) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("skipping recipe that failed to score",
				zap.String("recipe_id", recipe.ID.String()),
				zap.Any("panic", p),
			)
			score = nil
		}
	}()
	s := r.score(recipe, owned, excluded)
	return &s
}
