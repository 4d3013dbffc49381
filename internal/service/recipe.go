package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dashunya17/CookingBenefits/internal/models"
	"github.com/dashunya17/CookingBenefits/internal/recommend"
)

var ErrRecipeNotFound = errors.New("recipe not found")

// Recommendation is one ranked result: a recipe decorated with the match
// figures the engine computed and the caller's favorite flag.
type Recommendation struct {
	Recipe             models.Recipe `json:"recipe"`
	MatchPercentage    float64       `json:"match_percentage"`
	MissingIngredients []string      `json:"missing_ingredients"`
	IsFavorite         bool          `json:"is_favorite"`
}

// RecipeService is the catalog collaborator. It loads the approved catalog
// and the user's pantry snapshot, hands both to the ranking engine, and
// decorates the result.
type RecipeService struct {
	db       *gorm.DB
	products *ProductService
	ranker   *recommend.Ranker
	redis    *redis.Client
	logger   *zap.Logger
}

func NewRecipeService(db *gorm.DB, products *ProductService, redisClient *redis.Client, logger *zap.Logger) *RecipeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecipeService{
		db:       db,
		products: products,
		ranker:   recommend.NewRanker(logger),
		redis:    redisClient,
		logger:   logger,
	}
}

// GetRecommendations ranks the approved catalog against the user's pantry
// and exclusions and returns at most limit results, best match first.
//
// Snapshot loading failures are returned to the caller rather than masked
// as an empty result; only per-recipe scoring failures are skipped inside
// the engine.
func (s *RecipeService) GetRecommendations(ctx context.Context, userID uuid.UUID, limit int) ([]Recommendation, error) {
	if limit <= 0 {
		return nil, recommend.ErrInvalidLimit
	}

	if cached, ok := s.cachedRecommendations(ctx, userID, limit); ok {
		if err := s.decorateFavorites(ctx, userID, cached); err != nil {
			return nil, err
		}
		return cached, nil
	}

	var catalog []models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Ingredients.Product").
		Where("is_approved = ?", true).
		Order("created_at").
		Find(&catalog).Error
	if err != nil {
		return nil, err
	}

	owned, err := s.products.OwnedProductIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	excluded, err := s.products.ExcludedProductIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	ranked, err := s.ranker.Rank(catalog, owned, excluded, limit)
	if err != nil {
		return nil, err
	}

	recommendations := make([]Recommendation, 0, len(ranked))
	for _, rr := range ranked {
		recommendations = append(recommendations, Recommendation{
			Recipe:             rr.Recipe,
			MatchPercentage:    rr.Score.MatchPercentage,
			MissingIngredients: rr.Score.MissingIngredients,
		})
	}

	// Cached before the favorite flag is applied: favorites change without
	// touching the cache, so the flag is filled in on every read instead.
	s.storeRecommendations(ctx, userID, limit, recommendations)

	if err := s.decorateFavorites(ctx, userID, recommendations); err != nil {
		return nil, err
	}
	return recommendations, nil
}

// decorateFavorites stamps the caller's current favorite marks onto a result
// set, whether it came from the engine or the cache.
func (s *RecipeService) decorateFavorites(ctx context.Context, userID uuid.UUID, recommendations []Recommendation) error {
	if len(recommendations) == 0 {
		return nil
	}
	favorites, err := s.favoriteRecipeIDs(ctx, userID)
	if err != nil {
		return err
	}
	for i := range recommendations {
		recommendations[i].IsFavorite = favorites.Contains(recommendations[i].Recipe.ID)
	}
	return nil
}

// GetRecipe fetches one recipe with its ingredient list
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Ingredients.Product").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// AddFavorite marks a recipe as a favorite; repeating the call is a no-op
func (s *RecipeService) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}

	favorite := models.UserFavorite{
		ID:       uuid.New(),
		UserID:   userID,
		RecipeID: recipeID,
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&favorite).Error
}

// RemoveFavorite clears a favorite mark
func (s *RecipeService) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.UserFavorite{}).Error
}

// GetFavorites lists the user's favorite recipes
func (s *RecipeService) GetFavorites(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	var recipeIDs []uuid.UUID
	err := s.db.WithContext(ctx).
		Model(&models.UserFavorite{}).
		Where("user_id = ?", userID).
		Order("created_at").
		Pluck("recipe_id", &recipeIDs).Error
	if err != nil {
		return nil, err
	}
	if len(recipeIDs) == 0 {
		return []models.Recipe{}, nil
	}

	var recipes []models.Recipe
	err = s.db.WithContext(ctx).
		Preload("Ingredients.Product").
		Where("id IN ?", recipeIDs).
		Find(&recipes).Error
	return recipes, err
}

// IngredientInput describes one required product when creating or updating a
// recipe.
type IngredientInput struct {
	ProductID uuid.UUID
	Quantity  float64
	Unit      string
}

// CreateRecipe adds a recipe and its ingredient list to the catalog (admin).
// Every referenced product must exist.
func (s *RecipeService) CreateRecipe(ctx context.Context, recipe *models.Recipe, ingredients []IngredientInput) (*models.Recipe, error) {
	if recipe.ID == uuid.Nil {
		recipe.ID = uuid.New()
	}
	recipe.IsApproved = true

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(recipe).Error; err != nil {
			return err
		}
		return s.replaceIngredients(tx, recipe, ingredients)
	})
	if err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, recipe.ID)
}

// UpdateRecipe updates a recipe and replaces its ingredient list (admin)
func (s *RecipeService) UpdateRecipe(ctx context.Context, id uuid.UUID, update *models.Recipe, ingredients []IngredientInput) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"title":                update.Title,
			"description":          update.Description,
			"cooking_steps":        update.CookingSteps,
			"cooking_time_minutes": update.CookingTimeMinutes,
			"difficulty":           update.Difficulty,
			"servings":             update.Servings,
			"category":             update.Category,
			"image_url":            update.ImageURL,
			"is_approved":          update.IsApproved,
		}
		if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
			return err
		}
		if ingredients == nil {
			return nil
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return s.replaceIngredients(tx, &recipe, ingredients)
	})
	if err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, id)
}

// DeleteRecipe removes a recipe and its ingredients (admin)
func (s *RecipeService) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", id).Error
	})
}

// GetAllRecipes lists the whole catalog, approved or not (admin)
func (s *RecipeService) GetAllRecipes(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Ingredients.Product").
		Order("created_at").
		Find(&recipes).Error
	return recipes, err
}

// SetImageURL stores the uploaded image location on the recipe (admin)
func (s *RecipeService) SetImageURL(ctx context.Context, id uuid.UUID, url string) error {
	result := s.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("id = ?", id).
		Update("image_url", url)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

func (s *RecipeService) replaceIngredients(tx *gorm.DB, recipe *models.Recipe, ingredients []IngredientInput) error {
	for _, in := range ingredients {
		var product models.Product
		if err := tx.First(&product, "id = ?", in.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		ingredient := models.RecipeIngredient{
			ID:        uuid.New(),
			RecipeID:  recipe.ID,
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			Unit:      in.Unit,
		}
		if err := tx.Create(&ingredient).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *RecipeService) favoriteRecipeIDs(ctx context.Context, userID uuid.UUID) (recommend.IDSet, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).
		Model(&models.UserFavorite{}).
		Where("user_id = ?", userID).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return recommend.NewIDSet(ids...), nil
}

func (s *RecipeService) cachedRecommendations(ctx context.Context, userID uuid.UUID, limit int) ([]Recommendation, bool) {
	if s.redis == nil {
		return nil, false
	}
	data, err := s.redis.Get(ctx, recommendationCacheKey(userID, limit)).Bytes()
	if err != nil {
		return nil, false
	}
	var recommendations []Recommendation
	if err := json.Unmarshal(data, &recommendations); err != nil {
		return nil, false
	}
	return recommendations, true
}

func (s *RecipeService) storeRecommendations(ctx context.Context, userID uuid.UUID, limit int, recommendations []Recommendation) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(recommendations)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, recommendationCacheKey(userID, limit), data, recommendationCacheTTL).Err(); err != nil {
		s.logger.Warn("failed to cache recommendations",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}
}
