package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dashunya17/CookingBenefits/internal/models"
	"github.com/dashunya17/CookingBenefits/internal/recommend"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrProductNameTaken = errors.New("product with this name already exists")
)

// ProductService is the inventory collaborator: it owns the product catalog,
// each user's pantry and each user's exclusion list.
type ProductService struct {
	db     *gorm.DB
	redis  *redis.Client
	logger *zap.Logger
}

func NewProductService(db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		db:     db,
		redis:  redisClient,
		logger: logger,
	}
}

// GetUserProducts lists the user's pantry with product details
func (s *ProductService) GetUserProducts(ctx context.Context, userID uuid.UUID) ([]models.UserProduct, error) {
	var items []models.UserProduct
	err := s.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("added_at").
		Find(&items).Error
	return items, err
}

// AddUserProduct puts a product into the user's pantry. Adding a product the
// user already has is a no-op: the user_id+product_id unique index absorbs
// concurrent duplicate adds.
func (s *ProductService) AddUserProduct(ctx context.Context, userID, productID uuid.UUID) error {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	item := models.UserProduct{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&item).Error
	if err != nil {
		return err
	}
	return s.invalidate(ctx, userID)
}

// RemoveUserProduct takes a product out of the user's pantry
func (s *ProductService) RemoveUserProduct(ctx context.Context, userID, productID uuid.UUID) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.UserProduct{}).Error
	if err != nil {
		return err
	}
	return s.invalidate(ctx, userID)
}

// GetExclusions lists the products the user has flagged as unwanted
func (s *ProductService) GetExclusions(ctx context.Context, userID uuid.UUID) ([]models.UserExcludedProduct, error) {
	var items []models.UserExcludedProduct
	err := s.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("excluded_at").
		Find(&items).Error
	return items, err
}

// AddExclusion flags a product as unwanted (allergy or dislike). Idempotent
// under the user_id+product_id unique index, like pantry adds.
func (s *ProductService) AddExclusion(ctx context.Context, userID, productID uuid.UUID, reason string) error {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	item := models.UserExcludedProduct{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Reason:    reason,
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&item).Error
	if err != nil {
		return err
	}
	return s.invalidate(ctx, userID)
}

// RemoveExclusion clears an unwanted-product flag
func (s *ProductService) RemoveExclusion(ctx context.Context, userID, productID uuid.UUID) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.UserExcludedProduct{}).Error
	if err != nil {
		return err
	}
	return s.invalidate(ctx, userID)
}

// OwnedProductIDs loads the user's pantry as an ID set for the engine
func (s *ProductService) OwnedProductIDs(ctx context.Context, userID uuid.UUID) (recommend.IDSet, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).
		Model(&models.UserProduct{}).
		Where("user_id = ?", userID).
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return recommend.NewIDSet(ids...), nil
}

// ExcludedProductIDs loads the user's exclusion list as an ID set for the engine
func (s *ProductService) ExcludedProductIDs(ctx context.Context, userID uuid.UUID) (recommend.IDSet, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).
		Model(&models.UserExcludedProduct{}).
		Where("user_id = ?", userID).
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return recommend.NewIDSet(ids...), nil
}

// GetCatalog lists products, optionally narrowed by category or a name search.
// Category wins when both filters are supplied, as the catalog UI sends one at
// a time.
func (s *ProductService) GetCatalog(ctx context.Context, category, search string) ([]models.Product, error) {
	query := s.db.WithContext(ctx)

	switch {
	case category != "":
		query = query.Where("LOWER(category) LIKE ?", "%"+strings.ToLower(category)+"%")
	case search != "":
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var products []models.Product
	err := query.Order("name").Find(&products).Error
	return products, err
}

// CreateProduct adds a product to the catalog (admin)
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	var existing models.Product
	if err := s.db.WithContext(ctx).Where("name = ?", product.Name).First(&existing).Error; err == nil {
		return nil, ErrProductNameTaken
	}

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		// The name check above races with concurrent creates; the unique
		// index on name is the authority.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrProductNameTaken
		}
		return nil, err
	}
	return product, nil
}

// UpdateProduct updates a catalog product (admin)
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, update *models.Product) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{
		"name":      update.Name,
		"category":  update.Category,
		"is_common": update.IsCommon,
	}
	if err := s.db.WithContext(ctx).Model(&product).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes a catalog product (admin)
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// GetAllProducts lists the full catalog without filters (admin)
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).Order("name").Find(&products).Error
	return products, err
}

func (s *ProductService) invalidate(ctx context.Context, userID uuid.UUID) error {
	if err := invalidateRecommendations(ctx, s.redis, userID); err != nil {
		// Stale cache entries expire on their own; do not fail the mutation.
		s.logger.Warn("failed to invalidate recommendation cache",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}
	return nil
}
