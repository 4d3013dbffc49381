package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Recipe struct {
	ID                 uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
	Title              string         `gorm:"size:255;not null" json:"title"`
	Description        string         `gorm:"type:text" json:"description"`
	CookingSteps       string         `gorm:"type:text;not null" json:"cooking_steps"`
	CookingTimeMinutes int            `json:"cooking_time_minutes"`
	Difficulty         string         `gorm:"size:20;not null;default:'medium'" json:"difficulty"`
	Servings           int            `gorm:"not null;default:2" json:"servings"`
	Category           string         `gorm:"size:50" json:"category"`
	ImageURL           string         `gorm:"size:500" json:"image_url"`
	IsApproved         bool           `gorm:"not null;default:true" json:"is_approved"`

	// Deleting a recipe removes its ingredient rows with it.
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients"`
}

// RecipeIngredient links a recipe to one required product. A recipe never
// lists the same product twice.
type RecipeIngredient struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_product" json:"recipe_id"`
	ProductID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_product" json:"product_id"`
	Product   Product   `gorm:"foreignKey:ProductID" json:"product"`
	Quantity  float64   `gorm:"not null" json:"quantity"`
	Unit      string    `gorm:"size:20;not null" json:"unit"`
}

type UserFavorite struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_favorite" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_favorite" json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`
}
