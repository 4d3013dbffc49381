package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a catalog entry users can own or exclude.
type Product struct {
	ID        uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Name      string         `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Category  string         `gorm:"size:50;not null" json:"category"`
	IsCommon  bool           `gorm:"not null;default:true" json:"is_common"`
}

// UserProduct records that a user currently has a product at hand.
// The user_id+product_id unique index keeps concurrent duplicate adds idempotent.
type UserProduct struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_product" json:"user_id"`
	ProductID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_product" json:"product_id"`
	Product   Product   `gorm:"foreignKey:ProductID" json:"product"`
	AddedAt   time.Time `gorm:"autoCreateTime" json:"added_at"`
}

// UserExcludedProduct records a product a user never wants recommended
// (allergy or dislike). Distinct from simply not owning it.
type UserExcludedProduct struct {
	ID         uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID     uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_excluded" json:"user_id"`
	ProductID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_excluded" json:"product_id"`
	Product    Product   `gorm:"foreignKey:ProductID" json:"product"`
	Reason     string    `gorm:"size:255" json:"reason,omitempty"`
	ExcludedAt time.Time `gorm:"autoCreateTime" json:"excluded_at"`
}
