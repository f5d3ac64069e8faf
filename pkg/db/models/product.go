package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/canvasshub/canvasshub-backend/pkg/enums"
)

// Product is a catalog entry that canvass items reference.
type Product struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Name        string              `gorm:"column:name;not null"`
	Description *string             `gorm:"column:description"`
	Category    string              `gorm:"column:category;not null"`
	ImageURL    *string             `gorm:"column:image_url"`
	Status      enums.ProductStatus `gorm:"column:status;type:product_status;not null;default:'ACTIVE'"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	if p.Status == "" {
		p.Status = enums.ProductStatusActive
	}
	return nil
}
