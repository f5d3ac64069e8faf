package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CanvassItem is one product line of a CanvassRequest. Position keeps the
// submitted order.
type CanvassItem struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CanvassRequestID uuid.UUID `gorm:"column:canvass_request_id;type:uuid;not null;index"`
	ProductID        uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Quantity         int       `gorm:"column:quantity;not null"`
	Position         int       `gorm:"column:position;not null"`
	Product          *Product  `gorm:"foreignKey:ProductID"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (i *CanvassItem) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}
