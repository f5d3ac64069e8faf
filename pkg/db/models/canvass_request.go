package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/canvasshub/canvasshub-backend/pkg/enums"
)

// CanvassRequest is a submitted procurement ask. Items are written once with
// the request and never edited.
type CanvassRequest struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	Status    enums.CanvassStatus `gorm:"column:status;type:canvass_status;not null;default:'PENDING'"`
	Notes     *string             `gorm:"column:notes"`
	PDFURL    *string             `gorm:"column:pdf_url"`
	Items     []CanvassItem       `gorm:"foreignKey:CanvassRequestID;constraint:OnDelete:CASCADE"`
	User      *User               `gorm:"foreignKey:UserID"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (r *CanvassRequest) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}
