package canvass

import (
	"time"

	"github.com/google/uuid"

	product "github.com/canvasshub/canvasshub-backend/internal/products"
	"github.com/canvasshub/canvasshub-backend/internal/users"
	"github.com/canvasshub/canvasshub-backend/pkg/db/models"
	"github.com/canvasshub/canvasshub-backend/pkg/enums"
	"github.com/canvasshub/canvasshub-backend/pkg/pagination"
)

// ItemInput is one requested product line.
type ItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1,max=1000000"`
}

// CreateRequest is the HTTP payload for a submission.
type CreateRequest struct {
	Items  []ItemInput `json:"items" validate:"omitempty,max=200,dive"`
	Notes  *string     `json:"notes,omitempty" validate:"omitempty,max=5000"`
	PDFURL *string     `json:"pdf_url,omitempty" validate:"omitempty,url,max=2048"`
}

// CreateInput is what the service persists; UserID comes from the authenticated session.
type CreateInput struct {
	UserID uuid.UUID
	Items  []ItemInput
	Notes  *string
	PDFURL *string
}

// UpdateStatusRequest is the admin payload for a status change.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type UpdateStatusInput struct {
	RequestID uuid.UUID
	Status    string
	ActorID   uuid.UUID
}

// GetInput identifies the caller so ownership can be enforced.
type GetInput struct {
	RequestID uuid.UUID
	ActorID   uuid.UUID
	ActorRole enums.Role
}

type ListFilters struct {
	// Status is the raw status query value; empty means any.
	Status string
}

// ItemDTO is a persisted line with its product joined.
type ItemDTO struct {
	ID        uuid.UUID           `json:"id"`
	ProductID uuid.UUID           `json:"product_id"`
	Quantity  int                 `json:"quantity"`
	Position  int                 `json:"position"`
	Product   *product.ProductDTO `json:"product,omitempty"`
}

// RequestDTO is a canvass request as returned to clients.
type RequestDTO struct {
	ID        uuid.UUID           `json:"id"`
	UserID    uuid.UUID           `json:"user_id"`
	Status    enums.CanvassStatus `json:"status"`
	Notes     *string             `json:"notes,omitempty"`
	PDFURL    *string             `json:"pdf_url,omitempty"`
	Items     []ItemDTO           `json:"items"`
	ItemCount int                 `json:"item_count"`
	User      *users.UserDTO      `json:"user,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

type RequestPage = pagination.Page[RequestDTO]

func FromModel(m *models.CanvassRequest) *RequestDTO {
	if m == nil {
		return nil
	}
	items := make([]ItemDTO, 0, len(m.Items))
	for i := range m.Items {
		item := m.Items[i]
		items = append(items, ItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Position:  item.Position,
			Product:   product.FromModel(item.Product),
		})
	}
	return &RequestDTO{
		ID:        m.ID,
		UserID:    m.UserID,
		Status:    m.Status,
		Notes:     m.Notes,
		PDFURL:    m.PDFURL,
		Items:     items,
		ItemCount: len(items),
		User:      users.FromModel(m.User),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func fromModels(rows []models.CanvassRequest) []RequestDTO {
	out := make([]RequestDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
