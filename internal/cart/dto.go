package cart

import (
	"github.com/google/uuid"

	pkgcart "github.com/canvasshub/canvasshub-backend/pkg/cart"
)

// AddItemRequest adds a catalog product to the session cart. Quantity defaults to 1.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  *int      `json:"quantity,omitempty" validate:"omitempty,max=1000000"`
}

// UpdateQuantityRequest replaces a line quantity; zero or less removes the line.
// The field must be present so an empty body cannot drop a line.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,max=1000000"`
}

// SubmitRequest carries the fields that accompany a cart submission.
type SubmitRequest struct {
	Notes  *string `json:"notes,omitempty" validate:"omitempty,max=5000"`
	PDFURL *string `json:"pdf_url,omitempty" validate:"omitempty,url,max=2048"`
}

// CartDTO is the session cart with its derived totals.
type CartDTO struct {
	Items         []pkgcart.Item `json:"items"`
	TotalLines    int            `json:"total_lines"`
	TotalQuantity int            `json:"total_quantity"`
}

func fromStore(store *pkgcart.Store) *CartDTO {
	return &CartDTO{
		Items:         store.Items(),
		TotalLines:    store.TotalLineCount(),
		TotalQuantity: store.TotalQuantity(),
	}
}
