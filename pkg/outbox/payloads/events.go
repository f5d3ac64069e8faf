package payloads

import (
	"github.com/google/uuid"

	"github.com/canvasshub/canvasshub-backend/pkg/enums"
)

// CanvassItemRef is one submitted line in creation order.
type CanvassItemRef struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// CanvassRequestCreatedEvent is emitted once per persisted canvass request.
type CanvassRequestCreatedEvent struct {
	RequestID   uuid.UUID           `json:"request_id"`
	UserID      uuid.UUID           `json:"user_id"`
	Status      enums.CanvassStatus `json:"status"`
	Items       []CanvassItemRef    `json:"items"`
	HasDocument bool                `json:"has_document"`
}

// CanvassRequestStatusChangedEvent records an administrative status change.
type CanvassRequestStatusChangedEvent struct {
	RequestID  uuid.UUID           `json:"request_id"`
	UserID     uuid.UUID           `json:"user_id"`
	FromStatus enums.CanvassStatus `json:"from_status"`
	ToStatus   enums.CanvassStatus `json:"to_status"`
}
