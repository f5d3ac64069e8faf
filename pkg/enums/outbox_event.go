package enums

import "fmt"

// OutboxAggregateType identifies the aggregate an outbox row belongs to.
type OutboxAggregateType string

const (
	AggregateCanvassRequest OutboxAggregateType = "canvass_request"
)

// IsValid reports whether the value is a known aggregate type.
func (a OutboxAggregateType) IsValid() bool {
	return a == AggregateCanvassRequest
}

// OutboxEventType identifies the domain event stored in an outbox row.
type OutboxEventType string

const (
	EventCanvassRequestCreated       OutboxEventType = "canvass_request_created"
	EventCanvassRequestStatusChanged OutboxEventType = "canvass_request_status_changed"
)

var validOutboxEventTypes = []OutboxEventType{
	EventCanvassRequestCreated,
	EventCanvassRequestStatusChanged,
}

// IsValid reports whether the value is a known event type.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
