package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateInventory   OutboxAggregateType = "inventory"
	AggregateReservation OutboxAggregateType = "reservation"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateInventory,
	AggregateReservation,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventInventoryCreated    OutboxEventType = "inventory_created"
	EventInventoryUpdated    OutboxEventType = "inventory_updated"
	EventInventoryDeleted    OutboxEventType = "inventory_deleted"
	EventStockReserved       OutboxEventType = "stock_reserved"
	EventReservationUpdated  OutboxEventType = "reservation_updated"
	EventReservationReleased OutboxEventType = "reservation_released"
)

var validOutboxEventTypes = []OutboxEventType{
	EventInventoryCreated,
	EventInventoryUpdated,
	EventInventoryDeleted,
	EventStockReserved,
	EventReservationUpdated,
	EventReservationReleased,
}

// IsValid reports whether the value matches the canonical event_type enum.
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
