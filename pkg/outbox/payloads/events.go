package payloads

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gentlecorp/inventory-service/pkg/enums"
)

// InventoryCreatedEvent signals a new stock record for a catalog product.
type InventoryCreatedEvent struct {
	InventoryID uuid.UUID             `json:"inventory_id"`
	ProductID   uuid.UUID             `json:"product_id"`
	SkuCode     string                `json:"sku_code"`
	Quantity    int                   `json:"quantity"`
	UnitPrice   decimal.Decimal       `json:"unit_price"`
	Status      enums.InventoryStatus `json:"status"`
}

// InventoryUpdatedEvent reports the fields a partial update actually changed.
type InventoryUpdatedEvent struct {
	InventoryID   uuid.UUID `json:"inventory_id"`
	Version       int64     `json:"version"`
	ChangedFields []string  `json:"changed_fields"`
}

// InventoryDeletedEvent is emitted when a record and its reservations are removed.
type InventoryDeletedEvent struct {
	InventoryID      uuid.UUID `json:"inventory_id"`
	ProductID        uuid.UUID `json:"product_id"`
	ReservationCount int       `json:"reservation_count"`
}

// StockReservedEvent reports a reservation being opened or topped up.
type StockReservedEvent struct {
	InventoryID       uuid.UUID `json:"inventory_id"`
	ReservationID     uuid.UUID `json:"reservation_id"`
	Username          string    `json:"username"`
	Quantity          int       `json:"quantity"`
	AvailableQuantity int       `json:"available_quantity"`
}
