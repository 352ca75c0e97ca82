package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gentlecorp/inventory-service/pkg/db/models"
	"github.com/gentlecorp/inventory-service/pkg/enums"
)

// InventoryDTO represents the stock record payload returned to clients.
type InventoryDTO struct {
	ID                uuid.UUID             `json:"id"`
	Version           int64                 `json:"version"`
	SkuCode           string                `json:"sku_code"`
	Quantity          int                   `json:"quantity"`
	ReservedQuantity  int                   `json:"reserved_quantity"`
	AvailableQuantity int                   `json:"available_quantity"`
	UnitPrice         decimal.Decimal       `json:"unit_price"`
	Status            enums.InventoryStatus `json:"status"`
	ProductID         uuid.UUID             `json:"product_id"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

// ReservationDTO represents one customer's claim on an inventory record.
type ReservationDTO struct {
	ID          uuid.UUID `json:"id"`
	Version     int64     `json:"version"`
	Quantity    int       `json:"quantity"`
	Username    string    `json:"username"`
	InventoryID uuid.UUID `json:"inventory_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateInventoryInput holds the validated payload to create a stock record.
type CreateInventoryInput struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
	Status    enums.InventoryStatus
}

// UpdateInventoryInput holds optional mutation values for a stock record.
// The SKU code is assigned at creation and immutable thereafter.
type UpdateInventoryInput struct {
	Quantity  *int
	UnitPrice *decimal.Decimal
	Status    *enums.InventoryStatus
}

// ReserveInput captures a reservation request by the authenticated principal.
type ReserveInput struct {
	Quantity int
	Username string
	// ReservationVersion is the caller's token for the existing reservation,
	// required when topping up to prevent double-submission from
	// double-incrementing. Empty means no precondition was supplied.
	ReservationVersion string
}

// NewInventoryDTO builds a DTO from the persisted model. The reservations
// collection must be loaded for the derived quantities to be meaningful.
func NewInventoryDTO(inv *models.Inventory) *InventoryDTO {
	available := AvailableQuantity(inv)
	return &InventoryDTO{
		ID:                inv.ID,
		Version:           inv.Version,
		SkuCode:           inv.SkuCode,
		Quantity:          inv.Quantity,
		ReservedQuantity:  inv.Quantity - available,
		AvailableQuantity: available,
		UnitPrice:         inv.UnitPrice,
		Status:            inv.Status,
		ProductID:         inv.ProductID,
		CreatedAt:         inv.CreatedAt,
		UpdatedAt:         inv.UpdatedAt,
	}
}

// NewReservationDTO builds a DTO from the persisted model.
func NewReservationDTO(r *models.Reservation) *ReservationDTO {
	return &ReservationDTO{
		ID:          r.ID,
		Version:     r.Version,
		Quantity:    r.Quantity,
		Username:    r.Username,
		InventoryID: r.InventoryID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
