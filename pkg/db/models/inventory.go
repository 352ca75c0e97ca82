package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gentlecorp/inventory-service/pkg/enums"
)

// Inventory is the stock record for exactly one catalog product.
// Version backs the optimistic-concurrency protocol; every successful
// write increments it by one.
type Inventory struct {
	ID           uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	Version      int64                 `gorm:"column:version;not null;default:0"`
	SkuCode      string                `gorm:"column:sku_code;type:text;not null;uniqueIndex:ux_inventories_sku_code"`
	Quantity     int                   `gorm:"column:quantity;not null;default:0"`
	UnitPrice    decimal.Decimal       `gorm:"column:unit_price;type:numeric(10,2);not null"`
	Status       enums.InventoryStatus `gorm:"column:status;type:text;not null"`
	ProductID    uuid.UUID             `gorm:"column:product_id;type:uuid;not null;uniqueIndex:ux_inventories_product_id"`
	Reservations []Reservation         `gorm:"foreignKey:InventoryID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (Inventory) TableName() string {
	return "inventories"
}

// BeforeCreate assigns the identifier application-side so inserts do not
// depend on database default expressions.
func (i *Inventory) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
