package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reservation is one customer's claim against an inventory record.
// At most one row exists per (inventory_id, username); repeated reserves
// merge into the existing row.
type Reservation struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Version     int64     `gorm:"column:version;not null;default:0"`
	Quantity    int       `gorm:"column:quantity;not null"`
	Username    string    `gorm:"column:username;type:text;not null;uniqueIndex:ux_reservations_inventory_username"`
	InventoryID uuid.UUID `gorm:"column:inventory_id;type:uuid;not null;uniqueIndex:ux_reservations_inventory_username"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Reservation) TableName() string {
	return "reservations"
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
