package enums

import "fmt"

// InventoryStatus represents the lifecycle state of an inventory record.
// It is a plain state value set by the caller; no transitions are enforced.
type InventoryStatus string

const (
	InventoryStatusAvailable    InventoryStatus = "AVAILABLE"
	InventoryStatusReserved     InventoryStatus = "RESERVED"
	InventoryStatusOutOfStock   InventoryStatus = "OUT_OF_STOCK"
	InventoryStatusDiscontinued InventoryStatus = "DISCONTINUED"
)

var validInventoryStatuses = []InventoryStatus{
	InventoryStatusAvailable,
	InventoryStatusReserved,
	InventoryStatusOutOfStock,
	InventoryStatusDiscontinued,
}

// String implements fmt.Stringer.
func (s InventoryStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known InventoryStatus.
func (s InventoryStatus) IsValid() bool {
	for _, candidate := range validInventoryStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseInventoryStatus converts raw input into an InventoryStatus.
func ParseInventoryStatus(value string) (InventoryStatus, error) {
	for _, candidate := range validInventoryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inventory status %q", value)
}
