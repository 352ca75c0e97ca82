package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/gentlecorp/inventory-service/pkg/db/models"
)

// priceTolerance bounds the relative difference under which two monetary
// values are considered equal, guarding against representation error in
// client-supplied fractional amounts.
var priceTolerance = decimal.New(1, -9)

// diffInventory computes the column updates a partial payload actually
// implies against the stored record. Fields absent from the payload are
// ignored. An empty result means the write is a no-op and must not bump
// the version.
func diffInventory(current *models.Inventory, patch UpdateInventoryInput) map[string]any {
	changes := map[string]any{}

	if patch.Quantity != nil && *patch.Quantity != current.Quantity {
		changes["quantity"] = *patch.Quantity
	}
	if patch.UnitPrice != nil && !moneyEqual(*patch.UnitPrice, current.UnitPrice) {
		changes["unit_price"] = *patch.UnitPrice
	}
	if patch.Status != nil && *patch.Status != current.Status {
		changes["status"] = *patch.Status
	}

	return changes
}

// moneyEqual compares two monetary amounts with a relative tolerance.
func moneyEqual(a, b decimal.Decimal) bool {
	diff := a.Sub(b).Abs()
	if diff.IsZero() {
		return true
	}
	scale := a.Abs()
	if b.Abs().GreaterThan(scale) {
		scale = b.Abs()
	}
	if scale.IsZero() {
		return diff.IsZero()
	}
	return diff.LessThanOrEqual(scale.Mul(priceTolerance))
}
