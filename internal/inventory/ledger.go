package inventory

import (
	"github.com/gentlecorp/inventory-service/pkg/db/models"
	pkgerrors "github.com/gentlecorp/inventory-service/pkg/errors"
)

// The ledger treats reservations as a deduction layer over gross quantity:
// reserving never decrements inventory.quantity, it only claims a share of
// it. Available stock is always derived.

// AvailableQuantity returns total stock minus the sum of all reservations.
// The reservations collection must be loaded.
func AvailableQuantity(inv *models.Inventory) int {
	reserved := 0
	for _, r := range inv.Reservations {
		reserved += r.Quantity
	}
	return inv.Quantity - reserved
}

// findReservation returns the reservation held by username, if any.
func findReservation(inv *models.Inventory, username string) *models.Reservation {
	for i := range inv.Reservations {
		if inv.Reservations[i].Username == username {
			return &inv.Reservations[i]
		}
	}
	return nil
}

// reservePlan describes how a reserve request applies to the ledger.
type reservePlan struct {
	// existing is nil when a new reservation row must be created.
	existing *models.Reservation
	quantity int
}

// planReserve validates availability and resolves whether the request merges
// into an existing reservation or opens a new one. It mutates nothing.
func planReserve(inv *models.Inventory, requested int, username string) (reservePlan, error) {
	if requested <= 0 {
		return reservePlan{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive").
			WithDetails(map[string]any{"requested": requested})
	}

	available := AvailableQuantity(inv)
	if available < requested {
		return reservePlan{}, newInsufficientStock(inv.ID, requested, available)
	}

	if existing := findReservation(inv, username); existing != nil {
		return reservePlan{existing: existing, quantity: existing.Quantity + requested}, nil
	}
	return reservePlan{quantity: requested}, nil
}
