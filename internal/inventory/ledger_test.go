package inventory

import (
	"testing"

	"github.com/google/uuid"

	"github.com/gentlecorp/inventory-service/pkg/db/models"
	pkgerrors "github.com/gentlecorp/inventory-service/pkg/errors"
)

func ledgerRecord(quantity int, reservations ...models.Reservation) *models.Inventory {
	return &models.Inventory{
		ID:           uuid.New(),
		Quantity:     quantity,
		Reservations: reservations,
	}
}

func TestAvailableQuantity(t *testing.T) {
	t.Parallel()

	inv := ledgerRecord(50,
		models.Reservation{Username: "admin", Quantity: 5},
		models.Reservation{Username: "carol", Quantity: 15},
	)
	if got := AvailableQuantity(inv); got != 30 {
		t.Fatalf("expected 30 available, got %d", got)
	}

	if got := AvailableQuantity(ledgerRecord(50)); got != 50 {
		t.Fatalf("expected full quantity with no reservations, got %d", got)
	}
}

func TestPlanReserveNew(t *testing.T) {
	t.Parallel()

	plan, err := planReserve(ledgerRecord(10), 4, "dave")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.existing != nil {
		t.Fatalf("expected a new reservation plan")
	}
	if plan.quantity != 4 {
		t.Fatalf("expected planned quantity 4, got %d", plan.quantity)
	}
}

func TestPlanReserveMergesByUsername(t *testing.T) {
	t.Parallel()

	inv := ledgerRecord(20, models.Reservation{ID: uuid.New(), Username: "dave", Quantity: 3})
	plan, err := planReserve(inv, 4, "dave")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.existing == nil || plan.existing.ID != inv.Reservations[0].ID {
		t.Fatalf("expected merge into existing reservation")
	}
	if plan.quantity != 7 {
		t.Fatalf("expected summed quantity 7, got %d", plan.quantity)
	}
}

func TestPlanReserveRejectsNonPositiveQuantity(t *testing.T) {
	t.Parallel()

	for _, requested := range []int{0, -3} {
		_, err := planReserve(ledgerRecord(10), requested, "dave")
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %d, got %v", requested, err)
		}
	}
}

func TestPlanReserveInsufficientStock(t *testing.T) {
	t.Parallel()

	inv := ledgerRecord(50,
		models.Reservation{Username: "admin", Quantity: 5},
		models.Reservation{Username: "carol", Quantity: 15},
	)

	_, err := planReserve(inv, 35, "dave")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected structured details, got %T", typed.Details())
	}
	if details["requested"] != 35 || details["available"] != 30 {
		t.Fatalf("unexpected details: %+v", details)
	}

	// Exactly the remaining stock is allowed.
	plan, err := planReserve(inv, 30, "dave")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.quantity != 30 {
		t.Fatalf("expected planned quantity 30, got %d", plan.quantity)
	}
}
