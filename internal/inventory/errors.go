package inventory

import (
	pkgerrors "github.com/gentlecorp/inventory-service/pkg/errors"
	"github.com/google/uuid"
)

func newNotFound(id uuid.UUID) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "inventory not found").
		WithDetails(map[string]any{"inventory_id": id.String()})
}

func newNotFoundBySku(skuCode string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "inventory not found").
		WithDetails(map[string]any{"sku_code": skuCode})
}

func newReservationNotFound(id uuid.UUID) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found").
		WithDetails(map[string]any{"reservation_id": id.String()})
}

func newVersionMissing() *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodePreconditionRequired, "version header is required")
}

func newInvalidVersion(token string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodePreconditionFailed, "version is not a valid number").
		WithDetails(map[string]any{"requested_version": token})
}

func newVersionConflict(current, requested int64) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodePreconditionFailed, "version is outdated").
		WithDetails(map[string]any{
			"current_version":   current,
			"requested_version": requested,
		})
}

func newNoChanges() *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeNotModified, "no changes detected")
}

func newInsufficientStock(inventoryID uuid.UUID, requested, available int) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock").
		WithDetails(map[string]any{
			"inventory_id": inventoryID.String(),
			"requested":    requested,
			"available":    available,
		})
}

func newDuplicate(name, brand string, existingID uuid.UUID) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeConflict, "inventory already exists for this product").
		WithDetails(map[string]any{
			"product_name":          name,
			"product_brand":         brand,
			"existing_inventory_id": existingID.String(),
		})
}

func newProductNotFound(productID uuid.UUID) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeValidation, "referenced product does not exist").
		WithDetails(map[string]any{"product_id": productID.String()})
}
