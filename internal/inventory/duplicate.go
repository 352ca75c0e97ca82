package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/gentlecorp/inventory-service/internal/products"
	pkgerrors "github.com/gentlecorp/inventory-service/pkg/errors"
)

// checkDuplicate is the friendly pre-flight; the product_id uniqueness
// constraint remains the authority under concurrent creates.
func (s *service) checkDuplicate(ctx context.Context, productID uuid.UUID, info *products.ProductInfo) error {
	existing, err := s.repo.FindByProductID(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "duplicate check")
	}
	if existing == nil {
		return nil
	}
	return newDuplicate(info.Name, info.Brand, existing.ID)
}

// duplicateFromStore builds the conflict error after the unique constraint
// fired; the racing row may not be visible yet, so the id can be absent.
func (s *service) duplicateFromStore(ctx context.Context, productID uuid.UUID, info *products.ProductInfo) error {
	existing, err := s.repo.FindByProductID(ctx, productID)
	if err != nil || existing == nil {
		return newDuplicate(info.Name, info.Brand, uuid.Nil)
	}
	return newDuplicate(info.Name, info.Brand, existing.ID)
}
