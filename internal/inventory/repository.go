package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gentlecorp/inventory-service/pkg/db/models"
	"github.com/gentlecorp/inventory-service/pkg/pagination"
)

// Repository wires together stock-record and reservation persistence.
// All mutating operations are conditional writes keyed on the stored
// version; zero rows affected means another writer got there first.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the record with its reservations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Inventory, error) {
	var inv models.Inventory
	err := r.db.WithContext(ctx).
		Preload("Reservations").
		First(&inv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newNotFound(id)
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// FindByProductID returns the record owning the product identity, or nil.
func (r *Repository) FindByProductID(ctx context.Context, productID uuid.UUID) (*models.Inventory, error) {
	var inv models.Inventory
	err := r.db.WithContext(ctx).First(&inv, "product_id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// FindBySkuCode loads the record carrying the given SKU code.
func (r *Repository) FindBySkuCode(ctx context.Context, skuCode string) (*models.Inventory, error) {
	var inv models.Inventory
	err := r.db.WithContext(ctx).
		Preload("Reservations").
		First(&inv, "sku_code = ?", skuCode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newNotFoundBySku(skuCode)
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Create persists a new record.
func (r *Repository) Create(ctx context.Context, inv *models.Inventory) (*models.Inventory, error) {
	if err := r.db.WithContext(ctx).Create(inv).Error; err != nil {
		return nil, err
	}
	return inv, nil
}

// ConditionalUpdate applies the column changes only if the stored version
// still equals expectedVersion, bumping the version in the same statement.
// Returns false when no row matched.
func (r *Repository) ConditionalUpdate(ctx context.Context, id uuid.UUID, expectedVersion int64, changes map[string]any) (bool, error) {
	updates := make(map[string]any, len(changes)+1)
	for k, v := range changes {
		updates[k] = v
	}
	updates["version"] = gorm.Expr("version + 1")

	res := r.db.WithContext(ctx).
		Model(&models.Inventory{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ConditionalDelete removes the record only if the version still matches.
// Reservations are removed in the same transaction; the delete of the
// parent row is the conditional gate.
func (r *Repository) ConditionalDelete(ctx context.Context, id uuid.UUID, expectedVersion int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND version = ?", id, expectedVersion).
		Delete(&models.Inventory{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	if err := r.db.WithContext(ctx).
		Where("inventory_id = ?", id).
		Delete(&models.Reservation{}).Error; err != nil {
		return false, err
	}
	return true, nil
}

// List returns one page of records ordered by creation time, newest first.
// The reservations collection is loaded so derived quantities are exact.
func (r *Repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Inventory, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.Inventory{}).
		Preload("Reservations").
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	if filters.SkuCode != "" {
		query = query.Where("sku_code = ?", filters.SkuCode)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.ProductID != nil {
		query = query.Where("product_id = ?", *filters.ProductID)
	}
	if filters.MinPrice != nil {
		query = query.Where("unit_price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		query = query.Where("unit_price <= ?", *filters.MaxPrice)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Inventory
	if err := query.Find(&rows).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return rows, nextCursor, nil
}

// FindReservation returns the reservation held by username on a record.
func (r *Repository) FindReservation(ctx context.Context, inventoryID uuid.UUID, username string) (*models.Reservation, error) {
	var res models.Reservation
	err := r.db.WithContext(ctx).
		First(&res, "inventory_id = ? AND username = ?", inventoryID, username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// CreateReservation persists a new reservation row.
func (r *Repository) CreateReservation(ctx context.Context, res *models.Reservation) (*models.Reservation, error) {
	if err := r.db.WithContext(ctx).Create(res).Error; err != nil {
		return nil, err
	}
	return res, nil
}

// ConditionalUpdateReservation sets the reservation quantity only if the
// stored version still equals expectedVersion.
func (r *Repository) ConditionalUpdateReservation(ctx context.Context, id uuid.UUID, expectedVersion int64, quantity int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(map[string]any{
			"quantity": quantity,
			"version":  gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListReservations returns all reservations on a record.
func (r *Repository) ListReservations(ctx context.Context, inventoryID uuid.UUID) ([]models.Reservation, error) {
	var rows []models.Reservation
	err := r.db.WithContext(ctx).
		Where("inventory_id = ?", inventoryID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TouchVersion bumps the record version without other column changes, used
// when a reservation write must also advance the owning record's validator.
func (r *Repository) TouchVersion(ctx context.Context, id uuid.UUID, expectedVersion int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Inventory{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Update("version", gorm.Expr("version + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
