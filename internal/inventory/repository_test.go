package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gentlecorp/inventory-service/pkg/db/models"
	"github.com/gentlecorp/inventory-service/pkg/enums"
	"github.com/gentlecorp/inventory-service/pkg/pagination"
)

func newTestRepo(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()

	dsn := "file:invrepo_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Inventory{}, &models.Reservation{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRepository(conn), conn
}

func seedInventory(t *testing.T, conn *gorm.DB, inv *models.Inventory) *models.Inventory {
	t.Helper()
	if inv.Status == "" {
		inv.Status = enums.InventoryStatusAvailable
	}
	if inv.SkuCode == "" {
		inv.SkuCode = GenerateSku("Acme", "Widget", DefaultSkuLength)
	}
	if inv.ProductID == uuid.Nil {
		inv.ProductID = uuid.New()
	}
	if err := conn.Create(inv).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}
	return inv
}

func TestConditionalUpdateVersionGate(t *testing.T) {
	t.Parallel()

	repo, conn := newTestRepo(t)
	ctx := context.Background()

	inv := seedInventory(t, conn, &models.Inventory{
		Quantity:  10,
		UnitPrice: decimal.RequireFromString("5.00"),
	})

	ok, err := repo.ConditionalUpdate(ctx, inv.ID, 3, map[string]any{"quantity": 99})
	if err != nil {
		t.Fatalf("conditional update: %v", err)
	}
	if ok {
		t.Fatalf("mismatched version must affect zero rows")
	}

	ok, err = repo.ConditionalUpdate(ctx, inv.ID, 0, map[string]any{"quantity": 99})
	if err != nil {
		t.Fatalf("conditional update: %v", err)
	}
	if !ok {
		t.Fatalf("matching version must apply")
	}

	reloaded, err := repo.FindByID(ctx, inv.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Quantity != 99 || reloaded.Version != 1 {
		t.Fatalf("update must apply changes and bump the version: %+v", reloaded)
	}
}

func TestTouchVersion(t *testing.T) {
	t.Parallel()

	repo, conn := newTestRepo(t)
	ctx := context.Background()

	inv := seedInventory(t, conn, &models.Inventory{
		Quantity:  10,
		UnitPrice: decimal.RequireFromString("5.00"),
	})

	ok, err := repo.TouchVersion(ctx, inv.ID, 5)
	if err != nil || ok {
		t.Fatalf("stale touch must affect zero rows, got ok=%v err=%v", ok, err)
	}

	ok, err = repo.TouchVersion(ctx, inv.ID, 0)
	if err != nil || !ok {
		t.Fatalf("touch: ok=%v err=%v", ok, err)
	}

	reloaded, err := repo.FindByID(ctx, inv.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Version != 1 || reloaded.Quantity != 10 {
		t.Fatalf("touch must only advance the version: %+v", reloaded)
	}
}

func TestConditionalDeleteRemovesReservations(t *testing.T) {
	t.Parallel()

	repo, conn := newTestRepo(t)
	ctx := context.Background()

	inv := seedInventory(t, conn, &models.Inventory{
		Quantity:  10,
		UnitPrice: decimal.RequireFromString("5.00"),
	})
	if _, err := repo.CreateReservation(ctx, &models.Reservation{
		Quantity:    2,
		Username:    "admin",
		InventoryID: inv.ID,
	}); err != nil {
		t.Fatalf("seed reservation: %v", err)
	}

	ok, err := repo.ConditionalDelete(ctx, inv.ID, 7)
	if err != nil || ok {
		t.Fatalf("stale delete must affect zero rows, got ok=%v err=%v", ok, err)
	}

	ok, err = repo.ConditionalDelete(ctx, inv.ID, 0)
	if err != nil || !ok {
		t.Fatalf("delete: ok=%v err=%v", ok, err)
	}

	var remaining int64
	if err := conn.Model(&models.Reservation{}).Where("inventory_id = ?", inv.ID).Count(&remaining).Error; err != nil {
		t.Fatalf("count reservations: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("reservations must go with the record, found %d", remaining)
	}
}

func TestListFiltersAndPagination(t *testing.T) {
	t.Parallel()

	repo, conn := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	discontinued := enums.InventoryStatusDiscontinued
	for i := 0; i < 5; i++ {
		status := enums.InventoryStatusAvailable
		if i == 4 {
			status = discontinued
		}
		seedInventory(t, conn, &models.Inventory{
			Quantity:  10 + i,
			UnitPrice: decimal.New(int64(10+i), 0),
			Status:    status,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	rows, next, err := repo.List(ctx, ListFilters{}, pagination.Params{Limit: 3})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected first page of 3, got %d", len(rows))
	}
	if next == "" {
		t.Fatalf("expected a next cursor")
	}
	// Newest first.
	if !rows[0].CreatedAt.After(rows[1].CreatedAt) {
		t.Fatalf("expected descending creation order")
	}

	rows, next, err = repo.List(ctx, ListFilters{}, pagination.Params{Limit: 3, Cursor: next})
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(rows) != 2 || next != "" {
		t.Fatalf("expected final page of 2 with no cursor, got %d rows", len(rows))
	}

	rows, _, err = repo.List(ctx, ListFilters{Status: &discontinued}, pagination.Params{})
	if err != nil {
		t.Fatalf("list by status: %v", err)
	}
	if len(rows) != 1 || rows[0].Status != discontinued {
		t.Fatalf("expected the single discontinued record, got %+v", rows)
	}

	minPrice := decimal.New(12, 0)
	maxPrice := decimal.New(13, 0)
	rows, _, err = repo.List(ctx, ListFilters{MinPrice: &minPrice, MaxPrice: &maxPrice}, pagination.Params{})
	if err != nil {
		t.Fatalf("list by price: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected two records in the price band, got %d", len(rows))
	}
}
