package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gentlecorp/inventory-service/internal/products"
	"github.com/gentlecorp/inventory-service/pkg/db"
	"github.com/gentlecorp/inventory-service/pkg/db/models"
	"github.com/gentlecorp/inventory-service/pkg/enums"
	pkgerrors "github.com/gentlecorp/inventory-service/pkg/errors"
	"github.com/gentlecorp/inventory-service/pkg/logger"
	"github.com/gentlecorp/inventory-service/pkg/outbox"
	"github.com/gentlecorp/inventory-service/pkg/outbox/payloads"
)

const skuCreateAttempts = 3

// Service exposes the version-checked inventory operations.
type Service interface {
	Create(ctx context.Context, input CreateInventoryInput) (*InventoryDTO, error)
	GetByID(ctx context.Context, id uuid.UUID, ifNoneMatch string) (*InventoryDTO, error)
	GetBySkuCode(ctx context.Context, skuCode string) (*InventoryDTO, error)
	List(ctx context.Context, input ListInput) (*ListResult, error)
	Update(ctx context.Context, id uuid.UUID, versionToken string, patch UpdateInventoryInput) (*InventoryDTO, error)
	Delete(ctx context.Context, id uuid.UUID, versionToken string) error
	Reserve(ctx context.Context, id uuid.UUID, input ReserveInput) (*ReservationDTO, error)
	ListReservations(ctx context.Context, id uuid.UUID) ([]ReservationDTO, error)
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// service implements the inventory consistency core.
type service struct {
	repo     *Repository
	dbClient *db.Client
	catalog  products.Lookup
	events   eventEmitter
	logg     *logger.Logger
}

// NewService constructs the inventory service.
func NewService(repo *Repository, dbClient *db.Client, catalog products.Lookup, events eventEmitter, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("product lookup required")
	}
	return &service{
		repo:     repo,
		dbClient: dbClient,
		catalog:  catalog,
		events:   events,
		logg:     logg,
	}, nil
}

// Create resolves the product identity, enforces the one-record-per-product
// invariant, generates a SKU and persists the record with version 0.
func (s *service) Create(ctx context.Context, input CreateInventoryInput) (*InventoryDTO, error) {
	info, err := s.catalog.GetByID(ctx, input.ProductID)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil, newProductNotFound(input.ProductID)
		}
		return nil, err
	}

	if err := s.checkDuplicate(ctx, input.ProductID, info); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = enums.InventoryStatusAvailable
	}

	var created *models.Inventory
	for attempt := 0; attempt < skuCreateAttempts; attempt++ {
		record := &models.Inventory{
			Version:   0,
			SkuCode:   GenerateSku(info.Brand, info.Name, DefaultSkuLength),
			Quantity:  input.Quantity,
			UnitPrice: input.UnitPrice,
			Status:    status,
			ProductID: input.ProductID,
		}

		err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)
			if _, err := repo.Create(ctx, record); err != nil {
				return err
			}
			return s.emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventInventoryCreated,
				AggregateType: enums.AggregateInventory,
				AggregateID:   record.ID,
				Data: payloads.InventoryCreatedEvent{
					InventoryID: record.ID,
					ProductID:   record.ProductID,
					SkuCode:     record.SkuCode,
					Quantity:    record.Quantity,
					UnitPrice:   record.UnitPrice,
					Status:      record.Status,
				},
			})
		})
		if err == nil {
			created = record
			break
		}
		if db.IsUniqueViolation(err, "ux_inventories_sku_code", "inventories.sku_code") {
			// Random suffix collided; draw again.
			continue
		}
		if db.IsUniqueViolation(err, "ux_inventories_product_id", "inventories.product_id") {
			// Lost the pre-flight race; report the surviving record.
			return nil, s.duplicateFromStore(ctx, input.ProductID, info)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create inventory")
	}
	if created == nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sku generation exhausted retries")
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"inventory_id": created.ID.String(),
			"product_id":   created.ProductID.String(),
			"sku_code":     created.SkuCode,
		})
		s.logg.Info(logCtx, "inventory created")
	}

	return NewInventoryDTO(created), nil
}

// GetByID returns the record, or a not-modified signal when the caller's
// If-None-Match token equals the stored version.
func (s *service) GetByID(ctx context.Context, id uuid.UUID, ifNoneMatch string) (*InventoryDTO, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	match, err := MatchesForRead(ifNoneMatch, record.Version)
	if err != nil {
		return nil, err
	}
	if match {
		return nil, pkgerrors.New(pkgerrors.CodeNotModified, "not modified")
	}
	return NewInventoryDTO(record), nil
}

func (s *service) GetBySkuCode(ctx context.Context, skuCode string) (*InventoryDTO, error) {
	record, err := s.repo.FindBySkuCode(ctx, strings.TrimSpace(skuCode))
	if err != nil {
		return nil, err
	}
	return NewInventoryDTO(record), nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	rows, nextCursor, err := s.repo.List(ctx, input.Filters, input.Pagination)
	if err != nil {
		return nil, err
	}
	items := make([]InventoryDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *NewInventoryDTO(&rows[i]))
	}
	return &ListResult{Items: items, NextCursor: nextCursor}, nil
}

// Update applies a partial payload under the version precondition. The
// persist is a single conditional write; zero rows affected surfaces as a
// late-detected conflict.
func (s *service) Update(ctx context.Context, id uuid.UUID, versionToken string, patch UpdateInventoryInput) (*InventoryDTO, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	requested, err := RequireVersionMatch(versionToken, record.Version)
	if err != nil {
		return nil, err
	}

	changes := diffInventory(record, patch)
	if len(changes) == 0 {
		return nil, newNoChanges()
	}

	changedFields := make([]string, 0, len(changes))
	for field := range changes {
		changedFields = append(changedFields, field)
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ok, err := repo.ConditionalUpdate(ctx, id, requested, changes)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update inventory")
		}
		if !ok {
			current, loadErr := repo.FindByID(ctx, id)
			if loadErr != nil {
				return loadErr
			}
			return newVersionConflict(current.Version, requested)
		}
		return s.emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventInventoryUpdated,
			AggregateType: enums.AggregateInventory,
			AggregateID:   id,
			Data: payloads.InventoryUpdatedEvent{
				InventoryID:   id,
				Version:       requested + 1,
				ChangedFields: changedFields,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewInventoryDTO(updated), nil
}

// Delete removes the record and its reservations atomically, gated by the
// same version precondition as updates.
func (s *service) Delete(ctx context.Context, id uuid.UUID, versionToken string) error {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	requested, err := RequireVersionMatch(versionToken, record.Version)
	if err != nil {
		return err
	}

	reservationCount := len(record.Reservations)

	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ok, err := repo.ConditionalDelete(ctx, id, requested)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete inventory")
		}
		if !ok {
			current, loadErr := repo.FindByID(ctx, id)
			if loadErr != nil {
				return loadErr
			}
			return newVersionConflict(current.Version, requested)
		}
		return s.emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventInventoryDeleted,
			AggregateType: enums.AggregateInventory,
			AggregateID:   id,
			Data: payloads.InventoryDeletedEvent{
				InventoryID:      id,
				ProductID:        record.ProductID,
				ReservationCount: reservationCount,
			},
		})
	})
}

// Reserve claims stock for the calling principal. A repeat reservation by
// the same username merges by summing quantities; callers supply the
// reservation's version to keep the top-up from double-applying.
func (s *service) Reserve(ctx context.Context, id uuid.UUID, input ReserveInput) (*ReservationDTO, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	plan, err := planReserve(record, input.Quantity, input.Username)
	if err != nil {
		return nil, err
	}

	if plan.existing != nil && strings.TrimSpace(input.ReservationVersion) != "" {
		if _, err := RequireVersionMatch(input.ReservationVersion, plan.existing.Version); err != nil {
			return nil, err
		}
	}

	var reservation *models.Reservation
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if plan.existing != nil {
			ok, err := repo.ConditionalUpdateReservation(ctx, plan.existing.ID, plan.existing.Version, plan.quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update reservation")
			}
			if !ok {
				current, loadErr := repo.FindReservation(ctx, id, input.Username)
				if loadErr != nil {
					return loadErr
				}
				if current == nil {
					return newReservationNotFound(plan.existing.ID)
				}
				return newVersionConflict(current.Version, plan.existing.Version)
			}
			refreshed, loadErr := repo.FindReservation(ctx, id, input.Username)
			if loadErr != nil {
				return loadErr
			}
			reservation = refreshed
		} else {
			created := &models.Reservation{
				Version:     0,
				Quantity:    plan.quantity,
				Username:    input.Username,
				InventoryID: id,
			}
			if _, err := repo.CreateReservation(ctx, created); err != nil {
				if db.IsUniqueViolation(err, "ux_reservations_inventory_username", "reservations.username") {
					return pkgerrors.New(pkgerrors.CodeConflict, "reservation already exists for this user").
						WithDetails(map[string]any{"inventory_id": id.String(), "username": input.Username})
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create reservation")
			}
			reservation = created
		}

		// A reservation change also advances the owning record's validator.
		ok, err := repo.TouchVersion(ctx, id, record.Version)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "advance inventory version")
		}
		if !ok {
			current, loadErr := repo.FindByID(ctx, id)
			if loadErr != nil {
				return loadErr
			}
			return newVersionConflict(current.Version, record.Version)
		}

		available := AvailableQuantity(record) - input.Quantity
		return s.emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventStockReserved,
			AggregateType: enums.AggregateReservation,
			AggregateID:   reservation.ID,
			Actor:         &outbox.ActorRef{Username: input.Username},
			Data: payloads.StockReservedEvent{
				InventoryID:       id,
				ReservationID:     reservation.ID,
				Username:          input.Username,
				Quantity:          reservation.Quantity,
				AvailableQuantity: available,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	return NewReservationDTO(reservation), nil
}

func (s *service) ListReservations(ctx context.Context, id uuid.UUID) ([]ReservationDTO, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListReservations(ctx, id)
	if err != nil {
		return nil, err
	}
	dtos := make([]ReservationDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewReservationDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	if s.events == nil {
		return nil
	}
	return s.events.Emit(ctx, tx, event)
}
