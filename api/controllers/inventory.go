package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gentlecorp/inventory-service/api/middleware"
	"github.com/gentlecorp/inventory-service/api/responses"
	"github.com/gentlecorp/inventory-service/api/validators"
	"github.com/gentlecorp/inventory-service/internal/inventory"
	"github.com/gentlecorp/inventory-service/internal/products"
	"github.com/gentlecorp/inventory-service/pkg/enums"
	pkgerrors "github.com/gentlecorp/inventory-service/pkg/errors"
	"github.com/gentlecorp/inventory-service/pkg/logger"
	"github.com/gentlecorp/inventory-service/pkg/pagination"
)

// CreateInventory registers a stock record for a catalog product.
func CreateInventory(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload createInventoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// The catalog lookup runs on the caller's credentials.
		ctx := r.Context()
		if token := middleware.BearerTokenFromContext(ctx); token != "" {
			ctx = products.WithBearer(ctx, token)
		}

		dto, err := svc.Create(ctx, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("ETag", inventory.FormatVersion(dto.Version))
		w.Header().Set("Location", "/api/v1/inventory/"+dto.ID.String())
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// GetInventory returns one record; If-None-Match short-circuits to 304.
func GetInventory(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseInventoryID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetByID(r.Context(), id, r.Header.Get("If-None-Match"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("ETag", inventory.FormatVersion(dto.Version))
		responses.WriteSuccess(w, dto)
	}
}

// GetInventoryBySku resolves a record by its stock-keeping code.
func GetInventoryBySku(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skuCode := validators.SanitizeString(chi.URLParam(r, "skuCode"), 64)
		if skuCode == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "sku code is required"))
			return
		}

		dto, err := svc.GetBySkuCode(r.Context(), skuCode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("ETag", inventory.FormatVersion(dto.Version))
		responses.WriteSuccess(w, dto)
	}
}

// ListInventory returns a filtered, cursor-paginated page of records.
func ListInventory(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := listInputFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// UpdateInventory applies a partial update gated by the If-Match token.
func UpdateInventory(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseInventoryID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateInventoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		patch, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Update(r.Context(), id, r.Header.Get("If-Match"), patch)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("ETag", inventory.FormatVersion(dto.Version))
		responses.WriteSuccess(w, dto)
	}
}

// DeleteInventory removes a record and its reservations, gated by If-Match.
func DeleteInventory(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseInventoryID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id, r.Header.Get("If-Match")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// ReserveStock claims stock for the authenticated principal. When topping up
// an existing reservation the If-Match header carries the reservation's
// version token.
func ReserveStock(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseInventoryID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		username := middleware.UsernameFromContext(r.Context())
		if username == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var payload reserveStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Reserve(r.Context(), id, inventory.ReserveInput{
			Quantity:           payload.Quantity,
			Username:           username,
			ReservationVersion: r.Header.Get("If-Match"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("ETag", inventory.FormatVersion(dto.Version))
		w.Header().Set("Location", "/api/v1/inventory/"+id.String()+"/reservations/"+dto.ID.String())
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// ListReservations returns the reservation ledger of one record.
func ListReservations(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseInventoryID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reservations, err := svc.ListReservations(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, reservations)
	}
}

type createInventoryRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int             `json:"quantity" validate:"min=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Status    *string         `json:"status,omitempty"`
}

func (r createInventoryRequest) toCreateInput() (inventory.CreateInventoryInput, error) {
	productID, err := uuid.Parse(r.ProductID)
	if err != nil {
		return inventory.CreateInventoryInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	if r.UnitPrice.IsNegative() {
		return inventory.CreateInventoryInput{}, pkgerrors.New(pkgerrors.CodeValidation, "unit_price must not be negative")
	}

	input := inventory.CreateInventoryInput{
		ProductID: productID,
		Quantity:  r.Quantity,
		UnitPrice: r.UnitPrice,
	}
	if r.Status != nil {
		status, err := enums.ParseInventoryStatus(strings.TrimSpace(*r.Status))
		if err != nil {
			return inventory.CreateInventoryInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		input.Status = status
	}
	return input, nil
}

type updateInventoryRequest struct {
	Quantity  *int             `json:"quantity,omitempty" validate:"omitempty,min=0"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Status    *string          `json:"status,omitempty"`
}

func (r updateInventoryRequest) toUpdateInput() (inventory.UpdateInventoryInput, error) {
	patch := inventory.UpdateInventoryInput{Quantity: r.Quantity}
	if r.UnitPrice != nil {
		if r.UnitPrice.IsNegative() {
			return inventory.UpdateInventoryInput{}, pkgerrors.New(pkgerrors.CodeValidation, "unit_price must not be negative")
		}
		patch.UnitPrice = r.UnitPrice
	}
	if r.Status != nil {
		status, err := enums.ParseInventoryStatus(strings.TrimSpace(*r.Status))
		if err != nil {
			return inventory.UpdateInventoryInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		patch.Status = &status
	}
	return patch, nil
}

type reserveStockRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

func parseInventoryID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "inventoryId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid inventory id")
	}
	return id, nil
}

func listInputFromQuery(r *http.Request) (inventory.ListInput, error) {
	limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
	if err != nil {
		return inventory.ListInput{}, err
	}

	input := inventory.ListInput{
		Pagination: pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		},
	}

	query := r.URL.Query()
	input.Filters.SkuCode = validators.SanitizeString(query.Get("sku_code"), 64)

	if raw := strings.TrimSpace(query.Get("status")); raw != "" {
		status, err := enums.ParseInventoryStatus(raw)
		if err != nil {
			return inventory.ListInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		input.Filters.Status = &status
	}
	if raw := strings.TrimSpace(query.Get("product_id")); raw != "" {
		productID, err := uuid.Parse(raw)
		if err != nil {
			return inventory.ListInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product_id filter")
		}
		input.Filters.ProductID = &productID
	}
	if raw := strings.TrimSpace(query.Get("min_price")); raw != "" {
		minPrice, err := decimal.NewFromString(raw)
		if err != nil {
			return inventory.ListInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid min_price filter")
		}
		input.Filters.MinPrice = &minPrice
	}
	if raw := strings.TrimSpace(query.Get("max_price")); raw != "" {
		maxPrice, err := decimal.NewFromString(raw)
		if err != nil {
			return inventory.ListInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid max_price filter")
		}
		input.Filters.MaxPrice = &maxPrice
	}

	return input, nil
}
