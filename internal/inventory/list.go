package inventory

import (
	"github.com/gentlecorp/inventory-service/pkg/enums"
	"github.com/gentlecorp/inventory-service/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListFilters describe the supported filter knobs for the browse endpoint.
type ListFilters struct {
	SkuCode   string                 `json:"sku_code,omitempty"`
	Status    *enums.InventoryStatus `json:"status,omitempty"`
	ProductID *uuid.UUID             `json:"product_id,omitempty"`
	MinPrice  *decimal.Decimal       `json:"min_price,omitempty"`
	MaxPrice  *decimal.Decimal       `json:"max_price,omitempty"`
}

// ListInput captures the inputs needed to paginate and filter stock records.
type ListInput struct {
	Filters    ListFilters
	Pagination pagination.Params
}

// ListResult is one page of stock records plus the cursor for the next page.
type ListResult struct {
	Items      []InventoryDTO `json:"items"`
	NextCursor string         `json:"next_cursor,omitempty"`
}
