package product

import (
	"time"

	"github.com/corray333/backend-labs/store/internal/service/models/currency"
)

// Product is a catalog entry. PriceCents is the point-in-time value frozen
// into order totals at order-write time; later price changes do not affect
// past orders.
type Product struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	CategoryID    int64             `json:"category_id"`
	PriceCents    int64             `json:"price"`
	PriceCurrency currency.Currency `json:"price_currency"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// QueryProductsModel represents filter parameters for querying products.
type QueryProductsModel struct {
	Ids         []int64 `json:"ids,omitempty"`
	CategoryIds []int64 `json:"category_ids,omitempty"`
	Limit       int     `json:"limit,omitempty"`
	Offset      int     `json:"offset,omitempty"`
}
