package cartitem

import (
	"time"
)

// CartItem is one product in a user's cart. (user_id, product_id) is unique;
// adding the same product again accumulates quantity.
type CartItem struct {
	UserID    int64     `json:"user_id"`
	ProductID int64     `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QueryCartItemsModel represents filter parameters for querying cart items.
type QueryCartItemsModel struct {
	UserIds    []int64 `json:"user_ids,omitempty"`
	ProductIds []int64 `json:"product_ids,omitempty"`
	Limit      int     `json:"limit,omitempty"`
	Offset     int     `json:"offset,omitempty"`
}
