package orderitem

import (
	"time"
)

// OrderItem represents one product's requested quantity within an order.
// (order_id, product_id) is unique; repeated insertion for the same pair
// accumulates quantity instead of overwriting it.
type OrderItem struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	ProductID int64     `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
