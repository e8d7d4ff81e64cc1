package iorderitemrepo

import (
	"context"

	"github.com/corray333/backend-labs/store/internal/service/models/orderitem"
)

// IOrderItemRepository is an interface for the order line item repository.
// Upsert accumulates quantity on (order_id, product_id) conflict.
type IOrderItemRepository interface {
	Upsert(ctx context.Context, item orderitem.OrderItem) error
	Query(ctx context.Context, filter *orderitem.QueryOrderItemsModel) ([]orderitem.OrderItem, error)
	DeleteByOrderID(ctx context.Context, orderID int64) error
}
