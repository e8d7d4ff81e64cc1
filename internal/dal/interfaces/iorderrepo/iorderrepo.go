package iorderrepo

import (
	"context"

	"github.com/corray333/backend-labs/store/internal/service/models/currency"
	"github.com/corray333/backend-labs/store/internal/service/models/order"
)

// IOrderRepository is an interface for the order header repository.
type IOrderRepository interface {
	Insert(ctx context.Context, o order.Order) (*order.Order, error)
	Update(ctx context.Context, id int64, patch order.Patch) (*order.Order, error)
	UpdateTotal(ctx context.Context, id int64, totalCents int64, cur currency.Currency) error
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
	Delete(ctx context.Context, id int64) (*order.Order, error)
}
