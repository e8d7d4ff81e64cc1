package icartrepo

import (
	"context"

	"github.com/corray333/backend-labs/store/internal/service/models/cartitem"
)

// ICartRepository is an interface for the cart repository. Upsert
// accumulates quantity on (user_id, product_id) conflict.
type ICartRepository interface {
	Upsert(ctx context.Context, item cartitem.CartItem) (*cartitem.CartItem, error)
	Query(ctx context.Context, filter *cartitem.QueryCartItemsModel) ([]cartitem.CartItem, error)
}
