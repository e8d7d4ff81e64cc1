package cartsvc

import (
	"context"
	"time"

	"github.com/corray333/backend-labs/store/internal/dal/interfaces/icartrepo"
	"github.com/corray333/backend-labs/store/internal/dal/interfaces/iproductrepo"
	"github.com/corray333/backend-labs/store/internal/service/models/cartitem"
	"github.com/corray333/backend-labs/store/pkg/apperr"
)

// CartService owns per-user carts. Adding a product already in the cart
// accumulates quantity on the existing row.
type CartService struct {
	cart     icartrepo.ICartRepository
	products iproductrepo.IProductRepository
}

// option is a function that configures the CartService.
type option func(*CartService)

// MustNewCartService creates a new CartService.
func MustNewCartService(opts ...option) *CartService {
	s := &CartService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.cart == nil {
		panic("cartsvc: cart repository is required")
	}
	if s.products == nil {
		panic("cartsvc: product repository is required")
	}

	return s
}

// WithCartRepository sets the cart repository for the CartService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCartRepository(repo icartrepo.ICartRepository) option {
	return func(s *CartService) {
		s.cart = repo
	}
}

// WithProductRepository sets the product repository for the CartService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithProductRepository(repo iproductrepo.IProductRepository) option {
	return func(s *CartService) {
		s.products = repo
	}
}

// AddItem puts a product into the user's cart, accumulating onto any
// existing row for the same product. The product must exist.
func (s *CartService) AddItem(ctx context.Context, item cartitem.CartItem) (*cartitem.CartItem, error) {
	if item.UserID == 0 {
		return nil, apperr.Validation("missing required argument: user_id")
	}
	if item.ProductID == 0 {
		return nil, apperr.Validation("missing required argument: product_id")
	}
	if item.Quantity <= 0 {
		return nil, apperr.Validation("quantity must be positive")
	}

	if _, err := s.products.GetByID(ctx, item.ProductID); err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, err
		}

		return nil, apperr.Internal("could not look up product", err)
	}

	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	stored, err := s.cart.Upsert(ctx, item)
	if err != nil {
		return nil, apperr.Internal("could not add cart item", err)
	}

	return stored, nil
}

// GetItems retrieves the user's cart contents.
func (s *CartService) GetItems(ctx context.Context, userID int64) ([]cartitem.CartItem, error) {
	if userID == 0 {
		return nil, apperr.Validation("missing required argument: user_id")
	}

	items, err := s.cart.Query(ctx, &cartitem.QueryCartItemsModel{UserIds: []int64{userID}})
	if err != nil {
		return nil, apperr.Internal("could not fetch cart items", err)
	}

	return items, nil
}
