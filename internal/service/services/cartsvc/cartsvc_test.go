package cartsvc

import (
	"context"
	"testing"

	"github.com/corray333/backend-labs/store/internal/service/models/cartitem"
	"github.com/corray333/backend-labs/store/internal/service/models/product"
	"github.com/corray333/backend-labs/store/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartKey struct {
	userID    int64
	productID int64
}

type fakeCartRepo struct {
	items map[cartKey]cartitem.CartItem
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{items: make(map[cartKey]cartitem.CartItem)}
}

func (r *fakeCartRepo) Upsert(_ context.Context, item cartitem.CartItem) (*cartitem.CartItem, error) {
	key := cartKey{userID: item.UserID, productID: item.ProductID}
	if existing, ok := r.items[key]; ok {
		existing.Quantity += item.Quantity
		r.items[key] = existing

		return &existing, nil
	}

	r.items[key] = item

	return &item, nil
}

func (r *fakeCartRepo) Query(_ context.Context, filter *cartitem.QueryCartItemsModel) ([]cartitem.CartItem, error) {
	var result []cartitem.CartItem
	for key, item := range r.items {
		if len(filter.UserIds) > 0 {
			match := false
			for _, id := range filter.UserIds {
				if id == key.userID {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		result = append(result, item)
	}

	return result, nil
}

type fakeProductRepo struct {
	known map[int64]bool
}

func (r *fakeProductRepo) GetByID(_ context.Context, id int64) (*product.Product, error) {
	if !r.known[id] {
		return nil, apperr.NotFound("product", id)
	}

	return &product.Product{ID: id}, nil
}

func (r *fakeProductRepo) Insert(context.Context, product.Product) (*product.Product, error) {
	panic("not used by cart tests")
}

func (r *fakeProductRepo) GetPriceCents(context.Context, int64) (int64, error) {
	panic("not used by cart tests")
}

func (r *fakeProductRepo) Query(context.Context, *product.QueryProductsModel) ([]product.Product, error) {
	panic("not used by cart tests")
}

func newTestService() (*CartService, *fakeCartRepo) {
	cart := newFakeCartRepo()
	svc := MustNewCartService(
		WithCartRepository(cart),
		WithProductRepository(&fakeProductRepo{known: map[int64]bool{7: true, 8: true}}),
	)

	return svc, cart
}

func TestAddItemAccumulates(t *testing.T) {
	svc, _ := newTestService()

	first, err := svc.AddItem(context.Background(), cartitem.CartItem{UserID: 1, ProductID: 7, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Quantity)

	second, err := svc.AddItem(context.Background(), cartitem.CartItem{UserID: 1, ProductID: 7, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 5, second.Quantity, "repeat adds accumulate onto the same row")

	items, err := svc.GetItems(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, cart := newTestService()

	_, err := svc.AddItem(context.Background(), cartitem.CartItem{UserID: 1, ProductID: 99, Quantity: 1})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Empty(t, cart.items)
}

func TestAddItemValidation(t *testing.T) {
	svc, _ := newTestService()

	tests := []struct {
		name string
		item cartitem.CartItem
	}{
		{name: "missing user", item: cartitem.CartItem{ProductID: 7, Quantity: 1}},
		{name: "missing product", item: cartitem.CartItem{UserID: 1, Quantity: 1}},
		{name: "zero quantity", item: cartitem.CartItem{UserID: 1, ProductID: 7}},
		{name: "negative quantity", item: cartitem.CartItem{UserID: 1, ProductID: 7, Quantity: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddItem(context.Background(), tt.item)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

func TestGetItemsScopedToUser(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.AddItem(context.Background(), cartitem.CartItem{UserID: 1, ProductID: 7, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), cartitem.CartItem{UserID: 2, ProductID: 8, Quantity: 1})
	require.NoError(t, err)

	items, err := svc.GetItems(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(7), items[0].ProductID)
}
