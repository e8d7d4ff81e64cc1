package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/corray333/backend-labs/store/internal/service/models/order"
	"github.com/corray333/backend-labs/store/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/store/pkg/apperr"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	placed    *order.Order
	placeErr  error
	lastOrder order.Order
}

func (s *fakeService) PlaceOrder(_ context.Context, o order.Order) (*order.Order, error) {
	s.lastOrder = o
	if s.placeErr != nil {
		return nil, s.placeErr
	}

	return s.placed, nil
}

func (s *fakeService) UpdateOrder(_ context.Context, id int64, _ order.Patch, _ []orderitem.OrderItem) (*order.Order, error) {
	if s.placeErr != nil {
		return nil, s.placeErr
	}

	return s.placed, nil
}

func (s *fakeService) DeleteOrder(_ context.Context, id int64) (*order.Order, error) {
	if s.placeErr != nil {
		return nil, s.placeErr
	}

	return s.placed, nil
}

func (s *fakeService) GetOrders(context.Context, order.QueryOrdersModel) ([]order.Order, error) {
	return []order.Order{}, nil
}

func (s *fakeService) GetOrder(_ context.Context, id int64) (*order.Order, error) {
	if s.placeErr != nil {
		return nil, s.placeErr
	}

	return s.placed, nil
}

func newRouter(svc *fakeService) *chi.Mux {
	router := chi.NewRouter()
	router.Post("/orders/post", func(w http.ResponseWriter, r *http.Request) { Create(w, r, svc) })
	router.Get("/orders/get/{id}", func(w http.ResponseWriter, r *http.Request) { Get(w, r, svc) })
	router.Delete("/orders/delete/{id}", func(w http.ResponseWriter, r *http.Request) { Delete(w, r, svc) })

	return router
}

func TestCreateOrder(t *testing.T) {
	svc := &fakeService{placed: &order.Order{ID: 1, UserID: 2, TotalPriceCents: 1998}}
	router := newRouter(svc)

	body := `{"user_id":2,"shipping_address":"1 Main St","products":[{"product_id":7,"quantity":2}]}`
	req := httptest.NewRequest(http.MethodPost, "/orders/post", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var got order.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(1998), got.TotalPriceCents)

	require.Len(t, svc.lastOrder.OrderItems, 1)
	assert.Equal(t, int64(7), svc.lastOrder.OrderItems[0].ProductID)
	assert.Equal(t, 2, svc.lastOrder.OrderItems[0].Quantity)
}

func TestCreateOrderRejectsBadBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{`},
		{name: "missing products", body: `{"user_id":2,"shipping_address":"1 Main St"}`},
		{name: "empty products", body: `{"user_id":2,"shipping_address":"1 Main St","products":[]}`},
		{name: "zero quantity", body: `{"user_id":2,"shipping_address":"1 Main St","products":[{"product_id":7,"quantity":0}]}`},
		{name: "missing address", body: `{"user_id":2,"products":[{"product_id":7,"quantity":1}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{placed: &order.Order{}}
			router := newRouter(svc)

			req := httptest.NewRequest(http.MethodPost, "/orders/post", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Zero(t, svc.lastOrder.UserID, "the service must not be reached")
		})
	}
}

func TestCreateOrderMapsServiceErrors(t *testing.T) {
	svc := &fakeService{placeErr: apperr.NotFound("product", 99)}
	router := newRouter(svc)

	body := `{"user_id":2,"shipping_address":"1 Main St","products":[{"product_id":99,"quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/orders/post", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "99")
}

func TestGetOrderInvalidID(t *testing.T) {
	router := newRouter(&fakeService{placed: &order.Order{}})

	req := httptest.NewRequest(http.MethodGet, "/orders/get/abc", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteOrderNotFound(t *testing.T) {
	router := newRouter(&fakeService{placeErr: apperr.NotFound("order", 42)})

	req := httptest.NewRequest(http.MethodDelete, "/orders/delete/42", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
