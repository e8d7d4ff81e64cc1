package orders

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/corray333/backend-labs/store/internal/service/models/order"
	"github.com/corray333/backend-labs/store/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/store/internal/transport/http/respond"
	"github.com/corray333/backend-labs/store/pkg/apperr"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

// service is an interface for the service layer.
type service interface {
	PlaceOrder(ctx context.Context, o order.Order) (*order.Order, error)
	UpdateOrder(ctx context.Context, id int64, patch order.Patch, items []orderitem.OrderItem) (*order.Order, error)
	DeleteOrder(ctx context.Context, id int64) (*order.Order, error)
	GetOrders(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error)
	GetOrder(ctx context.Context, id int64) (*order.Order, error)
}

// itemInOrderRequest represents one requested line item. The price comes
// from the catalog at write time, never from the caller.
type itemInOrderRequest struct {
	ProductID int64 `json:"product_id" validate:"gt=0"`
	Quantity  int   `json:"quantity"   validate:"gt=0"`
}

func toItemModels(items []itemInOrderRequest) []orderitem.OrderItem {
	models := make([]orderitem.OrderItem, len(items))
	for i, item := range items {
		models[i] = orderitem.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	return models
}

// createOrderRequest represents an order placement request.
type createOrderRequest struct {
	UserID          int64                `json:"user_id"          validate:"gt=0"`
	Status          string               `json:"status"`
	ShippingAddress string               `json:"shipping_address" validate:"required"`
	PaymentMethod   string               `json:"payment_method"`
	PaymentStatus   string               `json:"payment_status"`
	ShippingStatus  string               `json:"shipping_status"`
	Products        []itemInOrderRequest `json:"products"         validate:"required,min=1,dive"`
}

// Create handles the order placement request.
//
//	@Summary	Place an order
//	@Tags		orders
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		createOrderRequest	true	"order data"
//	@Success	201		{object}	order.Order
//	@Failure	400		{object}	map[string]string
//	@Failure	404		{object}	map[string]string
//	@Router		/orders/post [post]
func Create(w http.ResponseWriter, r *http.Request, service service) {
	req := createOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, apperr.Validation("invalid request body"))
		slog.Error("Error decoding request body for order create", "error", err)

		return
	}

	if err := validator.New().Struct(&req); err != nil {
		respond.Error(w, r, apperr.Validation(err.Error()))

		return
	}

	placed, err := service.PlaceOrder(r.Context(), order.Order{
		UserID:          req.UserID,
		Status:          req.Status,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   req.PaymentStatus,
		ShippingStatus:  req.ShippingStatus,
		OrderItems:      toItemModels(req.Products),
	})
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusCreated, placed)
}

type queryOrdersRequest struct {
	Ids     []int64 `schema:"ids,omitempty"`
	UserIds []int64 `schema:"user_ids,omitempty"`
	Limit   int     `schema:"limit,omitempty"`
	Offset  int     `schema:"offset,omitempty"`
}

// List handles the order listing request.
//
//	@Summary	List orders with their line items
//	@Tags		orders
//	@Produce	json
//	@Security	BearerAuth
//	@Param		ids			query	[]int	false	"order ids"
//	@Param		user_ids	query	[]int	false	"user ids"
//	@Param		limit		query	int		false	"page size"
//	@Param		offset		query	int		false	"page offset"
//	@Success	200			{array}	order.Order
//	@Router		/orders/get [get]
func List(w http.ResponseWriter, r *http.Request, service service) {
	query := &queryOrdersRequest{}
	if err := schema.NewDecoder().Decode(query, r.URL.Query()); err != nil {
		respond.Error(w, r, apperr.Validation("invalid query parameters"))
		slog.Error("Error decoding request", "error", err)

		return
	}

	orders, err := service.GetOrders(r.Context(), order.QueryOrdersModel{
		Ids:     query.Ids,
		UserIds: query.UserIds,
		Limit:   query.Limit,
		Offset:  query.Offset,
	})
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, orders)
}

// Get handles the single order request.
//
//	@Summary	Get one order with its line items
//	@Tags		orders
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"order id"
//	@Success	200	{object}	order.Order
//	@Failure	404	{object}	map[string]string
//	@Router		/orders/get/{id} [get]
func Get(w http.ResponseWriter, r *http.Request, service service) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	o, err := service.GetOrder(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, o)
}

// replaceOrderRequest represents a full order update. Submitted products are
// reconciled against the stored line items with accumulate semantics.
type replaceOrderRequest struct {
	UserID          int64                `json:"user_id"          validate:"gt=0"`
	Status          string               `json:"status"           validate:"required"`
	ShippingAddress string               `json:"shipping_address" validate:"required"`
	PaymentMethod   string               `json:"payment_method"`
	PaymentStatus   string               `json:"payment_status"`
	ShippingStatus  string               `json:"shipping_status"`
	Products        []itemInOrderRequest `json:"products"         validate:"required,min=1,dive"`
}

// Put handles the full order update request.
//
//	@Summary	Update an order and reconcile its line items
//	@Tags		orders
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int					true	"order id"
//	@Param		request	body		replaceOrderRequest	true	"order data"
//	@Success	200		{object}	order.Order
//	@Failure	404		{object}	map[string]string
//	@Router		/orders/put/{id} [put]
func Put(w http.ResponseWriter, r *http.Request, service service) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	req := replaceOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, apperr.Validation("invalid request body"))
		slog.Error("Error decoding request body for order update", "error", err)

		return
	}

	if err := validator.New().Struct(&req); err != nil {
		respond.Error(w, r, apperr.Validation(err.Error()))

		return
	}

	patch := order.Patch{
		UserID:          &req.UserID,
		Status:          &req.Status,
		ShippingAddress: &req.ShippingAddress,
		PaymentMethod:   &req.PaymentMethod,
		PaymentStatus:   &req.PaymentStatus,
		ShippingStatus:  &req.ShippingStatus,
	}

	updated, err := service.UpdateOrder(r.Context(), id, patch, toItemModels(req.Products))
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, updated)
}

// patchOrderRequest represents a selective order update. Omitted header
// fields keep their stored values; products, when present, are reconciled.
type patchOrderRequest struct {
	UserID          *int64               `json:"user_id"`
	Status          *string              `json:"status"`
	ShippingAddress *string              `json:"shipping_address"`
	PaymentMethod   *string              `json:"payment_method"`
	PaymentStatus   *string              `json:"payment_status"`
	ShippingStatus  *string              `json:"shipping_status"`
	Products        []itemInOrderRequest `json:"products" validate:"omitempty,dive"`
}

// Patch handles the selective order update request.
//
//	@Summary	Patch an order
//	@Tags		orders
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int					true	"order id"
//	@Param		request	body		patchOrderRequest	true	"fields to update"
//	@Success	200		{object}	order.Order
//	@Failure	404		{object}	map[string]string
//	@Router		/orders/patch/{id} [patch]
func Patch(w http.ResponseWriter, r *http.Request, service service) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	req := patchOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, apperr.Validation("invalid request body"))
		slog.Error("Error decoding request body for order patch", "error", err)

		return
	}

	if err := validator.New().Struct(&req); err != nil {
		respond.Error(w, r, apperr.Validation(err.Error()))

		return
	}

	patch := order.Patch{
		UserID:          req.UserID,
		Status:          req.Status,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   req.PaymentStatus,
		ShippingStatus:  req.ShippingStatus,
	}

	updated, err := service.UpdateOrder(r.Context(), id, patch, toItemModels(req.Products))
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, updated)
}

// Delete handles the order deletion request.
//
//	@Summary	Delete an order and its line items
//	@Tags		orders
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"order id"
//	@Success	200	{object}	order.Order
//	@Failure	404	{object}	map[string]string
//	@Router		/orders/delete/{id} [delete]
func Delete(w http.ResponseWriter, r *http.Request, service service) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	deleted, err := service.DeleteOrder(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, deleted)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.Error(w, r, apperr.Validation("invalid id"))

		return 0, false
	}

	return id, true
}
