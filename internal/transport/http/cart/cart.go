package cart

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/store/internal/service/models/cartitem"
	"github.com/corray333/backend-labs/store/internal/transport/http/middleware/auth"
	"github.com/corray333/backend-labs/store/internal/transport/http/respond"
	"github.com/corray333/backend-labs/store/pkg/apperr"
	"github.com/go-playground/validator/v10"
)

// service is an interface for the service layer.
type service interface {
	AddItem(ctx context.Context, item cartitem.CartItem) (*cartitem.CartItem, error)
	GetItems(ctx context.Context, userID int64) ([]cartitem.CartItem, error)
}

// addItemRequest represents an add-to-cart request. The user is taken from
// the token, never from the body.
type addItemRequest struct {
	ProductID int64 `json:"product_id" validate:"gt=0"`
	Quantity  int   `json:"quantity"   validate:"gt=0"`
}

// Add handles the add-to-cart request.
//
//	@Summary	Add a product to the caller's cart
//	@Tags		cart
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		addItemRequest	true	"item data"
//	@Success	201		{object}	cartitem.CartItem
//	@Failure	404		{object}	map[string]string
//	@Router		/cart/post [post]
func Add(w http.ResponseWriter, r *http.Request, service service) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		respond.Error(w, r, apperr.Unauthorized("missing bearer token"))

		return
	}

	req := addItemRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, apperr.Validation("invalid request body"))
		slog.Error("Error decoding request body for cart add", "error", err)

		return
	}

	if err := validator.New().Struct(&req); err != nil {
		respond.Error(w, r, apperr.Validation(err.Error()))

		return
	}

	item, err := service.AddItem(r.Context(), cartitem.CartItem{
		UserID:    claims.UserID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusCreated, item)
}

// List handles the cart listing request. Each caller only ever sees their
// own cart.
//
//	@Summary	List the caller's cart
//	@Tags		cart
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		cartitem.CartItem
//	@Failure	401	{object}	map[string]string
//	@Router		/cart/get [get]
func List(w http.ResponseWriter, r *http.Request, service service) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		respond.Error(w, r, apperr.Unauthorized("missing bearer token"))

		return
	}

	items, err := service.GetItems(r.Context(), claims.UserID)
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, items)
}
