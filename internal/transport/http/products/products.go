package products

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/corray333/backend-labs/store/internal/service/models/currency"
	"github.com/corray333/backend-labs/store/internal/service/models/product"
	"github.com/corray333/backend-labs/store/internal/transport/http/respond"
	"github.com/corray333/backend-labs/store/pkg/apperr"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

// service is an interface for the service layer.
type service interface {
	CreateProduct(ctx context.Context, p product.Product) (*product.Product, error)
	GetProduct(ctx context.Context, id int64) (*product.Product, error)
	GetProducts(ctx context.Context, filter product.QueryProductsModel) ([]product.Product, error)
}

// createProductRequest represents a product creation request. Price is in
// the smallest currency unit.
type createProductRequest struct {
	Name          string `json:"name"           validate:"required"`
	Description   string `json:"description"`
	CategoryID    int64  `json:"category_id"    validate:"gt=0"`
	PriceCents    int64  `json:"price"          validate:"gt=0"`
	PriceCurrency string `json:"price_currency" validate:"omitempty,oneof=USD"`
}

// Create handles the product creation request.
//
//	@Summary	Create a product
//	@Tags		products
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		createProductRequest	true	"product data"
//	@Success	201		{object}	product.Product
//	@Failure	400		{object}	map[string]string
//	@Router		/products/post [post]
func Create(w http.ResponseWriter, r *http.Request, service service) {
	req := createProductRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, apperr.Validation("invalid request body"))
		slog.Error("Error decoding request body for product create", "error", err)

		return
	}

	if err := validator.New().Struct(&req); err != nil {
		respond.Error(w, r, apperr.Validation(err.Error()))

		return
	}

	cur := currency.Currency(req.PriceCurrency)

	created, err := service.CreateProduct(r.Context(), product.Product{
		Name:          req.Name,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		PriceCents:    req.PriceCents,
		PriceCurrency: cur,
	})
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusCreated, created)
}

type queryProductsRequest struct {
	Ids         []int64 `schema:"ids,omitempty"`
	CategoryIds []int64 `schema:"category_ids,omitempty"`
	Limit       int     `schema:"limit,omitempty"`
	Offset      int     `schema:"offset,omitempty"`
}

// List handles the product listing request.
//
//	@Summary	List products
//	@Tags		products
//	@Produce	json
//	@Param		ids				query	[]int	false	"product ids"
//	@Param		category_ids	query	[]int	false	"category ids"
//	@Param		limit			query	int		false	"page size"
//	@Param		offset			query	int		false	"page offset"
//	@Success	200				{array}	product.Product
//	@Router		/products/get [get]
func List(w http.ResponseWriter, r *http.Request, service service) {
	query := &queryProductsRequest{}
	if err := schema.NewDecoder().Decode(query, r.URL.Query()); err != nil {
		respond.Error(w, r, apperr.Validation("invalid query parameters"))
		slog.Error("Error decoding request", "error", err)

		return
	}

	products, err := service.GetProducts(r.Context(), product.QueryProductsModel{
		Ids:         query.Ids,
		CategoryIds: query.CategoryIds,
		Limit:       query.Limit,
		Offset:      query.Offset,
	})
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, products)
}

// Get handles the single product request.
//
//	@Summary	Get one product
//	@Tags		products
//	@Produce	json
//	@Param		id	path		int	true	"product id"
//	@Success	200	{object}	product.Product
//	@Failure	404	{object}	map[string]string
//	@Router		/products/get/{id} [get]
func Get(w http.ResponseWriter, r *http.Request, service service) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.Error(w, r, apperr.Validation("invalid id"))

		return
	}

	p, err := service.GetProduct(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, p)
}
