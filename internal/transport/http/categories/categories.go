package categories

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/corray333/backend-labs/store/internal/service/models/category"
	"github.com/corray333/backend-labs/store/internal/transport/http/respond"
	"github.com/corray333/backend-labs/store/pkg/apperr"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

// service is an interface for the service layer.
type service interface {
	CreateCategory(ctx context.Context, c category.Category) (*category.Category, error)
	GetCategory(ctx context.Context, id int64) (*category.Category, error)
	GetCategories(ctx context.Context, filter category.QueryCategoriesModel) ([]category.Category, error)
}

// createCategoryRequest represents a category creation request.
type createCategoryRequest struct {
	Name             string `json:"name" validate:"required"`
	Description      string `json:"description"`
	ParentCategoryID *int64 `json:"parent_category_id"`
}

// Create handles the category creation request.
//
//	@Summary	Create a category
//	@Tags		categories
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		createCategoryRequest	true	"category data"
//	@Success	201		{object}	category.Category
//	@Failure	409		{object}	map[string]string
//	@Router		/categories/post [post]
func Create(w http.ResponseWriter, r *http.Request, service service) {
	req := createCategoryRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, apperr.Validation("invalid request body"))
		slog.Error("Error decoding request body for category create", "error", err)

		return
	}

	if err := validator.New().Struct(&req); err != nil {
		respond.Error(w, r, apperr.Validation(err.Error()))

		return
	}

	created, err := service.CreateCategory(r.Context(), category.Category{
		Name:             req.Name,
		Description:      req.Description,
		ParentCategoryID: req.ParentCategoryID,
	})
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusCreated, created)
}

type queryCategoriesRequest struct {
	Ids    []int64 `schema:"ids,omitempty"`
	Limit  int     `schema:"limit,omitempty"`
	Offset int     `schema:"offset,omitempty"`
}

// List handles the category listing request.
//
//	@Summary	List categories
//	@Tags		categories
//	@Produce	json
//	@Param		ids		query	[]int	false	"category ids"
//	@Param		limit	query	int		false	"page size"
//	@Param		offset	query	int		false	"page offset"
//	@Success	200		{array}	category.Category
//	@Router		/categories/get [get]
func List(w http.ResponseWriter, r *http.Request, service service) {
	query := &queryCategoriesRequest{}
	if err := schema.NewDecoder().Decode(query, r.URL.Query()); err != nil {
		respond.Error(w, r, apperr.Validation("invalid query parameters"))
		slog.Error("Error decoding request", "error", err)

		return
	}

	categories, err := service.GetCategories(r.Context(), category.QueryCategoriesModel{
		Ids:    query.Ids,
		Limit:  query.Limit,
		Offset: query.Offset,
	})
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, categories)
}

// Get handles the single category request.
//
//	@Summary	Get one category
//	@Tags		categories
//	@Produce	json
//	@Param		id	path		int	true	"category id"
//	@Success	200	{object}	category.Category
//	@Failure	404	{object}	map[string]string
//	@Router		/categories/get/{id} [get]
func Get(w http.ResponseWriter, r *http.Request, service service) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.Error(w, r, apperr.Validation("invalid id"))

		return
	}

	c, err := service.GetCategory(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, c)
}
