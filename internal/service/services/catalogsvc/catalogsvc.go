package catalogsvc

import (
	"context"
	"time"

	"github.com/corray333/backend-labs/store/internal/dal/interfaces/icategoryrepo"
	"github.com/corray333/backend-labs/store/internal/dal/interfaces/iproductrepo"
	"github.com/corray333/backend-labs/store/internal/service/models/category"
	"github.com/corray333/backend-labs/store/internal/service/models/currency"
	"github.com/corray333/backend-labs/store/internal/service/models/product"
	"github.com/corray333/backend-labs/store/pkg/apperr"
)

// CatalogService owns categories and products.
type CatalogService struct {
	categories icategoryrepo.ICategoryRepository
	products   iproductrepo.IProductRepository
}

// option is a function that configures the CatalogService.
type option func(*CatalogService)

// MustNewCatalogService creates a new CatalogService.
func MustNewCatalogService(opts ...option) *CatalogService {
	s := &CatalogService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.categories == nil {
		panic("catalogsvc: category repository is required")
	}
	if s.products == nil {
		panic("catalogsvc: product repository is required")
	}

	return s
}

// WithCategoryRepository sets the category repository for the CatalogService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCategoryRepository(repo icategoryrepo.ICategoryRepository) option {
	return func(s *CatalogService) {
		s.categories = repo
	}
}

// WithProductRepository sets the product repository for the CatalogService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithProductRepository(repo iproductrepo.IProductRepository) option {
	return func(s *CatalogService) {
		s.products = repo
	}
}

// CreateCategory creates a category. A duplicate name surfaces as a conflict.
// ParentCategoryID, when set, must reference an existing category.
func (s *CatalogService) CreateCategory(ctx context.Context, c category.Category) (*category.Category, error) {
	if c.Name == "" {
		return nil, apperr.Validation("missing required argument: name")
	}
	if c.Description == "" {
		return nil, apperr.Validation("missing required argument: description")
	}

	if c.ParentCategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *c.ParentCategoryID); err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound {
				return nil, apperr.Validation("parent category does not exist")
			}

			return nil, apperr.Internal("could not look up parent category", err)
		}
	}

	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	created, err := s.categories.Insert(ctx, c)
	if err != nil {
		if apperr.KindOf(err) != apperr.KindInternal {
			return nil, err
		}

		return nil, apperr.Internal("could not create category", err)
	}

	return created, nil
}

// GetCategory retrieves a single category.
func (s *CatalogService) GetCategory(ctx context.Context, id int64) (*category.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if apperr.KindOf(err) != apperr.KindInternal {
			return nil, err
		}

		return nil, apperr.Internal("could not fetch category", err)
	}

	return c, nil
}

// GetCategories retrieves categories matching the filter.
func (s *CatalogService) GetCategories(ctx context.Context, filter category.QueryCategoriesModel) ([]category.Category, error) {
	categories, err := s.categories.Query(ctx, &filter)
	if err != nil {
		return nil, apperr.Internal("could not fetch categories", err)
	}

	return categories, nil
}

// CreateProduct creates a product. The category must exist; the price must be
// positive.
func (s *CatalogService) CreateProduct(ctx context.Context, p product.Product) (*product.Product, error) {
	if p.Name == "" {
		return nil, apperr.Validation("missing required argument: name")
	}
	if p.CategoryID == 0 {
		return nil, apperr.Validation("missing required argument: category_id")
	}
	if p.PriceCents <= 0 {
		return nil, apperr.Validation("price must be positive")
	}

	if _, err := s.categories.GetByID(ctx, p.CategoryID); err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, err
		}

		return nil, apperr.Internal("could not look up category", err)
	}

	if p.PriceCurrency == "" {
		p.PriceCurrency = currency.CurrencyUSD
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	created, err := s.products.Insert(ctx, p)
	if err != nil {
		return nil, apperr.Internal("could not create product", err)
	}

	return created, nil
}

// GetProduct retrieves a single product.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*product.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		if apperr.KindOf(err) != apperr.KindInternal {
			return nil, err
		}

		return nil, apperr.Internal("could not fetch product", err)
	}

	return p, nil
}

// GetProducts retrieves products matching the filter.
func (s *CatalogService) GetProducts(ctx context.Context, filter product.QueryProductsModel) ([]product.Product, error) {
	products, err := s.products.Query(ctx, &filter)
	if err != nil {
		return nil, apperr.Internal("could not fetch products", err)
	}

	return products, nil
}
