package iproductrepo

import (
	"context"

	"github.com/corray333/backend-labs/store/internal/service/models/product"
)

// IProductRepository is an interface for the product catalog repository.
type IProductRepository interface {
	Insert(ctx context.Context, p product.Product) (*product.Product, error)
	GetByID(ctx context.Context, id int64) (*product.Product, error)
	// GetPriceCents resolves a product id to its current price.
	GetPriceCents(ctx context.Context, id int64) (int64, error)
	Query(ctx context.Context, filter *product.QueryProductsModel) ([]product.Product, error)
}
