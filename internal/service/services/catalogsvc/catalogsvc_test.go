package catalogsvc

import (
	"context"
	"testing"

	"github.com/corray333/backend-labs/store/internal/service/models/category"
	"github.com/corray333/backend-labs/store/internal/service/models/currency"
	"github.com/corray333/backend-labs/store/internal/service/models/product"
	"github.com/corray333/backend-labs/store/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCategoryRepo struct {
	byID   map[int64]category.Category
	nextID int64
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{byID: make(map[int64]category.Category), nextID: 1}
}

func (r *fakeCategoryRepo) Insert(_ context.Context, c category.Category) (*category.Category, error) {
	for _, existing := range r.byID {
		if existing.Name == c.Name {
			return nil, apperr.Conflict("category name already exists")
		}
	}

	c.ID = r.nextID
	r.nextID++
	r.byID[c.ID] = c

	return &c, nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id int64) (*category.Category, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, apperr.NotFound("category", id)
	}

	return &c, nil
}

func (r *fakeCategoryRepo) Query(_ context.Context, _ *category.QueryCategoriesModel) ([]category.Category, error) {
	var result []category.Category
	for _, c := range r.byID {
		result = append(result, c)
	}

	return result, nil
}

type fakeProductRepo struct {
	byID   map[int64]product.Product
	nextID int64
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{byID: make(map[int64]product.Product), nextID: 1}
}

func (r *fakeProductRepo) Insert(_ context.Context, p product.Product) (*product.Product, error) {
	p.ID = r.nextID
	r.nextID++
	r.byID[p.ID] = p

	return &p, nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id int64) (*product.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, apperr.NotFound("product", id)
	}

	return &p, nil
}

func (r *fakeProductRepo) GetPriceCents(_ context.Context, id int64) (int64, error) {
	p, ok := r.byID[id]
	if !ok {
		return 0, apperr.NotFound("product", id)
	}

	return p.PriceCents, nil
}

func (r *fakeProductRepo) Query(_ context.Context, _ *product.QueryProductsModel) ([]product.Product, error) {
	var result []product.Product
	for _, p := range r.byID {
		result = append(result, p)
	}

	return result, nil
}

func newTestService() (*CatalogService, *fakeCategoryRepo, *fakeProductRepo) {
	categories := newFakeCategoryRepo()
	products := newFakeProductRepo()
	svc := MustNewCatalogService(
		WithCategoryRepository(categories),
		WithProductRepository(products),
	)

	return svc, categories, products
}

func TestCreateCategory(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.CreateCategory(context.Background(), category.Category{Name: "books", Description: "printed things"})
	require.NoError(t, err)
	assert.Equal(t, "books", created.Name)
	assert.NotZero(t, created.ID)
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateCategory(context.Background(), category.Category{Name: "books", Description: "printed things"})
	require.NoError(t, err)

	_, err = svc.CreateCategory(context.Background(), category.Category{Name: "books", Description: "printed things"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestCreateCategoryUnknownParent(t *testing.T) {
	svc, _, _ := newTestService()

	parent := int64(99)
	_, err := svc.CreateCategory(context.Background(), category.Category{
		Name:             "paperbacks",
		Description:      "soft covers",
		ParentCategoryID: &parent,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreateCategoryWithParent(t *testing.T) {
	svc, _, _ := newTestService()

	parent, err := svc.CreateCategory(context.Background(), category.Category{Name: "books", Description: "printed things"})
	require.NoError(t, err)

	child, err := svc.CreateCategory(context.Background(), category.Category{
		Name:             "paperbacks",
		Description:      "soft covers",
		ParentCategoryID: &parent.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, child.ParentCategoryID)
	assert.Equal(t, parent.ID, *child.ParentCategoryID)
}

func TestCreateProduct(t *testing.T) {
	svc, _, _ := newTestService()

	c, err := svc.CreateCategory(context.Background(), category.Category{Name: "books", Description: "printed things"})
	require.NoError(t, err)

	created, err := svc.CreateProduct(context.Background(), product.Product{
		Name:       "novel",
		CategoryID: c.ID,
		PriceCents: 999,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(999), created.PriceCents)
	assert.Equal(t, currency.CurrencyUSD, created.PriceCurrency, "currency defaults to USD")
}

func TestCreateProductValidation(t *testing.T) {
	svc, _, _ := newTestService()

	c, err := svc.CreateCategory(context.Background(), category.Category{Name: "books", Description: "printed things"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		product product.Product
	}{
		{name: "missing name", product: product.Product{CategoryID: c.ID, PriceCents: 1}},
		{name: "missing category", product: product.Product{Name: "novel", PriceCents: 1}},
		{name: "zero price", product: product.Product{Name: "novel", CategoryID: c.ID}},
		{name: "negative price", product: product.Product{Name: "novel", CategoryID: c.ID, PriceCents: -5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateProduct(context.Background(), tt.product)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

func TestCreateProductUnknownCategory(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateProduct(context.Background(), product.Product{
		Name:       "novel",
		CategoryID: 99,
		PriceCents: 1,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestGetProductUnknown(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.GetProduct(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
