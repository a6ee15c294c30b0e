package service_test

import (
	"database/sql"
	"errors"
	"net/http"
	"testing"
	"time"

	cacheMocks "github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/cache/mocks"
	appErrors "github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/errors"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/models"
	repository "github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/repositories"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const productTTL = 10 * time.Minute

func newProductService() (service.ProductService, *mocks.ProductRepository, *cacheMocks.Cache) {
	repo := new(mocks.ProductRepository)
	cache := new(cacheMocks.Cache)

	return service.NewProductService(repo, cache, productTTL), repo, cache
}

func TestProductService_ListProducts(t *testing.T) {
	t.Run("Page size defaults and cap", func(t *testing.T) {
		svc, repo, _ := newProductService()

		repo.On("ListProducts", mock.Anything, models.ProductFilter{Page: 1, PageSize: service.DefaultPageSize}).
			Return([]*models.Product{}, 0, nil).Once()

		_, _, err := svc.ListProducts(t.Context(), models.ProductFilter{Page: 0, PageSize: 500})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Unpaged ignores paging", func(t *testing.T) {
		svc, repo, _ := newProductService()

		repo.On("ListProducts", mock.Anything, models.ProductFilter{Unpaged: true}).
			Return([]*models.Product{{ID: 1}, {ID: 2}}, 2, nil).Once()

		products, total, err := svc.ListProducts(t.Context(), models.ProductFilter{Unpaged: true, Page: 3, PageSize: 7})

		require.NoError(t, err)
		assert.Len(t, products, 2)
		assert.Equal(t, 2, total)
		repo.AssertExpectations(t)
	})

	t.Run("Database error", func(t *testing.T) {
		svc, repo, _ := newProductService()

		repo.On("ListProducts", mock.Anything, mock.Anything).Return(nil, 0, errors.New("boom")).Once()

		_, _, err := svc.ListProducts(t.Context(), models.ProductFilter{Page: 1, PageSize: 10})

		requireAppError(t, err, appErrors.ErrCodeDatabaseError)
	})
}

func TestProductService_GetProduct(t *testing.T) {
	product := &models.Product{ID: 5, Name: "Mug", Price: decimal.RequireFromString("9.99"), IsAvailable: true}

	t.Run("Cache hit", func(t *testing.T) {
		svc, repo, cache := newProductService()

		cache.On("Get", mock.Anything, "product:5", mock.Anything).
			Return(true, nil, func(v any) { *v.(*models.Product) = *product }).Once()

		got, err := svc.GetProduct(t.Context(), 5)

		require.NoError(t, err)
		assert.Equal(t, "Mug", got.Name)
		repo.AssertNotCalled(t, "GetProductByID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Cache miss loads available product and stores it", func(t *testing.T) {
		svc, repo, cache := newProductService()

		cache.On("Get", mock.Anything, "product:5", mock.Anything).Return(false, nil, nil).Once()
		repo.On("GetProductByID", mock.Anything, int64(5), false).Return(product, nil).Once()
		cache.On("Set", mock.Anything, "product:5", product, productTTL).Return(nil).Once()

		got, err := svc.GetProduct(t.Context(), 5)

		require.NoError(t, err)
		assert.Same(t, product, got)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("Cache failure falls through to the database", func(t *testing.T) {
		svc, repo, cache := newProductService()

		cache.On("Get", mock.Anything, "product:5", mock.Anything).Return(false, errors.New("redis down"), nil).Once()
		repo.On("GetProductByID", mock.Anything, int64(5), false).Return(product, nil).Once()
		cache.On("Set", mock.Anything, "product:5", product, productTTL).Return(errors.New("redis down")).Once()

		got, err := svc.GetProduct(t.Context(), 5)

		require.NoError(t, err)
		assert.Same(t, product, got)
	})

	t.Run("Unavailable or missing", func(t *testing.T) {
		svc, repo, cache := newProductService()

		cache.On("Get", mock.Anything, "product:6", mock.Anything).Return(false, nil, nil).Once()
		repo.On("GetProductByID", mock.Anything, int64(6), false).Return(nil, sql.ErrNoRows).Once()

		got, err := svc.GetProduct(t.Context(), 6)

		assert.Nil(t, got)
		requireAppError(t, err, appErrors.ErrCodeNotFound)
	})
}

func TestProductService_CreateProduct(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc, repo, _ := newProductService()
		hidden := false

		req := &models.CreateProductRequest{
			Name:        "Mug <i>XL</i>",
			Description: "Big",
			Price:       decimal.RequireFromString("12.50"),
			CategoryID:  2,
			Stock:       -3,
			IsAvailable: &hidden,
		}

		repo.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p *models.Product) bool {
			return p.Name == "Mug XL" && p.Stock == -3 && !p.IsAvailable
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*models.Product).ID = 10
		}).Return(nil).Once()
		repo.On("GetProductByID", mock.Anything, int64(10), true).
			Return(&models.Product{ID: 10, Name: "Mug XL", Category: &models.Category{ID: 2}}, nil).Once()

		product, err := svc.CreateProduct(t.Context(), req)

		require.NoError(t, err)
		assert.Equal(t, int64(10), product.ID)
		require.NotNil(t, product.Category)
		repo.AssertExpectations(t)
	})

	t.Run("Defaults to available", func(t *testing.T) {
		svc, repo, _ := newProductService()

		repo.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p *models.Product) bool {
			return p.IsAvailable
		})).Return(nil).Once()
		repo.On("GetProductByID", mock.Anything, int64(0), true).Return(&models.Product{}, nil).Once()

		_, err := svc.CreateProduct(t.Context(), &models.CreateProductRequest{Name: "x", Price: decimal.Zero, CategoryID: 1})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	priceCases := []struct {
		name  string
		price string
	}{
		{"Negative price", "-0.01"},
		{"Too many digits", "100000000.00"},
		{"Too many decimals", "1.005"},
	}

	for _, tc := range priceCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo, _ := newProductService()

			_, err := svc.CreateProduct(t.Context(), &models.CreateProductRequest{Name: "x", Price: decimal.RequireFromString(tc.price), CategoryID: 1})

			appErr := requireAppError(t, err, appErrors.ErrCodeValidation)
			assert.Contains(t, appErr.Fields, "price")
			repo.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
		})
	}

	t.Run("Unknown category", func(t *testing.T) {
		svc, repo, _ := newProductService()

		repo.On("CreateProduct", mock.Anything, mock.Anything).Return(repository.ErrForeignKey).Once()

		_, err := svc.CreateProduct(t.Context(), &models.CreateProductRequest{Name: "x", Price: decimal.Zero, CategoryID: 99})

		appErr := requireAppError(t, err, appErrors.ErrCodeValidation)
		assert.Contains(t, appErr.Fields, "category_id")
	})
}

func TestProductService_UpdateProduct(t *testing.T) {
	t.Run("Partial update invalidates the cache", func(t *testing.T) {
		svc, repo, cache := newProductService()
		newPrice := decimal.RequireFromString("15.00")
		available := false

		existing := &models.Product{ID: 5, Name: "Mug", Price: decimal.RequireFromString("9.99"), Stock: 3, IsAvailable: true}

		repo.On("GetProductByID", mock.Anything, int64(5), true).Return(existing, nil).Once()
		repo.On("UpdateProduct", mock.Anything, mock.MatchedBy(func(p *models.Product) bool {
			return p.Name == "Mug" && p.Price.Equal(newPrice) && p.Stock == 3 && !p.IsAvailable
		})).Return(nil).Once()
		cache.On("Delete", mock.Anything, []string{"product:5"}).Return(nil).Once()
		repo.On("GetProductByID", mock.Anything, int64(5), true).Return(existing, nil).Once()

		_, err := svc.UpdateProduct(t.Context(), 5, &models.UpdateProductRequest{Price: &newPrice, IsAvailable: &available})

		require.NoError(t, err)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("Not found", func(t *testing.T) {
		svc, repo, _ := newProductService()

		repo.On("GetProductByID", mock.Anything, int64(5), true).Return(nil, sql.ErrNoRows).Once()

		_, err := svc.UpdateProduct(t.Context(), 5, &models.UpdateProductRequest{})

		requireAppError(t, err, appErrors.ErrCodeNotFound)
	})
}

func TestProductService_DeleteProduct(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc, repo, cache := newProductService()

		repo.On("DeleteProduct", mock.Anything, int64(5)).Return(nil).Once()
		cache.On("Delete", mock.Anything, []string{"product:5"}).Return(nil).Once()

		require.NoError(t, svc.DeleteProduct(t.Context(), 5))
		cache.AssertExpectations(t)
	})

	t.Run("Not found", func(t *testing.T) {
		svc, repo, _ := newProductService()

		repo.On("DeleteProduct", mock.Anything, int64(5)).Return(sql.ErrNoRows).Once()

		requireAppError(t, svc.DeleteProduct(t.Context(), 5), appErrors.ErrCodeNotFound)
	})

	t.Run("Ordered product keeps its snapshots", func(t *testing.T) {
		svc, repo, cache := newProductService()

		repo.On("DeleteProduct", mock.Anything, int64(5)).Return(repository.ErrForeignKey).Once()

		err := svc.DeleteProduct(t.Context(), 5)

		appErr := requireAppError(t, err, appErrors.ErrCodeDuplicateEntry)
		assert.Equal(t, http.StatusConflict, appErr.StatusCode)
		cache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestProductService_SearchProducts(t *testing.T) {
	svc, repo, _ := newProductService()

	repo.On("SearchProducts", mock.Anything, "mug").Return([]*models.Product{{ID: 1}}, nil).Once()

	products, err := svc.SearchProducts(t.Context(), "mug")

	require.NoError(t, err)
	assert.Len(t, products, 1)
}
