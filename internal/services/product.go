package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/api/middleware"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/cache"
	appErrors "github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/errors"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/models"
	repository "github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/repositories"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/utils"
	"github.com/shopspring/decimal"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// maxPrice is the first value that does not fit NUMERIC(10, 2).
var maxPrice = decimal.New(1, 8)

type ProductService interface {
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	SearchProducts(ctx context.Context, query string) ([]*models.Product, error)

	AdminGetProduct(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, req *models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type productService struct {
	repo  repository.ProductRepository
	cache cache.Cache
	ttl   time.Duration
}

func NewProductService(repo repository.ProductRepository, cache cache.Cache, ttl time.Duration) ProductService {
	return &productService{repo: repo, cache: cache, ttl: ttl}
}

func (s *productService) ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error) {
	if filter.Unpaged {
		filter.Page, filter.PageSize = 0, 0
	} else {
		if filter.Page < 1 {
			filter.Page = 1
		}

		if filter.PageSize < 1 || filter.PageSize > MaxPageSize {
			filter.PageSize = DefaultPageSize
		}
	}

	products, total, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to fetch products").WithError(err)
	}

	return products, total, nil
}

// GetProduct only sees available products. Hits are served from the cache.
func (s *productService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	const op = "service.ProductService.GetProduct"

	logger := middleware.LoggerFromContext(ctx).With(slog.String("op", op), slog.Int64("productId", id))
	key := cache.ProductKey(id)

	var cached models.Product

	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("product cache read failed", slog.Any("error", err))
	} else if found {
		return &cached, nil
	}

	product, err := s.repo.GetProductByID(ctx, id, false)
	if err != nil {
		return nil, productLookupError(err)
	}

	if err := s.cache.Set(ctx, key, product, s.ttl); err != nil {
		logger.Warn("product cache write failed", slog.Any("error", err))
	}

	return product, nil
}

func (s *productService) SearchProducts(ctx context.Context, query string) ([]*models.Product, error) {
	products, err := s.repo.SearchProducts(ctx, query)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to search products").WithError(err)
	}

	return products, nil
}

func (s *productService) AdminGetProduct(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.repo.GetProductByID(ctx, id, true)
	if err != nil {
		return nil, productLookupError(err)
	}

	return product, nil
}

func (s *productService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	if err := validatePrice(req.Price); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        utils.SanitizeText(req.Name),
		Description: utils.SanitizeText(req.Description),
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		Image:       req.Image,
		Stock:       req.Stock,
		IsAvailable: true,
	}

	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, productWriteError(err, "Failed to create product")
	}

	return s.AdminGetProduct(ctx, product.ID)
}

func (s *productService) UpdateProduct(ctx context.Context, id int64, req *models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.AdminGetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = utils.SanitizeText(*req.Name)
	}

	if req.Description != nil {
		product.Description = utils.SanitizeText(*req.Description)
	}

	if req.Price != nil {
		if err := validatePrice(*req.Price); err != nil {
			return nil, err
		}

		product.Price = *req.Price
	}

	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}

	if req.Image != nil {
		product.Image = req.Image
	}

	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, productWriteError(err, "Failed to update product")
	}

	s.invalidate(ctx, id)

	return s.AdminGetProduct(ctx, id)
}

func (s *productService) DeleteProduct(ctx context.Context, id int64) error {
	err := s.repo.DeleteProduct(ctx, id)

	switch {
	case err == nil:
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.NotFoundError("Product not found").WithError(err)
	case errors.Is(err, repository.ErrForeignKey):
		return appErrors.DuplicateEntryError("Product is referenced by existing orders").WithError(err)
	default:
		return appErrors.DatabaseError("Failed to delete product").WithError(err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *productService) invalidate(ctx context.Context, id int64) {
	if err := s.cache.Delete(ctx, cache.ProductKey(id)); err != nil {
		middleware.LoggerFromContext(ctx).Warn("product cache invalidation failed",
			slog.Int64("productId", id), slog.Any("error", err))
	}
}

func validatePrice(price decimal.Decimal) error {
	switch {
	case price.IsNegative():
		return appErrors.AddValidationError("price", "Ensure this value is greater than or equal to 0.")
	case price.GreaterThanOrEqual(maxPrice):
		return appErrors.AddValidationError("price", "Ensure that there are no more than 10 digits in total.")
	case !price.Round(2).Equal(price):
		return appErrors.AddValidationError("price", "Ensure that there are no more than 2 decimal places.")
	}

	return nil
}

func productLookupError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.NotFoundError("Product not found").WithError(err)
	}

	return appErrors.DatabaseError("Failed to fetch product").WithError(err)
}

func productWriteError(err error, message string) error {
	if errors.Is(err, repository.ErrForeignKey) {
		return appErrors.AddValidationError("category_id", "Invalid pk - object does not exist.").WithError(err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.NotFoundError("Product not found").WithError(err)
	}

	return appErrors.DatabaseError(message).WithError(err)
}
